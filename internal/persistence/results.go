package persistence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"autonameow/internal/fileobject"
)

// ResultCache stores producer output keyed by the file's partial hash and
// where it lives. Producers such as exiftool report path and stat data next
// to content metadata, so a copy, a moved file or a touched file misses the
// cache. Each producer gets its own cache owner.
type ResultCache struct {
	store *Store

	mu     sync.Mutex
	caches map[string]*Cache
}

// NewResultCache returns a producer result cache backed by store.
func NewResultCache(store *Store) *ResultCache {
	return &ResultCache{store: store, caches: make(map[string]*Cache)}
}

func (rc *ResultCache) cache(producer string) (*Cache, error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if c, ok := rc.caches[producer]; ok {
		return c, nil
	}
	c, err := rc.store.Cache(producer)
	if err != nil {
		return nil, err
	}
	rc.caches[producer] = c
	return c, nil
}

// LoadResults returns the cached output of producer for file.
func (rc *ResultCache) LoadResults(ctx context.Context, producer string, file *fileobject.FileObject) (map[string]any, bool, error) {
	key := ResultKey(file)
	if key == "" {
		return nil, false, nil
	}
	c, err := rc.cache(producer)
	if err != nil {
		return nil, false, err
	}
	blob, err := c.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	results, err := DecodeResults(blob)
	if err != nil {
		if derr := c.Delete(ctx, key); derr != nil {
			return nil, false, errors.Join(err, derr)
		}
		return nil, false, err
	}
	return results, true, nil
}

// StoreResults caches the output of producer for file.
func (rc *ResultCache) StoreResults(ctx context.Context, producer string, file *fileobject.FileObject, results map[string]any) error {
	key := ResultKey(file)
	if key == "" {
		return nil
	}
	c, err := rc.cache(producer)
	if err != nil {
		return err
	}
	blob, err := EncodeResults(results)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, blob)
}

// ResultKey is the cache key of file: its partial hash followed by a digest
// of its path, size, mode and modification time. Files without a hash have
// no key.
func ResultKey(file *fileobject.FileObject) string {
	if file == nil || file.HashPartial == "" {
		return ""
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00%d\x00%d", file.AbsPath, file.Bytesize, uint32(file.Mode), file.ModTime.UnixNano())
	return file.HashPartial + "." + hex.EncodeToString(h.Sum(nil))[:16]
}

type typedValue struct {
	Kind  string          `json:"k"`
	Value json.RawMessage `json:"v,omitempty"`
	List  []typedValue    `json:"l,omitempty"`
}

// EncodeResults serializes producer output keeping the Go types the
// coercers understand.
func EncodeResults(results map[string]any) ([]byte, error) {
	out := make(map[string]typedValue, len(results))
	for leaf, v := range results {
		tv, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("%w: leaf %s: %v", ErrSerialization, leaf, err)
		}
		out[leaf] = tv
	}
	blob, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return blob, nil
}

// DecodeResults reverses EncodeResults.
func DecodeResults(blob []byte) (map[string]any, error) {
	var raw map[string]typedValue
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	out := make(map[string]any, len(raw))
	for leaf, tv := range raw {
		v, err := decodeValue(tv)
		if err != nil {
			return nil, fmt.Errorf("%w: leaf %s: %v", ErrSerialization, leaf, err)
		}
		out[leaf] = v
	}
	return out, nil
}

func encodeValue(v any) (typedValue, error) {
	var kind string
	switch x := v.(type) {
	case nil:
		return typedValue{Kind: "null"}, nil
	case string:
		kind = "string"
	case []byte:
		kind = "bytes"
	case bool:
		kind = "bool"
	case int, int64, int32:
		kind = "int"
	case float64, float32:
		kind = "float"
	case time.Time:
		kind = "time"
		v = x.Format(time.RFC3339Nano)
	case []string:
		list := make([]typedValue, len(x))
		for i, s := range x {
			list[i] = typedValue{Kind: "string", Value: mustJSON(s)}
		}
		return typedValue{Kind: "list", List: list}, nil
	case []any:
		list := make([]typedValue, len(x))
		for i, item := range x {
			tv, err := encodeValue(item)
			if err != nil {
				return typedValue{}, err
			}
			list[i] = tv
		}
		return typedValue{Kind: "list", List: list}, nil
	default:
		return typedValue{}, fmt.Errorf("unsupported type %T", v)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return typedValue{}, err
	}
	return typedValue{Kind: kind, Value: raw}, nil
}

func mustJSON(s string) json.RawMessage {
	raw, _ := json.Marshal(s)
	return raw
}

func decodeValue(tv typedValue) (any, error) {
	switch tv.Kind {
	case "null":
		return nil, nil
	case "list":
		out := make([]any, len(tv.List))
		for i, item := range tv.List {
			v, err := decodeValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case "string":
		var s string
		err := json.Unmarshal(tv.Value, &s)
		return s, err
	case "bytes":
		var b []byte
		err := json.Unmarshal(tv.Value, &b)
		return b, err
	case "bool":
		var b bool
		err := json.Unmarshal(tv.Value, &b)
		return b, err
	case "int":
		var n int64
		err := json.Unmarshal(tv.Value, &n)
		return int(n), err
	case "float":
		var f float64
		err := json.Unmarshal(tv.Value, &f)
		return f, err
	case "time":
		var s string
		if err := json.Unmarshal(tv.Value, &s); err != nil {
			return nil, err
		}
		return time.Parse(time.RFC3339Nano, s)
	default:
		return nil, fmt.Errorf("unknown kind %q", tv.Kind)
	}
}
