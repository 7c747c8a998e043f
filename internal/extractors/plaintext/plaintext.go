package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"autonameow/internal/coercers"
	"autonameow/internal/fields"
	"autonameow/internal/fileobject"
	"autonameow/internal/meowuri"
	"autonameow/internal/producer"
	"autonameow/internal/textutil"
)

// Prefix is the MeowURI prefix of the plain text extractor.
var Prefix = meowuri.MustNew("extractor.text.plain")

// DefaultMaxBytes caps how much of a file is read.
const DefaultMaxBytes = 4 << 20

var meta = map[string]producer.FieldSpec{
	"full": producer.Spec(coercers.String, fields.GenericText),
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options configures the extractor.
type Options struct {
	MaxBytes int64
}

// Extractor reports the text of plain text files.
type Extractor struct {
	maxBytes int64
}

// New returns a plain text extractor.
func New(opts Options) *Extractor {
	limit := opts.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	return &Extractor{maxBytes: limit}
}

func (*Extractor) Name() string { return "text.plain" }

func (*Extractor) URIPrefix() meowuri.URI { return Prefix }

func (*Extractor) MetaInfo() map[string]producer.FieldSpec { return meta }

func (*Extractor) CheckDependencies() bool { return true }

func (*Extractor) CanHandle(file *fileobject.FileObject) bool {
	return file != nil && file.MIMEType == "text/plain"
}

func (e *Extractor) Produce(ctx context.Context, file *fileobject.FileObject, _ producer.Requester) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(file.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file.AbsPath, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, e.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.AbsPath, err)
	}
	text := textutil.NormalizeText(Decode(data))
	if text == "" {
		return nil, nil
	}
	return map[string]any{"full": text}, nil
}

// Decode returns data as a string. UTF-8 input, with or without a byte
// order mark, is used as is; a rune cut off at the end is dropped. Anything
// else is read as Windows-1252.
func Decode(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	for cut := 1; cut < utf8.UTFMax && cut <= len(data); cut++ {
		if head := data[:len(data)-cut]; utf8.Valid(head) && !utf8.FullRune(data[len(data)-cut:]) {
			return string(head)
		}
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(bytes.ToValidUTF8(data, []byte("�")))
	}
	return string(out)
}
