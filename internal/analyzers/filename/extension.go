package filename

import (
	"strings"

	"autonameow/internal/mimemap"
)

// suffixAliases lists, per detected MIME type, suffixes that are kept even
// though the MIME type maps elsewhere. Content sniffing reports most source
// code as text/plain. Markdown is left out: markdown files detected as
// text/plain get "txt".
var suffixAliases = map[string]map[string][]string{
	"application/octet-stream": {
		"chm":  {"chm"},
		"mobi": {"mobi"},
	},
	"text/plain": {
		"c":       {"c"},
		"cpp":     {"cpp", "c++"},
		"csv":     {"csv"},
		"gemspec": {"gemspec"},
		"h":       {"h"},
		"java":    {"java"},
		"js":      {"js"},
		"json":    {"json"},
		"key":     {"key"},
		"puml":    {"puml"},
		"py":      {"py", "python"},
		"rake":    {"rake"},
		"sh":      {"bash", "sh"},
		"spec":    {"spec"},
		"txt":     {"txt"},
		"yaml":    {"yaml", "yml"},
	},
	"text/x-shellscript": {
		"sh": {"bash", "sh", "txt"},
		"py": {"py"},
	},
}

// LikelyExtension picks the extension a file should have given its
// current suffix and detected MIME type. The suffix is kept when it is a
// known extension of the MIME type; otherwise the MIME type's preferred
// extension wins. Unknown MIME types keep the suffix.
func LikelyExtension(mapper *mimemap.Mapper, suffix, mime string) string {
	suffix = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(suffix), "."))
	mime = strings.ToLower(strings.TrimSpace(mime))
	if mapper == nil {
		mapper = mimemap.Builtin()
	}
	if aliases, ok := suffixAliases[mime]; ok && suffix != "" {
		for ext, suffixes := range aliases {
			for _, s := range suffixes {
				if s == suffix {
					return ext
				}
			}
		}
	}
	if mime == "" || mime == mimemap.Unknown || !mimemap.IsValid(mime) {
		return suffix
	}
	if suffix != "" && mapper.HasMapping(mime, suffix) {
		return suffix
	}
	if ext := mapper.Extension(mime); ext != "" {
		return ext
	}
	return suffix
}
