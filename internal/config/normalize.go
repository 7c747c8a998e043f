package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeDateTimeFormat()
	c.normalizeFiletags()
	c.normalizeFilesystem()
	c.normalizeMIME()
	c.normalizeExiftool()
	c.normalizePdftotext()
	c.normalizeRules()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.PersistenceDir) == "" {
		c.Paths.PersistenceDir = defaultPersistenceDir()
	}
	if c.Paths.PersistenceDir, err = expandPath(c.Paths.PersistenceDir); err != nil {
		return fmt.Errorf("paths.persistence_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func (c *Config) normalizeDateTimeFormat() {
	if strings.TrimSpace(c.DateTimeFormat.Date) == "" {
		c.DateTimeFormat.Date = defaultDateFormat
	}
	if strings.TrimSpace(c.DateTimeFormat.DateTime) == "" {
		c.DateTimeFormat.DateTime = defaultDateTimeFormat
	}
	if strings.TrimSpace(c.DateTimeFormat.Time) == "" {
		c.DateTimeFormat.Time = defaultTimeFormat
	}
}

func (c *Config) normalizeFiletags() {
	if c.Filetags.FilenameTagSeparator == "" {
		c.Filetags.FilenameTagSeparator = defaultTagSeparator
	}
	if c.Filetags.BetweenTagSeparator == "" {
		c.Filetags.BetweenTagSeparator = defaultBetweenTags
	}
}

func (c *Config) normalizeFilesystem() {
	c.Filesystem.CompoundSuffixes = unique(c.Filesystem.CompoundSuffixes, func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), ".")
	})
	c.Filesystem.Ignore = unique(c.Filesystem.Ignore, nil)
}

func (c *Config) normalizeMIME() {
	if len(c.MIME.PreferredExtensions) == 0 {
		return
	}
	normalized := make(map[string]string, len(c.MIME.PreferredExtensions))
	for mime, ext := range c.MIME.PreferredExtensions {
		mime = strings.ToLower(strings.TrimSpace(mime))
		if mime == "" {
			continue
		}
		normalized[mime] = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	}
	c.MIME.PreferredExtensions = normalized
}

func (c *Config) normalizeExiftool() {
	c.Exiftool.Binary = strings.TrimSpace(c.Exiftool.Binary)
	if c.Exiftool.Binary == "" {
		c.Exiftool.Binary = defaultExiftoolBinary
	}
	if c.Exiftool.TimeoutSeconds <= 0 {
		c.Exiftool.TimeoutSeconds = defaultExiftoolTimeout
	}
}

func (c *Config) normalizePdftotext() {
	c.Pdftotext.Binary = strings.TrimSpace(c.Pdftotext.Binary)
	if c.Pdftotext.Binary == "" {
		c.Pdftotext.Binary = defaultPdftotextBinary
	}
	if c.Pdftotext.TimeoutSeconds <= 0 {
		c.Pdftotext.TimeoutSeconds = defaultPdftotextTimeout
	}
}

func (c *Config) normalizeRules() {
	for i := range c.Rules {
		rule := &c.Rules[i]
		rule.Description = strings.TrimSpace(rule.Description)
		template := strings.TrimSpace(rule.NameTemplate)
		if named, ok := c.NameTemplates[template]; ok {
			template = named
		}
		rule.NameTemplate = template
		for j := range rule.Conditions {
			rule.Conditions[j].MeowURI = strings.TrimSpace(rule.Conditions[j].MeowURI)
			rule.Conditions[j].Expression = normalizeExpression(rule.Conditions[j].Expression)
		}
	}
}

// normalizeExpression converts TOML local dates and times into time.Time
// so condition parsers only deal with one time representation.
func normalizeExpression(expr any) any {
	switch v := expr.(type) {
	case toml.LocalDate:
		return v.AsTime(time.Local)
	case toml.LocalDateTime:
		return v.AsTime(time.Local)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalizeExpression(e)
		}
		return out
	}
	return expr
}

// unique trims, transforms and deduplicates values, keeping the first-seen
// order.
func unique(values []string, transform func(string) string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if transform != nil {
			v = transform(v)
		}
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
