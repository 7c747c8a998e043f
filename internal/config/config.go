package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	PersistenceDir string `toml:"persistence_dir" yaml:"persistence_dir"`
	LogDir         string `toml:"log_dir" yaml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format" yaml:"format"`
	Level         string `toml:"level" yaml:"level"`
	RetentionDays int    `toml:"retention_days" yaml:"retention_days"`
}

// DateTimeFormat holds the strftime layouts used when a date, datetime or
// time field is written into a name.
type DateTimeFormat struct {
	Date     string `toml:"date" yaml:"date"`
	DateTime string `toml:"datetime" yaml:"datetime"`
	Time     string `toml:"time" yaml:"time"`
}

// Replacement rewrites every match of Regex in a new name with Replace.
type Replacement struct {
	Regex   string `toml:"regex" yaml:"regex"`
	Replace string `toml:"replace" yaml:"replace"`
}

// PostProcessing configures the transformations applied to assembled names.
type PostProcessing struct {
	SanitizeFilename bool          `toml:"sanitize_filename" yaml:"sanitize_filename"`
	SanitizeStrict   bool          `toml:"sanitize_strict" yaml:"sanitize_strict"`
	Lowercase        bool          `toml:"lowercase_filename" yaml:"lowercase_filename"`
	Uppercase        bool          `toml:"uppercase_filename" yaml:"uppercase_filename"`
	SimplifyUnicode  bool          `toml:"simplify_unicode" yaml:"simplify_unicode"`
	Replacements     []Replacement `toml:"replacements" yaml:"replacements"`
}

// Filetags configures the filetags naming convention.
type Filetags struct {
	FilenameTagSeparator string `toml:"filename_tag_separator" yaml:"filename_tag_separator"`
	BetweenTagSeparator  string `toml:"between_tag_separator" yaml:"between_tag_separator"`
}

// Filesystem contains file discovery settings.
type Filesystem struct {
	CompoundSuffixes []string `toml:"compound_suffixes" yaml:"compound_suffixes"`
	Ignore           []string `toml:"ignore" yaml:"ignore"`
	Recurse          bool     `toml:"recurse" yaml:"recurse"`
}

// MIME holds extra MIME type to extension preferences.
type MIME struct {
	PreferredExtensions map[string]string `toml:"preferred_extensions" yaml:"preferred_extensions"`
}

// Exiftool contains configuration for the exiftool metadata extractor.
type Exiftool struct {
	Enabled        bool   `toml:"enabled" yaml:"enabled"`
	Binary         string `toml:"binary" yaml:"binary"`
	TimeoutSeconds int    `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// Pdftotext contains configuration for the PDF text extractor.
type Pdftotext struct {
	Enabled        bool   `toml:"enabled" yaml:"enabled"`
	Binary         string `toml:"binary" yaml:"binary"`
	TimeoutSeconds int    `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// Mode selects how candidate rules and missing fields are handled.
type Mode struct {
	Automagic        bool    `toml:"automagic" yaml:"automagic"`
	Batch            bool    `toml:"batch" yaml:"batch"`
	Interactive      bool    `toml:"interactive" yaml:"interactive"`
	Timid            bool    `toml:"timid" yaml:"timid"`
	DryRun           bool    `toml:"dry_run" yaml:"dry_run"`
	ConfirmThreshold float64 `toml:"confirm_threshold" yaml:"confirm_threshold"`
}

// Publisher maps a canonical publisher name to the strings that identify it.
type Publisher struct {
	Candidates map[string][]string `toml:"candidates" yaml:"candidates"`
}

// NameTemplateFields holds per-field settings.
type NameTemplateFields struct {
	Publisher Publisher `toml:"publisher" yaml:"publisher"`
}

// RawCondition is one rule condition as written in the config file.
type RawCondition struct {
	MeowURI    string `toml:"meowuri" yaml:"meowuri"`
	Expression any    `toml:"expression,omitempty" yaml:"expression,omitempty"`
}

// RawRule is a rule as written in the config file. It is validated and
// converted by the rules package.
type RawRule struct {
	Description  string         `toml:"description" yaml:"description"`
	ExactMatch   any            `toml:"exact_match,omitempty" yaml:"exact_match,omitempty"`
	RankingBias  any            `toml:"ranking_bias,omitempty" yaml:"ranking_bias,omitempty"`
	NameTemplate string         `toml:"name_template" yaml:"name_template"`
	Conditions   []RawCondition `toml:"conditions" yaml:"conditions"`
	DataSources  map[string]any `toml:"data_sources" yaml:"data_sources"`
}

// Config encapsulates all configuration values for autonameow.
//
// Configuration sections by subsystem:
//   - Paths: persistence and log directories
//   - Logging: log format, level, and retention
//   - DateTimeFormat: strftime layouts for date fields
//   - PostProcessing: sanitizing, case and unicode transforms, replacements
//   - Filetags: filetags separators
//   - Filesystem: compound suffixes, ignore globs, recursion
//   - MIME: preferred extension overrides
//   - Exiftool: metadata extractor process
//   - Pdftotext: PDF text extractor
//   - Mode: automagic, batch, interactive, timid, dry-run
//   - NameTemplates: reusable templates referenced from rules
//   - NameTemplateFields: publisher candidates
//   - Rules: the renaming rules
type Config struct {
	Paths              Paths              `toml:"paths" yaml:"paths"`
	Logging            Logging            `toml:"logging" yaml:"logging"`
	DateTimeFormat     DateTimeFormat     `toml:"datetime_format" yaml:"datetime_format"`
	PostProcessing     PostProcessing     `toml:"post_processing" yaml:"post_processing"`
	Filetags           Filetags           `toml:"filetags" yaml:"filetags"`
	Filesystem         Filesystem         `toml:"filesystem" yaml:"filesystem"`
	MIME               MIME               `toml:"mime" yaml:"mime"`
	Exiftool           Exiftool           `toml:"exiftool" yaml:"exiftool"`
	Pdftotext          Pdftotext          `toml:"pdftotext" yaml:"pdftotext"`
	Mode               Mode               `toml:"mode" yaml:"mode"`
	NameTemplates      map[string]string  `toml:"name_templates" yaml:"name_templates"`
	NameTemplateFields NameTemplateFields `toml:"name_template_fields" yaml:"name_template_fields"`
	Rules              []RawRule          `toml:"rules" yaml:"rules"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. Files ending in .yaml
// or .yml are decoded as YAML, everything else as TOML.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := decode(file, resolvedPath, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Parse decodes, normalizes, and validates configuration data without
// touching the filesystem. format is "toml" or "yaml".
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()
	name := "config." + strings.ToLower(strings.TrimSpace(format))
	if err := decode(strings.NewReader(string(data)), name, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(r io.Reader, name string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		err := yaml.NewDecoder(r).Decode(cfg)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	default:
		return toml.NewDecoder(r).Decode(cfg)
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("autonameow.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the persistence and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.PersistenceDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ExiftoolBinary returns the exiftool executable name.
func (c *Config) ExiftoolBinary() string {
	if b := strings.TrimSpace(c.Exiftool.Binary); b != "" {
		return b
	}
	return defaultExiftoolBinary
}

// PdftotextBinary returns the configured pdftotext command.
func (c *Config) PdftotextBinary() string {
	if b := strings.TrimSpace(c.Pdftotext.Binary); b != "" {
		return b
	}
	return defaultPdftotextBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultPersistenceDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "autonameow")
	}
	return "~/.cache/autonameow"
}

// Sample returns the annotated sample configuration.
func Sample() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders c as TOML.
func (c *Config) Encode(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(c)
}
