package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/ncruces/go-strftime"
)

// Validate ensures the configuration is usable. Rule contents are checked
// separately by the rules package, which knows the field parsers.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateDateTimeFormat(); err != nil {
		return err
	}
	if err := c.validatePostProcessing(); err != nil {
		return err
	}
	if err := c.validateFiletags(); err != nil {
		return err
	}
	if err := c.validateFilesystem(); err != nil {
		return err
	}
	if err := c.validateMode(); err != nil {
		return err
	}
	if err := c.validateRules(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

func (c *Config) validateDateTimeFormat() error {
	now := time.Now()
	formats := []struct {
		key, value string
	}{
		{"datetime_format.date", c.DateTimeFormat.Date},
		{"datetime_format.datetime", c.DateTimeFormat.DateTime},
		{"datetime_format.time", c.DateTimeFormat.Time},
	}
	for _, f := range formats {
		out := strftime.Format(f.value, now)
		if strings.TrimSpace(out) == "" {
			return fmt.Errorf("%s: format %q produces an empty string", f.key, f.value)
		}
		if strings.ContainsRune(out, '/') {
			return fmt.Errorf("%s: format %q produces a path separator", f.key, f.value)
		}
	}
	return nil
}

func (c *Config) validatePostProcessing() error {
	if c.PostProcessing.Lowercase && c.PostProcessing.Uppercase {
		return errors.New("post_processing: lowercase_filename and uppercase_filename are mutually exclusive")
	}
	for i, r := range c.PostProcessing.Replacements {
		if r.Regex == "" {
			return fmt.Errorf("post_processing.replacements[%d]: regex must be set", i)
		}
		if _, err := regexp.Compile(r.Regex); err != nil {
			return fmt.Errorf("post_processing.replacements[%d]: %w", i, err)
		}
	}
	return nil
}

func (c *Config) validateFiletags() error {
	if strings.TrimSpace(c.Filetags.FilenameTagSeparator) == "" {
		return errors.New("filetags.filename_tag_separator must contain a visible character")
	}
	return nil
}

func (c *Config) validateFilesystem() error {
	for i, pattern := range c.Filesystem.Ignore {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("filesystem.ignore[%d]: %q: %w", i, pattern, err)
		}
	}
	return nil
}

func (c *Config) validateMode() error {
	if c.Mode.ConfirmThreshold < 0 || c.Mode.ConfirmThreshold > 1 {
		return errors.New("mode.confirm_threshold must be between 0 and 1")
	}
	if c.Mode.Batch && c.Mode.Interactive {
		return errors.New("mode: batch and interactive are mutually exclusive")
	}
	return nil
}

func (c *Config) validateRules() error {
	for i, rule := range c.Rules {
		label := rule.Description
		if label == "" {
			label = fmt.Sprintf("rules[%d]", i)
		}
		if rule.NameTemplate == "" {
			return fmt.Errorf("rule %q: name_template must be set", label)
		}
		for j, cond := range rule.Conditions {
			if cond.MeowURI == "" {
				return fmt.Errorf("rule %q: conditions[%d]: meowuri must be set", label, j)
			}
			if cond.Expression == nil {
				return fmt.Errorf("rule %q: conditions[%d]: expression must be set", label, j)
			}
		}
	}
	return nil
}
