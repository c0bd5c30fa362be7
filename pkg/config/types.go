// Package config provides configuration loading and validation for recdiff.
package config

import (
	"fmt"
	"net/url"
	"time"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Mode is the record layout of the input files.
type Mode string

const (
	// ModeDelimited splits records on a per-file delimiter character.
	ModeDelimited Mode = "delimited"

	// ModeFixedWidth slices records by configured column widths.
	ModeFixedWidth Mode = "fixed-width"
)

// Config is the resolved comparison configuration. The core packages accept
// only this struct, never raw key strings.
type Config struct {
	// FileA and FileB are the input record sources.
	FileA string `yaml:"file_a"`
	FileB string `yaml:"file_b"`

	// ReportFile is the output report path.
	ReportFile string `yaml:"report_file"`

	// FileADelimiter and FileBDelimiter are per-file field delimiters
	// (delimited mode). Must each be a single character.
	FileADelimiter string `yaml:"file_a_delimiter,omitempty"`
	FileBDelimiter string `yaml:"file_b_delimiter,omitempty"`

	// ColumnWidths are the ordered field widths (fixed-width mode).
	ColumnWidths []int `yaml:"column_widths,omitempty"`

	// MetaFile is an optional file of field display names, one per line.
	MetaFile string `yaml:"meta_file,omitempty"`

	// KeyFields are the 1-based field positions composing a record's key.
	// When empty, the whole record is its own key and common records are
	// compared under arity equality.
	KeyFields []int `yaml:"key_fields,omitempty"`

	// IgnoreFields are 1-based field positions excluded from diffing.
	IgnoreFields []int `yaml:"ignore_fields,omitempty"`

	// SkipRecords is the number of leading records to skip per file.
	SkipRecords int `yaml:"skip_records"`

	// FileAOnly and FileBOnly are optional output paths for
	// exclusive-record dumps.
	FileAOnly string `yaml:"file_a_only,omitempty"`
	FileBOnly string `yaml:"file_b_only,omitempty"`

	// SampleThreshold caps the number of sampled diffs recorded per
	// field. Zero means unbounded sampling.
	SampleThreshold int `yaml:"sample_threshold,omitempty"`

	// Webhooks are optional endpoints notified with the report (YAML
	// config only).
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// Mode returns the resolved record layout. Delimited wins when both
// delimiters and column widths are configured.
func (c *Config) Mode() (Mode, error) {
	if c.FileADelimiter != "" && c.FileBDelimiter != "" {
		return ModeDelimited, nil
	}
	if len(c.ColumnWidths) > 0 {
		return ModeFixedWidth, nil
	}
	return "", fmt.Errorf("missing delimiter or column width information")
}

// DelimiterA returns fileA's delimiter as a rune.
func (c *Config) DelimiterA() rune {
	r, _ := utf8.DecodeRuneInString(c.FileADelimiter)
	return r
}

// DelimiterB returns fileB's delimiter as a rune.
func (c *Config) DelimiterB() rune {
	r, _ := utf8.DecodeRuneInString(c.FileBDelimiter)
	return r
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.FileA, validation.Required),
		validation.Field(&c.FileB, validation.Required),
		validation.Field(&c.ReportFile, validation.Required),
		validation.Field(&c.SkipRecords, validation.Min(0)),
		validation.Field(&c.SampleThreshold, validation.Min(0)),
	); err != nil {
		return err
	}

	if _, err := c.Mode(); err != nil {
		return err
	}

	for _, d := range []struct{ name, value string }{
		{"fileADel", c.FileADelimiter},
		{"fileBDel", c.FileBDelimiter},
	} {
		if d.value != "" && utf8.RuneCountInString(d.value) != 1 {
			return fmt.Errorf("%s: delimiter must be a single character, got %q", d.name, d.value)
		}
	}

	for i, w := range c.ColumnWidths {
		if w < 1 {
			return fmt.Errorf("colwidths[%d]: width must be >= 1, got %d", i, w)
		}
	}

	if err := validatePositions("keyfields", c.KeyFields); err != nil {
		return err
	}
	if err := validatePositions("ignorefields", c.IgnoreFields); err != nil {
		return err
	}

	for i := range c.Webhooks {
		if err := c.Webhooks[i].validate(); err != nil {
			name := c.Webhooks[i].Name
			if name == "" {
				name = c.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validatePositions(name string, positions []int) error {
	for i, p := range positions {
		if p < 1 {
			return fmt.Errorf("%s[%d]: field positions are 1-based, got %d", name, i, p)
		}
	}
	return nil
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnMismatch fires only when differences were found
	// (default).
	WebhookTriggerOnMismatch WebhookTrigger = "on_mismatch"
	// WebhookTriggerAlways fires after every comparison.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines an endpoint for sending comparison reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication. Supports
	// ${VAR} environment expansion.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires. Defaults to
	// "on_mismatch".
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout. Defaults to 10s.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

func (wh *WebhookConfig) validate() error {
	if wh.URL == "" {
		return fmt.Errorf("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerOnMismatch
	case WebhookTriggerOnMismatch, WebhookTriggerAlways, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be on_mismatch, always, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}
