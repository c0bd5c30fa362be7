package config

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads, parses, and validates a configuration file.
//
// Files with a .yaml or .yml extension are parsed as YAML; anything else is
// parsed as the legacy key=value format (one pair per line, # comments).
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = parseYAML(data)
	default:
		cfg, err = parseKeyValue(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func parseYAML(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// legacyKeys maps the key=value config names onto Config fields.
// The names are the tool's historical external interface and are preserved
// exactly, including casing.
var legacyKeys = map[string]func(cfg *Config, value string) error{
	"fileA":      func(c *Config, v string) error { c.FileA = v; return nil },
	"fileB":      func(c *Config, v string) error { c.FileB = v; return nil },
	"reportfile": func(c *Config, v string) error { c.ReportFile = v; return nil },
	"fileADel":   func(c *Config, v string) error { c.FileADelimiter = decodeDelimiter(v); return nil },
	"fileBDel":   func(c *Config, v string) error { c.FileBDelimiter = decodeDelimiter(v); return nil },
	"metafile":   func(c *Config, v string) error { c.MetaFile = v; return nil },
	"fileAOnly":  func(c *Config, v string) error { c.FileAOnly = v; return nil },
	"fileBOnly":  func(c *Config, v string) error { c.FileBOnly = v; return nil },
	"colwidths": func(c *Config, v string) error {
		widths, err := parseIntList(v)
		c.ColumnWidths = widths
		return err
	},
	"keyfields": func(c *Config, v string) error {
		fields, err := parseIntList(v)
		c.KeyFields = fields
		return err
	},
	"ignorefields": func(c *Config, v string) error {
		fields, err := parseIntList(v)
		c.IgnoreFields = fields
		return err
	},
	"skipRecs": func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		c.SkipRecords = n
		return err
	},
	"keyMismatchThreshold": func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		c.SampleThreshold = n
		return err
	},
}

func parseKeyValue(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	seenSkip := false

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("line %d: expected key=value, got %q", lineNum, line)
		}
		key = strings.TrimSpace(key)

		set, known := legacyKeys[key]
		if !known {
			return nil, fmt.Errorf("line %d: unknown config key %q", lineNum, key)
		}
		if err := set(cfg, value); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", lineNum, key, err)
		}
		if key == "skipRecs" {
			seenSkip = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// The legacy format always stated skipRecs explicitly; keep requiring
	// it there so a missing header-skip is caught, not defaulted.
	if !seenSkip {
		return nil, fmt.Errorf("skipRecs is required")
	}

	return cfg, nil
}

// decodeDelimiter maps the escape "\t" to a literal tab. The key=value
// parser trims whitespace from each line, so a tab delimiter must be
// spelled as an escape to survive loading.
func decodeDelimiter(v string) string {
	if v == `\t` {
		return "\t"
	}
	return v
}

// parseIntList parses a comma-separated list of integers ("1,4,7").
func parseIntList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid list entry %q: %w", part, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// LoadFieldNames reads field display names from a meta file, one per line.
func LoadFieldNames(path string) ([]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided meta path is expected
	if err != nil {
		return nil, fmt.Errorf("reading meta file: %w", err)
	}

	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	return names, scanner.Err()
}
