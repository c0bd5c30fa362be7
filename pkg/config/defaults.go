package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Default values for configuration.
const (
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvReportFile      = "RECDIFF_REPORT_FILE"
	EnvSampleThreshold = "RECDIFF_SAMPLE_THRESHOLD"
)

// DefaultConfig returns an empty configuration ready for population.
func DefaultConfig() *Config {
	return &Config{}
}

// applyEnvironmentOverrides applies environment variable overrides to the
// config.
func (c *Config) applyEnvironmentOverrides() {
	if path := os.Getenv(EnvReportFile); path != "" {
		c.ReportFile = path
	}
	if v := os.Getenv(EnvSampleThreshold); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SampleThreshold = n
		}
	}
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}

	return s
}
