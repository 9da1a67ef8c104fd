package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultCron         = "0 3 * * *"
	DefaultPollInterval = 10 * time.Second
)

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// replaces $(VAR) with os.Getenv(VAR)
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := mapEnvKey(envPattern.FindStringSubmatch(m)[1])
		return os.Getenv(key)
	})
}

// Load reads, expands and decodes the YAML file at path, then applies
// defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse is Load without the file read.
func Parse(data []byte) (*Config, error) {
	cfg, err := Decode(data)
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode expands $(VAR) placeholders and unmarshals data without applying
// defaults or validating, for callers that still override fields.
func Decode(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	return &cfg, nil
}

// NormalizeKind resolves the accepted aliases of a source kind.
func NormalizeKind(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "dir", "directory", "local":
		return SourceDir
	case "listing", "fs", "filesystem", "file":
		return SourceListing
	case "s3", "remote":
		return SourceS3
	default:
		return kind
	}
}

// ApplyDefaults fills the optional fields left empty in the file.
func (c *Config) ApplyDefaults() {
	c.Source.Kind = NormalizeKind(c.Source.Kind)
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = DefaultCron
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.ConfigReload.Method == "" {
		c.ConfigReload.Method = "auto"
	}
	if c.ConfigReload.PollInterval <= 0 {
		c.ConfigReload.PollInterval = DefaultPollInterval
	}
}

// Validate checks that the selected source has what it needs.
func (c *Config) Validate() error {
	var errs []error

	switch c.Source.Kind {
	case SourceDir, SourceListing:
		if c.Source.Path == "" {
			errs = append(errs, fmt.Errorf("source.path is required for %q sources", c.Source.Kind))
		}
	case SourceS3:
		if c.Source.S3.Bucket == "" {
			errs = append(errs, errors.New("source.s3.bucket is required for s3 sources"))
		}
	case "":
		errs = append(errs, errors.New("source.kind is required"))
	default:
		errs = append(errs, fmt.Errorf("unknown source kind %q", c.Source.Kind))
	}

	switch c.ConfigReload.Method {
	case "auto", "fsnotify", "poll":
	default:
		errs = append(errs, fmt.Errorf("unknown configReload.method %q", c.ConfigReload.Method))
	}

	return errors.Join(errs...)
}
