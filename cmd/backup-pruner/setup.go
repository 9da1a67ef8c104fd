package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/raoulx24/backup-pruner/internal/config"
	"github.com/raoulx24/backup-pruner/internal/logging"
)

// readConfig decodes the config file. A missing file is only an error when
// required; otherwise flags must supply the source.
func readConfig(path string, required bool) (*config.Config, error) {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !required:
		return &config.Config{}, nil
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return config.Decode(data)
}

// finishConfig applies the global flag overrides, defaults and validation.
func finishConfig(cfg *config.Config) error {
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	cfg.ApplyDefaults()
	return cfg.Validate()
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	log, err := logging.New(cfg.Logging, w)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return log, nil
}
