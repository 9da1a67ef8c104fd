// Package source provides the backends that list and delete backups:
// a local directory, a listing file and an S3 bucket.
package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raoulx24/backup-pruner/internal/config"
	"github.com/raoulx24/backup-pruner/internal/fs"
	"github.com/raoulx24/backup-pruner/internal/retention"
)

// Open builds the reader and deleter for the configured source kind.
// Backends with a remote client hand the same client to both.
func Open(ctx context.Context, cfg config.SourceConfig, log *slog.Logger) (retention.Reader, retention.Deleter, error) {
	log = log.With("source", cfg.Kind)

	switch config.NormalizeKind(cfg.Kind) {
	case config.SourceDir:
		d := NewDir(fs.New(), cfg.Path, log)
		return d, d, nil

	case config.SourceListing:
		return NewListing(cfg.Path, log), NewNoop(log), nil

	case config.SourceS3:
		client, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		return NewS3Reader(client, cfg.S3, log), NewS3Deleter(client, cfg.S3, log), nil

	default:
		return nil, nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}
