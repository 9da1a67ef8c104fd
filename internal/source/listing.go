package source

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/raoulx24/backup-pruner/internal/backup"
)

// Listing reads backup names from a text file, one per line. Blank lines
// and lines that are not backups are skipped.
type Listing struct {
	path string
	log  *slog.Logger
}

func NewListing(path string, log *slog.Logger) *Listing {
	return &Listing{path: path, log: log}
}

func (l *Listing) Read(ctx context.Context) ([]backup.Backup, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var backups []backup.Backup
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		b, err := backup.New(line)
		if err != nil {
			continue
		}
		backups = append(backups, b)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	l.log.Debug("listing file read", "path", l.path, "backups", len(backups))
	return backups, ctx.Err()
}

// Noop is the deleter of sources that cannot delete; it only logs.
type Noop struct {
	log *slog.Logger
}

func NewNoop(log *slog.Logger) *Noop {
	return &Noop{log: log}
}

func (n *Noop) Delete(_ context.Context, name string) error {
	n.log.Info("noop remove", "name", name)
	return nil
}
