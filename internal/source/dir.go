package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/raoulx24/backup-pruner/internal/backup"
	"github.com/raoulx24/backup-pruner/internal/fs"
)

// Dir lists and deletes backups stored as files in one local directory.
// Subdirectories are ignored.
type Dir struct {
	fs   fs.FS
	path string
	log  *slog.Logger
}

func NewDir(filesystem fs.FS, path string, log *slog.Logger) *Dir {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Dir{fs: filesystem, path: path, log: log}
}

func (d *Dir) Read(ctx context.Context) ([]backup.Backup, error) {
	d.log.Debug("listing directory", "path", d.path)

	root, err := d.fs.Stat(d.path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", d.path, err)
	}
	if !root.IsDir {
		return nil, fmt.Errorf("%s is not a directory", d.path)
	}

	infos, err := d.fs.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", d.path, err)
	}

	backups := make([]backup.Backup, 0, len(infos))
	for _, info := range infos {
		if info.IsDir {
			continue
		}
		b, err := backup.New(info.Name)
		if err != nil {
			continue
		}
		backups = append(backups, b)
	}

	d.log.Debug("listing done", "path", d.path, "entries", len(infos), "backups", len(backups))
	return backups, ctx.Err()
}

// Delete removes the named file. A file that is already gone counts as deleted.
func (d *Dir) Delete(ctx context.Context, name string) error {
	if name == "" || filepath.Base(name) != name {
		return fmt.Errorf("refusing to delete %q: not a plain file name", name)
	}

	full := filepath.Join(d.path, name)
	if err := d.fs.Remove(ctx, full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", full, err)
	}

	d.log.Debug("removed", "path", full)
	return nil
}
