// Package fs defines the filesystem abstraction used by backup-pruner.
// It provides the FS interface and the FileInfo type shared by the local
// backup source.
package fs

import (
	"context"
	"time"
)

type FileInfo struct {
	Path  string
	Name  string
	Size  int64
	MTime time.Time
	IsDir bool
}

type FS interface {
	Stat(path string) (FileInfo, error)
	ReadDir(path string) ([]FileInfo, error)
	Remove(ctx context.Context, path string) error
}
