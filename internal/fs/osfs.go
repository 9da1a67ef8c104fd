package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// OSFS is the FS backed by the local OS filesystem.
type OSFS struct{}

func New() *OSFS {
	return &OSFS{}
}

func (o *OSFS) Stat(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return infoOf(path, st), nil
}

// ReadDir lists the entries of dir sorted by name. Entries that vanish
// between listing and stat are skipped.
func (o *OSFS) ReadDir(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	out := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		st, err := e.Info()
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, infoOf(filepath.Join(dir, e.Name()), st))
	}
	return out, nil
}

// Remove deletes a single file, retrying transient errors.
func (o *OSFS) Remove(ctx context.Context, path string) error {
	return retry(ctx, "remove", func() error {
		return os.Remove(path)
	})
}

func infoOf(path string, st os.FileInfo) FileInfo {
	return FileInfo{
		Path:  path,
		Name:  st.Name(),
		Size:  st.Size(),
		MTime: st.ModTime(),
		IsDir: st.IsDir(),
	}
}
