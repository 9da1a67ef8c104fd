// Package watcher monitors the config file and reloads it when it changes.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/raoulx24/backup-pruner/internal/config"
	"github.com/raoulx24/backup-pruner/internal/fsprobe"
)

// ReloadFunc receives every successfully loaded configuration.
type ReloadFunc func(cfg *config.Config)

// Watcher observes the config file and calls the reload hook on change.
// A file that fails to load keeps the previous configuration active.
type Watcher struct {
	mu sync.RWMutex

	path      string
	mode      string
	interval  time.Duration
	debounce  time.Duration
	stability time.Duration

	log *slog.Logger

	lastModTime time.Time
	lastSize    int64

	onReload ReloadFunc
}

// New creates a watcher for the config file at path.
func New(path string, cfg config.ReloadConfig, log *slog.Logger, onReload ReloadFunc) *Watcher {
	w := &Watcher{
		path:      path,
		mode:      cfg.Method,
		interval:  cfg.PollInterval,
		debounce:  300 * time.Millisecond,
		stability: 100 * time.Millisecond,
		log:       log.With("component", "watcher", "path", path),
		onReload:  onReload,
	}
	w.remember()
	return w
}

// Start chooses the correct watching strategy based on config.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.RLock()
	mode := w.mode
	w.mu.RUnlock()

	switch mode {
	case "fsnotify":
		return w.StartFsNotify(ctx)

	case "poll":
		w.StartPolling(ctx)
		return nil

	case "auto", "":
		res := fsprobe.Probe(filepath.Dir(w.path), 0)
		if res.FsnotifySupported {
			return w.StartFsNotify(ctx)
		}
		w.log.Warn("fsnotify disabled", "reason", res.Reason)
		w.StartPolling(ctx)
		return nil

	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}
