package watcher

import (
	"os"

	"github.com/raoulx24/backup-pruner/internal/config"
)

// detect reloads the config if the file changed since the last load.
func (w *Watcher) detect() {
	w.mu.RLock()
	path := w.path
	lastMod := w.lastModTime
	lastSize := w.lastSize
	w.mu.RUnlock()

	info, err := os.Stat(path)
	if err != nil {
		w.log.Debug("config stat failed", "error", err)
		return
	}

	if info.ModTime().Equal(lastMod) && info.Size() == lastSize {
		return
	}

	if !w.isFileStable() {
		w.log.Debug("config still being written, waiting")
		return
	}

	cfg, err := config.Load(path)
	if err != nil {
		w.log.Error("config reload failed", "error", err)
		// do not retry the same broken content on every tick
		w.remember()
		return
	}

	w.remember()
	w.log.Info("config reloaded")
	w.onReload(cfg)
}

// remember records the current mtime and size of the config file.
func (w *Watcher) remember() {
	info, err := os.Stat(w.path)
	if err != nil {
		return
	}
	w.mu.Lock()
	w.lastModTime = info.ModTime()
	w.lastSize = info.Size()
	w.mu.Unlock()
}
