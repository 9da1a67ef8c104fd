package watcher

import (
	"github.com/raoulx24/backup-pruner/internal/config"
)

// UpdateConfig applies a reloaded configReload section. A new poll interval
// takes effect after the next tick; a new method needs a restart.
func (w *Watcher) UpdateConfig(cfg config.ReloadConfig) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if cfg.PollInterval > 0 {
		w.interval = cfg.PollInterval
	}
	if cfg.Method != w.mode {
		w.log.Warn("config reload method changed, restart to apply", "current", w.mode, "configured", cfg.Method)
	}
}
