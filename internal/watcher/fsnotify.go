package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// configOps are the operations that can change what Load would read.
// Chmod alone (touch, backup tools fixing modes) is ignored.
const configOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// relevant reports whether ev may have changed the config file called name.
func relevant(ev fsnotify.Event, name string) bool {
	if filepath.Base(ev.Name) != name {
		return false
	}
	return ev.Op&configOps != 0
}

// StartFsNotify reloads the config after a burst of events on the file has
// been quiet for the debounce period. The parent directory is watched so
// that editors which save by rename are still seen.
func (w *Watcher) StartFsNotify(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	w.mu.RLock()
	dir := filepath.Dir(w.path)
	name := filepath.Base(w.path)
	w.mu.RUnlock()

	if err := fw.Add(dir); err != nil {
		return err
	}
	w.log.Info("watching config", "dir", dir, "file", name)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				w.log.Error("events channel closed")
				return nil
			}
			if !relevant(ev, name) {
				continue
			}
			w.log.Debug("config event", "op", ev.Op.String())

			w.mu.RLock()
			debounce := w.debounce
			w.mu.RUnlock()
			timer.Reset(debounce)

		case <-timer.C:
			w.detect()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("fsnotify error", "error", err)
		}
	}
}
