package catalog

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events editors emit for a single save.
const watchDebounce = 200 * time.Millisecond

// Watch reloads the catalog whenever its file changes on disk. It watches the
// parent directory so atomic rename-style saves are picked up, and blocks until
// the context is cancelled.
func (c *FileCatalog) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Join(ErrLoadFailed, err)
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(filepath.Dir(c.path)); err != nil {
		return errors.Join(ErrLoadFailed, err)
	}

	var (
		pending bool
		timer   = time.NewTimer(watchDebounce)
	)
	if !timer.Stop() {
		<-timer.C
	}

	target := filepath.Clean(c.path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if pending {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}
			pending = true
			timer.Reset(watchDebounce)

		case <-timer.C:
			pending = false
			if err := c.Reload(); err != nil {
				c.logger.Error("catalog reload failed",
					slog.String("path", c.path),
					slog.Any("error", err))
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			c.logger.Error("catalog watcher error", slog.Any("error", err))
		}
	}
}
