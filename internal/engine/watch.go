package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mj1618/formfill/internal/config"
)

// DefaultReloadDelay is how long Watch waits for writes to settle.
const DefaultReloadDelay = 500 * time.Millisecond

// ErrNotWatchable is returned by Watch for sources without a local file.
var ErrNotWatchable = errors.New("configuration source has no local file")

// Watch reloads src whenever its file is written or recreated, until ctx
// is cancelled. The containing directory is watched so that editors which
// replace the file on save are noticed.
func (e *Engine) Watch(ctx context.Context, src config.Source, delay time.Duration) error {
	path, ok := e.reader.Opener().LocalPath(src)
	if !ok {
		return fmt.Errorf("watch %s: %w", src, ErrNotWatchable)
	}
	path = filepath.Clean(path)
	if delay <= 0 {
		delay = DefaultReloadDelay
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	go e.processEvents(ctx, watcher, path, src, delay)

	e.logger.Info().Str("path", path).Msg("Watching configuration file")
	return nil
}

func (e *Engine) processEvents(ctx context.Context, watcher *fsnotify.Watcher, path string, src config.Source, delay time.Duration) {
	var reloadTimer *time.Timer
	defer func() {
		if reloadTimer != nil {
			reloadTimer.Stop()
		}
		_ = watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || filepath.Clean(event.Name) != path {
				continue
			}
			e.logger.Debug().
				Str("file", event.Name).
				Str("op", event.Op.String()).
				Msg("Configuration file changed")

			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(delay, func() {
				e.logger.Info().Str("source", src.String()).Msg("Reloading configuration")
				e.LoadConfiguration(src, false)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error().Err(err).Msg("Watcher error")
		}
	}
}
