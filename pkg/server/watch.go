package server

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/beanchain/pkg/errors"
	"github.com/matzehuels/beanchain/pkg/service"
)

// DefaultDebounce is the quiet period after the last change to a watched
// file before it is reloaded.
const DefaultDebounce = 250 * time.Millisecond

// ReloadFunc builds a fresh service from the current data.
type ReloadFunc func(ctx context.Context) (*service.Service, error)

// Watch reloads the served service whenever path changes, until ctx is done.
//
// The directory of path is watched rather than the file itself so that
// editors replacing the file by rename are noticed. A failed reload is
// logged and the current service keeps serving.
func (s *Server) Watch(ctx context.Context, path string, reload ReloadFunc, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "resolve %s", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create watcher")
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "watch %s", filepath.Dir(abs))
	}

	s.logger.Info("watching data file", "path", abs)
	go s.watchLoop(ctx, watcher, abs, reload, debounce)
	return nil
}

func (s *Server) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, reload ReloadFunc, debounce time.Duration) {
	defer watcher.Close()

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !relevant(event, path) {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watch error", "error", err)

		case <-timer.C:
			start := time.Now()
			svc, err := reload(ctx)
			if err != nil {
				s.logger.Error("reload failed, keeping current graph", "path", path, "error", err)
				continue
			}
			s.Swap(svc)
			s.logger.Info("reloaded bean graph", "path", path, "duration", time.Since(start))
		}
	}
}

// relevant reports whether event may have changed the contents of path.
func relevant(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
