package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatchWithoutFile is returned by CheckWatch when watching is requested
// without a config path.
var ErrWatchWithoutFile = errors.New("-watch needs -config")

// CheckWatch rejects watching when there is no file to watch.
func CheckWatch(watch bool, path string) error {
	if watch && path == "" {
		return ErrWatchWithoutFile
	}
	return nil
}

// Watcher reloads a config file when it changes on disk and hands the
// result to a callback. Every reload decodes over the startup base, so a
// key removed from the file falls back to it. Invalid files are logged and
// skipped.
type Watcher struct {
	path     string
	base     Settings
	debounce time.Duration
	onChange func(Settings)
	watcher  *fsnotify.Watcher
	started  bool
	done     chan struct{}
}

// NewWatcher watches the directory holding path, so editors that replace
// the file on save are still seen.
func NewWatcher(path string, base Settings, debounce time.Duration, onChange func(Settings)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     abs,
		base:     base,
		debounce: debounce,
		onChange: onChange,
		watcher:  fw,
		done:     make(chan struct{}),
	}, nil
}

// Start runs the event loop until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	slog.Info("watching config", "path", w.path)
	w.started = true

	timer := time.NewTimer(0)
	<-timer.C

	go func() {
		defer close(w.done)
		defer timer.Stop()
		for {
			select {
			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.relevant(ev) {
					continue
				}
				slog.Debug("config change detected", "file", ev.Name, "op", ev.Op.String())
				timer.Reset(w.debounce)

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				slog.Error("config watcher", "err", err)

			case <-timer.C:
				w.reload()

			case <-ctx.Done():
				return
			}
		}
	}()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	s, err := Load(w.path, w.base)
	if err != nil {
		slog.Warn("config reload skipped", "path", w.path, "err", err)
		return
	}
	slog.Info("config reloaded", "path", w.path)
	w.onChange(s)
}

// Close stops watching and waits for the event loop to exit if it was
// started.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if w.started {
		<-w.done
	}
	return err
}
