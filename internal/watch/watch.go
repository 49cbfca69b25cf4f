// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch reports changes to document input files so the CLI can
// regenerate them as they are edited.
package watch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long a file must stay quiet before a change is
// reported. Editors often write a file in several steps.
const DefaultDebounce = 200 * time.Millisecond

// Watcher observes a fixed set of files. It watches their parent
// directories so that editors which save by rename are still seen.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	log      logrus.FieldLogger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger used for watcher errors.
func WithLogger(log logrus.FieldLogger) Option {
	return func(w *Watcher) { w.log = log }
}

// New creates a watcher for paths.
func New(paths []string, opts ...Option) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)
	w := &Watcher{fs: fw, files: make(map[string]bool), debounce: DefaultDebounce, log: discard}
	for _, o := range opts {
		o(w)
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Watch emits the absolute path of each watched file that changed. The
// channel is closed when ctx is done or the watcher is stopped.
func (w *Watcher) Watch(ctx context.Context) <-chan string {
	out := make(chan string, len(w.files))

	go func() {
		defer close(out)
		pending := make(map[string]bool)
		timer := time.NewTimer(w.debounce)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.fs.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				name := filepath.Clean(event.Name)
				if !w.files[name] {
					continue
				}
				pending[name] = true
				timer.Reset(w.debounce)
			case <-timer.C:
				changed := make([]string, 0, len(pending))
				for p := range pending {
					changed = append(changed, p)
				}
				slices.Sort(changed)
				clear(pending)
				for _, p := range changed {
					select {
					case out <- p:
					case <-ctx.Done():
						return
					}
				}
			case err, ok := <-w.fs.Errors:
				if !ok {
					return
				}
				w.log.WithError(err).Warn("file watcher error")
			}
		}
	}()

	return out
}

// Stop releases the underlying watcher.
func (w *Watcher) Stop() error {
	return w.fs.Close()
}
