// Package watch reports changes to a fixed set of files.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"chardiff/lib/log"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// DefaultDebounce is how long Watch waits for a burst of events on a file to
// settle before reporting it.
const DefaultDebounce = 100 * time.Millisecond

// Watch calls onChange each time watched files are written, created, renamed
// or removed, until ctx is done. All files that changed within one burst of
// events are passed to a single call, in the order they first changed. The containing
// directories are watched rather than the files, so a file that an editor
// replaces through a rename keeps being watched. Calls to onChange never
// overlap.
func Watch(ctx context.Context, paths []string, debounce time.Duration, onChange func(paths []string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "starting watcher")
	}
	defer watcher.Close()

	watched := map[string]bool{}
	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return errors.Wrapf(err, "watching %s", p)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "watching %s", dir)
		}
	}

	// Changed paths wait here until no new event has arrived for debounce.
	pending := map[string]bool{}
	var order []string
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Clean(event.Name)
			if !watched[name] {
				continue
			}
			log.Debug("watch: %s\n", event)
			if !pending[name] {
				pending[name] = true
				order = append(order, name)
			}
			timer.Reset(debounce)
		case <-timer.C:
			onChange(order)
			pending = map[string]bool{}
			order = nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return errors.Wrap(err, "watching files")
		}
	}
}
