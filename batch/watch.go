package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reads the equations in path, passes them to fn, and does so again
// each time the file changes. Changes closer together than debounce are
// handled once. Watch returns nil when ctx is done, or the first error from
// fn.
func Watch(ctx context.Context, path string, debounce time.Duration, fn func([]string) error) error {
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	if err := reload(path, fn); err != nil {
		return err
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Debugf("%s: %s", event.Op, event.Name)
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warningf("watch %s: %s", path, err)

		case <-timer.C:
			if err := reload(path, fn); err != nil {
				return err
			}
		}
	}
}

func reload(path string, fn func([]string) error) error {
	f, err := os.Open(path)
	if err != nil {
		// The file may be mid-replace; the next event retries.
		log.Warningf("open %s: %s", path, err)
		return nil
	}
	defer f.Close()

	equations, err := ReadLines(f)
	if err != nil {
		return err
	}
	return fn(equations)
}
