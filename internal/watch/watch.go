// Package watch reports changes of model files so they can be re-evaluated.
package watch

import (
	"context"
	"log"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
)

type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions []string
}

// NewWatcher watches files with the given extensions, ".toml" when none
// are given.
func NewWatcher(extensions []string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if len(extensions) == 0 {
		extensions = []string{".toml"}
	}
	return &Watcher{
		watcher:    w,
		extensions: extensions,
	}, nil
}

// Watch emits the path of every created or written file in dir until ctx is
// done. The channel is closed when watching stops.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan string, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}

	changed := make(chan string, 16)

	go func() {
		defer close(changed)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !slices.Contains(w.extensions, filepath.Ext(event.Name)) {
					continue
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				select {
				case changed <- event.Name:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.Println("watch:", err)
			}
		}
	}()

	return changed, nil
}

func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
