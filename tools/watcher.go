package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/slighter12/mcp-toolserver-go/logger"
	"github.com/slighter12/mcp-toolserver-go/tools/types"
)

// Watcher reloads units when manifests in the discovery directory are created
// or rewritten. Removing a manifest does not unregister its tools.
type Watcher struct {
	dir       string
	registrar types.Registrar
	fsw       *fsnotify.Watcher

	once sync.Once
	wg   sync.WaitGroup
}

// NewWatcher starts watching dir. The directory must exist.
func NewWatcher(dir string, registrar types.Registrar) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{dir: dir, registrar: registrar, fsw: fsw}, nil
}

// Start processes events in the background until ctx is done or the watcher
// is closed.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Tool directory watch error", "dir", w.dir, "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !IsManifestFile(filepath.Base(event.Name)) {
		return
	}
	if _, err := LoadUnit(event.Name, w.registrar); err != nil {
		logger.Warn("Failed to reload tool unit", "path", event.Name, "error", err)
	}
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}
