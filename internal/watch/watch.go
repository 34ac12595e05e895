// Package watch tails the game directory, reporting document changes as
// they land so a game master can follow a running season from another
// terminal.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/openclaw/parley/internal/config"
	"github.com/openclaw/parley/internal/console"
)

// Watcher reports filesystem activity under the data directory.
type Watcher struct {
	cfg *config.Config
	out *console.Reporter

	// debounce window for editors and append bursts
	settle time.Duration
}

func New(cfg *config.Config, out *console.Reporter) *Watcher {
	return &Watcher{cfg: cfg, out: out, settle: 200 * time.Millisecond}
}

// Run watches the data directory and every directory below it until the
// context is cancelled. New subdirectories are picked up as they appear.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addTree(watcher, w.cfg.Paths.DataDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.cfg.Paths.DataDir, err)
	}
	w.out.Printf("watching %s", w.cfg.Paths.DataDir)

	pending := make(map[string]fsnotify.Op)
	var timer *time.Timer
	var settled <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				// Could be a new country or conversations directory.
				_ = addTree(watcher, event.Name)
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending[event.Name] |= event.Op
			if timer == nil {
				timer = time.NewTimer(w.settle)
			} else {
				timer.Reset(w.settle)
			}
			settled = timer.C
		case <-settled:
			for name, op := range pending {
				w.report(name, op)
			}
			pending = make(map[string]fsnotify.Op)
			settled = nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.out.Warnf("watch: %v", err)
		}
	}
}

func (w *Watcher) report(name string, op fsnotify.Op) {
	rel, err := filepath.Rel(w.cfg.Paths.DataDir, name)
	if err != nil {
		rel = name
	}
	switch {
	case op&fsnotify.Remove != 0 || op&fsnotify.Rename != 0:
		w.out.Warnf("removed  %s", rel)
	case op&fsnotify.Create != 0:
		w.out.Successf("created  %s", rel)
	default:
		w.out.Printf("  updated  %s", rel)
	}
}

// addTree registers a directory and all directories below it.
func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return watcher.Add(path)
	})
}
