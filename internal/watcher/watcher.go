// Package watcher re-runs analysis when source files change. Events are
// debounced so a burst of saves triggers a single re-analysis.
package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jlens/jlens/internal/model"
)

// ReanalyzeFunc runs one full analysis pass. The watcher owns scheduling;
// the callback owns everything else.
type ReanalyzeFunc func(ctx context.Context) (*model.ProjectModel, error)

// Watcher watches the project root and triggers re-analysis on changes to
// matching source files.
type Watcher struct {
	rootDir      string
	extensions   []string
	reanalyze    ReanalyzeFunc
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
	stopCh       chan struct{}
	doneCh       chan struct{}
	started      bool
	stopOnce     sync.Once
}

// New creates a watcher over rootDir that reacts to files with the given
// extensions (e.g. ".java").
func New(rootDir string, extensions []string, reanalyze ReanalyzeFunc) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		rootDir:      rootDir,
		extensions:   extensions,
		reanalyze:    reanalyze,
		watcher:      fsWatcher,
		debounceTime: 500 * time.Millisecond,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}

	if err := w.addDirectoriesRecursively(rootDir); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	return w, nil
}

// Start begins watching for file changes.
func (w *Watcher) Start(ctx context.Context) {
	w.started = true
	go w.watch(ctx)
}

// Stop stops the watcher and waits for the event loop to exit. Safe to call
// more than once, and before Start.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if w.started {
			<-w.doneCh
		}
		w.watcher.Close()
	})
}

// watch is the main event loop with debouncing logic.
func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	var debounceTimer *time.Timer
	rerunCh := make(chan struct{}, 1)
	changed := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !w.shouldProcessEvent(event) {
				continue
			}

			relPath, _ := filepath.Rel(w.rootDir, event.Name)
			changed[relPath] = true

			// New directories join the watch set.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addDirectoriesRecursively(event.Name); err != nil {
						log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
					}
				}
			}

			// Reset debounce timer - properly stop and drain
			if debounceTimer != nil {
				if !debounceTimer.Stop() {
					select {
					case <-debounceTimer.C:
					default:
					}
				}
			}

			debounceTimer = time.AfterFunc(w.debounceTime, func() {
				select {
				case rerunCh <- struct{}{}:
				default:
				}
			})

		case <-rerunCh:
			w.triggerReanalysis(ctx, changed)
			changed = make(map[string]bool)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// triggerReanalysis runs one analysis pass for a batch of changes.
func (w *Watcher) triggerReanalysis(ctx context.Context, changed map[string]bool) {
	if len(changed) == 0 {
		return
	}

	log.Printf("Re-analyzing due to changes in %d file(s)...", len(changed))
	start := time.Now()

	m, err := w.reanalyze(ctx)
	if err != nil {
		log.Printf("Error during re-analysis: %v", err)
		return
	}

	summary := m.Summary()
	log.Printf("Re-analysis complete in %v (%d classes, %d endpoints, %d diagnostics)",
		time.Since(start), summary.Classes, summary.Endpoints, len(m.Diagnostics()))
}

// shouldProcessEvent checks whether an event concerns a source file we
// analyze. Directory creates pass through so new trees get watched.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
		return false
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			return true
		}
	}

	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, want := range w.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// addDirectoriesRecursively adds rootDir and all subdirectories to the
// watch set, skipping hidden and build output directories.
func (w *Watcher) addDirectoriesRecursively(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable subtree, skip
		}
		if !info.IsDir() {
			return nil
		}
		name := info.Name()
		if path != dir && (strings.HasPrefix(name, ".") || name == "target" || name == "build" || name == "out") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			log.Printf("Warning: failed to watch %s: %v", path, err)
		}
		return nil
	})
}
