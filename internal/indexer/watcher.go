package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher keeps a CodeIndexer current with on-disk changes: writes and
// creates re-index a file, removes and renames drop it.
type Watcher struct {
	watcher    *fsnotify.Watcher
	indexer    *CodeIndexer
	extensions []string
	excluded   []string
	logger     *zap.Logger
	running    bool
	mu         sync.Mutex
}

// NewWatcher creates a watcher feeding the given indexer. extensions filters
// the files considered (e.g. ".go", ".ts"); excluded names directories to
// skip.
func NewWatcher(indexer *CodeIndexer, extensions, excluded []string, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		watcher:    fsw,
		indexer:    indexer,
		extensions: extensions,
		excluded:   excluded,
		logger:     logger,
	}, nil
}

// Start watches root and all non-excluded subdirectories until ctx is done.
func (w *Watcher) Start(ctx context.Context, root string) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	watched := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if w.shouldExclude(root, path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", zap.String("path", path), zap.Error(err))
			return nil
		}
		watched++
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add watch paths: %w", err)
	}
	w.logger.Info("file watcher started", zap.Int("directories", watched))

	go w.eventLoop(ctx)
	return nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.running = false
	return w.watcher.Close()
}

func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.isSupported(event.Name) {
		return
	}

	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.indexer.RemoveFile(event.Name)
		w.logger.Debug("removed from index", zap.String("path", event.Name))
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		content, err := os.ReadFile(event.Name)
		if err != nil {
			w.logger.Warn("failed to read changed file", zap.String("path", event.Name), zap.Error(err))
			return
		}
		w.indexer.IndexFile(event.Name, string(content))
		w.logger.Debug("re-indexed", zap.String("path", event.Name))
	}
}

func (w *Watcher) isSupported(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, supported := range w.extensions {
		if ext == supported {
			return true
		}
	}
	return false
}

func (w *Watcher) shouldExclude(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") && part != "." {
			return true
		}
		for _, excluded := range w.excluded {
			if part == excluded {
				return true
			}
		}
	}
	return false
}
