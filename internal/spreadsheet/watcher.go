package spreadsheet

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor emits when saving.
const DefaultDebounce = 250 * time.Millisecond

// FileWatcher calls OnChange when a local source file is written, created or
// renamed.
type FileWatcher struct {
	path     string
	onChange func()
	debounce time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewFileWatcher creates a watcher for path. A non-positive debounce uses
// DefaultDebounce.
func NewFileWatcher(path string, debounce time.Duration, onChange func(), logger *slog.Logger) *FileWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	return &FileWatcher{
		path:     abs,
		onChange: onChange,
		debounce: debounce,
		logger:   logger.With(slog.String("component", "file_watcher")),
	}
}

// Start watches until ctx is done. The parent directory is watched so that
// files replaced by rename are still seen.
func (w *FileWatcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				w.stopTimer()
				return
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if w.relevant(evt) {
					w.schedule()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watcher error", slog.String("error", err.Error()))
			}
		}
	}()

	w.logger.InfoContext(ctx, "watching source file", slog.String("path", w.path))
	return nil
}

func (w *FileWatcher) relevant(evt fsnotify.Event) bool {
	if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(evt.Name)
	if err != nil {
		name = filepath.Clean(evt.Name)
	}
	return name == w.path
}

func (w *FileWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.logger.Info("source file changed", slog.String("path", w.path))
		w.onChange()
	})
}

func (w *FileWatcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
