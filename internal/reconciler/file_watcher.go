package reconciler

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"scalectl/pkg/logging"
)

// DefaultDebounceInterval is how long FileWatcher waits for further writes
// before reporting a change.
const DefaultDebounceInterval = 500 * time.Millisecond

// FileWatcher reports changes of a single desired-state file.
//
// It watches the parent directory rather than the file itself, so that
// editors which save by renaming a temporary file over the original keep
// being observed.
type FileWatcher struct {
	mu sync.Mutex

	// path is the absolute path of the watched file
	path string

	// watcher is the fsnotify watcher instance
	watcher *fsnotify.Watcher

	// debounceInterval is how long to wait for additional changes
	debounceInterval time.Duration

	// pending is the change waiting for its debounce timer
	pending *debounceEntry

	// stopCh signals shutdown
	stopCh chan struct{}

	// running indicates if the watcher is active
	running bool
}

// debounceEntry tracks a pending event for debouncing.
type debounceEntry struct {
	event ChangeEvent
	timer *time.Timer
}

// NewFileWatcher creates a watcher for path.
func NewFileWatcher(path string, debounceInterval time.Duration) (*FileWatcher, error) {
	if debounceInterval == 0 {
		debounceInterval = DefaultDebounceInterval
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	return &FileWatcher{
		path:             abs,
		debounceInterval: debounceInterval,
		stopCh:           make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string {
	return w.path
}

// Start begins watching. Change events are sent to changes until ctx is
// cancelled or Stop is called. Events are dropped while the receiver is busy
// and another event is already queued.
func (w *FileWatcher) Start(ctx context.Context, changes chan<- ChangeEvent) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		w.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.watcher = watcher
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	go w.processEvents(ctx, watcher, changes)

	logging.Info("FileWatcher", "Watching %s for changes", w.path)
	return nil
}

// Stop gracefully stops the watcher.
func (w *FileWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	close(w.stopCh)
	w.running = false
	if w.pending != nil {
		w.pending.timer.Stop()
		w.pending = nil
	}

	if w.watcher != nil {
		err := w.watcher.Close()
		w.watcher = nil
		return err
	}
	return nil
}

// processEvents handles filesystem events and generates change events.
func (w *FileWatcher) processEvents(ctx context.Context, watcher *fsnotify.Watcher, changes chan<- ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return

		case <-w.stopCh:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			w.handleFsEvent(event, changes)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error("FileWatcher", err, "Filesystem watcher error")
		}
	}
}

// handleFsEvent processes a single filesystem event.
func (w *FileWatcher) handleFsEvent(event fsnotify.Event, changes chan<- ChangeEvent) {
	if filepath.Clean(event.Name) != w.path {
		return
	}

	var operation ChangeOperation
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		operation = OperationCreate
	case event.Op&fsnotify.Write == fsnotify.Write:
		operation = OperationUpdate
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		operation = OperationDelete
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		// Rename is treated as delete (a save-by-rename will trigger a create)
		operation = OperationDelete
	default:
		return
	}

	w.debounceEvent(ChangeEvent{
		FilePath:  w.path,
		Operation: operation,
		Timestamp: time.Now(),
	}, changes)
}

// debounceEvent collapses rapid successive changes into one event.
func (w *FileWatcher) debounceEvent(event ChangeEvent, changes chan<- ChangeEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	if w.pending != nil {
		w.pending.timer.Stop()
		event.Operation = mergeOperations(w.pending.event.Operation, event.Operation)
	}

	entry := &debounceEntry{event: event}
	entry.timer = time.AfterFunc(w.debounceInterval, func() {
		w.mu.Lock()
		if w.pending != entry {
			w.mu.Unlock()
			return
		}
		w.pending = nil
		w.mu.Unlock()

		select {
		case changes <- entry.event:
			logging.Debug("FileWatcher", "Emitted change event: %s %s", entry.event.Operation, entry.event.FilePath)
		default:
			logging.Debug("FileWatcher", "A change of %s is already queued, dropping event", entry.event.FilePath)
		}
	})
	w.pending = entry
}

// mergeOperations merges two operations into a single logical operation.
func mergeOperations(old, new ChangeOperation) ChangeOperation {
	// A delete followed by a create is a save-by-rename: the file changed
	if old == OperationDelete && new == OperationCreate {
		return OperationUpdate
	}

	// Create followed by anything but delete stays a create
	if old == OperationCreate && new != OperationDelete {
		return OperationCreate
	}

	return new
}
