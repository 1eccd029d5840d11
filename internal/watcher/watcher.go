package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"beakermatrix/internal/config"
	"beakermatrix/pkg/logging"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval is how long the watcher waits for further changes
// before emitting a batch.
const DefaultDebounceInterval = 500 * time.Millisecond

// Watcher watches the inputs of one component's check: its suites tree,
// global nodesets, pipeline file and component configuration.
//
// fsnotify watches are not recursive, so every suite and suite nodesets
// directory gets its own watch, and directories created while running are
// added as they appear.
type Watcher struct {
	mu sync.Mutex

	root        string
	pipeline    string
	suitesDir   string
	nodesetsDir string

	watcher *fsnotify.Watcher

	// debounceInterval is how long to wait for additional changes
	debounceInterval time.Duration

	// pending holds the changes of the current quiet period by path
	pending map[string]ChangeEvent
	timer   *time.Timer

	stopCh  chan struct{}
	running bool
}

// New creates a watcher for the component in dir laid out as cfg says.
func New(dir string, cfg config.Config, debounceInterval time.Duration) *Watcher {
	if debounceInterval <= 0 {
		debounceInterval = DefaultDebounceInterval
	}
	return &Watcher{
		root:             filepath.Clean(dir),
		pipeline:         filepath.Clean(cfg.PipelineFile),
		suitesDir:        filepath.Clean(cfg.SuitesDir),
		nodesetsDir:      filepath.Clean(cfg.NodesetsDir),
		debounceInterval: debounceInterval,
		pending:          make(map[string]ChangeEvent),
		stopCh:           make(chan struct{}),
	}
}

// Start begins watching. Batches are sent on changes until ctx is done or
// Stop is called; a batch is dropped when changes is not ready to receive.
func (w *Watcher) Start(ctx context.Context, changes chan<- Batch) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.watcher = fw
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	if err := w.setupWatches(); err != nil {
		w.Stop()
		return err
	}

	go w.processEvents(ctx, fw, w.stopCh, changes)

	logging.Info("Watcher", "Watching %s for acceptance test changes", w.root)
	return nil
}

// setupWatches adds the component root and every directory on the way to,
// or inside, the suites and nodesets trees.
func (w *Watcher) setupWatches() error {
	if err := w.watcher.Add(w.root); err != nil {
		return err
	}
	w.addTree(w.root)
	return nil
}

// addTree watches dir and its subdirectories. Missing directories are skipped.
func (w *Watcher) addTree(dir string) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if !w.relevantDir(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			logging.Warn("Watcher", "Failed to watch %s: %v", path, err)
			return nil
		}
		logging.Debug("Watcher", "Watching directory: %s", path)
		return nil
	})
	if err != nil {
		logging.Warn("Watcher", "Failed to walk %s: %v", dir, err)
	}
}

// relevantDir reports whether path lies on the way to, or inside, the
// suites or nodesets tree.
func (w *Watcher) relevantDir(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	for _, tree := range []string{w.suitesDir, w.nodesetsDir} {
		if rel == "." || within(rel, tree) || within(tree, rel) {
			return true
		}
	}
	return false
}

func (w *Watcher) processEvents(ctx context.Context, fw *fsnotify.Watcher, stopCh <-chan struct{}, changes chan<- Batch) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return

		case <-stopCh:
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			w.handleFsEvent(event, changes)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logging.Error("Watcher", err, "Filesystem watcher error")
		}
	}
}

// handleFsEvent classifies one filesystem event and queues it.
func (w *Watcher) handleFsEvent(event fsnotify.Event, changes chan<- Batch) {
	var operation ChangeOperation
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		operation = OperationCreate
	case event.Op&fsnotify.Write == fsnotify.Write:
		operation = OperationUpdate
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		operation = OperationDelete
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		// the new name will trigger a create
		operation = OperationDelete
	default:
		return
	}

	if operation == OperationCreate {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.mu.Lock()
			if w.running {
				w.addTree(event.Name)
			}
			w.mu.Unlock()
		}
	}

	kind := w.classify(event.Name)
	if kind == "" {
		return
	}

	w.debounce(ChangeEvent{
		Kind:      kind,
		Operation: operation,
		Path:      event.Name,
		Timestamp: time.Now(),
	}, changes)
}

// classify maps a path to the check input it belongs to.
func (w *Watcher) classify(path string) ChangeKind {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return ""
	}

	switch {
	case rel == w.pipeline:
		return ChangePipeline
	case rel == config.ConfigFileName:
		return ChangeConfig
	case within(rel, w.nodesetsDir):
		return ChangeNodesets
	case within(rel, w.suitesDir):
		if rel == w.suitesDir {
			return ChangeSuites
		}
		parts := strings.Split(filepath.ToSlash(strings.TrimPrefix(rel, w.suitesDir+string(filepath.Separator))), "/")
		if len(parts) >= 2 && parts[1] == "nodesets" {
			return ChangeNodesets
		}
		return ChangeSuites
	case rel == w.suitesDir || within(w.suitesDir, rel):
		return ChangeSuites
	case within(w.nodesetsDir, rel):
		return ChangeNodesets
	}
	return ""
}

// debounce adds event to the pending batch and restarts the quiet timer.
func (w *Watcher) debounce(event ChangeEvent, changes chan<- Batch) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	if prev, ok := w.pending[event.Path]; ok {
		event.Operation = mergeOperations(prev.Operation, event.Operation)
	}
	w.pending[event.Path] = event

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceInterval, func() {
		batch := w.takePending()
		if len(batch) == 0 {
			return
		}
		select {
		case changes <- batch:
			logging.Debug("Watcher", "Emitted %d changes: %v", len(batch), batch.Kinds())
		default:
			logging.Warn("Watcher", "Change channel full, dropping %d changes", len(batch))
		}
	})
}

func (w *Watcher) takePending() Batch {
	w.mu.Lock()
	defer w.mu.Unlock()

	batch := make(Batch, 0, len(w.pending))
	for _, e := range w.pending {
		batch = append(batch, e)
	}
	w.pending = make(map[string]ChangeEvent)
	sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
	return batch
}

// mergeOperations merges two operations on the same path into one.
func mergeOperations(old, new ChangeOperation) ChangeOperation {
	if old == OperationCreate {
		if new == OperationDelete {
			return OperationDelete
		}
		// Create + Update = Create
		return OperationCreate
	}
	if old == OperationUpdate && new == OperationDelete {
		return OperationDelete
	}
	return new
}

// Stop stops watching and discards pending changes.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	close(w.stopCh)

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.pending = make(map[string]ChangeEvent)

	if w.watcher != nil {
		if err := w.watcher.Close(); err != nil {
			logging.Error("Watcher", err, "Error closing filesystem watcher")
		}
		w.watcher = nil
	}

	logging.Info("Watcher", "Stopped watching %s", w.root)
	return nil
}

// within reports whether rel is dir or lies below it.
func within(rel, dir string) bool {
	return rel == dir || strings.HasPrefix(rel, dir+string(filepath.Separator))
}
