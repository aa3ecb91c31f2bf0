package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/SophieMSL/hubspot-monday-sync/pkg/constants"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
)

// Watcher watches a single file for changes. The bridge uses it to hot
// reload the policy file when it is edited on disk. The parent directory is
// watched rather than the file itself so atomic saves (write to temp file,
// rename over) are still seen.
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan string
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	running bool
	path    string
}

// NewWatcher creates a new file watcher. The watcher must be started with
// Start before it emits events.
func NewWatcher() (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.NewConfigError("watcher", "failed to create file watcher", err)
	}

	return &Watcher{
		watcher: watcher,
		events:  make(chan string, constants.ChannelBufferSize),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching the given file for writes.
func (w *Watcher) Start(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return errors.NewConfigError("watcher", "watcher already running", nil)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.WrapIO("resolve", path, err)
	}
	w.path = abs

	if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.NewConfigError("watcher", "failed to watch "+filepath.Dir(abs), err)
	}

	w.running = true
	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// Stop stops watching and cleans up resources. It blocks until the event
// processing goroutine has exited.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)

	if err := w.watcher.Close(); err != nil {
		return errors.NewConfigError("watcher", "failed to close watcher", err)
	}

	w.wg.Wait()

	close(w.events)
	close(w.errors)

	return nil
}

// Events returns the channel that emits the watched path on each change.
// The channel is closed when the watcher is stopped.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Errors returns the channel that emits watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// IsRunning returns true if the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// processEvents converts fsnotify events on the watched file into change
// notifications.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !w.matches(event) {
				continue
			}

			select {
			case w.events <- w.path:
			case <-w.done:
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		}
	}
}

// matches reports whether the event is a content change of the watched file.
func (w *Watcher) matches(event fsnotify.Event) bool {
	abs, err := filepath.Abs(event.Name)
	if err != nil || abs != w.path {
		return false
	}

	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
