// Cross-process session change signal
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/softcover/shelf/internal/shared"
)

// Signal is a shared file used to tell sibling shelf processes that the
// session changed. The file carries a timestamp but readers never trust
// its content; every observer re-resolves the session against the backend.
type Signal struct {
	path   string
	logger *log.Logger
}

// NewSignal creates a signal around the given file path.
func NewSignal(path string, logger *log.Logger) *Signal {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Signal{path: path, logger: logger}
}

// Path returns the signal file location.
func (s *Signal) Path() string {
	return s.path
}

// Announce marks the signal file with the current time, waking any process
// watching it. Last write wins; the content is informational only.
func (s *Signal) Announce() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create signal directory: %w", err)
	}

	stamp := time.Now().Format(time.RFC3339Nano)
	if err := os.WriteFile(s.path, []byte(stamp), 0644); err != nil {
		return fmt.Errorf("failed to write signal file: %w", err)
	}

	return nil
}

// Watch monitors the signal file and delivers a tick for every announcement
// from another process. Ticks are coalesced: a slow consumer sees at least
// one tick after any burst of writes, never a backlog.
//
// The watcher runs until ctx is cancelled.
func (s *Signal) Watch(ctx context.Context) (<-chan struct{}, error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create signal directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	// Watch the directory rather than the file so announcements made
	// before the file exists are still observed.
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch signal directory: %w", err)
	}

	ticks := make(chan struct{}, 1)
	target := filepath.Clean(s.path)

	go func() {
		defer watcher.Close()
		defer close(ticks)

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				select {
				case ticks <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("signal watcher error", "error", err)
			}
		}
	}()

	return ticks, nil
}
