package docstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchThrottle = 100 * time.Millisecond

// Watch follows the base directory with fsnotify and re-sends snapshots to
// the listeners of every user whose files changed. It returns once the
// watcher is set up; watching stops when ctx is done.
func (s *DiskvStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("docstore: create watcher: %w", err)
	}

	dirs, err := collectDirs(s.basePath)
	if err != nil {
		_ = watcher.Close()
		return fmt.Errorf("docstore: enumerate directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("docstore: watch %s: %w", dir, err)
		}
	}

	go func() {
		defer watcher.Close()

		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		throttle := newUserThrottle(watchThrottle, func(users []string) { s.refresh(ctx, users) })
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn(ctx, "watcher error", "error", err)
				broadcastAll(&s.hub, fmt.Errorf("docstore: watch: %w", err))
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}

				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						dir := filepath.Clean(evt.Name)
						if _, found := watched[dir]; !found && !s.ignored(dir) {
							if err := watcher.Add(dir); err != nil {
								s.logger.Warn(ctx, "watch directory", "dir", dir, "error", err)
							} else {
								watched[dir] = struct{}{}
							}
						}
						// files may have landed before the watch was added
						if userID, ok := s.userForDir(dir); ok {
							throttle.Enqueue(userID)
						}
						continue
					}
				}

				if userID, ok := s.userForPath(evt.Name); ok {
					throttle.Enqueue(userID)
				}
			}
		}
	}()

	return nil
}

func (s *DiskvStore) refresh(ctx context.Context, users []string) {
	if ctx.Err() != nil {
		return
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	for _, u := range users {
		s.push(ctx, u)
	}
}

func (s *DiskvStore) ignored(path string) bool {
	rel, err := filepath.Rel(s.basePath, path)
	return err != nil || strings.HasPrefix(rel, ".")
}

// userForPath derives the user from <base>/<user>/<id>.
func (s *DiskvStore) userForPath(path string) (string, bool) {
	if s.ignored(path) {
		return "", false
	}
	rel, _ := filepath.Rel(s.basePath, path)
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) != 2 {
		return "", false
	}
	return userFromDir(parts[0])
}

func (s *DiskvStore) userForDir(dir string) (string, bool) {
	if s.ignored(dir) || filepath.Dir(dir) != filepath.Clean(s.basePath) {
		return "", false
	}
	return userFromDir(filepath.Base(dir))
}

func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() || path == base {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}

func broadcastAll(h *hub, err error) {
	for _, u := range h.users() {
		broadcastError(h.of(u), err)
	}
}

// userThrottle coalesces bursts of file events into one refresh per user.
type userThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	delay   time.Duration
	flushFn func([]string)
	stopped bool
}

func newUserThrottle(delay time.Duration, flush func([]string)) *userThrottle {
	return &userThrottle{delay: delay, pending: make(map[string]struct{}), flushFn: flush}
}

func (t *userThrottle) Enqueue(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.pending[userID] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, t.flush)
	}
}

func (t *userThrottle) flush() {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[string]struct{})
	t.timer = nil
	stopped := t.stopped
	t.mu.Unlock()

	if stopped || len(pending) == 0 {
		return
	}
	users := make([]string, 0, len(pending))
	for u := range pending {
		users = append(users, u)
	}
	t.flushFn(users)
}

func (t *userThrottle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
