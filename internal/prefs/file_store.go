package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"

	"github.com/bassista/quillpad/internal/logger"
)

// FileStore persists preferences as a JSON file and watches it for external
// modifications.
type FileStore struct {
	path      string
	dir       string
	base      string
	validator *validator.Validate
	debounce  time.Duration

	mu      sync.Mutex
	current Preferences
	subs    []func(Preferences)
}

// NewFileStore creates a preference store backed by the given JSON file.
// A missing file is not an error; defaults apply until the first set.
func NewFileStore(path string, debounce time.Duration) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("preferences file path is required")
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create preferences dir: %w", err)
	}

	s := &FileStore{
		path:      path,
		dir:       dir,
		base:      filepath.Base(path),
		validator: validator.New(),
		debounce:  debounce,
		current:   Defaults(),
	}

	loaded, err := s.loadFromDisk()
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		logger.WithComponent("prefs").Debug("no preferences file yet, starting from defaults")
	} else {
		s.current = loaded
	}

	return s, nil
}

func (s *FileStore) Snapshot() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *FileStore) SetAutosaveEnabled(enabled bool) error {
	return s.update(func(p *Preferences) { p.AutosaveEnabled = enabled })
}

func (s *FileStore) SetReadabilityMode(enabled bool) error {
	return s.update(func(p *Preferences) { p.ReadabilityMode = enabled })
}

func (s *FileStore) SetSwipeLock(enabled bool) error {
	return s.update(func(p *Preferences) { p.SwipeLock = enabled })
}

func (s *FileStore) SetLastUsedLocator(locator string) error {
	return s.update(func(p *Preferences) { p.LastUsedLocator = locator })
}

func (s *FileStore) ClearLastUsedLocator() error {
	return s.update(func(p *Preferences) { p.LastUsedLocator = "" })
}

func (s *FileStore) Subscribe(fn func(Preferences)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// update applies the mutation and persists the result atomically.
func (s *FileStore) update(mutate func(*Preferences)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	mutate(&next)
	if next == s.current {
		return nil
	}
	if err := s.saveLocked(next); err != nil {
		return err
	}
	s.current = next
	return nil
}

// saveLocked writes prefs to disk via temp file + rename (caller holds mu).
func (s *FileStore) saveLocked(p Preferences) error {
	payload, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.dir, s.base+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if _, err := tmpFile.Write(payload); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), s.path); err != nil {
		return fmt.Errorf("replace preferences file: %w", err)
	}
	return nil
}

func (s *FileStore) loadFromDisk() (Preferences, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return Preferences{}, err
	}

	p := Defaults()
	if err := json.Unmarshal(raw, &p); err != nil {
		return Preferences{}, fmt.Errorf("decode preferences: %w", err)
	}
	if err := s.validator.Struct(&p); err != nil {
		return Preferences{}, fmt.Errorf("validate preferences: %w", err)
	}
	return p, nil
}

// StartWatcher observes the preferences file for external changes and fans
// them out to subscribers after a short debounce. It watches the parent
// directory so atomic replace sequences (temp+rename) are still observed.
// Cancel the context to stop the goroutine and close the watcher.
func (s *FileStore) StartWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch dir: %w", err)
	}

	go func() {
		defer watcher.Close()

		// debounce coalesces bursty fsnotify events (write+chmod/rename)
		// into a single reload.
		var debounce *time.Timer
		schedule := func() {
			if debounce != nil {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
			}
			debounce = time.AfterFunc(s.debounce, s.reload)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != s.base {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Chmod|fsnotify.Remove|fsnotify.Rename) != 0 {
					schedule()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.WithComponent("prefs").Errorf("watcher error: %v", err)
			}
		}
	}()

	return nil
}

// reload re-reads the file and notifies subscribers when it actually
// changed. Events caused by our own atomic saves resolve to the current
// value and are skipped.
func (s *FileStore) reload() {
	loaded, err := s.loadFromDisk()
	if err != nil {
		if !os.IsNotExist(err) {
			logger.WithComponent("prefs").Errorf("watch reload failed: %v", err)
		}
		return
	}

	s.mu.Lock()
	if loaded == s.current {
		s.mu.Unlock()
		return
	}
	s.current = loaded
	subs := make([]func(Preferences), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	logger.WithComponent("prefs").Info("preferences reloaded from external change")
	for _, fn := range subs {
		fn(loaded)
	}
}
