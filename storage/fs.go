package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// fsSource stamps changes picked up from the filesystem.
const fsSource = "fs"

// FSSlot stores each key as <root>/<key>.json. Writes go to a temp file that
// is renamed into place, so readers never observe a half-written document.
type FSSlot struct {
	root string

	mu      sync.Mutex
	written map[string][]byte // last document this slot wrote, per key
}

// NewFSSlot returns a filesystem-backed slot rooted at root, creating it if needed.
func NewFSSlot(root string) (*FSSlot, error) {
	if root == "" {
		root = "./data"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FSSlot{root: root, written: make(map[string][]byte)}, nil
}

func (s *FSSlot) Driver() Driver { return DriverFS }

// sanitizeKey keeps keys inside root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key contains '..'")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key")
	}
	return filepath.ToSlash(filepath.Clean(key)), nil
}

func (s *FSSlot) pathFor(key string) (string, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, k+".json"), nil
}

func (s *FSSlot) Read(_ context.Context, key string) ([]byte, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *FSSlot) Write(_ context.Context, key string, data []byte) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	s.mu.Lock()
	s.written[key] = append([]byte(nil), data...)
	s.mu.Unlock()
	return os.Rename(tmp.Name(), path)
}

func (s *FSSlot) ownWrite(key string, data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.written[key]
	return ok && bytes.Equal(last, data)
}

// Watch reports documents written to key by other processes or other FSSlots
// sharing root. Writes made through s itself are skipped. The watch ends when
// ctx is done.
func (s *FSSlot) Watch(ctx context.Context, key string) (<-chan Change, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fs watch: %w", err)
	}
	// Renames replace the file, so the directory is watched, not the file.
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("fs watch %s: %w", dir, err)
	}
	last, _ := os.ReadFile(path)

	out := make(chan Change, subscriberBuffer)
	go func() {
		defer close(out)
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != filepath.Base(path) || ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				// A truncate shows up as an empty read before the new content.
				data, err := os.ReadFile(path)
				if err != nil || len(data) == 0 || bytes.Equal(data, last) {
					continue
				}
				last = data
				if s.ownWrite(key, data) {
					continue
				}
				select {
				case out <- Change{Key: key, Value: data, Source: fsSource}:
				case <-ctx.Done():
					return
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return out, nil
}
