package ledger

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"heraldbot/internal/ports"
)

// File is a line-oriented append-only posted-URL store: one URL per line,
// newline-terminated. A missing file is an empty set. Each platform gets
// its own file so per-platform dedup stays independent.
type File struct {
	path string

	mu     sync.Mutex
	urls   map[string]struct{}
	loaded bool
}

var _ ports.Ledger = (*File)(nil)

// NewFile points the ledger at its backing file without touching disk.
func NewFile(path string) *File {
	return &File{path: path, urls: map[string]struct{}{}}
}

// Contains reports whether the URL was ever announced.
func (f *File) Contains(_ context.Context, url string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.load(); err != nil {
		return false, err
	}
	_, ok := f.urls[url]
	return ok, nil
}

// Append durably records the URL. It must be called only after the
// publish was confirmed; the write is synced before returning.
func (f *File) Append(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.load(); err != nil {
		return err
	}

	handle, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", f.path, err)
	}

	if _, err := handle.WriteString(url + "\n"); err != nil {
		_ = handle.Close()
		return fmt.Errorf("append ledger %s: %w", f.path, err)
	}
	if err := handle.Sync(); err != nil {
		_ = handle.Close()
		return fmt.Errorf("sync ledger %s: %w", f.path, err)
	}
	if err := handle.Close(); err != nil {
		return fmt.Errorf("close ledger %s: %w", f.path, err)
	}

	f.urls[url] = struct{}{}
	return nil
}

func (f *File) load() error {
	if f.loaded {
		return nil
	}

	handle, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			f.loaded = true
			return nil
		}
		return fmt.Errorf("read ledger %s: %w", f.path, err)
	}
	defer handle.Close()

	scanner := bufio.NewScanner(handle)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			f.urls[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan ledger %s: %w", f.path, err)
	}

	f.loaded = true
	return nil
}
