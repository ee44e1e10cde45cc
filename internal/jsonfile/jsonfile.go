// Package jsonfile persists small record collections as pretty-printed JSON
// arrays on disk (customers.json, transactions.json, fraud_alerts.json).
//
// Every mutation rewrites the whole file through a temp file + rename so a
// crash never leaves a half-written array behind.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Collection is a JSON array of T stored in a single file.
type Collection[T any] struct {
	path string
	mu   sync.Mutex
}

// Open returns the collection stored at path, creating the parent directory
// and an empty array file when missing.
func Open[T any](path string) (*Collection[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("jsonfile: create data dir: %w", err)
	}
	c := &Collection[T]{path: path}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := c.write(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("jsonfile: stat %s: %w", path, err)
	}
	return c, nil
}

// Path returns the backing file path.
func (c *Collection[T]) Path() string { return c.path }

// All returns every record in file order.
func (c *Collection[T]) All() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

// Append adds item to the end of the array.
func (c *Collection[T]) Append(item T) error {
	return c.Mutate(func(items []T) ([]T, error) {
		return append(items, item), nil
	})
}

// Mutate reads the array, applies fn and writes the result back. If fn
// returns an error the file is left untouched.
func (c *Collection[T]) Mutate(fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.read()
	if err != nil {
		return err
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	return c.write(items)
}

func (c *Collection[T]) read() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("jsonfile: read %s: %w", c.path, err)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("jsonfile: decode %s: %w", c.path, err)
	}
	return items, nil
}

func (c *Collection[T]) write(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode %s: %w", c.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("jsonfile: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("jsonfile: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("jsonfile: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("jsonfile: replace %s: %w", c.path, err)
	}
	return nil
}
