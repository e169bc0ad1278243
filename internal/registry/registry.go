// Package registry holds the ordered set of shareable items built once at
// startup in share mode. Plain files are referenced in place; directories
// are zipped into a process-scoped temporary directory. After Build returns
// the registry is read-only, so lookups are safe from concurrent handlers.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrSourceNotFound means a path handed to Build did not exist.
	// Construction is all-or-nothing, so one missing path fails the
	// whole build.
	ErrSourceNotFound = errors.New("share source not found")

	// ErrItemNotFound means a lookup used an id outside the registry.
	ErrItemNotFound = errors.New("share item not found")
)

// Item is one downloadable unit.
type Item struct {
	// ID is the stable 0-based index assigned in argument order.
	ID int

	// DisplayName is the filename presented to clients, including the
	// .zip suffix for archived directories.
	DisplayName string

	// SourcePath is the resolved absolute path of the backing file.
	SourcePath string

	// Temporary marks archives generated by Build; their backing files
	// live in the registry's temp directory and are removed by Cleanup.
	Temporary bool

	// SizeBytes is the backing file size at build time.
	SizeBytes int64
}

// Summary is the presentation view of an Item.
type Summary struct {
	ID          int
	DisplayName string
	SizeBytes   int64
}

// Registry is the immutable collection of items.
type Registry struct {
	items   []Item
	tempDir string
}

// Build resolves paths into registry items. Files are registered as-is;
// directories are zipped into a fresh temp directory. All paths are
// validated up front: if any is missing, nothing is registered and no
// archives are left behind.
func Build(paths []string) (*Registry, error) {
	type source struct {
		abs   string
		isDir bool
	}

	sources := make([]source, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, p)
			}
			return nil, fmt.Errorf("inspecting %q: %w", p, err)
		}
		sources = append(sources, source{abs: abs, isDir: info.IsDir()})
	}

	r := &Registry{}
	needTemp := false
	for _, s := range sources {
		if s.isDir {
			needTemp = true
			break
		}
	}
	if needTemp {
		dir, err := os.MkdirTemp("", "qrdrop-share-")
		if err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
		r.tempDir = dir
	}

	for _, s := range sources {
		item := Item{ID: len(r.items)}
		if s.isDir {
			base := filepath.Base(s.abs)
			archive := filepath.Join(r.tempDir, fmt.Sprintf("%03d_%s.zip", item.ID, base))
			if err := zipDirectory(s.abs, archive); err != nil {
				r.Cleanup()
				return nil, fmt.Errorf("archiving %q: %w", s.abs, err)
			}
			item.DisplayName = base + ".zip"
			item.SourcePath = archive
			item.Temporary = true
		} else {
			item.DisplayName = filepath.Base(s.abs)
			item.SourcePath = s.abs
		}

		info, err := os.Stat(item.SourcePath)
		if err != nil {
			r.Cleanup()
			return nil, fmt.Errorf("inspecting %q: %w", item.SourcePath, err)
		}
		item.SizeBytes = info.Size()
		r.items = append(r.items, item)
	}

	return r, nil
}

// Get returns the item with the given id.
func (r *Registry) Get(id int) (Item, error) {
	if r == nil || id < 0 || id >= len(r.items) {
		return Item{}, fmt.Errorf("%w: id %d", ErrItemNotFound, id)
	}
	return r.items[id], nil
}

// List returns summaries of all items in registration order. The result is
// a fresh slice on every call, stable in content across calls.
func (r *Registry) List() []Summary {
	if r == nil {
		return nil
	}
	out := make([]Summary, len(r.items))
	for i, item := range r.items {
		out[i] = Summary{ID: item.ID, DisplayName: item.DisplayName, SizeBytes: item.SizeBytes}
	}
	return out
}

// Len returns the number of registered items.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.items)
}

// Cleanup removes the temporary archive directory, if any. Safe to call
// multiple times and on registries that never archived anything.
func (r *Registry) Cleanup() error {
	if r == nil || r.tempDir == "" {
		return nil
	}
	dir := r.tempDir
	r.tempDir = ""
	return os.RemoveAll(dir)
}
