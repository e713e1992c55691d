package config

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

var workflowPatterns = []string{"**/*.yaml", "**/*.yml", "**/*.json"}

// Entry describes a workflow file found by a Catalog.
type Entry struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Path        string `json:"path"`
	// Err is set when the file failed to load.
	Err error `json:"-"`
}

// Catalog discovers workflow files under a directory.
type Catalog struct {
	fs afero.Fs
}

// NewCatalog serves workflows from dir on the OS filesystem.
func NewCatalog(dir string) *Catalog {
	return NewCatalogFs(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// NewCatalogFs serves workflows from the root of fsys.
func NewCatalogFs(fsys afero.Fs) *Catalog {
	return &Catalog{fs: fsys}
}

// List loads every workflow file, sorted by name. Invalid files are
// returned with Err set rather than aborting the listing.
func (c *Catalog) List() ([]Entry, error) {
	paths, err := c.paths()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(paths))
	for _, p := range paths {
		w, err := LoadFs(c.fs, p)
		if err != nil {
			entries = append(entries, Entry{Name: stem(p), Path: p, Err: err})
			continue
		}
		entries = append(entries, Entry{Name: w.Name, Description: w.Description, Path: p})
	}
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return entries, nil
}

// Get finds a workflow by its declared name or by file name without extension.
func (c *Catalog) Get(name string) (*Workflow, error) {
	paths, err := c.paths()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if stem(p) == name {
			return LoadFs(c.fs, p)
		}
	}
	for _, p := range paths {
		w, err := LoadFs(c.fs, p)
		if err == nil && w.Name == name {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, name)
}

func (c *Catalog) paths() ([]string, error) {
	iofs := afero.NewIOFS(c.fs)
	var paths []string
	for _, pattern := range workflowPatterns {
		found, err := doublestar.Glob(iofs, pattern)
		if err != nil {
			return nil, fmt.Errorf("scan workflows: %w", err)
		}
		paths = append(paths, found...)
	}
	slices.Sort(paths)
	return paths, nil
}

func stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}
