// Package persist stores workflow sessions on disk.
//
// Each session lives in its own directory:
//
//	<root>/<session-id>/
//	    workflow.json   the workflow document the session runs
//	    context.json    the latest execution context
//	    archive/        context snapshots taken when a run completes
//	    output/         files written by output steps
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spetersoncode/lessonflow/config"
	"github.com/spetersoncode/lessonflow/state"
	"github.com/spf13/afero"
)

const (
	workflowFile = "workflow.json"
	contextFile  = "context.json"
	lockFile     = ".lock"
	archiveDir   = "archive"
	outputDir    = "output"
)

// Manager reads and writes session directories under a root.
type Manager struct {
	fs       afero.Fs
	root     string
	osLocks  bool
	now      func() time.Time
	mu       sync.Mutex
	memLocks map[string]bool
}

// New stores sessions under root on the OS filesystem, using file locks.
func New(root string) *Manager {
	m := NewFs(afero.NewOsFs(), root)
	m.osLocks = true
	return m
}

// NewFs stores sessions under root on fsys. Locks are held in process.
func NewFs(fsys afero.Fs, root string) *Manager {
	return &Manager{
		fs:       fsys,
		root:     root,
		now:      func() time.Time { return time.Now().UTC() },
		memLocks: make(map[string]bool),
	}
}

// Root returns the sessions root directory.
func (m *Manager) Root() string { return m.root }

func validateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	return nil
}

// SessionDir returns the directory of a session.
func (m *Manager) SessionDir(id string) string {
	return filepath.Join(m.root, id)
}

// OutputDir returns the output directory of a session.
func (m *Manager) OutputDir(id string) string {
	return filepath.Join(m.root, id, outputDir)
}

// CreateSession creates the session directory. An empty id gets a new UUID;
// an existing session is reused.
func (m *Manager) CreateSession(id string) (string, string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if err := validateID(id); err != nil {
		return "", "", err
	}
	dir := m.SessionDir(id)
	for _, sub := range []string{archiveDir, outputDir} {
		if err := m.fs.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return "", "", fmt.Errorf("create session %s: %w", id, err)
		}
	}
	return id, dir, nil
}

// Exists reports whether a session directory exists.
func (m *Manager) Exists(id string) bool {
	if validateID(id) != nil {
		return false
	}
	ok, err := afero.DirExists(m.fs, m.SessionDir(id))
	return err == nil && ok
}

// SaveSessionState writes the execution context of a session.
func (m *Manager) SaveSessionState(id string, ec *state.Context) error {
	return m.writeJSON(id, contextFile, ec)
}

// LoadSessionState reads the execution context of a session.
func (m *Manager) LoadSessionState(id string) (*state.Context, error) {
	var ec state.Context
	if err := m.readJSON(id, contextFile, &ec); err != nil {
		return nil, err
	}
	return &ec, nil
}

// SaveConfig writes the workflow document a session runs.
func (m *Manager) SaveConfig(id string, w *config.Workflow) error {
	return m.writeJSON(id, workflowFile, w)
}

// LoadConfig reads and revalidates the workflow document of a session.
func (m *Manager) LoadConfig(id string) (*config.Workflow, error) {
	data, err := m.read(id, workflowFile)
	if err != nil {
		return nil, err
	}
	w, err := config.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	return w, nil
}

// Archive copies the current context into archive/context-<timestamp>.json
// and returns the archive path.
func (m *Manager) Archive(id string) (string, error) {
	data, err := m.read(id, contextFile)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("context-%s.json", m.now().Format("20060102T150405.000000000Z"))
	path := filepath.Join(m.SessionDir(id), archiveDir, name)
	if err := m.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("archive session %s: %w", id, err)
	}
	if err := afero.WriteFile(m.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("archive session %s: %w", id, err)
	}
	return path, nil
}

// Archives lists archived snapshots of a session, oldest first.
func (m *Manager) Archives(id string) ([]string, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	matches, err := afero.Glob(m.fs, filepath.Join(m.SessionDir(id), archiveDir, "context-*.json"))
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	slices.Sort(matches)
	return matches, nil
}

// WriteOutput writes data to a path relative to the session's output
// directory and returns the full path. Absolute paths and paths leaving the
// output directory are rejected.
func (m *Manager) WriteOutput(id, path string, data []byte) (string, error) {
	if err := validateID(id); err != nil {
		return "", err
	}
	clean := filepath.Clean(path)
	if !filepath.IsLocal(path) || clean == "." || strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("%w: %s", ErrInvalidOutputPath, path)
	}
	full := filepath.Join(m.OutputDir(id), clean)
	if err := m.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("write output %s: %w", path, err)
	}
	if err := afero.WriteFile(m.fs, full, data, 0o644); err != nil {
		return "", fmt.Errorf("write output %s: %w", path, err)
	}
	return full, nil
}

// Lock takes the session lock. The returned func releases it.
func (m *Manager) Lock(id string) (func() error, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if !m.osLocks {
		return m.memLock(id)
	}

	if err := m.fs.MkdirAll(m.SessionDir(id), 0o755); err != nil {
		return nil, fmt.Errorf("lock session %s: %w", id, err)
	}
	fileLock := flock.New(filepath.Join(m.SessionDir(id), lockFile))
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock session %s: %w", id, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrSessionLocked, id)
	}
	return fileLock.Unlock, nil
}

func (m *Manager) memLock(id string) (func() error, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.memLocks[id] {
		return nil, fmt.Errorf("%w: %s", ErrSessionLocked, id)
	}
	m.memLocks[id] = true
	var once sync.Once
	return func() error {
		once.Do(func() {
			m.mu.Lock()
			delete(m.memLocks, id)
			m.mu.Unlock()
		})
		return nil
	}, nil
}

// writeJSON writes atomically through a temp file and rename.
func (m *Manager) writeJSON(id, name string, v any) error {
	if err := validateID(id); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	dir := m.SessionDir(id)
	if err := m.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	target := filepath.Join(dir, name)
	tmp := target + ".tmp"
	if err := afero.WriteFile(m.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := m.fs.Rename(tmp, target); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (m *Manager) read(id, name string) ([]byte, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(m.fs, filepath.Join(m.SessionDir(id), name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s (%s)", ErrSessionNotFound, id, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (m *Manager) readJSON(id, name string, v any) error {
	data, err := m.read(id, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
