package testutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// MemoryFS implements types.FS with in-memory storage. It supports
// error injection per path for exercising failure branches.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string]*memFile

	// Error injection
	errorPaths map[string]error
}

type memFile struct {
	mode    fs.FileMode
	modTime time.Time
	content []byte
	isDir   bool
}

// NewMemoryFS creates a new in-memory filesystem with a root directory.
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files: map[string]*memFile{
			"/": {mode: 0755 | fs.ModeDir, modTime: time.Now(), isDir: true},
		},
		errorPaths: make(map[string]error),
	}
}

// InjectError makes any operation on path fail with err.
func (m *MemoryFS) InjectError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorPaths[filepath.Clean(path)] = err
}

func (m *MemoryFS) get(path string) (*memFile, string, error) {
	path = filepath.Clean(path)
	if err, ok := m.errorPaths[path]; ok {
		return nil, path, err
	}
	f, ok := m.files[path]
	if !ok {
		return nil, path, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return f, path, nil
}

func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, path, err := m.get(name)
	if err != nil {
		return nil, err
	}
	return &memInfo{name: filepath.Base(path), f: f}, nil
}

// Lstat falls back to Stat; MemoryFS has no symlinks.
func (m *MemoryFS) Lstat(name string) (fs.FileInfo, error) {
	return m.Stat(name)
}

func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, path, err := m.get(name)
	if err != nil {
		return nil, err
	}
	if f.isDir {
		return nil, &fs.PathError{Op: "read", Path: path, Err: fs.ErrInvalid}
	}
	out := make([]byte, len(f.content))
	copy(out, f.content)
	return out, nil
}

func (m *MemoryFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path := filepath.Clean(name)
	if err, ok := m.errorPaths[path]; ok {
		return err
	}
	if parent, ok := m.files[filepath.Dir(path)]; !ok || !parent.isDir {
		return &fs.PathError{Op: "write", Path: path, Err: fs.ErrNotExist}
	}
	content := make([]byte, len(data))
	copy(content, data)
	m.files[path] = &memFile{mode: perm, modTime: time.Now(), content: content}
	return nil
}

func (m *MemoryFS) MkdirAll(path string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err, ok := m.errorPaths[path]; ok {
		return err
	}
	for _, dir := range ancestors(path) {
		if existing, ok := m.files[dir]; ok {
			if !existing.isDir {
				return &fs.PathError{Op: "mkdir", Path: dir, Err: fs.ErrExist}
			}
			continue
		}
		m.files[dir] = &memFile{mode: perm | fs.ModeDir, modTime: time.Now(), isDir: true}
	}
	return nil
}

func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, path, err := m.get(name)
	if err != nil {
		return nil, err
	}
	if !f.isDir {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrInvalid}
	}
	var entries []fs.DirEntry
	for p, child := range m.files {
		if p != path && filepath.Dir(p) == path {
			entries = append(entries, &memEntry{name: filepath.Base(p), f: child})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path := filepath.Clean(name)
	if err, ok := m.errorPaths[path]; ok {
		return err
	}
	if _, ok := m.files[path]; !ok {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrNotExist}
	}
	delete(m.files, path)
	return nil
}

// Exists reports whether a file or directory exists at path.
func (m *MemoryFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[filepath.Clean(path)]
	return ok
}

// Size returns the content length of the file at path, or -1 when it
// does not exist.
func (m *MemoryFS) Size(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[filepath.Clean(path)]
	if !ok || f.isDir {
		return -1
	}
	return len(f.content)
}

// ancestors lists every directory from the root down to path itself.
func ancestors(path string) []string {
	var dirs []string
	for p := path; ; p = filepath.Dir(p) {
		dirs = append(dirs, p)
		if filepath.Dir(p) == p {
			break
		}
	}
	// reverse into root-first order
	for i, j := 0, len(dirs)-1; i < j; i, j = i+1, j-1 {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	}
	return dirs
}

type memInfo struct {
	name string
	f    *memFile
}

func (i *memInfo) Name() string       { return i.name }
func (i *memInfo) Size() int64        { return int64(len(i.f.content)) }
func (i *memInfo) Mode() fs.FileMode  { return i.f.mode }
func (i *memInfo) ModTime() time.Time { return i.f.modTime }
func (i *memInfo) IsDir() bool        { return i.f.isDir }
func (i *memInfo) Sys() interface{}   { return nil }

type memEntry struct {
	name string
	f    *memFile
}

func (e *memEntry) Name() string               { return e.name }
func (e *memEntry) IsDir() bool                { return e.f.isDir }
func (e *memEntry) Type() fs.FileMode          { return e.f.mode.Type() }
func (e *memEntry) Info() (fs.FileInfo, error) { return &memInfo{name: e.name, f: e.f}, nil }
