package fs

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/afero"
)

// Mem is an in-memory FS for tests. Advisory locks are tracked per path in a
// lock table, mirroring the exclusive semantics the production implementation
// gets from the OS.
type Mem struct {
	fs afero.Fs

	mu    sync.Mutex
	locks map[string]*memFile
}

// NewMem creates an empty in-memory filesystem.
func NewMem() *Mem {
	return &Mem{
		fs:    afero.NewMemMapFs(),
		locks: make(map[string]*memFile),
	}
}

// OpenFile opens path in the in-memory filesystem.
func (m *Mem) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	f, err := m.fs.OpenFile(path, flag, perm)
	if err != nil {
		return nil, err
	}
	return &memFile{File: f, path: path, owner: m}, nil
}

// ReadFile returns the current contents of path.
func (m *Mem) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(m.fs, path)
}

// Exists reports whether path exists.
func (m *Mem) Exists(path string) (bool, error) {
	return afero.Exists(m.fs, path)
}

type memFile struct {
	afero.File
	path  string
	owner *Mem
}

func (f *memFile) Lock() error {
	f.owner.mu.Lock()
	defer f.owner.mu.Unlock()
	if holder := f.owner.locks[f.path]; holder != nil && holder != f {
		return fmt.Errorf("%s: already locked", f.path)
	}
	f.owner.locks[f.path] = f
	return nil
}

func (f *memFile) Unlock() error {
	f.owner.mu.Lock()
	defer f.owner.mu.Unlock()
	if f.owner.locks[f.path] == f {
		delete(f.owner.locks, f.path)
	}
	return nil
}

func (f *memFile) Close() error {
	// The lock must not outlive the handle, as with the OS-backed file.
	_ = f.Unlock()
	return f.File.Close()
}
