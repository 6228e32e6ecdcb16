package fs

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// Real is the production FS backed by the os package. Locking uses advisory
// flock-style locks, so it guards against other cooperating processes, not
// against raw writes that ignore the lock.
type Real struct{}

// NewReal creates a production filesystem.
func NewReal() *Real {
	return &Real{}
}

// OpenFile opens path via os.OpenFile.
func (*Real) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	f, err := os.OpenFile(path, flag, perm)
	if err != nil {
		return nil, err
	}
	return &realFile{File: f, fl: flock.New(path)}, nil
}

type realFile struct {
	*os.File
	fl *flock.Flock
}

func (f *realFile) Lock() error {
	ok, err := f.fl.TryLock()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: locked by another process", f.Name())
	}
	return nil
}

func (f *realFile) Unlock() error {
	return f.fl.Unlock()
}

func (f *realFile) Close() error {
	// The lock must not outlive the handle. Unlock is a no-op when the
	// lock was already released.
	_ = f.fl.Unlock()
	return f.File.Close()
}
