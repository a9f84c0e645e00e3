package fileops

import "sync"

// Fake is an in-memory FileOps that records every path it was asked to
// create or write, without touching any filesystem. None of its methods
// return an error.
type Fake struct {
	mx      sync.RWMutex
	entries map[string]fakeEntry
}

type fakeEntry struct {
	isFile bool
	data   []byte
}

var _ FileOps = &Fake{}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{entries: map[string]fakeEntry{}}
}

// IsFile implements FileOps. It returns true only for paths previously passed
// to WriteBytes.
func (f *Fake) IsFile(path string) (bool, error) {
	f.mx.RLock()
	defer f.mx.RUnlock()
	return f.entries[path].isFile, nil
}

// CreateParentDirs implements FileOps. It records a placeholder for path
// itself, which is known but is not a file.
func (f *Fake) CreateParentDirs(path string) error {
	f.mx.Lock()
	defer f.mx.Unlock()
	if _, ok := f.entries[path]; !ok {
		f.entries[path] = fakeEntry{}
	}
	return nil
}

// WriteBytes implements FileOps.
func (f *Fake) WriteBytes(path string, content []byte) error {
	data := make([]byte, len(content))
	copy(data, content)

	f.mx.Lock()
	defer f.mx.Unlock()
	f.entries[path] = fakeEntry{isFile: true, data: data}
	return nil
}

// ReadBytes implements FileOps. Paths that were never written return an
// empty slice.
func (f *Fake) ReadBytes(path string) ([]byte, error) {
	f.mx.RLock()
	defer f.mx.RUnlock()

	entry := f.entries[path]
	data := make([]byte, len(entry.data))
	copy(data, entry.data)
	return data, nil
}

// Known returns true if path was passed to either CreateParentDirs or
// WriteBytes.
func (f *Fake) Known(path string) bool {
	f.mx.RLock()
	defer f.mx.RUnlock()
	_, ok := f.entries[path]
	return ok
}
