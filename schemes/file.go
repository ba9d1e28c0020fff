package schemes

import (
	"sync"

	"nucleus/kurl"
	"nucleus/resource"
	"nucleus/session"
)

// File implements the "file" scheme as an in-memory tree keyed by path,
// the same virtual-filesystem shape the original kernel's boot sequence
// uses to stage cursor/scheme-folder/app-folder/background assets before
// any real disk driver exists.
type File struct {
	session.DefaultScheme
	mu    sync.Mutex
	files map[string][]byte
}

// NewFile creates an empty File scheme.
func NewFile() *File {
	return &File{files: make(map[string][]byte)}
}

func (f *File) Name() string { return "file" }

// Seed pre-populates path with data, as boot.go does for assets loaded
// before the scheme's own callers could have written them.
func (f *File) Seed(path string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	f.files[path] = buf
}

// Open returns a resource over a copy of path's contents. A path that
// doesn't yet exist is created empty; flags are ignored. Writes through
// the returned resource change only that copy, not the stored contents.
func (f *File) Open(u kurl.URL, flags int) (resource.Resource, error) {
	path := u.Path()

	f.mu.Lock()
	data, ok := f.files[path]
	if !ok {
		f.files[path] = nil
	}
	f.mu.Unlock()

	return resource.NewByteVector(u, data), nil
}
