// Package sysc implements the kernel's syscall surface: the per-Context
// handle table and the open/dup/close/read/write/seek/fsync/exit/spawn/
// sleep/time operations dispatched through trap's syscall vector.
package sysc

import (
	"sync"

	kerrors "nucleus/errors"
	"nucleus/resource"
)

// HandleTable is a Context's private file-descriptor-like table, mapping
// small integer handles to open Resources.
type HandleTable struct {
	mu      sync.Mutex
	next    int
	entries map[int]resource.Resource
}

// NewHandleTable creates an empty HandleTable.
func NewHandleTable() *HandleTable {
	return &HandleTable{entries: make(map[int]resource.Resource)}
}

// Insert adds res under a freshly allocated handle and returns it.
func (t *HandleTable) Insert(res resource.Resource) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.next
	t.next++
	t.entries[h] = res
	return h
}

// Get returns the Resource registered under handle h.
func (t *HandleTable) Get(h int) (resource.Resource, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	res, ok := t.entries[h]
	if !ok {
		return nil, kerrors.ErrHandleNotFound
	}
	return res, nil
}

// Remove deletes the entry for handle h, closing the underlying Resource.
func (t *HandleTable) Remove(h int) error {
	t.mu.Lock()
	res, ok := t.entries[h]
	if ok {
		delete(t.entries, h)
	}
	t.mu.Unlock()

	if !ok {
		return kerrors.ErrHandleNotFound
	}
	return res.Close()
}

// Len reports the number of open handles.
func (t *HandleTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// CloseAll closes every open handle and empties the table, used when a
// Context exits and must release every Resource it held open.
func (t *HandleTable) CloseAll() {
	t.mu.Lock()
	entries := t.entries
	t.entries = make(map[int]resource.Resource)
	t.mu.Unlock()

	for _, res := range entries {
		res.Close()
	}
}
