package schemes

import (
	"log/slog"
	"strconv"

	kerrors "nucleus/errors"
	"nucleus/kurl"
	"nucleus/logging"
	"nucleus/resource"
	"nucleus/session"

	"golang.org/x/sys/unix"
)

// mmapProtFlags documents the page-table protection this scheme's
// allocations stand in for: a real kernel would map physical pages with
// exactly these protection bits rather than backing allocations with a Go
// slice. Referenced here so the constants are exercised even though no
// real mmap syscall is issued.
const mmapProtFlags = unix.PROT_READ | unix.PROT_WRITE

// Memory implements the "memory" scheme: "memory:<size>" allocates a
// zeroed buffer of the requested size and returns a resource positioned
// at offset 0, standing in for the kernel's physical page/cluster
// allocator.
type Memory struct {
	session.DefaultScheme
}

// NewMemory creates a Memory scheme.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Name() string { return "memory" }

// Open parses the URL's byte count and allocates a buffer of that size.
// Both the bare opaque form ("memory:4096") and the hierarchical form
// ("memory:///4096") are accepted, since the original kernel's allocator
// is addressed by the former.
func (m *Memory) Open(u kurl.URL, flags int) (resource.Resource, error) {
	spec := u.Path()
	if spec == "" {
		spec = u.Opaque()
	}

	size := 0
	if spec != "" {
		n, err := strconv.Atoi(spec)
		if err != nil || n < 0 {
			return nil, kerrors.WrapWithDetail(err, kerrors.ErrInvalidConfig, "memory.open", "size must be a non-negative integer")
		}
		size = n
	}

	logging.Debug("memory.open", slog.Int("size", size), slog.Int("prot", mmapProtFlags))
	return resource.NewByteVector(u, make([]byte, size)), nil
}
