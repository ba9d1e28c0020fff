package schemes

import (
	"crypto/rand"

	"nucleus/kurl"
	"nucleus/resource"
	"nucleus/session"

	"golang.org/x/sys/unix"
)

// Random implements the "random" scheme: every Open returns a resource
// whose Read calls pull fresh entropy rather than replaying a fixed
// buffer. It prefers the getrandom(2) syscall directly, matching the
// original kernel's own entropy source more closely than going through
// crypto/rand's blocking-device fallback path, and only falls back to
// crypto/rand if getrandom is unavailable (e.g. sandboxed test
// environments).
type Random struct {
	session.DefaultScheme
}

// NewRandom creates a Random scheme.
func NewRandom() *Random {
	return &Random{}
}

func (r *Random) Name() string { return "random" }

func (r *Random) Open(u kurl.URL, flags int) (resource.Resource, error) {
	return &randomResource{url: u}, nil
}

type randomResource struct {
	url kurl.URL
}

func (rr *randomResource) Dup() (resource.Resource, error) {
	return &randomResource{url: rr.url}, nil
}

func (rr *randomResource) URL() kurl.URL { return rr.url }

func (rr *randomResource) Read(buf []byte) (int, bool) {
	n, err := unix.Getrandom(buf, 0)
	if err != nil {
		n, err = rand.Read(buf)
		if err != nil {
			return 0, false
		}
	}
	return n, true
}

func (rr *randomResource) Write(buf []byte) (int, bool) {
	// Writes to the entropy source are accepted and discarded, the same
	// way the original kernel's random scheme treats pool reseeding
	// writes as best-effort.
	return len(buf), true
}

func (rr *randomResource) Seek(req resource.SeekRequest) (int, bool) {
	return 0, false
}

func (rr *randomResource) Sync() bool {
	return true
}

func (rr *randomResource) Close() error {
	return nil
}
