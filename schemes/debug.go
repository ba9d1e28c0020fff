package schemes

import (
	"os"

	"nucleus/kurl"
	"nucleus/resource"
	"nucleus/session"

	"golang.org/x/term"
)

// Debug implements the "debug" scheme: the kernel's own console. Each
// Open returns a resource with its own growable in-memory buffer, so what
// is written through that handle can be read back from it; the buffer is
// not shared between Opens. Writes are also mirrored to the host's stdout
// when it is a real terminal.
type Debug struct {
	session.DefaultScheme
	isTerminal bool
}

// NewDebug creates a Debug scheme, probing whether stdout is attached to
// a real terminal the way a serial/PS2 console scheme would probe its
// line discipline before deciding whether to enable line editing.
func NewDebug() *Debug {
	return &Debug{isTerminal: term.IsTerminal(int(os.Stdout.Fd()))}
}

func (d *Debug) Name() string { return "debug" }

// IsTerminal reports whether the console scheme believes it is attached
// to an interactive terminal.
func (d *Debug) IsTerminal() bool {
	return d.isTerminal
}

func (d *Debug) Open(u kurl.URL, flags int) (resource.Resource, error) {
	return &debugResource{debug: d, buf: resource.NewByteVector(u, nil)}, nil
}

// debugResource mirrors every Write to the host's stdout when the console
// believes it's attached to a real terminal, in addition to buffering it
// for later inspection.
type debugResource struct {
	debug *Debug
	buf   *resource.ByteVector
}

func (dr *debugResource) Dup() (resource.Resource, error) {
	dup, err := dr.buf.Dup()
	if err != nil {
		return nil, err
	}
	return &debugResource{debug: dr.debug, buf: dup.(*resource.ByteVector)}, nil
}

func (dr *debugResource) URL() kurl.URL { return dr.buf.URL() }

func (dr *debugResource) Read(buf []byte) (int, bool) {
	return dr.buf.Read(buf)
}

func (dr *debugResource) Write(buf []byte) (int, bool) {
	if dr.debug.isTerminal {
		os.Stdout.Write(buf)
	}
	return dr.buf.Write(buf)
}

func (dr *debugResource) Seek(req resource.SeekRequest) (int, bool) {
	return dr.buf.Seek(req)
}

func (dr *debugResource) Sync() bool {
	return dr.buf.Sync()
}

func (dr *debugResource) Close() error {
	return dr.buf.Close()
}
