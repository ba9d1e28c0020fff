package schemes

import (
	"nucleus/kurl"
	"nucleus/resource"
	"nucleus/session"
)

// Display implements the "display" scheme: a single framebuffer-sized
// byte buffer standing in for the original kernel's VBE/VGA framebuffer
// mapping. A real compositor is out of scope; this exists so the
// session's scheme roster and redraw state machine have something
// concrete to drive.
type Display struct {
	session.DefaultScheme
	width, height int
}

// NewDisplay creates a Display scheme sized width x height, 32 bits per
// pixel.
func NewDisplay(width, height int) *Display {
	return &Display{width: width, height: height}
}

func (d *Display) Name() string { return "display" }

func (d *Display) Open(u kurl.URL, flags int) (resource.Resource, error) {
	return resource.NewByteVector(u, make([]byte, d.width*d.height*4)), nil
}

// Window implements the "window" scheme: each Open allocates an
// independent window surface buffer, the compositor-facing counterpart
// to Display's single framebuffer.
type Window struct {
	session.DefaultScheme
}

// NewWindow creates a Window scheme.
func NewWindow() *Window {
	return &Window{}
}

func (w *Window) Name() string { return "window" }

func (w *Window) Open(u kurl.URL, flags int) (resource.Resource, error) {
	return resource.NewByteVector(u, nil), nil
}
