// Package session implements the kernel's URL-addressed resource
// registry: an ordered list of named Scheme handlers, linear-scanned on
// open() by URL scheme, with IRQ/poll fan-out across every registered
// Scheme in registration order inside one atomic section.
package session

import (
	"sync"

	kerrors "nucleus/errors"
	"nucleus/kurl"
	"nucleus/resource"
	"nucleus/sched"
)

// Scheme is the capability surface a resource provider registers under a
// name (e.g. "file", "memory", "tcp"). OnIRQ and OnPoll default to no-ops
// for schemes with nothing to do on those events; embed DefaultScheme to
// get that behavior for free.
type Scheme interface {
	Name() string
	Open(u kurl.URL, flags int) (resource.Resource, error)
	OnIRQ(vector uint8)
	OnPoll()
}

// DefaultScheme gives OnIRQ/OnPoll no-op bodies so a Scheme implementation
// only needs to override the events it cares about.
type DefaultScheme struct{}

func (DefaultScheme) OnIRQ(vector uint8) {}
func (DefaultScheme) OnPoll()            {}

// RedrawState is the session's display pipeline state machine: Clean ->
// Dirty (something invalidated the framebuffer) -> Painting (a redraw is
// in flight) -> Clean.
type RedrawState int

const (
	Clean RedrawState = iota
	Dirty
	Painting
)

func (s RedrawState) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case Painting:
		return "painting"
	default:
		return "unknown"
	}
}

// Session is the kernel's scheme registry. Schemes register in a fixed
// order at boot and are never unregistered; open() is a linear scan over
// that order, matching the original kernel's small, boot-time-fixed
// scheme roster.
type Session struct {
	mu          sync.Mutex
	interrupts  *sched.Interrupts
	schemes     []Scheme
	byName      map[string]Scheme
	redrawState RedrawState
}

// New creates an empty Session wired to interrupts for its atomic IRQ/poll
// fan-out.
func New(interrupts *sched.Interrupts) *Session {
	return &Session{
		interrupts: interrupts,
		byName:     make(map[string]Scheme),
	}
}

// Register adds s to the registry under its own Name(). Registration order
// is preserved and is significant: Open does a linear scan in that order,
// and OnIRQ/OnPoll fan out in that order too.
func (sess *Session) Register(s Scheme) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if _, exists := sess.byName[s.Name()]; exists {
		return kerrors.ErrSchemeExists
	}
	sess.schemes = append(sess.schemes, s)
	sess.byName[s.Name()] = s
	return nil
}

// Open resolves u's scheme against the registry and delegates to it.
func (sess *Session) Open(u kurl.URL, flags int) (resource.Resource, error) {
	scheme := u.Scheme()
	for _, s := range sess.Schemes() {
		if s.Name() == scheme {
			return s.Open(u, flags)
		}
	}
	return nil, kerrors.ErrSchemeNotFound
}

// Schemes returns a snapshot of the registry in registration order.
func (sess *Session) Schemes() []Scheme {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]Scheme, len(sess.schemes))
	copy(out, sess.schemes)
	return out
}

// OnIRQ fans a hardware interrupt out to every registered scheme, in
// registration order, inside a single atomic section — matching the
// original kernel's on_irq dispatch, which runs with interrupts disabled
// so no scheme observes a partially-updated session.
func (sess *Session) OnIRQ(vector uint8) {
	tok := sess.interrupts.BeginAtomic()
	defer sess.interrupts.EndAtomic(tok)

	for _, s := range sess.Schemes() {
		s.OnIRQ(vector)
	}
}

// OnPoll fans a poll tick out to every registered scheme, in registration
// order, inside a single atomic section.
func (sess *Session) OnPoll() {
	tok := sess.interrupts.BeginAtomic()
	defer sess.interrupts.EndAtomic(tok)

	for _, s := range sess.Schemes() {
		s.OnPoll()
	}
}

// MarkDirty transitions the redraw state machine from Clean to Dirty,
// requesting a future redraw. It is a no-op from Painting (a redraw
// already in flight will pick up the latest state) and from Dirty.
func (sess *Session) MarkDirty() {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.redrawState == Clean {
		sess.redrawState = Dirty
	}
}

// BeginPaint transitions Dirty -> Painting. Returns false if there was
// nothing dirty to paint.
func (sess *Session) BeginPaint() bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.redrawState != Dirty {
		return false
	}
	sess.redrawState = Painting
	return true
}

// EndPaint transitions Painting -> Clean, completing a redraw cycle.
func (sess *Session) EndPaint() {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.redrawState = Clean
}

// State returns the display pipeline's current redraw state.
func (sess *Session) State() RedrawState {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.redrawState
}
