package sched

// WakeGate is a one-shot rendezvous a blocked Context waits on and an IRQ
// handler or another Context signals, modelled on a pipe-backed
// parent/child synchronization (a blocking read paired with a write into
// the other end) and reshaped as a buffered channel:
// Wait blocks until Signal has been called, and Signal never blocks the
// signaler even if nobody is waiting yet.
type WakeGate struct {
	ch chan struct{}
}

// NewWakeGate returns a WakeGate ready to be waited on.
func NewWakeGate() *WakeGate {
	return &WakeGate{ch: make(chan struct{}, 1)}
}

// Signal wakes a pending (or future) Wait call. Safe to call more than
// once; only the first call before a Wait has any effect until Wait
// consumes it.
func (g *WakeGate) Signal() {
	select {
	case g.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until Signal has been called at least once since the last
// Wait.
func (g *WakeGate) Wait() {
	<-g.ch
}
