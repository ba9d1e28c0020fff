// Package sched implements the kernel's cooperative scheduler: critical
// sections, task control blocks (Context), and round-robin context
// switching, expressed as goroutines passing a single baton rather than as
// real stack-swapping assembly.
package sched

import "sync"

// Token proves a caller holds the kernel's single atomic section. It is
// opaque and can only be produced by BeginAtomic, mirroring the original
// kernel's begin_atomic()/end_atomic(token) pairing where the token is the
// prior interrupt-enable flag.
type Token struct {
	wasEnabled bool
}

// Interrupts models the single global interrupt-enable flag a real x86
// kernel would toggle with cli/sti. BeginAtomic/EndAtomic provide a
// critical section without needing assembly: a caller who begins an
// atomic section is guaranteed to run without a concurrent caller also
// holding one, and ending it restores exactly the interrupt-enable state
// that was in effect when it began. Sections do not nest: a second
// BeginAtomic before the matching EndAtomic blocks, even on the same
// goroutine.
//
// gate serializes BeginAtomic/EndAtomic pairs; it stays held for the
// entire section, so Enabled/Enable use a second mutex rather than gate
// itself, letting them be called from within a held section without
// deadlocking against the caller's own BeginAtomic.
type Interrupts struct {
	gate    sync.Mutex
	stateMu sync.Mutex
	enabled bool
}

// NewInterrupts returns an Interrupts flag, initially disabled (as the
// kernel is during early boot, before the first sti).
func NewInterrupts() *Interrupts {
	return &Interrupts{}
}

// BeginAtomic enters the kernel's single atomic section, disabling
// interrupts, and returns a Token capturing whether they were enabled on
// entry so EndAtomic can restore that exact state.
func (in *Interrupts) BeginAtomic() Token {
	in.gate.Lock()
	in.stateMu.Lock()
	wasEnabled := in.enabled
	in.enabled = false
	in.stateMu.Unlock()
	return Token{wasEnabled: wasEnabled}
}

// EndAtomic leaves the atomic section, restoring the interrupt-enable
// state captured by the matching BeginAtomic call.
func (in *Interrupts) EndAtomic(tok Token) {
	in.stateMu.Lock()
	in.enabled = tok.wasEnabled
	in.stateMu.Unlock()
	in.gate.Unlock()
}

// Enable unconditionally enables interrupts. Called once at the end of
// boot.
func (in *Interrupts) Enable() {
	in.stateMu.Lock()
	in.enabled = true
	in.stateMu.Unlock()
}

// Enabled reports whether interrupts are currently enabled.
func (in *Interrupts) Enabled() bool {
	in.stateMu.Lock()
	defer in.stateMu.Unlock()
	return in.enabled
}
