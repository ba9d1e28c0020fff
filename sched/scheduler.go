package sched

import (
	"runtime"
	"sync"
)

// Scheduler holds the kernel's full set of contexts and elects the next
// one to run with simple round-robin, skipping anything not Runnable.
// Exactly one Context executes at a time: the scheduler hands a single
// baton from the previously running Context to the next elected one and
// blocks the previous Context's goroutine until it is re-elected.
type Scheduler struct {
	mu         sync.Mutex
	interrupts *Interrupts
	contexts   []*Context
	current    *Context
	nextID     uint64
	idle       *Context
}

// NewScheduler creates a Scheduler with a single always-runnable idle
// context already spawned, so election never fails even if every
// user-spawned Context is blocked.
func NewScheduler(interrupts *Interrupts) *Scheduler {
	s := &Scheduler{interrupts: interrupts}
	s.idle = s.Spawn("idle", func(c *Context) {
		for {
			s.ContextSwitch(c, false)
			// Once every other Context is Blocked/Terminated, ContextSwitch
			// re-elects idle itself and returns immediately (see
			// electAndHandoff); without yielding here this loop would spin
			// a full OS thread the way a real CPU's "hlt" doesn't.
			runtime.Gosched()
		}
	})
	return s
}

// Spawn creates a new Runnable Context running fn and adds it to the
// round-robin rotation.
func (s *Scheduler) Spawn(name string, fn func(c *Context)) *Context {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.mu.Unlock()

	c := newContext(id, name, s, fn)
	c.run()

	s.mu.Lock()
	s.contexts = append(s.contexts, c)
	s.mu.Unlock()
	return c
}

// Contexts returns a snapshot of every Context known to the scheduler.
func (s *Scheduler) Contexts() []*Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Context, len(s.contexts))
	copy(out, s.contexts)
	return out
}

// Current returns the Context currently holding the baton, or nil before
// the first ContextSwitch.
func (s *Scheduler) Current() *Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// elect scans the rotation starting just after the current Context,
// wrapping around, and returns the first Runnable one. Must be called
// with s.mu held.
func (s *Scheduler) elect() *Context {
	n := len(s.contexts)
	if n == 0 {
		return nil
	}
	startIdx := 0
	if s.current != nil {
		for i, c := range s.contexts {
			if c == s.current {
				startIdx = i + 1
				break
			}
		}
	}
	for i := 0; i < n; i++ {
		c := s.contexts[(startIdx+i)%n]
		if c.Status() == Runnable {
			return c
		}
	}
	return nil
}

// electAndHandoff demotes from (if it's still Running) to Runnable, elects
// the next Context, and marks it Running. It must be called with the
// interrupts token held for the whole election, and returns the elected
// Context (nil if none is Runnable).
//
// If the election lands back on demote itself — the normal state once
// every other Context is Blocked or Terminated — demote's own Running
// status is restored instead of handed off: demote is the only receiver
// ever parked on its own baton channel, so sending to it here (from
// whatever goroutine is running this election) would deadlock forever on
// an unbuffered send with no one left to receive it.
func (s *Scheduler) electAndHandoff(demote *Context) *Context {
	wasRunning := demote != nil && demote.Status() == Running
	if wasRunning {
		demote.setStatus(Runnable)
	}

	s.mu.Lock()
	next := s.elect()
	if next != nil {
		s.current = next
	}
	s.mu.Unlock()

	if next == demote {
		if wasRunning {
			next.setStatus(Running)
		}
		return next
	}

	if next != nil {
		next.setStatus(Running)
	}
	return next
}

// ContextSwitch elects a new Context to run and transfers the baton to
// it, blocking the calling Context (from) until it is elected again.
// fromInterrupt distinguishes a timer-preempted switch from a voluntary
// yield, matching the distinction the original kernel's context_switch
// makes, though both follow the same election rule here.
//
// from must be the Context whose own goroutine is making this call (or
// nil, only for the very first switch at boot, where there is no
// previously running Context to demote or re-block). A foreign goroutine
// driving someone else's preemption must use Preempt instead, since it
// has no baton of its own to block on.
func (s *Scheduler) ContextSwitch(from *Context, fromInterrupt bool) {
	tok := s.interrupts.BeginAtomic()
	next := s.electAndHandoff(from)
	self := next != nil && next == from
	s.interrupts.EndAtomic(tok)

	if self {
		// No other Runnable context exists; restore and return without a
		// hand-off, matching the original context_switch's "elect a
		// successor; if equal to current, restore and return" step.
		return
	}

	if next != nil {
		next.handOff()
	}
	if from != nil {
		from.Yield()
	}
}

// Preempt elects a successor for whichever Context is currently Running
// and hands it the baton, without blocking the caller. It is the
// interrupt-path counterpart to ContextSwitch: a timer tick is delivered
// by a driver goroutine that owns no baton of its own (it is never the
// running Context's own goroutine), so it cannot safely call
// ContextSwitch(current, true) and then block on current.Yield() — that
// Context's real goroutine is already parked on that exact channel, and
// two receivers racing one send hang the kernel nondeterministically.
func (s *Scheduler) Preempt() {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	tok := s.interrupts.BeginAtomic()
	next := s.electAndHandoff(current)
	self := next != nil && next == current
	s.interrupts.EndAtomic(tok)

	if !self && next != nil {
		next.handOff()
	}
}

// Retire elects a successor for a Context whose body has just returned
// and removes it from the rotation. Unlike ContextSwitch, the caller's
// goroutine is exiting and never blocks waiting to be re-elected.
func (s *Scheduler) Retire(c *Context) {
	tok := s.interrupts.BeginAtomic()
	c.setStatus(Terminated)
	next := s.electAndHandoff(nil)
	self := next != nil && next == c
	s.interrupts.EndAtomic(tok)

	if !self && next != nil {
		next.handOff()
	}
	s.notifyExit(c)
}

// notifyExit removes a terminated Context from the rotation.
func (s *Scheduler) notifyExit(c *Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ctx := range s.contexts {
		if ctx == c {
			s.contexts = append(s.contexts[:i], s.contexts[i+1:]...)
			break
		}
	}
}

// Idle returns the scheduler's always-runnable fallback Context.
func (s *Scheduler) Idle() *Context {
	return s.idle
}
