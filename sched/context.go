package sched

import "sync"

// Status is a Context's scheduling state.
type Status int

const (
	// Runnable contexts are eligible for election but not currently
	// executing.
	Runnable Status = iota
	// Running is held by exactly one Context at a time: the one currently
	// holding the baton.
	Running
	// Blocked contexts are excluded from election until something makes
	// them Runnable again (e.g. a syscall completion).
	Blocked
	// Terminated contexts have exited and are never elected again.
	Terminated
)

func (s Status) String() string {
	switch s {
	case Runnable:
		return "runnable"
	case Running:
		return "running"
	case Blocked:
		return "blocked"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Context is the kernel's task control block: everything the scheduler
// needs to elect, run, and retire a unit of execution. Rather than a real
// saved register frame and stack pointer, each Context owns a goroutine
// parked on a channel — the "baton" — so that only the Context currently
// holding it ever runs its body concurrently with another Context's body.
type Context struct {
	ID   uint64
	Name string

	mu     sync.Mutex
	status Status

	baton    chan struct{} // sent to when this Context is elected to run
	done     chan struct{} // closed when the Context's body returns
	sched    *Scheduler
	fn       func(c *Context)
	started  bool
}

func newContext(id uint64, name string, sched *Scheduler, fn func(c *Context)) *Context {
	return &Context{
		ID:     id,
		Name:   name,
		status: Runnable,
		baton:  make(chan struct{}),
		done:   make(chan struct{}),
		sched:  sched,
		fn:     fn,
	}
}

// Status returns the Context's current scheduling state.
func (c *Context) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Context) setStatus(s Status) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

// Block marks the Context as not runnable. It must currently be Running;
// a subsequent context_switch will elect a different Context.
func (c *Context) Block() {
	c.setStatus(Blocked)
}

// Unblock marks a Blocked context as Runnable again.
func (c *Context) Unblock() {
	c.mu.Lock()
	if c.status == Blocked {
		c.status = Runnable
	}
	c.mu.Unlock()
}

// Yield blocks the calling goroutine until the scheduler hands this
// Context the baton again. It is called by a Context's own body, never by
// another Context.
func (c *Context) Yield() {
	<-c.baton
}

// run launches the Context's body in its own goroutine, parked waiting
// for the first baton hand-off.
func (c *Context) run() {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	go func() {
		c.Yield()
		if c.fn != nil {
			c.fn(c)
		}
		close(c.done)
		c.sched.Retire(c)
	}()
}

// handOff gives this Context the baton for exactly one scheduling quantum.
func (c *Context) handOff() {
	c.baton <- struct{}{}
}
