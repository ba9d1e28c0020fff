package sysc

import (
	kerrors "nucleus/errors"
	"nucleus/clock"
	"nucleus/kurl"
	"nucleus/resource"
	"nucleus/sched"
	"nucleus/session"
)

// Number identifies a syscall, the same vocabulary the original kernel's
// syscall gate (vector 0x80) dispatches on.
type Number int

const (
	SysOpen Number = iota
	SysDup
	SysClose
	SysRead
	SysWrite
	SysSeek
	SysFsync
	SysExit
	SysSpawn
	SysSleep
	SysTime
)

func (n Number) String() string {
	switch n {
	case SysOpen:
		return "open"
	case SysDup:
		return "dup"
	case SysClose:
		return "close"
	case SysRead:
		return "read"
	case SysWrite:
		return "write"
	case SysSeek:
		return "seek"
	case SysFsync:
		return "fsync"
	case SysExit:
		return "exit"
	case SysSpawn:
		return "spawn"
	case SysSleep:
		return "sleep"
	case SysTime:
		return "time"
	default:
		return "unknown"
	}
}

// Syscalls implements the kernel's syscall surface, wired to the scheme
// registry, scheduler, and clock at boot.
type Syscalls struct {
	session   *session.Session
	scheduler *sched.Scheduler
	clock     *clock.Clock
}

// New creates a Syscalls surface bound to sess, sch, and clk.
func New(sess *session.Session, sch *sched.Scheduler, clk *clock.Clock) *Syscalls {
	return &Syscalls{session: sess, scheduler: sch, clock: clk}
}

// Open resolves rawURL through the session registry and inserts the
// resulting Resource into handles, returning its handle.
func (s *Syscalls) Open(handles *HandleTable, rawURL string, flags int) (int, error) {
	res, err := s.session.Open(kurl.New(rawURL), flags)
	if err != nil {
		return -1, err
	}
	return handles.Insert(res), nil
}

// Dup duplicates the Resource under h into a new handle.
func (s *Syscalls) Dup(handles *HandleTable, h int) (int, error) {
	res, err := handles.Get(h)
	if err != nil {
		return -1, err
	}
	dup, err := res.Dup()
	if err != nil {
		return -1, err
	}
	return handles.Insert(dup), nil
}

// Close releases handle h.
func (s *Syscalls) Close(handles *HandleTable, h int) error {
	return handles.Remove(h)
}

// Read reads into buf from the Resource under h.
func (s *Syscalls) Read(handles *HandleTable, h int, buf []byte) (int, error) {
	res, err := handles.Get(h)
	if err != nil {
		return 0, err
	}
	n, ok := res.Read(buf)
	if !ok {
		return 0, kerrors.ErrResourceIO
	}
	return n, nil
}

// Write writes buf to the Resource under h.
func (s *Syscalls) Write(handles *HandleTable, h int, buf []byte) (int, error) {
	res, err := handles.Get(h)
	if err != nil {
		return 0, err
	}
	n, ok := res.Write(buf)
	if !ok {
		return 0, kerrors.ErrResourceIO
	}
	return n, nil
}

// Seek repositions the Resource under h.
func (s *Syscalls) Seek(handles *HandleTable, h int, req resource.SeekRequest) (int, error) {
	res, err := handles.Get(h)
	if err != nil {
		return 0, err
	}
	pos, ok := res.Seek(req)
	if !ok {
		return 0, kerrors.ErrResourceIO
	}
	return pos, nil
}

// Fsync flushes the Resource under h.
func (s *Syscalls) Fsync(handles *HandleTable, h int) error {
	res, err := handles.Get(h)
	if err != nil {
		return err
	}
	if !res.Sync() {
		return kerrors.ErrResourceIO
	}
	return nil
}

// Exit terminates ctx, unless it is the kernel's root context: releases
// every Resource still open in handles, marks ctx Terminated and removes
// it from the scheduling rotation, then yields for good. Like the real
// exit syscall, Exit never returns to its caller.
func (s *Syscalls) Exit(handles *HandleTable, ctx *sched.Context) error {
	if ctx == s.scheduler.Idle() {
		return kerrors.ErrRootContextExit
	}
	handles.CloseAll()
	s.scheduler.Retire(ctx)
	select {} // exit(2) never returns; ctx's goroutine is retired and parked forever
}

// Spawn creates a new Context running fn.
func (s *Syscalls) Spawn(name string, fn func(c *sched.Context)) *sched.Context {
	return s.scheduler.Spawn(name, fn)
}

// Sleep blocks ctx until at least d has elapsed on the monotonic clock,
// polling coarsely at PIT-tick granularity via repeated yields — the same
// tick-driven sleep semantics the original kernel's scheduler used, since
// there is no separate timer-wheel subsystem.
func (s *Syscalls) Sleep(ctx *sched.Context, d clock.Duration) {
	deadline := s.clock.Monotonic().Add(d)
	for s.clock.Monotonic().Compare(deadline) < 0 {
		s.scheduler.ContextSwitch(ctx, false)
	}
}

// Time returns the current realtime clock reading.
func (s *Syscalls) Time() clock.Duration {
	return s.clock.Realtime()
}
