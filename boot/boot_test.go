package boot

import (
	"testing"
	"time"

	"nucleus/clock"
	kerrors "nucleus/errors"
	"nucleus/event"
	"nucleus/kurl"
	"nucleus/resource"
	"nucleus/sched"
	"nucleus/session"
	"nucleus/sysc"
	"nucleus/trap"
)

type irqSpyScheme struct {
	session.DefaultScheme
	irqs []uint8
}

func (s *irqSpyScheme) Name() string { return "irqspy" }
func (s *irqSpyScheme) Open(u kurl.URL, flags int) (resource.Resource, error) {
	return nil, kerrors.ErrSchemeNotFound
}
func (s *irqSpyScheme) OnIRQ(vector uint8) { s.irqs = append(s.irqs, vector) }

func TestBootRegistersSchemesAndEnablesInterrupts(t *testing.T) {
	k := New(nil)

	if err := k.Boot(Config{}); err != nil {
		t.Fatalf("Boot() error = %v", err)
	}

	if !k.Booted() {
		t.Fatal("Booted() = false after successful Boot")
	}
	if !k.Interrupts.Enabled() {
		t.Fatal("interrupts not enabled after Boot")
	}

	names := map[string]bool{}
	for _, s := range k.Session.Schemes() {
		names[s.Name()] = true
	}
	for _, want := range []string{"debug", "ps2", "serial", "file", "context", "memory", "random", "time", "ethernet", "arp", "icmp", "ip", "tcp", "display", "window"} {
		if !names[want] {
			t.Errorf("scheme %q not registered after Boot", want)
		}
	}
}

func TestBootTwiceFails(t *testing.T) {
	k := New(nil)
	if err := k.Boot(Config{}); err != nil {
		t.Fatalf("first Boot() error = %v", err)
	}
	if err := k.Boot(Config{}); err == nil {
		t.Fatal("expected error on second Boot() call")
	}
}

func TestBootSeedsAssetsOverFileScheme(t *testing.T) {
	k := New(nil)
	if err := k.Boot(Config{Font: []byte("FONTDATA"), Cursor: []byte("CURSOR")}); err != nil {
		t.Fatalf("Boot() error = %v", err)
	}

	res, err := k.Session.Open(kurl.New("file:///fonts/unifont.font"), 0)
	if err != nil {
		t.Fatalf("Open(font) error = %v", err)
	}
	buf := make([]byte, 8)
	n, ok := res.Read(buf)
	if !ok || string(buf[:n]) != "FONTDATA" {
		t.Fatalf("font contents = %q, want %q", buf[:n], "FONTDATA")
	}
}

func TestBootSpawnsBackgroundTasks(t *testing.T) {
	k := New(nil)
	if err := k.Boot(Config{}); err != nil {
		t.Fatalf("Boot() error = %v", err)
	}

	names := map[string]bool{}
	for _, c := range k.Scheduler.Contexts() {
		names[c.Name] = true
	}
	for _, want := range []string{"poll_loop", "event_loop", "arp_reply_loop", "icmp_reply_loop"} {
		if !names[want] {
			t.Errorf("background task %q not spawned", want)
		}
	}
}

func TestEventLoopDrainsPushedEvents(t *testing.T) {
	k := New(nil)
	if err := k.Boot(Config{}); err != nil {
		t.Fatalf("Boot() error = %v", err)
	}

	tok := k.Interrupts.BeginAtomic()
	k.Events.Push(tok, event.NewOpaqueEvent(event.Opaque{Code: 1}))
	k.Interrupts.EndAtomic(tok)

	k.Scheduler.ContextSwitch(nil, false)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		tok := k.Interrupts.BeginAtomic()
		n := k.Events.Len()
		k.Interrupts.EndAtomic(tok)
		if n == 0 {
			return
		}
	}
	t.Fatal("event loop never drained the pushed event")
}

func TestBootWiresIRQHandlersToSessionOnIRQ(t *testing.T) {
	k := New(nil)
	spy := &irqSpyScheme{}
	if err := k.Session.Register(spy); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := k.Boot(Config{}); err != nil {
		t.Fatalf("Boot() error = %v", err)
	}

	if err := k.Dispatcher.Dispatch(trap.VectorIRQMin, &trap.Frame{}, nil); err != nil {
		t.Fatalf("Dispatch(irq) error = %v", err)
	}
	if len(spy.irqs) != 1 || spy.irqs[0] != trap.VectorIRQMin {
		t.Fatalf("irqs = %v, want [%d]", spy.irqs, trap.VectorIRQMin)
	}
}

func TestBootWiresSyscallGateToSyscalls(t *testing.T) {
	k := New(nil)
	if err := k.Boot(Config{}); err != nil {
		t.Fatalf("Boot() error = %v", err)
	}

	// A freshly booted clock reads (0, 0), so set a distinctive realtime
	// value the Time syscall must copy into AX/BX.
	k.Clock.SetRealtime(clock.Duration{Secs: 1_700_000_000, Nanos: 42})

	worker := k.Scheduler.Spawn("syscaller", func(c *sched.Context) {})
	frame := &trap.Frame{AX: uint64(sysc.SysTime)}
	if err := k.Dispatcher.Dispatch(trap.VectorSyscall, frame, worker); err != nil {
		t.Fatalf("Dispatch(syscall) error = %v", err)
	}
	if frame.AX != 1_700_000_000 || frame.BX != 42 {
		t.Fatalf("Time syscall left AX/BX = %d/%d, want 1700000000/42; gate not reached", frame.AX, frame.BX)
	}
}

func TestBootWiresFaultExitToTerminateUserContext(t *testing.T) {
	k := New(nil)
	if err := k.Boot(Config{}); err != nil {
		t.Fatalf("Boot() error = %v", err)
	}

	started := make(chan struct{})
	var worker *sched.Context
	worker = k.Scheduler.Spawn("faulter", func(c *sched.Context) {
		close(started)
		// Dispatch runs on the faulting Context's own goroutine, the same
		// contract the syscall gate relies on: SetFaultExit's Exit call
		// never returns, parking this goroutine for good once the fault
		// is handled.
		k.Dispatcher.Dispatch(13, &trap.Frame{}, c)
		t.Error("Dispatch(fault) returned")
	})

	k.Scheduler.ContextSwitch(nil, false)
	<-started

	deadline := time.Now().Add(time.Second)
	for worker.Status() != sched.Terminated {
		if time.Now().After(deadline) {
			t.Fatalf("Status() = %v, want Terminated before timeout", worker.Status())
		}
		time.Sleep(time.Millisecond)
	}
}
