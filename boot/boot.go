// Package boot assembles every kernel subsystem and runs a boot sequence
// modelled on the original kernel's init(): debug console first, then
// scheme registration in a fixed order, then dispatcher wiring, then the
// kernel's background tasks, then interrupts, then asset loading. Boot
// returns once that is done; it does not itself switch to any Context.
package boot

import (
	"log/slog"
	"sync"

	"nucleus/clock"
	kerrors "nucleus/errors"
	"nucleus/event"
	"nucleus/logging"
	"nucleus/schemes"
	"nucleus/sched"
	"nucleus/session"
	"nucleus/sysc"
	"nucleus/trap"
)

// Config holds the boot-time parameters a real kernel would receive from
// its bootloader: a font blob (in place of a bootloader-supplied
// pointer), and the assets staged over the file scheme before userspace
// starts.
type Config struct {
	Font       []byte
	Cursor     []byte
	Background []byte
	EventQueueCapacity int
}

// Kernel is the fully wired nucleus: every subsystem created and
// registered, ready for Boot to run the startup sequence.
type Kernel struct {
	Interrupts *sched.Interrupts
	Scheduler  *sched.Scheduler
	Session    *session.Session
	Events     *event.Queue
	Clock      *clock.Clock
	Dispatcher *trap.Dispatcher
	Syscalls   *sysc.Syscalls

	file   *schemes.File
	logger *slog.Logger
	booted bool

	handlesMu    sync.Mutex
	handleTables map[*sched.Context]*sysc.HandleTable
}

// New creates a Kernel with every subsystem constructed but not yet
// booted: Boot still needs to be called to register schemes, spawn
// background tasks, and enable interrupts. Its PIT quantum defaults to
// clock.PITDuration; use NewWithQuantum to override it.
func New(logger *slog.Logger) *Kernel {
	return NewWithQuantum(logger, clock.PITDuration)
}

// NewWithQuantum is New with the PIT tick quantum overridden to
// nanosPerTick, for the CLI's --quantum flag.
func NewWithQuantum(logger *slog.Logger, nanosPerTick int64) *Kernel {
	if logger == nil {
		logger = logging.Default()
	}

	interrupts := sched.NewInterrupts()
	scheduler := sched.NewScheduler(interrupts)
	sess := session.New(interrupts)
	clk := clock.NewWithQuantum(nanosPerTick)
	dispatcher := trap.NewDispatcher(clk, scheduler)
	syscalls := sysc.New(sess, scheduler, clk)

	return &Kernel{
		Interrupts:   interrupts,
		Scheduler:    scheduler,
		Session:      sess,
		Events:       nil,
		Clock:        clk,
		Dispatcher:   dispatcher,
		Syscalls:     syscalls,
		logger:       logger,
		handleTables: make(map[*sched.Context]*sysc.HandleTable),
	}
}

// handlesFor returns ctx's HandleTable, creating it on first use. Every
// Context that can trap into the syscall gate or take a fault gets exactly
// one, lazily, since the idle/root Context and most background tasks never
// open a handle at all.
func (k *Kernel) handlesFor(ctx *sched.Context) *sysc.HandleTable {
	k.handlesMu.Lock()
	defer k.handlesMu.Unlock()
	ht, ok := k.handleTables[ctx]
	if !ok {
		ht = sysc.NewHandleTable()
		k.handleTables[ctx] = ht
	}
	return ht
}

// Boot runs the kernel's startup sequence exactly once, reproducing the
// original init()'s order: debug console, then the rest of the scheme
// roster (ps2, serial, file, context, memory, random, time, the network
// loopbacks, display, window), then dispatcher wiring, then the kernel's
// four background tasks, then interrupt enable, then asset loading over
// the file scheme.
func (k *Kernel) Boot(cfg Config) error {
	if k.booted {
		return kerrors.ErrAlreadyBooted
	}

	capacity := cfg.EventQueueCapacity
	k.Events = event.NewQueue(capacity)

	debug := schemes.NewDebug()
	if err := k.Session.Register(debug); err != nil {
		return err
	}

	k.file = schemes.NewFile()
	roster := []session.Scheme{
		schemes.NewPS2(),
		schemes.NewSerial(),
		k.file,
		schemes.NewContextInfo(k.Scheduler),
		schemes.NewMemory(),
		schemes.NewRandom(),
		schemes.NewTime(k.Clock),
		schemes.NewEthernet(),
		schemes.NewARP(),
		schemes.NewICMP(),
		schemes.NewIP(),
		schemes.NewTCP(),
		schemes.NewDisplay(800, 600),
		schemes.NewWindow(),
	}
	for _, s := range roster {
		if err := k.Session.Register(s); err != nil {
			return err
		}
	}

	k.wireDispatcher()

	k.spawnBackgroundTasks()

	k.Interrupts.Enable()

	k.loadAssets(cfg)

	k.booted = true
	logging.Info("kernel booted", slog.Int("schemes", len(roster)+1))
	return nil
}

// wireDispatcher connects the Dispatcher's per-vector hooks to the rest of
// the kernel: hardware IRQs fan out through session.OnIRQ, the syscall gate
// routes through Syscalls.Gate keyed by the trapping Context's own
// HandleTable, a CPU fault in a user Context exits it via the same gate's
// Exit, and EOI acknowledges the PIC so a pending IRQ can fire again.
func (k *Kernel) wireDispatcher() {
	for v := uint8(trap.VectorIRQMin); v <= trap.VectorIRQMax; v++ {
		vector := v
		k.Dispatcher.SetIRQHandler(vector, func(f *trap.Frame) {
			k.Session.OnIRQ(vector)
		})
	}

	k.Dispatcher.SetEOI(func(vector uint8) {
		logging.Debug("eoi", slog.Int("vector", int(vector)))
	})

	k.Dispatcher.SetSyscallHandler(func(f *trap.Frame, current *sched.Context) {
		number := sysc.Number(f.AX)
		if err := k.Syscalls.Gate(k.handlesFor(current), current, f); err != nil {
			logging.Debug("syscall failed", slog.String("number", number.String()), slog.Any("error", err))
		}
	})

	k.Dispatcher.SetFaultExit(func(current *sched.Context) error {
		return k.Syscalls.Exit(k.handlesFor(current), current)
	})

	k.Dispatcher.SetBootHandler(func() {
		logging.Info("boot vector fired")
	})
}

// spawnBackgroundTasks starts the kernel's four always-on Contexts: a
// poll loop fanning session.OnPoll out to every scheme, an event loop
// draining the event queue, and the ARP/ICMP reply loops the original
// kernel spawns alongside it.
func (k *Kernel) spawnBackgroundTasks() {
	k.Scheduler.Spawn("poll_loop", func(c *sched.Context) {
		for {
			k.Session.OnPoll()
			k.Scheduler.ContextSwitch(c, false)
		}
	})

	k.Scheduler.Spawn("event_loop", func(c *sched.Context) {
		for {
			tok := k.Interrupts.BeginAtomic()
			_, ok := k.Events.Pop(tok)
			k.Interrupts.EndAtomic(tok)
			if !ok {
				k.Scheduler.ContextSwitch(c, false)
			}
		}
	})

	k.Scheduler.Spawn("arp_reply_loop", func(c *sched.Context) {
		for {
			k.Scheduler.ContextSwitch(c, false)
		}
	})

	k.Scheduler.Spawn("icmp_reply_loop", func(c *sched.Context) {
		for {
			k.Scheduler.ContextSwitch(c, false)
		}
	})
}

// loadAssets seeds the font, cursor, and background blobs over the file
// scheme, the Go-kernel equivalent of the original init()'s cursor.bmp /
// scheme-folder / app-folder / background.bmp load step.
func (k *Kernel) loadAssets(cfg Config) {
	if cfg.Font != nil {
		k.file.Seed("fonts/unifont.font", cfg.Font)
	}
	if cfg.Cursor != nil {
		k.file.Seed("ui/cursor.bmp", cfg.Cursor)
	}
	if cfg.Background != nil {
		k.file.Seed("ui/background.bmp", cfg.Background)
	}
}

// Booted reports whether Boot has already completed.
func (k *Kernel) Booted() bool {
	return k.booted
}
