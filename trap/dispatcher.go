package trap

import (
	"log/slog"

	kerrors "nucleus/errors"
	"nucleus/clock"
	"nucleus/logging"
	"nucleus/sched"
)

// Vector table, reproduced from the original kernel's trap table: 0x00-0x1F
// are CPU faults, 0x20 is the PIT timer tick, 0x21-0x2F are hardware IRQs
// carrying the historical PC IRQ assignment, 0x80 is the syscall gate, and
// 0xFF is the one-shot vector the bootloader jumps to.
const (
	VectorFaultMin  = 0x00
	VectorFaultMax  = 0x1F
	VectorPIT       = 0x20
	VectorIRQMin    = 0x21
	VectorIRQMax    = 0x2F
	VectorSyscall   = 0x80
	VectorBoot      = 0xFF
)

// errorCodeVectors is the subset of fault vectors for which the CPU itself
// pushes an error code onto the frame before the handler runs: double
// fault (8), invalid TSS (10), segment not present (11), stack fault (12),
// general protection (13), page fault (14), alignment check (17), and
// security exception (30).
var errorCodeVectors = map[uint8]bool{
	8: true, 10: true, 11: true, 12: true, 13: true, 14: true, 17: true, 30: true,
}

// irqNames documents the historical PC hardware assignment for vectors
// 0x21-0x2F. irqName looks a vector up in it; no dispatcher log line
// includes the name.
var irqNames = map[uint8]string{
	0x21: "keyboard",
	0x22: "cascade",
	0x23: "serial2/4",
	0x24: "serial1/3",
	0x25: "parallel2",
	0x26: "floppy",
	0x27: "parallel1/spurious",
	0x28: "rtc",
	0x29: "pci",
	0x2A: "pci",
	0x2B: "pci",
	0x2C: "mouse",
	0x2D: "coprocessor",
	0x2E: "disk",
	0x2F: "disk",
}

// Dispatcher is the kernel's single interrupt/syscall routing point. One
// Dispatcher exists per kernel instance, wired up during boot with its
// scheduler, clock, and per-vector handlers.
type Dispatcher struct {
	logger      *slog.Logger
	clock       *clock.Clock
	scheduler   *sched.Scheduler
	irqHandlers map[uint8]func(*Frame)
	syscall     func(frame *Frame, current *sched.Context)
	boot        func()
	booted      bool
	eoi         func(vector uint8)
	faultExit   func(current *sched.Context) error
}

// NewDispatcher creates a Dispatcher wired to clk and sch. Handlers for
// IRQs, syscalls, and boot are registered afterward with their respective
// setters.
func NewDispatcher(clk *clock.Clock, sch *sched.Scheduler) *Dispatcher {
	return &Dispatcher{
		logger:      logging.Default(),
		clock:       clk,
		scheduler:   sch,
		irqHandlers: make(map[uint8]func(*Frame)),
	}
}

// SetIRQHandler registers the handler invoked when vector fires.
func (d *Dispatcher) SetIRQHandler(vector uint8, handler func(*Frame)) {
	d.irqHandlers[vector] = handler
}

// SetSyscallHandler registers the handler invoked for vector 0x80. current
// is the Context that trapped into the syscall gate.
func (d *Dispatcher) SetSyscallHandler(handler func(frame *Frame, current *sched.Context)) {
	d.syscall = handler
}

// SetBootHandler registers the handler invoked for vector 0xFF.
func (d *Dispatcher) SetBootHandler(handler func()) {
	d.boot = handler
}

// SetEOI registers the callback invoked to acknowledge an interrupt to
// the interrupt controller: for a hardware IRQ before its handler runs,
// and for the PIT tick before the context switch.
func (d *Dispatcher) SetEOI(eoi func(vector uint8)) {
	d.eoi = eoi
}

// SetFaultExit registers the callback invoked when a non-kernel Context
// takes a CPU fault: exit(-1) for that Context, per the original kernel's
// fault policy. If unset, a user-context fault is only logged and
// returned as an error.
func (d *Dispatcher) SetFaultExit(fn func(current *sched.Context) error) {
	d.faultExit = fn
}

// Dispatch routes a single trap. current is the Context that was running
// when the trap fired — needed for the syscall gate and for the fault
// path's kernel-vs-user exit decision, and unused otherwise.
func (d *Dispatcher) Dispatch(vector uint8, frame *Frame, current *sched.Context) error {
	switch {
	case vector == VectorPIT:
		d.clock.Tick()
		// EOI must reach the PIC before the context switch below, which
		// may hand the baton to a Context that runs for a while: a
		// pending timer IRQ must be able to fire again in the meantime.
		if d.eoi != nil {
			d.eoi(vector)
		}
		// A timer tick is delivered by whatever goroutine is driving
		// dispatch (the CLI loop, a hardware-timer goroutine, ...), never
		// by the preempted Context's own goroutine, so Preempt is used
		// instead of ContextSwitch(current, true): it never blocks the
		// caller on a baton only the preempted Context's own goroutine is
		// ever parked on.
		d.scheduler.Preempt()
		return nil

	case vector >= VectorIRQMin && vector <= VectorIRQMax:
		return d.dispatchIRQ(vector, frame)

	case vector == VectorSyscall:
		if d.syscall == nil {
			return kerrors.ErrUnknownSyscall
		}
		d.syscall(frame, current)
		return nil

	case vector == VectorBoot:
		// The real vector never returns: init() runs once, then the CPU
		// idles forever. Dispatch runs boot() exactly once and returns,
		// leaving the infinite idle loop to the scheduler's idle Context.
		if d.booted {
			return kerrors.ErrAlreadyBooted
		}
		d.booted = true
		if d.boot != nil {
			d.boot()
		}
		return nil

	case vector >= VectorFaultMin && vector <= VectorFaultMax:
		d.dumpFault(vector, frame)
		return d.handleFault(vector, frame, current)

	default:
		return kerrors.ErrUnknownVector
	}
}

// handleFault applies the original kernel's fault policy: a fault taken
// by the kernel itself (no Context, or the idle/root Context) has nowhere
// to exit to and halts; a fault taken by any other Context exits it with
// -1 instead of letting the fault escape further.
func (d *Dispatcher) handleFault(vector uint8, frame *Frame, current *sched.Context) error {
	if current == nil || current == d.scheduler.Idle() {
		return kerrors.ErrKernelHalt
	}
	if d.faultExit != nil {
		if err := d.faultExit(current); err != nil {
			return err
		}
	}
	return kerrors.New(kerrors.ErrFault, "dispatch", faultName(vector))
}

func (d *Dispatcher) dispatchIRQ(vector uint8, frame *Frame) error {
	handler, ok := d.irqHandlers[vector]
	if !ok {
		return kerrors.ErrUnknownVector
	}
	// EOI goes out before the handler, which may yield.
	if d.eoi != nil {
		d.eoi(vector)
	}
	handler(frame)
	return nil
}

// dumpFault logs the fault's register state. Unlike the original kernel,
// whose exception-dump macro logged IP, FLAGS, and ERROR from swapped
// frame fields, this logs each from its correct field.
func (d *Dispatcher) dumpFault(vector uint8, frame *Frame) {
	logger := logging.WithVector(d.logger, vector)
	if errorCodeVectors[vector] {
		logger.Error("cpu fault",
			slog.String("name", faultName(vector)),
			slog.Uint64("ip", frame.IP),
			slog.Uint64("flags", frame.FLAGS),
			slog.Uint64("error", frame.ErrorCode),
		)
		return
	}
	logger.Error("cpu fault",
		slog.String("name", faultName(vector)),
		slog.Uint64("ip", frame.IP),
		slog.Uint64("flags", frame.FLAGS),
	)
}

// HasErrorCode reports whether vector is one the CPU pushes an error code
// for.
func HasErrorCode(vector uint8) bool {
	return errorCodeVectors[vector]
}

func faultName(vector uint8) string {
	switch vector {
	case 0:
		return "divide-by-zero"
	case 1:
		return "debug"
	case 2:
		return "nmi"
	case 3:
		return "breakpoint"
	case 4:
		return "overflow"
	case 5:
		return "bound-range"
	case 6:
		return "invalid-opcode"
	case 7:
		return "device-not-available"
	case 8:
		return "double-fault"
	case 10:
		return "invalid-tss"
	case 11:
		return "segment-not-present"
	case 12:
		return "stack-fault"
	case 13:
		return "general-protection"
	case 14:
		return "page-fault"
	case 16:
		return "x87-fp"
	case 17:
		return "alignment-check"
	case 18:
		return "machine-check"
	case 19:
		return "simd-fp"
	case 30:
		return "security-exception"
	default:
		return "reserved"
	}
}

func irqName(vector uint8) string {
	if name, ok := irqNames[vector]; ok {
		return name
	}
	return "unknown"
}
