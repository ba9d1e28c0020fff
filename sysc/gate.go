package sysc

import (
	kerrors "nucleus/errors"
	"nucleus/clock"
	"nucleus/resource"
	"nucleus/sched"
	"nucleus/trap"
)

// errAX is written into a trap.Frame's AX register on any syscall failure,
// the same negative-return-means-error convention the original syscall ABI
// used; this simulation has no separate errno register, so the specific
// KernelError is only available to the caller that inspects the error this
// package returns, not through the frame itself.
const errAX = ^uint64(0)

// Gate decodes a syscall trap and dispatches it to the matching Syscalls
// operation: AX carries the fixed integer syscall number, BX/CX/DX carry
// its scalar arguments, and URL/Buf stand in for the memory payload a real
// bx/cx pointer/length pair would reference (see trap.Frame). The result
// is written back into AX.
func (s *Syscalls) Gate(handles *HandleTable, ctx *sched.Context, frame *trap.Frame) error {
	switch Number(frame.AX) {
	case SysOpen:
		h, err := s.Open(handles, frame.URL, int(frame.BX))
		return setResult(frame, int64(h), err)

	case SysDup:
		h, err := s.Dup(handles, int(frame.BX))
		return setResult(frame, int64(h), err)

	case SysClose:
		return setResult(frame, 0, s.Close(handles, int(frame.BX)))

	case SysRead:
		n, err := s.Read(handles, int(frame.BX), frame.Buf)
		return setResult(frame, int64(n), err)

	case SysWrite:
		n, err := s.Write(handles, int(frame.BX), frame.Buf)
		return setResult(frame, int64(n), err)

	case SysSeek:
		pos, err := s.Seek(handles, int(frame.BX), resource.SeekRequest{
			Whence: resource.Whence(frame.CX),
			Delta:  int(frame.DX),
		})
		return setResult(frame, int64(pos), err)

	case SysFsync:
		return setResult(frame, 0, s.Fsync(handles, int(frame.BX)))

	case SysExit:
		return setResult(frame, 0, s.Exit(handles, ctx))

	case SysSpawn:
		s.Spawn("spawned", func(c *sched.Context) {})
		return setResult(frame, 0, nil)

	case SysSleep:
		s.Sleep(ctx, clock.Duration{Secs: int64(frame.BX), Nanos: int64(frame.CX)})
		return setResult(frame, 0, nil)

	case SysTime:
		d := s.Time()
		frame.AX = uint64(d.Secs)
		frame.BX = uint64(d.Nanos)
		return nil

	default:
		return setResult(frame, -1, kerrors.ErrUnknownSyscall)
	}
}

// setResult writes value into AX on success, or errAX on failure, and
// returns err unchanged so callers can still inspect the concrete
// KernelError.
func setResult(frame *trap.Frame, value int64, err error) error {
	if err != nil {
		frame.AX = errAX
		return err
	}
	frame.AX = uint64(value)
	return nil
}
