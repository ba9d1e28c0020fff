// Package trap implements the kernel's interrupt/syscall dispatcher: the
// single routing point every trap vector passes through, whether it's a
// CPU fault, a hardware IRQ, the timer tick, the syscall gate, or the
// one-shot boot vector.
package trap

// Frame is the uniform register snapshot every vector is dispatched with,
// standing in for the real pushad-style stack frame an x86 trap handler
// would see. ErrorCode is only meaningful for the vectors the CPU itself
// pushes an error code for (see HasErrorCode); it is zero
// otherwise.
type Frame struct {
	IP        uint64
	FLAGS     uint64
	ErrorCode uint64

	AX, BX, CX, DX uint64
	SI, DI, BP, SP uint64

	// URL and Buf carry the syscall gate's user-memory payload: the
	// fixed integer registers above hold the syscall number and its
	// scalar arguments (handle, flags, whence, ...), the same ABI the
	// original kernel decodes off bx/cx/dx/si/di, but a pointer/length
	// pair in those registers would address real user memory this
	// simulation has no MMU to back. URL and Buf stand in for whatever a
	// copy_from_user/copy_to_user step would already have resolved by
	// the time the syscall body runs.
	URL string
	Buf []byte
}
