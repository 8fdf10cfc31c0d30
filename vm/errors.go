package vm

import "errors"

// Sentinel errors distinguishing the fatal conditions the executor can raise.
// cmd/rv32run uses errors.Is against these to pick a process exit code.
var (
	// ErrIllegalInstruction is returned when a fetched word does not decode
	// to any recognized RV32IM encoding.
	ErrIllegalInstruction = errors.New("illegal instruction")

	// ErrMemoryOutOfRange is returned when an access falls outside the
	// mapped memory image. Misaligned halfword/word accesses are not an
	// error; they execute the same as any other access.
	ErrMemoryOutOfRange = errors.New("memory access out of range")

	// ErrUnknownSyscall is returned by ECALL for any syscall number other
	// than the modelled write call.
	ErrUnknownSyscall = errors.New("unknown syscall")

	// ErrUnmodelledCSR is returned for any CSR address outside the small
	// fixed set the runtime serves.
	ErrUnmodelledCSR = errors.New("unmodelled CSR")

	// ErrBreakpoint is returned by EBREAK. The executor treats it as a
	// controlled halt rather than a crash.
	ErrBreakpoint = errors.New("breakpoint")
)
