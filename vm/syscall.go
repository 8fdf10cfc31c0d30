package vm

import "fmt"

// ExecuteSystem executes ECALL or EBREAK. ECALL implements exactly one
// syscall (write, to the single modelled file descriptor); anything else
// is fatal, matching the original implementation's assert-and-panic
// behavior rather than returning an error code in a register. EBREAK is
// always fatal, treated as a requested breakpoint halt.
func ExecuteSystem(vm *VM, op Operation) error {
	switch op.System {
	case SystemEBreak:
		return ErrBreakpoint
	case SystemECall:
		return vm.executeECall()
	default:
		return fmt.Errorf("%w: unknown SYSTEM form", ErrIllegalInstruction)
	}
}

func (vm *VM) executeECall() error {
	cpu := vm.CPU
	syscallNum := cpu.GetRegister(10) // a0
	if syscallNum != SyscallWrite {
		return fmt.Errorf("%w: %d", ErrUnknownSyscall, syscallNum)
	}

	fd := cpu.GetRegister(11) // a1
	if fd != WriteSyscallFD {
		return fmt.Errorf("%w: write to fd %d (only fd %d is modelled)", ErrUnknownSyscall, fd, WriteSyscallFD)
	}

	ptr := cpu.GetRegister(12) // a2
	length := cpu.GetRegister(13) // a3

	for i := uint32(0); i < length; i++ {
		b, err := vm.Memory.ReadByte(ptr + i)
		if err != nil {
			return err
		}
		if _, err := vm.OutputWriter.Write([]byte{b}); err != nil {
			return fmt.Errorf("write syscall: %w", err)
		}
	}

	cpu.IncrementPC()
	return nil
}
