package vm

import (
	"bytes"
	"errors"
	"testing"
)

// assembleAddi encodes `addi rd, rs1, imm` for test program construction.
func assembleAddi(rd, rs1 int, imm int32) uint32 {
	return (uint32(imm)&0xFFF)<<20 | uint32(rs1)<<15 | uint32(rd)<<7 | OpcodeOpImm
}

func TestStepExecutesAddiAndAdvancesPC(t *testing.T) {
	vm := NewVM(256)
	vm.Memory.WriteWord(0, assembleAddi(1, 0, 5)) // addi x1, x0, 5
	vm.CPU.PC = 0

	if err := vm.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := vm.CPU.GetRegister(1); got != 5 {
		t.Fatalf("x1: got %d, want 5", got)
	}
	if vm.CPU.PC != 4 {
		t.Fatalf("PC: got %d, want 4", vm.CPU.PC)
	}
}

func TestRunHaltsOnIllegalInstruction(t *testing.T) {
	vm := NewVM(256)
	// word 0 at PC 0 does not decode to any known opcode's required bits
	// (opcode field 0x00 is not one of the RV32IM major opcodes).
	vm.Memory.WriteWord(0, 0)
	vm.CPU.PC = 0

	err := vm.Run()
	if !errors.Is(err, ErrIllegalInstruction) {
		t.Fatalf("Run: got %v, want ErrIllegalInstruction", err)
	}
	if vm.State != StateError {
		t.Fatalf("State: got %v, want StateError", vm.State)
	}
}

func TestEcallWriteSyscall(t *testing.T) {
	vm := NewVM(256)
	var out bytes.Buffer
	vm.OutputWriter = &out

	msg := []byte("hi")
	vm.Memory.LoadBytes(100, msg)
	vm.CPU.SetRegister(10, SyscallWrite)
	vm.CPU.SetRegister(11, WriteSyscallFD)
	vm.CPU.SetRegister(12, 100)
	vm.CPU.SetRegister(13, uint32(len(msg)))

	ecall := Operation{Kind: KindSystem, System: SystemECall}
	if err := vm.execute(ecall); err != nil {
		t.Fatalf("ecall: %v", err)
	}
	if out.String() != "hi" {
		t.Fatalf("ecall write: got %q, want %q", out.String(), "hi")
	}
}

func TestEcallUnknownSyscallIsFatal(t *testing.T) {
	vm := NewVM(256)
	vm.CPU.SetRegister(10, 99)
	ecall := Operation{Kind: KindSystem, System: SystemECall}
	err := vm.execute(ecall)
	if !errors.Is(err, ErrUnknownSyscall) {
		t.Fatalf("ecall: got %v, want ErrUnknownSyscall", err)
	}
}

func TestEbreakIsBreakpoint(t *testing.T) {
	vm := NewVM(256)
	vm.Memory.WriteWord(0, 0x00100073) // ebreak
	vm.CPU.PC = 0
	err := vm.Step()
	if !errors.Is(err, ErrBreakpoint) {
		t.Fatalf("Step ebreak: got %v, want ErrBreakpoint", err)
	}
	if vm.State != StateBreakpoint {
		t.Fatalf("State: got %v, want StateBreakpoint", vm.State)
	}
}

func TestBootstrapSetsStackAndClearsReturnAddress(t *testing.T) {
	vm := NewVM(1024)
	vm.CPU.SetRegister(RAReg, 0xAAAAAAAA)
	vm.Bootstrap(0x100, 0x400)
	if vm.CPU.PC != 0x100 {
		t.Fatalf("entry point: got 0x%X, want 0x100", vm.CPU.PC)
	}
	if vm.CPU.GetSP() != 0x400 {
		t.Fatalf("stack pointer: got 0x%X, want 0x400", vm.CPU.GetSP())
	}
	if vm.CPU.GetRegister(RAReg) != 0 {
		t.Fatalf("ra should be cleared on bootstrap")
	}
}
