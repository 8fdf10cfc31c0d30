package vm

import (
	"fmt"
	"io"
	"os"
)

// ExecutionState represents the current state of execution.
type ExecutionState int

const (
	StateRunning ExecutionState = iota
	StateHalted
	StateBreakpoint
	StateError
)

// VM represents the complete virtual machine: registers, flat memory, the
// modelled CSR subset, and the execution limits/state the fetch-decode-
// execute loop tracks.
type VM struct {
	CPU    *CPU
	Memory *Memory
	CSRs   CSRFile
	State  ExecutionState

	MaxCycles uint64
	LastError error

	EntryPoint uint32
	StackTop   uint32
	ExitCode   int32

	// OutputWriter receives bytes written by the ECALL write syscall.
	OutputWriter io.Writer
}

// NewVM creates a virtual machine with the given memory capacity.
func NewVM(memorySize uint32) *VM {
	return &VM{
		CPU:          NewCPU(),
		Memory:       NewMemory(memorySize),
		State:        StateHalted,
		MaxCycles:    DefaultMaxCycles,
		OutputWriter: os.Stdout,
	}
}

// Reset returns the VM to its power-on state, clearing registers and memory.
func (vm *VM) Reset() {
	vm.CPU.Reset()
	vm.Memory.Reset()
	vm.CSRs = CSRFile{}
	vm.State = StateHalted
	vm.LastError = nil
}

// Bootstrap initializes the runtime environment the way a freshly loaded
// ELF image expects: the stack pointer near the top of usable memory, the
// return address register (x1) zeroed so a `main` that returns halts the
// machine, and the program counter at the entry point.
func (vm *VM) Bootstrap(entryPoint, stackTop uint32) {
	vm.EntryPoint = entryPoint
	vm.StackTop = stackTop
	vm.CPU.SetSP(stackTop)
	vm.CPU.SetRegister(RAReg, 0)
	vm.CPU.PC = entryPoint
	vm.State = StateHalted
	vm.ExitCode = 0
}

// Fetch reads the instruction word at the current PC.
func (vm *VM) Fetch() (uint32, error) {
	word, err := vm.Memory.ReadWord(vm.CPU.PC)
	if err != nil {
		return 0, fmt.Errorf("fetch at 0x%08X: %w", vm.CPU.PC, err)
	}
	return word, nil
}

// Step fetches, decodes, and executes a single instruction.
func (vm *VM) Step() error {
	if vm.State == StateError {
		return fmt.Errorf("VM is in error state: %w", vm.LastError)
	}

	if vm.MaxCycles > 0 && vm.CPU.Cycles >= vm.MaxCycles {
		vm.State = StateError
		vm.LastError = fmt.Errorf("cycle limit exceeded (%d cycles)", vm.MaxCycles)
		return vm.LastError
	}

	word, err := vm.Fetch()
	if err != nil {
		vm.State = StateError
		vm.LastError = err
		return err
	}

	op, err := Decode(word)
	if err != nil {
		vm.State = StateError
		vm.LastError = fmt.Errorf("decode failed at PC=0x%08X: %w", vm.CPU.PC, err)
		return vm.LastError
	}

	if err := vm.execute(op); err != nil {
		return vm.handleExecuteError(op, err)
	}

	vm.CPU.IncrementCycles(1)
	return nil
}

func (vm *VM) handleExecuteError(op Operation, err error) error {
	if err == ErrBreakpoint {
		vm.State = StateBreakpoint
		vm.LastError = err
		return err
	}
	vm.State = StateError
	vm.LastError = fmt.Errorf("execute failed at PC=0x%08X (word=0x%08X): %w", vm.CPU.PC, op.Raw, err)
	return vm.LastError
}

// execute dispatches a decoded operation to its implementation. The
// instruction-family implementations live in alu.go, branch.go,
// loadstore.go, syscall.go, and csr.go.
func (vm *VM) execute(op Operation) error {
	switch op.Kind {
	case KindUpperImmediate:
		return ExecuteUpperImmediate(vm.CPU, op)
	case KindJump:
		return ExecuteJump(vm.CPU, op)
	case KindJumpRegister:
		return ExecuteJumpRegister(vm.CPU, op)
	case KindBranch:
		return ExecuteBranch(vm.CPU, op)
	case KindLoad:
		return ExecuteLoad(vm.CPU, vm.Memory, op)
	case KindStore:
		return ExecuteStore(vm.CPU, vm.Memory, op)
	case KindOpImm:
		return ExecuteOpImm(vm.CPU, op)
	case KindOp:
		return ExecuteOp(vm.CPU, op)
	case KindFence:
		vm.CPU.IncrementPC()
		return nil
	case KindSystem:
		return ExecuteSystem(vm, op)
	case KindCSR:
		return vm.executeCSR(op)
	default:
		return fmt.Errorf("%w: unhandled operation kind at 0x%08X", ErrIllegalInstruction, vm.CPU.PC)
	}
}

// executeCSR executes one of the six Zicsr instructions: read the CSR (always,
// even when rd is x0, so an unmodelled CSR faults either way), conditionally
// write it back, then place the old value in rd.
func (vm *VM) executeCSR(op Operation) error {
	old, err := vm.CSRs.Read(vm.CPU, op.CSRAddr)
	if err != nil {
		return err
	}

	var operand uint32
	isImm := op.CSR == CSRReadWriteImm || op.CSR == CSRReadSetImm || op.CSR == CSRReadClearImm
	if isImm {
		operand = uint32(op.Imm)
	} else {
		operand = vm.CPU.GetRegister(op.Rs1)
	}

	var shouldWrite bool
	var newValue uint32
	switch op.CSR {
	case CSRReadWrite, CSRReadWriteImm:
		shouldWrite = true
		newValue = operand
	case CSRReadSet, CSRReadSetImm:
		shouldWrite = operand != 0
		newValue = old | operand
	case CSRReadClear, CSRReadClearImm:
		shouldWrite = operand != 0
		newValue = old &^ operand
	}

	if shouldWrite {
		if err := vm.CSRs.Write(op.CSRAddr, newValue); err != nil {
			return err
		}
	}

	vm.CPU.SetRegister(op.Rd, old)
	vm.CPU.IncrementPC()
	return nil
}

// Run executes instructions until the VM halts (the program counter is 0
// after an instruction), hits a breakpoint, or faults.
func (vm *VM) Run() error {
	vm.State = StateRunning
	for vm.State == StateRunning {
		if err := vm.Step(); err != nil {
			return err
		}
		if vm.CPU.PC == 0 {
			vm.State = StateHalted
		}
	}
	return nil
}

// DumpState returns a short human-readable summary of the VM's state, in
// the vein of the teacher's debugging helpers.
func (vm *VM) DumpState() string {
	return fmt.Sprintf("PC=0x%08X SP=0x%08X Cycles=%d State=%v", vm.CPU.PC, vm.CPU.GetSP(), vm.CPU.Cycles, vm.State)
}
