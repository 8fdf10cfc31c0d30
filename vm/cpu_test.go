package vm

import "testing"

func TestRegisterFileZeroRegisterHardWired(t *testing.T) {
	var rf RegisterFile
	rf.Set(0, 0xFFFFFFFF)
	if got := rf.Get(0); got != 0 {
		t.Fatalf("x0: got %d, want 0", got)
	}
	rf.Set(1, 42)
	if got := rf.Get(1); got != 42 {
		t.Fatalf("x1: got %d, want 42", got)
	}
}

func TestCPUResetClearsRegistersAndPC(t *testing.T) {
	cpu := NewCPU()
	cpu.SetRegister(5, 1)
	cpu.PC = 100
	cpu.Cycles = 10
	cpu.Reset()
	if cpu.GetRegister(5) != 0 || cpu.PC != 0 || cpu.Cycles != 0 {
		t.Fatalf("Reset did not clear state: %+v", cpu)
	}
}
