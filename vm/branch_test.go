package vm

import "testing"

func TestExecuteBranchTaken(t *testing.T) {
	cpu := NewCPU()
	cpu.PC = 100
	cpu.SetRegister(1, 7)
	cpu.SetRegister(2, 7)
	op := Operation{Kind: KindBranch, Rs1: 1, Rs2: 2, Branch: BranchEQ, Imm: 16}
	if err := ExecuteBranch(cpu, op); err != nil {
		t.Fatalf("ExecuteBranch: %v", err)
	}
	if cpu.PC != 116 {
		t.Fatalf("beq taken: PC=%d, want 116", cpu.PC)
	}
}

func TestExecuteBranchNotTakenFallsThrough(t *testing.T) {
	cpu := NewCPU()
	cpu.PC = 100
	cpu.SetRegister(1, 7)
	cpu.SetRegister(2, 8)
	op := Operation{Kind: KindBranch, Rs1: 1, Rs2: 2, Branch: BranchEQ, Imm: 16}
	if err := ExecuteBranch(cpu, op); err != nil {
		t.Fatalf("ExecuteBranch: %v", err)
	}
	if cpu.PC != 104 {
		t.Fatalf("beq not taken: PC=%d, want 104", cpu.PC)
	}
}

func TestExecuteBranchSignedComparison(t *testing.T) {
	cpu := NewCPU()
	cpu.PC = 0
	cpu.SetRegister(1, 0xFFFFFFFF) // -1
	cpu.SetRegister(2, 1)
	op := Operation{Kind: KindBranch, Rs1: 1, Rs2: 2, Branch: BranchLT, Imm: 8}
	if err := ExecuteBranch(cpu, op); err != nil {
		t.Fatalf("ExecuteBranch: %v", err)
	}
	if cpu.PC != 8 {
		t.Fatalf("blt signed: -1 < 1 should be taken, PC=%d", cpu.PC)
	}

	cpu.PC = 0
	opU := Operation{Kind: KindBranch, Rs1: 1, Rs2: 2, Branch: BranchLTU, Imm: 8}
	if err := ExecuteBranch(cpu, opU); err != nil {
		t.Fatalf("ExecuteBranch: %v", err)
	}
	if cpu.PC != 4 {
		t.Fatalf("bltu unsigned: 0xFFFFFFFF < 1 should not be taken, PC=%d", cpu.PC)
	}
}

func TestExecuteJumpSavesReturnAddress(t *testing.T) {
	cpu := NewCPU()
	cpu.PC = 100
	op := Operation{Kind: KindJump, Rd: 1, Imm: 20}
	if err := ExecuteJump(cpu, op); err != nil {
		t.Fatalf("ExecuteJump: %v", err)
	}
	if cpu.PC != 120 {
		t.Fatalf("jal target: PC=%d, want 120", cpu.PC)
	}
	if got := cpu.GetRegister(1); got != 104 {
		t.Fatalf("jal return address: got %d, want 104", got)
	}
}

func TestExecuteJumpRegisterClearsLowBit(t *testing.T) {
	cpu := NewCPU()
	cpu.PC = 0
	cpu.SetRegister(2, 41)
	op := Operation{Kind: KindJumpRegister, Rd: 1, Rs1: 2, Imm: 0}
	if err := ExecuteJumpRegister(cpu, op); err != nil {
		t.Fatalf("ExecuteJumpRegister: %v", err)
	}
	if cpu.PC != 40 {
		t.Fatalf("jalr should clear bit 0: PC=%d, want 40", cpu.PC)
	}
}

func TestExecuteUpperImmediate(t *testing.T) {
	cpu := NewCPU()
	lui := Operation{Kind: KindUpperImmediate, Rd: 1, Imm: int32(0x12345000)}
	if err := ExecuteUpperImmediate(cpu, lui); err != nil {
		t.Fatalf("ExecuteUpperImmediate (lui): %v", err)
	}
	if got := cpu.GetRegister(1); got != 0x12345000 {
		t.Fatalf("lui: got 0x%08X, want 0x12345000", got)
	}

	cpu2 := NewCPU()
	cpu2.PC = 0x1000
	auipc := Operation{Kind: KindUpperImmediate, Rd: 2, Imm: int32(0x1000), IsAuipc: true}
	if err := ExecuteUpperImmediate(cpu2, auipc); err != nil {
		t.Fatalf("ExecuteUpperImmediate (auipc): %v", err)
	}
	if got := cpu2.GetRegister(2); got != 0x2000 {
		t.Fatalf("auipc: got 0x%08X, want 0x2000", got)
	}
}
