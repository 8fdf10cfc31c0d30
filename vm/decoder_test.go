package vm

import "testing"

func TestDecodeAddi(t *testing.T) {
	// addi x5, x6, -1  -> imm=0xFFF, rs1=6, funct3=0, rd=5, opcode=0x13
	word := uint32(0xFFF30293)
	op, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if op.Kind != KindOpImm || op.ALU != ALUAdd {
		t.Fatalf("got kind=%v alu=%v, want OpImm/Add", op.Kind, op.ALU)
	}
	if op.Rd != 5 || op.Rs1 != 6 {
		t.Fatalf("got rd=%d rs1=%d, want rd=5 rs1=6", op.Rd, op.Rs1)
	}
	if op.Imm != -1 {
		t.Fatalf("got imm=%d, want -1", op.Imm)
	}
}

func TestDecodeSrliSrai(t *testing.T) {
	// srli x1, x1, 4: funct3=5, imm bit 10 clear
	srli := uint32(0x0040D093)
	op, err := Decode(srli)
	if err != nil {
		t.Fatalf("Decode srli: %v", err)
	}
	if op.ALU != ALUSRL {
		t.Fatalf("srli decoded as %v, want SRL", op.ALU)
	}

	// srai x1, x1, 4: same funct3, bit 30 (instruction) / bit 10 (imm field) set
	srai := uint32(0x4040D093)
	op, err = Decode(srai)
	if err != nil {
		t.Fatalf("Decode srai: %v", err)
	}
	if op.ALU != ALUSRA || !op.AluAltForm {
		t.Fatalf("srai decoded as %v altForm=%v, want SRA/true", op.ALU, op.AluAltForm)
	}
}

func TestDecodeAddSub(t *testing.T) {
	// add x1, x2, x3
	add := uint32(0x003100B3)
	op, err := Decode(add)
	if err != nil {
		t.Fatalf("Decode add: %v", err)
	}
	if op.Kind != KindOp || op.ALU != ALUAdd || op.AluAltForm {
		t.Fatalf("add decoded wrong: %+v", op)
	}

	// sub x1, x2, x3
	sub := uint32(0x403100B3)
	op, err = Decode(sub)
	if err != nil {
		t.Fatalf("Decode sub: %v", err)
	}
	if op.Kind != KindOp || op.ALU != ALUSub || !op.AluAltForm {
		t.Fatalf("sub decoded wrong: %+v", op)
	}
}

func TestDecodeMul(t *testing.T) {
	// mul x1, x2, x3: funct7=1, funct3=0
	word := uint32(0x023100B3)
	op, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode mul: %v", err)
	}
	if op.Kind != KindOp || !op.IsMulDiv || op.MulDiv != MulDivMul {
		t.Fatalf("mul decoded wrong: %+v", op)
	}
}

func TestDecodeBeq(t *testing.T) {
	// beq x1, x2, 8
	word := uint32(0x00208463)
	op, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode beq: %v", err)
	}
	if op.Kind != KindBranch || op.Branch != BranchEQ {
		t.Fatalf("beq decoded wrong: %+v", op)
	}
	if op.Imm != 8 {
		t.Fatalf("beq imm=%d, want 8", op.Imm)
	}
}

func TestDecodeJal(t *testing.T) {
	// jal x1, 16
	word := uint32(0x010000EF)
	op, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode jal: %v", err)
	}
	if op.Kind != KindJump || op.Rd != 1 || op.Imm != 16 {
		t.Fatalf("jal decoded wrong: %+v", op)
	}
}

func TestDecodeLoadStore(t *testing.T) {
	// sw x2, 4(x1): rs1=1, rs2=2, imm=4
	sw := uint32(0x0020A223)
	op, err := Decode(sw)
	if err != nil {
		t.Fatalf("Decode sw: %v", err)
	}
	if op.Kind != KindStore || op.Store != StoreWord || op.Imm != 4 {
		t.Fatalf("sw decoded wrong: %+v", op)
	}

	// lw x3, 4(x1): rs1=1, rd=3
	lw := uint32(0x0040A183)
	op, err = Decode(lw)
	if err != nil {
		t.Fatalf("Decode lw: %v", err)
	}
	if op.Kind != KindLoad || op.Load != LoadWord || op.Rd != 3 || op.Rs1 != 1 || op.Imm != 4 {
		t.Fatalf("lw decoded wrong: %+v", op)
	}
}

func TestDecodeLui(t *testing.T) {
	// lui x1, 0x12345
	word := uint32(0x123450B7)
	op, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode lui: %v", err)
	}
	if op.Kind != KindUpperImmediate || op.IsAuipc {
		t.Fatalf("lui decoded wrong: %+v", op)
	}
	if uint32(op.Imm) != 0x12345000 {
		t.Fatalf("lui imm=0x%08X, want 0x12345000", uint32(op.Imm))
	}
}

func TestDecodeEcallEbreak(t *testing.T) {
	ecall := uint32(0x00000073)
	op, err := Decode(ecall)
	if err != nil {
		t.Fatalf("Decode ecall: %v", err)
	}
	if op.Kind != KindSystem || op.System != SystemECall {
		t.Fatalf("ecall decoded wrong: %+v", op)
	}

	ebreak := uint32(0x00100073)
	op, err = Decode(ebreak)
	if err != nil {
		t.Fatalf("Decode ebreak: %v", err)
	}
	if op.Kind != KindSystem || op.System != SystemEBreak {
		t.Fatalf("ebreak decoded wrong: %+v", op)
	}
}

func TestDecodeCSRRS(t *testing.T) {
	// csrrs x5, 0xc00, x0  (rdcycle pattern)
	word := uint32(0xC00022F3)
	op, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode csrrs: %v", err)
	}
	if op.Kind != KindCSR || op.CSR != CSRReadSet || op.CSRAddr != CSRCycle {
		t.Fatalf("csrrs decoded wrong: %+v", op)
	}
}

func TestDecodeIllegalOpcode(t *testing.T) {
	_, err := Decode(0x0000007F)
	if err == nil {
		t.Fatal("expected error for unrecognized opcode")
	}
}
