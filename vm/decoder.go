package vm

import "fmt"

// Decode translates a raw 32-bit instruction word into a tagged Operation.
// It is a pure function: no CPU or memory state is consulted or mutated.
func Decode(word uint32) (Operation, error) {
	opcode := word & 0x7F
	rd := int((word >> 7) & 0x1F)
	funct3 := (word >> 12) & 0x7
	rs1 := int((word >> 15) & 0x1F)
	rs2 := int((word >> 20) & 0x1F)
	funct7 := (word >> 25) & 0x7F

	switch opcode {
	case OpcodeLui:
		return Operation{Kind: KindUpperImmediate, Raw: word, Rd: rd, Imm: int32(word & 0xFFFFF000)}, nil

	case OpcodeAuipc:
		return Operation{Kind: KindUpperImmediate, Raw: word, Rd: rd, Imm: int32(word & 0xFFFFF000), IsAuipc: true}, nil

	case OpcodeJal:
		return Operation{Kind: KindJump, Raw: word, Rd: rd, Imm: decodeJImm(word)}, nil

	case OpcodeJalr:
		if funct3 != 0 {
			return Operation{}, fmt.Errorf("%w: JALR funct3=%d at 0x%08X", ErrIllegalInstruction, funct3, word)
		}
		return Operation{Kind: KindJumpRegister, Raw: word, Rd: rd, Rs1: rs1, Imm: decodeIImm(word)}, nil

	case OpcodeBranch:
		bk, err := branchKind(funct3)
		if err != nil {
			return Operation{}, fmt.Errorf("%w: at 0x%08X: %v", ErrIllegalInstruction, word, err)
		}
		return Operation{Kind: KindBranch, Raw: word, Rs1: rs1, Rs2: rs2, Imm: decodeBImm(word), Branch: bk}, nil

	case OpcodeLoad:
		lw, err := loadWidth(funct3)
		if err != nil {
			return Operation{}, fmt.Errorf("%w: at 0x%08X: %v", ErrIllegalInstruction, word, err)
		}
		return Operation{Kind: KindLoad, Raw: word, Rd: rd, Rs1: rs1, Imm: decodeIImm(word), Load: lw}, nil

	case OpcodeStore:
		sw, err := storeWidth(funct3)
		if err != nil {
			return Operation{}, fmt.Errorf("%w: at 0x%08X: %v", ErrIllegalInstruction, word, err)
		}
		return Operation{Kind: KindStore, Raw: word, Rs1: rs1, Rs2: rs2, Imm: decodeSImm(word), Store: sw}, nil

	case OpcodeOpImm:
		imm := decodeIImm(word)
		op, altForm, err := aluImmOp(funct3, imm)
		if err != nil {
			return Operation{}, fmt.Errorf("%w: at 0x%08X: %v", ErrIllegalInstruction, word, err)
		}
		return Operation{Kind: KindOpImm, Raw: word, Rd: rd, Rs1: rs1, Imm: imm, ALU: op, AluAltForm: altForm}, nil

	case OpcodeOp:
		return decodeOp(word, rd, rs1, rs2, funct3, funct7)

	case OpcodeMiscMem:
		if funct3 != Funct3Fence && funct3 != 0x1 {
			return Operation{}, fmt.Errorf("%w: MISC-MEM funct3=%d at 0x%08X", ErrIllegalInstruction, funct3, word)
		}
		return Operation{Kind: KindFence, Raw: word}, nil

	case OpcodeSystem:
		return decodeSystem(word, rd, rs1, funct3)

	default:
		return Operation{}, fmt.Errorf("%w: opcode 0x%02X at 0x%08X", ErrIllegalInstruction, opcode, word)
	}
}

func decodeOp(word uint32, rd, rs1, rs2 int, funct3, funct7 uint32) (Operation, error) {
	if funct7 == Funct7Mext {
		md, err := mulDivOp(funct3)
		if err != nil {
			return Operation{}, fmt.Errorf("%w: at 0x%08X: %v", ErrIllegalInstruction, word, err)
		}
		return Operation{Kind: KindOp, Raw: word, Rd: rd, Rs1: rs1, Rs2: rs2, IsMulDiv: true, MulDiv: md}, nil
	}
	if funct7 != Funct7Base && funct7 != Funct7Alt {
		return Operation{}, fmt.Errorf("%w: OP funct7=0x%02X at 0x%08X", ErrIllegalInstruction, funct7, word)
	}
	op, err := aluRegOp(funct3, funct7)
	if err != nil {
		return Operation{}, fmt.Errorf("%w: at 0x%08X: %v", ErrIllegalInstruction, word, err)
	}
	return Operation{Kind: KindOp, Raw: word, Rd: rd, Rs1: rs1, Rs2: rs2, ALU: op, AluAltForm: funct7 == Funct7Alt}, nil
}

func decodeSystem(word uint32, rd, rs1 int, funct3 uint32) (Operation, error) {
	switch funct3 {
	case Funct3Priv:
		funct12 := word >> 20
		switch funct12 {
		case Funct12Ecall:
			return Operation{Kind: KindSystem, Raw: word, System: SystemECall}, nil
		case Funct12Ebreak:
			return Operation{Kind: KindSystem, Raw: word, System: SystemEBreak}, nil
		default:
			return Operation{}, fmt.Errorf("%w: SYSTEM funct12=0x%03X at 0x%08X", ErrIllegalInstruction, funct12, word)
		}
	case Funct3Csrrw, Funct3Csrrs, Funct3Csrrc:
		return Operation{Kind: KindCSR, Raw: word, Rd: rd, Rs1: rs1, CSRAddr: word >> 20, CSR: csrKind(funct3)}, nil
	case Funct3Csrrwi, Funct3Csrrsi, Funct3Csrrci:
		return Operation{Kind: KindCSR, Raw: word, Rd: rd, Imm: int32(rs1), CSRAddr: word >> 20, CSR: csrKind(funct3)}, nil
	default:
		return Operation{}, fmt.Errorf("%w: SYSTEM funct3=%d at 0x%08X", ErrIllegalInstruction, funct3, word)
	}
}

func csrKind(funct3 uint32) CSRKind {
	switch funct3 {
	case Funct3Csrrw:
		return CSRReadWrite
	case Funct3Csrrs:
		return CSRReadSet
	case Funct3Csrrc:
		return CSRReadClear
	case Funct3Csrrwi:
		return CSRReadWriteImm
	case Funct3Csrrsi:
		return CSRReadSetImm
	default:
		return CSRReadClearImm
	}
}

func branchKind(funct3 uint32) (BranchKind, error) {
	switch funct3 {
	case Funct3Beq:
		return BranchEQ, nil
	case Funct3Bne:
		return BranchNE, nil
	case Funct3Blt:
		return BranchLT, nil
	case Funct3Bge:
		return BranchGE, nil
	case Funct3Bltu:
		return BranchLTU, nil
	case Funct3Bgeu:
		return BranchGEU, nil
	default:
		return 0, fmt.Errorf("unknown branch funct3 %d", funct3)
	}
}

func loadWidth(funct3 uint32) (LoadWidth, error) {
	switch funct3 {
	case Funct3Lb:
		return LoadByte, nil
	case Funct3Lh:
		return LoadHalf, nil
	case Funct3Lw:
		return LoadWord, nil
	case Funct3Lbu:
		return LoadByteUnsigned, nil
	case Funct3Lhu:
		return LoadHalfUnsigned, nil
	default:
		return 0, fmt.Errorf("unknown load funct3 %d", funct3)
	}
}

func storeWidth(funct3 uint32) (StoreWidth, error) {
	switch funct3 {
	case Funct3Sb:
		return StoreByte, nil
	case Funct3Sh:
		return StoreHalf, nil
	case Funct3Sw:
		return StoreWord, nil
	default:
		return 0, fmt.Errorf("unknown store funct3 %d", funct3)
	}
}

// aluImmOp resolves an OP-IMM funct3 to an ALUOp. SRLI/SRAI share funct3=5;
// the discriminator is bit 10 of the 12-bit I-immediate (bit 30 of the raw
// word), resolved per SPEC_FULL.md against original_source/.
func aluImmOp(funct3 uint32, imm int32) (ALUOp, bool, error) {
	switch funct3 {
	case Funct3Addi:
		return ALUAdd, false, nil
	case Funct3Slti:
		return ALUSLT, false, nil
	case Funct3Sltiu:
		return ALUSLTU, false, nil
	case Funct3Xori:
		return ALUXor, false, nil
	case Funct3Ori:
		return ALUOr, false, nil
	case Funct3Andi:
		return ALUAnd, false, nil
	case Funct3Slli:
		return ALUSLL, false, nil
	case Funct3SrlSrai:
		if uint32(imm)&ImmShiftTypeBit == 0 {
			return ALUSRL, false, nil
		}
		return ALUSRA, true, nil
	default:
		return 0, false, fmt.Errorf("unknown OP-IMM funct3 %d", funct3)
	}
}

func aluRegOp(funct3, funct7 uint32) (ALUOp, error) {
	switch funct3 {
	case Funct3AddSub:
		if funct7 == Funct7Alt {
			return ALUSub, nil
		}
		return ALUAdd, nil
	case Funct3Sll:
		return ALUSLL, nil
	case Funct3Slt:
		return ALUSLT, nil
	case Funct3Sltu:
		return ALUSLTU, nil
	case Funct3Xor:
		return ALUXor, nil
	case Funct3SrlSra:
		if funct7 == Funct7Alt {
			return ALUSRA, nil
		}
		return ALUSRL, nil
	case Funct3Or:
		return ALUOr, nil
	case Funct3And:
		return ALUAnd, nil
	default:
		return 0, fmt.Errorf("unknown OP funct3 %d", funct3)
	}
}

func mulDivOp(funct3 uint32) (MulDivOp, error) {
	switch funct3 {
	case Funct3Mul:
		return MulDivMul, nil
	case Funct3Mulh:
		return MulDivMulH, nil
	case Funct3Mulhsu:
		return MulDivMulHSU, nil
	case Funct3Mulhu:
		return MulDivMulHU, nil
	case Funct3Div:
		return MulDivDiv, nil
	case Funct3Divu:
		return MulDivDivU, nil
	case Funct3Rem:
		return MulDivRem, nil
	case Funct3Remu:
		return MulDivRemU, nil
	default:
		return 0, fmt.Errorf("unknown RV32M funct3 %d", funct3)
	}
}

// decodeIImm sign-extends the 12-bit I-type immediate (bits 31-20).
func decodeIImm(word uint32) int32 {
	return int32(word) >> 20
}

// decodeSImm assembles and sign-extends the S-type immediate from its two
// split fields (bits 31-25 and 11-7).
func decodeSImm(word uint32) int32 {
	imm := ((word >> 25) << 5) | ((word >> 7) & 0x1F)
	return signExtend(imm, 12)
}

// decodeBImm assembles and sign-extends the B-type immediate. Bit 0 is
// always zero; branch offsets are 2-byte aligned by construction.
func decodeBImm(word uint32) int32 {
	imm := ((word >> 31) << 12) |
		(((word >> 7) & 0x1) << 11) |
		(((word >> 25) & 0x3F) << 5) |
		(((word >> 8) & 0xF) << 1)
	return signExtend(imm, 13)
}

// decodeJImm assembles and sign-extends the J-type immediate used by JAL.
func decodeJImm(word uint32) int32 {
	imm := ((word >> 31) << 20) |
		(((word >> 12) & 0xFF) << 12) |
		(((word >> 20) & 0x1) << 11) |
		(((word >> 21) & 0x3FF) << 1)
	return signExtend(imm, 21)
}

// signExtend treats the low bits bits of value as a signed integer and
// sign-extends it to 32 bits.
func signExtend(value uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(value<<shift) >> shift
}
