package vm

// ExecuteOpImm executes an OP-IMM instruction: one ALU operation between a
// register and a sign-extended 12-bit immediate.
func ExecuteOpImm(cpu *CPU, op Operation) error {
	rs1 := cpu.GetRegister(op.Rs1)
	result := aluCompute(op.ALU, rs1, uint32(op.Imm), op.Imm)
	cpu.SetRegister(op.Rd, result)
	cpu.IncrementPC()
	return nil
}

// ExecuteOp executes an OP instruction: either a base-ALU register-register
// operation or, when decoded as such, an RV32M multiply/divide.
func ExecuteOp(cpu *CPU, op Operation) error {
	rs1 := cpu.GetRegister(op.Rs1)
	rs2 := cpu.GetRegister(op.Rs2)

	var result uint32
	if op.IsMulDiv {
		result = execMulDiv(op.MulDiv, rs1, rs2)
	} else {
		result = aluCompute(op.ALU, rs1, rs2, int32(rs2))
	}
	cpu.SetRegister(op.Rd, result)
	cpu.IncrementPC()
	return nil
}

// aluCompute evaluates the base RV32I ALU operations shared by OP-IMM and
// OP. rawB is the second operand as an unsigned word (its low five bits are
// the shift amount for SLL/SRL/SRA); signedB is its signed view, used by SLT.
func aluCompute(op ALUOp, a, rawB uint32, signedB int32) uint32 {
	switch op {
	case ALUAdd:
		return a + rawB
	case ALUSub:
		return a - rawB
	case ALUSLT:
		if int32(a) < signedB {
			return 1
		}
		return 0
	case ALUSLTU:
		return boolToWord(a < rawB)
	case ALUXor:
		return a ^ rawB
	case ALUOr:
		return a | rawB
	case ALUAnd:
		return a & rawB
	case ALUSLL:
		return a << (rawB & ShiftAmountMask)
	case ALUSRL:
		return a >> (rawB & ShiftAmountMask)
	case ALUSRA:
		return uint32(int32(a) >> (rawB & ShiftAmountMask))
	default:
		return 0
	}
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
