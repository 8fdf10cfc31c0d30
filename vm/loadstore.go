package vm

// ExecuteLoad executes LB/LH/LW/LBU/LHU: reads from rs1+immediate and
// places a (possibly sign-extended) value in rd.
func ExecuteLoad(cpu *CPU, mem *Memory, op Operation) error {
	addr := uint32(int32(cpu.GetRegister(op.Rs1)) + op.Imm)

	var value uint32
	switch op.Load {
	case LoadByte:
		b, err := mem.ReadByte(addr)
		if err != nil {
			return err
		}
		value = uint32(int32(int8(b)))
	case LoadHalf:
		h, err := mem.ReadHalfword(addr)
		if err != nil {
			return err
		}
		value = uint32(int32(int16(h)))
	case LoadWord:
		w, err := mem.ReadWord(addr)
		if err != nil {
			return err
		}
		value = w
	case LoadByteUnsigned:
		b, err := mem.ReadByte(addr)
		if err != nil {
			return err
		}
		value = uint32(b)
	case LoadHalfUnsigned:
		h, err := mem.ReadHalfword(addr)
		if err != nil {
			return err
		}
		value = uint32(h)
	}

	cpu.SetRegister(op.Rd, value)
	cpu.IncrementPC()
	return nil
}

// ExecuteStore executes SB/SH/SW: writes rs2 to rs1+immediate, leaving any
// bytes outside the transfer width untouched (spec.md's little-endian
// partial-write rule; see memory.go's WriteHalfword doc comment
// for the original implementation's divergent zeroing behavior).
func ExecuteStore(cpu *CPU, mem *Memory, op Operation) error {
	addr := uint32(int32(cpu.GetRegister(op.Rs1)) + op.Imm)
	value := cpu.GetRegister(op.Rs2)

	var err error
	switch op.Store {
	case StoreByte:
		err = mem.WriteByte(addr, byte(value))
	case StoreHalf:
		err = mem.WriteHalfword(addr, uint16(value))
	case StoreWord:
		err = mem.WriteWord(addr, value)
	}
	if err != nil {
		return err
	}

	cpu.IncrementPC()
	return nil
}
