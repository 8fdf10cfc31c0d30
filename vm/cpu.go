package vm

// RegisterFile holds the 32 general-purpose RV32 registers. x0 is
// hard-wired to zero: writes to it are discarded and reads always return 0.
type RegisterFile struct {
	x [RegisterCount]uint32
}

// Get returns the value of register reg (0-31).
func (r *RegisterFile) Get(reg int) uint32 {
	if reg == ZeroRegister {
		return 0
	}
	return r.x[reg]
}

// Set stores value into register reg. Writes to x0 are silently discarded.
func (r *RegisterFile) Set(reg int, value uint32) {
	if reg == ZeroRegister {
		return
	}
	r.x[reg] = value
}

// Reset clears every register to zero.
func (r *RegisterFile) Reset() {
	for i := range r.x {
		r.x[i] = 0
	}
}

// CPU holds the mutable execution state of one hart: its registers, program
// counter, and retired-instruction counter.
type CPU struct {
	Regs   RegisterFile
	PC     uint32
	Cycles uint64
}

// NewCPU returns a CPU with all registers and the program counter at zero.
func NewCPU() *CPU {
	return &CPU{}
}

// Reset returns the CPU to its power-on state.
func (c *CPU) Reset() {
	c.Regs.Reset()
	c.PC = 0
	c.Cycles = 0
}

// GetRegister returns the value of register reg.
func (c *CPU) GetRegister(reg int) uint32 {
	return c.Regs.Get(reg)
}

// SetRegister stores value into register reg.
func (c *CPU) SetRegister(reg int, value uint32) {
	c.Regs.Set(reg, value)
}

// GetSP returns the stack pointer (x2) by convention.
func (c *CPU) GetSP() uint32 {
	return c.Regs.Get(SPReg)
}

// SetSP sets the stack pointer (x2) by convention.
func (c *CPU) SetSP(value uint32) {
	c.Regs.Set(SPReg, value)
}

// IncrementPC advances the program counter by one instruction.
func (c *CPU) IncrementPC() {
	c.PC += InstructionSize
}

// Branch sets the program counter to address, for taken branches and jumps.
func (c *CPU) Branch(address uint32) {
	c.PC = address
}

// IncrementCycles advances the retired-instruction counter.
func (c *CPU) IncrementCycles(n uint64) {
	c.Cycles += n
}
