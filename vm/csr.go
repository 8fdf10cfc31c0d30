package vm

import "fmt"

// CSRFile models the small, fixed subset of control/status registers this
// simulator serves: the cycle counter, a scratch mepc, the read-only misa,
// the unprivileged performance-counter range (reads zero), and a
// write-discard sink. Any other address is fatal.
type CSRFile struct {
	mepc uint32
}

// Read returns the value of addr, or ErrUnmodelledCSR if addr is not one of
// the modelled registers.
func (c *CSRFile) Read(cpu *CPU, addr uint32) (uint32, error) {
	switch {
	case addr == CSRCycle:
		return uint32(cpu.Cycles), nil
	case addr == CSRCycleH:
		return uint32(cpu.Cycles >> 32), nil
	case addr == CSRMepc:
		return c.mepc, nil
	case addr == CSRMisa:
		return MisaValue, nil
	case addr >= CSRPerfCounterLow && addr <= CSRPerfCounterHigh:
		return 0, nil
	case addr == CSRWriteSink:
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: CSR 0x%03X", ErrUnmodelledCSR, addr)
	}
}

// Write stores value into addr. Writes to read-only or counter CSRs, and to
// the performance-counter range, are silently discarded rather than
// rejected, matching the convention that probing code may blindly write
// CSRs it does not know are read-only. Any address outside the modelled set
// is fatal.
func (c *CSRFile) Write(addr uint32, value uint32) error {
	switch {
	case addr == CSRMepc:
		c.mepc = value
		return nil
	case addr == CSRCycle, addr == CSRCycleH, addr == CSRMisa:
		return nil
	case addr >= CSRPerfCounterLow && addr <= CSRPerfCounterHigh:
		return nil
	case addr == CSRWriteSink:
		return nil
	default:
		return fmt.Errorf("%w: CSR 0x%03X", ErrUnmodelledCSR, addr)
	}
}
