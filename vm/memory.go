package vm

import "fmt"

// Memory is the flat, fixed-capacity byte array RV32 programs execute
// against. Unlike the segmented, permission-checked memory a full ARM
// emulator needs, spec.md describes a single contiguous array: there is no
// segment table here, only bounds checks. Misaligned halfword/word accesses
// are legal and execute like any other access (spec.md §4.1), so there is no
// alignment check either.
type Memory struct {
	data         []byte
	littleEndian bool
	ReadCount    uint64
	WriteCount   uint64
}

// NewMemory allocates a zeroed image of the given size.
func NewMemory(size uint32) *Memory {
	return &Memory{
		data:         make([]byte, size),
		littleEndian: true,
	}
}

// Size returns the memory image's capacity in bytes.
func (m *Memory) Size() uint32 {
	return uint32(len(m.data))
}

func (m *Memory) checkBounds(address uint32, width uint32) error {
	if uint64(address)+uint64(width) > uint64(len(m.data)) {
		return fmt.Errorf("%w: address 0x%08X (width %d, capacity 0x%08X)", ErrMemoryOutOfRange, address, width, len(m.data))
	}
	return nil
}

// ReadByte reads a single byte.
func (m *Memory) ReadByte(address uint32) (byte, error) {
	if err := m.checkBounds(address, 1); err != nil {
		return 0, err
	}
	m.ReadCount++
	return m.data[address], nil
}

// WriteByte writes a single byte.
func (m *Memory) WriteByte(address uint32, value byte) error {
	if err := m.checkBounds(address, 1); err != nil {
		return err
	}
	m.WriteCount++
	m.data[address] = value
	return nil
}

// ReadHalfword reads a little-endian 16-bit value.
func (m *Memory) ReadHalfword(address uint32) (uint16, error) {
	if err := m.checkBounds(address, 2); err != nil {
		return 0, err
	}
	m.ReadCount++
	return uint16(m.data[address]) | uint16(m.data[address+1])<<8, nil
}

// WriteHalfword writes a little-endian 16-bit value, leaving adjacent bytes
// untouched (spec.md's resolution of the SB/SH partial-write question; the
// original implementation this spec was distilled from zeroed the untouched
// high bytes instead, which we deliberately do not reproduce).
func (m *Memory) WriteHalfword(address uint32, value uint16) error {
	if err := m.checkBounds(address, 2); err != nil {
		return err
	}
	m.WriteCount++
	m.data[address] = byte(value)
	m.data[address+1] = byte(value >> 8)
	return nil
}

// ReadWord reads a little-endian 32-bit value.
func (m *Memory) ReadWord(address uint32) (uint32, error) {
	if err := m.checkBounds(address, 4); err != nil {
		return 0, err
	}
	m.ReadCount++
	return uint32(m.data[address]) |
		uint32(m.data[address+1])<<8 |
		uint32(m.data[address+2])<<16 |
		uint32(m.data[address+3])<<24, nil
}

// WriteWord writes a little-endian 32-bit value.
func (m *Memory) WriteWord(address uint32, value uint32) error {
	if err := m.checkBounds(address, 4); err != nil {
		return err
	}
	m.WriteCount++
	m.data[address] = byte(value)
	m.data[address+1] = byte(value >> 8)
	m.data[address+2] = byte(value >> 16)
	m.data[address+3] = byte(value >> 24)
	return nil
}

// LoadBytes copies data into memory starting at address, as the loader does
// for each ELF PT_LOAD segment.
func (m *Memory) LoadBytes(address uint32, data []byte) error {
	if err := m.checkBounds(address, uint32(len(data))); err != nil {
		return fmt.Errorf("failed to load segment: %w", err)
	}
	copy(m.data[address:], data)
	return nil
}

// Reset zeroes the entire image and its access counters.
func (m *Memory) Reset() {
	for i := range m.data {
		m.data[i] = 0
	}
	m.ReadCount = 0
	m.WriteCount = 0
}
