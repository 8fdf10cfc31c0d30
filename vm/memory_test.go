package vm

import "testing"

func TestMemoryWordRoundTripLittleEndian(t *testing.T) {
	m := NewMemory(64)
	if err := m.WriteWord(0, 0x01020304); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	b0, _ := m.ReadByte(0)
	b3, _ := m.ReadByte(3)
	if b0 != 0x04 || b3 != 0x01 {
		t.Fatalf("little-endian layout wrong: b0=0x%02X b3=0x%02X", b0, b3)
	}
	got, err := m.ReadWord(0)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if got != 0x01020304 {
		t.Fatalf("ReadWord: got 0x%08X, want 0x01020304", got)
	}
}

func TestMemoryOutOfRangeIsFatal(t *testing.T) {
	m := NewMemory(16)
	if _, err := m.ReadByte(16); err == nil {
		t.Fatal("expected out-of-range read to fail")
	}
	if err := m.WriteWord(14, 1); err == nil {
		t.Fatal("expected word write straddling the end to fail")
	}
}

func TestMemoryUnalignedWordAccessSucceeds(t *testing.T) {
	m := NewMemory(64)
	if err := m.WriteWord(1, 0x01020304); err != nil {
		t.Fatalf("WriteWord at unaligned address: %v", err)
	}
	got, err := m.ReadWord(1)
	if err != nil {
		t.Fatalf("ReadWord at unaligned address: %v", err)
	}
	if got != 0x01020304 {
		t.Fatalf("unaligned ReadWord: got 0x%08X, want 0x01020304", got)
	}
}

func TestMemoryLoadBytes(t *testing.T) {
	m := NewMemory(64)
	data := []byte{1, 2, 3, 4}
	if err := m.LoadBytes(10, data); err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	got, err := m.ReadWord(10)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if got != 0x04030201 {
		t.Fatalf("LoadBytes: got 0x%08X, want 0x04030201", got)
	}
}
