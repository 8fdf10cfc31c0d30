// Package loader parses an ELF32 RV32 executable and maps its loadable
// segments into a vm.Memory image.
package loader

import (
	"debug/elf"
	"fmt"
	"io"

	"github.com/riscv32/rv32emu/vm"
)

// Segment describes one PT_LOAD segment pulled out of the ELF file, before
// it has been copied into a vm.Memory image.
type Segment struct {
	VirtAddr uint32
	Data     []byte
	MemSize  uint32
	Flags    SegmentFlags
}

// SegmentFlags mirrors the ELF program header's R/W/X permission bits.
// The simulator's flat vm.Memory has no permission model of its own (see
// DESIGN.md), so these are carried for diagnostics only.
type SegmentFlags uint32

const (
	SegmentFlagExecute SegmentFlags = 1 << iota
	SegmentFlagWrite
	SegmentFlagRead
)

// Program is a fully parsed ELF image, ready to be copied into a VM.
type Program struct {
	EntryPoint uint32
	Segments   []Segment
}

// entryPointCandidates are the symbol names findEntryPointSymbol falls back to
// when the ELF header carries no entry point of its own.
var entryPointCandidates = []string{"_start", "main", "__start", "start"}

// Load parses the RV32 ELF32 executable at path.
func Load(path string) (*Program, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if f.Class != elf.ELFCLASS32 {
		return nil, fmt.Errorf("not a 32-bit ELF file")
	}
	if f.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("not a RISC-V ELF file (machine type: %v)", f.Machine)
	}

	prog := &Program{EntryPoint: uint32(f.Entry)}

	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}

		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("failed to read segment at 0x%x: %w", phdr.Vaddr, err)
			}
			if uint64(n) != phdr.Filesz {
				return nil, fmt.Errorf("short read for segment at 0x%x: got %d bytes, expected %d", phdr.Vaddr, n, phdr.Filesz)
			}
		}

		var flags SegmentFlags
		if phdr.Flags&elf.PF_X != 0 {
			flags |= SegmentFlagExecute
		}
		if phdr.Flags&elf.PF_W != 0 {
			flags |= SegmentFlagWrite
		}
		if phdr.Flags&elf.PF_R != 0 {
			flags |= SegmentFlagRead
		}

		prog.Segments = append(prog.Segments, Segment{
			VirtAddr: uint32(phdr.Vaddr),
			Data:     data,
			MemSize:  uint32(phdr.Memsz),
			Flags:    flags,
		})
	}

	// The ELF header always carries an entry point for an executable; the
	// symbol-table fallback only matters for the rare object that lacks one.
	if prog.EntryPoint == 0 {
		if addr, err := findEntryPointSymbol(f); err == nil {
			prog.EntryPoint = addr
		}
	}

	return prog, nil
}

func findEntryPointSymbol(f *elf.File) (uint32, error) {
	syms, err := f.Symbols()
	if err != nil {
		return 0, err
	}
	byName := make(map[string]uint32, len(syms))
	for _, s := range syms {
		byName[s.Name] = uint32(s.Value)
	}
	for _, name := range entryPointCandidates {
		if addr, ok := byName[name]; ok {
			return addr, nil
		}
	}
	return 0, fmt.Errorf("no entry point found in symbol table")
}

// Symbols returns every named symbol in the ELF file's symbol table, keyed
// by name and mapped to its address, for the debugger's symbol-name
// resolution and the -dump-symbols CLI mode.
func Symbols(path string) (map[string]uint32, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	syms, err := f.Symbols()
	if err != nil {
		// A stripped binary has no symbol table; that's not an error here.
		return map[string]uint32{}, nil
	}

	out := make(map[string]uint32, len(syms))
	for _, s := range syms {
		if s.Name == "" {
			continue
		}
		out[s.Name] = uint32(s.Value)
	}
	return out, nil
}

// LoadIntoVM copies every PT_LOAD segment into machine's memory and
// bootstraps the CPU at the program's entry point, with a stack pointer
// placed stackSlack bytes below the top of the memory image (the
// config/constructor parameter SPEC_FULL.md describes; the caller always
// supplies it).
func LoadIntoVM(machine *vm.VM, prog *Program, stackSlack uint32) error {
	for _, seg := range prog.Segments {
		if err := machine.Memory.LoadBytes(seg.VirtAddr, seg.Data); err != nil {
			return fmt.Errorf("failed to load segment at 0x%08X: %w", seg.VirtAddr, err)
		}
	}

	stackTop := machine.Memory.Size() - stackSlack
	machine.Bootstrap(prog.EntryPoint, stackTop)
	return nil
}
