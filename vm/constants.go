package vm

// ============================================================================
// RV32IM Architecture Constants
// ============================================================================

const (
	InstructionSize = 4 // bytes; RV32I has no compressed (16-bit) forms here

	RegisterCount = 32 // x0-x31
	ZeroRegister  = 0  // x0 is hard-wired to zero

	RAReg = 1 // x1, conventional return-address register
	SPReg = 2 // x2, conventional stack-pointer register
)

// Major opcodes (bits 6-0 of the instruction word). Bits 1-0 are always 11
// for the 32-bit encodings this simulator supports.
const (
	OpcodeLoad     = 0x03
	OpcodeMiscMem  = 0x0F
	OpcodeOpImm    = 0x13
	OpcodeAuipc    = 0x17
	OpcodeStore    = 0x23
	OpcodeOp       = 0x33
	OpcodeLui      = 0x37
	OpcodeBranch   = 0x63
	OpcodeJalr     = 0x67
	OpcodeJal      = 0x6F
	OpcodeSystem   = 0x73
)

// funct3 values, scoped to the opcode they're read under.
const (
	Funct3Beq  = 0x0
	Funct3Bne  = 0x1
	Funct3Blt  = 0x4
	Funct3Bge  = 0x5
	Funct3Bltu = 0x6
	Funct3Bgeu = 0x7

	Funct3Lb  = 0x0
	Funct3Lh  = 0x1
	Funct3Lw  = 0x2
	Funct3Lbu = 0x4
	Funct3Lhu = 0x5

	Funct3Sb = 0x0
	Funct3Sh = 0x1
	Funct3Sw = 0x2

	Funct3Addi  = 0x0
	Funct3Slli  = 0x1
	Funct3Slti  = 0x2
	Funct3Sltiu = 0x3
	Funct3Xori  = 0x4
	Funct3SrlSrai = 0x5
	Funct3Ori   = 0x6
	Funct3Andi  = 0x7

	Funct3AddSub = 0x0
	Funct3Sll    = 0x1
	Funct3Slt    = 0x2
	Funct3Sltu   = 0x3
	Funct3Xor    = 0x4
	Funct3SrlSra = 0x5
	Funct3Or     = 0x6
	Funct3And    = 0x7

	Funct3Mul    = 0x0
	Funct3Mulh   = 0x1
	Funct3Mulhsu = 0x2
	Funct3Mulhu  = 0x3
	Funct3Div    = 0x4
	Funct3Divu   = 0x5
	Funct3Rem    = 0x6
	Funct3Remu   = 0x7

	Funct3Fence = 0x0

	Funct3Priv   = 0x0 // ECALL/EBREAK share funct3=0 under SYSTEM
	Funct3Csrrw  = 0x1
	Funct3Csrrs  = 0x2
	Funct3Csrrc  = 0x3
	Funct3Csrrwi = 0x5
	Funct3Csrrsi = 0x6
	Funct3Csrrci = 0x7
)

// funct7 values distinguishing ADD/SUB and SRL/SRA, and selecting the RV32M
// extension's instructions under the OP major opcode.
const (
	Funct7Base = 0x00
	Funct7Alt  = 0x20 // SUB, SRA
	Funct7Mext = 0x01 // MUL/MULH/MULHSU/MULHU/DIV/DIVU/REM/REMU
)

// funct12 values under SYSTEM/funct3=0 selecting ECALL vs EBREAK.
const (
	Funct12Ecall  = 0x000
	Funct12Ebreak = 0x001
)

// Shift-amount mask: RV32 shifts use the low 5 bits of rs2/the I-immediate.
const ShiftAmountMask = 0x1F

// SRLI/SRAI discriminator bit, within the raw 12-bit I-immediate field
// (bit 10 of that field, bit 30 of the instruction word).
const ImmShiftTypeBit = 0x400

// CSR addresses the runtime serves. Everything else is fatal.
const (
	CSRCycle       = 0xC00 // low 32 bits of the cycle counter
	CSRCycleH      = 0xC80 // high 32 bits of the cycle counter
	CSRMepc        = 0x341 // machine exception PC, read/write scratch
	CSRMisa        = 0xF10 // machine ISA register, read-only
	CSRWriteSink   = 0x780 // writes accepted and discarded, reads return 0
)

// CSRPerfCounterLow and CSRPerfCounterHigh bound the unprivileged
// performance-counter address range (0xC03-0xC1F), which reads as zero and
// accepts silently discarded writes. The high halves (0xC83-0xC9F) are not
// part of the range.
const (
	CSRPerfCounterLow  = 0xC03
	CSRPerfCounterHigh = 0xC1F
)

// MisaValue is the value misa reads as: MXL=01 (bits 31:30) for XLEN=32,
// plus the I (bit 8) and M (bit 12) extension bits.
const MisaValue = 1<<30 | 1<<8 | 1<<12

// Default runtime limits, overridable via config.
const (
	DefaultMemorySize = 16 * 1024 * 1024 // 16MiB flat image
	DefaultMaxCycles  = 10_000_000
	DefaultStackSlack = 1024 // bytes left unmapped-by-convention above the stack pointer
)

// The modelled ECALL: syscall number in a0 (x10), fd in a1 (x11) which must
// be exactly WriteSyscallFD, buffer pointer in a2 (x12), length in a3 (x13).
const (
	SyscallWrite  = 0
	WriteSyscallFD = 0
)
