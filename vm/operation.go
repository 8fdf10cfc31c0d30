package vm

// Kind identifies which of the decoder's tagged operation variants an
// Operation carries.
type Kind int

const (
	KindUpperImmediate Kind = iota // LUI, AUIPC
	KindJump                       // JAL
	KindJumpRegister               // JALR
	KindBranch                     // BEQ/BNE/BLT/BGE/BLTU/BGEU
	KindLoad                       // LB/LH/LW/LBU/LHU
	KindStore                      // SB/SH/SW
	KindOpImm                      // ADDI/SLTI/SLTIU/XORI/ORI/ANDI/SLLI/SRLI/SRAI
	KindOp                         // ADD/SUB/SLL/SLT/SLTU/XOR/SRL/SRA/OR/AND + RV32M
	KindFence                      // FENCE, FENCE.I (no-ops here)
	KindSystem                     // ECALL, EBREAK
	KindCSR                        // CSRRW/CSRRS/CSRRC/CSRRWI/CSRRSI/CSRRCI
)

// SystemKind distinguishes the two SYSTEM/funct3=0 forms.
type SystemKind int

const (
	SystemECall SystemKind = iota
	SystemEBreak
)

// BranchKind distinguishes the six BRANCH comparisons.
type BranchKind int

const (
	BranchEQ BranchKind = iota
	BranchNE
	BranchLT
	BranchGE
	BranchLTU
	BranchGEU
)

// ALUOp identifies an OP-IMM/OP integer operation, shared by both
// immediate and register-register forms since RV32I defines the same set
// of arithmetic/logical operations for each.
type ALUOp int

const (
	ALUAdd ALUOp = iota
	ALUSub // register form only; OP-IMM has no subtract
	ALUSLT
	ALUSLTU
	ALUXor
	ALUOr
	ALUAnd
	ALUSLL
	ALUSRL
	ALUSRA
)

// MulDivOp identifies an RV32M instruction under the OP major opcode.
type MulDivOp int

const (
	MulDivMul MulDivOp = iota
	MulDivMulH
	MulDivMulHSU
	MulDivMulHU
	MulDivDiv
	MulDivDivU
	MulDivRem
	MulDivRemU
)

// LoadWidth identifies a load's transfer width and sign behavior.
type LoadWidth int

const (
	LoadByte LoadWidth = iota
	LoadHalf
	LoadWord
	LoadByteUnsigned
	LoadHalfUnsigned
)

// StoreWidth identifies a store's transfer width.
type StoreWidth int

const (
	StoreByte StoreWidth = iota
	StoreHalf
	StoreWord
)

// CSRKind identifies one of the six Zicsr instructions.
type CSRKind int

const (
	CSRReadWrite CSRKind = iota
	CSRReadSet
	CSRReadClear
	CSRReadWriteImm
	CSRReadSetImm
	CSRReadClearImm
)

// Operation is the decoder's output: a single tagged value describing one
// instruction, independent of any CPU or memory state. Only the fields
// relevant to Kind are meaningful; the rest are zero.
type Operation struct {
	Kind Kind
	Raw  uint32 // the original instruction word, for diagnostics

	Rd, Rs1, Rs2 int
	Imm          int32 // sign-extended immediate, already shifted/assembled per encoding shape

	IsAuipc bool // KindUpperImmediate: true for AUIPC, false for LUI

	IsMulDiv bool // true when Kind==KindOp selects an RV32M instruction rather than base ALUOp
	ALU      ALUOp
	MulDiv   MulDivOp

	AluAltForm bool // SUB under OP, SRA under OP/OP-IMM: funct7 bit 30 set

	Branch BranchKind
	Load   LoadWidth
	Store  StoreWidth
	System SystemKind
	CSR    CSRKind
	CSRAddr uint32
}
