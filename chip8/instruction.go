package chip8

import "fmt"

// Op identifies one Chip-8 operation.
type Op uint8

const (
	OpCLS    Op = iota // 00E0
	OpRET              // 00EE
	OpJP               // 1nnn
	OpCALL             // 2nnn
	OpSEImm            // 3xkk
	OpSNEImm           // 4xkk
	OpSEReg            // 5xy0
	OpLDImm            // 6xkk
	OpADDImm           // 7xkk
	OpLDReg            // 8xy0
	OpOR               // 8xy1
	OpAND              // 8xy2
	OpXOR              // 8xy3
	OpADDReg           // 8xy4
	OpSUB              // 8xy5
	OpSHR              // 8xy6
	OpSUBN             // 8xy7
	OpSHL              // 8xyE
	OpSNEReg           // 9xy0
	OpLDI              // Annn
	OpJPV0             // Bnnn
	OpRND              // Cxkk
	OpDRW              // Dxyn
	OpSKP              // Ex9E
	OpSKNP             // ExA1
	OpLDVxDT           // Fx07
	OpLDVxK            // Fx0A
	OpLDDTVx           // Fx15
	OpLDSTVx           // Fx18
	OpADDI             // Fx1E
	OpLDF              // Fx29
	OpLDB              // Fx33
	OpLDIVx            // Fx55
	OpLDVxI            // Fx65
)

var mnemonics = [...]string{
	OpCLS:    "CLS",
	OpRET:    "RET",
	OpJP:     "JP",
	OpCALL:   "CALL",
	OpSEImm:  "SE",
	OpSNEImm: "SNE",
	OpSEReg:  "SE",
	OpLDImm:  "LD",
	OpADDImm: "ADD",
	OpLDReg:  "LD",
	OpOR:     "OR",
	OpAND:    "AND",
	OpXOR:    "XOR",
	OpADDReg: "ADD",
	OpSUB:    "SUB",
	OpSHR:    "SHR",
	OpSUBN:   "SUBN",
	OpSHL:    "SHL",
	OpSNEReg: "SNE",
	OpLDI:    "LD",
	OpJPV0:   "JP",
	OpRND:    "RND",
	OpDRW:    "DRW",
	OpSKP:    "SKP",
	OpSKNP:   "SKNP",
	OpLDVxDT: "LD",
	OpLDVxK:  "LD",
	OpLDDTVx: "LD",
	OpLDSTVx: "LD",
	OpADDI:   "ADD",
	OpLDF:    "LD",
	OpLDB:    "LD",
	OpLDIVx:  "LD",
	OpLDVxI:  "LD",
}

func (op Op) String() string {
	if int(op) < len(mnemonics) {
		return mnemonics[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// Instruction is a decoded opcode. Only the operand fields meaningful to Op
// are set.
type Instruction struct {
	Op  Op
	X   uint8  // -x--
	Y   uint8  // --y-
	N   uint8  // ---n
	KK  uint8  // --kk
	NNN uint16 // -nnn
}

// Decode splits a 16-bit opcode into an Instruction. Opcodes that do not
// name a Chip-8 operation return ErrUnknownInstruction. That includes 0nnn
// (SYS addr), which jumps to native machine code and is not emulated.
func Decode(op uint16) (Instruction, error) {
	in := Instruction{
		X:   uint8((op & 0xf00) >> 8),
		Y:   uint8((op & 0xf0) >> 4),
		N:   uint8(op & 0xf),
		KK:  uint8(op & 0xff),
		NNN: op & 0xfff,
	}
	switch op & 0xf000 {
	case 0x0000:
		switch op {
		case 0x00e0:
			in.Op = OpCLS
		case 0x00ee:
			in.Op = OpRET
		default:
			goto Unknown
		}
	case 0x1000:
		in.Op = OpJP
	case 0x2000:
		in.Op = OpCALL
	case 0x3000:
		in.Op = OpSEImm
	case 0x4000:
		in.Op = OpSNEImm
	case 0x5000:
		if in.N != 0 {
			goto Unknown
		}
		in.Op = OpSEReg
	case 0x6000:
		in.Op = OpLDImm
	case 0x7000:
		in.Op = OpADDImm
	case 0x8000:
		switch in.N {
		case 0x0:
			in.Op = OpLDReg
		case 0x1:
			in.Op = OpOR
		case 0x2:
			in.Op = OpAND
		case 0x3:
			in.Op = OpXOR
		case 0x4:
			in.Op = OpADDReg
		case 0x5:
			in.Op = OpSUB
		case 0x6:
			in.Op = OpSHR
		case 0x7:
			in.Op = OpSUBN
		case 0xe:
			in.Op = OpSHL
		default:
			goto Unknown
		}
	case 0x9000:
		if in.N != 0 {
			goto Unknown
		}
		in.Op = OpSNEReg
	case 0xa000:
		in.Op = OpLDI
	case 0xb000:
		in.Op = OpJPV0
	case 0xc000:
		in.Op = OpRND
	case 0xd000:
		in.Op = OpDRW
	case 0xe000:
		switch in.KK {
		case 0x9e:
			in.Op = OpSKP
		case 0xa1:
			in.Op = OpSKNP
		default:
			goto Unknown
		}
	case 0xf000:
		switch in.KK {
		case 0x07:
			in.Op = OpLDVxDT
		case 0x0a:
			in.Op = OpLDVxK
		case 0x15:
			in.Op = OpLDDTVx
		case 0x18:
			in.Op = OpLDSTVx
		case 0x1e:
			in.Op = OpADDI
		case 0x29:
			in.Op = OpLDF
		case 0x33:
			in.Op = OpLDB
		case 0x55:
			in.Op = OpLDIVx
		case 0x65:
			in.Op = OpLDVxI
		default:
			goto Unknown
		}
	}
	return in, nil
Unknown:
	return Instruction{}, fmt.Errorf("%w: 0x%04x", ErrUnknownInstruction, op)
}

// String formats the instruction in the assembler syntax of Cowgod's
// reference, eg. "DRW V0, V1, 5".
func (in Instruction) String() string {
	switch in.Op {
	case OpCLS, OpRET:
		return in.Op.String()
	case OpJP, OpCALL:
		return fmt.Sprintf("%s 0x%03x", in.Op, in.NNN)
	case OpSEImm, OpSNEImm, OpLDImm, OpADDImm, OpRND:
		return fmt.Sprintf("%s V%X, 0x%02x", in.Op, in.X, in.KK)
	case OpSEReg, OpSNEReg, OpLDReg, OpOR, OpAND, OpXOR, OpADDReg, OpSUB, OpSUBN:
		return fmt.Sprintf("%s V%X, V%X", in.Op, in.X, in.Y)
	case OpSHR, OpSHL:
		return fmt.Sprintf("%s V%X {, V%X}", in.Op, in.X, in.Y)
	case OpLDI:
		return fmt.Sprintf("LD I, 0x%03x", in.NNN)
	case OpJPV0:
		return fmt.Sprintf("JP V0, 0x%03x", in.NNN)
	case OpDRW:
		return fmt.Sprintf("DRW V%X, V%X, %d", in.X, in.Y, in.N)
	case OpSKP, OpSKNP:
		return fmt.Sprintf("%s V%X", in.Op, in.X)
	case OpLDVxDT:
		return fmt.Sprintf("LD V%X, DT", in.X)
	case OpLDVxK:
		return fmt.Sprintf("LD V%X, K", in.X)
	case OpLDDTVx:
		return fmt.Sprintf("LD DT, V%X", in.X)
	case OpLDSTVx:
		return fmt.Sprintf("LD ST, V%X", in.X)
	case OpADDI:
		return fmt.Sprintf("ADD I, V%X", in.X)
	case OpLDF:
		return fmt.Sprintf("LD F, V%X", in.X)
	case OpLDB:
		return fmt.Sprintf("LD B, V%X", in.X)
	case OpLDIVx:
		return fmt.Sprintf("LD [I], V%X", in.X)
	case OpLDVxI:
		return fmt.Sprintf("LD V%X, [I]", in.X)
	}
	return in.Op.String()
}
