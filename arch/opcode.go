// Package arch defines the system's instruction set along with
// some related helper functions.
package arch

// Known opcodes.
const (
	Unknown = iota

	CLS  // 00E0
	RET  // 00EE
	SYS  // 0NNN
	JP   // 1NNN
	CALL // 2NNN

	SEI  // 3XNN
	SNEI // 4XNN
	SE   // 5XY0
	SNE  // 9XY0

	LDI  // 6XNN
	ADDI // 7XNN

	LD   // 8XY0
	OR   // 8XY1
	AND  // 8XY2
	XOR  // 8XY3
	ADD  // 8XY4
	SUB  // 8XY5
	SHR  // 8XY6
	SUBN // 8XY7
	SHL  // 8XYE

	LDIDX  // ANNN
	JPV0   // BNNN
	RND    // CXNN
	DRW    // DXYN
	SKP    // EX9E
	SKNP   // EXA1
	LDVDT  // FX07
	LDKEY  // FX0A
	LDDT   // FX15
	LDST   // FX18
	ADDIDX // FX1E
	LDFONT // FX29
	LDBCD  // FX33
	STORE  // FX55
	LOAD   // FX65

	OpcodeCount = LOAD // Number of defined instructions.
)

// Known operand layouts.
const (
	None         = iota // No operands.
	Addr                // NNN
	RegByte             // X, NN
	RegReg              // X, Y
	RegRegNibble        // X, Y, N
	Reg                 // X
)

type opinfo struct {
	name   string
	mask   uint16
	value  uint16
	layout int
	format string
}

var opcodes = [...]opinfo{
	Unknown: {"???", 0x0000, 0x0000, None, ""},

	CLS:  {"CLS", 0xffff, 0x00e0, None, ""},
	RET:  {"RET", 0xffff, 0x00ee, None, ""},
	SYS:  {"SYS", 0xf000, 0x0000, Addr, "{nnn}"},
	JP:   {"JP", 0xf000, 0x1000, Addr, "{nnn}"},
	CALL: {"CALL", 0xf000, 0x2000, Addr, "{nnn}"},

	SEI:  {"SE", 0xf000, 0x3000, RegByte, "V{x}, {nn}"},
	SNEI: {"SNE", 0xf000, 0x4000, RegByte, "V{x}, {nn}"},
	SE:   {"SE", 0xf00f, 0x5000, RegReg, "V{x}, V{y}"},
	SNE:  {"SNE", 0xf00f, 0x9000, RegReg, "V{x}, V{y}"},

	LDI:  {"LD", 0xf000, 0x6000, RegByte, "V{x}, {nn}"},
	ADDI: {"ADD", 0xf000, 0x7000, RegByte, "V{x}, {nn}"},

	LD:   {"LD", 0xf00f, 0x8000, RegReg, "V{x}, V{y}"},
	OR:   {"OR", 0xf00f, 0x8001, RegReg, "V{x}, V{y}"},
	AND:  {"AND", 0xf00f, 0x8002, RegReg, "V{x}, V{y}"},
	XOR:  {"XOR", 0xf00f, 0x8003, RegReg, "V{x}, V{y}"},
	ADD:  {"ADD", 0xf00f, 0x8004, RegReg, "V{x}, V{y}"},
	SUB:  {"SUB", 0xf00f, 0x8005, RegReg, "V{x}, V{y}"},
	SHR:  {"SHR", 0xf00f, 0x8006, RegReg, "V{x}, V{y}"},
	SUBN: {"SUBN", 0xf00f, 0x8007, RegReg, "V{x}, V{y}"},
	SHL:  {"SHL", 0xf00f, 0x800e, RegReg, "V{x}, V{y}"},

	LDIDX:  {"LD", 0xf000, 0xa000, Addr, "I, {nnn}"},
	JPV0:   {"JP", 0xf000, 0xb000, Addr, "V0, {nnn}"},
	RND:    {"RND", 0xf000, 0xc000, RegByte, "V{x}, {nn}"},
	DRW:    {"DRW", 0xf000, 0xd000, RegRegNibble, "V{x}, V{y}, {n}"},
	SKP:    {"SKP", 0xf0ff, 0xe09e, Reg, "V{x}"},
	SKNP:   {"SKNP", 0xf0ff, 0xe0a1, Reg, "V{x}"},
	LDVDT:  {"LD", 0xf0ff, 0xf007, Reg, "V{x}, DT"},
	LDKEY:  {"LD", 0xf0ff, 0xf00a, Reg, "V{x}, K"},
	LDDT:   {"LD", 0xf0ff, 0xf015, Reg, "DT, V{x}"},
	LDST:   {"LD", 0xf0ff, 0xf018, Reg, "ST, V{x}"},
	ADDIDX: {"ADD", 0xf0ff, 0xf01e, Reg, "I, V{x}"},
	LDFONT: {"LD", 0xf0ff, 0xf029, Reg, "F, V{x}"},
	LDBCD:  {"LD", 0xf0ff, 0xf033, Reg, "B, V{x}"},
	STORE:  {"LD", 0xf0ff, 0xf055, Reg, "[I], V{x}"},
	LOAD:   {"LD", 0xf0ff, 0xf065, Reg, "V{x}, [I]"},
}

// Lookup returns the opcode for the given instruction word.
// Every word maps to exactly one opcode; words which match no
// defined instruction yield Unknown.
func Lookup(word uint16) int {
	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00e0:
			return CLS
		case 0x00ee:
			return RET
		}
		return SYS
	case 0x1:
		return JP
	case 0x2:
		return CALL
	case 0x3:
		return SEI
	case 0x4:
		return SNEI
	case 0x5:
		if word&0xf == 0 {
			return SE
		}
	case 0x6:
		return LDI
	case 0x7:
		return ADDI
	case 0x8:
		switch word & 0xf {
		case 0x0:
			return LD
		case 0x1:
			return OR
		case 0x2:
			return AND
		case 0x3:
			return XOR
		case 0x4:
			return ADD
		case 0x5:
			return SUB
		case 0x6:
			return SHR
		case 0x7:
			return SUBN
		case 0xe:
			return SHL
		}
	case 0x9:
		if word&0xf == 0 {
			return SNE
		}
	case 0xa:
		return LDIDX
	case 0xb:
		return JPV0
	case 0xc:
		return RND
	case 0xd:
		return DRW
	case 0xe:
		switch word & 0xff {
		case 0x9e:
			return SKP
		case 0xa1:
			return SKNP
		}
	case 0xf:
		switch word & 0xff {
		case 0x07:
			return LDVDT
		case 0x0a:
			return LDKEY
		case 0x15:
			return LDDT
		case 0x18:
			return LDST
		case 0x1e:
			return ADDIDX
		case 0x29:
			return LDFONT
		case 0x33:
			return LDBCD
		case 0x55:
			return STORE
		case 0x65:
			return LOAD
		}
	}
	return Unknown
}

// Name returns the mnemonic for the given opcode.
// Returns false if the opcode is not recognized.
func Name(opcode int) (string, bool) {
	if opcode <= Unknown || opcode > OpcodeCount {
		return "", false
	}
	return opcodes[opcode].name, true
}

// Layout returns the operand layout for the given instruction.
// Returns -1 if the opcode is not recognized.
func Layout(opcode int) int {
	if opcode <= Unknown || opcode > OpcodeCount {
		return -1
	}
	return opcodes[opcode].layout
}

// Pattern returns the bit mask and value which identify the given
// opcode: word&mask == value. SYS is the catch-all of the 0x0 family
// and also matches CLS and RET; Lookup gives those precedence.
func Pattern(opcode int) (mask, value uint16) {
	if opcode <= Unknown || opcode > OpcodeCount {
		return 0, 0
	}
	info := opcodes[opcode]
	return info.mask, info.value
}

// Encode builds the instruction word for opcode with the given operands,
// in the order implied by its layout. Missing operands are zero and
// excess operands are ignored. Returns 0 for unknown opcodes.
func Encode(opcode int, operands ...int) uint16 {
	if opcode <= Unknown || opcode > OpcodeCount {
		return 0
	}

	var argv [3]int
	copy(argv[:], operands)

	info := opcodes[opcode]
	word := info.value

	switch info.layout {
	case Addr:
		word |= uint16(argv[0]) & 0xfff
	case RegByte:
		word |= (uint16(argv[0])&0xf)<<8 | uint16(argv[1])&0xff
	case RegReg:
		word |= (uint16(argv[0])&0xf)<<8 | (uint16(argv[1])&0xf)<<4
	case RegRegNibble:
		word |= (uint16(argv[0])&0xf)<<8 | (uint16(argv[1])&0xf)<<4 | uint16(argv[2])&0xf
	case Reg:
		word |= (uint16(argv[0]) & 0xf) << 8
	}

	return word
}
