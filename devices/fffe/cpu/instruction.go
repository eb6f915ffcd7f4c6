package cpu

import (
	"github.com/hexaflex/chip8/arch"
)

// Instruction defines decoded instruction data.
type Instruction struct {
	IP     int    // Instruction address.
	Word   uint16 // Raw instruction word.
	Opcode int    // Instruction opcode; arch.Unknown if the word is not recognized.
	X      int    // Register index in bits 8-11.
	Y      int    // Register index in bits 4-7.
	N      int    // 4-bit immediate.
	NN     int    // 8-bit immediate.
	NNN    int    // 12-bit address.
}

// Decode decodes the instruction at address ip.
// Returns false if the instruction word does not lie entirely within memory.
// The word is then read from the wrapped addresses.
func (i *Instruction) Decode(m Memory, ip int) bool {
	i.IP = ip
	i.Word = uint16(m.U16(ip))
	i.decodeFields()
	return InBounds(ip) && InBounds(ip+1)
}

// DecodeWord decodes the given instruction word without a memory context.
func (i *Instruction) DecodeWord(word uint16) {
	i.IP = 0
	i.Word = word
	i.decodeFields()
}

func (i *Instruction) decodeFields() {
	w := int(i.Word)
	i.Opcode = arch.Lookup(i.Word)
	i.X = (w >> 8) & 0xf
	i.Y = (w >> 4) & 0xf
	i.N = w & 0xf
	i.NN = w & 0xff
	i.NNN = w & 0xfff
}

// String returns the disassembled form of the instruction.
func (i *Instruction) String() string {
	return arch.Disassemble(i.Word)
}
