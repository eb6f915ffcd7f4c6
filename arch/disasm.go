package arch

import (
	"fmt"
	"strings"
)

// Disassemble returns the human-readable form of the given instruction word,
// for example "DRW V1, V2, 5". Unknown words are rendered as a data word.
func Disassemble(word uint16) string {
	opcode := Lookup(word)
	if opcode == Unknown {
		return fmt.Sprintf("DW %#04x", word)
	}

	info := opcodes[opcode]
	if len(info.format) == 0 {
		return info.name
	}

	r := strings.NewReplacer(
		"{x}", fmt.Sprintf("%X", (word>>8)&0xf),
		"{y}", fmt.Sprintf("%X", (word>>4)&0xf),
		"{nnn}", fmt.Sprintf("%#03x", word&0xfff),
		"{nn}", fmt.Sprintf("%#02x", word&0xff),
		"{n}", fmt.Sprintf("%d", word&0xf),
	)

	return info.name + " " + r.Replace(info.format)
}
