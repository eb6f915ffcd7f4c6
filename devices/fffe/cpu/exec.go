package cpu

import (
	"github.com/hexaflex/chip8/arch"
)

// execute applies the semantics of the decoded instruction.
// The program counter already points at the next instruction.
func (c *CPU) execute(instr *Instruction) {
	v := &c.v
	x, y := instr.X, instr.Y

	switch instr.Opcode {
	case arch.CLS:
		c.display = [arch.DisplayWidth * arch.DisplayHeight]byte{}
		c.render = true
	case arch.RET:
		if c.sp == 0 {
			c.report(ErrStackUnderflow, "return with empty stack")
			return
		}
		c.sp--
		c.pc = c.stack[c.sp]
	case arch.SYS:
		// Host machine code routines are not supported; the call is ignored.
	case arch.JP:
		c.pc = uint16(instr.NNN)
	case arch.CALL:
		if c.sp >= arch.StackDepth {
			c.report(ErrStackOverflow, "call to %#03x exceeds %d levels", instr.NNN, arch.StackDepth)
			return
		}
		c.stack[c.sp] = c.pc
		c.sp++
		c.pc = uint16(instr.NNN)

	case arch.SEI:
		c.skipIf(int(v[x]) == instr.NN)
	case arch.SNEI:
		c.skipIf(int(v[x]) != instr.NN)
	case arch.SE:
		c.skipIf(v[x] == v[y])
	case arch.SNE:
		c.skipIf(v[x] != v[y])

	case arch.LDI:
		v[x] = byte(instr.NN)
	case arch.ADDI:
		v[x] += byte(instr.NN)

	case arch.LD:
		v[x] = v[y]
	case arch.OR:
		v[x] |= v[y]
	case arch.AND:
		v[x] &= v[y]
	case arch.XOR:
		v[x] ^= v[y]

	// The flag is written last: X or Y may name VF itself.
	case arch.ADD:
		sum := int(v[x]) + int(v[y])
		v[x] = byte(sum)
		v[arch.FlagRegister] = flag(sum > 0xff)
	case arch.SUB:
		vx, vy := v[x], v[y]
		v[x] = vx - vy
		v[arch.FlagRegister] = flag(vx >= vy)
	case arch.SUBN:
		vx, vy := v[x], v[y]
		v[x] = vy - vx
		v[arch.FlagRegister] = flag(vy >= vx)
	case arch.SHR:
		src := c.shiftSource(instr)
		v[x] = src >> 1
		v[arch.FlagRegister] = src & 1
	case arch.SHL:
		src := c.shiftSource(instr)
		v[x] = src << 1
		v[arch.FlagRegister] = src >> 7

	case arch.LDIDX:
		c.i = uint16(instr.NNN)
	case arch.JPV0:
		c.pc = uint16(instr.NNN + int(v[0]))
	case arch.RND:
		v[x] = byte(c.rng.Uint32()) & byte(instr.NN)
	case arch.DRW:
		c.draw(int(v[x]), int(v[y]), instr.N)

	case arch.SKP:
		c.skipIf(c.keys[v[x]&0xf])
	case arch.SKNP:
		c.skipIf(!c.keys[v[x]&0xf])

	case arch.LDVDT:
		v[x] = c.delay
	case arch.LDKEY:
		c.waitKey(x)
	case arch.LDDT:
		c.delay = v[x]
	case arch.LDST:
		c.sound = v[x]
		c.beep = c.sound > 0
	case arch.ADDIDX:
		sum := int(c.i) + int(v[x])
		c.i = uint16(sum)
		v[arch.FlagRegister] = flag(sum > arch.AddressMask)
	case arch.LDFONT:
		c.i = uint16(arch.FontAddress + int(v[x]&0xf)*arch.FontGlyphSize)
	case arch.LDBCD:
		n := int(v[x])
		c.memory[c.addr(int(c.i))] = byte(n / 100)
		c.memory[c.addr(int(c.i)+1)] = byte(n / 10 % 10)
		c.memory[c.addr(int(c.i)+2)] = byte(n % 10)
	case arch.STORE:
		for n := 0; n <= x; n++ {
			c.memory[c.addr(int(c.i)+n)] = v[n]
		}
		if c.quirks.LoadStoreIncrementsI {
			c.i += uint16(x + 1)
		}
	case arch.LOAD:
		for n := 0; n <= x; n++ {
			v[n] = c.memory[c.addr(int(c.i)+n)]
		}
		if c.quirks.LoadStoreIncrementsI {
			c.i += uint16(x + 1)
		}

	default:
		c.report(ErrUnknownOpcode, "instruction ignored")
	}
}

// skipIf skips the next instruction if cond holds.
func (c *CPU) skipIf(cond bool) {
	if cond {
		c.pc += arch.InstructionSize
	}
}

// shiftSource returns the operand of a shift instruction.
func (c *CPU) shiftSource(instr *Instruction) byte {
	if c.quirks.ShiftUsesVY {
		return c.v[instr.Y]
	}
	return c.v[instr.X]
}

// waitKey stores the lowest pressed key in VX. If no key is down, the
// program counter is rewound so the next cycle executes this instruction again.
func (c *CPU) waitKey(x int) {
	for key, pressed := range c.keys {
		if pressed {
			c.v[x] = byte(key)
			return
		}
	}
	c.pc -= arch.InstructionSize
}

// draw XORs an 8xN sprite read from I onto the display at (ox, oy).
// Pixels wrap around both display edges. VF is set when any lit pixel
// is turned off.
func (c *CPU) draw(ox, oy, rows int) {
	var collision byte

	ox %= arch.DisplayWidth
	oy %= arch.DisplayHeight

	for row := 0; row < rows; row++ {
		bits := c.memory[c.addr(int(c.i)+row)]
		py := (oy + row) % arch.DisplayHeight

		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}

			px := (ox + col) % arch.DisplayWidth
			cell := &c.display[py*arch.DisplayWidth+px]
			collision |= *cell
			*cell ^= 1
		}
	}

	c.v[arch.FlagRegister] = collision
	c.render = true
}

// wrap folds n into [0, size).
func wrap(n, size int) int {
	return (n%size + size) % size
}

func flag(v bool) byte {
	if v {
		return 1
	}
	return 0
}
