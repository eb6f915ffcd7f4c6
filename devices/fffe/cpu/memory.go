package cpu

import "github.com/hexaflex/chip8/arch"

// Memory defines the system's memory bank.
//
// Accessors fold every address into the 4KB address space. Callers which
// need to report out-of-bounds accesses check InBounds first.
type Memory []byte

// InBounds returns true if addr lies within the address space.
func InBounds(addr int) bool {
	return addr >= 0 && addr < arch.MemorySize
}

// U8 returns the 8-bit value at the given address.
func (m Memory) U8(addr int) int {
	return int(m[addr&arch.AddressMask])
}

// U16 returns the big-endian 16-bit value at the given address.
func (m Memory) U16(addr int) int {
	return m.U8(addr)<<8 | m.U8(addr+1)
}

// Write writes len(p) bytes from p into memory, starting at the given address.
// Bytes which would fall beyond the end of memory are dropped.
func (m Memory) Write(address int, p []byte) {
	copy(m[address&arch.AddressMask:], p)
}

func (m Memory) clear() {
	for i := range m {
		m[i] = 0
	}
}
