package arch

// Memory map and machine dimensions.
const (
	MemorySize      = 4096            // Addressable memory in bytes.
	AddressMask     = MemorySize - 1  // Mask which folds any address into memory.
	EntryPoint      = 0x200           // Address at which programs are loaded and started.
	ProgramCapacity = MemorySize - EntryPoint
	FontAddress     = 0x050 // Start of the built-in hex digit glyphs.
	FontGlyphSize   = 5     // Bytes per font glyph.
	InstructionSize = 2     // Size of an instruction word in bytes.

	RegisterCount = 16 // Number of data registers V0-VF.
	FlagRegister  = 0xf
	StackDepth    = 16 // Number of return addresses the call stack holds.
	KeyCount      = 16 // Number of keys on the hex keypad.

	DisplayWidth  = 64 // Display width in pixels.
	DisplayHeight = 32 // Display height in pixels.

	TimerFrequency = 60 // Delay and sound timer rate in Hz.
)
