// Package cpu implements the CHIP-8 interpreter.
package cpu

import (
	"io"
	"log"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices"
)

// TraceFunc represents a callback handler for debug trace output.
type TraceFunc func(*Instruction)

// Rand is the random source used by the RND instruction.
type Rand interface {
	Uint32() uint32
}

// CPU implements the runtime. It owns the complete machine state.
//
// A CPU is not safe for concurrent use. Host collaborators exchange
// state with it through devices.Machine between cycles.
type CPU struct {
	devices     devices.Map                                  // Connected peripherals.
	trace       TraceFunc                                    // Handler for debug trace output.
	rng         Rand                                         // Random number generator.
	memory      Memory                                       // System memory.
	instr       Instruction                                  // Decoded instruction data.
	fault       error                                        // First fault raised in the current cycle.
	quirks      Quirks                                       // Selected instruction variants.
	v           [arch.RegisterCount]byte                     // Data registers V0-VF.
	stack       [arch.StackDepth]uint16                      // Return addresses.
	keys        [arch.KeyCount]bool                          // Hex keypad state.
	display     [arch.DisplayWidth * arch.DisplayHeight]byte // Monochrome framebuffer.
	pc          uint16                                       // Program counter.
	i           uint16                                       // Index register.
	sp          int                                          // Number of occupied stack slots.
	delay       byte                                         // Delay timer.
	sound       byte                                         // Sound timer.
	render      bool                                         // Framebuffer changed since last acknowledged.
	beep        bool                                         // Sound timer is running.
	initialized uint32                                       // Has Startup been called?
}

var _ devices.Machine = &CPU{}

// New creates a new CPU, optionally with the given debug trace handler.
// The machine is reset and ready to accept a program.
func New(trace TraceFunc) *CPU {
	if trace == nil {
		trace = func(*Instruction) { /* nop */ }
	}

	c := &CPU{
		trace:  trace,
		memory: make(Memory, arch.MemorySize),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	c.Reset()
	return c
}

// ID returns the cpu's device Id.
func (c *CPU) ID() devices.ID {
	return devices.NewID(0xfffe, 0x0001)
}

// Memory returns the cpu's internal memory bank.
func (c *CPU) Memory() Memory {
	return c.memory
}

// Connect connects the given hardware peripheral to the system.
// Returns false if the given device type is already connected.
func (c *CPU) Connect(dev devices.Device) bool {
	return c.devices.Connect(dev)
}

// SetQuirks selects instruction variants.
func (c *CPU) SetQuirks(q Quirks) {
	c.quirks = q
}

// SetRand replaces the random source used by RND.
func (c *CPU) SetRand(r Rand) {
	c.rng = r
}

// Startup resets the machine and initializes connected peripherals.
// Returns an error if the cpu is already running. Use Shutdown() first.
func (c *CPU) Startup() error {
	if !atomic.CompareAndSwapUint32(&c.initialized, 0, 1) {
		return errors.New(c.ID().String() + " cpu is already started")
	}

	log.Println(c.ID(), "startup")
	c.Reset()
	return c.devices.Startup()
}

// Shutdown cleans up internal resources.
func (c *CPU) Shutdown() error {
	if !atomic.CompareAndSwapUint32(&c.initialized, 1, 0) {
		return nil
	}
	log.Println(c.ID(), "shutdown")
	return c.devices.Shutdown()
}

// Update lets every connected device exchange state with the machine.
func (c *CPU) Update() {
	c.devices.Update(c)
}

// Reset clears all machine state, installs the font glyphs and points the
// program counter at the program entry point. Connected devices are not
// affected.
func (c *CPU) Reset() {
	c.memory.clear()
	copy(c.memory[arch.FontAddress:], Font[:])

	c.v = [arch.RegisterCount]byte{}
	c.stack = [arch.StackDepth]uint16{}
	c.keys = [arch.KeyCount]bool{}
	c.display = [arch.DisplayWidth * arch.DisplayHeight]byte{}
	c.instr = Instruction{}
	c.fault = nil
	c.pc = arch.EntryPoint
	c.i = 0
	c.sp = 0
	c.delay = 0
	c.sound = 0
	c.render = false
	c.beep = false
}

// LoadProgram copies the program image to the entry point and points
// the program counter at it. Returns ErrProgramTooLarge if the image
// does not fit; memory is left untouched in that case.
func (c *CPU) LoadProgram(p []byte) error {
	if len(p) > arch.ProgramCapacity {
		return errors.Wrapf(ErrProgramTooLarge, "%d bytes exceeds the available %d bytes", len(p), arch.ProgramCapacity)
	}

	c.memory.Write(arch.EntryPoint, p)
	c.pc = arch.EntryPoint
	return nil
}

// DecrementTimers performs one 60 Hz timer tick. Timers which are
// already zero stay at zero.
func (c *CPU) DecrementTimers() {
	if c.delay > 0 {
		c.delay--
	}
	if c.sound > 0 {
		c.sound--
	}
	c.beep = c.sound > 0
}

// Width returns the display width in pixels.
func (c *CPU) Width() int { return arch.DisplayWidth }

// Height returns the display height in pixels.
func (c *CPU) Height() int { return arch.DisplayHeight }

// Framebuffer returns the display cells in row-major order.
// Each cell is either 0 or 1. The slice aliases machine state and must
// not be modified.
func (c *CPU) Framebuffer() []byte {
	return c.display[:]
}

// Pixel returns true if the pixel at the given coordinate is set.
// Coordinates wrap around the display edges in both directions.
func (c *CPU) Pixel(x, y int) bool {
	x = wrap(x, arch.DisplayWidth)
	y = wrap(y, arch.DisplayHeight)
	return c.display[y*arch.DisplayWidth+x] == 1
}

// RenderRequested reports whether the framebuffer changed since the last
// call to ClearRenderRequest.
func (c *CPU) RenderRequested() bool { return c.render }

// ClearRenderRequest acknowledges a render request.
func (c *CPU) ClearRenderRequest() { c.render = false }

// BeepRequested reports whether the sound timer is non-zero.
func (c *CPU) BeepRequested() bool { return c.beep }

// Key returns the pressed state of the given hex key.
func (c *CPU) Key(key int) bool {
	return c.keys[key&0xf]
}

// SetKey sets the pressed state of the given hex key.
func (c *CPU) SetKey(key int, pressed bool) {
	c.keys[key&0xf] = pressed
}

// PC returns the program counter.
func (c *CPU) PC() int { return int(c.pc) }

// I returns the index register.
func (c *CPU) I() int { return int(c.i) }

// SP returns the number of occupied call stack slots.
func (c *CPU) SP() int { return c.sp }

// V returns the value of data register n.
func (c *CPU) V(n int) int { return int(c.v[n&0xf]) }

// DelayTimer returns the delay timer value.
func (c *CPU) DelayTimer() int { return int(c.delay) }

// SoundTimer returns the sound timer value.
func (c *CPU) SoundTimer() int { return int(c.sound) }

// Step performs a single fetch-decode-execute cycle.
//
// It returns io.EOF if the cpu has not been started. Any other error is
// a *Error describing a fault. Faults do not stop the machine:
//
//   - ErrUnknownOpcode: the word is skipped.
//   - ErrStackOverflow: the call is skipped.
//   - ErrStackUnderflow: the return is skipped.
//   - ErrMemoryOutOfBounds: the address wrapped around the 4KB space.
//
// Only the first fault of a cycle is returned.
func (c *CPU) Step() error {
	if atomic.LoadUint32(&c.initialized) == 0 {
		return io.EOF
	}

	c.fault = nil
	instr := &c.instr

	if !instr.Decode(c.memory, int(c.pc)) {
		c.report(ErrMemoryOutOfBounds, "instruction fetch at %#04x", c.pc)
		c.pc &= arch.AddressMask
	}

	c.trace(instr)
	c.pc += arch.InstructionSize
	c.execute(instr)
	return c.fault
}

// report records a fault for the current cycle.
func (c *CPU) report(err error, f string, argv ...interface{}) {
	if c.fault == nil {
		c.fault = NewError(&c.instr, err, f, argv...)
	}
}

// addr folds the given address into memory, reporting a fault if it had to.
func (c *CPU) addr(a int) int {
	if !InBounds(a) {
		c.report(ErrMemoryOutOfBounds, "access at %#04x", a)
	}
	return a & arch.AddressMask
}
