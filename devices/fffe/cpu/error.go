package cpu

import (
	"fmt"

	"github.com/pkg/errors"
)

// Known fault conditions.
//
// None of the cycle faults halt the machine. The faulting instruction
// completes as documented on Step and the fault is returned so the host
// can report it.
var (
	ErrProgramTooLarge   = errors.New("program too large")
	ErrUnknownOpcode     = errors.New("unknown opcode")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrMemoryOutOfBounds = errors.New("memory out of bounds")
)

// Error defines a runtime fault raised while executing an instruction.
type Error struct {
	Instruction       // Instruction which raised the fault.
	Err         error // One of the Err* fault conditions.
	Msg         string
}

// NewError creates a new, formatted error message for the given instruction.
func NewError(instr *Instruction, err error, f string, argv ...interface{}) *Error {
	return &Error{
		Instruction: *instr,
		Err:         err,
		Msg:         fmt.Sprintf(f, argv...),
	}
}

func (e *Error) Error() string {
	if len(e.Msg) == 0 {
		return fmt.Sprintf("%03x: %04x: %v", e.IP, e.Word, e.Err)
	}
	return fmt.Sprintf("%03x: %04x: %v: %s", e.IP, e.Word, e.Err, e.Msg)
}

// Unwrap returns the fault condition.
func (e *Error) Unwrap() error { return e.Err }

// Cause returns the fault condition.
func (e *Error) Cause() error { return e.Err }
