package cpu

import (
	"io"
	"time"

	"github.com/hexaflex/chip8/devices"
)

// DefaultFrequency is the instruction rate most programs are written for.
const DefaultFrequency = 700

// maxCatchUp bounds the time Advance will try to catch up on after a stall.
const maxCatchUp = time.Second / 10

// Controller controls the execution of a CPU at a fixed instruction rate.
type Controller struct {
	cpu        *CPU
	now        func() time.Time
	start      time.Time
	last       time.Time
	period     time.Duration // Time per instruction.
	debt       time.Duration // Time not yet paid for by executed instructions.
	cycleCount uint64
	faults     uint64
	running    bool
}

// NewController creates a new controller which runs c at the given
// number of instructions per second.
func NewController(c *CPU, frequency int) *Controller {
	if frequency <= 0 {
		frequency = DefaultFrequency
	}

	return &Controller{
		cpu:    c,
		now:    time.Now,
		period: time.Second / time.Duration(frequency),
	}
}

// CPU returns the controlled cpu.
func (c *Controller) CPU() *CPU {
	return c.cpu
}

// Running returns true if the CPU is currently running.
func (c *Controller) Running() bool {
	return c.running
}

// Frequency returns the measured clock frequency in herz.
func (c *Controller) Frequency() float64 {
	if !c.running {
		return 0
	}

	elapsed := c.now().Sub(c.start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(c.cycleCount) / elapsed
}

// Faults returns the number of faults reported since the controller was created.
func (c *Controller) Faults() uint64 {
	return c.faults
}

// ToggleRun starts or stops program execution.
func (c *Controller) ToggleRun() {
	c.setRunning(!c.running)
}

// Start begins execution of the program.
func (c *Controller) Start() {
	c.setRunning(true)
}

// Stop pauses execution of the program.
func (c *Controller) Stop() {
	c.setRunning(false)
}

// Step performs a single execution step, regardless of whether the
// controller is running. Faults are counted and returned. If the cpu
// is not started, execution is stopped.
func (c *Controller) Step() error {
	c.cycleCount++

	err := c.cpu.Step()
	if err == io.EOF {
		c.setRunning(false)
		return nil
	}

	if err != nil {
		c.faults++
	}
	return err
}

// Advance executes as many instructions as are due since the previous
// call. Faults do not stop execution; they are collected and returned
// as a devices.ErrorSet.
func (c *Controller) Advance() error {
	now := c.now()
	elapsed := now.Sub(c.last)
	c.last = now

	if !c.running {
		return nil
	}

	c.debt += elapsed
	if c.debt > maxCatchUp {
		c.debt = maxCatchUp
	}

	var errorset devices.ErrorSet

	for c.running && c.debt >= c.period {
		c.debt -= c.period
		if err := c.Step(); err != nil {
			errorset.Append(err)
		}
	}

	if errorset.Len() == 0 {
		return nil
	}

	return errorset
}

// setRunning determines of the CPU is running or is paused.
func (c *Controller) setRunning(v bool) {
	c.running = v
	c.start = c.now()
	c.last = c.start
	c.debt = 0
	c.cycleCount = 0
}
