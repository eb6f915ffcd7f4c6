// Package clock implements the 60 Hz delay and sound timer clock.
package clock

import (
	"time"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices"
)

// maxTicks bounds the number of ticks delivered by a single update
// after a stall. A second worth of ticks drains any timer.
const maxTicks = arch.TimerFrequency

// Device drives the machine timers at a fixed rate,
// independent of the instruction rate.
type Device struct {
	now    func() time.Time // Time source.
	last   time.Time        // Time of the previous update.
	period time.Duration    // Time per tick.
	debt   time.Duration    // Time not yet paid for by delivered ticks.
	ticks  uint64           // Ticks delivered since startup.
	paused bool             // Timers are frozen while set.
}

var _ devices.Device = &Device{}

// New creates a new clock ticking at arch.TimerFrequency.
func New() *Device {
	return &Device{
		now:    time.Now,
		period: time.Second / arch.TimerFrequency,
	}
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(0xfffe, 0x0005)
}

func (d *Device) Startup() error {
	d.last = d.now()
	d.debt = 0
	d.ticks = 0
	return nil
}

func (d *Device) Shutdown() error {
	return nil
}

// Ticks returns the number of timer ticks delivered since startup.
func (d *Device) Ticks() uint64 {
	return d.ticks
}

// Pause freezes or resumes the timers. Time spent paused is never
// delivered as ticks.
func (d *Device) Pause(paused bool) {
	d.paused = paused
}

// Paused returns true if the timers are frozen.
func (d *Device) Paused() bool {
	return d.paused
}

// Update decrements the machine timers once for every tick which
// came due since the previous update.
func (d *Device) Update(m devices.Machine) {
	now := d.now()
	d.debt += now.Sub(d.last)
	d.last = now

	if d.paused {
		d.debt = 0
		return
	}

	if limit := maxTicks * d.period; d.debt > limit {
		d.debt = limit
	}

	for d.debt >= d.period {
		d.debt -= d.period
		d.ticks++
		m.DecrementTimers()
	}
}
