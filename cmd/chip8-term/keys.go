package main

import (
	"time"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices"
)

// DefaultHoldTime is how long a key counts as held after the terminal
// last reported it.
const DefaultHoldTime = 150 * time.Millisecond

// keyLatch is the terminal keypad device.
//
// Terminals report key presses and auto-repeats but never releases.
// A key is therefore considered held until no press was seen for the
// hold time.
type keyLatch struct {
	now      func() time.Time
	hold     time.Duration
	deadline [arch.KeyCount]time.Time // Release time per key.
}

var _ devices.Device = &keyLatch{}

func newKeyLatch(hold time.Duration) *keyLatch {
	if hold <= 0 {
		hold = DefaultHoldTime
	}

	return &keyLatch{
		now:  time.Now,
		hold: hold,
	}
}

func (k *keyLatch) ID() devices.ID {
	return devices.NewID(0xfffe, 0x0013)
}

func (k *keyLatch) Startup() error {
	k.deadline = [arch.KeyCount]time.Time{}
	return nil
}

func (k *keyLatch) Shutdown() error {
	return nil
}

// Press records a key press for the given character.
// Returns false if the character is not bound to the keypad.
func (k *keyLatch) Press(r rune) bool {
	key, ok := arch.KeyForRune(r)
	if !ok {
		return false
	}

	k.deadline[key] = k.now().Add(k.hold)
	return true
}

// Update publishes which keys are still held.
func (k *keyLatch) Update(m devices.Machine) {
	now := k.now()

	for key, deadline := range k.deadline {
		m.SetKey(key, now.Before(deadline))
	}
}
