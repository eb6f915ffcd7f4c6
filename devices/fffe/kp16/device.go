// Package kp16 implements the 16-key hexadecimal keypad.
//
// Keys are fed from the host keyboard through HandleKey and, when one
// is connected, from a gamepad. The device publishes the combined state
// to the machine on every update.
package kp16

import (
	"log"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices"
)

// buttons maps gamepad buttons onto the hex keys most programs use for
// movement (2/4/6/8) and action (5).
var buttons = map[glfw.GamepadButton]int{
	glfw.ButtonDpadUp:      0x2,
	glfw.ButtonDpadLeft:    0x4,
	glfw.ButtonDpadRight:   0x6,
	glfw.ButtonDpadDown:    0x8,
	glfw.ButtonA:           0x5,
	glfw.ButtonB:           0x0,
	glfw.ButtonX:           0xa,
	glfw.ButtonY:           0xb,
	glfw.ButtonLeftBumper:  0x1,
	glfw.ButtonRightBumper: 0x3,
	glfw.ButtonBack:        0xc,
	glfw.ButtonStart:       0xf,
}

// Device defines all internal doodads for the keypad.
type Device struct {
	joy         glfw.Joystick
	keyboard    [arch.KeyCount]bool // Keys held on the keyboard.
	gamepad     [arch.KeyCount]bool // Keys held on the gamepad.
	initialized bool                // Is a gamepad connected?
	polling     bool                // Are joystick callbacks installed?
}

var _ devices.Device = &Device{}

// New creates a new device.
func New() *Device {
	return &Device{}
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(0xfffe, 0x0003)
}

// Startup initializes device resources.
// It detects any connected gamepad. The glfw library must be initialized
// before a gamepad can be used; without it only keyboard input is read.
func (d *Device) Startup() error {
	d.keyboard = [arch.KeyCount]bool{}
	d.gamepad = [arch.KeyCount]bool{}
	return nil
}

// Shutdown clears up device resources.
func (d *Device) Shutdown() error {
	if d.polling {
		glfw.SetJoystickCallback(nil)
		d.polling = false
	}
	d.initialized = false
	return nil
}

// DetectGamepad installs the joystick callbacks and picks up any gamepad
// which is already connected. It must be called from the main thread
// after glfw has been initialized.
func (d *Device) DetectGamepad() {
	glfw.SetJoystickCallback(d.configure)
	d.polling = true

	for joy := glfw.Joystick1; joy <= glfw.JoystickLast; joy++ {
		if joy.Present() && joy.IsGamepad() {
			d.configure(joy, glfw.Connected)
			break
		}
	}
}

// HandleKey records a keyboard event. Returns false if the key is not
// bound to the keypad.
func (d *Device) HandleKey(key glfw.Key, action glfw.Action) bool {
	if key < glfw.Key0 || key > glfw.KeyZ {
		return false
	}

	hex, ok := arch.KeyForRune(rune(key))
	if !ok {
		return false
	}

	switch action {
	case glfw.Press, glfw.Repeat:
		d.keyboard[hex] = true
	case glfw.Release:
		d.keyboard[hex] = false
	}
	return true
}

// Update polls the gamepad and publishes the keypad state.
func (d *Device) Update(m devices.Machine) {
	if d.initialized {
		d.poll()
	}

	for key := range d.keyboard {
		m.SetKey(key, d.keyboard[key] || d.gamepad[key])
	}
}

// poll reads the gamepad buttons.
func (d *Device) poll() {
	state := d.joy.GetGamepadState()
	if state == nil {
		return
	}

	d.gamepad = [arch.KeyCount]bool{}
	for btn, key := range buttons {
		if state.Buttons[btn] == glfw.Press {
			d.gamepad[key] = true
		}
	}
}

// configure is called whenever a joystick is connected or disconnected from the system.
func (d *Device) configure(joy glfw.Joystick, event glfw.PeripheralEvent) {
	d.initialized = event == glfw.Connected && joy.IsGamepad()
	d.joy = joy
	d.gamepad = [arch.KeyCount]bool{}

	if d.initialized {
		log.Println(d.ID(), "gamepad connected:", joy.GetGamepadName())
	} else {
		log.Println(d.ID(), "gamepad disconnected")
	}
}
