package devices

// Machine defines the interpreter state a device may observe or drive.
type Machine interface {
	// Framebuffer returns the display cells in row-major order.
	// Each cell is 0 (off) or 1 (on). Devices must not modify it.
	Framebuffer() []byte

	// RenderRequested reports whether the framebuffer changed since
	// the last call to ClearRenderRequest.
	RenderRequested() bool
	ClearRenderRequest()

	// BeepRequested reports whether the sound timer is running.
	BeepRequested() bool

	// SetKey sets the pressed state of the given hex key.
	SetKey(key int, pressed bool)

	// DecrementTimers performs one 60 Hz timer tick.
	DecrementTimers()
}
