// Package beep implements the single tone buzzer driven by the sound timer.
package beep

import (
	"encoding/binary"
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/devices"
)

// Tone properties.
const (
	SampleRate = 44100 // Output sample rate in Hz.
	Pitch      = 440   // Tone frequency in Hz.
	Volume     = 0.2   // Peak amplitude in [0, 1].
)

// An oto context can only be created once per process.
var (
	contextOnce sync.Once
	context     *oto.Context
	contextErr  error
)

// Device defines all internal doodads for the buzzer.
type Device struct {
	tone   *tone
	player *oto.Player
	muted  bool
}

var _ devices.Device = &Device{}

// New creates a new device. A muted device never opens an audio output.
func New(muted bool) *Device {
	return &Device{
		tone:  newTone(SampleRate, Pitch, Volume),
		muted: muted,
	}
}

// ID returns the device identifier.
func (d *Device) ID() devices.ID {
	return devices.NewID(0xfffe, 0x0004)
}

// Startup opens the audio output and starts streaming the tone.
func (d *Device) Startup() error {
	if d.muted || d.player != nil {
		return nil
	}

	ctx, err := openContext()
	if err != nil {
		return err
	}

	d.player = ctx.NewPlayer(d.tone)
	d.player.Play()
	return nil
}

// Shutdown stops the audio stream.
func (d *Device) Shutdown() error {
	d.tone.on.Store(false)

	if d.player == nil {
		return nil
	}

	err := d.player.Close()
	d.player = nil
	return err
}

// Update turns the tone on while the machine requests a beep.
func (d *Device) Update(m devices.Machine) {
	d.tone.on.Store(m.BeepRequested())
}

// Playing returns true if the tone is currently audible.
func (d *Device) Playing() bool {
	return d.tone.on.Load() && !d.muted
}

func openContext() (*oto.Context, error) {
	contextOnce.Do(func() {
		var ready chan struct{}

		context, ready, contextErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: 1,
			Format:       oto.FormatFloat32LE,
		})
		if contextErr != nil {
			contextErr = errors.Wrapf(contextErr, "failed to open audio output")
			return
		}

		<-ready
		log.Println("audio output ready:", SampleRate, "Hz")
	})

	return context, contextErr
}

// tone is an io.Reader producing mono float32 samples of a square wave.
// Read is called from the audio goroutine; on is the only state shared
// with the machine.
type tone struct {
	on     atomic.Bool
	period int // Samples per wave period.
	phase  int // Position in the current period.
	level  float32
}

func newTone(sampleRate, pitch int, volume float32) *tone {
	return &tone{
		period: sampleRate / pitch,
		level:  volume,
	}
}

func (t *tone) Read(p []byte) (int, error) {
	on := t.on.Load()
	n := len(p) / 4

	for i := 0; i < n; i++ {
		var v float32

		if on {
			v = t.level
			if t.phase >= t.period/2 {
				v = -t.level
			}
		}

		t.phase = (t.phase + 1) % t.period
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}

	return n * 4, nil
}
