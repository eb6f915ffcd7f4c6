package beep

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/hexaflex/chip8/devices"
)

type machine struct {
	devices.Machine
	beep bool
}

func (m *machine) BeepRequested() bool { return m.beep }

func samples(t *testing.T, src *tone, n int) []float32 {
	t.Helper()

	p := make([]byte, n*4)
	if read, err := src.Read(p); err != nil || read != len(p) {
		t.Fatalf("Read: %d, %v", read, err)
	}

	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
	}
	return out
}

func TestToneSilent(t *testing.T) {
	for i, v := range samples(t, newTone(8000, 1000, 0.5), 64) {
		if v != 0 {
			t.Fatalf("sample %d: want silence; have %f", i, v)
		}
	}
}

func TestToneSquareWave(t *testing.T) {
	src := newTone(8000, 1000, 0.5)
	src.on.Store(true)

	want := []float32{0.5, 0.5, 0.5, 0.5, -0.5, -0.5, -0.5, -0.5}
	have := samples(t, src, 16)

	for i, v := range have {
		if v != want[i%len(want)] {
			t.Fatalf("sample %d: want %f; have %f", i, want[i%len(want)], v)
		}
	}
}

func TestUpdate(t *testing.T) {
	d := New(true)
	if err := d.Startup(); err != nil {
		t.Fatal(err)
	}

	m := machine{beep: true}
	d.Update(&m)
	if !d.tone.on.Load() {
		t.Fatalf("tone not switched on")
	}
	if d.Playing() {
		t.Fatalf("muted device reports playing")
	}

	m.beep = false
	d.Update(&m)
	if d.tone.on.Load() {
		t.Fatalf("tone not switched off")
	}

	if err := d.Shutdown(); err != nil {
		t.Fatal(err)
	}
}
