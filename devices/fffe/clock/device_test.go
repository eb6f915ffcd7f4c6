package clock

import (
	"testing"
	"time"

	"github.com/hexaflex/chip8/devices"
)

type machine struct {
	devices.Machine
	ticks int
}

func (m *machine) DecrementTimers() { m.ticks++ }

func TestUpdate(t *testing.T) {
	now := time.Unix(1000, 0)

	d := New()
	d.now = func() time.Time { return now }

	if err := d.Startup(); err != nil {
		t.Fatal(err)
	}

	var m machine

	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 0},
		{10 * time.Millisecond, 0},
		{10 * time.Millisecond, 1},
		{time.Second, 61},
		{time.Minute, 121},
	}

	for i, tt := range tests {
		now = now.Add(tt.elapsed)
		d.Update(&m)

		if m.ticks != tt.want {
			t.Fatalf("update %d: want %d ticks; have %d", i, tt.want, m.ticks)
		}
	}

	if d.Ticks() != uint64(m.ticks) {
		t.Fatalf("tick count: want %d; have %d", m.ticks, d.Ticks())
	}
}

func TestPause(t *testing.T) {
	now := time.Unix(1000, 0)

	d := New()
	d.now = func() time.Time { return now }

	if err := d.Startup(); err != nil {
		t.Fatal(err)
	}

	var m machine

	now = now.Add(10 * time.Millisecond)
	d.Update(&m)

	d.Pause(true)
	now = now.Add(time.Second)
	d.Update(&m)

	if m.ticks != 0 {
		t.Fatalf("paused clock delivered %d ticks", m.ticks)
	}

	d.Pause(false)
	now = now.Add(10 * time.Millisecond)
	d.Update(&m)

	if m.ticks != 0 {
		t.Fatalf("time spent paused was delivered: %d ticks", m.ticks)
	}

	now = now.Add(time.Second / 60)
	d.Update(&m)

	if m.ticks != 1 {
		t.Fatalf("want 1 tick after resume; have %d", m.ticks)
	}
}
