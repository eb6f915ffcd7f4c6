package mdi

import (
	"image/color"
	"testing"

	"github.com/hexaflex/chip8/devices"
)

type machine struct {
	devices.Machine
	fb     [DisplayWidth * DisplayHeight]byte
	render bool
}

func (m *machine) Framebuffer() []byte   { return m.fb[:] }
func (m *machine) RenderRequested() bool { return m.render }
func (m *machine) ClearRenderRequest()   { m.render = false }

func TestUpdate(t *testing.T) {
	d := New()

	var m machine
	m.fb[0] = 1
	m.fb[DisplayWidth*DisplayHeight-1] = 1

	d.Update(&m)
	if d.pixels[0] != 0 {
		t.Fatalf("framebuffer copied without a render request")
	}

	m.render = true
	d.Update(&m)

	if m.render {
		t.Fatalf("render request not acknowledged")
	}
	if d.pixels[0] != 0xff || d.pixels[1] != 0 || d.pixels[len(d.pixels)-1] != 0xff {
		t.Fatalf("framebuffer not expanded")
	}
}

func TestImage(t *testing.T) {
	bg := color.RGBA{0, 0, 0, 0xff}
	fg := color.RGBA{0xff, 0x80, 0x00, 0xff}

	d := New()
	d.SetPalette(bg, fg)
	d.pixels[1*DisplayWidth+2] = 0xff

	img := d.Image(3)

	if b := img.Bounds(); b.Dx() != DisplayWidth*3 || b.Dy() != DisplayHeight*3 {
		t.Fatalf("unexpected image size %v", b)
	}

	for y := 0; y < 6; y++ {
		for x := 0; x < 9; x++ {
			want := color.Color(bg)
			if x >= 6 && y >= 3 {
				want = fg
			}
			if have := img.At(x, y); have != want {
				t.Fatalf("pixel (%d, %d): want %v; have %v", x, y, want, have)
			}
		}
	}
}
