package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices"
)

// upperHalf draws the top pixel of a cell in the foreground color
// and the bottom pixel in the background color.
const upperHalf = '▀'

// screen is the terminal display device. Every terminal cell shows two
// vertically stacked pixels, so the display needs 64x16 cells.
type screen struct {
	pixels [arch.DisplayWidth * arch.DisplayHeight]byte
	on     tcell.Color
	off    tcell.Color
}

var _ devices.Device = &screen{}

func newScreen() *screen {
	return &screen{
		on:  tcell.ColorLightGreen,
		off: tcell.ColorBlack,
	}
}

func (s *screen) ID() devices.ID {
	return devices.NewID(0xfffe, 0x0012)
}

func (s *screen) Startup() error {
	s.pixels = [arch.DisplayWidth * arch.DisplayHeight]byte{}
	return nil
}

func (s *screen) Shutdown() error {
	return nil
}

// Update copies the framebuffer if the machine requested a render.
func (s *screen) Update(m devices.Machine) {
	if !m.RenderRequested() {
		return
	}

	copy(s.pixels[:], m.Framebuffer())
	m.ClearRenderRequest()
}

// Clear blanks the display until the next render request.
func (s *screen) Clear() {
	s.pixels = [arch.DisplayWidth * arch.DisplayHeight]byte{}
}

// cell returns whether the top and bottom pixel of the given terminal cell are lit.
func (s *screen) cell(col, row int) (top, bottom bool) {
	i := row*2*arch.DisplayWidth + col
	return s.pixels[i] != 0, s.pixels[i+arch.DisplayWidth] != 0
}

// Draw implements the tview.Box draw func. It is handed the outer
// rectangle of a bordered box and renders the display inside the border,
// clipped to the inner rectangle, which it returns.
func (s *screen) Draw(ts tcell.Screen, x, y, width, height int) (int, int, int, int) {
	x, y = x+1, y+1
	width, height = max(width-2, 0), max(height-2, 0)

	cols := min(width, arch.DisplayWidth)
	rows := min(height, arch.DisplayHeight/2)

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top, bottom := s.cell(col, row)
			style := tcell.StyleDefault.
				Foreground(s.color(top)).
				Background(s.color(bottom))
			ts.SetContent(x+col, y+row, upperHalf, nil, style)
		}
	}

	return x, y, width, height
}

func (s *screen) color(lit bool) tcell.Color {
	if lit {
		return s.on
	}
	return s.off
}
