// Package mdi implements the Monochrome Display Mk I
package mdi

import (
	"image"
	"image/color"

	"github.com/go-gl/gl/v4.2-core/gl"
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices"
)

// Display properties.
const (
	DisplayWidth  = arch.DisplayWidth  // Display width in pixels.
	DisplayHeight = arch.DisplayHeight // Display height in pixels.
)

// Default colors for unlit and lit pixels.
var (
	DefaultBackground = color.RGBA{0x10, 0x18, 0x10, 0xff}
	DefaultForeground = color.RGBA{0x9c, 0xe0, 0x8c, 0xff}
)

// Device defines all internal doodads for the display.
type Device struct {
	palette     [2 * 4]float32                     // Unlit and lit colors as RGBA.
	pixels      [DisplayWidth * DisplayHeight]byte // Texture data: 0x00 or 0xff per pixel.
	shader      uint32
	vao         uint32
	vbo         uint32
	tex         uint32
	dirty       bool
	initialized bool
}

var _ devices.Device = &Device{}

// New creates a new device.
func New() *Device {
	var d Device
	d.SetPalette(DefaultBackground, DefaultForeground)
	return &d
}

// ID returns the device identifier.
func (d *Device) ID() devices.ID {
	return devices.NewID(0xfffe, 0x0002)
}

// SetPalette sets the colors for unlit and lit pixels.
func (d *Device) SetPalette(bg, fg color.Color) {
	setColor(d.palette[0:4], bg)
	setColor(d.palette[4:8], fg)
	d.dirty = true
}

// Startup initializes device resources.
// It requires a current OpenGL 4.2 context.
func (d *Device) Startup() error {
	var err error

	d.shader, err = compileProgram(vertex, fragment)
	if err != nil {
		return errors.Wrapf(err, "failed to compile shaders")
	}

	gl.UseProgram(d.shader)

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	vertAttrib := uint32(gl.GetAttribLocation(d.shader, glStr("vertPos")))
	texCoordAttrib := uint32(gl.GetAttribLocation(d.shader, glStr("vertTexCoord")))

	gl.EnableVertexAttribArray(vertAttrib)
	gl.VertexAttribPointer(vertAttrib, 3, gl.FLOAT, false, 5*4, gl.PtrOffset(0))

	gl.EnableVertexAttribArray(texCoordAttrib)
	gl.VertexAttribPointer(texCoordAttrib, 2, gl.FLOAT, false, 5*4, gl.PtrOffset(3*4))

	d.tex = makeTexture()
	d.dirty = true
	d.initialized = true
	d.upload()
	return nil
}

// Shutdown clears up device resources.
func (d *Device) Shutdown() error {
	if !d.initialized {
		return nil
	}

	d.initialized = false
	gl.DeleteTextures(1, &d.tex)
	gl.DeleteBuffers(1, &d.vbo)
	gl.DeleteVertexArrays(1, &d.vao)
	gl.DeleteProgram(d.shader)
	return nil
}

// Update copies the framebuffer if the machine requested a render.
func (d *Device) Update(m devices.Machine) {
	if !m.RenderRequested() {
		return
	}

	expand(d.pixels[:], m.Framebuffer())
	m.ClearRenderRequest()
	d.dirty = true
}

// Clear blanks the display until the next render request.
func (d *Device) Clear() {
	d.pixels = [DisplayWidth * DisplayHeight]byte{}
	d.dirty = true
}

// Draw renders the display contents.
func (d *Device) Draw() {
	if !d.initialized {
		return
	}

	d.upload()

	gl.UseProgram(d.shader)
	gl.BindVertexArray(d.vao)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, d.tex)

	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

// Image returns the current display contents, with every pixel
// scaled up to a scale x scale block.
func (d *Device) Image(scale int) *image.Paletted {
	if scale < 1 {
		scale = 1
	}

	palette := color.Palette{toColor(d.palette[0:4]), toColor(d.palette[4:8])}
	img := image.NewPaletted(image.Rect(0, 0, DisplayWidth*scale, DisplayHeight*scale), palette)

	for y := 0; y < img.Rect.Dy(); y++ {
		row := img.Pix[y*img.Stride:]
		src := d.pixels[(y/scale)*DisplayWidth:]

		for x := 0; x < img.Rect.Dx(); x++ {
			if src[x/scale] != 0 {
				row[x] = 1
			}
		}
	}

	return img
}

// upload pushes pending palette and pixel changes to the GPU.
func (d *Device) upload() {
	if !d.dirty {
		return
	}

	gl.UseProgram(d.shader)
	palette := gl.GetUniformLocation(d.shader, glStr("palette"))
	gl.Uniform4fv(palette, 2, &d.palette[0])

	uploadTexture(d.tex, gl.RED, DisplayWidth, DisplayHeight, gl.RED, gl.UNSIGNED_BYTE, d.pixels[:])
	d.dirty = false
}

// expand converts framebuffer cells (0 or 1) into texture intensities.
func expand(dst, src []byte) {
	for i, cell := range src {
		if cell != 0 {
			dst[i] = 0xff
		} else {
			dst[i] = 0
		}
	}
}

// setColor stores c in p as normalized RGBA.
func setColor(p []float32, c color.Color) {
	r, g, b, a := c.RGBA()
	p[0] = float32(r) / 0xffff
	p[1] = float32(g) / 0xffff
	p[2] = float32(b) / 0xffff
	p[3] = float32(a) / 0xffff
}

// toColor converts the normalized RGBA color in p back to 8 bits per channel.
func toColor(p []float32) color.RGBA {
	return color.RGBA{
		R: uint8(p[0]*0xff + 0.5),
		G: uint8(p[1]*0xff + 0.5),
		B: uint8(p[2]*0xff + 0.5),
		A: uint8(p[3]*0xff + 0.5),
	}
}

var quadVertices = []float32{
	//  X, Y, Z, U, V
	-1.0, -1.0, 0.0, 0.0, 1.0,
	1.0, -1.0, 0.0, 1.0, 1.0,
	-1.0, 1.0, 0.0, 0.0, 0.0,
	1.0, -1.0, 0.0, 1.0, 1.0,
	1.0, 1.0, 0.0, 1.0, 0.0,
	-1.0, 1.0, 0.0, 0.0, 0.0,
}
