package main

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// These define pixel dimensions for a single sprite.
const (
	SpriteWidth     = 8  // Sprites are always one byte wide.
	MaxSpriteHeight = 15 // Largest N a DRW instruction accepts.
)

func main() {
	config := parseArgs()
	img := loadImage(config)
	sprites := slice(img, config.Height, config.Invert)

	out, close := makeWriter(config)
	defer close()

	var err error
	if config.Binary {
		err = writeBinary(out, sprites)
	} else {
		err = writeText(out, sprites, config.Height)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// slice cuts the image into 8 pixel wide sprites of the given height,
// left to right, then top to bottom. Every row of a sprite is one byte
// with the leftmost pixel in the most significant bit.
func slice(img image.Image, height int, invert bool) [][]byte {
	r := img.Bounds()
	w := r.Dx() / SpriteWidth
	h := r.Dy() / height

	sprites := make([][]byte, 0, w*h)

	for y := 0; y < h; y++ {
		sy := r.Min.Y + y*height

		for x := 0; x < w; x++ {
			sx := r.Min.X + x*SpriteWidth
			sprite := make([]byte, height)

			for py := 0; py < height; py++ {
				for px := 0; px < SpriteWidth; px++ {
					if lit(img.At(sx+px, sy+py)) != invert {
						sprite[py] |= 0x80 >> px
					}
				}
			}

			sprites = append(sprites, sprite)
		}
	}

	return sprites
}

// lit returns true if the given color counts as a set pixel:
// opaque and brighter than mid grey.
func lit(c color.Color) bool {
	_, _, _, a := c.RGBA()
	if a < 0x8000 {
		return false
	}

	g := color.Gray16Model.Convert(c).(color.Gray16)
	return g.Y >= 0x8000
}

// writeText writes the sprites as data declarations, one sprite per line,
// with the pixel rows as comments.
func writeText(w io.Writer, sprites [][]byte, height int) error {
	fmt.Fprintf(w, "; %d sprites, %d x %d pixels, %d bytes each\n", len(sprites), SpriteWidth, height, height)

	for n, sprite := range sprites {
		fmt.Fprintf(w, "\n; sprite %d\n", n)

		for _, row := range sprite {
			pixels := strings.NewReplacer("0", ".", "1", "#").Replace(fmt.Sprintf("%08b", row))
			if _, err := fmt.Fprintf(w, "DB %#02x ; %s\n", row, pixels); err != nil {
				return err
			}
		}
	}

	return nil
}

// writeBinary writes the raw sprite bytes, suitable for appending to a program.
func writeBinary(w io.Writer, sprites [][]byte) error {
	for _, sprite := range sprites {
		if _, err := w.Write(sprite); err != nil {
			return err
		}
	}
	return nil
}

// loadImage loads an image from the input file.
func loadImage(c *Config) image.Image {
	fd, err := os.Open(c.Input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	defer fd.Close()

	img, _, err := image.Decode(fd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	r := img.Bounds()
	if r.Dx() < SpriteWidth || r.Dy() < c.Height {
		fmt.Fprintf(os.Stderr, "source image is too small; expected at least %d x %d pixels\n", SpriteWidth, c.Height)
		os.Exit(1)
	}

	return img
}

// makeWriter creates an output writer and a cleanup function for it.
func makeWriter(c *Config) (io.Writer, func()) {
	if c.Output == "" {
		return os.Stdout, func() {}
	}

	if dir, _ := filepath.Split(c.Output); dir != "" {
		if err := os.MkdirAll(dir, 0744); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	fd, err := os.Create(c.Output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	return fd, func() { fd.Close() }
}
