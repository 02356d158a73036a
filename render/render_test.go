package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/kickart/bitmap"
	"github.com/bodgit/kickart/palette"
	"github.com/bodgit/kickart/rom"
	"github.com/bodgit/kickart/vector"
	"github.com/stretchr/testify/assert"
)

var testPalette, _ = palette.Decode([]byte{0x0f, 0xff, 0x00, 0x00, 0x07, 0x7c, 0x0b, 0xbb})

func TestVectors(t *testing.T) {
	ops := []vector.Op{
		vector.NewStroke(1, vector.Pt(0, 0), vector.Pt(10, 0), vector.Pt(10, 10), vector.Pt(0, 10), vector.Pt(0, 0)),
		vector.NewFill(2, vector.Pt(5, 5)),
	}

	c := Render(rom.Kickstart13, testPalette, ops, nil)
	assert.Equal(t, image.Rect(0, 0, 320, 200), c.Bounds())

	// Outline
	assert.Equal(t, testPalette[1], c.Pixel(70, 40))
	assert.Equal(t, testPalette[1], c.Pixel(80, 50))
	// Interior
	assert.Equal(t, testPalette[2], c.Pixel(75, 45))
	assert.Equal(t, testPalette[2], c.Pixel(71, 41))
	// Outside
	assert.Equal(t, testPalette[0], c.Pixel(69, 40))
	assert.Equal(t, testPalette[0], c.Pixel(0, 0))
}

func TestSinglePointStroke(t *testing.T) {
	c := Render(rom.Kickstart13, testPalette, []vector.Op{vector.NewStroke(1, vector.Pt(3, 3))}, nil)
	assert.Equal(t, testPalette[0], c.Pixel(73, 43))
}

func TestBitmaps(t *testing.T) {
	blocks := []bitmap.Block{
		{Color: 3, Width: 1, Height: 1, X: 2, Y: 1, Words: []uint16{0xa000}},
	}
	ops := []vector.Op{
		vector.NewStroke(1, vector.Pt(0, 1), vector.Pt(20, 1)),
	}

	c := Render(rom.Kickstart13, testPalette, ops, blocks)
	assert.Equal(t, testPalette[3], c.Pixel(72, 41))
	// Clear bits are transparent
	assert.Equal(t, testPalette[1], c.Pixel(73, 41))
	assert.Equal(t, testPalette[3], c.Pixel(74, 41))
}

func TestBackgroundStroke(t *testing.T) {
	ops := []vector.Op{
		vector.NewStroke(0, vector.Pt(15, 15), vector.Pt(25, 15), vector.Pt(25, 25), vector.Pt(15, 25), vector.Pt(15, 15)),
		vector.NewFill(1, vector.Pt(20, 20)),
	}

	c := Render(rom.Kickstart13, testPalette, ops, nil)
	assert.Equal(t, testPalette[0], color.NRGBA{0xff, 0xff, 0xff, 0x00})
	// The index 0 outline is background so the fill runs through it
	assert.Equal(t, testPalette[1], c.Pixel(90, 60))
	assert.Equal(t, testPalette[1], c.Pixel(85, 55))
	assert.Equal(t, testPalette[1], c.Pixel(0, 0))
}
