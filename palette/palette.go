/*
Package palette implements the 4 color boot logo palette and the reduction of
arbitrary artwork down to it.

Each color is stored as a packed 16-bit big-endian word 0000RRRRGGGGBBBB. Only
the upper nibble of each 8-bit channel survives, so decoded colors have the
nibble replicated into both halves of the byte. Index 0 is the screen
background and is treated as transparent.
*/
package palette

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"strings"
)

const (
	// Colors is the number of palette entries.
	Colors = 4

	// Size is the encoded size of a palette in bytes.
	Size = Colors * 2

	opaque = 254
)

// ErrBadLength is returned when decoding a palette that is not Size bytes.
var ErrBadLength = errors.New("palette: incorrect length")

// Palette is the 4 color boot logo palette. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type Palette [Colors]color.NRGBA

func upperNibble(b uint8) uint8 {
	return b & 0xf0
}

func lowerNibble(b uint8) uint8 {
	return b & 0x0f
}

func replicate(n uint8) uint8 {
	return n<<4 | n
}

func alpha(i int) uint8 {
	if i == 0 {
		return 0
	}
	return opaque
}

// Entry returns c as it would be stored in palette slot i; each channel is
// reduced to its upper nibble and the alpha follows the slot.
func Entry(i int, c color.Color) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return color.NRGBA{
		R: replicate(n.R >> 4),
		G: replicate(n.G >> 4),
		B: replicate(n.B >> 4),
		A: alpha(i),
	}
}

// New returns a palette built from up to Colors colors. Missing entries are
// black.
func New(colors ...color.Color) Palette {
	var p Palette
	for i := range p {
		var c color.Color = color.Black
		if i < len(colors) {
			c = colors[i]
		}
		p[i] = Entry(i, c)
	}
	return p
}

// MarshalBinary encodes the palette into binary form and returns the result.
func (p Palette) MarshalBinary() ([]byte, error) {
	b := make([]byte, Size)
	for i, c := range p {
		binary.BigEndian.PutUint16(b[i*2:], uint16(c.R>>4)<<8|uint16(c.G>>4)<<4|uint16(c.B>>4))
	}
	return b, nil
}

// UnmarshalBinary decodes the palette from binary form.
func (p *Palette) UnmarshalBinary(b []byte) error {
	if len(b) != Size {
		return ErrBadLength
	}
	for i := range p {
		p[i] = color.NRGBA{
			R: replicate(lowerNibble(b[i*2])),
			G: replicate(upperNibble(b[i*2+1]) >> 4),
			B: replicate(lowerNibble(b[i*2+1])),
			A: alpha(i),
		}
	}
	return nil
}

// Decode is a convenience wrapper around UnmarshalBinary.
func Decode(b []byte) (Palette, error) {
	var p Palette
	err := p.UnmarshalBinary(b)
	return p, err
}

// Color returns the palette as a color.Palette suitable for image.Paletted.
func (p Palette) Color() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = c
	}
	return cp
}

// Hex returns entry i as a #rrggbb string.
func (p Palette) Hex(i int) string {
	return Hex(p[i])
}

func (p Palette) String() string {
	s := make([]string, len(p))
	for i := range p {
		s[i] = p.Hex(i)
	}
	return strings.Join(s, " ")
}

// Hex formats c as a #rrggbb string.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Opaque returns the palette as a color.Palette with every entry fully
// opaque, as the colors appear on screen.
func (p Palette) Opaque() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		c.A = 0xff
		cp[i] = c
	}
	return cp
}
