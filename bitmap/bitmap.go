/*
Package bitmap implements the boot logo bitmap block stream.

Each block is a 6 byte header followed by a single bit plane:

	int16  palette index, big-endian; negative ends the stream
	uint8  width in 16 pixel words
	uint8  height in rows
	uint8  x offset
	uint8  y offset

The plane is width*height big-endian 16-bit words, row by row. The most
significant bit of each word is the leftmost pixel. A set bit paints the
pixel with the block's palette index, a clear bit leaves it transparent.
*/
package bitmap

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
)

const (
	headerSize    = 6
	pixelsPerWord = 16
)

var (
	// ErrNotImplemented is returned when artwork contains embedded
	// images that would need converting back into blocks.
	ErrNotImplemented = errors.New("bitmap: converting images into blocks is not implemented")

	errNotEnough = errors.New("bitmap: not enough block data")
	errBadBlock  = errors.New("bitmap: invalid block")
)

var terminator = []byte{0xff, 0xff}

// Block is a single bit plane painted in one palette color.
type Block struct {
	Color  int16
	Width  uint8 // in words of 16 pixels
	Height uint8
	X, Y   uint8
	Words  []uint16
}

// Size returns the encoded size of the block in bytes.
func (b Block) Size() int {
	return headerSize + 2*len(b.Words)
}

// Bounds returns the pixel rectangle covered by the block.
func (b Block) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(b.Width)*pixelsPerWord, int(b.Height)).Add(image.Pt(int(b.X), int(b.Y)))
}

// Set reports whether the pixel at (x, y), relative to the top left corner
// of the block, is painted.
func (b Block) Set(x, y int) bool {
	w := b.Words[y*int(b.Width)+x/pixelsPerWord]
	return w&(0x8000>>uint(x%pixelsPerWord)) != 0
}

// Image returns the block as a paletted image positioned at the block's
// offset. Painted pixels take the block color, wrapped to the size of p,
// everything else index 0.
func (b Block) Image(p color.Palette) *image.Paletted {
	r := b.Bounds()
	m := image.NewPaletted(r, p)
	idx := uint8(b.Color)
	if len(p) > 0 {
		idx = uint8(int(b.Color) % len(p))
	}
	for y := 0; y < int(b.Height); y++ {
		for x := 0; x < int(b.Width)*pixelsPerWord; x++ {
			if b.Set(x, y) {
				m.SetColorIndex(r.Min.X+x, r.Min.Y+y, idx)
			}
		}
	}
	return m
}

// Decode parses a block stream. Parsing stops at the first negative palette
// index or when the data runs out on a block boundary.
func Decode(data []byte) ([]Block, error) {
	var blocks []Block

	for i := 0; i+2 <= len(data); {
		idx := int16(binary.BigEndian.Uint16(data[i:]))
		if idx < 0 {
			break
		}
		if i+headerSize > len(data) {
			return nil, errNotEnough
		}

		b := Block{
			Color:  idx,
			Width:  data[i+2],
			Height: data[i+3],
			X:      data[i+4],
			Y:      data[i+5],
		}
		i += headerSize

		n := int(b.Width) * int(b.Height)
		if i+n*2 > len(data) {
			return nil, errNotEnough
		}
		b.Words = make([]uint16, n)
		for j := range b.Words {
			b.Words[j] = binary.BigEndian.Uint16(data[i+j*2:])
		}
		i += n * 2

		blocks = append(blocks, b)
	}

	return blocks, nil
}

// Encode serializes blocks followed by a two byte terminator.
func Encode(blocks []Block) ([]byte, error) {
	var out []byte
	for _, b := range blocks {
		if b.Color < 0 || len(b.Words) != int(b.Width)*int(b.Height) {
			return nil, errBadBlock
		}
		var hdr [headerSize]byte
		binary.BigEndian.PutUint16(hdr[:], uint16(b.Color))
		hdr[2], hdr[3], hdr[4], hdr[5] = b.Width, b.Height, b.X, b.Y
		out = append(out, hdr[:]...)
		for _, w := range b.Words {
			out = append(out, byte(w>>8), byte(w))
		}
	}
	return append(out, terminator...), nil
}
