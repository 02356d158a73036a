/*
Package rom describes where the boot logo lives inside a Kickstart ROM image
and provides in-place access to those regions.

The logo is made of a 4 color palette, a stream of vector drawing
instructions and a stream of 1-bit bitmap blocks. Each region occupies a fixed
byte range in the ROM and the ROM carries a checksum word that must be
repaired after any of the regions are patched.
*/
package rom

import "image"

// Region is a fixed byte range inside a ROM image.
type Region struct {
	Offset   int
	Capacity int
}

// End returns the offset of the first byte after the region.
func (r Region) End() int {
	return r.Offset + r.Capacity
}

// Layout is the offset table for a particular ROM release.
type Layout struct {
	Name string

	// Size is the exact size of the ROM image in bytes
	Size int

	Palette Region
	Vectors Region
	Bitmaps Region

	// Checksum is the offset of the checksum word measured back from
	// the end of the image
	Checksum int

	// Origin is where stream coordinate (0, 0) is drawn on the boot
	// screen
	Origin image.Point

	// Screen is the size of the boot screen
	Screen image.Point
}

// ChecksumOffset returns the absolute offset of the checksum word.
func (l Layout) ChecksumOffset() int {
	return l.Size - l.Checksum
}

const (
	// MaxX is the largest addressable stream x coordinate. Values of
	// 0xfe and 0xff are reserved for instruction headers.
	MaxX = 253

	// MaxY is the largest addressable stream y coordinate.
	MaxY = 255
)

// Kickstart13 is the layout of the Kickstart 1.3 (34.5) 256 KiB ROM.
var Kickstart13 = Layout{
	Name:     "Kickstart 1.3 (34.5)",
	Size:     0x40000,
	Palette:  Region{0x2872a, 8},
	Vectors:  Region{0x289d0, 412},
	Bitmaps:  Region{0x28b6c, 310},
	Checksum: 24,
	Origin:   image.Pt(70, 40),
	Screen:   image.Pt(320, 200),
}

// Project converts a point on the boot screen into stream coordinates,
// clamping it into the addressable window.
func (l Layout) Project(p image.Point) image.Point {
	return image.Pt(clamp(p.X-l.Origin.X, 0, MaxX), clamp(p.Y-l.Origin.Y, 0, MaxY))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
