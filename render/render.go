/*
Package render replays decoded boot logo data onto a raster canvas the way the
Kickstart draws it: vector operations first, then bitmap blocks on top.
*/
package render

import (
	"image"
	"image/color"

	"github.com/bodgit/kickart/bitmap"
	"github.com/bodgit/kickart/palette"
	"github.com/bodgit/kickart/raster"
	"github.com/bodgit/kickart/rom"
	"github.com/bodgit/kickart/vector"
)

func entry(p palette.Palette, idx int) color.NRGBA {
	return p[idx%palette.Colors]
}

// Point converts a stream coordinate to a canvas coordinate.
func Point(pt vector.Point, origin image.Point) image.Point {
	return image.Pt(int(pt.X), int(pt.Y)).Add(origin)
}

// Points converts stream coordinates to canvas coordinates.
func Points(pts []vector.Point, origin image.Point) []image.Point {
	out := make([]image.Point, len(pts))
	for i, pt := range pts {
		out[i] = Point(pt, origin)
	}
	return out
}

// Vectors draws ops onto c with stream coordinate (0, 0) at origin.
func Vectors(c *raster.Canvas, ops []vector.Op, p palette.Palette, origin image.Point) {
	for _, o := range ops {
		col := entry(p, int(o.Color))
		switch o.Mode {
		case vector.Stroke:
			c.Polyline(Points(o.Points, origin), col)
		case vector.Fill:
			for _, pt := range o.Points {
				c.FloodFill(Point(pt, origin), col)
			}
		}
	}
}

// Bitmaps paints the set pixels of each block onto c, offset by origin.
func Bitmaps(c *raster.Canvas, blocks []bitmap.Block, p palette.Palette, origin image.Point) {
	for _, b := range blocks {
		col := entry(p, int(b.Color))
		r := b.Bounds().Add(origin)
		for y := 0; y < r.Dy(); y++ {
			for x := 0; x < r.Dx(); x++ {
				if b.Set(x, y) {
					c.Put(r.Min.X+x, r.Min.Y+y, col)
				}
			}
		}
	}
}

// Render draws the complete boot logo on a new canvas the size of the boot
// screen, cleared to the background color.
func Render(l rom.Layout, p palette.Palette, ops []vector.Op, blocks []bitmap.Block) *raster.Canvas {
	c := raster.New(image.Rectangle{Max: l.Screen}, p[0])
	Vectors(c, ops, p, l.Origin)
	Bitmaps(c, blocks, p, l.Origin)
	return c
}
