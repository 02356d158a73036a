/*
Package raster provides an aliased drawing surface with the handful of
primitives the boot logo needs: one pixel wide lines, filled polygons and
4-connected flood fills.

No anti-aliasing is ever applied; a pixel either takes the drawing color or is
left untouched. That property is what allows flood fill regions to be compared
pixel for pixel against filled polygons.
*/
package raster

import (
	"image"
	"image/color"
	"math"
	"sort"
)

// Canvas is an image.NRGBA with drawing primitives.
type Canvas struct {
	*image.NRGBA
}

// New returns a canvas covering r filled with bg. The color is stored as is,
// so a translucent background keeps its RGB values.
func New(r image.Rectangle, bg color.Color) *Canvas {
	m := image.NewNRGBA(r)
	col := color.NRGBAModel.Convert(bg).(color.NRGBA)
	for i := 0; i+4 <= len(m.Pix); i += 4 {
		m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3] = col.R, col.G, col.B, col.A
	}
	return &Canvas{m}
}

// Clone returns a deep copy of the canvas.
func (c *Canvas) Clone() *Canvas {
	m := *c.NRGBA
	m.Pix = append([]uint8(nil), c.Pix...)
	return &Canvas{&m}
}

// Pixel returns the color at (x, y).
func (c *Canvas) Pixel(x, y int) color.NRGBA {
	return c.NRGBAAt(x, y)
}

// Put sets the pixel at (x, y), ignoring points outside the canvas.
func (c *Canvas) Put(x, y int, col color.NRGBA) {
	c.SetNRGBA(x, y, col)
}

// Line draws a one pixel wide line from p0 to p1 inclusive.
func (c *Canvas) Line(p0, p1 image.Point, col color.NRGBA) {
	dx := abs(p1.X - p0.X)
	dy := -abs(p1.Y - p0.Y)
	sx, sy := sign(p1.X-p0.X), sign(p1.Y-p0.Y)
	e := dx + dy

	x, y := p0.X, p0.Y
	for {
		c.Put(x, y, col)
		if x == p1.X && y == p1.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// Polyline draws lines between consecutive points. Fewer than two points
// draws nothing.
func (c *Canvas) Polyline(pts []image.Point, col color.NRGBA) {
	for i := 0; i+1 < len(pts); i++ {
		c.Line(pts[i], pts[i+1], col)
	}
}

// Outline draws the closed outline of a polygon.
func (c *Canvas) Outline(pts []image.Point, col color.NRGBA) {
	if len(pts) == 0 {
		return
	}
	c.Polyline(pts, col)
	c.Line(pts[len(pts)-1], pts[0], col)
}

// FillPolygon fills the interior of a polygon, using the even-odd rule
// sampled at pixel centers, and then draws its outline.
func (c *Canvas) FillPolygon(pts []image.Point, col color.NRGBA) {
	if len(pts) == 0 {
		return
	}

	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	b := c.Bounds()
	if minY < b.Min.Y {
		minY = b.Min.Y
	}
	if maxY > b.Max.Y-1 {
		maxY = b.Max.Y - 1
	}

	var xs []float64
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		for i := range pts {
			p0, p1 := pts[i], pts[(i+1)%len(pts)]
			if p0.Y == p1.Y {
				continue
			}
			if p0.Y > p1.Y {
				p0, p1 = p1, p0
			}
			if y < p0.Y || y >= p1.Y {
				continue
			}
			xs = append(xs, float64(p0.X)+float64(y-p0.Y)*float64(p1.X-p0.X)/float64(p1.Y-p0.Y))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i])); x <= int(math.Floor(xs[i+1])); x++ {
				c.Put(x, y, col)
			}
		}
	}

	c.Outline(pts, col)
}

// Region returns the 4-connected area of pixels sharing the color at seed,
// in breadth first order starting with seed. A seed outside the canvas
// returns nothing.
func (c *Canvas) Region(seed image.Point) []image.Point {
	b := c.Bounds()
	if !seed.In(b) {
		return nil
	}

	target := c.Pixel(seed.X, seed.Y)
	w := b.Dx()
	visited := make([]bool, w*b.Dy())
	mark := func(p image.Point) {
		visited[(p.Y-b.Min.Y)*w+(p.X-b.Min.X)] = true
	}
	seen := func(p image.Point) bool {
		return visited[(p.Y-b.Min.Y)*w+(p.X-b.Min.X)]
	}

	region := []image.Point{seed}
	mark(seed)
	for i := 0; i < len(region); i++ {
		p := region[i]
		for _, n := range [...]image.Point{{p.X + 1, p.Y}, {p.X - 1, p.Y}, {p.X, p.Y + 1}, {p.X, p.Y - 1}} {
			if !n.In(b) || seen(n) || c.Pixel(n.X, n.Y) != target {
				continue
			}
			mark(n)
			region = append(region, n)
		}
	}
	return region
}

// FloodFill paints the region around seed with col and returns the number
// of pixels painted. Nothing is painted if seed already has color col.
func (c *Canvas) FloodFill(seed image.Point, col color.NRGBA) int {
	if !seed.In(c.Bounds()) || c.Pixel(seed.X, seed.Y) == col {
		return 0
	}
	region := c.Region(seed)
	for _, p := range region {
		c.Put(p.X, p.Y, col)
	}
	return len(region)
}

// Paletted converts the canvas to a paletted image. Every pixel must hold
// an exact palette color; anything else falls back to the nearest entry.
func (c *Canvas) Paletted(p color.Palette) *image.Paletted {
	b := c.Bounds()
	pm := image.NewPaletted(b, p)

	lookup := make(map[color.NRGBA]uint8, len(p))
	for i := len(p) - 1; i >= 0; i-- {
		lookup[color.NRGBAModel.Convert(p[i]).(color.NRGBA)] = uint8(i)
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			col := c.Pixel(x, y)
			idx, ok := lookup[col]
			if !ok {
				idx = uint8(p.Index(col))
			}
			pm.SetColorIndex(x, y, idx)
		}
	}
	return pm
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
