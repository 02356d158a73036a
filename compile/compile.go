/*
Package compile turns a parsed SVG document into boot logo drawing operations.

Shapes are drawn onto a working canvas as they are compiled. Filled shapes
become an outline plus flood fill seeds, found by comparing flood fills on the
working canvas against the polygon filled on a scratch copy. The canvas is
later reduced to the four color palette.
*/
package compile

import (
	"errors"
	"image"
	"image/color"
	"io/ioutil"
	"log"
	"math"

	"github.com/bodgit/kickart/raster"
	"github.com/bodgit/kickart/rom"
	"github.com/bodgit/kickart/svg"
	"github.com/bodgit/kickart/vector"
)

// ErrUnresolvedFill is logged when no flood fill seed reproduces a filled
// shape without leaking outside it.
var ErrUnresolvedFill = errors.New("compile: no valid flood fill seed")

var (
	white = color.NRGBA{0xff, 0xff, 0xff, 0xff}
	black = color.NRGBA{0x00, 0x00, 0x00, 0xff}
)

// Op is a drawing operation still carrying its true color; the palette
// index is assigned once the artwork has been quantized.
type Op struct {
	Mode   vector.Mode
	Color  color.NRGBA
	Points []vector.Point
}

// Vector returns the operation drawn with palette index idx.
func (o Op) Vector(idx uint8) vector.Op {
	return vector.Op{Mode: o.Mode, Color: idx, Points: o.Points}
}

// Image is an embedded raster image captured at its position on the
// screen.
type Image struct {
	Bounds image.Rectangle
	Pixels image.Image
}

// State is the compiler state threaded through the shape tree.
type State struct {
	Layout rom.Layout
	Canvas *raster.Canvas

	// Current colors, nil means none
	Stroke *color.NRGBA
	Fill   *color.NRGBA

	Ops    []Op
	Images []Image

	logger *log.Logger
}

// New returns a State with a white canvas the size of the layout's screen,
// a black stroke and no fill.
func New(layout rom.Layout, logger *log.Logger) *State {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}

	stroke := black

	return &State{
		Layout: layout,
		Canvas: raster.New(image.Rectangle{Max: layout.Screen}, white),
		Stroke: &stroke,
		logger: logger,
	}
}

// Compile walks every shape in doc.
func (s *State) Compile(doc *svg.Document) {
	s.Walk(doc.Children, svg.Point{})
}

// Walk compiles shapes with every coordinate shifted by offset.
func (s *State) Walk(shapes []svg.Shape, offset svg.Point) {
	for _, shape := range shapes {
		s.Shape(shape, offset)
	}
}

// mask keeps the four bits per channel the hardware can show.
func mask(c color.NRGBA) *color.NRGBA {
	return &color.NRGBA{c.R & 0xf0, c.G & 0xf0, c.B & 0xf0, 0xff}
}

func (s *State) style(n *svg.Node) {
	if p, ok := n.StrokePaint(); ok {
		if p.None {
			s.Stroke = nil
		} else {
			s.Stroke = mask(p.Color)
		}
	}
	if p, ok := n.FillPaint(); ok {
		if p.None {
			s.Fill = nil
		} else {
			s.Fill = mask(p.Color)
		}
	}
}

func (s *State) translate(n *svg.Node, offset svg.Point) svg.Point {
	t, ok := svg.ParseTranslate(n.Transform)
	if !ok {
		s.logger.Printf("Ignoring unsupported transform %q", n.Transform)
		return offset
	}
	return offset.Add(t)
}

// Shape compiles a single shape.
func (s *State) Shape(shape svg.Shape, offset svg.Point) {
	if u, ok := shape.(*svg.Unsupported); ok {
		s.logger.Println(u)
		return
	}

	n := svg.Attributes(shape)
	s.style(n)
	offset = s.translate(n, offset)

	switch v := shape.(type) {
	case *svg.Group:
		s.Walk(v.Children, offset)
	case *svg.Polygon:
		if len(v.Points) == 0 {
			return
		}
		pts := s.points(v.Points, offset)
		s.poly(append(pts, pts[0]))
	case *svg.Polyline:
		s.poly(s.points(v.Points, offset))
	case *svg.Line:
		s.poly(s.points([]svg.Point{{X: v.X1, Y: v.Y1}, {X: v.X2, Y: v.Y2}}, offset))
	case *svg.Rect:
		s.rect(v, offset)
	case *svg.Path:
		s.path(v, offset)
	case *svg.Circle:
		s.circle(v, offset)
	case *svg.Image:
		s.image(v, offset)
	}
}

func round(f float64) int {
	return int(math.RoundToEven(f))
}

func (s *State) point(p, offset svg.Point) image.Point {
	p = p.Add(offset)
	return image.Pt(round(p.X), round(p.Y))
}

func (s *State) points(pts []svg.Point, offset svg.Point) []image.Point {
	out := make([]image.Point, len(pts))
	for i, p := range pts {
		out[i] = s.point(p, offset)
	}
	return out
}

func (s *State) project(p image.Point) vector.Point {
	q := s.Layout.Project(p)
	return vector.Pt(uint8(q.X), uint8(q.Y))
}

func (s *State) stroke(pts []image.Point, c color.NRGBA) {
	op := Op{Mode: vector.Stroke, Color: c, Points: make([]vector.Point, len(pts))}
	for i, p := range pts {
		op.Points[i] = s.project(p)
	}
	s.Ops = append(s.Ops, op)
}

func (s *State) fill(p image.Point, c color.NRGBA) {
	s.Ops = append(s.Ops, Op{Mode: vector.Fill, Color: c, Points: []vector.Point{s.project(p)}})
}

func (s *State) rect(r *svg.Rect, offset svg.Point) {
	x, y := math.RoundToEven(r.X), math.RoundToEven(r.Y)
	w, h := math.RoundToEven(r.Width), math.RoundToEven(r.Height)
	s.poly(s.points([]svg.Point{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
		{X: x, Y: y},
	}, offset))
}

func (s *State) path(p *svg.Path, offset svg.Point) {
	subs, err := svg.ParsePath(p.D)
	if err != nil {
		s.logger.Println(err)
	}
	for _, sub := range subs {
		s.poly(s.points(sub.Points, offset))
	}
}

func (s *State) circle(c *svg.Circle, offset svg.Point) {
	if s.Fill == nil {
		s.logger.Printf("Ignoring flood fill at (%g,%g) with no fill color", c.CX, c.CY)
		return
	}
	p := s.point(svg.Point{X: c.CX, Y: c.CY}, offset)
	s.Canvas.FloodFill(p, *s.Fill)
	s.fill(p, *s.Fill)
}

func (s *State) image(i *svg.Image, offset svg.Point) {
	m, err := i.Decode()
	if err != nil {
		s.logger.Println(err)
		return
	}
	at := s.point(svg.Point{X: i.X, Y: i.Y}, offset)
	s.Images = append(s.Images, Image{
		Bounds: m.Bounds().Sub(m.Bounds().Min).Add(at),
		Pixels: m,
	})
}

// poly draws pts, filling it first if there is a fill color and then
// stroking it if there is a different stroke color.
func (s *State) poly(pts []image.Point) {
	if len(pts) == 0 {
		return
	}

	if s.Fill != nil {
		s.fillPoly(pts, *s.Fill)
	}

	if s.Stroke != nil && (s.Fill == nil || *s.Stroke != *s.Fill) {
		s.Canvas.Polyline(pts, *s.Stroke)
		s.stroke(pts, *s.Stroke)
	}
}

// fillPoly outlines pts in c, closing it if needed, and then seeds flood
// fills that reproduce the polygon filled on a scratch copy of the canvas.
func (s *State) fillPoly(pts []image.Point, c color.NRGBA) {
	outline := pts
	if pts[0] != pts[len(pts)-1] {
		outline = append(outline[:len(pts):len(pts)], pts[0])
	}
	s.Canvas.Polyline(outline, c)
	s.stroke(outline, c)

	scratch := s.Canvas.Clone()
	scratch.FillPolygon(pts, c)

	s.seed(pts, scratch, c)
}

// contained reports whether every pixel of region is c in scratch.
func contained(region []image.Point, scratch *raster.Canvas, c color.NRGBA) bool {
	for _, q := range region {
		if scratch.Pixel(q.X, q.Y) != c {
			return false
		}
	}
	return true
}

// seed visits the canvas in scan order. Every pixel that differs from
// scratch is a candidate, and a candidate is valid if its flood fill region
// is contained in scratch. Each valid candidate is committed, so separate
// regions get a seed each. A rejected region is never tried again.
func (s *State) seed(pts []image.Point, scratch *raster.Canvas, c color.NRGBA) int {
	b := s.Canvas.Bounds()
	rejected := make(map[image.Point]bool)
	candidates, seeds := 0, 0

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if s.Canvas.Pixel(x, y) == scratch.Pixel(x, y) {
				continue
			}
			p := image.Pt(x, y)
			if rejected[p] {
				continue
			}
			candidates++

			region := s.Canvas.Region(p)
			if !contained(region, scratch, c) {
				for _, q := range region {
					rejected[q] = true
				}
				continue
			}

			s.Canvas.FloodFill(p, c)
			s.fill(p, c)
			seeds++
		}
	}

	if candidates > 0 && seeds == 0 {
		s.logger.Printf("%v for polygon %v", ErrUnresolvedFill, pts)
	}

	return seeds
}
