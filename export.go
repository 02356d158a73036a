package kickart

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/bodgit/kickart/bitmap"
	"github.com/bodgit/kickart/palette"
	"github.com/bodgit/kickart/raster"
	"github.com/bodgit/kickart/render"
	"github.com/bodgit/kickart/rom"
	"github.com/bodgit/kickart/svg"
	"github.com/bodgit/kickart/vector"
	"golang.org/x/image/bmp"
)

// Logo is a decoded boot logo.
type Logo struct {
	Layout  rom.Layout
	Palette palette.Palette
	Ops     []vector.Op
	Blocks  []bitmap.Block
	// Valid is true if the ROM image checksum verifies
	Valid bool
}

// Render draws the logo on a canvas the size of the boot screen.
func (l *Logo) Render() *raster.Canvas {
	return render.Render(l.Layout, l.Palette, l.Ops, l.Blocks)
}

// Image returns the rendered logo as a paletted image using the logo
// palette, with every color opaque.
func (l *Logo) Image() *image.Paletted {
	m := l.Render().Paletted(l.Palette.Color())
	m.Palette = l.Palette.Opaque()
	return m
}

// WritePNG writes the rendered logo to w as a PNG.
func (l *Logo) WritePNG(w io.Writer) error {
	return png.Encode(w, l.Image())
}

// WriteBMP writes the rendered logo to w as a BMP.
func (l *Logo) WriteBMP(w io.Writer) error {
	return bmp.Encode(w, l.Image())
}

// WriteSVG writes the logo to w as an SVG document. Strokes become lines,
// polygons or polylines, each flood fill a dot at its seed and each bitmap
// block an embedded PNG.
func (l *Logo) WriteSVG(w io.Writer) error {
	sw := svg.NewWriter(l.Layout.Screen, l.Layout.Origin)

	for _, o := range l.Ops {
		c := l.Palette[int(o.Color)%palette.Colors]
		switch o.Mode {
		case vector.Stroke:
			sw.Stroke(render.Points(o.Points, image.Point{}), c)
		case vector.Fill:
			for _, pt := range o.Points {
				sw.Fill(render.Point(pt, image.Point{}), c)
			}
		}
	}

	for i, b := range l.Blocks {
		if err := sw.Image(b.Image(l.Palette.Color())); err != nil {
			return fmt.Errorf("bitmap block %d: %w", i, err)
		}
	}

	_, err := sw.WriteTo(w)
	return err
}
