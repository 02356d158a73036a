package palette

import (
	"image"
	"image/color"
	websafe "image/color/palette"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/esimov/colorquant"
)

// Reducer reduces an image to at most n colors without dithering.
type Reducer interface {
	Reduce(m image.Image, n int) *image.Paletted
}

// MedianCut reduces colors using a median cut quantizer and maps every pixel
// to its nearest palette color.
type MedianCut struct{}

// Reduce implements the Reducer interface.
func (MedianCut) Reduce(m image.Image, n int) *image.Paletted {
	b := m.Bounds()

	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, n), m)
	if len(p) == 0 {
		p = append(p, color.Black)
	}

	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return pm
}

// ColorQuant reduces colors using the colorquant package.
type ColorQuant struct{}

// Reduce implements the Reducer interface.
func (ColorQuant) Reduce(m image.Image, n int) *image.Paletted {
	b := m.Bounds()

	dst := image.NewPaletted(b, websafe.WebSafe)
	out := colorquant.NoDither.Quantize(m, dst, n, false, true)

	// Rebuild a tight palette from the colors actually used
	cp := uniqueColors(out)
	if len(cp) > n {
		return MedianCut{}.Reduce(out, n)
	}

	pm := image.NewPaletted(b, cp)
	draw.Draw(pm, b, out, b.Min, draw.Src)

	return pm
}

func uniqueColors(m image.Image) color.Palette {
	seen := make(map[color.NRGBA]struct{})
	var p color.Palette
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				p = append(p, c)
			}
		}
	}
	return p
}

// usedColors returns the palette entries that appear in m, in palette order.
func usedColors(m *image.Paletted) []color.NRGBA {
	used := make([]bool, len(m.Palette))
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			used[m.ColorIndexAt(x, y)] = true
		}
	}

	var cols []color.NRGBA
	for i, ok := range used {
		if ok {
			cols = append(cols, color.NRGBAModel.Convert(m.Palette[i]).(color.NRGBA))
		}
	}
	return cols
}

func sqDiff(x, y uint8) uint32 {
	d := int32(x) - int32(y)
	return uint32(d * d)
}

func distance(c1, c2 color.NRGBA) uint32 {
	return sqDiff(c1.R, c2.R) + sqDiff(c1.G, c2.G) + sqDiff(c1.B, c2.B)
}

// nearest returns the index of the color in p closest to c. Ties go to the
// earliest entry.
func nearest(p []color.NRGBA, c color.NRGBA) int {
	best, bestDiff := -1, uint32(0)
	for i, v := range p {
		if d := distance(c, v); best < 0 || d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return best
}

// Quantizer assigns palette indices to the colors used by drawing
// operations. The first color indexed is given slot 0 so it should be the
// background.
type Quantizer struct {
	// Reduced is the artwork reduced to at most Colors colors
	Reduced *image.Paletted

	used    []color.NRGBA
	remap   map[color.NRGBA]uint8
	slot    map[color.NRGBA]uint8
	entries []color.NRGBA
}

// NewQuantizer reduces m with r and returns a Quantizer for the colors that
// survived. If r is nil MedianCut is used.
func NewQuantizer(m image.Image, r Reducer) *Quantizer {
	if r == nil {
		r = MedianCut{}
	}

	pm := r.Reduce(m, Colors)

	return &Quantizer{
		Reduced: pm,
		used:    usedColors(pm),
		remap:   make(map[color.NRGBA]uint8),
		slot:    make(map[color.NRGBA]uint8),
	}
}

// Index returns the palette index for c. A color seen for the first time is
// matched to the nearest color in the reduced artwork; that color takes the
// next free palette slot unless an earlier color already claimed it.
func (q *Quantizer) Index(c color.Color) uint8 {
	key := color.NRGBAModel.Convert(c).(color.NRGBA)
	if idx, ok := q.remap[key]; ok {
		return idx
	}

	candidates := q.used
	if len(candidates) == 0 {
		candidates = []color.NRGBA{key}
	}
	match := candidates[nearest(candidates, key)]

	idx, ok := q.slot[match]
	if !ok {
		if len(q.entries) < Colors {
			idx = uint8(len(q.entries))
			q.entries = append(q.entries, match)
			q.slot[match] = idx
		} else {
			idx = uint8(nearest(q.entries, key))
		}
	}

	q.remap[key] = idx

	return idx
}

// Palette returns the palette built so far. Unclaimed slots are filled with
// any remaining reduced colors and then black.
func (q *Quantizer) Palette() Palette {
	cols := make([]color.Color, 0, Colors)
	for _, c := range q.entries {
		cols = append(cols, c)
	}
	for _, c := range q.used {
		if _, ok := q.slot[c]; !ok && len(cols) < Colors {
			cols = append(cols, c)
		}
	}
	return New(cols...)
}
