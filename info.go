package kickart

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/bodgit/kickart/bitmap"
	"github.com/bodgit/kickart/vector"
)

// Stats summarizes how much of each stream a logo uses.
type Stats struct {
	Strokes, Fills int
	VectorBytes    int
	BitmapBytes    int
}

// Stats returns the operation counts and encoded stream sizes of l.
func (l *Logo) Stats() Stats {
	var s Stats
	for _, o := range l.Ops {
		switch o.Mode {
		case vector.Stroke:
			s.Strokes++
		case vector.Fill:
			s.Fills += len(o.Points)
		}
	}
	s.VectorBytes = vector.Len(l.Ops)
	s.BitmapBytes = 2
	for _, b := range l.Blocks {
		s.BitmapBytes += b.Size()
	}
	return s
}

// WriteInfo writes a human readable summary of the logo to w.
func (l *Logo) WriteInfo(w io.Writer) error {
	s := l.Stats()

	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)

	checksum := "valid"
	if !l.Valid {
		checksum = "invalid"
	}
	fmt.Fprintf(tw, "Layout:\t%s\n", l.Layout.Name)
	fmt.Fprintf(tw, "Checksum:\t%s\n", checksum)
	for i := range l.Palette {
		fmt.Fprintf(tw, "Color %d:\t%s\n", i, l.Palette.Hex(i))
	}
	fmt.Fprintf(tw, "Vectors:\t%d strokes, %d fills, %d/%d bytes\n", s.Strokes, s.Fills, s.VectorBytes, l.Layout.Vectors.Capacity)
	fmt.Fprintf(tw, "Bitmaps:\t%d blocks, %d/%d bytes\n", len(l.Blocks), s.BitmapBytes, l.Layout.Bitmaps.Capacity)
	for i, b := range l.Blocks {
		fmt.Fprintf(tw, "  Block %d:\tcolor %d, %s\n", i, b.Color, blockBounds(b))
	}

	return tw.Flush()
}

func blockBounds(b bitmap.Block) string {
	r := b.Bounds()
	return fmt.Sprintf("%dx%d at (%d,%d)", r.Dx(), r.Dy(), r.Min.X, r.Min.Y)
}
