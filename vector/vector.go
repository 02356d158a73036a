/*
Package vector implements the boot logo draw instruction stream.

The stream is a sequence of two byte records. A record starting with 0xff
or 0xfe is a header that selects a drawing mode and a palette index; 0xff
draws a polyline through the points that follow and 0xfe flood fills from
each point that follows. Any other record is an x, y coordinate pair. The
record 0xff 0xff ends the stream.

	ff 02 0a 0a 14 0a 14 14   polyline in color 2 through (10,10) (20,10) (20,20)
	fe 01 0f 0f               flood fill with color 1 from (15,15)
	ff ff                     end of stream

Because the terminator is also a valid stroke header for palette index 0xff
it is always treated as the end of the stream.
*/
package vector

import (
	"errors"
	"fmt"
)

// Mode selects how the points of an operation are drawn.
type Mode byte

const (
	// Fill flood fills from a single seed point.
	Fill Mode = 0xfe
	// Stroke draws a line through consecutive points.
	Stroke Mode = 0xff
)

func (m Mode) String() string {
	switch m {
	case Fill:
		return "fill"
	case Stroke:
		return "stroke"
	default:
		return fmt.Sprintf("Mode(%#02x)", byte(m))
	}
}

const (
	// MaxX is the largest x coordinate that cannot be mistaken for a
	// header.
	MaxX = 0xfd
	// MaxColor is the largest palette index.
	MaxColor = 3
)

var terminator = [2]byte{0xff, 0xff}

var (
	// ErrMalformedStream is returned when a coordinate appears before
	// any header.
	ErrMalformedStream = errors.New("vector: coordinate without preceding header")

	// ErrInvalidPoint is returned when a point cannot be encoded
	// without being read back as a header.
	ErrInvalidPoint = errors.New("vector: point out of range")

	// ErrInvalidColor is returned when an op uses a palette index the
	// hardware does not have.
	ErrInvalidColor = errors.New("vector: color out of range")

	errBadMode = errors.New("vector: unknown mode")
)

// Point is a coordinate in the stream's drawing window.
type Point struct {
	X, Y uint8
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y uint8) Point {
	return Point{x, y}
}

// Op is a single drawing operation. A Stroke holds the polyline vertices in
// order, a Fill holds exactly one seed point.
type Op struct {
	Mode   Mode
	Color  uint8
	Points []Point
}

// NewStroke returns a polyline operation.
func NewStroke(color uint8, points ...Point) Op {
	return Op{Stroke, color, points}
}

// NewFill returns a flood fill operation.
func NewFill(color uint8, seed Point) Op {
	return Op{Fill, color, []Point{seed}}
}

// Seed returns the seed point of a Fill.
func (o Op) Seed() Point {
	return o.Points[0]
}

// Closed reports whether a Stroke finishes where it started.
func (o Op) Closed() bool {
	return len(o.Points) > 2 && o.Points[0] == o.Points[len(o.Points)-1]
}

// Size returns the number of bytes the operation occupies in the stream.
func (o Op) Size() int {
	return 2 + 2*len(o.Points)
}
