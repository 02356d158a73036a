package vector

import "fmt"

// Len returns the encoded size of ops including the terminator.
func Len(ops []Op) int {
	n := len(terminator)
	for _, o := range ops {
		n += o.Size()
	}
	return n
}

// Encode serializes ops followed by the terminator. The result is not
// checked against any region capacity; that is left to the caller.
func Encode(ops []Op) ([]byte, error) {
	b := make([]byte, 0, Len(ops))

	for i, o := range ops {
		switch o.Mode {
		case Stroke:
		case Fill:
			if len(o.Points) != 1 {
				return nil, fmt.Errorf("op %d: fill needs exactly one seed, has %d", i, len(o.Points))
			}
		default:
			return nil, fmt.Errorf("op %d: %w", i, errBadMode)
		}

		if o.Color > MaxColor {
			return nil, fmt.Errorf("op %d: color %d: %w", i, o.Color, ErrInvalidColor)
		}

		b = append(b, byte(o.Mode), o.Color)
		for _, p := range o.Points {
			if p.X > MaxX {
				return nil, fmt.Errorf("op %d: (%d,%d): %w", i, p.X, p.Y, ErrInvalidPoint)
			}
			b = append(b, p.X, p.Y)
		}
	}

	return append(b, terminator[:]...), nil
}
