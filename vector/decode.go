package vector

// Decode parses an instruction stream. Decoding stops at the terminator
// record or at the end of b, whichever comes first; a trailing odd byte is
// ignored.
//
// Every header starts a new operation. Coordinates following a Stroke header
// extend that operation, coordinates following a Fill header each produce a
// separate Fill operation with the same color. A Stroke header that is not
// followed by any coordinates yields a Stroke with no points, a Fill header
// that is not followed by any coordinates yields nothing.
func Decode(b []byte) ([]Op, error) {
	var (
		ops     []Op
		mode    Mode
		color   uint8
		pending *Op
		started bool
	)

	flush := func() {
		if pending != nil {
			ops = append(ops, *pending)
			pending = nil
		}
	}

	for i := 0; i+1 < len(b); i += 2 {
		a, c := b[i], b[i+1]

		switch {
		case a == terminator[0] && c == terminator[1]:
			flush()
			return ops, nil
		case Mode(a) == Stroke || Mode(a) == Fill:
			flush()
			mode, color, started = Mode(a), c, true
			if mode == Stroke {
				pending = &Op{Mode: Stroke, Color: color}
			}
		case !started:
			return nil, ErrMalformedStream
		case mode == Stroke:
			pending.Points = append(pending.Points, Point{a, c})
		default:
			ops = append(ops, NewFill(color, Point{a, c}))
		}
	}

	flush()

	return ops, nil
}
