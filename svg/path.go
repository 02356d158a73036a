package svg

import (
	"fmt"
	"strconv"
	"unicode"
)

// Subpath is a run of points produced from path data. Closed subpaths end
// with a copy of their first point.
type Subpath struct {
	Points []Point
	Closed bool
}

type token struct {
	cmd byte
	num float64
}

func isNumberStart(c byte) bool {
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

func tokenize(d string) ([]token, error) {
	var toks []token
	for i := 0; i < len(d); {
		c := d[i]
		switch {
		case c == ',' || unicode.IsSpace(rune(c)):
			i++
		case isNumberStart(c):
			j := i
			if d[j] == '-' || d[j] == '+' {
				j++
			}
			dot := false
			for j < len(d) && (d[j] >= '0' && d[j] <= '9' || d[j] == '.' && !dot) {
				if d[j] == '.' {
					dot = true
				}
				j++
			}
			if j < len(d) && (d[j] == 'e' || d[j] == 'E') {
				k := j + 1
				if k < len(d) && (d[k] == '-' || d[k] == '+') {
					k++
				}
				if k < len(d) && d[k] >= '0' && d[k] <= '9' {
					for k < len(d) && d[k] >= '0' && d[k] <= '9' {
						k++
					}
					j = k
				}
			}
			f, err := strconv.ParseFloat(d[i:j], 64)
			if err != nil {
				return nil, fmt.Errorf("svg: bad number %q in path data", d[i:j])
			}
			toks = append(toks, token{num: f})
			i = j
		case unicode.IsLetter(rune(c)):
			toks = append(toks, token{cmd: c})
			i++
		default:
			return nil, fmt.Errorf("svg: unexpected %q in path data", c)
		}
	}
	return toks, nil
}

// argCount returns how many numbers each repetition of a command consumes
// and which pair of them is the end point. Curves and arcs are reduced to
// their end point; control points are ignored.
func argCount(cmd byte) (n, end int, ok bool) {
	switch unicode.ToUpper(rune(cmd)) {
	case 'M', 'L', 'T':
		return 2, 0, true
	case 'H', 'V':
		return 1, 0, true
	case 'C':
		return 6, 4, true
	case 'S', 'Q':
		return 4, 2, true
	case 'A':
		return 7, 5, true
	case 'Z':
		return 0, 0, true
	}
	return 0, 0, false
}

// numbers reports whether toks starts with at least n numbers.
func numbers(toks []token, n int) bool {
	if len(toks) < n {
		return false
	}
	for _, t := range toks[:n] {
		if t.cmd != 0 {
			return false
		}
	}
	return true
}

// ParsePath converts path data into subpaths. Every command contributes only
// its end point so curves become single chords.
//
// A subpath is emitted when it is closed, when a moveto interrupts it or when
// the data ends; subpaths with fewer than two points are dropped. An unknown
// command is skipped along with its arguments and reported by returning an
// error wrapping ErrUnsupportedShape alongside whatever could be parsed.
func ParsePath(d string) ([]Subpath, error) {
	toks, err := tokenize(d)
	if err != nil {
		return nil, err
	}

	var (
		out        []Subpath
		pos, start Point
		cur        []Point
		unknown    error
	)

	flush := func(closed bool) {
		if len(cur) >= 2 {
			out = append(out, Subpath{Points: cur, Closed: closed})
		}
		cur = nil
	}

	// Drawing after a closepath without a moveto continues from the
	// start of the previous subpath
	extend := func(p Point) {
		if len(cur) == 0 {
			cur = append(cur, pos)
		}
		cur = append(cur, p)
		pos = p
	}

	for i := 0; i < len(toks); {
		cmd := toks[i].cmd
		i++
		if cmd == 0 {
			// Stray number without a command
			continue
		}

		n, end, ok := argCount(cmd)
		if !ok {
			if unknown == nil {
				unknown = fmt.Errorf("%w: path command %q", ErrUnsupportedShape, cmd)
			}
			for i < len(toks) && toks[i].cmd == 0 {
				i++
			}
			continue
		}

		rel := unicode.IsLower(rune(cmd))
		upper := byte(unicode.ToUpper(rune(cmd)))

		if upper == 'Z' {
			if len(cur) > 0 {
				cur = append(cur, start)
				flush(true)
			}
			pos = start
			continue
		}

		first := true
		for numbers(toks[i:], n) {
			args := make([]float64, n)
			for j := range args {
				args[j] = toks[i+j].num
			}
			i += n

			var p Point
			switch upper {
			case 'H':
				p = Point{args[0], pos.Y}
				if rel {
					p.X += pos.X
				}
			case 'V':
				p = Point{pos.X, args[0]}
				if rel {
					p.Y += pos.Y
				}
			default:
				p = Point{args[end], args[end+1]}
				if rel {
					p = p.Add(pos)
				}
			}

			if upper == 'M' && first {
				flush(false)
				pos, start = p, p
				cur = []Point{p}
			} else {
				extend(p)
			}
			first = false
		}

		// Skip any incomplete trailing arguments
		for i < len(toks) && toks[i].cmd == 0 {
			i++
		}
	}

	flush(false)

	return out, unknown
}
