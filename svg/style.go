package svg

import (
	"image/color"
	"strconv"
	"strings"
)

// Paint is a resolved fill or stroke value.
type Paint struct {
	None  bool
	Color color.NRGBA
}

// styleProperty returns the value of name from an inline style attribute.
func styleProperty(style, name string) (string, bool) {
	var (
		value string
		found bool
	)
	for _, decl := range strings.Split(style, ";") {
		kv := strings.SplitN(decl, ":", 2)
		if len(kv) != 2 {
			continue
		}
		if strings.TrimSpace(kv[0]) == name {
			value, found = strings.TrimSpace(kv[1]), true
		}
	}
	return value, found
}

// ParsePaint interprets a paint value. Only "none" and hex colors are
// understood, anything else reports ok as false.
func ParsePaint(s string) (p Paint, ok bool) {
	s = strings.TrimSpace(s)
	if s == "none" {
		return Paint{None: true}, true
	}
	c, ok := ParseColor(s)
	if !ok {
		return Paint{}, false
	}
	return Paint{Color: c}, true
}

// ParseColor parses a #rrggbb or #rgb color.
func ParseColor(s string) (color.NRGBA, bool) {
	if !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, false
	}
	s = s[1:]
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, true
}

// paint resolves a property from the presentation attribute, falling back
// to the inline style. The attribute wins when both are present.
func (n *Node) paint(attr, name string) (Paint, bool) {
	if p, ok := ParsePaint(attr); ok {
		return p, true
	}
	if v, found := styleProperty(n.Style, name); found {
		return ParsePaint(v)
	}
	return Paint{}, false
}

// FillPaint returns the fill of the node, if it sets one.
func (n *Node) FillPaint() (Paint, bool) {
	return n.paint(n.Fill, "fill")
}

// StrokePaint returns the stroke of the node, if it sets one.
func (n *Node) StrokePaint() (Paint, bool) {
	return n.paint(n.Stroke, "stroke")
}

// Attributes returns the node's common attributes.
func Attributes(s Shape) *Node {
	return s.node()
}
