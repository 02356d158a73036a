/*
Package svg reads and writes the small subset of SVG needed to edit the boot
logo in a vector editor.

Parsing produces a tree of shapes. Only groups, polygons, polylines, lines,
rectangles, paths, circles and embedded images are understood; any other
element is kept as an Unsupported node so the caller can report it.
*/
package svg

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	namespace      = "http://www.w3.org/2000/svg"
	xlinkNamespace = "http://www.w3.org/1999/xlink"
)

// ErrUnsupportedShape is returned for elements or path commands that are
// not understood.
var ErrUnsupportedShape = errors.New("svg: unsupported shape")

// Point is a coordinate in document space.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Node holds the attributes common to every shape.
type Node struct {
	Style     string
	Fill      string
	Stroke    string
	Transform string
}

// Shape is one of Group, Polygon, Polyline, Line, Rect, Path, Circle, Image
// or Unsupported.
type Shape interface {
	node() *Node
}

func (n *Node) node() *Node { return n }

// Group contains other shapes.
type Group struct {
	Node
	Children []Shape
}

// Polygon is a closed list of points.
type Polygon struct {
	Node
	Points []Point
}

// Polyline is an open list of points.
type Polyline struct {
	Node
	Points []Point
}

// Line is a single segment.
type Line struct {
	Node
	X1, Y1, X2, Y2 float64
}

// Rect is an axis aligned rectangle.
type Rect struct {
	Node
	X, Y, Width, Height float64
}

// Path holds unparsed path data, see ParsePath.
type Path struct {
	Node
	D string
}

// Circle is only used as a flood fill marker; its radius is ignored.
type Circle struct {
	Node
	CX, CY, R float64
}

// Image is an embedded raster image.
type Image struct {
	Node
	X, Y, Width, Height float64
	Href                string
}

// Unsupported records an element that could not be interpreted.
type Unsupported struct {
	Node
	Name xml.Name
}

func (u *Unsupported) Error() string {
	if u.Name.Space != "" && u.Name.Space != namespace {
		return fmt.Sprintf("%s: {%s}%s", ErrUnsupportedShape, u.Name.Space, u.Name.Local)
	}
	return fmt.Sprintf("%s: %s", ErrUnsupportedShape, u.Name.Local)
}

func (u *Unsupported) Unwrap() error {
	return ErrUnsupportedShape
}

// Document is a parsed SVG document.
type Document struct {
	Width, Height float64
	Children      []Shape
}

type element struct {
	name     xml.Name
	attrs    map[xml.Name]string
	children []*element
}

func (e *element) attr(name string) string {
	if v, ok := e.attrs[xml.Name{Local: name}]; ok {
		return v
	}
	return e.attrs[xml.Name{Space: namespace, Local: name}]
}

func (e *element) float(name string) float64 {
	v := strings.TrimSpace(e.attr(name))
	v = strings.TrimSuffix(v, "px")
	f, _ := strconv.ParseFloat(v, 64)
	return f
}

func (e *element) href() string {
	for _, space := range []string{xlinkNamespace, "xlink"} {
		if v, ok := e.attrs[xml.Name{Space: space, Local: "href"}]; ok {
			return v
		}
	}
	return e.attr("href")
}

func readElement(d *xml.Decoder, start xml.StartElement) (*element, error) {
	e := &element{
		name:  start.Name,
		attrs: make(map[xml.Name]string, len(start.Attr)),
	}
	for _, a := range start.Attr {
		e.attrs[a.Name] = a.Value
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := readElement(d, t)
			if err != nil {
				return nil, err
			}
			e.children = append(e.children, child)
		case xml.EndElement:
			return e, nil
		}
	}
}

func (e *element) common() Node {
	return Node{
		Style:     e.attr("style"),
		Fill:      e.attr("fill"),
		Stroke:    e.attr("stroke"),
		Transform: e.attr("transform"),
	}
}

func (e *element) shape() Shape {
	n := e.common()

	if e.name.Space != namespace && e.name.Space != "" {
		return &Unsupported{n, e.name}
	}

	switch e.name.Local {
	case "g":
		g := &Group{Node: n}
		for _, c := range e.children {
			g.Children = append(g.Children, c.shape())
		}
		return g
	case "polygon":
		return &Polygon{n, ParsePoints(e.attr("points"))}
	case "polyline":
		return &Polyline{n, ParsePoints(e.attr("points"))}
	case "line":
		return &Line{n, e.float("x1"), e.float("y1"), e.float("x2"), e.float("y2")}
	case "rect":
		return &Rect{n, e.float("x"), e.float("y"), e.float("width"), e.float("height")}
	case "path":
		return &Path{n, e.attr("d")}
	case "circle":
		return &Circle{n, e.float("cx"), e.float("cy"), e.float("r")}
	case "image":
		return &Image{n, e.float("x"), e.float("y"), e.float("width"), e.float("height"), e.href()}
	default:
		return &Unsupported{n, e.name}
	}
}

// Parse reads an SVG document from r.
func Parse(r io.Reader) (*Document, error) {
	d := xml.NewDecoder(r)

	for {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return nil, errors.New("svg: no root element")
			}
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		root, err := readElement(d, start)
		if err != nil {
			return nil, err
		}
		if root.name.Local != "svg" {
			return nil, fmt.Errorf("svg: unexpected root element %q", root.name.Local)
		}

		doc := &Document{
			Width:  root.float("width"),
			Height: root.float("height"),
		}
		for _, c := range root.children {
			doc.Children = append(doc.Children, c.shape())
		}
		return doc, nil
	}
}

// ParsePoints parses the points attribute of a polygon or polyline. A
// trailing unpaired number is dropped.
func ParsePoints(s string) []Point {
	nums := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	var pts []Point
	for i := 0; i+1 < len(nums); i += 2 {
		x, err := strconv.ParseFloat(nums[i], 64)
		if err != nil {
			break
		}
		y, err := strconv.ParseFloat(nums[i+1], 64)
		if err != nil {
			break
		}
		pts = append(pts, Point{x, y})
	}
	return pts
}

// ParseTranslate returns the offset described by a transform attribute. ok
// is false if the transform is anything other than a single translate.
func ParseTranslate(s string) (p Point, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Point{}, true
	}
	if !strings.HasPrefix(s, "translate(") || !strings.HasSuffix(s, ")") {
		return Point{}, false
	}
	args := ParsePoints(strings.TrimSuffix(strings.TrimPrefix(s, "translate("), ")") + " 0")
	if len(args) == 0 {
		return Point{}, false
	}
	return args[0], true
}
