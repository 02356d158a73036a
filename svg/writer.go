package svg

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"
	"strings"

	// Embedded images may use any of these
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
)

var errNotDataURI = errors.New("svg: image is not a base64 data URI")

type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []*node
}

func newNode(name string, attrs ...string) *node {
	n := &node{XMLName: xml.Name{Local: name}}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: attrs[i]}, Value: attrs[i+1]})
	}
	return n
}

func (n *node) add(c *node) *node {
	n.Children = append(n.Children, c)
	return c
}

// Hex formats c as #rrggbb.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

// Writer builds an SVG document from decoded boot logo operations. All
// coordinates passed to it are relative to the drawing origin.
type Writer struct {
	root  *node
	layer *node
}

// NewWriter returns a Writer for a screen of the given size with the drawing
// origin translated to origin.
func NewWriter(screen, origin image.Point) *Writer {
	root := newNode("svg",
		"width", itoa(screen.X),
		"height", itoa(screen.Y),
		"viewBox", fmt.Sprintf("0 0 %d %d", screen.X, screen.Y),
		"version", "1.1",
		"xmlns", namespace,
		"xmlns:xlink", xlinkNamespace,
		"xmlns:svg", namespace,
	)
	g := root.add(newNode("g", "style", "image-rendering:pixelated"))
	layer := g.add(newNode("g", "transform", fmt.Sprintf("translate(%d,%d)", origin.X, origin.Y)))

	return &Writer{root: root, layer: layer}
}

func points(pts []image.Point) string {
	s := make([]string, len(pts))
	for i, p := range pts {
		s[i] = fmt.Sprintf("%d,%d", p.X, p.Y)
	}
	return strings.Join(s, " ")
}

// Stroke adds a stroked polyline. Two points become a line, a run that ends
// where it started becomes a polygon and anything else a polyline. Fewer
// than two points draw nothing and are skipped.
func (w *Writer) Stroke(pts []image.Point, c color.Color) {
	switch {
	case len(pts) < 2:
		return
	case len(pts) == 2:
		w.layer.add(newNode("line",
			"x1", itoa(pts[0].X), "y1", itoa(pts[0].Y),
			"x2", itoa(pts[1].X), "y2", itoa(pts[1].Y),
			"fill", "none",
			"stroke", Hex(c),
			"stroke-width", "1",
		))
	case pts[0] == pts[len(pts)-1]:
		w.layer.add(newNode("polygon",
			"points", points(pts[:len(pts)-1]),
			"fill", "none",
			"stroke", Hex(c),
			"stroke-width", "1",
		))
	default:
		w.layer.add(newNode("polyline",
			"points", points(pts),
			"fill", "none",
			"stroke", Hex(c),
			"stroke-width", "1",
		))
	}
}

// Fill adds a flood fill marker, a half pixel dot at the seed.
func (w *Writer) Fill(p image.Point, c color.Color) {
	w.layer.add(newNode("circle",
		"cx", itoa(p.X), "cy", itoa(p.Y),
		"r", "0.5",
		"fill", Hex(c),
		"stroke", "none",
	))
}

// Image embeds m as a PNG data URI at its bounds.
func (w *Writer) Image(m image.Image) error {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, m); err != nil {
		return err
	}

	r := m.Bounds()
	w.layer.add(newNode("image",
		"x", itoa(r.Min.X), "y", itoa(r.Min.Y),
		"width", itoa(r.Dx()), "height", itoa(r.Dy()),
		"xlink:href", "data:image/png;base64,"+base64.StdEncoding.EncodeToString(buf.Bytes()),
	))

	return nil
}

// WriteTo writes the document to iw.
func (w *Writer) WriteTo(iw io.Writer) (int64, error) {
	buf := new(bytes.Buffer)
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(buf)
	enc.Indent("", "  ")
	if err := enc.Encode(w.root); err != nil {
		return 0, err
	}
	buf.WriteByte('\n')

	return buf.WriteTo(iw)
}

// Decode returns the pixels of an image embedded with a base64 data URI.
func (i *Image) Decode() (image.Image, error) {
	if !strings.HasPrefix(i.Href, "data:") {
		return nil, errNotDataURI
	}
	comma := strings.IndexByte(i.Href, ',')
	if comma < 0 || !strings.HasSuffix(i.Href[:comma], ";base64") {
		return nil, errNotDataURI
	}

	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(i.Href[comma+1:]))
	if err != nil {
		return nil, fmt.Errorf("svg: bad image data: %w", err)
	}

	m, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("svg: bad image data: %w", err)
	}

	return m, nil
}
