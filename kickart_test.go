package kickart

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bodgit/kickart/bitmap"
	"github.com/bodgit/kickart/palette"
	"github.com/bodgit/kickart/rom"
	"github.com/bodgit/kickart/svg"
	"github.com/bodgit/kickart/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

var testPalette = []byte{0x0f, 0xff, 0x00, 0x00, 0x07, 0x7c, 0x0b, 0xbb}

// exact reduces an image by keeping its first n distinct colors.
type exact struct{}

func (exact) Reduce(m image.Image, n int) *image.Paletted {
	var p color.Palette
	seen := map[color.NRGBA]bool{}
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			if !seen[c] && len(p) < n {
				seen[c] = true
				p = append(p, c)
			}
		}
	}
	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

func testOps() []vector.Op {
	return []vector.Op{
		vector.NewStroke(1, vector.Pt(0, 0), vector.Pt(10, 0), vector.Pt(10, 10), vector.Pt(0, 10), vector.Pt(0, 0)),
		vector.NewFill(2, vector.Pt(5, 5)),
		vector.NewStroke(1, vector.Pt(20, 0), vector.Pt(30, 0)),
	}
}

func testImage(t *testing.T, blocks []bitmap.Block) *rom.Image {
	img, err := rom.New(make([]byte, rom.Kickstart13.Size), rom.Kickstart13)
	require.Nil(t, err)

	require.Nil(t, img.PatchPalette(testPalette))

	b, err := vector.Encode(testOps())
	require.Nil(t, err)
	require.Nil(t, img.PatchVectors(b))

	b, err = bitmap.Encode(blocks)
	require.Nil(t, err)
	require.Nil(t, img.PatchBitmaps(b))

	require.Nil(t, img.RepairChecksum())

	return img
}

func newKickArt(t *testing.T, db string, strict bool) (*KickArt, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	k, err := New(db, log.New(buf, "", 0), Options{Reducer: exact{}, Strict: strict})
	require.Nil(t, err)
	t.Cleanup(func() { k.Close() })
	return k, buf
}

func TestDecode(t *testing.T) {
	blocks := []bitmap.Block{{Color: 3, Width: 1, Height: 1, X: 40, Y: 2, Words: []uint16{0xf000}}}
	k, _ := newKickArt(t, "", false)

	logo, err := k.Decode(testImage(t, blocks))
	require.Nil(t, err)

	assert.True(t, logo.Valid)
	assert.Equal(t, testOps(), logo.Ops)
	assert.Equal(t, blocks, logo.Blocks)
	assert.Equal(t, "#ffffff #000000 #7777cc #bbbbbb", logo.Palette.String())

	assert.Equal(t, Stats{Strokes: 2, Fills: 1, VectorBytes: 24, BitmapBytes: 10}, logo.Stats())
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "kick.rom")
	require.Nil(t, ioutil.WriteFile(file, testImage(t, nil).Bytes(), 0644))

	k, _ := newKickArt(t, "", false)
	logo, err := k.DecodeFile(file)
	require.Nil(t, err)
	assert.Len(t, logo.Ops, 3)

	_, err = k.DecodeFile(filepath.Join(dir, "missing.rom"))
	assert.True(t, os.IsNotExist(err))

	short := filepath.Join(dir, "short.rom")
	require.Nil(t, ioutil.WriteFile(short, []byte{0x00}, 0644))
	_, err = k.DecodeFile(short)
	assert.Equal(t, rom.ErrSize, err)
}

func TestWritePNG(t *testing.T) {
	k, _ := newKickArt(t, "", false)
	logo, err := k.Decode(testImage(t, nil))
	require.Nil(t, err)

	buf := new(bytes.Buffer)
	require.Nil(t, logo.WritePNG(buf))

	m, err := png.Decode(buf)
	require.Nil(t, err)
	assert.Equal(t, image.Rect(0, 0, 320, 200), m.Bounds())
	assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, color.NRGBAModel.Convert(m.At(0, 0)))
	assert.Equal(t, color.NRGBA{0x00, 0x00, 0x00, 0xff}, color.NRGBAModel.Convert(m.At(70, 40)))
	assert.Equal(t, color.NRGBA{0x77, 0x77, 0xcc, 0xff}, color.NRGBAModel.Convert(m.At(75, 45)))
}

func TestWriteBMP(t *testing.T) {
	k, _ := newKickArt(t, "", false)
	logo, err := k.Decode(testImage(t, nil))
	require.Nil(t, err)

	buf := new(bytes.Buffer)
	require.Nil(t, logo.WriteBMP(buf))

	m, err := bmp.Decode(buf)
	require.Nil(t, err)
	assert.Equal(t, image.Rect(0, 0, 320, 200), m.Bounds())
	r, g, b, _ := m.At(75, 45).RGBA()
	assert.Equal(t, []uint32{0x7777, 0x7777, 0xcccc}, []uint32{r, g, b})
}

func TestWriteSVG(t *testing.T) {
	blocks := []bitmap.Block{{Color: 3, Width: 1, Height: 1, X: 40, Y: 2, Words: []uint16{0xf000}}}
	k, _ := newKickArt(t, "", false)
	logo, err := k.Decode(testImage(t, blocks))
	require.Nil(t, err)

	buf := new(bytes.Buffer)
	require.Nil(t, logo.WriteSVG(buf))

	out := buf.String()
	assert.Contains(t, out, `<polygon points="0,0 10,0 10,10 0,10" fill="none" stroke="#000000" stroke-width="1">`)
	assert.Contains(t, out, `<circle cx="5" cy="5" r="0.5" fill="#7777cc" stroke="none">`)
	assert.Contains(t, out, `<line x1="20" y1="0" x2="30" y2="0" fill="none" stroke="#000000" stroke-width="1">`)
	assert.Contains(t, out, `<image x="40" y="2" width="16" height="1" xlink:href="data:image/png;base64,`)
}

func TestEncode(t *testing.T) {
	doc, err := svg.Parse(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg">
		<g transform="translate(70,40)">
			<polygon points="0,0 10,0 10,10 0,10" fill="#ff0000" stroke="none"/>
		</g>
	</svg>`))
	require.Nil(t, err)

	k, _ := newKickArt(t, "", false)
	img := testImage(t, nil)

	logo, err := k.Encode(img, doc)
	require.Nil(t, err)
	assert.True(t, logo.Valid)
	assert.True(t, img.Valid())

	assert.Equal(t, []byte{
		0xff, 0x01, 0x00, 0x00, 0x0a, 0x00, 0x0a, 0x0a, 0x00, 0x0a, 0x00, 0x00,
		0xfe, 0x01, 0x01, 0x01,
		0xff, 0xff,
	}, img.Vectors()[:18])
	assert.Equal(t, []byte{0xff, 0xff}, img.Bitmaps()[:2])
	assert.Equal(t, []byte{0x0f, 0xff, 0x0f, 0x00, 0x00, 0x00, 0x00, 0x00}, img.Palette())

	decoded, err := k.Decode(img)
	require.Nil(t, err)
	assert.Equal(t, logo.Ops, decoded.Ops)
	assert.Equal(t, logo.Palette, decoded.Palette)
	assert.Nil(t, decoded.Blocks)
}

func TestEncodeRoundTrip(t *testing.T) {
	k, _ := newKickArt(t, "", false)
	logo, err := k.Decode(testImage(t, nil))
	require.Nil(t, err)

	buf := new(bytes.Buffer)
	require.Nil(t, logo.WriteSVG(buf))

	doc, err := svg.Parse(buf)
	require.Nil(t, err)

	img, err := rom.New(make([]byte, rom.Kickstart13.Size), rom.Kickstart13)
	require.Nil(t, err)
	_, err = k.Encode(img, doc)
	require.Nil(t, err)

	again, err := k.Decode(img)
	require.Nil(t, err)
	assert.Equal(t, logo.Ops, again.Ops)
	assert.Equal(t, logo.Palette[:3], again.Palette[:3])
}

func TestEncodeImages(t *testing.T) {
	blocks := []bitmap.Block{{Color: 3, Width: 1, Height: 1, X: 40, Y: 2, Words: []uint16{0xf000}}}
	k, logged := newKickArt(t, "", false)
	logo, err := k.Decode(testImage(t, blocks))
	require.Nil(t, err)

	buf := new(bytes.Buffer)
	require.Nil(t, logo.WriteSVG(buf))
	doc, err := svg.Parse(buf)
	require.Nil(t, err)

	img := testImage(t, blocks)
	_, err = k.Encode(img, doc)
	require.Nil(t, err)

	assert.Contains(t, logged.String(), bitmap.ErrNotImplemented.Error())
	assert.Equal(t, []byte{0xff, 0xff}, img.Bitmaps()[:2])
}

func manyLines(n int) *svg.Document {
	var sb strings.Builder
	sb.WriteString(`<svg xmlns="http://www.w3.org/2000/svg">`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, `<line x1="70" y1="%d" x2="80" y2="%d"/>`, 40+i, 40+i)
	}
	sb.WriteString(`</svg>`)
	doc, _ := svg.Parse(strings.NewReader(sb.String()))
	return doc
}

func TestEncodeOverCapacity(t *testing.T) {
	k, logged := newKickArt(t, "", false)
	img := testImage(t, nil)

	// 100 lines of 6 bytes each
	_, err := k.Encode(img, manyLines(100))
	require.Nil(t, err)
	assert.Contains(t, logged.String(), "Warning:")
	assert.True(t, img.Valid())

	k, _ = newKickArt(t, "", true)
	_, err = k.Encode(testImage(t, nil), manyLines(100))
	assert.True(t, errors.Is(err, rom.ErrCapacityExceeded))
}

func TestEncodeFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "kick.rom")
	artwork := filepath.Join(dir, "logo.svg")
	target := filepath.Join(dir, "patched.rom")

	img := testImage(t, nil)
	require.Nil(t, ioutil.WriteFile(source, img.Bytes(), 0644))
	require.Nil(t, ioutil.WriteFile(artwork, []byte(`<svg xmlns="http://www.w3.org/2000/svg"><line x1="70" y1="40" x2="80" y2="40"/></svg>`), 0644))

	k, _ := newKickArt(t, filepath.Join(dir, "history.db"), false)

	logo, err := k.EncodeFile(source, artwork, target)
	require.Nil(t, err)
	require.Len(t, logo.Ops, 1)

	b, err := ioutil.ReadFile(target)
	require.Nil(t, err)
	patched, err := rom.New(b, rom.Kickstart13)
	require.Nil(t, err)
	assert.True(t, patched.Valid())

	patches, err := k.Patches()
	require.Nil(t, err)
	require.Len(t, patches, 1)
	assert.Equal(t, source, patches[0].Source)
	assert.Equal(t, fingerprint(img.Bytes()), patches[0].SourceCRC)
	assert.Equal(t, target, patches[0].Target)
	assert.Equal(t, fingerprint(b), patches[0].TargetCRC)
	assert.Equal(t, artwork, patches[0].Artwork)
	assert.Equal(t, 8, patches[0].Vectors)

	found, err := k.Provenance(target)
	require.Nil(t, err)
	assert.Equal(t, patches, found)

	found, err = k.Provenance(source)
	require.Nil(t, err)
	assert.Empty(t, found)

	_, err = k.EncodeFile(source, filepath.Join(dir, "missing.svg"), target)
	assert.True(t, os.IsNotExist(err))
}

func TestPatchesWithoutHistory(t *testing.T) {
	k, _ := newKickArt(t, "", false)
	_, err := k.Patches()
	assert.Equal(t, errNoHistory, err)
	_, err = k.Provenance("kick.rom")
	assert.Equal(t, errNoHistory, err)
}

func TestWriteInfo(t *testing.T) {
	blocks := []bitmap.Block{{Color: 3, Width: 1, Height: 1, X: 40, Y: 2, Words: []uint16{0xf000}}}
	k, _ := newKickArt(t, "", false)
	logo, err := k.Decode(testImage(t, blocks))
	require.Nil(t, err)

	buf := new(bytes.Buffer)
	require.Nil(t, logo.WriteInfo(buf))

	out := buf.String()
	assert.Contains(t, out, "Kickstart 1.3 (34.5)")
	assert.Contains(t, out, "valid")
	assert.Contains(t, out, "#7777cc")
	assert.Contains(t, out, "2 strokes, 1 fills, 24/412 bytes")
	assert.Contains(t, out, "1 blocks, 10/310 bytes")
	assert.Contains(t, out, "color 3, 16x1 at (40,2)")
}

func TestDefaultOptions(t *testing.T) {
	k, err := New("", nil, Options{})
	require.Nil(t, err)
	defer k.Close()

	assert.Equal(t, rom.Kickstart13, k.options.Layout)
	assert.Equal(t, palette.MedianCut{}, k.options.Reducer)
}
