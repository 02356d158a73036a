/*
Package kickart is a library for converting the Amiga Kickstart 1.3 boot logo
to and from SVG.

The logo is held in the ROM as a stream of vector drawing instructions, a
stream of 1-bit bitmap blocks and a 4 color palette. Decoding renders these
to PNG, BMP or SVG. Encoding compiles an edited SVG back into instructions,
reduces its colors to the palette, patches the ROM and repairs its checksum.
*/
package kickart

import (
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"time"

	"github.com/bodgit/kickart/bitmap"
	"github.com/bodgit/kickart/compile"
	"github.com/bodgit/kickart/palette"
	"github.com/bodgit/kickart/rom"
	"github.com/bodgit/kickart/svg"
	"github.com/bodgit/kickart/vector"
)

var errNoHistory = errors.New("no history database")

// Options configures a KickArt.
type Options struct {
	// Layout of the ROM, rom.Kickstart13 if unset
	Layout rom.Layout
	// Reducer used to reduce artwork to the palette, palette.MedianCut
	// if unset
	Reducer palette.Reducer
	// Strict makes overfilling the vector region an error rather than a
	// warning
	Strict bool
}

type KickArt struct {
	history *History
	logger  *log.Logger
	options Options
}

// New returns a KickArt. If db is not empty, patches are recorded in the
// history database stored there.
func New(db string, logger *log.Logger, options Options) (*KickArt, error) {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	if options.Layout.Size == 0 {
		options.Layout = rom.Kickstart13
	}
	if options.Reducer == nil {
		options.Reducer = palette.MedianCut{}
	}

	k := &KickArt{
		logger:  logger,
		options: options,
	}

	if db != "" {
		h, err := NewHistory(db)
		if err != nil {
			return nil, err
		}
		k.history = h
	}

	return k, nil
}

// Close closes the history database, if any.
func (k *KickArt) Close() error {
	if k.history == nil {
		return nil
	}
	return k.history.Close()
}

// Decode decodes the boot logo held in img.
func (k *KickArt) Decode(img *rom.Image) (*Logo, error) {
	p, err := palette.Decode(img.Palette())
	if err != nil {
		return nil, err
	}

	ops, err := vector.Decode(img.Vectors())
	if err != nil {
		return nil, err
	}

	blocks, err := bitmap.Decode(img.Bitmaps())
	if err != nil {
		return nil, err
	}

	return &Logo{
		Layout:  img.Layout(),
		Palette: p,
		Ops:     ops,
		Blocks:  blocks,
		Valid:   img.Valid(),
	}, nil
}

// DecodeFile decodes the boot logo in the ROM image stored in file.
func (k *KickArt) DecodeFile(file string) (*Logo, error) {
	img, err := rom.Open(file, k.options.Layout)
	if err != nil {
		return nil, err
	}
	return k.Decode(img)
}

// Encode compiles doc into a boot logo and patches it into img, repairing
// the checksum. Problems with the artwork are logged and the best possible
// logo is still written.
func (k *KickArt) Encode(img *rom.Image, doc *svg.Document) (*Logo, error) {
	s := compile.New(img.Layout(), k.logger)
	s.Compile(doc)

	q := palette.NewQuantizer(s.Canvas, k.options.Reducer)

	// The background takes the first slot
	q.Index(s.Canvas.Pixel(0, 0))

	ops := make([]vector.Op, len(s.Ops))
	for i, o := range s.Ops {
		ops[i] = o.Vector(q.Index(o.Color))
	}

	b, err := vector.Encode(ops)
	if err != nil {
		return nil, err
	}

	if err := img.PatchVectors(b); err != nil {
		if !errors.Is(err, rom.ErrCapacityExceeded) || k.options.Strict {
			return nil, err
		}
		k.logger.Println("Warning:", err)
	}

	if len(s.Images) > 0 {
		k.logger.Printf("Dropping %d embedded images: %v", len(s.Images), bitmap.ErrNotImplemented)
	}

	b, err = bitmap.Encode(nil)
	if err != nil {
		return nil, err
	}
	if err := img.PatchBitmaps(b); err != nil {
		return nil, err
	}

	p := q.Palette()
	if b, err = p.MarshalBinary(); err != nil {
		return nil, err
	}
	if err := img.PatchPalette(b); err != nil {
		return nil, err
	}

	if err := img.RepairChecksum(); err != nil {
		return nil, err
	}

	return &Logo{
		Layout:  img.Layout(),
		Palette: p,
		Ops:     ops,
		Valid:   img.Valid(),
	}, nil
}

// EncodeFile compiles the SVG document in artwork into the ROM image
// stored in source and writes the patched image to target. The patch is
// recorded in the history database.
func (k *KickArt) EncodeFile(source, artwork, target string) (*Logo, error) {
	img, err := rom.Open(source, k.options.Layout)
	if err != nil {
		return nil, err
	}
	sourceCRC := fingerprint(img.Bytes())

	f, err := os.Open(artwork)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := svg.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", artwork, err)
	}

	logo, err := k.Encode(img, doc)
	if err != nil {
		return nil, err
	}

	w, err := os.Create(target)
	if err != nil {
		return nil, err
	}
	defer w.Close()

	if _, err := img.WriteTo(w); err != nil {
		return nil, err
	}

	if k.history != nil {
		if _, err := k.history.Record(Patch{
			Time:      time.Now(),
			Source:    source,
			SourceCRC: sourceCRC,
			Target:    target,
			TargetCRC: fingerprint(img.Bytes()),
			Artwork:   artwork,
			Vectors:   vector.Len(logo.Ops),
			Palette:   logo.Palette.String(),
		}); err != nil {
			return nil, err
		}
	}

	return logo, w.Close()
}

// Patches returns every recorded patch, oldest first.
func (k *KickArt) Patches() ([]Patch, error) {
	if k.history == nil {
		return nil, errNoHistory
	}
	return k.history.List()
}

// Provenance returns the recorded patches that produced the ROM image in
// file, most recent first.
func (k *KickArt) Provenance(file string) ([]Patch, error) {
	if k.history == nil {
		return nil, errNoHistory
	}

	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}

	return k.history.Lookup(fingerprint(b))
}
