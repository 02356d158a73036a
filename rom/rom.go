package rom

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bodgit/kickart/checksum"
)

var (
	// ErrCapacityExceeded is returned when patched data does not fit
	// the region reserved for it. The data is still written.
	ErrCapacityExceeded = errors.New("rom: region capacity exceeded")

	// ErrSize is returned when an image does not match the layout size.
	ErrSize = errors.New("rom: image is wrong size")
)

// CapacityError describes a region that was overfilled.
type CapacityError struct {
	Region   string
	Length   int
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("rom: %s data too large, %d > %d bytes", e.Region, e.Length, e.Capacity)
}

// Is reports whether target is ErrCapacityExceeded.
func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// Image is a ROM image held in memory.
type Image struct {
	layout Layout
	data   []byte
}

// New wraps data as a ROM image using the given layout. The data is not
// copied and patches modify it in place.
func New(data []byte, layout Layout) (*Image, error) {
	if len(data) != layout.Size {
		return nil, ErrSize
	}
	return &Image{
		layout: layout,
		data:   data,
	}, nil
}

// Read reads a ROM image from r.
func Read(r io.Reader, layout Layout) (*Image, error) {
	b, err := io.ReadAll(io.LimitReader(r, int64(layout.Size)+1))
	if err != nil {
		return nil, err
	}
	return New(b, layout)
}

// Open reads the ROM image stored in file.
func Open(file string, layout Layout) (*Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f, layout)
}

// Layout returns the layout of the image.
func (i *Image) Layout() Layout {
	return i.layout
}

// Bytes returns the underlying image data.
func (i *Image) Bytes() []byte {
	return i.data
}

func (i *Image) region(r Region) []byte {
	return i.data[r.Offset:r.End()]
}

// Palette returns the palette region.
func (i *Image) Palette() []byte {
	return i.region(i.layout.Palette)
}

// Vectors returns the vector instruction region.
func (i *Image) Vectors() []byte {
	return i.region(i.layout.Vectors)
}

// Bitmaps returns the bitmap block region.
func (i *Image) Bitmaps() []byte {
	return i.region(i.layout.Bitmaps)
}

// patch copies b into the image at the start of region r. Anything beyond
// the region capacity is still written, up to the end of the image, and a
// *CapacityError is returned.
func (i *Image) patch(name string, r Region, b []byte) error {
	copy(i.data[r.Offset:], b)
	if len(b) > r.Capacity {
		return &CapacityError{
			Region:   name,
			Length:   len(b),
			Capacity: r.Capacity,
		}
	}
	return nil
}

// PatchPalette overwrites the palette region.
func (i *Image) PatchPalette(b []byte) error {
	return i.patch("palette", i.layout.Palette, b)
}

// PatchVectors overwrites the vector instruction region.
func (i *Image) PatchVectors(b []byte) error {
	return i.patch("vector", i.layout.Vectors, b)
}

// PatchBitmaps overwrites the bitmap block region.
func (i *Image) PatchBitmaps(b []byte) error {
	return i.patch("image", i.layout.Bitmaps, b)
}

// RepairChecksum recomputes the checksum word after patching.
func (i *Image) RepairChecksum() error {
	return checksum.Repair(i.data, i.layout.ChecksumOffset())
}

// Valid reports whether the stored checksum matches the image.
func (i *Image) Valid() bool {
	return checksum.Verify(i.data)
}

// WriteTo writes the image to w.
func (i *Image) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(i.data)
	return int64(n), err
}
