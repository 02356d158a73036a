/*
Package checksum implements the 32-bit carry checksum used by the Amiga
Kickstart ROM.

The ROM is treated as a sequence of big-endian 32-bit words which are summed
together. Whenever the running total overflows 32 bits the total is reduced by
0xffffffff rather than 0x100000000, which folds the carry back into the sum. A
valid ROM sums to exactly 0xffffffff.
*/
package checksum

import (
	"encoding/binary"
	"errors"
	"hash"
)

// The size of a checksum in bytes.
const Size = 4

// Valid is the sum of every word in a correctly checksummed ROM.
const Valid = 0xffffffff

var errUnaligned = errors.New("checksum: offset is not word aligned or out of range")

type digest struct {
	sum uint32
	buf [Size]byte
	n   int
}

// New creates a new hash.Hash32 computing the carry checksum. Its Sum method
// will lay the value out in big-endian byte order. Input that is not a
// multiple of four bytes is held back until the word is complete.
func New() hash.Hash32 {
	return &digest{}
}

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return Size }

func (d *digest) Reset() {
	d.sum = 0
	d.n = 0
}

func add(sum, word uint32) uint32 {
	s := uint64(sum) + uint64(word)
	if s > Valid {
		s -= Valid
	}
	return uint32(s)
}

func update(sum uint32, p []byte) uint32 {
	for ; len(p) >= Size; p = p[Size:] {
		sum = add(sum, binary.BigEndian.Uint32(p))
	}
	return sum
}

// Update returns the result of adding the whole words in p to sum. Any
// trailing bytes that do not form a complete word are ignored.
func Update(sum uint32, p []byte) uint32 {
	return update(sum, p)
}

func (d *digest) Write(p []byte) (n int, err error) {
	n = len(p)
	if d.n > 0 {
		c := copy(d.buf[d.n:], p)
		d.n += c
		p = p[c:]
		if d.n < Size {
			return
		}
		d.sum = update(d.sum, d.buf[:])
		d.n = 0
	}
	whole := len(p) &^ (Size - 1)
	d.sum = update(d.sum, p[:whole])
	d.n = copy(d.buf[:], p[whole:])
	return
}

func (d *digest) Sum32() uint32 { return d.sum }

func (d *digest) Sum(in []byte) []byte {
	s := d.Sum32()
	return append(in, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}

// Checksum returns the carry checksum of data.
func Checksum(data []byte) uint32 { return Update(0, data) }

// Repair recomputes the checksum word stored at offset so that the whole of
// data sums to Valid. The word is zeroed first and only written back if the
// remaining words do not already sum to Valid.
func Repair(data []byte, offset int) error {
	if offset < 0 || offset%Size != 0 || offset+Size > len(data) {
		return errUnaligned
	}

	binary.BigEndian.PutUint32(data[offset:], 0)

	if sum := Checksum(data); sum != Valid {
		binary.BigEndian.PutUint32(data[offset:], Valid-sum)
	}

	return nil
}

// Verify reports whether data sums to Valid.
func Verify(data []byte) bool {
	return Checksum(data) == Valid
}
