package vector

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePolyline(t *testing.T) {
	b, err := Encode([]Op{NewStroke(2, Pt(10, 10), Pt(20, 10), Pt(20, 20))})
	require.Nil(t, err)
	assert.Equal(t, []byte{0xff, 0x02, 0x0a, 0x0a, 0x14, 0x0a, 0x14, 0x14, 0xff, 0xff}, b)

	ops, err := Decode(b)
	require.Nil(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, Stroke, ops[0].Mode)
	assert.Equal(t, uint8(2), ops[0].Color)
	assert.Equal(t, []Point{{10, 10}, {20, 10}, {20, 20}}, ops[0].Points)
}

func TestEncodeFill(t *testing.T) {
	b, err := Encode([]Op{NewFill(1, Pt(15, 15))})
	require.Nil(t, err)
	assert.Equal(t, []byte{0xfe, 0x01, 0x0f, 0x0f, 0xff, 0xff}, b)
	assert.Equal(t, len(b), Len([]Op{NewFill(1, Pt(15, 15))}))
}

func TestEncodeInvalid(t *testing.T) {
	_, err := Encode([]Op{NewStroke(1, Pt(0xfe, 0))})
	assert.True(t, errors.Is(err, ErrInvalidPoint))

	_, err = Encode([]Op{{Mode: Fill, Color: 1}})
	assert.NotNil(t, err)

	_, err = Encode([]Op{{Mode: 0x12, Color: 1, Points: []Point{{1, 1}}}})
	assert.True(t, errors.Is(err, errBadMode))

	// An empty stroke in color 0xff would read back as the terminator
	_, err = Encode([]Op{NewStroke(0xff), NewFill(1, Pt(1, 1))})
	assert.True(t, errors.Is(err, ErrInvalidColor))

	_, err = Encode([]Op{NewFill(4, Pt(1, 1))})
	assert.True(t, errors.Is(err, ErrInvalidColor))
}

func TestDecode(t *testing.T) {
	tables := map[string]struct {
		in   []byte
		want []Op
		err  error
	}{
		"empty": {
			[]byte{0xff, 0xff},
			nil,
			nil,
		},
		"no terminator": {
			[]byte{0xff, 0x01, 0x01, 0x02},
			[]Op{NewStroke(1, Pt(1, 2))},
			nil,
		},
		"multiple fill seeds": {
			[]byte{0xfe, 0x03, 0x01, 0x01, 0x05, 0x06, 0xff, 0xff},
			[]Op{NewFill(3, Pt(1, 1)), NewFill(3, Pt(5, 6))},
			nil,
		},
		"stroke without points": {
			[]byte{0xff, 0x01, 0xfe, 0x02, 0x03, 0x04, 0xff, 0xff},
			[]Op{NewStroke(1), NewFill(2, Pt(3, 4))},
			nil,
		},
		"fill without points": {
			[]byte{0xfe, 0x01, 0xff, 0x02, 0x03, 0x04, 0xff, 0xff},
			[]Op{NewStroke(2, Pt(3, 4))},
			nil,
		},
		"terminator stops early": {
			[]byte{0xff, 0x01, 0x01, 0x01, 0xff, 0xff, 0xff, 0x02, 0x09, 0x09},
			[]Op{NewStroke(1, Pt(1, 1))},
			nil,
		},
		"odd trailing byte": {
			[]byte{0xfe, 0x01, 0x01, 0x01, 0x07},
			[]Op{NewFill(1, Pt(1, 1))},
			nil,
		},
		"malformed": {
			[]byte{0x01, 0x01, 0xff, 0xff},
			nil,
			ErrMalformedStream,
		},
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			ops, err := Decode(table.in)
			assert.Equal(t, table.err, err)
			assert.Equal(t, table.want, ops)
		})
	}
}

func randomOps(r *rand.Rand) []Op {
	ops := make([]Op, r.Intn(20))
	for i := range ops {
		color := uint8(r.Intn(4))
		if r.Intn(2) == 0 {
			ops[i] = NewFill(color, Pt(uint8(r.Intn(MaxX+1)), uint8(r.Intn(256))))
			continue
		}
		points := make([]Point, 1+r.Intn(10))
		for j := range points {
			points[j] = Pt(uint8(r.Intn(MaxX+1)), uint8(r.Intn(256)))
		}
		ops[i] = NewStroke(color, points...)
	}
	if len(ops) == 0 {
		return nil
	}
	return ops
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		ops := randomOps(r)

		b, err := Encode(ops)
		require.Nil(t, err)
		assert.Equal(t, Len(ops), len(b))

		got, err := Decode(b)
		require.Nil(t, err)
		assert.Equal(t, ops, got, "iteration %d", i)
	}
}

func TestClosed(t *testing.T) {
	assert.True(t, NewStroke(1, Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 0)).Closed())
	assert.False(t, NewStroke(1, Pt(0, 0), Pt(10, 0)).Closed())
	assert.False(t, NewStroke(1, Pt(0, 0), Pt(10, 0), Pt(10, 10)).Closed())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "fill", Fill.String())
	assert.Equal(t, "stroke", Stroke.String())
	assert.Equal(t, "Mode(0x12)", Mode(0x12).String())
}
