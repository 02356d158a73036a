package main

import (
	"errors"
	"io"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/bodgit/kickart/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReducer(t *testing.T) {
	r, err := reducer("median-cut")
	require.Nil(t, err)
	assert.Equal(t, palette.MedianCut{}, r)

	r, err = reducer("colorquant")
	require.Nil(t, err)
	assert.Equal(t, palette.ColorQuant{}, r)

	_, err = reducer("octree")
	assert.NotNil(t, err)
}

func TestWriteFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out")

	require.Nil(t, writeFile(file, func(w io.Writer) error {
		_, err := w.Write([]byte("logo"))
		return err
	}))

	b, err := ioutil.ReadFile(file)
	require.Nil(t, err)
	assert.Equal(t, []byte("logo"), b)

	errWrite := errors.New("write failed")
	assert.Equal(t, errWrite, writeFile(file, func(io.Writer) error { return errWrite }))
}
