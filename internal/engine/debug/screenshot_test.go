package debug

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 30, 45, 123e6, time.UTC)
}

func TestFilename(t *testing.T) {
	s := NewScreenshots("shots", "scened")
	s.now = fixedClock
	assert.Equal(t, filepath.Join("shots", "scened_2026-03-01_12-30-45.123.png"), s.Filename())

	s = NewScreenshots("", "x")
	s.now = fixedClock
	assert.Equal(t, "x_2026-03-01_12-30-45.123.png", s.Filename())
}

func TestSaveFlipsRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := NewScreenshots(dir, "cap")
	s.now = fixedClock

	// 1x2 image: bottom row red, top row blue in GL order.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	name, err := s.Save(pixels, 1, 2)
	require.NoError(t, err)

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{B: 255, A: 255}, color.RGBAModel.Convert(img.At(0, 0)))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, color.RGBAModel.Convert(img.At(0, 1)))
}

func TestSaveRejectsBadInput(t *testing.T) {
	s := NewScreenshots(t.TempDir(), "cap")

	_, err := s.Save(make([]byte, 3), 1, 1)
	assert.Error(t, err)

	_, err = s.Save(nil, 0, 0)
	assert.Error(t, err)
}
