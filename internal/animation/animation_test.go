package animation

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), os.ModePerm))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestDefaultFrames(t *testing.T) {
	assert.Equal(t, []string{
		filepath.Join("images", "title_diagram.png"),
		filepath.Join("output", "enrollment_trend.png"),
		filepath.Join("output", "adverse_events.png"),
		filepath.Join("output", "demographics.png"),
		filepath.Join("output", "vitals_analysis.png"),
	}, DefaultFrames("images", "output"))
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	red := color.RGBA{R: 0xff, A: 0xff}
	wide := filepath.Join(dir, "wide.png")
	small := filepath.Join(dir, "small.png")
	writePNG(t, wide, 2400, 800, red)
	writePNG(t, small, 300, 200, red)

	dest := filepath.Join(dir, "images", FileName)
	err := Write([]string{wide, filepath.Join(dir, "missing.png"), small}, dest, zerolog.Nop())
	require.NoError(t, err)

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	require.NoError(t, err)

	require.Len(t, anim.Image, 2)
	assert.Equal(t, []int{FrameDelay, FrameDelay}, anim.Delay)
	assert.Equal(t, 0, anim.LoopCount)
	assert.Equal(t, Width, anim.Config.Width)
	assert.Equal(t, Height, anim.Config.Height)

	isRed := func(c color.Color) bool {
		r, g, b, _ := c.RGBA()
		return r > 0xf000 && g < 0x1000 && b < 0x1000
	}
	isWhite := func(c color.Color) bool {
		r, g, b, _ := c.RGBA()
		return r > 0xf000 && g > 0xf000 && b > 0xf000
	}

	// 2400×800 shrinks to 1200×400, leaving white bands above and below.
	first := anim.Image[0]
	assert.True(t, isWhite(first.At(600, 100)))
	assert.True(t, isRed(first.At(600, 400)))

	// 300×200 is centered without enlarging.
	second := anim.Image[1]
	assert.True(t, isRed(second.At(600, 400)))
	assert.True(t, isWhite(second.At(600, 250)))
	assert.True(t, isWhite(second.At(400, 400)))
}

func TestWrite_NoFrames(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, FileName)

	err := Write([]string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png")}, dest, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoFrames)
	assert.NoFileExists(t, dest)

	assert.ErrorIs(t, Write(nil, dest, zerolog.Nop()), ErrNoFrames)
}

func TestWrite_CorruptFrame(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))

	err := Write([]string{bad}, filepath.Join(dir, FileName), zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.png")
}

func TestExisting(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(a, nil, 0o644))
	paths := []string{filepath.Join(dir, "x.png"), a, dir}

	assert.Equal(t, []string{a}, Existing(paths))
	assert.Len(t, paths, 3, "input is not modified")
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, wantW, wantH int
	}{
		{1000, 600, 1000, 600},
		{1200, 800, 1200, 800},
		{2400, 800, 1200, 400},
		{1200, 1600, 600, 800},
		{3000, 3000, 800, 800},
		{10000, 1, 1200, 1},
	}
	for _, tt := range tests {
		w, h := fit(tt.w, tt.h, Width, Height)
		assert.Equal(t, tt.wantW, w, "%dx%d", tt.w, tt.h)
		assert.Equal(t, tt.wantH, h, "%dx%d", tt.w, tt.h)
	}
}
