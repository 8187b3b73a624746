// Package animation stitches the title diagram and the rendered charts into
// an animated GIF.
package animation

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
	"golang.org/x/image/draw"

	"github.com/SanteonNL/clinicalops/internal/charts"
)

const (
	Width  = 1200
	Height = 800
	// FrameDelay is the time each frame is shown, in 100ths of a second.
	FrameDelay = 200
	// FileName of the animation inside the images directory.
	FileName = "title-animation.gif"
)

var ErrNoFrames = errors.New("no images found for GIF generation")

// DefaultFrames is the title diagram followed by the four charts.
func DefaultFrames(imagesDir, outputDir string) []string {
	frames := []string{filepath.Join(imagesDir, "title_diagram.png")}
	for _, r := range []charts.Renderer{
		charts.EnrollmentTrend(),
		charts.AdverseEvents(),
		charts.Demographics(),
		charts.Vitals(),
	} {
		frames = append(frames, filepath.Join(outputDir, r.FileName()))
	}
	return frames
}

// Existing returns the paths that exist on disk, in order.
func Existing(paths []string) []string {
	return slices.DeleteFunc(slices.Clone(paths), func(p string) bool {
		info, err := os.Stat(p)
		return err != nil || info.IsDir()
	})
}

// Write encodes the existing frames in paths into a looping GIF at dest.
// Missing files are skipped; ErrNoFrames is returned when none remain.
func Write(paths []string, dest string, log zerolog.Logger) error {
	valid := Existing(paths)
	if len(valid) == 0 {
		log.Error().Strs("paths", paths).Msg("No images found for GIF generation")
		return ErrNoFrames
	}

	anim := &gif.GIF{LoopCount: 0}
	for _, path := range valid {
		src, err := decodeFile(path)
		if err != nil {
			return err
		}
		anim.Image = append(anim.Image, Frame(src))
		anim.Delay = append(anim.Delay, FrameDelay)
		log.Debug().Str("frame", path).Msg("Added frame")
	}

	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dest, err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Info().Str("path", dest).Int("frames", len(anim.Image)).Msg("Saved animated GIF")
	return nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// Frame fits src into a white Width×Height canvas, centered, and reduces it
// to a palette. Images are shrunk to fit but never enlarged.
func Frame(src image.Image) *image.Paletted {
	canvas := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	sb := src.Bounds()
	w, h := fit(sb.Dx(), sb.Dy(), Width, Height)
	offset := image.Pt((Width-w)/2, (Height-h)/2)
	dst := image.Rectangle{Min: offset, Max: offset.Add(image.Pt(w, h))}
	if w == sb.Dx() && h == sb.Dy() {
		draw.Draw(canvas, dst, src, sb.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(canvas, dst, src, sb, draw.Over, nil)
	}

	out := image.NewPaletted(canvas.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(out, out.Bounds(), canvas, image.Point{})
	return out
}

// fit returns the size of a w×h image shrunk to fit maxW×maxH with its
// aspect ratio kept.
func fit(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := max(1, int(float64(w)*scale+0.5))
	nh := max(1, int(float64(h)*scale+0.5))
	return min(nw, maxW), min(nh, maxH)
}
