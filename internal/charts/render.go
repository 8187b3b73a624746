// Package charts holds the fixed reporting templates. Each template binds the
// same fields with the same styling every time; there is no dynamic field
// selection.
package charts

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/SanteonNL/clinicalops/internal/dataset"
	"github.com/SanteonNL/clinicalops/models/trial"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DPI matches the default figure resolution, so a 10x6 inch chart is
// 1000x600 pixels.
const DPI = 100

// Renderer draws one chart from the full dataset into a PNG file.
type Renderer interface {
	// FileName is the fixed output name, e.g. "adverse_events.png".
	FileName() string
	Render(ds *dataset.Dataset, path string) error
}

// template is a fixed figure size plus a function that builds the plot.
type template struct {
	fileName string
	title    string
	width    vg.Length
	height   vg.Length
	build    func(records []trial.PatientRecord) (*plot.Plot, error)
}

func (t *template) FileName() string {
	return t.fileName
}

// Title is the chart heading, used in log lines.
func (t *template) Title() string {
	return t.title
}

func (t *template) Render(ds *dataset.Dataset, path string) error {
	if ds == nil {
		return fmt.Errorf("failed to render %s: no dataset loaded", t.fileName)
	}
	p, err := t.build(ds.Records)
	if err != nil {
		return fmt.Errorf("failed to build %s: %w", t.fileName, err)
	}
	return Save(p, t.width, t.height, path)
}

// Save writes p as a PNG of the given size, replacing any existing file.
func Save(p *plot.Plot, width, height vg.Length, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}

	img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(DPI))
	p.Draw(draw.New(img))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode chart %s: %w", path, err)
	}
	return file.Close()
}

// newPlot applies the shared title and axis label styling.
func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = xLabel
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.Text = yLabel
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	return p
}

// dashedGrid returns grid lines drawn dashed and faded to the given alpha.
func dashedGrid(alpha float64, vertical bool) *plotter.Grid {
	grid := plotter.NewGrid()
	faded := withAlpha(color.Gray{Y: 176}, alpha)
	dashes := []vg.Length{vg.Points(4), vg.Points(2)}

	grid.Horizontal.Color = faded
	grid.Horizontal.Dashes = dashes
	if vertical {
		grid.Vertical.Color = faded
		grid.Vertical.Dashes = dashes
	} else {
		grid.Vertical.Color = nil
	}
	return grid
}

func withAlpha(c color.Color, alpha float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(alpha * 255)
	return n
}

func hexColor(s string) color.NRGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		panic(fmt.Sprintf("charts: bad color %q", s))
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

var (
	// four samples of the viridis colormap
	viridis = []color.NRGBA{hexColor("#414487"), hexColor("#2A788E"), hexColor("#22A884"), hexColor("#7AD151")}
	deep    = []color.NRGBA{hexColor("#4C72B0"), hexColor("#DD8452"), hexColor("#55A868")}
	pastel  = []color.NRGBA{hexColor("#A1C9F4"), hexColor("#FFB482"), hexColor("#8DE5A1")}
	teal    = hexColor("#008080")
	red     = hexColor("#FF0000")
)

// genderColor maps a gender to its palette entry by legend order.
func genderColor(palette []color.NRGBA, g trial.Gender) color.NRGBA {
	for i, candidate := range trial.Genders() {
		if candidate == g {
			return palette[i%len(palette)]
		}
	}
	return palette[len(palette)-1]
}
