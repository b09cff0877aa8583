// Package iqplot renders scattering curves with gonum/plot.
package iqplot

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"

	// Liberation fonts register automatically on import
	_ "gonum.org/v1/plot/font/liberation"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var ErrNoPositiveData = errors.New("no positive points to plot on log axes")

type Curve struct {
	Label string
	Q     []float64
	I     []float64
}

func setFonts(p *plot.Plot) {
	p.Title.TextStyle.Font.Typeface = "Liberation"
	p.Title.TextStyle.Font.Variant = "Sans"
	p.Title.TextStyle.Font.Size = vg.Points(12)

	p.X.Label.TextStyle.Font.Typeface = "Liberation"
	p.X.Label.TextStyle.Font.Variant = "Sans"
	p.X.Label.TextStyle.Font.Size = vg.Points(12)

	p.Y.Label.TextStyle.Font.Typeface = "Liberation"
	p.Y.Label.TextStyle.Font.Variant = "Sans"
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)

	p.X.Tick.Label.Font.Typeface = "Liberation"
	p.X.Tick.Label.Font.Variant = "Sans"
	p.X.Tick.Label.Font.Size = vg.Points(10)

	p.Y.Tick.Label.Font.Typeface = "Liberation"
	p.Y.Tick.Label.Font.Variant = "Sans"
	p.Y.Tick.Label.Font.Size = vg.Points(10)
}

var palette = []color.RGBA{
	{R: 0, G: 0, B: 255, A: 255},
	{R: 255, G: 0, B: 0, A: 255},
	{R: 0, G: 150, B: 0, A: 255},
	{R: 0, G: 0, B: 0, A: 255},
}

// positive keeps the points that can be drawn on log-log axes.
func positive(q, iq []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(q))
	for i := range min(len(q), len(iq)) {
		if q[i] > 0 && iq[i] > 0 {
			pts = append(pts, plotter.XY{X: q[i], Y: iq[i]})
		}
	}
	return pts
}

// SaveIq draws the curves on log-log axes and saves them to path; the image
// format follows the extension.
func SaveIq(path, title, qUnit, iUnit string, curves ...Curve) error {
	p := plot.New()
	setFonts(p)

	p.Title.Text = title
	p.X.Label.Text = fmt.Sprintf("q (%s^-1)", qUnit)
	p.Y.Label.Text = fmt.Sprintf("I(q) (%s)", iUnit)
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	drawn := 0
	for i, curve := range curves {
		pts := positive(curve.Q, curve.I)
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = palette[i%len(palette)]
		line.Width = vg.Points(1)
		p.Add(line)
		if curve.Label != "" {
			p.Legend.Add(curve.Label, line)
		}
		drawn++
	}
	if drawn == 0 {
		return ErrNoPositiveData
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("saving plot %s: %w", path, err)
	}
	return nil
}
