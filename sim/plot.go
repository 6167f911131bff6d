package sim

import (
	"fmt"
	"image/color"

	"github.com/golang/geo/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// NewSpeedPlot creates new plot of the simulation speeds from the three data sources:
// true:     vehicle speed
// measured: sensor speed
// filtered: filter speed
// It returns error if the plot fails to be created. This can be due to either of the following conditions:
// * r is nil
// * r does not contain at least 2 records
// * gonum plot fails to be created
func NewSpeedPlot(r *Result) (*plot.Plot, error) {
	if r == nil {
		return nil, fmt.Errorf("invalid result supplied")
	}

	if len(r.Records) < 2 {
		return nil, fmt.Errorf("invalid number of records: %d", len(r.Records))
	}

	p := plot.New()

	p.Title.Text = "Velocity"
	p.X.Label.Text = "time [s]"
	p.Y.Label.Text = "speed [m/s]"

	p.Legend.Top = true
	p.Legend.Left = true

	p.Add(plotter.NewGrid())

	// Make a line plotter for true speed
	trueLine, err := plotter.NewLine(speedPoints(r, func(rec Record) r3.Vector { return rec.True }))
	if err != nil {
		return nil, err
	}
	trueLine.LineStyle.Color = color.RGBA{R: 255, B: 128, A: 255}
	trueLine.LineStyle.Width = vg.Points(1.5)

	p.Add(trueLine)
	p.Legend.Add("true", trueLine)

	// Make a scatter plotter for measurement data
	measScatter, err := plotter.NewScatter(speedPoints(r, func(rec Record) r3.Vector { return rec.Measured }))
	if err != nil {
		return nil, err
	}
	measScatter.GlyphStyle.Color = color.RGBA{G: 200, A: 255}
	measScatter.GlyphStyle.Radius = vg.Points(2)
	measScatter.Shape = draw.CircleGlyph{}

	p.Add(measScatter)
	p.Legend.Add("measured", measScatter)

	// Make a line plotter for filter data
	filterLine, err := plotter.NewLine(speedPoints(r, func(rec Record) r3.Vector { return rec.Filtered }))
	if err != nil {
		return nil, fmt.Errorf("failed to create line: %v", err)
	}
	filterLine.LineStyle.Color = color.RGBA{B: 200, A: 255}
	filterLine.LineStyle.Width = vg.Points(1.5)
	filterLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(filterLine)
	p.Legend.Add("filtered", filterLine)

	return p, nil
}

// SavePlot saves speed plot of r to path. Image format is chosen by path extension.
func SavePlot(r *Result, path string) error {
	p, err := NewSpeedPlot(r)
	if err != nil {
		return err
	}

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %v", err)
	}

	return nil
}

func speedPoints(r *Result, val func(Record) r3.Vector) plotter.XYs {
	pts := make(plotter.XYs, len(r.Records))
	for i, rec := range r.Records {
		pts[i].X = rec.Time.Seconds()
		pts[i].Y = val(rec).Norm()
	}

	return pts
}
