// Command velsim simulates a vehicle with a noisy velocity sensor and filters the
// measurements with a Kalman filter.
package main

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/alecthomas/kong"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/milosgajdos/go-velocity/sim"
	"go.uber.org/zap"
)

var cli struct {
	Config string `short:"c" type:"existingfile" help:"YAML simulation config. Defaults are used when omitted."`
	Steps  int    `short:"n" help:"Override the number of simulated sensor ticks."`
	Seed   uint64 `help:"Override the sensor noise seed."`
	Gain   string `help:"Override the Kalman gain form (standard, augmented)."`
	Plot   string `short:"p" placeholder:"FILE" help:"Save speed plot to FILE (png, svg, pdf)."`
	Table  bool   `short:"t" help:"Print every simulated tick."`
	Debug  bool   `short:"d" help:"Log filter diagnostics."`
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}

func loadConfig() (sim.Config, error) {
	c := sim.DefaultConfig()
	if cli.Config != "" {
		var err error
		if c, err = sim.LoadConfig(cli.Config); err != nil {
			return sim.Config{}, err
		}
	}

	if cli.Steps != 0 {
		c.Steps = cli.Steps
	}
	if cli.Seed != 0 {
		c.Seed = cli.Seed
	}
	if cli.Gain != "" {
		c.GainForm = cli.Gain
	}

	return c, nil
}

func renderTicks(w io.Writer, res *sim.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"time", "true", "measured", "filtered", "innovation"})

	for _, rec := range res.Records {
		t.AppendRow(table.Row{
			rec.Time,
			fmt.Sprintf("%.3f", rec.True.Norm()),
			fmt.Sprintf("%.3f", rec.Measured.Norm()),
			fmt.Sprintf("%.3f", rec.Filtered.Norm()),
			fmt.Sprintf("%.3f", rec.Innovation.Norm()),
		})
	}

	t.Render()
}

func renderSummary(w io.Writer, c sim.Config, res *sim.Result) error {
	measured, filtered := res.RMSE()

	cov, err := res.InnovationCov()
	if err != nil {
		return err
	}
	d := cov.Diagonal()
	r := c.MeasurementNoiseScalar * c.SensorNoise

	smoothed, err := res.Smooth(c)
	if err != nil {
		return err
	}
	var sse float64
	for i, rec := range res.Records {
		sse += smoothed[i].Sub(rec.True).Norm2()
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("velocity filter")
	t.AppendHeader(table.Row{"metric", "value"})
	t.AppendRows([]table.Row{
		{"steps", len(res.Records)},
		{"gain form", c.GainForm},
		{"measured RMSE", fmt.Sprintf("%.4f", measured)},
		{"filtered RMSE", fmt.Sprintf("%.4f", filtered)},
		{"smoothed RMSE", fmt.Sprintf("%.4f", math.Sqrt(sse/float64(len(smoothed))))},
		{"measurement noise R", fmt.Sprintf("%.4f", r)},
		{"innovation variance", fmt.Sprintf("%.4f %.4f %.4f", d.X, d.Y, d.Z)},
	})
	t.Render()

	return nil
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("velsim"),
		kong.Description("Kalman filtered vehicle velocity simulation."),
		kong.HelpOptions{Compact: true},
		kong.UsageOnError(),
	)

	logger, err := newLogger(cli.Debug)
	ctx.FatalIfErrorf(err)
	defer func() { _ = logger.Sync() }()

	c, err := loadConfig()
	ctx.FatalIfErrorf(err)

	res, err := sim.Run(c, logger)
	ctx.FatalIfErrorf(err)

	if cli.Table {
		renderTicks(os.Stdout, res)
	}

	ctx.FatalIfErrorf(renderSummary(os.Stdout, c, res))

	if cli.Plot != "" {
		ctx.FatalIfErrorf(sim.SavePlot(res, cli.Plot))
		logger.Info("plot saved", zap.String("path", cli.Plot))
	}
}
