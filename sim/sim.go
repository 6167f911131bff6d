// Package sim runs a velocity Kalman filter against a simulated vehicle with a noisy sensor.
package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/golang/geo/r3"
	filter "github.com/milosgajdos/go-velocity"
	"github.com/milosgajdos/go-velocity/estimate"
	"github.com/milosgajdos/go-velocity/kalman/kf"
	"github.com/milosgajdos/go-velocity/matrix"
	"github.com/milosgajdos/go-velocity/noise"
	"github.com/milosgajdos/go-velocity/smooth/rts"
	mx "github.com/milosgajdos/matrix"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Record is a single simulation tick.
type Record struct {
	// Time is time since the start of the run
	Time time.Duration
	// True is the true vehicle velocity
	True r3.Vector
	// Measured is the sensor velocity measurement
	Measured r3.Vector
	// Filtered is the filter velocity estimate
	Filtered r3.Vector
	// Innovation is the filter innovation
	Innovation r3.Vector
	// Control is the control contribution B*u of the prediction
	Control r3.Vector
	// Cov is the filter covariance after the update
	Cov matrix.Mat3
}

// Result is the outcome of a simulation run.
type Result struct {
	// Records stores every simulated tick
	Records []Record
	// Measured keeps the most recent measured speeds
	Measured *History
	// Filtered keeps the most recent filtered speeds
	Filtered *History
	// True keeps the most recent true speeds
	True *History
}

// Run simulates c.Steps sensor ticks of a vehicle configured by c and filters its
// noisy velocity measurements. Filter diagnostics are logged to logger.
// It returns error if c is invalid or if any filter cycle fails.
func Run(c Config, logger *zap.Logger) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	sensor, err := newSensorNoise(c)
	if err != nil {
		return nil, err
	}

	form, err := kf.ParseGainForm(c.GainForm)
	if err != nil {
		return nil, err
	}

	f := kf.New(kf.WithLogger(logger), kf.WithGainForm(form), kf.WithStrictCycle())
	driver, err := NewDriver(f, c)
	if err != nil {
		return nil, err
	}

	vehicle := NewVehicle(c.Vehicle)
	dt := c.Interval.Seconds()

	res := &Result{
		Records:  make([]Record, 0, c.Steps),
		Measured: NewHistory(c.History),
		Filtered: NewHistory(c.History),
		True:     NewHistory(c.History),
	}

	for i := 1; i <= c.Steps; i++ {
		truth := vehicle.Step(dt)
		z := truth.Add(sensor.Sample())

		est, err := driver.Tick(z, vehicle.Heading())
		if err != nil {
			return nil, fmt.Errorf("tick %d: %w", i, err)
		}

		res.Records = append(res.Records, Record{
			Time:       time.Duration(i) * c.Interval,
			True:       truth,
			Measured:   z,
			Filtered:   est,
			Innovation: f.Innovation(),
			Control:    driver.Control(),
			Cov:        f.Cov(),
		})
		res.Measured.Push(z.Norm())
		res.Filtered.Push(est.Norm())
		res.True.Push(truth.Norm())

		logger.Debug("tick",
			zap.Int("step", i),
			zap.Float64("speed", truth.Norm()),
			zap.Float64("measured", z.Norm()),
			zap.Float64("filtered", est.Norm()),
		)
	}

	return res, nil
}

func newSensorNoise(c Config) (filter.Noise, error) {
	var opts []noise.Option
	if c.Seed != 0 {
		opts = append(opts, noise.WithSeed(c.Seed))
	}

	if c.SensorNoise == 0 {
		return noise.NewNone()
	}

	switch c.SensorNoiseKind {
	case GaussianNoise:
		v := c.SensorNoise * c.SensorNoise
		return noise.NewGaussian(r3.Vector{}, matrix.Diag(v, v, v), opts...)
	case UniformNoise:
		return noise.NewUniform(c.SensorNoise, opts...)
	default:
		return nil, fmt.Errorf("unknown sensor noise kind: %q", c.SensorNoiseKind)
	}
}

// RMSE returns root mean square error of measured and filtered velocities against true velocity.
// It returns zeros if there are no records.
func (r *Result) RMSE() (measured, filtered float64) {
	n := len(r.Records)
	if n == 0 {
		return 0, 0
	}

	truth := make([]float64, 0, 3*n)
	meas := make([]float64, 0, 3*n)
	filt := make([]float64, 0, 3*n)
	for _, rec := range r.Records {
		truth = append(truth, rec.True.X, rec.True.Y, rec.True.Z)
		meas = append(meas, rec.Measured.X, rec.Measured.Y, rec.Measured.Z)
		filt = append(filt, rec.Filtered.X, rec.Filtered.Y, rec.Filtered.Z)
	}

	norm := math.Sqrt(float64(n))

	return floats.Distance(meas, truth, 2) / norm, floats.Distance(filt, truth, 2) / norm
}

// InnovationCov returns the sample covariance of filter innovations.
// Comparing it with the configured measurement noise helps tuning the filter.
// It returns error if there are fewer than two records.
func (r *Result) InnovationCov() (matrix.Mat3, error) {
	n := len(r.Records)
	if n < 2 {
		return matrix.Mat3{}, fmt.Errorf("not enough records: %d", n)
	}

	inn := mat.NewDense(3, n, nil)
	for i, rec := range r.Records {
		inn.SetCol(i, []float64{rec.Innovation.X, rec.Innovation.Y, rec.Innovation.Z})
	}

	cov, err := mx.Cov(inn, "cols")
	if err != nil {
		return matrix.Mat3{}, fmt.Errorf("failed to calculate innovation covariance: %v", err)
	}

	return matrix.FromDense(cov)
}

// Smooth runs Rauch-Tung-Striebel smoother over the filtered velocities using process noise
// configured by c and returns smoothed velocities, one per record.
// It returns error if there are no records or if smoothing fails.
func (r *Result) Smooth(c Config) ([]r3.Vector, error) {
	qv := c.ProcessNoiseScalar
	s, err := rts.New(matrix.Identity(), matrix.Diag(qv, qv, qv))
	if err != nil {
		return nil, err
	}

	est := make([]filter.Estimate, len(r.Records))
	u := make([]r3.Vector, len(r.Records))
	for i, rec := range r.Records {
		e, err := estimate.NewBaseWithCov(rec.Filtered, rec.Cov)
		if err != nil {
			return nil, err
		}
		est[i] = e
		u[i] = rec.Control
	}

	sx, err := s.Smooth(est, u)
	if err != nil {
		return nil, fmt.Errorf("failed to smooth estimates: %w", err)
	}

	vals := make([]r3.Vector, len(sx))
	for i := range sx {
		vals[i] = sx[i].Val()
	}

	return vals, nil
}
