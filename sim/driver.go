package sim

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/milosgajdos/go-velocity/kalman/kf"
	"github.com/milosgajdos/go-velocity/matrix"
)

// Driver feeds vehicle dynamics and velocity measurements into a Kalman filter
// once per sensor tick. Driver owns its filter exclusively.
type Driver struct {
	// f is the velocity filter
	f *kf.KF
	// dyn derives control input from vehicle dynamics
	dyn Dynamics
	// dt is sensor update interval in seconds
	dt float64
	// r is measurement noise covariance
	r matrix.Mat3
	// q is process noise covariance
	q matrix.Mat3
	// b is control matrix
	b matrix.Mat3
	// bu is the control contribution of the last tick
	bu r3.Vector
}

// NewDriver creates new Driver for filter f configured by c and returns it.
// It returns error if f is nil.
func NewDriver(f *kf.KF, c Config) (*Driver, error) {
	if f == nil {
		return nil, fmt.Errorf("invalid filter: %v", f)
	}

	rv := c.MeasurementNoiseScalar * c.SensorNoise
	qv := c.ProcessNoiseScalar

	b := matrix.Mat3{}
	if c.UseControlMatrix {
		b = matrix.Identity()
	}

	f.SetStateTransition(matrix.Identity())
	f.SetMeasurementMatrix(1.0)

	return &Driver{
		f:   f,
		dyn: Dynamics{VehicleConfig: c.Vehicle},
		dt:  c.Interval.Seconds(),
		r:   matrix.Diag(rv, rv, rv),
		q:   matrix.Diag(qv, qv, qv),
		b:   b,
	}, nil
}

// Tick runs one filter cycle for velocity measurement z of a vehicle with the given heading.
// It updates the filter noise and control model, predicts, corrects the prediction with z
// and returns the filtered velocity.
func (d *Driver) Tick(z r3.Vector, heading float64) (r3.Vector, error) {
	speed := z.Norm()
	accel := d.dyn.ControlAcceleration(speed)

	d.f.SetMeasurementNoise(d.r)
	d.f.SetProcessNoise(d.q)
	u := ControlVector(d.dt, accel, d.dyn.SteerAngle, heading)
	d.f.SetControlVector(u)
	d.f.SetControlMatrix(d.b)
	d.bu = d.b.MulVec(u)

	if err := d.f.Predict(); err != nil {
		return r3.Vector{}, fmt.Errorf("prediction failed: %w", err)
	}

	if err := d.f.Update(z); err != nil {
		return r3.Vector{}, fmt.Errorf("update failed: %w", err)
	}

	return d.f.State(), nil
}

// Control returns B*u applied by the prediction of the last tick.
func (d *Driver) Control() r3.Vector {
	return d.bu
}

// Filter returns the driver filter.
func (d *Driver) Filter() *kf.KF {
	return d.f
}
