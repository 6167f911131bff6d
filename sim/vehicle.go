package sim

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/milosgajdos/go-velocity/matrix"
)

// standstill is the speed under which the control model assumes no acceleration.
const standstill = 0.1

// Dynamics derives longitudinal forces acting on a vehicle.
type Dynamics struct {
	VehicleConfig
}

// Area returns the surface area of the vehicle body box.
func (d Dynamics) Area() float64 {
	w, h, l := d.Width, d.Height, d.Depth
	return 2 * (w*h + w*l + h*l)
}

// RollingResistance returns the rolling resistance force derived from the wheel friction curve.
func (d Dynamics) RollingResistance() float64 {
	wheelWidth := d.WheelRadius * 2 * math.Pi / d.FrictionSlip
	coeff := d.FrictionValue * d.WheelRadius / (wheelWidth * d.FrictionSlip)

	return coeff * d.Mass
}

// DragForce returns total resistance at the given speed: aerodynamic drag plus rolling resistance.
func (d Dynamics) DragForce(speed float64) float64 {
	return 0.5*d.AirDensity*d.Drag*speed*speed*d.Area() + d.RollingResistance()
}

// Acceleration returns longitudinal acceleration at the given speed.
func (d Dynamics) Acceleration(speed float64) float64 {
	return (d.MotorForce - d.DragForce(speed)) / d.Mass
}

// ControlAcceleration returns the acceleration assumed by the control model.
// It returns zero when the vehicle is (nearly) standing still.
func (d Dynamics) ControlAcceleration(speed float64) float64 {
	if math.Abs(speed) < standstill {
		return 0
	}

	return d.Acceleration(speed)
}

// ControlVector returns the velocity change over dt in world coordinates
// for a vehicle with the given heading accelerating by accel at steering angle steer.
func ControlVector(dt, accel, steer, heading float64) r3.Vector {
	local := r3.Vector{
		X: dt * math.Cos(steer) * accel,
		Z: dt * math.Sin(steer) * accel,
	}

	return HeadingRotation(heading).MulVec(local)
}

// HeadingRotation returns rotation about the vertical Y axis which maps the X axis onto
// the direction of travel (cos(angle), 0, sin(angle)).
func HeadingRotation(angle float64) matrix.Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)

	return matrix.New(
		c, 0, -s,
		0, 1, 0,
		s, 0, c,
	)
}

// Vehicle is a kinematic bicycle model of a vehicle moving in the XZ plane.
type Vehicle struct {
	Dynamics
	// heading is direction of travel in radians
	heading float64
	// speed is forward speed in m/s
	speed float64
}

// NewVehicle creates new Vehicle and returns it.
func NewVehicle(c VehicleConfig) *Vehicle {
	return &Vehicle{
		Dynamics: Dynamics{VehicleConfig: c},
		speed:    c.InitialSpeed,
	}
}

// Step advances the vehicle by dt seconds and returns its new velocity.
func (v *Vehicle) Step(dt float64) r3.Vector {
	v.speed = math.Max(0, v.speed+v.Acceleration(v.speed)*dt)
	v.heading += v.speed / v.WheelBase * math.Tan(v.SteerAngle) * dt

	return v.Velocity()
}

// Velocity returns vehicle velocity in world coordinates.
func (v *Vehicle) Velocity() r3.Vector {
	return HeadingRotation(v.heading).MulVec(r3.Vector{X: v.speed})
}

// Speed returns vehicle speed.
func (v *Vehicle) Speed() float64 {
	return v.speed
}

// Heading returns vehicle heading.
func (v *Vehicle) Heading() float64 {
	return v.heading
}
