package sim

import (
	"fmt"
	"os"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/milosgajdos/go-velocity/kalman/kf"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	// UniformNoise perturbs measurements with per-axis uniform noise.
	UniformNoise = "uniform"
	// GaussianNoise perturbs measurements with isotropic Gaussian noise.
	GaussianNoise = "gaussian"
)

// Config configures a simulation run.
type Config struct {
	// Interval is the sensor update interval
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	// Steps is the number of sensor ticks to simulate
	Steps int `yaml:"steps" mapstructure:"steps"`
	// History is the number of samples kept in speed histories
	History int `yaml:"history" mapstructure:"history"`
	// Seed seeds sensor noise; zero seeds from the clock
	Seed uint64 `yaml:"seed" mapstructure:"seed"`

	// SensorNoise is the sensor noise factor
	SensorNoise float64 `yaml:"sensor_noise" mapstructure:"sensor_noise"`
	// SensorNoiseKind is either uniform or gaussian
	SensorNoiseKind string `yaml:"sensor_noise_kind" mapstructure:"sensor_noise_kind"`
	// MeasurementNoiseScalar scales SensorNoise into measurement noise covariance R
	MeasurementNoiseScalar float64 `yaml:"measurement_noise_scalar" mapstructure:"measurement_noise_scalar"`
	// ProcessNoiseScalar is the diagonal of process noise covariance Q
	ProcessNoiseScalar float64 `yaml:"process_noise_scalar" mapstructure:"process_noise_scalar"`
	// UseControlMatrix feeds the control vector into the filter
	UseControlMatrix bool `yaml:"use_control_matrix" mapstructure:"use_control_matrix"`
	// GainForm is the Kalman gain form: standard or augmented
	GainForm string `yaml:"gain_form" mapstructure:"gain_form"`

	// Vehicle configures vehicle dynamics
	Vehicle VehicleConfig `yaml:"vehicle" mapstructure:"vehicle"`
}

// VehicleConfig configures vehicle body, wheels and drive.
type VehicleConfig struct {
	// Width, Height and Depth are body box dimensions in meters
	Width  float64 `yaml:"width" mapstructure:"width"`
	Height float64 `yaml:"height" mapstructure:"height"`
	Depth  float64 `yaml:"depth" mapstructure:"depth"`
	// Mass is vehicle mass in kg
	Mass float64 `yaml:"mass" mapstructure:"mass"`
	// Drag is the body drag coefficient
	Drag float64 `yaml:"drag" mapstructure:"drag"`
	// AirDensity is air density in kg/m³
	AirDensity float64 `yaml:"air_density" mapstructure:"air_density"`
	// WheelRadius is wheel radius in meters
	WheelRadius float64 `yaml:"wheel_radius" mapstructure:"wheel_radius"`
	// WheelBase is the distance between axles in meters
	WheelBase float64 `yaml:"wheel_base" mapstructure:"wheel_base"`
	// FrictionValue is the forward friction curve extremum value
	FrictionValue float64 `yaml:"friction_value" mapstructure:"friction_value"`
	// FrictionSlip is the forward friction curve extremum slip
	FrictionSlip float64 `yaml:"friction_slip" mapstructure:"friction_slip"`
	// MotorForce is the drive force in N
	MotorForce float64 `yaml:"motor_force" mapstructure:"motor_force"`
	// SteerAngle is the steering angle in radians
	SteerAngle float64 `yaml:"steer_angle" mapstructure:"steer_angle"`
	// InitialSpeed is the vehicle speed at the start of the run in m/s
	InitialSpeed float64 `yaml:"initial_speed" mapstructure:"initial_speed"`
}

// DefaultConfig returns default simulation config.
func DefaultConfig() Config {
	return Config{
		Interval:               100 * time.Millisecond,
		Steps:                  200,
		History:                39,
		SensorNoise:            0.5,
		SensorNoiseKind:        UniformNoise,
		MeasurementNoiseScalar: 0.2,
		ProcessNoiseScalar:     0.01,
		UseControlMatrix:       true,
		GainForm:               kf.GainStandard.String(),
		Vehicle: VehicleConfig{
			Width:         1.8,
			Height:        1.4,
			Depth:         4.2,
			Mass:          1200,
			Drag:          0.3,
			AirDensity:    1.2,
			WheelRadius:   0.35,
			WheelBase:     2.6,
			FrictionValue: 1.0,
			FrictionSlip:  0.4,
			MotorForce:    2500,
			SteerAngle:    0,
			InitialSpeed:  5,
		},
	}
}

// LoadConfig reads YAML config from path on top of DefaultConfig.
// It returns error if the file can not be read or decoded or if the resulting config is invalid.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	attrs := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &attrs); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := DefaultConfig()
	if err := Decode(attrs, &cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Decode decodes attrs into cfg leaving fields missing from attrs untouched.
// Durations may be given as strings such as "100ms".
// It returns error on unknown keys or values of the wrong type.
func Decode(attrs map[string]interface{}, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(attrs); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}

	return nil
}

// Validate returns all problems found in c combined into a single error.
func (c Config) Validate() error {
	var err error

	if c.Interval <= 0 {
		err = multierr.Append(err, fmt.Errorf("invalid interval: %v", c.Interval))
	}
	if c.Steps <= 0 {
		err = multierr.Append(err, fmt.Errorf("invalid number of steps: %d", c.Steps))
	}
	if c.History <= 0 {
		err = multierr.Append(err, fmt.Errorf("invalid history size: %d", c.History))
	}
	if c.SensorNoise < 0 {
		err = multierr.Append(err, fmt.Errorf("invalid sensor noise: %f", c.SensorNoise))
	}
	if c.SensorNoiseKind != UniformNoise && c.SensorNoiseKind != GaussianNoise {
		err = multierr.Append(err, fmt.Errorf("unknown sensor noise kind: %q", c.SensorNoiseKind))
	}
	if c.MeasurementNoiseScalar < 0 {
		err = multierr.Append(err, fmt.Errorf("invalid measurement noise scalar: %f", c.MeasurementNoiseScalar))
	}
	if c.ProcessNoiseScalar < 0 {
		err = multierr.Append(err, fmt.Errorf("invalid process noise scalar: %f", c.ProcessNoiseScalar))
	}
	if _, e := kf.ParseGainForm(c.GainForm); e != nil {
		err = multierr.Append(err, e)
	}

	return multierr.Append(err, c.Vehicle.Validate())
}

// Validate returns all problems found in c combined into a single error.
func (c VehicleConfig) Validate() error {
	var err error

	for _, dim := range []struct {
		name string
		val  float64
	}{
		{"width", c.Width},
		{"height", c.Height},
		{"depth", c.Depth},
		{"mass", c.Mass},
		{"wheel_radius", c.WheelRadius},
		{"wheel_base", c.WheelBase},
		{"friction_slip", c.FrictionSlip},
	} {
		if dim.val <= 0 {
			err = multierr.Append(err, fmt.Errorf("invalid vehicle %s: %f", dim.name, dim.val))
		}
	}

	for _, dim := range []struct {
		name string
		val  float64
	}{
		{"drag", c.Drag},
		{"air_density", c.AirDensity},
		{"friction_value", c.FrictionValue},
		{"initial_speed", c.InitialSpeed},
	} {
		if dim.val < 0 {
			err = multierr.Append(err, fmt.Errorf("invalid vehicle %s: %f", dim.name, dim.val))
		}
	}

	return err
}
