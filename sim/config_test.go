package sim

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	return path
}

func TestDefaultConfig(t *testing.T) {
	assert := assert.New(t)

	c := DefaultConfig()
	assert.NoError(c.Validate())
	assert.Equal(100*time.Millisecond, c.Interval)
	assert.Equal(39, c.History)
	assert.Equal("standard", c.GainForm)
}

func TestConfigValidate(t *testing.T) {
	assert := assert.New(t)

	c := DefaultConfig()
	c.Interval = 0
	c.Steps = -1
	c.SensorNoiseKind = "pink"
	c.GainForm = "textbook"
	c.Vehicle.Mass = 0
	c.Vehicle.Drag = -1

	err := c.Validate()
	assert.Error(err)
	assert.Len(multierr.Errors(err), 6)
	assert.Contains(err.Error(), "invalid vehicle mass")
}

func TestLoadConfig(t *testing.T) {
	assert := assert.New(t)

	path := writeConfig(t, `
interval: 50ms
steps: 10
gain_form: augmented
sensor_noise_kind: gaussian
seed: 3
vehicle:
  mass: 1500
  steer_angle: 0.1
`)

	c, err := LoadConfig(path)
	assert.NoError(err)
	assert.Equal(50*time.Millisecond, c.Interval)
	assert.Equal(10, c.Steps)
	assert.Equal("augmented", c.GainForm)
	assert.Equal(GaussianNoise, c.SensorNoiseKind)
	assert.Equal(uint64(3), c.Seed)
	assert.Equal(1500.0, c.Vehicle.Mass)
	assert.Equal(0.1, c.Vehicle.SteerAngle)

	// unset values keep their defaults
	def := DefaultConfig()
	assert.Equal(def.History, c.History)
	assert.Equal(def.Vehicle.Width, c.Vehicle.Width)
	assert.Equal(def.MeasurementNoiseScalar, c.MeasurementNoiseScalar)
}

func TestLoadConfigErrors(t *testing.T) {
	assert := assert.New(t)

	for _, data := range []string{
		"unknown_key: 1",
		"steps: many",
		"steps: [1, 2]",
		"steps: -5",
		"vehicle:\n  mass: -1",
		"interval: :",
	} {
		_, err := LoadConfig(writeConfig(t, data))
		assert.Error(err, data)
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(err)
}

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	c := DefaultConfig()
	err := Decode(map[string]interface{}{
		"steps":              "25",
		"use_control_matrix": false,
		"interval":           "1s",
	}, &c)
	assert.NoError(err)
	assert.Equal(25, c.Steps)
	assert.False(c.UseControlMatrix)
	assert.Equal(time.Second, c.Interval)
}

func TestLoadConfigTestdata(t *testing.T) {
	assert := assert.New(t)

	c, err := LoadConfig(filepath.Join("testdata", "config.yaml"))
	assert.NoError(err)

	exp := DefaultConfig()
	exp.Seed = 42
	assert.Equal(exp, c)
}
