package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/milosgajdos/go-velocity/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps: 10\nseed: 7\n"), 0o600))

	cli.Config, cli.Steps, cli.Seed, cli.Gain = path, 0, 0, "augmented"
	defer func() { cli.Config, cli.Gain = "", "" }()

	c, err := loadConfig()
	assert.NoError(err)
	assert.Equal(10, c.Steps)
	assert.Equal(uint64(7), c.Seed)
	assert.Equal("augmented", c.GainForm)

	cli.Steps = 3
	c, err = loadConfig()
	assert.NoError(err)
	assert.Equal(3, c.Steps)
}

func TestRender(t *testing.T) {
	assert := assert.New(t)

	c := sim.DefaultConfig()
	c.Steps = 5
	c.Seed = 1
	res, err := sim.Run(c, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	renderTicks(&buf, res)
	assert.Contains(buf.String(), "innovation")
	assert.Contains(buf.String(), "500ms")

	buf.Reset()
	assert.NoError(renderSummary(&buf, c, res))
	assert.Contains(buf.String(), "filtered RMSE")
	assert.Contains(buf.String(), "smoothed RMSE")
	assert.Contains(buf.String(), "standard")
}
