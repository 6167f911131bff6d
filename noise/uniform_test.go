package noise

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/milosgajdos/go-velocity/matrix"
	"github.com/stretchr/testify/assert"
)

func TestNewUniform(t *testing.T) {
	assert := assert.New(t)

	u, err := NewUniform(0.1)
	assert.NotNil(u)
	assert.NoError(err)
	assert.Equal(0.1, u.Scale())

	u, err = NewUniform(-1)
	assert.Nil(u)
	assert.Error(err)
}

func TestUniformSample(t *testing.T) {
	assert := assert.New(t)

	scale := 0.5
	u, err := NewUniform(scale, WithSeed(3))
	assert.NoError(err)

	for i := 0; i < 1000; i++ {
		s := u.Sample()
		for _, x := range []float64{s.X, s.Y, s.Z} {
			assert.True(math.Abs(x) <= scale, "sample out of range: %v", s)
		}
	}

	z, err := NewUniform(0)
	assert.NoError(err)
	assert.Equal(r3.Vector{}, z.Sample())
	assert.Equal(matrix.Mat3{}, z.Cov())
}

func TestUniformMeanCov(t *testing.T) {
	assert := assert.New(t)

	u, err := NewUniform(3)
	assert.NoError(err)

	assert.Equal(r3.Vector{}, u.Mean())
	assert.True(matrix.EqualApprox(matrix.Diag(3, 3, 3), u.Cov(), 1e-12))
}

func TestUniformReset(t *testing.T) {
	assert := assert.New(t)

	u, err := NewUniform(1, WithSeed(11))
	assert.NoError(err)

	first := u.Sample()
	assert.NoError(u.Reset())
	assert.Equal(first, u.Sample())
	assert.Contains(u.String(), "Uniform{")
}
