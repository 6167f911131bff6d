package estimate

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/milosgajdos/go-velocity/matrix"
	"github.com/stretchr/testify/assert"
)

func TestNewBase(t *testing.T) {
	assert := assert.New(t)

	val := r3.Vector{X: 1.0, Y: 1.0, Z: 1.0}
	cov := matrix.Diag(1.0, 2.0, 3.0)

	b, err := NewBase(val)
	assert.NotNil(b)
	assert.NoError(err)
	assert.Equal(matrix.Mat3{}, b.Cov())

	b, err = NewBaseWithCov(val, cov)
	assert.NotNil(b)
	assert.NoError(err)

	b, err = NewBaseWithCov(r3.Vector{X: math.NaN()}, cov)
	assert.Nil(b)
	assert.Error(err)

	b, err = NewBaseWithCov(val, matrix.Diag(math.Inf(1), 1, 1))
	assert.Nil(b)
	assert.Error(err)
}

func TestValCov(t *testing.T) {
	assert := assert.New(t)

	val := r3.Vector{X: 1.0, Y: 2.0, Z: 3.0}
	cov := matrix.New(1, 2, 0, 2, 4, 0, 0, 0, 1)

	b, err := NewBaseWithCov(val, cov)
	assert.NotNil(b)
	assert.NoError(err)

	assert.Equal(val, b.Val())
	assert.Equal(cov, b.Cov())

	// returned values are copies
	c := b.Cov()
	c[0][0] = 100
	assert.Equal(1.0, b.Cov().At(0, 0))

	assert.Contains(b.String(), "Base{")
}
