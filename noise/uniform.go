package noise

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/milosgajdos/go-velocity/matrix"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Uniform is zero mean noise drawn independently per axis from [-scale, scale].
type Uniform struct {
	// dist is a uniform distribution
	dist distuv.Uniform
	// scale is half-width of the distribution
	scale float64
	// seed is random source seed
	seed *uint64
}

// NewUniform creates new Uniform noise with the given scale.
// It returns error if scale is negative.
func NewUniform(scale float64, opts ...Option) (*Uniform, error) {
	if scale < 0 {
		return nil, fmt.Errorf("invalid uniform noise scale: %f", scale)
	}

	o := newOptions(opts...)

	return &Uniform{
		dist:  newUniformDist(scale, o.seed),
		scale: scale,
		seed:  o.seed,
	}, nil
}

// Sample generates a sample from Uniform noise and returns it.
func (u *Uniform) Sample() r3.Vector {
	if u.scale == 0 {
		return r3.Vector{}
	}

	return r3.Vector{X: u.dist.Rand(), Y: u.dist.Rand(), Z: u.dist.Rand()}
}

// Mean returns Uniform mean which is always zero.
func (u *Uniform) Mean() r3.Vector {
	return r3.Vector{}
}

// Cov returns covariance matrix of Uniform noise: a diagonal matrix with scale²/3 variances.
func (u *Uniform) Cov() matrix.Mat3 {
	v := u.dist.Variance()
	return matrix.Diag(v, v, v)
}

// Scale returns the half-width of the noise distribution.
func (u *Uniform) Scale() float64 {
	return u.scale
}

// Reset resets Uniform noise.
func (u *Uniform) Reset() error {
	u.dist = newUniformDist(u.scale, u.seed)

	return nil
}

func newUniformDist(scale float64, seed *uint64) distuv.Uniform {
	return distuv.Uniform{
		Min: -scale,
		Max: scale,
		Src: rand.NewSource(sourceSeed(seed)),
	}
}

// String implements the Stringer interface.
func (u *Uniform) String() string {
	return fmt.Sprintf("Uniform{\nScale=%v\nCov=%v\n}", u.scale, mat.Formatted(u.Cov().Sym(), mat.Prefix("    "), mat.Squeeze()))
}
