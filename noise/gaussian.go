package noise

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/milosgajdos/go-velocity/matrix"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Gaussian is gaussian noise
type Gaussian struct {
	// dist is a multivariate normal distribution
	dist *distmv.Normal
	// mean is Gaussian mean
	mean r3.Vector
	// cov is Gaussian covariance
	cov matrix.Mat3
	// seed is random source seed
	seed *uint64
}

// NewGaussian creates new Gaussian noise with given mean and covariance.
// It returns error if cov is not a symmetric positive definite matrix.
func NewGaussian(mean r3.Vector, cov matrix.Mat3, opts ...Option) (*Gaussian, error) {
	o := newOptions(opts...)

	if !cov.IsSymmetric(0) {
		return nil, fmt.Errorf("invalid covariance matrix: not symmetric")
	}

	dist, ok := newGaussianDist(mean, cov, o.seed)
	if !ok {
		return nil, fmt.Errorf("failed to create new Gaussian noise")
	}

	return &Gaussian{
		dist: dist,
		mean: mean,
		cov:  cov,
		seed: o.seed,
	}, nil
}

// Sample generates a sample from Gaussian noise and returns it.
func (g *Gaussian) Sample() r3.Vector {
	r := g.dist.Rand(nil)
	return r3.Vector{X: r[0], Y: r[1], Z: r[2]}
}

// Cov returns covariance matrix of Gaussian noise.
func (g *Gaussian) Cov() matrix.Mat3 {
	return g.cov
}

// Mean returns Gaussian mean.
func (g *Gaussian) Mean() r3.Vector {
	return g.mean
}

// Reset resets Gaussian noise.
// Seeded noise replays the same sequence of samples after Reset.
// It returns error if it fails to reset the noise.
func (g *Gaussian) Reset() error {
	dist, ok := newGaussianDist(g.mean, g.cov, g.seed)
	if !ok {
		return fmt.Errorf("failed to reset Gaussian noise")
	}
	g.dist = dist

	return nil
}

func newGaussianDist(mean r3.Vector, cov matrix.Mat3, seed *uint64) (*distmv.Normal, bool) {
	src := rand.NewSource(sourceSeed(seed))
	return distmv.NewNormal([]float64{mean.X, mean.Y, mean.Z}, cov.Sym(), src)
}

// String implements the Stringer interface.
func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian{\nMean=%v\nCov=%v\n}", g.mean, mat.Formatted(g.cov.Sym(), mat.Prefix("    "), mat.Squeeze()))
}
