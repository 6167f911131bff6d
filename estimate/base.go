package estimate

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/milosgajdos/go-velocity/matrix"
	"gonum.org/v1/gonum/mat"
)

// Base is base estimate
type Base struct {
	// val is estimated value
	val r3.Vector
	// cov is estimated covariance
	cov matrix.Mat3
}

// NewBase returns base estimate given val with zero covariance.
func NewBase(val r3.Vector) (*Base, error) {
	return NewBaseWithCov(val, matrix.Mat3{})
}

// NewBaseWithCov returns base estimate given val and its covariance cov.
// It returns error if either val or cov contain NaN or infinite values.
func NewBaseWithCov(val r3.Vector, cov matrix.Mat3) (*Base, error) {
	if !isFinite(val) {
		return nil, fmt.Errorf("invalid estimate value: %v", val)
	}

	if !cov.IsFinite() {
		return nil, fmt.Errorf("invalid estimate covariance: %v", cov)
	}

	return &Base{
		val: val,
		cov: cov,
	}, nil
}

// Val returns estimated value
func (b *Base) Val() r3.Vector {
	return b.val
}

// Cov returns covariance estimate
func (b *Base) Cov() matrix.Mat3 {
	return b.cov
}

// String implements the Stringer interface.
func (b *Base) String() string {
	return fmt.Sprintf("Base{\nVal=%v\nCov=%v\n}", b.val, mat.Formatted(b.cov.Dense(), mat.Prefix("    "), mat.Squeeze()))
}

func isFinite(v r3.Vector) bool {
	for _, x := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}

	return true
}
