package noise

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/milosgajdos/go-velocity/matrix"
	"gonum.org/v1/gonum/mat"
)

// None is noise with zero mean and zero covariance matrix.
type None struct{}

// NewNone creates new None noise and returns it
func NewNone() (*None, error) {
	return &None{}, nil
}

// Sample returns zero vector.
func (e *None) Sample() r3.Vector {
	return r3.Vector{}
}

// Cov returns zero covariance matrix.
func (e *None) Cov() matrix.Mat3 {
	return matrix.Mat3{}
}

// Mean returns None mean.
func (e *None) Mean() r3.Vector {
	return r3.Vector{}
}

// Reset does nothing: it's here to implement filter.Noise interface
func (e *None) Reset() error { return nil }

// String implements the Stringer interface.
func (e *None) String() string {
	return fmt.Sprintf("None{\nMean=%v\nCov=%v\n}", e.Mean(), mat.Formatted(e.Cov().Sym(), mat.Prefix("    "), mat.Squeeze()))
}
