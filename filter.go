package filter

import (
	"github.com/golang/geo/r3"
	"github.com/milosgajdos/go-velocity/matrix"
)

// Filter is a dynamical system filter.
type Filter interface {
	// Predict estimates the next internal state of the system
	Predict() error
	// Update corrects the predicted state using external measurement
	Update(r3.Vector) error
}

// Estimate is dynamical system filter estimate
type Estimate interface {
	// Val returns estimate value
	Val() r3.Vector
	// Cov returns estimate covariance
	Cov() matrix.Mat3
}

// Noise is dynamical system noise
type Noise interface {
	// Mean returns noise mean
	Mean() r3.Vector
	// Cov returns covariance matrix of the noise
	Cov() matrix.Mat3
	// Sample returns a sample of the noise
	Sample() r3.Vector
	// Reset resets the noise
	Reset() error
}

// Smoother is a filter smoother
type Smoother interface {
	// Smooth implements filter smoothing and returns new estimates
	Smooth([]Estimate, []r3.Vector) ([]Estimate, error)
}
