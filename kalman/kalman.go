package kalman

import (
	filter "github.com/milosgajdos/go-velocity"
	"github.com/milosgajdos/go-velocity/matrix"
)

// Kalman is Kalman Filter
type Kalman interface {
	// filter.Filter is dynamical system filter
	filter.Filter
	// Cov returns Kalman filter state covariance
	Cov() matrix.Mat3
	// Gain returns Kalman filter gain
	Gain() matrix.Mat3
}
