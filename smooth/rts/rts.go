package rts

import (
	"fmt"

	"github.com/golang/geo/r3"
	filter "github.com/milosgajdos/go-velocity"
	"github.com/milosgajdos/go-velocity/estimate"
	"github.com/milosgajdos/go-velocity/matrix"
)

// RTS is Rauch-Tung-Striebel smoother
type RTS struct {
	// f is state transition matrix
	f matrix.Mat3
	// q is process noise covariance
	q matrix.Mat3
}

// New creates new RTS for a filter with state transition matrix f and process noise covariance q
// and returns it. It returns error if q contains NaN or infinite values.
func New(f, q matrix.Mat3) (*RTS, error) {
	if !f.IsFinite() {
		return nil, fmt.Errorf("invalid state transition matrix: %v", f)
	}

	if !q.IsFinite() {
		return nil, fmt.Errorf("invalid process noise covariance: %v", q)
	}

	return &RTS{
		f: f,
		q: q,
	}, nil
}

// Smooth implements Rauch-Tung-Striebel smoothing algorithm.
// It uses filtered estimates est to compute smoothed estimates and returns them.
// u[k] is the control contribution B*u added when predicting estimate k from estimate k-1;
// u[0] is ignored and nil u means no control input.
// It returns error if est is empty, u has a different length than est or if
// any predicted covariance can not be inverted.
func (s *RTS) Smooth(est []filter.Estimate, u []r3.Vector) ([]filter.Estimate, error) {
	if len(est) == 0 {
		return nil, fmt.Errorf("invalid estimates size: %d", len(est))
	}

	if u != nil && len(u) != len(est) {
		return nil, fmt.Errorf("invalid input vector size: %d", len(u))
	}

	n := len(est)
	sx := make([]filter.Estimate, n)

	// the last filtered estimate is already smoothed
	e, err := estimate.NewBaseWithCov(est[n-1].Val(), est[n-1].Cov())
	if err != nil {
		return nil, err
	}
	sx[n-1] = e

	for k := n - 2; k >= 0; k-- {
		xk, pk := est[k].Val(), est[k].Cov()

		// propagate state and covariance to the next step
		xk1 := s.f.MulVec(xk)
		if u != nil {
			xk1 = xk1.Add(u[k+1])
		}
		pk1 := matrix.Add(matrix.Mul(matrix.Mul(s.f, pk), s.f.T()), s.q)

		pinv, err := pk1.Inverse()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", k, err)
		}

		// C = Pk*F'*P_(k+1)^-1
		c := matrix.Mul(matrix.Mul(pk, s.f.T()), pinv)

		// xk + C*(xs_(k+1) - x_(k+1))
		x := xk.Add(c.MulVec(e.Val().Sub(xk1)))
		// Pk + C*(Ps_(k+1) - P_(k+1))*C'
		cov := matrix.Add(pk, matrix.Mul(matrix.Mul(c, matrix.Sub(e.Cov(), pk1)), c.T()))

		e, err = estimate.NewBaseWithCov(x, cov)
		if err != nil {
			return nil, err
		}
		sx[k] = e
	}

	return sx, nil
}
