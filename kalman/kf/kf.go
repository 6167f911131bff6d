package kf

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	filter "github.com/milosgajdos/go-velocity"
	"github.com/milosgajdos/go-velocity/estimate"
	"github.com/milosgajdos/go-velocity/matrix"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrOutOfOrder is returned in strict mode when Predict and Update are not called alternately.
	ErrOutOfOrder = errors.New("filter step out of order")
	// ErrNonFinite is returned when finite checks are enabled and NaN or Inf shows up.
	ErrNonFinite = errors.New("non-finite value")
)

// GainForm selects how the innovation covariance is computed in Update.
type GainForm int

const (
	// GainStandard computes S = P*h² + R, i.e. H*P*Hᵀ + R for H = h*I.
	GainStandard GainForm = iota
	// GainAugmented computes S = P*h + P*h² + R.
	// The extra P*h term biases the gain towards the prediction: with R = 0 it yields K = 1/(1+h).
	GainAugmented
)

// String implements the Stringer interface.
func (g GainForm) String() string {
	switch g {
	case GainStandard:
		return "standard"
	case GainAugmented:
		return "augmented"
	default:
		return fmt.Sprintf("GainForm(%d)", int(g))
	}
}

// ParseGainForm returns GainForm named s.
func ParseGainForm(s string) (GainForm, error) {
	switch s {
	case "", "standard":
		return GainStandard, nil
	case "augmented":
		return GainAugmented, nil
	default:
		return 0, fmt.Errorf("unknown gain form: %q", s)
	}
}

// Phase is the step the filter expects next.
type Phase int

const (
	// AwaitingPredict means the filter expects Predict next.
	AwaitingPredict Phase = iota
	// AwaitingUpdate means the filter expects Update next.
	AwaitingUpdate
)

// String implements the Stringer interface.
func (p Phase) String() string {
	if p == AwaitingUpdate {
		return "AwaitingUpdate"
	}

	return "AwaitingPredict"
}

// KF is Kalman Filter estimating a 3D velocity.
// KF is not safe for concurrent use.
type KF struct {
	// x is filter state
	x r3.Vector
	// p is state covariance matrix
	p matrix.Mat3
	// f is state transition matrix
	f matrix.Mat3
	// b is control matrix
	b matrix.Mat3
	// u is control vector
	u r3.Vector
	// q is process noise covariance
	q matrix.Mat3
	// h is measurement gain shared by all three dimensions
	h float64
	// r is measurement noise covariance
	r matrix.Mat3
	// k is the last Kalman gain
	k matrix.Mat3
	// inn is the last innovation vector
	inn r3.Vector
	// form is innovation covariance form
	form GainForm
	// tol is singular matrix tolerance
	tol float64
	// strict enforces Predict/Update alternation
	strict bool
	// finite rejects NaN and Inf
	finite bool
	// phase is the expected next step
	phase Phase
	// logger traces gain and innovation
	logger *zap.Logger
}

// Option configures KF.
type Option func(*KF)

// WithLogger sets the logger used to trace the Kalman gain and innovation.
func WithLogger(l *zap.Logger) Option {
	return func(k *KF) {
		if l != nil {
			k.logger = l
		}
	}
}

// WithGainForm sets the innovation covariance form.
func WithGainForm(g GainForm) Option {
	return func(k *KF) {
		k.form = g
	}
}

// WithSingularTol rejects innovation covariance whose determinant magnitude is not greater than tol.
func WithSingularTol(tol float64) Option {
	return func(k *KF) {
		k.tol = tol
	}
}

// WithStrictCycle makes Predict and Update fail with ErrOutOfOrder unless called alternately.
func WithStrictCycle() Option {
	return func(k *KF) {
		k.strict = true
	}
}

// WithFiniteCheck makes the filter reject NaN and Inf measurements and results.
func WithFiniteCheck() Option {
	return func(k *KF) {
		k.finite = true
	}
}

// WithInitCond sets the initial state and covariance.
func WithInitCond(x r3.Vector, cov matrix.Mat3) Option {
	return func(k *KF) {
		k.x = x
		k.p = cov
	}
}

// New creates new KF and returns it.
// Without options the filter starts with:
//   - x: zero state
//   - P: identity covariance
//   - F: identity state transition
//   - B: control matrix with a single 1 at [0, 2]
//   - u: zero control vector
//   - Q: identity process noise
//   - h: measurement gain 1
//   - R: identity measurement noise
func New(opts ...Option) *KF {
	k := &KF{
		p:      matrix.Identity(),
		f:      matrix.Identity(),
		b:      matrix.New(0, 0, 1, 0, 0, 0, 0, 0, 0),
		q:      matrix.Identity(),
		h:      1.0,
		r:      matrix.Identity(),
		form:   GainStandard,
		phase:  AwaitingPredict,
		logger: zap.NewNop(),
	}

	for _, apply := range opts {
		apply(k)
	}

	return k
}

// Predict propagates the state and its covariance to the next step:
//
//	x = F*x + B*u
//	P = F*P*Fᵀ + Q
//
// It only fails in strict mode when Update is expected or when finite checks reject the result.
func (k *KF) Predict() error {
	if k.strict && k.phase != AwaitingPredict {
		return errors.Wrap(ErrOutOfOrder, "predict")
	}

	x := k.f.MulVec(k.x).Add(k.b.MulVec(k.u))
	p := matrix.Add(matrix.Mul(matrix.Mul(k.f, k.p), k.f.T()), k.q)

	if k.finite && (!isFinite(x) || !p.IsFinite()) {
		return errors.Wrap(ErrNonFinite, "predicted state")
	}

	k.x, k.p = x, p
	k.phase = AwaitingUpdate

	return nil
}

// Update corrects the state using measurement z:
//
//	K = P*h*S⁻¹
//	x = x + K*(z - h*x)
//	P = (I - K*h)*P
//
// where S is the innovation covariance computed according to the configured GainForm.
// It returns error wrapping matrix.ErrSingular if S can not be inverted, in which case
// neither state nor covariance are modified.
func (k *KF) Update(z r3.Vector) error {
	if k.strict && k.phase != AwaitingUpdate {
		return errors.Wrap(ErrOutOfOrder, "update")
	}

	if k.finite && !isFinite(z) {
		return errors.Wrapf(ErrNonFinite, "measurement %v", z)
	}

	s := matrix.Add(k.p.Scale(k.h*k.h), k.r)
	if k.form == GainAugmented {
		s = matrix.Add(s, k.p.Scale(k.h))
	}

	sInv, err := s.InverseTol(k.tol)
	if err != nil {
		return errors.Wrap(err, "failed to invert innovation covariance")
	}

	gain := matrix.Mul(k.p.Scale(k.h), sInv)
	inn := z.Sub(k.x.Mul(k.h))

	x := k.x.Add(gain.MulVec(inn))
	p := matrix.Mul(matrix.Sub(matrix.Identity(), gain.Scale(k.h)), k.p)

	if k.finite && (!isFinite(x) || !p.IsFinite()) {
		return errors.Wrap(ErrNonFinite, "corrected state")
	}

	k.logger.Debug("kalman update",
		zap.Float64s("gain", gain.Raw()),
		zap.Float64s("innovation", []float64{inn.X, inn.Y, inn.Z}),
	)

	k.x, k.p = x, p
	k.k, k.inn = gain, inn
	k.phase = AwaitingPredict

	return nil
}

// Run runs one step of KF: it calls Predict followed by Update with measurement z.
func (k *KF) Run(z r3.Vector) error {
	if err := k.Predict(); err != nil {
		return err
	}

	return k.Update(z)
}

// SetStateTransition sets state transition matrix F.
func (k *KF) SetStateTransition(f matrix.Mat3) {
	k.f = f
}

// SetControlMatrix sets control matrix B.
func (k *KF) SetControlMatrix(b matrix.Mat3) {
	k.b = b
}

// SetControlVector sets control vector u.
func (k *KF) SetControlVector(u r3.Vector) {
	k.u = u
}

// SetProcessNoise sets process noise covariance Q.
func (k *KF) SetProcessNoise(q matrix.Mat3) {
	k.q = q
}

// SetMeasurementMatrix sets the scalar measurement gain h.
func (k *KF) SetMeasurementMatrix(h float64) {
	k.h = h
}

// SetMeasurementNoise sets measurement noise covariance R.
func (k *KF) SetMeasurementNoise(r matrix.Mat3) {
	k.r = r
}

// State returns KF state.
func (k *KF) State() r3.Vector {
	return k.x
}

// SetState sets KF state to x.
func (k *KF) SetState(x r3.Vector) {
	k.x = x
}

// Cov returns KF covariance
func (k *KF) Cov() matrix.Mat3 {
	return k.p
}

// SetCov sets KF covariance matrix to cov.
// It returns error if cov contains NaN or infinite values.
func (k *KF) SetCov(cov matrix.Mat3) error {
	if !cov.IsFinite() {
		return fmt.Errorf("invalid covariance matrix: %v", cov)
	}
	k.p = cov

	return nil
}

// Gain returns the Kalman gain computed by the last successful Update.
func (k *KF) Gain() matrix.Mat3 {
	return k.k
}

// Innovation returns the innovation computed by the last successful Update.
func (k *KF) Innovation() r3.Vector {
	return k.inn
}

// Phase returns the step the filter expects next.
func (k *KF) Phase() Phase {
	return k.phase
}

// Estimate returns current KF state and covariance as filter estimate.
func (k *KF) Estimate() (filter.Estimate, error) {
	return estimate.NewBaseWithCov(k.x, k.p)
}

func isFinite(v r3.Vector) bool {
	for _, x := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}

	return true
}
