package matrix

import (
	"math"
	"strings"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	mx "github.com/milosgajdos/matrix"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var (
	seq     = New(1, 2, 3, 4, 5, 6, 7, 8, 9)
	rev     = New(9, 8, 7, 6, 5, 4, 3, 2, 1)
	inv     = New(4, 7, 2, 3, 6, 1, 2, 5, 3)
	skewed  = New(2, -1, 0.5, 3, 0, 4, -2, 1, 7)
	samples = []Mat3{seq, rev, inv, skewed, Identity(), {}}
)

func TestNew(t *testing.T) {
	assert := assert.New(t)

	m := New(1, 2, 3, 4, 5, 6, 7, 8, 9)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			assert.Equal(float64(r*3+c+1), m.At(r, c))
		}
	}

	assert.Equal(r3.Vector{X: 4, Y: 5, Z: 6}, m.Row(1))
	assert.Equal(r3.Vector{X: 3, Y: 6, Z: 9}, m.Col(2))
	assert.Equal(r3.Vector{X: 1, Y: 5, Z: 9}, m.Diagonal())
	assert.Equal(15.0, m.Trace())

	// copies are independent values
	cp := m
	cp[0][0] = 100
	assert.Equal(1.0, m.At(0, 0))
}

func TestIdentity(t *testing.T) {
	assert := assert.New(t)

	eye, err := mx.NewDenseValIdentity(3, 1.0)
	require.NoError(t, err)
	assert.True(mat.Equal(eye, Identity().Dense()))

	for _, m := range samples {
		assert.Equal(m, Mul(Identity(), m))
		assert.Equal(m, Mul(m, Identity()))
	}
}

func TestDet(t *testing.T) {
	assert := assert.New(t)

	for _, test := range []struct {
		m   Mat3
		det float64
	}{
		{m: Identity(), det: 1},
		{m: seq, det: 0},
		{m: inv, det: 9},
		{m: Diag(2, 3, 4), det: 24},
		{m: Mat3{}, det: 0},
	} {
		assert.Equal(test.det, test.m.Det())
		assert.InDelta(mat.Det(test.m.Dense()), test.m.Det(), 1e-9)
	}
}

func TestTranspose(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(New(1, 4, 7, 2, 5, 8, 3, 6, 9), seq.T())
	for _, m := range samples {
		assert.Equal(m, m.T().T())
		assert.Equal(m.Diagonal(), m.T().Diagonal())
	}
}

func TestInverse(t *testing.T) {
	assert := assert.New(t)

	for _, m := range []Mat3{inv, skewed, Identity(), Diag(2, 4, 8)} {
		mInv, err := m.Inverse()
		assert.NoError(err)
		assert.True(EqualApprox(Identity(), Mul(m, mInv), 1e-12), "%v", Mul(m, mInv))
		assert.True(EqualApprox(Identity(), Mul(mInv, m), 1e-12), "%v", Mul(mInv, m))

		gInv := &mat.Dense{}
		assert.NoError(gInv.Inverse(m.Dense()))
		assert.True(mat.EqualApprox(gInv, mInv.Dense(), 1e-12))
	}

	for _, m := range []Mat3{seq, rev, {}, Diag(1, 0, 1)} {
		mInv, err := m.Inverse()
		assert.Error(err)
		assert.True(errors.Is(err, ErrSingular))
		assert.Equal(Mat3{}, mInv)
	}
}

func TestInverseTol(t *testing.T) {
	assert := assert.New(t)

	tiny := Diag(1e-20, 1, 1)

	// only an exactly zero determinant is rejected by default
	_, err := tiny.Inverse()
	assert.NoError(err)
	_, err = tiny.InverseTol(0)
	assert.NoError(err)

	_, err = tiny.InverseTol(1e-12)
	assert.True(errors.Is(err, ErrSingular))

	_, err = inv.InverseTol(1e-12)
	assert.NoError(err)
}

func TestMul(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(New(30, 24, 18, 84, 69, 54, 138, 114, 90), Mul(seq, rev))

	for _, a := range samples {
		for _, b := range samples {
			want := &mat.Dense{}
			want.Mul(a.Dense(), b.Dense())
			assert.True(mat.EqualApprox(want, Mul(a, b).Dense(), 1e-12))
		}
	}
}

func TestMulVec(t *testing.T) {
	assert := assert.New(t)

	v := r3.Vector{X: 1, Y: -1, Z: 2}
	assert.Equal(r3.Vector{X: 5, Y: 11, Z: 17}, seq.MulVec(v))
	assert.Equal(v, Identity().MulVec(v))
	assert.Equal(r3.Vector{}, Mat3{}.MulVec(v))
}

func TestMulPoint(t *testing.T) {
	assert := assert.New(t)

	// rotation by 90 degrees followed by translation (10, 20)
	m := New(0, -1, 10, 1, 0, 20, 0, 0, 1)
	assert.Equal(r2.Point{X: 8, Y: 21}, m.MulPoint(r2.Point{X: 1, Y: 2}))

	// the last row does not take part in the transform
	m[2] = [3]float64{5, 5, 5}
	assert.Equal(r2.Point{X: 8, Y: 21}, m.MulPoint(r2.Point{X: 1, Y: 2}))

	// column 2 is a translation, not a coefficient
	assert.Equal(r2.Point{X: 3, Y: 6}, seq.MulPoint(r2.Point{}))
}

func TestScaleAddSub(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(New(2, 4, 6, 8, 10, 12, 14, 16, 18), seq.Scale(2))
	assert.Equal(Mat3{}, seq.Scale(0))
	assert.Equal(New(10, 10, 10, 10, 10, 10, 10, 10, 10), Add(seq, rev))
	assert.Equal(New(-8, -6, -4, -2, 0, 2, 4, 6, 8), Sub(seq, rev))
	assert.Equal(Mat3{}, Sub(skewed, skewed))

	// operands are left untouched
	assert.Equal(New(1, 2, 3, 4, 5, 6, 7, 8, 9), seq)
}

func TestAddVec(t *testing.T) {
	assert := assert.New(t)

	v := r3.Vector{X: 1, Y: 2, Z: 3}
	assert.Equal(New(1, 1, 1, 2, 2, 2, 3, 3, 3), Mat3{}.AddVec(v))
	assert.Equal(New(2, 1, 1, 2, 3, 2, 3, 3, 4), Identity().AddVec(v))

	assert.Equal(Diag(1, 2, 3), Mat3{}.AddDiag(v))
	assert.Equal(New(2, 2, 3, 4, 7, 6, 7, 8, 12), seq.AddDiag(v))
}

func TestPredicates(t *testing.T) {
	assert := assert.New(t)

	assert.True(Identity().IsSymmetric(0))
	assert.False(seq.IsSymmetric(1e-9))
	assert.True(Add(seq, seq.T()).IsSymmetric(0))

	assert.True(seq.IsFinite())
	assert.False(Diag(math.NaN(), 1, 1).IsFinite())
	assert.False(Diag(1, math.Inf(-1), 1).IsFinite())

	assert.True(EqualApprox(seq, seq.AddDiag(r3.Vector{X: 1e-10}), 1e-9))
	assert.False(EqualApprox(seq, rev, 1e-9))
}

func TestDense(t *testing.T) {
	assert := assert.New(t)

	for _, m := range samples {
		out, err := FromDense(m.Dense())
		assert.NoError(err)
		assert.Equal(m, out)
	}

	_, err := FromDense(nil)
	assert.Error(err)

	_, err = FromDense(mat.NewDense(2, 3, nil))
	assert.Error(err)

	s := seq.Sym()
	assert.Equal(3, s.SymmetricDim())
	assert.Equal(3.0, s.At(0, 1))
	assert.Equal(3.0, s.At(1, 0))
	assert.Equal(5.0, s.At(1, 1))
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	s := inv.String()
	assert.True(strings.HasPrefix(s, "Mat3{det=9"))
	assert.Contains(s, "4")
}
