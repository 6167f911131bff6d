// Package matrix implements a 3x3 matrix value type and its algebra.
package matrix

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when inverting a matrix whose determinant is zero.
var ErrSingular = errors.New("singular matrix")

// Mat3 is a 3x3 matrix addressed as m[row][col].
// Mat3 is a value: none of its methods modify the receiver.
type Mat3 [3][3]float64

// New creates a new matrix from nine values given in row-major order.
func New(m00, m01, m02, m10, m11, m12, m20, m21, m22 float64) Mat3 {
	return Mat3{
		{m00, m01, m02},
		{m10, m11, m12},
		{m20, m21, m22},
	}
}

// Identity returns the identity matrix.
func Identity() Mat3 {
	return Diag(1, 1, 1)
}

// Diag returns a diagonal matrix with x, y, z on its diagonal.
func Diag(x, y, z float64) Mat3 {
	return Mat3{
		{x, 0, 0},
		{0, y, 0},
		{0, 0, z},
	}
}

// FromDense creates a new matrix from a 3x3 gonum matrix.
// It returns error if m is nil or its dimensions are not [3 x 3].
func FromDense(m mat.Matrix) (Mat3, error) {
	if m == nil {
		return Mat3{}, fmt.Errorf("invalid matrix: %v", m)
	}

	rows, cols := m.Dims()
	if rows != 3 || cols != 3 {
		return Mat3{}, fmt.Errorf("invalid matrix dimensions: [%d x %d]", rows, cols)
	}

	var out Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = m.At(r, c)
		}
	}

	return out, nil
}

// At returns the element at row r and column c.
// It panics if r or c are out of bounds.
func (m Mat3) At(r, c int) float64 {
	return m[r][c]
}

// Row returns row i as a vector.
func (m Mat3) Row(i int) r3.Vector {
	return r3.Vector{X: m[i][0], Y: m[i][1], Z: m[i][2]}
}

// Col returns column j as a vector.
func (m Mat3) Col(j int) r3.Vector {
	return r3.Vector{X: m[0][j], Y: m[1][j], Z: m[2][j]}
}

// Diagonal returns the diagonal of m.
func (m Mat3) Diagonal() r3.Vector {
	return r3.Vector{X: m[0][0], Y: m[1][1], Z: m[2][2]}
}

// Trace returns the sum of the diagonal elements.
func (m Mat3) Trace() float64 {
	return m[0][0] + m[1][1] + m[2][2]
}

// Det returns the determinant of m using cofactor expansion along the first row.
func (m Mat3) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// T returns the transpose of m.
func (m Mat3) T() Mat3 {
	return Mat3{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

// Inverse returns the inverse of m computed as adj(m)/det(m).
// It returns ErrSingular if the determinant of m is exactly zero.
// Nearly singular matrices are inverted regardless; use InverseTol to reject them.
func (m Mat3) Inverse() (Mat3, error) {
	return m.InverseTol(0)
}

// InverseTol returns the inverse of m.
// It returns ErrSingular if the absolute value of the determinant of m is not greater than tol.
// InverseTol(0) is equivalent to Inverse.
func (m Mat3) InverseTol(tol float64) (Mat3, error) {
	det := m.Det()
	if math.Abs(det) <= tol {
		return Mat3{}, errors.Wrapf(ErrSingular, "determinant %g", det)
	}

	inv := 1 / det

	return Mat3{
		{
			(m[1][1]*m[2][2] - m[2][1]*m[1][2]) * inv,
			(m[2][1]*m[0][2] - m[0][1]*m[2][2]) * inv,
			(m[0][1]*m[1][2] - m[1][1]*m[0][2]) * inv,
		},
		{
			(m[2][0]*m[1][2] - m[1][0]*m[2][2]) * inv,
			(m[0][0]*m[2][2] - m[2][0]*m[0][2]) * inv,
			(m[1][0]*m[0][2] - m[0][0]*m[1][2]) * inv,
		},
		{
			(m[1][0]*m[2][1] - m[2][0]*m[1][1]) * inv,
			(m[2][0]*m[0][1] - m[0][0]*m[2][1]) * inv,
			(m[0][0]*m[1][1] - m[1][0]*m[0][1]) * inv,
		},
	}, nil
}

// Mul returns the matrix product a*b.
func Mul(a, b Mat3) Mat3 {
	var out Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = a[r][0]*b[0][c] + a[r][1]*b[1][c] + a[r][2]*b[2][c]
		}
	}

	return out
}

// MulVec returns m*v.
func (m Mat3) MulVec(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// MulPoint transforms the 2D point p treating m as a homogeneous 2D transform:
// the third column is added as a translation and the third row is ignored.
func (m Mat3) MulPoint(p r2.Point) r2.Point {
	return r2.Point{
		X: m[0][0]*p.X + m[0][1]*p.Y + m[0][2],
		Y: m[1][0]*p.X + m[1][1]*p.Y + m[1][2],
	}
}

// Scale returns m with every element multiplied by f.
func (m Mat3) Scale(f float64) Mat3 {
	var out Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = m[r][c] * f
		}
	}

	return out
}

// Add returns the elementwise sum a+b.
func Add(a, b Mat3) Mat3 {
	var out Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = a[r][c] + b[r][c]
		}
	}

	return out
}

// Sub returns the elementwise difference a-b.
func Sub(a, b Mat3) Mat3 {
	var out Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = a[r][c] - b[r][c]
		}
	}

	return out
}

// AddVec adds v to m row by row: every element in row i is increased by the i-th
// component of v, so v is broadcast across all three columns and not only the diagonal.
// Use AddDiag to add v to the diagonal.
func (m Mat3) AddVec(v r3.Vector) Mat3 {
	vals := [3]float64{v.X, v.Y, v.Z}
	var out Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = m[r][c] + vals[r]
		}
	}

	return out
}

// AddDiag adds v to the diagonal of m leaving off-diagonal elements untouched.
func (m Mat3) AddDiag(v r3.Vector) Mat3 {
	out := m
	out[0][0] += v.X
	out[1][1] += v.Y
	out[2][2] += v.Z

	return out
}

// IsFinite returns true if none of the elements of m is NaN or infinite.
func (m Mat3) IsFinite() bool {
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if math.IsNaN(m[r][c]) || math.IsInf(m[r][c], 0) {
				return false
			}
		}
	}

	return true
}

// IsSymmetric returns true if m equals its transpose within tol.
func (m Mat3) IsSymmetric(tol float64) bool {
	return EqualApprox(m, m.T(), tol)
}

// EqualApprox returns true if all elements of a and b are within tol of each other.
func EqualApprox(a, b Mat3, tol float64) bool {
	return floats.EqualApprox(a.Raw(), b.Raw(), tol)
}

// Dense returns m as a new gonum dense matrix.
func (m Mat3) Dense() *mat.Dense {
	return mat.NewDense(3, 3, m.Raw())
}

// Sym returns the symmetric part of m, (m+mᵀ)/2, as a new gonum symmetric matrix.
func (m Mat3) Sym() *mat.SymDense {
	s := mat.NewSymDense(3, nil)
	for r := 0; r < 3; r++ {
		for c := r; c < 3; c++ {
			s.SetSym(r, c, (m[r][c]+m[c][r])/2)
		}
	}

	return s
}

// String implements the Stringer interface.
func (m Mat3) String() string {
	return fmt.Sprintf("Mat3{det=%g\n%v\n}", m.Det(), mat.Formatted(m.Dense(), mat.Prefix("     "), mat.Squeeze()))
}

// Raw returns the elements of m in row-major order.
func (m Mat3) Raw() []float64 {
	return []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	}
}
