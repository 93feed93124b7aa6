// Package batch provides helpers for matrices which store a batch of vectors in their columns.
package batch

import (
	"reflect"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Nil returns true if m is nil or if it is a nil pointer to a matrix e.g. (*mat.Dense)(nil).
func Nil(m mat.Matrix) bool {
	if m == nil {
		return true
	}

	v := reflect.ValueOf(m)

	return v.Kind() == reflect.Ptr && v.IsNil()
}

// Empty returns true if m holds no columns.
// gonum can not allocate a matrix with zero columns so an empty batch is usually
// represented by zero value mat.Dense which has both dimensions set to zero.
func Empty(m mat.Matrix) bool {
	_, cols := m.Dims()

	return cols == 0
}

// HasRows returns true if m is either empty or each of its columns has exactly n rows.
func HasRows(m mat.Matrix, n int) bool {
	if Empty(m) {
		return true
	}

	rows, _ := m.Dims()

	return rows == n
}

// SameShape returns true if a and b have the same dimensions or if they are both empty.
func SameShape(a, b mat.Matrix) bool {
	if Empty(a) || Empty(b) {
		return Empty(a) && Empty(b)
	}

	ra, ca := a.Dims()
	rb, cb := b.Dims()

	return ra == rb && ca == cb
}

// Copy returns a copy of m which does not share its data with m.
// It returns empty matrix if m is empty.
func Copy(m mat.Matrix) *mat.Dense {
	if Empty(m) {
		return &mat.Dense{}
	}

	return mat.DenseCopyOf(m)
}

// AddVec adds v to every column of m.
// It panics if the length of v differs from the number of rows of m.
func AddVec(m *mat.Dense, v []float64) {
	rows, _ := m.Dims()
	if len(v) != rows {
		panic(mat.ErrShape)
	}

	for i := 0; i < rows; i++ {
		row := m.RawRowView(i)
		for j := range row {
			row[j] += v[i]
		}
	}
}

// RowSums returns a slice containing m row sums.
// It panics if m is nil.
func RowSums(m *mat.Dense) []float64 {
	rows, _ := m.Dims()
	sum := make([]float64, rows)

	for i := 0; i < rows; i++ {
		sum[i] = floats.Sum(m.RawRowView(i))
	}

	return sum
}

// RowMeans returns a slice containing m row means i.e. the mean vector of the batch.
// It panics if m is nil.
func RowMeans(m *mat.Dense) []float64 {
	_, cols := m.Dims()
	mean := RowSums(m)
	if cols > 0 {
		floats.Scale(1/float64(cols), mean)
	}

	return mean
}
