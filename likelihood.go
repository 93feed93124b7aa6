package measure

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/milosgajdos/go-measure/batch"
)

// LogLikelihood returns log probability density of every innovation stored in the columns
// of inn under the zero mean gaussian distribution with the noise covariance of m.
// It returns empty slice if inn is empty.
// It fails with error if m does not provide noise covariance, if inn has invalid
// dimensions or if the covariance is not positive definite.
func LogLikelihood(m Model, inn mat.Matrix) ([]float64, error) {
	cov, err := m.NoiseCov()
	if err != nil {
		return nil, err
	}

	if batch.Nil(inn) {
		return nil, errors.Wrap(ErrDims, "Invalid innovation: nil")
	}

	_, cols := inn.Dims()
	if cols == 0 {
		return []float64{}, nil
	}

	n := cov.SymmetricDim()
	if rows, _ := inn.Dims(); rows != n {
		return nil, errors.Wrapf(ErrDims, "Invalid innovation rows: %d, noise dimension: %d", rows, n)
	}

	pdf, ok := distmv.NewNormal(make([]float64, n), cov, nil)
	if !ok {
		return nil, errors.New("Noise covariance is not positive definite")
	}

	ll := make([]float64, cols)
	col := make([]float64, n)
	for c := range ll {
		mat.Col(col, c, inn)
		ll[c] = pdf.LogProb(col)
	}

	return ll, nil
}
