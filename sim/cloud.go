package sim

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/milosgajdos/go-measure/batch"
	"github.com/milosgajdos/go-measure/rand"
)

// Cloud draws n state hypotheses from the normal distribution centered at center with covariance cov
// and returns them stored in matrix columns. Hypotheses are drawn from a source seeded with seed.
// It returns error if n is not positive, if center and cov dimensions differ or if cov fails to be factorized.
func Cloud(center mat.Vector, cov mat.Symmetric, n int, seed uint64) (*mat.Dense, error) {
	if center.Len() != cov.SymmetricDim() {
		return nil, errors.Errorf("Invalid dimensions. Center: %d, Cov: %d x %d", center.Len(), cov.SymmetricDim(), cov.SymmetricDim())
	}

	x, err := rand.WithCovN(cov, n, rand.NewSource(seed))
	if err != nil {
		return nil, errors.Wrap(err, "Failed to draw hypotheses")
	}

	batch.AddVec(x, mat.Col(nil, 0, center))

	return x, nil
}
