package decorator

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	measure "github.com/milosgajdos/go-measure"
	"github.com/milosgajdos/go-measure/batch"
)

var _ measure.Model = (*Scale)(nil)

// Scale converts measurement units of the wrapped model by a constant factor.
// Innovation is not overridden: it's linear, so the wrapped model computes it in any units.
type Scale struct {
	*measure.Decorator
	k float64
}

// NewScale creates new Scale decorator which multiplies measurements of m by k and returns it.
// It returns error if k is zero or not finite.
func NewScale(m measure.Model, k float64) (*Scale, error) {
	if k == 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return nil, errors.Errorf("Invalid scale factor: %v", k)
	}

	return &Scale{
		Decorator: measure.NewDecorator(m),
		k:         k,
	}, nil
}

// Factor returns the scale factor.
func (s *Scale) Factor() float64 {
	return s.k
}

// Measure returns scaled measurements of the wrapped model.
func (s *Scale) Measure() (*mat.Dense, error) {
	return s.scale(s.Decorator.Measure())
}

// Measurements returns scaled measurements of the wrapped model.
func (s *Scale) Measurements() (*mat.Dense, error) {
	return s.scale(s.Decorator.Measurements())
}

// PredictedMeasure returns scaled predicted measurements of the wrapped model.
func (s *Scale) PredictedMeasure(x mat.Matrix) (*mat.Dense, error) {
	return s.scale(s.Decorator.PredictedMeasure(x))
}

// NoiseSample returns scaled noise samples of the wrapped model.
func (s *Scale) NoiseSample(n int) (*mat.Dense, error) {
	return s.scale(s.Decorator.NoiseSample(n))
}

// NoiseCov returns noise covariance of the wrapped model scaled by the square of the scale factor.
func (s *Scale) NoiseCov() (mat.Symmetric, error) {
	cov, err := s.Decorator.NoiseCov()
	if err != nil {
		return nil, err
	}

	c := mat.NewSymDense(cov.SymmetricDim(), nil)
	c.ScaleSym(s.k*s.k, cov)

	return c, nil
}

func (s *Scale) scale(m *mat.Dense, err error) (*mat.Dense, error) {
	if err != nil {
		return nil, err
	}

	if !batch.Empty(m) {
		m.Scale(s.k, m)
	}

	return m, nil
}
