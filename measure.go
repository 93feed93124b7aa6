// Package measure defines measurement models: the sensor side of a Bayesian
// state estimator. A measurement model produces sensor measurements, predicts the
// measurements a batch of state hypotheses would produce, compares predicted and
// actual measurements and describes the noise which corrupts the measurements.
//
// State and measurement batches are matrices whose columns are individual vectors.
package measure

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNotImplemented is returned when a model does not implement an operation.
	// Unlike other errors it signals a wiring error rather than a problem with data.
	ErrNotImplemented = errors.New("not implemented")
	// ErrUnavailable is returned when no measurements are available.
	ErrUnavailable = errors.New("measurements unavailable")
	// ErrDims is returned when a matrix has invalid dimensions.
	ErrDims = errors.New("invalid dimensions")
	// ErrDetached is returned by a decorator which no longer wraps any model.
	ErrDetached = errors.New("decorator does not wrap any model")
)

// Model is a measurement model.
// Operations signal failure by returning non-nil error; the returned matrix
// must not be used in that case. Returned matrices never share data with the
// model or with the matrices passed in.
type Model interface {
	// Measure acquires measurements and returns them.
	Measure() (*mat.Dense, error)
	// Measurements returns the measurements acquired by the last call to Measure.
	Measurements() (*mat.Dense, error)
	// PredictedMeasure returns noiseless measurements predicted for every state in x.
	PredictedMeasure(x mat.Matrix) (*mat.Dense, error)
	// Innovation returns the discrepancy between predicted measurements pred and measurements z.
	Innovation(pred, z mat.Matrix) (*mat.Dense, error)
	// NoiseSample draws n measurement noise samples.
	NoiseSample(n int) (*mat.Dense, error)
	// NoiseCov returns measurement noise covariance.
	NoiseCov() (mat.Symmetric, error)
	// SetProperty reconfigures the model; it returns false if the property is not supported.
	SetProperty(name string) bool
}

// Base provides default behaviour for optional Model operations.
// Models embed Base and override the operations they support.
type Base struct{}

// NoiseCov returns ErrNotImplemented: models whose noise is not described by
// a (state independent) covariance matrix do not need to override it.
func (Base) NoiseCov() (mat.Symmetric, error) {
	return nil, ErrNotImplemented
}

// SetProperty does not support any property and always returns false.
func (Base) SetProperty(name string) bool {
	return false
}

// HasNoiseCov returns true if m provides noise covariance.
// Detached decorators do not provide it.
func HasNoiseCov(m Model) bool {
	_, err := m.NoiseCov()

	return err == nil
}

// MustNoiseCov returns noise covariance of m.
// It panics if m fails to provide it: estimators which require noise covariance
// can not work with such models.
func MustNoiseCov(m Model) mat.Symmetric {
	cov, err := m.NoiseCov()
	if err != nil {
		panic(errors.Wrap(err, "Measurement model noise covariance"))
	}

	return cov
}
