// Package sensor implements concrete measurement models.
package sensor

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	measure "github.com/milosgajdos/go-measure"
	"github.com/milosgajdos/go-measure/batch"
	"github.com/milosgajdos/go-measure/noise"
	"github.com/milosgajdos/go-measure/rand"
)

// MeasurementDim is dimension of Linear sensor measurements: x and y.
const MeasurementDim = 2

var _ measure.Model = (*Linear)(nil)

// Linear is a sensor which measures a linear projection of the state
// corrupted by additive zero mean gaussian noise:
//
//	z = H*x + r, r ~ N(0, R), R = diag(sigma_x^2, sigma_y^2)
//
// Linear is not safe for concurrent use.
type Linear struct {
	measure.Base
	// h is measurement matrix
	h *mat.Dense
	// sigmaX and sigmaY are noise standard deviations
	sigmaX, sigmaY float64
	// r is measurement noise
	r *noise.Gaussian
	// z stores the current measurements
	z *mat.Dense
}

// New creates new Linear sensor with configuration c and returns it.
// If c does not set the seed, noise source is seeded from the system entropy pool.
// It returns error if c is invalid or if the sensor fails to be created.
func New(c *Config) (*Linear, error) {
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "Invalid sensor config")
	}

	seed := rand.EntropySeed()
	if c.Seed != nil {
		seed = *c.Seed
	}

	cov := mat.NewSymDense(MeasurementDim, []float64{
		c.SigmaX * c.SigmaX, 0.0,
		0.0, c.SigmaY * c.SigmaY,
	})

	r, err := noise.NewGaussian(cov, seed)
	if err != nil {
		return nil, err
	}

	return &Linear{
		h:      c.Matrix(),
		sigmaX: c.SigmaX,
		sigmaY: c.SigmaY,
		r:      r,
	}, nil
}

// NewLinear creates new Linear sensor with noise standard deviations sigmaX and sigmaY
// and noise source seeded with seed and returns it.
func NewLinear(sigmaX, sigmaY float64, seed uint64) (*Linear, error) {
	return New(&Config{SigmaX: sigmaX, SigmaY: sigmaY, Seed: &seed})
}

// NewLinearUnseeded creates new Linear sensor with noise standard deviations sigmaX and sigmaY
// and returns it. Noise source is seeded from the system entropy pool.
func NewLinearUnseeded(sigmaX, sigmaY float64) (*Linear, error) {
	return New(&Config{SigmaX: sigmaX, SigmaY: sigmaY})
}

// NewDefaultLinear creates new Linear sensor with default configuration and returns it.
func NewDefaultLinear() (*Linear, error) {
	return New(DefaultConfig())
}

// Dims returns state and measurement dimensions.
func (l *Linear) Dims() (nx, nz int) {
	nz, nx = l.h.Dims()

	return nx, nz
}

// Seed returns the seed of the noise source.
func (l *Linear) Seed() uint64 {
	return l.r.Seed()
}

// Sigmas returns noise standard deviations.
func (l *Linear) Sigmas() (x, y float64) {
	return l.sigmaX, l.sigmaY
}

// MeasurementMatrix returns measurement matrix.
func (l *Linear) MeasurementMatrix() mat.Matrix {
	return mat.DenseCopyOf(l.h)
}

// Simulate generates noisy measurements of the states stored in columns of x,
// stores them as the current measurements and returns them.
// It fails with error if x has invalid dimensions.
func (l *Linear) Simulate(x mat.Matrix) (*mat.Dense, error) {
	z, err := l.PredictedMeasure(x)
	if err != nil {
		return nil, err
	}

	if !z.IsEmpty() {
		_, cols := z.Dims()
		// cols is positive so sampling can't fail
		r, _ := l.r.SampleN(cols)
		z.Add(z, r)
	}

	l.z = z

	return batch.Copy(z), nil
}

// SetMeasurements stores z as the current measurements.
// It fails with error if z is nil or if its columns are not 2D vectors.
func (l *Linear) SetMeasurements(z mat.Matrix) error {
	if batch.Nil(z) {
		return errors.Wrap(measure.ErrDims, "Invalid measurements: nil")
	}

	if !batch.HasRows(z, MeasurementDim) {
		rows, _ := z.Dims()
		return errors.Wrapf(measure.ErrDims, "Invalid measurement rows: %d, expected: %d", rows, MeasurementDim)
	}

	l.z = batch.Copy(z)

	return nil
}

// Measure returns the current measurements.
// Linear sensor does not acquire measurements by itself: they are either
// generated by Simulate or supplied via SetMeasurements.
// It fails with measure.ErrUnavailable if no measurements are stored.
func (l *Linear) Measure() (*mat.Dense, error) {
	return l.Measurements()
}

// Measurements returns the current measurements.
// It fails with measure.ErrUnavailable if no measurements are stored.
func (l *Linear) Measurements() (*mat.Dense, error) {
	if l.z == nil {
		return nil, measure.ErrUnavailable
	}

	return batch.Copy(l.z), nil
}

// PredictedMeasure returns noiseless measurements H*x of the states stored in columns of x.
// It returns empty matrix if x is empty.
// It fails with error if x is nil or if its row count differs from the state dimension.
func (l *Linear) PredictedMeasure(x mat.Matrix) (*mat.Dense, error) {
	if batch.Nil(x) {
		return nil, errors.Wrap(measure.ErrDims, "Invalid states: nil")
	}

	if batch.Empty(x) {
		return &mat.Dense{}, nil
	}

	nx, _ := l.Dims()
	if !batch.HasRows(x, nx) {
		rows, _ := x.Dims()
		return nil, errors.Wrapf(measure.ErrDims, "Invalid state rows: %d, expected: %d", rows, nx)
	}

	z := &mat.Dense{}
	z.Mul(l.h, x)

	return z, nil
}

// Innovation returns z - pred computed column by column.
// It returns empty matrix if both pred and z are empty.
// It fails with error if pred and z differ in shape or if their columns are not 2D vectors.
func (l *Linear) Innovation(pred, z mat.Matrix) (*mat.Dense, error) {
	if batch.Nil(pred) || batch.Nil(z) {
		return nil, errors.Wrap(measure.ErrDims, "Invalid measurements: nil")
	}

	if !batch.SameShape(pred, z) {
		pr, pc := pred.Dims()
		zr, zc := z.Dims()
		return nil, errors.Wrapf(measure.ErrDims, "Invalid shapes. Predicted: %d x %d, measured: %d x %d", pr, pc, zr, zc)
	}

	if batch.Empty(z) {
		return &mat.Dense{}, nil
	}

	if !batch.HasRows(z, MeasurementDim) {
		rows, _ := z.Dims()
		return nil, errors.Wrapf(measure.ErrDims, "Invalid measurement rows: %d, expected: %d", rows, MeasurementDim)
	}

	inn := &mat.Dense{}
	inn.Sub(z, pred)

	return inn, nil
}

// NoiseSample draws n measurement noise samples and returns them stored in matrix columns.
// It returns empty matrix if n is zero and fails with error if n is negative.
func (l *Linear) NoiseSample(n int) (*mat.Dense, error) {
	if n < 0 {
		return nil, errors.Wrapf(measure.ErrDims, "Invalid sample count: %d", n)
	}

	return l.r.SampleN(n)
}

// NoiseCov returns measurement noise covariance R.
func (l *Linear) NoiseCov() (mat.Symmetric, error) {
	return l.r.Cov(), nil
}

// NoiseSqrt returns square root factor S of measurement noise covariance: S*S' = R.
func (l *Linear) NoiseSqrt() mat.Matrix {
	return l.r.Sqrt()
}

// Reset resets the noise source to the state it was created in.
func (l *Linear) Reset() {
	l.r.Reset()
}

// Clone returns a copy of the sensor whose noise source is seeded independently.
// The seed of the copy is derived from the seed of l, so clones are reproducible.
func (l *Linear) Clone() *Linear {
	c := l.copy()
	c.r = l.r.Clone()

	return c
}

// Fork returns a copy of the sensor whose noise source is in the same state as the source of l.
// Both sensors generate the same noise from now on.
// It returns error if the noise source fails to be copied.
func (l *Linear) Fork() (*Linear, error) {
	r, err := l.r.Fork()
	if err != nil {
		return nil, err
	}

	f := l.copy()
	f.r = r

	return f, nil
}

func (l *Linear) copy() *Linear {
	c := &Linear{
		h:      mat.DenseCopyOf(l.h),
		sigmaX: l.sigmaX,
		sigmaY: l.sigmaY,
	}

	if l.z != nil {
		c.z = batch.Copy(l.z)
	}

	return c
}

// String implements the Stringer interface.
func (l *Linear) String() string {
	return fmt.Sprintf("Linear{\nH=%v\nR=%v\n}",
		mat.Formatted(l.h, mat.Prefix("  "), mat.Squeeze()),
		mat.Formatted(l.r.Cov(), mat.Prefix("  "), mat.Squeeze()))
}
