package decorator

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	measure "github.com/milosgajdos/go-measure"
	"github.com/milosgajdos/go-measure/batch"
	"github.com/milosgajdos/go-measure/rand"
)

const (
	// OutliersOn enables outliers.
	OutliersOn = "outliers:on"
	// OutliersOff disables outliers.
	OutliersOff = "outliers:off"
)

var _ measure.Model = (*Outlier)(nil)

// Outlier randomly corrupts measurements of the wrapped model with outliers.
// Outliers are enabled when the decorator is created.
type Outlier struct {
	*measure.Decorator
	// p is probability of a measurement being an outlier
	p float64
	// magnitude is the maximum outlier offset
	magnitude float64
	// on enables outliers
	on bool
	// u is unit uniform distribution
	u distuv.Uniform
	// last is the last measurement
	last *mat.Dense
}

// NewOutlier creates new Outlier decorator which wraps m and returns it.
// Every measurement column is turned into an outlier with probability p by adding
// an offset drawn uniformly from [-magnitude, magnitude] to each of its rows.
// Outliers are drawn from a source seeded with seed.
// It returns error if p is not a probability or if magnitude is negative.
func NewOutlier(m measure.Model, p, magnitude float64, seed uint64) (*Outlier, error) {
	if !(p >= 0 && p <= 1) {
		return nil, errors.Errorf("Invalid outlier probability: %v", p)
	}

	if !(magnitude >= 0) {
		return nil, errors.Errorf("Invalid outlier magnitude: %v", magnitude)
	}

	return &Outlier{
		Decorator: measure.NewDecorator(m),
		p:         p,
		magnitude: magnitude,
		on:        true,
		u:         distuv.Uniform{Min: 0, Max: 1, Src: rand.NewSource(seed)},
	}, nil
}

// Enabled returns true if outliers are enabled.
func (o *Outlier) Enabled() bool {
	return o.on
}

// Measure acquires measurements from the wrapped model, corrupts them with outliers and returns them.
func (o *Outlier) Measure() (*mat.Dense, error) {
	z, err := o.Decorator.Measure()
	if err != nil {
		return nil, err
	}

	if o.on && !batch.Empty(z) {
		rows, cols := z.Dims()
		for c := 0; c < cols; c++ {
			if o.u.Rand() >= o.p {
				continue
			}
			for r := 0; r < rows; r++ {
				z.Set(r, c, z.At(r, c)+o.magnitude*(2*o.u.Rand()-1))
			}
		}
	}

	o.last = z

	return batch.Copy(z), nil
}

// Measurements returns the measurements returned by the last successful call to Measure.
// It fails with measure.ErrUnavailable if there are none.
func (o *Outlier) Measurements() (*mat.Dense, error) {
	if o.last == nil {
		return nil, measure.ErrUnavailable
	}

	return batch.Copy(o.last), nil
}

// SetProperty enables outliers if name is OutliersOn and disables them if name is OutliersOff.
// Any other property is forwarded to the wrapped model.
func (o *Outlier) SetProperty(name string) bool {
	switch name {
	case OutliersOn:
		o.on = true
		return true
	case OutliersOff:
		o.on = false
		return true
	}

	return o.Decorator.SetProperty(name)
}
