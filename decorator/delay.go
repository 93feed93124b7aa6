package decorator

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	measure "github.com/milosgajdos/go-measure"
	"github.com/milosgajdos/go-measure/batch"
)

var _ measure.Model = (*Delay)(nil)

// Delay delays measurements of the wrapped model by a fixed number of Measure calls.
type Delay struct {
	*measure.Decorator
	// k is the delay
	k int
	// fifo stores measurements which are not due yet
	fifo []*mat.Dense
	// last is the last delayed measurement
	last *mat.Dense
}

// NewDelay creates new Delay decorator which wraps m and returns it.
// Measure returns the measurements the wrapped model measured k calls ago.
// It returns error if k is negative.
func NewDelay(m measure.Model, k int) (*Delay, error) {
	if k < 0 {
		return nil, errors.Errorf("Invalid delay: %d", k)
	}

	return &Delay{
		Decorator: measure.NewDecorator(m),
		k:         k,
		fifo:      make([]*mat.Dense, 0, k+1),
	}, nil
}

// Measure acquires measurements from the wrapped model and returns the measurements
// acquired k calls ago. It fails with measure.ErrUnavailable until k+1 measurements
// have been acquired.
func (d *Delay) Measure() (*mat.Dense, error) {
	z, err := d.Decorator.Measure()
	if err != nil {
		return nil, err
	}

	d.fifo = append(d.fifo, z)
	if len(d.fifo) <= d.k {
		return nil, errors.Wrapf(measure.ErrUnavailable, "Delay buffer: %d of %d measurements", len(d.fifo), d.k+1)
	}

	d.last = d.fifo[0]
	d.fifo[0] = nil
	d.fifo = d.fifo[1:]

	return batch.Copy(d.last), nil
}

// Measurements returns the measurements returned by the last successful call to Measure.
// It fails with measure.ErrUnavailable if there are none.
func (d *Delay) Measurements() (*mat.Dense, error) {
	if d.last == nil {
		return nil, measure.ErrUnavailable
	}

	return batch.Copy(d.last), nil
}
