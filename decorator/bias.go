package decorator

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	measure "github.com/milosgajdos/go-measure"
	"github.com/milosgajdos/go-measure/batch"
)

var _ measure.Model = (*Bias)(nil)

// Bias adds constant offset to every measurement of the wrapped model.
type Bias struct {
	*measure.Decorator
	offset []float64
}

// NewBias creates new Bias decorator which wraps m and returns it.
// offset is added to every measurement column; its length must match the measurement dimension.
// It returns error if offset is empty.
func NewBias(m measure.Model, offset []float64) (*Bias, error) {
	if len(offset) == 0 {
		return nil, errors.New("Empty bias offset")
	}

	o := make([]float64, len(offset))
	copy(o, offset)

	return &Bias{
		Decorator: measure.NewDecorator(m),
		offset:    o,
	}, nil
}

// Offset returns bias offset.
func (b *Bias) Offset() []float64 {
	o := make([]float64, len(b.offset))
	copy(o, b.offset)

	return o
}

// Measure returns biased measurements of the wrapped model.
func (b *Bias) Measure() (*mat.Dense, error) {
	z, err := b.Decorator.Measure()
	if err != nil {
		return nil, err
	}

	return b.apply(z)
}

// Measurements returns biased measurements of the wrapped model.
func (b *Bias) Measurements() (*mat.Dense, error) {
	z, err := b.Decorator.Measurements()
	if err != nil {
		return nil, err
	}

	return b.apply(z)
}

func (b *Bias) apply(z *mat.Dense) (*mat.Dense, error) {
	if batch.Empty(z) {
		return z, nil
	}

	if !batch.HasRows(z, len(b.offset)) {
		rows, _ := z.Dims()
		return nil, errors.Wrapf(measure.ErrDims, "Invalid measurement rows: %d, bias offset: %d", rows, len(b.offset))
	}

	batch.AddVec(z, b.offset)

	return z, nil
}
