package decorator

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	measure "github.com/milosgajdos/go-measure"
	"github.com/milosgajdos/go-measure/batch"
)

var _ measure.Model = (*AngleWrap)(nil)

// AngleWrap wraps innovation of angular measurement components into (-pi, pi].
type AngleWrap struct {
	*measure.Decorator
	rows []int
}

// NewAngleWrap creates new AngleWrap decorator which wraps m and returns it.
// rows are indices of measurement components which hold angles in radians.
// It returns error if any of the rows is negative.
func NewAngleWrap(m measure.Model, rows ...int) (*AngleWrap, error) {
	for _, r := range rows {
		if r < 0 {
			return nil, errors.Errorf("Invalid angle row: %d", r)
		}
	}

	rs := make([]int, len(rows))
	copy(rs, rows)

	return &AngleWrap{
		Decorator: measure.NewDecorator(m),
		rows:      rs,
	}, nil
}

// Innovation returns innovation computed by the wrapped model with angular rows wrapped into (-pi, pi].
// It fails with error if any angular row is outside of the innovation dimensions.
func (a *AngleWrap) Innovation(pred, z mat.Matrix) (*mat.Dense, error) {
	inn, err := a.Decorator.Innovation(pred, z)
	if err != nil {
		return nil, err
	}

	if batch.Empty(inn) {
		return inn, nil
	}

	rows, cols := inn.Dims()
	for _, r := range a.rows {
		if r >= rows {
			return nil, errors.Wrapf(measure.ErrDims, "Invalid angle row %d of %d rows", r, rows)
		}
		for c := 0; c < cols; c++ {
			inn.Set(r, c, wrapAngle(inn.At(r, c)))
		}
	}

	return inn, nil
}

// wrapAngle wraps angle a into (-pi, pi].
func wrapAngle(a float64) float64 {
	w := math.Remainder(a, 2*math.Pi)
	if w <= -math.Pi {
		w += 2 * math.Pi
	}

	return w
}
