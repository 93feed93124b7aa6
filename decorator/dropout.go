package decorator

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	measure "github.com/milosgajdos/go-measure"
)

const (
	// DropoutOn makes the sensor stop delivering measurements.
	DropoutOn = "dropout:on"
	// DropoutOff makes the sensor deliver measurements again.
	DropoutOff = "dropout:off"
)

var _ measure.Model = (*Dropout)(nil)

// Dropout injects sensor failures: while dropout is on no measurements are available.
type Dropout struct {
	*measure.Decorator
	on bool
}

// NewDropout creates new Dropout decorator which wraps m and returns it.
// Dropout is off when the decorator is created.
func NewDropout(m measure.Model) *Dropout {
	return &Dropout{Decorator: measure.NewDecorator(m)}
}

// On returns true if dropout is on.
func (d *Dropout) On() bool {
	return d.on
}

// Measure fails with measure.ErrUnavailable if dropout is on, otherwise it is forwarded.
func (d *Dropout) Measure() (*mat.Dense, error) {
	if d.on {
		return nil, errors.Wrap(measure.ErrUnavailable, "Sensor dropout")
	}

	return d.Decorator.Measure()
}

// Measurements fails with measure.ErrUnavailable if dropout is on, otherwise it is forwarded.
func (d *Dropout) Measurements() (*mat.Dense, error) {
	if d.on {
		return nil, errors.Wrap(measure.ErrUnavailable, "Sensor dropout")
	}

	return d.Decorator.Measurements()
}

// SetProperty handles DropoutOn and DropoutOff and forwards any other property to the wrapped model.
func (d *Dropout) SetProperty(name string) bool {
	switch name {
	case DropoutOn:
		d.on = true
		return true
	case DropoutOff:
		d.on = false
		return true
	}

	return d.Decorator.SetProperty(name)
}
