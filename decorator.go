package measure

import "gonum.org/v1/gonum/mat"

// Decorator wraps a measurement model and forwards all operations to it.
// Decorator owns the wrapped model: the model must not be used by anything else.
// Concrete decorators embed *Decorator and override the operations they modify.
type Decorator struct {
	m Model
}

// NewDecorator creates new Decorator which wraps m and returns it.
func NewDecorator(m Model) *Decorator {
	return &Decorator{m: m}
}

// Release detaches the wrapped model from the decorator and returns it.
// All subsequent operations on the decorator fail with ErrDetached.
func (d *Decorator) Release() Model {
	m := d.m
	d.m = nil

	return m
}

// Move relocates the wrapped model to a new Decorator and returns it.
// d is detached from the model.
func (d *Decorator) Move() *Decorator {
	return NewDecorator(d.Release())
}

// Detached returns true if d does not wrap any model.
func (d *Decorator) Detached() bool {
	return d.m == nil
}

// Measure forwards Measure to the wrapped model.
func (d *Decorator) Measure() (*mat.Dense, error) {
	if d.m == nil {
		return nil, ErrDetached
	}

	return d.m.Measure()
}

// Measurements forwards Measurements to the wrapped model.
func (d *Decorator) Measurements() (*mat.Dense, error) {
	if d.m == nil {
		return nil, ErrDetached
	}

	return d.m.Measurements()
}

// PredictedMeasure forwards PredictedMeasure to the wrapped model.
func (d *Decorator) PredictedMeasure(x mat.Matrix) (*mat.Dense, error) {
	if d.m == nil {
		return nil, ErrDetached
	}

	return d.m.PredictedMeasure(x)
}

// Innovation forwards Innovation to the wrapped model.
func (d *Decorator) Innovation(pred, z mat.Matrix) (*mat.Dense, error) {
	if d.m == nil {
		return nil, ErrDetached
	}

	return d.m.Innovation(pred, z)
}

// NoiseSample forwards NoiseSample to the wrapped model.
func (d *Decorator) NoiseSample(n int) (*mat.Dense, error) {
	if d.m == nil {
		return nil, ErrDetached
	}

	return d.m.NoiseSample(n)
}

// NoiseCov forwards NoiseCov to the wrapped model.
func (d *Decorator) NoiseCov() (mat.Symmetric, error) {
	if d.m == nil {
		return nil, ErrDetached
	}

	return d.m.NoiseCov()
}

// SetProperty forwards SetProperty to the wrapped model.
// It returns false if d is detached.
func (d *Decorator) SetProperty(name string) bool {
	if d.m == nil {
		return false
	}

	return d.m.SetProperty(name)
}
