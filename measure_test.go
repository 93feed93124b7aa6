package measure_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	measure "github.com/milosgajdos/go-measure"
	"github.com/milosgajdos/go-measure/sensor"
)

// bareModel implements only the mandatory operations.
type bareModel struct {
	measure.Base
}

func (m *bareModel) Measure() (*mat.Dense, error) {
	return nil, measure.ErrUnavailable
}

func (m *bareModel) Measurements() (*mat.Dense, error) {
	return nil, measure.ErrUnavailable
}

func (m *bareModel) PredictedMeasure(x mat.Matrix) (*mat.Dense, error) {
	return mat.DenseCopyOf(x), nil
}

func (m *bareModel) Innovation(pred, z mat.Matrix) (*mat.Dense, error) {
	inn := &mat.Dense{}
	inn.Sub(z, pred)

	return inn, nil
}

func (m *bareModel) NoiseSample(n int) (*mat.Dense, error) {
	return nil, measure.ErrNotImplemented
}

func TestBaseDefaults(t *testing.T) {
	assert := assert.New(t)

	var m measure.Model = &bareModel{}

	cov, err := m.NoiseCov()
	assert.Nil(cov)
	assert.True(errors.Is(err, measure.ErrNotImplemented))

	assert.False(m.SetProperty("anything"))
	assert.False(m.SetProperty(""))
}

func TestHasNoiseCov(t *testing.T) {
	assert := assert.New(t)

	assert.False(measure.HasNoiseCov(&bareModel{}))

	l, err := sensor.NewDefaultLinear()
	assert.NoError(err)
	assert.True(measure.HasNoiseCov(l))
	assert.True(measure.HasNoiseCov(measure.NewDecorator(l)))

	d := measure.NewDecorator(l)
	_ = d.Release()
	assert.False(measure.HasNoiseCov(d))
}

func TestMustNoiseCov(t *testing.T) {
	assert := assert.New(t)

	assert.Panics(func() { measure.MustNoiseCov(&bareModel{}) })

	l, err := sensor.NewLinear(0.1, 0.2, 42)
	assert.NoError(err)

	var cov mat.Symmetric
	assert.NotPanics(func() { cov = measure.MustNoiseCov(l) })
	assert.InDelta(0.01, cov.At(0, 0), 1e-12)
	assert.InDelta(0.04, cov.At(1, 1), 1e-12)
}
