package decorator

import (
	"math"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/mat"

	measure "github.com/milosgajdos/go-measure"
	"github.com/milosgajdos/go-measure/sensor"
)

var (
	x  *mat.Dense
	z0 *mat.Dense
)

func setup() {
	// two [x, vx, y, vy] states
	x = mat.NewDense(4, 2, []float64{
		1.0, 2.0,
		0.0, 0.0,
		3.0, 4.0,
		0.0, 0.0,
	})
	z0 = mat.NewDense(2, 2, []float64{
		1.0, 2.0,
		3.0, 4.0,
	})
}

func TestMain(m *testing.M) {
	// set up tests
	setup()
	// run the tests
	retCode := m.Run()
	// call with result of m.Run()
	os.Exit(retCode)
}

func newSensor(t *testing.T) *sensor.Linear {
	l, err := sensor.NewLinear(0.1, 0.2, 42)
	assert.NoError(t, err)
	assert.NoError(t, l.SetMeasurements(z0))

	return l
}

func TestBias(t *testing.T) {
	assert := assert.New(t)

	b, err := NewBias(newSensor(t), nil)
	assert.Nil(b)
	assert.Error(err)

	b, err = NewBias(newSensor(t), []float64{0.5, -1})
	assert.NoError(err)
	assert.Equal([]float64{0.5, -1}, b.Offset())

	exp := mat.NewDense(2, 2, []float64{1.5, 2.5, 2, 3})

	z, err := b.Measure()
	assert.NoError(err)
	assert.True(mat.Equal(exp, z))

	z, err = b.Measurements()
	assert.NoError(err)
	assert.True(mat.Equal(exp, z))

	// predicted measurements are not biased
	pred, err := b.PredictedMeasure(x)
	assert.NoError(err)
	assert.True(mat.Equal(z0, pred))

	b, err = NewBias(newSensor(t), []float64{1, 2, 3})
	assert.NoError(err)
	z, err = b.Measure()
	assert.Nil(z)
	assert.True(errors.Is(err, measure.ErrDims))
}

func TestDelay(t *testing.T) {
	assert := assert.New(t)

	d, err := NewDelay(newSensor(t), -1)
	assert.Nil(d)
	assert.Error(err)

	l, _ := sensor.NewLinear(0.1, 0.2, 42)
	d, err = NewDelay(l, 2)
	assert.NoError(err)

	z, err := d.Measurements()
	assert.Nil(z)
	assert.True(errors.Is(err, measure.ErrUnavailable))

	// wrapped sensor has no measurements
	z, err = d.Measure()
	assert.Nil(z)
	assert.True(errors.Is(err, measure.ErrUnavailable))

	batches := make([]*mat.Dense, 5)
	for i := range batches {
		batches[i] = mat.NewDense(2, 1, []float64{float64(i), float64(-i)})
	}

	for i, b := range batches {
		assert.NoError(l.SetMeasurements(b))
		z, err := d.Measure()
		if i < 2 {
			assert.Nil(z)
			assert.True(errors.Is(err, measure.ErrUnavailable))
			continue
		}
		assert.NoError(err)
		assert.True(mat.Equal(batches[i-2], z))

		z, err = d.Measurements()
		assert.NoError(err)
		assert.True(mat.Equal(batches[i-2], z))
	}

	// zero delay passes measurements through
	d, err = NewDelay(newSensor(t), 0)
	assert.NoError(err)
	z, err = d.Measure()
	assert.NoError(err)
	assert.True(mat.Equal(z0, z))
}

func TestOutlier(t *testing.T) {
	assert := assert.New(t)

	for _, test := range []struct {
		p, magnitude float64
	}{
		{p: -0.1, magnitude: 1},
		{p: 1.1, magnitude: 1},
		{p: math.NaN(), magnitude: 1},
		{p: 0.5, magnitude: -1},
	} {
		o, err := NewOutlier(newSensor(t), test.p, test.magnitude, 1)
		assert.Nil(o)
		assert.Error(err)
	}

	l := newSensor(t)
	o, err := NewOutlier(l, 1, 10, 1)
	assert.NoError(err)
	assert.True(o.Enabled())

	z, err := o.Measurements()
	assert.Nil(z)
	assert.True(errors.Is(err, measure.ErrUnavailable))

	z, err = o.Measure()
	assert.NoError(err)
	assert.False(mat.Equal(z0, z))
	diff := &mat.Dense{}
	diff.Sub(z, z0)
	assert.LessOrEqual(mat.Max(diff), 10.0)
	assert.GreaterOrEqual(mat.Min(diff), -10.0)

	last, err := o.Measurements()
	assert.NoError(err)
	assert.True(mat.Equal(z, last))

	assert.True(o.SetProperty(OutliersOff))
	assert.False(o.Enabled())
	z, err = o.Measure()
	assert.NoError(err)
	assert.True(mat.Equal(z0, z))

	assert.True(o.SetProperty(OutliersOn))
	assert.True(o.Enabled())

	// unknown properties are forwarded to the sensor which does not support any
	assert.False(o.SetProperty("unknown"))

	// the same seed corrupts measurements the same way
	o1, _ := NewOutlier(newSensor(t), 0.5, 5, 7)
	o2, _ := NewOutlier(newSensor(t), 0.5, 5, 7)
	z1, _ := o1.Measure()
	z2, _ := o2.Measure()
	assert.True(mat.Equal(z1, z2))
}

func TestDropout(t *testing.T) {
	assert := assert.New(t)

	d := NewDropout(newSensor(t))
	assert.False(d.On())

	z, err := d.Measure()
	assert.NoError(err)
	assert.True(mat.Equal(z0, z))

	assert.True(d.SetProperty(DropoutOn))
	assert.True(d.On())

	z, err = d.Measure()
	assert.Nil(z)
	assert.True(errors.Is(err, measure.ErrUnavailable))
	z, err = d.Measurements()
	assert.Nil(z)
	assert.True(errors.Is(err, measure.ErrUnavailable))

	// other operations keep working
	pred, err := d.PredictedMeasure(x)
	assert.NoError(err)
	assert.True(mat.Equal(z0, pred))

	assert.True(d.SetProperty(DropoutOff))
	z, err = d.Measurements()
	assert.NoError(err)
	assert.True(mat.Equal(z0, z))

	assert.False(d.SetProperty("unknown"))
}

func TestScale(t *testing.T) {
	assert := assert.New(t)

	for _, k := range []float64{0, math.NaN(), math.Inf(1)} {
		s, err := NewScale(newSensor(t), k)
		assert.Nil(s)
		assert.Error(err)
	}

	// metres to millimetres
	s, err := NewScale(newSensor(t), 1000)
	assert.NoError(err)
	assert.Equal(1000.0, s.Factor())

	exp := &mat.Dense{}
	exp.Scale(1000, z0)

	z, err := s.Measure()
	assert.NoError(err)
	assert.True(mat.EqualApprox(exp, z, 1e-9))

	z, err = s.Measurements()
	assert.NoError(err)
	assert.True(mat.EqualApprox(exp, z, 1e-9))

	pred, err := s.PredictedMeasure(x)
	assert.NoError(err)
	assert.True(mat.EqualApprox(exp, pred, 1e-9))

	empty, err := s.PredictedMeasure(&mat.Dense{})
	assert.NoError(err)
	assert.True(empty.IsEmpty())

	cov, err := s.NoiseCov()
	assert.NoError(err)
	assert.InDelta(0.01*1e6, cov.At(0, 0), 1e-6)
	assert.InDelta(0.04*1e6, cov.At(1, 1), 1e-6)

	ref := newSensor(t)
	r, err := s.NoiseSample(3)
	assert.NoError(err)
	refR, _ := ref.NoiseSample(3)
	refR.Scale(1000, refR)
	assert.True(mat.EqualApprox(refR, r, 1e-9))

	r, err = s.NoiseSample(-1)
	assert.Nil(r)
	assert.Error(err)
}

func TestAngleWrap(t *testing.T) {
	assert := assert.New(t)

	a, err := NewAngleWrap(newSensor(t), -1)
	assert.Nil(a)
	assert.Error(err)

	a, err = NewAngleWrap(newSensor(t), 1)
	assert.NoError(err)

	pred := mat.NewDense(2, 3, []float64{
		0, 0, 0,
		-3, 3, 0,
	})
	z := mat.NewDense(2, 3, []float64{
		5, 5, 5,
		3, -3, math.Pi,
	})

	inn, err := a.Innovation(pred, z)
	assert.NoError(err)
	// row 0 is not wrapped
	assert.Equal([]float64{5, 5, 5}, inn.RawRowView(0))
	assert.InDelta(6-2*math.Pi, inn.At(1, 0), 1e-12)
	assert.InDelta(-6+2*math.Pi, inn.At(1, 1), 1e-12)
	assert.InDelta(math.Pi, inn.At(1, 2), 1e-12)

	inn, err = a.Innovation(&mat.Dense{}, &mat.Dense{})
	assert.NoError(err)
	assert.True(inn.IsEmpty())

	a, err = NewAngleWrap(newSensor(t), 2)
	assert.NoError(err)
	inn, err = a.Innovation(pred, z)
	assert.Nil(inn)
	assert.True(errors.Is(err, measure.ErrDims))
}

func TestWrapAngle(t *testing.T) {
	assert := assert.New(t)

	for _, test := range []struct {
		in, out float64
	}{
		{in: 0, out: 0},
		{in: math.Pi, out: math.Pi},
		{in: -math.Pi, out: math.Pi},
		{in: 2*math.Pi + 0.5, out: 0.5},
		{in: -2*math.Pi - 0.5, out: -0.5},
	} {
		assert.InDelta(test.out, wrapAngle(test.in), 1e-12)
	}
}

func TestTrace(t *testing.T) {
	assert := assert.New(t)

	core, logs := observer.New(zapcore.DebugLevel)
	tr := NewTrace(newSensor(t), zap.New(core).Sugar())

	z, err := tr.Measure()
	assert.NoError(err)
	assert.True(mat.Equal(z0, z))

	_, err = tr.PredictedMeasure(mat.NewDense(3, 1, nil))
	assert.Error(err)

	_, err = tr.NoiseSample(4)
	assert.NoError(err)

	_, err = tr.NoiseCov()
	assert.NoError(err)

	assert.False(tr.SetProperty("unknown"))

	assert.Equal(1, logs.FilterMessage("Measure").Len())
	assert.Equal(1, logs.FilterMessage("PredictedMeasure failed").Len())
	assert.Equal(1, logs.FilterMessage("NoiseSample").FilterField(zap.Int("cols", 4)).Len())
	assert.Equal(1, logs.FilterMessage("NoiseCov").Len())
	assert.Equal(1, logs.FilterMessage("SetProperty").FilterField(zap.Bool("supported", false)).Len())
	assert.Equal(1, logs.FilterLevelExact(zapcore.WarnLevel).Len())

	// nil logger does not log anything
	tr = NewTrace(newSensor(t), nil)
	_, err = tr.Measurements()
	assert.NoError(err)
}

func TestChain(t *testing.T) {
	assert := assert.New(t)

	l := newSensor(t)
	b, err := NewBias(l, []float64{1, 1})
	assert.NoError(err)
	d, err := NewDelay(b, 1)
	assert.NoError(err)
	drop := NewDropout(d)
	s, err := NewScale(drop, 10)
	assert.NoError(err)
	var m measure.Model = NewTrace(s, nil)

	// first measurement is held back by the delay
	z, err := m.Measure()
	assert.Nil(z)
	assert.True(errors.Is(err, measure.ErrUnavailable))

	z, err = m.Measure()
	assert.NoError(err)
	exp := mat.NewDense(2, 2, []float64{20, 30, 40, 50})
	assert.True(mat.EqualApprox(exp, z, 1e-9))

	// property reaches the dropout decorator down the chain
	assert.True(m.SetProperty(DropoutOn))
	_, err = m.Measurements()
	assert.True(errors.Is(err, measure.ErrUnavailable))
	assert.True(m.SetProperty(DropoutOff))

	z, err = m.Measurements()
	assert.NoError(err)
	assert.True(mat.EqualApprox(exp, z, 1e-9))

	cov, err := m.NoiseCov()
	assert.NoError(err)
	assert.InDelta(1.0, cov.At(0, 0), 1e-9)
	assert.InDelta(4.0, cov.At(1, 1), 1e-9)

	// moving the chain out detaches the outer decorator
	inner := s.Release()
	assert.Equal(drop, inner)
	_, err = m.Measure()
	assert.True(errors.Is(err, measure.ErrDetached))
}
