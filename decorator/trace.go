package decorator

import (
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	measure "github.com/milosgajdos/go-measure"
)

var _ measure.Model = (*Trace)(nil)

// Trace logs every operation of the wrapped model.
// Successful operations are logged at debug level, failures at warn level.
type Trace struct {
	*measure.Decorator
	logger *zap.SugaredLogger
}

// NewTrace creates new Trace decorator which wraps m and logs to logger and returns it.
// If logger is nil nothing is logged.
func NewTrace(m measure.Model, logger *zap.SugaredLogger) *Trace {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Trace{
		Decorator: measure.NewDecorator(m),
		logger:    logger,
	}
}

// Measure forwards Measure to the wrapped model and logs it.
func (t *Trace) Measure() (*mat.Dense, error) {
	z, err := t.Decorator.Measure()
	t.log("Measure", z, err)

	return z, err
}

// Measurements forwards Measurements to the wrapped model and logs it.
func (t *Trace) Measurements() (*mat.Dense, error) {
	z, err := t.Decorator.Measurements()
	t.log("Measurements", z, err)

	return z, err
}

// PredictedMeasure forwards PredictedMeasure to the wrapped model and logs it.
func (t *Trace) PredictedMeasure(x mat.Matrix) (*mat.Dense, error) {
	z, err := t.Decorator.PredictedMeasure(x)
	t.log("PredictedMeasure", z, err)

	return z, err
}

// Innovation forwards Innovation to the wrapped model and logs it.
func (t *Trace) Innovation(pred, z mat.Matrix) (*mat.Dense, error) {
	inn, err := t.Decorator.Innovation(pred, z)
	t.log("Innovation", inn, err)

	return inn, err
}

// NoiseSample forwards NoiseSample to the wrapped model and logs it.
func (t *Trace) NoiseSample(n int) (*mat.Dense, error) {
	r, err := t.Decorator.NoiseSample(n)
	t.log("NoiseSample", r, err, "n", n)

	return r, err
}

// NoiseCov forwards NoiseCov to the wrapped model and logs it.
func (t *Trace) NoiseCov() (mat.Symmetric, error) {
	cov, err := t.Decorator.NoiseCov()
	if err != nil {
		t.logger.Warnw("NoiseCov failed", "error", err)
		return cov, err
	}
	t.logger.Debugw("NoiseCov", "dim", cov.SymmetricDim())

	return cov, err
}

// SetProperty forwards SetProperty to the wrapped model and logs it.
func (t *Trace) SetProperty(name string) bool {
	ok := t.Decorator.SetProperty(name)
	t.logger.Debugw("SetProperty", "name", name, "supported", ok)

	return ok
}

func (t *Trace) log(op string, m *mat.Dense, err error, kv ...interface{}) {
	if err != nil {
		t.logger.Warnw(op+" failed", append(kv, "error", err)...)
		return
	}

	rows, cols := 0, 0
	if m != nil {
		rows, cols = m.Dims()
	}
	t.logger.Debugw(op, append(kv, "rows", rows, "cols", cols)...)
}
