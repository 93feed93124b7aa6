// Package decorator implements measurement model decorators.
//
// Every decorator wraps exactly one measure.Model and forwards all the operations
// it does not override, so decorators can be chained in any order:
//
//	l, _ := sensor.NewLinear(0.1, 0.2, 42)
//	b, _ := decorator.NewBias(l, []float64{0.5, -0.5})
//	d, _ := decorator.NewDelay(b, 2)
//	m := decorator.NewTrace(d, logger)
//
// A decorator owns the model it wraps: wrapped models must not be used directly.
package decorator
