// Package sim simulates targets observed by measurement models.
package sim

import (
	"github.com/milosgajdos/matrix"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// StateDim is the dimension of ConstantVelocity state: [x, vx, y, vy].
const StateDim = 4

// ConstantVelocity is a discrete-time model of a target moving in a plane with constant velocity.
//
//	x[n+1] = A*x[n]
//
// where x is [x, vx, y, vy] state vector.
type ConstantVelocity struct {
	// A is state transition matrix
	A *mat.Dense
	// T is sampling period
	T float64
}

// NewConstantVelocity creates new constant velocity model with sampling period T and returns it.
// It returns error if T is not positive.
func NewConstantVelocity(T float64) (*ConstantVelocity, error) {
	if !(T > 0) {
		return nil, errors.Errorf("Invalid sampling period: %v", T)
	}

	eye, err := matrix.NewDenseValIdentity(StateDim, 1.0)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create state matrix")
	}

	A := mat.DenseCopyOf(eye)
	A.Set(0, 1, T)
	A.Set(2, 3, T)

	return &ConstantVelocity{A: A, T: T}, nil
}

// Propagate returns the next state of the target in state x.
// It returns error if x has invalid dimension.
func (cv *ConstantVelocity) Propagate(x mat.Vector) (mat.Vector, error) {
	if x.Len() != StateDim {
		return nil, errors.Errorf("Invalid state vector length: %d", x.Len())
	}

	out := new(mat.VecDense)
	out.MulVec(cv.A, x)

	return out, nil
}

// Trajectory propagates the target from the state x0 for the given number of steps
// and returns the states stored in matrix columns. The first column is x0.
// It returns error if steps is not positive or if x0 has invalid dimension.
func (cv *ConstantVelocity) Trajectory(x0 mat.Vector, steps int) (*mat.Dense, error) {
	if steps <= 0 {
		return nil, errors.Errorf("Invalid number of steps: %d", steps)
	}

	if x0.Len() != StateDim {
		return nil, errors.Errorf("Invalid state vector length: %d", x0.Len())
	}

	states := mat.NewDense(StateDim, steps, nil)
	var x mat.Vector = x0
	for i := 0; i < steps; i++ {
		states.ColView(i).(*mat.VecDense).CopyVec(x)

		var err error
		if x, err = cv.Propagate(x); err != nil {
			return nil, err
		}
	}

	return states, nil
}
