// Package rand provides seeded random sources and helpers for drawing
// correlated normal samples.
package rand

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"time"

	"github.com/pkg/errors"
	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// sqrtTol is the tolerance used to check S*S' reconstructs the factorized covariance.
const sqrtTol = 1e-9

// NewSource creates new PCG source seeded with seed and returns it.
func NewSource(seed uint64) *xrand.PCGSource {
	src := &xrand.PCGSource{}
	src.Seed(seed)

	return src
}

// CopySource returns a copy of src which is in exactly the same state as src:
// both sources generate the same sequence of numbers from now on.
func CopySource(src *xrand.PCGSource) (*xrand.PCGSource, error) {
	state, err := src.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "Failed to read source state")
	}

	dst := &xrand.PCGSource{}
	if err := dst.UnmarshalBinary(state); err != nil {
		return nil, errors.Wrap(err, "Failed to restore source state")
	}

	return dst, nil
}

// EntropySeed returns a non-deterministic seed.
// The seed is read from the system entropy pool; current time is used if that fails.
func EntropySeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}

	return binary.LittleEndian.Uint64(b[:])
}

// DeriveSeed derives i-th child seed from seed.
// The same (seed, i) pair always yields the same child seed.
// The derivation follows the splitmix64 output function:
// - https://prng.di.unimi.it/splitmix64.c
func DeriveSeed(seed, i uint64) uint64 {
	z := seed + (i+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb

	return z ^ (z >> 31)
}

// SqrtCov computes a square root factor S of cov such that S*S' = cov and returns it.
// It attempts Cholesky factorization first and falls back to SVD if cov is not
// positive definite i.e. if it's singular but still positive semi-definite.
// It returns error if cov is empty, if any of its elements is not finite or if it is not positive semi-definite.
func SqrtCov(cov mat.Symmetric) (*mat.Dense, error) {
	n := cov.SymmetricDim()
	if n == 0 {
		return nil, errors.New("Invalid covariance matrix: empty")
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if v := cov.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.Errorf("Invalid covariance matrix element [%d, %d]: %v", i, j, v)
			}
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(cov); ok {
		l := &mat.TriDense{}
		chol.LTo(l)

		return mat.DenseCopyOf(l), nil
	}

	// Use SVD if Cholesky fails as it copes with (almost) singular cov
	var svd mat.SVD
	if ok := svd.Factorize(cov, mat.SVDFull); !ok {
		return nil, errors.New("SVD factorization failed")
	}

	U := new(mat.Dense)
	svd.UTo(U)
	vals := svd.Values(nil)
	for i := range vals {
		vals[i] = math.Sqrt(math.Max(vals[i], 0))
	}
	diag := mat.NewDiagDense(len(vals), vals)
	U.Mul(U, diag)

	// indefinite matrices have U != V so U*sqrt(S) does not reconstruct cov
	rec := new(mat.Dense)
	rec.Mul(U, U.T())
	if !mat.EqualApprox(rec, cov, sqrtTol*math.Max(1, mat.Norm(cov, math.Inf(1)))) {
		return nil, errors.New("Invalid covariance matrix: not positive semi-definite")
	}

	return U, nil
}

// DrawN draws rows*n random values from r and returns them in a rows x n matrix.
// The values are drawn column by column. It returns empty matrix if n is zero.
// It fails with error if rows is non-positive or if n is negative.
func DrawN(r distuv.Rander, rows, n int) (*mat.Dense, error) {
	if rows <= 0 {
		return nil, errors.Errorf("Invalid number of rows: %d", rows)
	}

	if n < 0 {
		return nil, errors.Errorf("Invalid number of samples requested: %d", n)
	}

	if n == 0 {
		return &mat.Dense{}, nil
	}

	samples := mat.NewDense(rows, n, nil)
	for c := 0; c < n; c++ {
		for r0 := 0; r0 < rows; r0++ {
			samples.Set(r0, c, r.Rand())
		}
	}

	return samples, nil
}

// WithCovN draws n random samples from a zero-mean Normal (aka Gaussian) distribution with covariance cov.
// Random numbers are drawn from src. If src is nil the global x/exp/rand source is used.
// It returns matrix which contains the randomly generated samples stored in its columns.
// It fails with error if n is non-positive or if cov fails to be factorized.
func WithCovN(cov mat.Symmetric, n int, src xrand.Source) (*mat.Dense, error) {
	if n <= 0 {
		return nil, errors.Errorf("Invalid number of samples requested: %d", n)
	}

	sqrt, err := SqrtCov(cov)
	if err != nil {
		return nil, err
	}

	std := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	samples, err := DrawN(std, cov.SymmetricDim(), n)
	if err != nil {
		return nil, err
	}
	samples.Mul(sqrt, samples)

	return samples, nil
}
