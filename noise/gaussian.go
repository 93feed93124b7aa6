// Package noise implements additive measurement noise sources.
package noise

import (
	"fmt"

	"github.com/pkg/errors"
	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/milosgajdos/go-measure/rand"
)

// Gaussian is zero mean, time invariant gaussian noise.
// Gaussian is not safe for concurrent use: every sample advances its random source.
type Gaussian struct {
	// cov is noise covariance
	cov *mat.SymDense
	// sqrt is square root factor of cov: sqrt*sqrt' = cov
	sqrt *mat.Dense
	// seed is the seed the source was created with
	seed uint64
	// ns seeds the derivation of clone and fork seeds
	ns uint64
	// clones counts clones and forks derived from this noise
	clones uint64
	// src is the random source
	src *xrand.PCGSource
	// std is standard normal distribution drawing from src
	std distuv.Normal
}

// NewGaussian creates new Gaussian noise with covariance cov whose samples are drawn from a source seeded with seed.
// It returns error if cov is empty or if it fails to be factorized.
func NewGaussian(cov mat.Symmetric, seed uint64) (*Gaussian, error) {
	sqrt, err := rand.SqrtCov(cov)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create Gaussian noise")
	}

	c := mat.NewSymDense(cov.SymmetricDim(), nil)
	c.CopySym(cov)

	return newGaussian(c, sqrt, seed, rand.NewSource(seed)), nil
}

func newGaussian(cov *mat.SymDense, sqrt *mat.Dense, seed uint64, src *xrand.PCGSource) *Gaussian {
	return &Gaussian{
		cov:  cov,
		sqrt: sqrt,
		seed: seed,
		ns:   seed,
		src:  src,
		std:  distuv.Normal{Mu: 0, Sigma: 1, Src: src},
	}
}

// Dim returns noise dimension.
func (g *Gaussian) Dim() int {
	return g.cov.SymmetricDim()
}

// Seed returns the seed the noise source was created with.
func (g *Gaussian) Seed() uint64 {
	return g.seed
}

// Sample generates a single sample from Gaussian noise and returns it.
func (g *Gaussian) Sample() mat.Vector {
	// n is positive and dim is non-zero so SampleN never fails here
	s, _ := g.SampleN(1)

	return s.ColView(0)
}

// SampleN generates n samples from Gaussian noise and returns them stored in matrix columns.
// For every column it draws Dim() independent standard normal values and
// transforms them by the cached square root of the noise covariance.
// It returns empty matrix if n is zero and fails with error if n is negative.
func (g *Gaussian) SampleN(n int) (*mat.Dense, error) {
	samples, err := rand.DrawN(g.std, g.Dim(), n)
	if err != nil {
		return nil, err
	}

	if n == 0 {
		return samples, nil
	}

	samples.Mul(g.sqrt, samples)

	return samples, nil
}

// Cov returns covariance matrix of Gaussian noise.
func (g *Gaussian) Cov() mat.Symmetric {
	cov := mat.NewSymDense(g.cov.SymmetricDim(), nil)
	cov.CopySym(g.cov)

	return cov
}

// Sqrt returns square root factor of Gaussian noise covariance matrix.
func (g *Gaussian) Sqrt() mat.Matrix {
	return mat.DenseCopyOf(g.sqrt)
}

// Mean returns Gaussian mean.
func (g *Gaussian) Mean() []float64 {
	return make([]float64, g.Dim())
}

// Reset resets the noise source to the state it was created in.
func (g *Gaussian) Reset() {
	g.src.Seed(g.seed)
}

// Clone returns a copy of Gaussian noise which has the same covariance
// but draws its samples from a new, independent source.
// The seed of the new source is derived from the seed of g, so clones are reproducible.
func (g *Gaussian) Clone() *Gaussian {
	seed := g.derive()

	cov := mat.NewSymDense(g.cov.SymmetricDim(), nil)
	cov.CopySym(g.cov)

	return newGaussian(cov, mat.DenseCopyOf(g.sqrt), seed, rand.NewSource(seed))
}

// Fork returns a copy of Gaussian noise whose source is in the same state as the source of g.
// Both g and the returned fork generate the same samples from now on.
// Clones of the fork are independent of clones of g: the fork derives them from its own namespace.
// It returns error if the source state fails to be copied.
func (g *Gaussian) Fork() (*Gaussian, error) {
	src, err := rand.CopySource(g.src)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to fork Gaussian noise")
	}

	cov := mat.NewSymDense(g.cov.SymmetricDim(), nil)
	cov.CopySym(g.cov)

	f := newGaussian(cov, mat.DenseCopyOf(g.sqrt), g.seed, src)
	f.ns = g.derive()

	return f, nil
}

// derive returns the next seed from the namespace of g.
func (g *Gaussian) derive() uint64 {
	seed := rand.DeriveSeed(g.ns, g.clones)
	g.clones++

	return seed
}

// String implements the Stringer interface.
func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian{\nMean=%v\nCov=%v\n}", g.Mean(), mat.Formatted(g.cov, mat.Prefix("    "), mat.Squeeze()))
}
