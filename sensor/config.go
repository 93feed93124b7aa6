package sensor

import (
	"io"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultSigma is default measurement noise standard deviation of both axes.
	DefaultSigma = 10.0
	// DefaultSeed is default seed of the measurement noise source.
	DefaultSeed uint64 = 1
)

// Config is Linear sensor configuration.
type Config struct {
	// SigmaX is x-axis measurement noise standard deviation.
	SigmaX float64 `yaml:"sigma_x"`
	// SigmaY is y-axis measurement noise standard deviation.
	SigmaY float64 `yaml:"sigma_y"`
	// Seed seeds measurement noise source; nil Seed makes the sensor seed it randomly.
	Seed *uint64 `yaml:"seed,omitempty"`
	// H is measurement matrix stored by rows.
	// If it's empty, constant velocity projection of [x, vx, y, vy] state is used.
	H [][]float64 `yaml:"h,omitempty"`
}

// DefaultConfig returns default Linear sensor configuration.
func DefaultConfig() *Config {
	seed := DefaultSeed

	return &Config{
		SigmaX: DefaultSigma,
		SigmaY: DefaultSigma,
		Seed:   &seed,
	}
}

// DecodeConfig decodes YAML encoded configuration from r and returns it.
// Missing standard deviations and measurement matrix are set to their defaults;
// missing seed leaves the seed unset.
// It returns error if the configuration fails to be decoded or if it's invalid.
func DecodeConfig(r io.Reader) (*Config, error) {
	c := DefaultConfig()
	c.Seed = nil

	if err := yaml.NewDecoder(r).Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "Failed to decode sensor config")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate validates the configuration and returns all the problems it finds.
func (c *Config) Validate() error {
	var err error

	if !validSigma(c.SigmaX) {
		err = multierr.Append(err, errors.Errorf("Invalid sigma_x: %v", c.SigmaX))
	}

	if !validSigma(c.SigmaY) {
		err = multierr.Append(err, errors.Errorf("Invalid sigma_y: %v", c.SigmaY))
	}

	if len(c.H) == 0 {
		return err
	}

	if len(c.H) != MeasurementDim {
		err = multierr.Append(err, errors.Errorf("Invalid measurement matrix rows: %d", len(c.H)))
	}

	cols := len(c.H[0])
	if cols == 0 {
		err = multierr.Append(err, errors.New("Invalid measurement matrix: no columns"))
	}

	for i, row := range c.H {
		if len(row) != cols {
			err = multierr.Append(err, errors.Errorf("Invalid measurement matrix row %d: %d columns, expected %d", i, len(row), cols))
		}
	}

	return err
}

// validSigma returns true if sigma is a usable standard deviation:
// its variance must be positive and finite.
func validSigma(sigma float64) bool {
	v := sigma * sigma

	return sigma > 0 && v > 0 && !math.IsInf(v, 0)
}

// Matrix returns measurement matrix.
// It panics if the configured matrix is invalid.
func (c *Config) Matrix() *mat.Dense {
	if len(c.H) == 0 {
		return mat.NewDense(MeasurementDim, 4, []float64{
			1.0, 0.0, 0.0, 0.0,
			0.0, 0.0, 1.0, 0.0,
		})
	}

	rows, cols := len(c.H), len(c.H[0])
	data := make([]float64, 0, rows*cols)
	for _, row := range c.H {
		data = append(data, row...)
	}

	return mat.NewDense(rows, cols, data)
}
