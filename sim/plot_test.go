package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNew2DPlot(t *testing.T) {
	assert := assert.New(t)

	truth := mat.NewDense(2, 3, nil)
	measured := mat.NewDense(2, 3, nil)
	predicted := mat.NewDense(2, 10, nil)

	plt, err := New2DPlot(truth, measured, predicted)
	assert.NotNil(plt)
	assert.NoError(err)

	plt, err = New2DPlot(nil, nil, nil)
	assert.Nil(plt)
	assert.Error(err)

	plt, err = New2DPlot(mat.NewDense(1, 3, nil), measured, predicted)
	assert.Nil(plt)
	assert.Error(err)

	plt, err = New2DPlot(truth, &mat.Dense{}, predicted)
	assert.Nil(plt)
	assert.Error(err)
}

func TestMakePoints(t *testing.T) {
	assert := assert.New(t)

	pts := makePoints(mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
	assert.Len(pts, 2)
	assert.Equal(1.0, pts[0].X)
	assert.Equal(3.0, pts[0].Y)
	assert.Equal(2.0, pts[1].X)
	assert.Equal(4.0, pts[1].Y)
}
