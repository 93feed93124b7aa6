package sim

import (
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// New2DPlot creates new plot of the simulation from the three measurement batches:
// truth:     noiseless measurements of the true target states
// measured:  sensor measurements
// predicted: measurements predicted from the state hypotheses
// Each batch stores x coordinates in its first row and y coordinates in its second row.
// It returns error if the plot fails to be created. This can be due to either of the following conditions:
// * either of the supplied data matrices is nil
// * either of the supplied data matrices does not have at least 2 rows
// * gonum plot fails to be created
func New2DPlot(truth, measured, predicted *mat.Dense) (*plot.Plot, error) {
	if truth == nil || measured == nil || predicted == nil {
		return nil, errors.New("Invalid data supplied")
	}

	for _, m := range []*mat.Dense{truth, measured, predicted} {
		if m.IsEmpty() {
			return nil, errors.New("Empty data supplied")
		}
		if rows, _ := m.Dims(); rows < 2 {
			return nil, errors.Errorf("Invalid data dimensions: %d rows", rows)
		}
	}

	p := plot.New()

	p.Title.Text = "Simulation"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	for _, s := range []struct {
		name  string
		data  *mat.Dense
		color color.Color
		shape draw.GlyphDrawer
	}{
		{name: "truth", data: truth, color: color.RGBA{R: 255, B: 128, A: 255}, shape: draw.PyramidGlyph{}},
		{name: "measurement", data: measured, color: color.RGBA{G: 255, A: 128}, shape: draw.CircleGlyph{}},
		{name: "predicted", data: predicted, color: color.RGBA{R: 169, G: 169, B: 169, A: 255}, shape: draw.CrossGlyph{}},
	} {
		scatter, err := plotter.NewScatter(makePoints(s.data))
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to create %s scatter", s.name)
		}
		scatter.GlyphStyle.Color = s.color
		scatter.GlyphStyle.Shape = s.shape
		scatter.GlyphStyle.Radius = vg.Points(3)

		p.Add(scatter)
		p.Legend.Add(s.name, scatter)
	}

	return p, nil
}

func makePoints(m *mat.Dense) plotter.XYs {
	_, c := m.Dims()
	pts := make(plotter.XYs, c)
	for i := 0; i < c; i++ {
		pts[i].X = m.At(0, i)
		pts[i].Y = m.At(1, i)
	}

	return pts
}
