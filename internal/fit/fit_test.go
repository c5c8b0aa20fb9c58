package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarat-asymmetrica/saxskit/internal/axis"
	"github.com/sarat-asymmetrica/saxskit/internal/ffdata"
	"github.com/sarat-asymmetrica/saxskit/internal/histogram"
	"github.com/sarat-asymmetrica/saxskit/internal/kernel"
	"github.com/sarat-asymmetrica/saxskit/internal/structure"
)

func smallMoleculePoints() []structure.PointFF {
	return []structure.PointFF{
		{X: 0, Y: 0, Z: 0, W: 6, Type: ffdata.C},
		{X: 1.5, Y: 0, Z: 0, W: 7, Type: ffdata.N},
		{X: 0, Y: 1.5, Z: 0, W: 8, Type: ffdata.O},
		{X: 0, Y: 0, Z: 1.5, W: 6, Type: ffdata.C},
	}
}

func waterPoints() []structure.PointFF {
	return []structure.PointFF{
		{X: 3, Y: 0, Z: 0, W: 10, Type: ffdata.O},
		{X: 3.2, Y: 0.4, Z: 0, W: 10, Type: ffdata.O},
		{X: -2, Y: 1, Z: 0, W: 10, Type: ffdata.O},
	}
}

func buildFitter(t *testing.T, q axis.Axis, cwTrue float64) *Fitter {
	t.Helper()
	atoms := smallMoleculePoints()
	waters := waterPoints()
	dAxis := axis.NewDistanceAxis(0.5, 10)

	aa, _ := histogram.BuildSelf(atoms, dAxis, false)
	aw, _ := histogram.BuildCross(atoms, waters, dAxis, false)
	ww, _ := histogram.BuildCrossFlat(waters, waters, dAxis, false)

	hist := histogram.NewCompositeHistogram(aa, aw, ww,
		histogram.PairPartialHistogram{}, histogram.PartialHistogram{}, histogram.PartialHistogram{}, dAxis)

	qValues := make([]float64, q.Bins)
	for i := range qValues {
		qValues[i] = q.Value(i)
	}
	sinc := kernel.NewSincTable(qValues, axisValues(dAxis))
	ffTable := kernel.NewFormFactorProductTable(qValues, 30)

	hist.ApplyWaterScalingFactor(cwTrue)
	synthetic := hist.DebyeTransform(q, sinc, ffTable)
	hist.ApplyWaterScalingFactor(1)

	sigma := make([]float64, len(synthetic.Total))
	for i := range sigma {
		sigma[i] = 0.01 * math.Max(math.Abs(synthetic.Total[i]), 1e-6)
	}

	return &Fitter{
		Data: Dataset{Q: synthetic.Q, I: synthetic.Total, Sigma: sigma},
		Hist: hist,
		Sinc: sinc,
		FF:   ffTable,
	}
}

func axisValues(ax axis.Axis) []float64 {
	out := make([]float64, ax.Bins)
	for i := range out {
		out[i] = ax.Value(i)
	}
	return out
}

func TestChi2IsZeroAtTrueParameters(t *testing.T) {
	q := axis.NewLinearAxis(0.01, 0.5, 40)
	f := buildFitter(t, q, 1.2)

	chi2, _, _, _, err := f.chi2At(Parameters{Cw: 1.2})
	require.NoError(t, err)
	assert.Less(t, chi2, 1e-6, "chi2 at the true Cw should be ~0 for noiseless synthetic data")
}

func TestFitRecoversWaterScalingFactor(t *testing.T) {
	q := axis.NewLinearAxis(0.01, 0.5, 40)
	const cwTrue = 1.35
	f := buildFitter(t, q, cwTrue)

	result, err := f.Fit(FitOptions{
		Free:   []FreeParam{FreeCw},
		Bounds: Bounds{CwMin: 0.1, CwMax: 3.0},
		Start:  Parameters{Cw: 1.0},
		Tol:    1e-10,
	})
	require.NoError(t, err)

	assert.InEpsilon(t, cwTrue, result.Params.Cw, 0.01, "Fit should recover Cw within 1%%")
	assert.Less(t, result.Chi2, 1e-4, "chi2 should be near 0 for noiseless synthetic data")
	assert.Equal(t, len(f.Data.Q)-1-2, result.DoF)
}

func TestFitMultiParameterUsesNelderMead(t *testing.T) {
	q := axis.NewLinearAxis(0.01, 0.5, 30)
	f := buildFitter(t, q, 1.1)

	result, err := f.Fit(FitOptions{
		Free:           []FreeParam{FreeCw, FreeSigmaA},
		Bounds:         Bounds{CwMin: 0.1, CwMax: 3.0, SigmaAMin: 0, SigmaAMax: 2},
		Start:          Parameters{Cw: 1.0, SigmaA: 0.1},
		Tol:            1e-8,
		MaxEvaluations: 5000,
	})
	require.NoError(t, err)

	assert.Greater(t, result.Params.Cw, 0.0, "fitted Cw should stay positive")
	assert.NotEmpty(t, result.Trace, "expected a non-empty evaluation trace")
}

func TestFitProjectsParametersWithinBounds(t *testing.T) {
	q := axis.NewLinearAxis(0.01, 0.5, 30)
	f := buildFitter(t, q, 5.0) // true value far outside the bound below

	result, err := f.Fit(FitOptions{
		Free:   []FreeParam{FreeCw},
		Bounds: Bounds{CwMin: 0.5, CwMax: 2.0},
		Start:  Parameters{Cw: 1.0},
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.Params.Cw, 0.5)
	assert.LessOrEqual(t, result.Params.Cw, 2.0)
}

func TestFitRequiresAtLeastOneFreeParameter(t *testing.T) {
	q := axis.NewLinearAxis(0.01, 0.5, 20)
	f := buildFitter(t, q, 1.0)

	_, err := f.Fit(FitOptions{})
	assert.Error(t, err)
}

func TestSolveLinearRecoversExactLine(t *testing.T) {
	model := []float64{1, 2, 3, 4, 5}
	observed := make([]float64, len(model))
	const a, b = 2.5, 1.0
	for i, m := range model {
		observed[i] = a*m + b
	}
	sigma := []float64{1, 1, 1, 1, 1}

	gotA, gotB, err := solveLinear(model, observed, sigma)
	require.NoError(t, err)
	assert.InDelta(t, a, gotA, 1e-9)
	assert.InDelta(t, b, gotB, 1e-9)
}

func TestInterpolateClampsOutOfRange(t *testing.T) {
	xs := []float64{1, 2, 3}
	ys := []float64{10, 20, 30}

	got := interpolate(xs, ys, []float64{0, 1.5, 3.5})
	want := []float64{10, 15, 30}
	for i := range got {
		assert.InDelta(t, want[i], got[i], 1e-9)
	}
}
