package histogram

import (
	"math"
	"testing"

	"github.com/sarat-asymmetrica/saxskit/internal/axis"
	"github.com/sarat-asymmetrica/saxskit/internal/ffdata"
	"github.com/sarat-asymmetrica/saxskit/internal/kernel"
	"github.com/sarat-asymmetrica/saxskit/internal/structure"
)

func buildSimpleComposite() (*CompositeHistogram, axis.Axis) {
	atoms := []structure.PointFF{
		{X: 0, Y: 0, Z: 0, W: 6, Type: ffdata.C},
		{X: 1.5, Y: 0, Z: 0, W: 8, Type: ffdata.O},
	}
	waters := []structure.PointFF{
		{X: 3, Y: 0, Z: 0, W: 8, Type: ffdata.O},
	}
	dAxis := axis.NewDistanceAxis(0.5, 10)

	aa, _ := BuildSelf(atoms, dAxis, false)
	aw, _ := BuildCrossTyped(atoms, waters, dAxis)
	ww, _ := BuildCrossFlat(waters, waters, dAxis, false)

	return NewCompositeHistogram(aa, aw, ww, PairPartialHistogram{}, PartialHistogram{}, PartialHistogram{}, dAxis), dAxis
}

// BuildCrossTyped is a thin test helper matching BuildCross's signature
// (kept local to the test file since production code calls BuildCross
// directly with its own axis-agnostic points).
func BuildCrossTyped(a, b []structure.PointFF, ax axis.Axis) (PairPartialHistogram, *WeightedBinMeans) {
	return BuildCross(a, b, ax, false)
}

func TestDebyeTransformTotalEqualsSumOfTerms(t *testing.T) {
	composite, dAxis := buildSimpleComposite()
	qAxis := axis.NewLinearAxis(0.0, 0.3, 5)
	qValues := make([]float64, qAxis.Bins)
	dValues := make([]float64, dAxis.Bins)
	for i := range qValues {
		qValues[i] = qAxis.Value(i)
	}
	for i := range dValues {
		dValues[i] = dAxis.Value(i)
	}
	sinc := kernel.NewSincTable(qValues, dValues)
	ff := kernel.NewFormFactorProductTable(qValues, 30.0)

	profile := composite.DebyeTransform(qAxis, sinc, ff)
	for qi := range profile.Total {
		sumTerms := profile.Aa[qi] + profile.Aw[qi] + profile.Ww[qi] + profile.Ax[qi] + profile.Xx[qi] + profile.Wx[qi]
		if math.Abs(profile.Total[qi]-sumTerms) > 1e-6*math.Max(1, math.Abs(sumTerms)) {
			t.Errorf("qi=%d: Total=%.6f != sum of terms=%.6f", qi, profile.Total[qi], sumTerms)
		}
	}
}

func TestWaterScalingFactorScalesWwQuadratically(t *testing.T) {
	composite, dAxis := buildSimpleComposite()
	qAxis := axis.NewLinearAxis(0.0, 0.2, 3)
	qValues := []float64{qAxis.Value(0), qAxis.Value(1), qAxis.Value(2)}
	dValues := make([]float64, dAxis.Bins)
	for i := range dValues {
		dValues[i] = dAxis.Value(i)
	}
	sinc := kernel.NewSincTable(qValues, dValues)
	ff := kernel.NewFormFactorProductTable(qValues, 30.0)

	base := composite.DebyeTransform(qAxis, sinc, ff)
	composite.ApplyWaterScalingFactor(2.0)
	scaled := composite.DebyeTransform(qAxis, sinc, ff)

	for qi := range base.Ww {
		if base.Ww[qi] == 0 {
			continue
		}
		ratio := scaled.Ww[qi] / base.Ww[qi]
		if math.Abs(ratio-4) > 1e-6 {
			t.Errorf("qi=%d: doubling c_w should scale Ww by 4x, got %.6fx", qi, ratio)
		}
	}
}

func TestIncreasingExcludedVolumeScalingDecreasesIntensity(t *testing.T) {
	atoms := []structure.PointFF{
		{X: 0, Y: 0, Z: 0, W: 6, Type: ffdata.C},
		{X: 1.5, Y: 0, Z: 0, W: 8, Type: ffdata.O},
	}
	waters := []structure.PointFF{
		{X: 3, Y: 0, Z: 0, W: 8, Type: ffdata.O},
	}
	exv := []structure.PointFF{
		{X: 0.7, Y: 0.7, Z: 0, W: 1, Type: ffdata.EXV},
	}
	dAxis := axis.NewDistanceAxis(0.5, 10)

	aa, _ := BuildSelf(atoms, dAxis, false)
	aw, _ := BuildCrossTyped(atoms, waters, dAxis)
	ww, _ := BuildCrossFlat(waters, waters, dAxis, false)
	ax, _ := BuildCross(atoms, exv, dAxis, false)
	xx, _ := BuildCrossFlat(exv, exv, dAxis, false)
	wx, _ := BuildCrossFlat(waters, exv, dAxis, false)

	composite := NewCompositeHistogram(aa, aw, ww, ax, xx, wx, dAxis)

	qAxis := axis.NewLinearAxis(0.05, 0.3, 5)
	qValues := make([]float64, qAxis.Bins)
	dValues := make([]float64, dAxis.Bins)
	for i := range qValues {
		qValues[i] = qAxis.Value(i)
	}
	for i := range dValues {
		dValues[i] = dAxis.Value(i)
	}
	sinc := kernel.NewSincTable(qValues, dValues)
	ff := kernel.NewFormFactorProductTable(qValues, 30.0)

	composite.ApplyExcludedVolumeScalingFactor(0)
	base := composite.DebyeTransform(qAxis, sinc, ff)
	composite.ApplyExcludedVolumeScalingFactor(1)
	withExv := composite.DebyeTransform(qAxis, sinc, ff)

	for qi := range base.Total {
		if withExv.Ax[qi] >= 0 {
			t.Errorf("qi=%d: Ax contribution should be negative (solvent displaced by both atoms and exv dummies), got %.6f", qi, withExv.Ax[qi])
		}
		if withExv.Total[qi] >= base.Total[qi] {
			t.Errorf("qi=%d: raising Cx from 0 to 1 should decrease total intensity, base=%.6f withExv=%.6f", qi, base.Total[qi], withExv.Total[qi])
		}
	}
}

func TestWeightedBinMeansChangeDebyeTransformResult(t *testing.T) {
	// A single atom pair whose true distance sits off the bin center, so
	// the weighted-bin sinc table (sampled at the true mean distance)
	// disagrees with the unweighted sinc table (sampled at the distance
	// axis's Value points).
	atoms := []structure.PointFF{
		{X: 0, Y: 0, Z: 0, W: 6, Type: ffdata.C},
		{X: 2.2, Y: 0, Z: 0, W: 8, Type: ffdata.O},
	}
	dAxis := axis.NewDistanceAxis(2.0, 10) // bin width 2.0: distance 2.2 lands off-center

	unweighted, _ := BuildSelf(atoms, dAxis, false)
	weighted, meansOut := BuildSelf(atoms, dAxis, true)
	if meansOut == nil {
		t.Fatal("BuildSelf(weighted=true) should return a non-nil WeightedBinMeans")
	}
	if weighted.Means == nil {
		t.Fatal("BuildSelf(weighted=true) should attach Means to the returned histogram")
	}

	empty := PairPartialHistogram{}
	emptyFlat := PartialHistogram{}
	unweightedComposite := NewCompositeHistogram(unweighted, empty, emptyFlat, empty, emptyFlat, emptyFlat, dAxis)
	weightedComposite := NewCompositeHistogram(weighted, empty, emptyFlat, empty, emptyFlat, emptyFlat, dAxis)

	qAxis := axis.NewLinearAxis(0.2, 0.5, 4)
	qValues := make([]float64, qAxis.Bins)
	dValues := make([]float64, dAxis.Bins)
	for i := range qValues {
		qValues[i] = qAxis.Value(i)
	}
	for i := range dValues {
		dValues[i] = dAxis.Value(i)
	}
	sinc := kernel.NewSincTable(qValues, dValues)
	ff := kernel.NewFormFactorProductTable(qValues, 30.0)

	unweightedProfile := unweightedComposite.DebyeTransform(qAxis, sinc, ff)
	weightedProfile := weightedComposite.DebyeTransform(qAxis, sinc, ff)

	differs := false
	for qi := range unweightedProfile.Aa {
		if math.Abs(unweightedProfile.Aa[qi]-weightedProfile.Aa[qi]) > 1e-9 {
			differs = true
		}
	}
	if !differs {
		t.Error("weighted-bin means should change the Debye transform result when a true distance sits off its bin center")
	}
}

func TestExcludedVolumeAbsentLeavesAxXxWxZero(t *testing.T) {
	composite, dAxis := buildSimpleComposite()
	qAxis := axis.NewLinearAxis(0.0, 0.2, 3)
	qValues := []float64{qAxis.Value(0), qAxis.Value(1), qAxis.Value(2)}
	dValues := make([]float64, dAxis.Bins)
	for i := range dValues {
		dValues[i] = dAxis.Value(i)
	}
	sinc := kernel.NewSincTable(qValues, dValues)
	ff := kernel.NewFormFactorProductTable(qValues, 30.0)

	profile := composite.DebyeTransform(qAxis, sinc, ff)
	for qi := range profile.Ax {
		if profile.Ax[qi] != 0 || profile.Xx[qi] != 0 || profile.Wx[qi] != 0 {
			t.Errorf("qi=%d: expected zero exv contributions with no exv partials set", qi)
		}
	}
}
