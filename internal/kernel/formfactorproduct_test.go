package kernel

import (
	"math"
	"testing"

	"github.com/sarat-asymmetrica/saxskit/internal/ffdata"
)

func TestFormFactorProductAtomicSymmetric(t *testing.T) {
	qs := []float64{0.0, 0.1, 0.2}
	table := NewFormFactorProductTable(qs, 30.0)
	for qi := range qs {
		a := table.Atomic(qi, ffdata.C, ffdata.N)
		b := table.Atomic(qi, ffdata.N, ffdata.C)
		if math.Abs(a-b) > 1e-12 {
			t.Errorf("Atomic(C,N) != Atomic(N,C) at qi=%d: %.6f vs %.6f", qi, a, b)
		}
	}
}

func TestFormFactorProductAtomicMatchesDirectEvaluate(t *testing.T) {
	qs := []float64{0.15}
	table := NewFormFactorProductTable(qs, 30.0)
	want := ffdata.CoefficientsFor(ffdata.O).Evaluate(0.15) * ffdata.CoefficientsFor(ffdata.S).Evaluate(0.15)
	got := table.Atomic(0, ffdata.O, ffdata.S)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Atomic(O,S) = %.6f, want %.6f", got, want)
	}
}

func TestFormFactorProductExcludedVolumeSelf(t *testing.T) {
	qs := []float64{0.0, 0.2}
	vol := 35.0
	table := NewFormFactorProductTable(qs, vol)
	for qi, q := range qs {
		fx := ffdata.ExcludedVolumeFormFactor(q, vol)
		want := fx * fx
		if got := table.ExcludedVolumeSelf(qi); math.Abs(got-want) > 1e-9 {
			t.Errorf("ExcludedVolumeSelf(%d) = %.6f, want %.6f", qi, got, want)
		}
	}
}

func TestFormFactorProductExcludedVolumeCross(t *testing.T) {
	qs := []float64{0.1}
	vol := 40.0
	table := NewFormFactorProductTable(qs, vol)
	want := ffdata.CoefficientsFor(ffdata.C).Evaluate(0.1) * ffdata.ExcludedVolumeFormFactor(0.1, vol)
	got := table.ExcludedVolumeCross(0, ffdata.C)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ExcludedVolumeCross(C) = %.6f, want %.6f", got, want)
	}
}
