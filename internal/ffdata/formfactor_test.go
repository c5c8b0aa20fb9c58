package ffdata

import (
	"math"
	"testing"
)

func TestCoefficientsForEvaluateAtZero(t *testing.T) {
	// At q=0 every atomic form factor equals the element's electron count
	// within the five-Gaussian parameterization's own fit error.
	tests := []struct {
		t        FFType
		expected float64
		tol      float64
	}{
		{H, 1, 0.01},
		{C, 6, 0.01},
		{N, 7, 0.01},
		{O, 8, 0.01},
		{S, 16, 0.01},
	}

	for _, tt := range tests {
		f0 := CoefficientsFor(tt.t).Evaluate(0)
		if math.Abs(f0-tt.expected) > tt.tol {
			t.Errorf("%s: f(0) = %.4f, want ~%.1f", tt.t, f0, tt.expected)
		}
	}
}

func TestCoefficientsForPanicsOnEXV(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("CoefficientsFor(EXV) should panic; use ExcludedVolumeFormFactor instead")
		}
	}()
	CoefficientsFor(EXV)
}

func TestExcludedVolumeFormFactorDecaysWithQ(t *testing.T) {
	f0 := ExcludedVolumeFormFactor(0, 100)
	f1 := ExcludedVolumeFormFactor(0.3, 100)
	if f1 >= f0 {
		t.Errorf("excluded-volume form factor should decay with q: f(0)=%.4f f(0.3)=%.4f", f0, f1)
	}
	if math.Abs(f0-SolventElectronDensity*100) > 1e-9 {
		t.Errorf("f(0) should equal rho_w*V, got %.4f want %.4f", f0, SolventElectronDensity*100)
	}
}

func TestDisplacedVolumeFallsBackToOther(t *testing.T) {
	v := DisplacedVolume(Traube, FFType(999), nil)
	if v != perElementVolume[Traube][OTHER] {
		t.Errorf("unrecognized type should fall back to OTHER, got %.2f", v)
	}
}

func TestDisplacedVolumeCustomRequiresOverride(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("DisplacedVolume(Custom, ..., nil) should panic")
		}
	}()
	DisplacedVolume(Custom, C, nil)
}
