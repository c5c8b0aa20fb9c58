package pipeline

import (
	"context"
	"testing"

	"github.com/sarat-asymmetrica/saxskit/internal/axis"
	"github.com/sarat-asymmetrica/saxskit/internal/config"
	"github.com/sarat-asymmetrica/saxskit/internal/ffdata"
	"github.com/sarat-asymmetrica/saxskit/internal/structure"
)

func smallAtoms() []structure.PointFF {
	return []structure.PointFF{
		{X: 0, Y: 0, Z: 0, W: 6, Type: ffdata.C},
		{X: 1.5, Y: 0, Z: 0, W: 7, Type: ffdata.N},
		{X: 0, Y: 1.5, Z: 0, W: 8, Type: ffdata.O},
		{X: 0, Y: 0, Z: 1.5, W: 6, Type: ffdata.C},
	}
}

func smallWaters() []structure.PointFF {
	return []structure.PointFF{
		{X: 4, Y: 0, Z: 0, W: 10, Type: ffdata.O},
		{X: -3, Y: -2, Z: 0, W: 10, Type: ffdata.O},
	}
}

func TestDefaultBuildConfigDerivesQAxisFromBinWidth(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.QMin, cfg.QMax, cfg.BinWidth, cfg.BinCount = 0, 0.5, 0.01, 0
	bc := DefaultBuildConfig(cfg)

	if bc.QAxis.Bins < 40 {
		t.Errorf("expected roughly 50 q bins, got %d", bc.QAxis.Bins)
	}
}

func TestRunProducesNonEmptyProfileWithoutExcludedVolume(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FitExcludedVolume = false
	bc := DefaultBuildConfig(cfg)
	bc.QAxis = axisFor(t, 0.01, 0.3, 20)

	result, err := Run(context.Background(), smallAtoms(), smallWaters(), bc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Profile.Total) != 20 {
		t.Errorf("profile has %d points, want 20", len(result.Profile.Total))
	}
	for i, v := range result.Profile.Total {
		if v < 0 {
			t.Errorf("profile.Total[%d] = %g, intensity should not be negative", i, v)
		}
	}
}

func TestRunWithExcludedVolumeDetectsShell(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FitExcludedVolume = true
	cfg.GridWidth = 1.0
	cfg.ExvRadius = 1.5
	cfg.MinExvRadius = 1.0
	bc := DefaultBuildConfig(cfg)
	bc.QAxis = axisFor(t, 0.01, 0.3, 15)

	result, err := Run(context.Background(), smallAtoms(), smallWaters(), bc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.ExcludedVolume.Interior)+len(result.ExcludedVolume.Surface) == 0 {
		t.Error("expected at least one excluded-volume dummy atom around a 4-atom cluster")
	}
}

func TestRunMultiThreadedMatchesSingleThreadedProfile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FitExcludedVolume = false
	cfg.HistogramManager = config.ManagerMultiThreaded
	cfg.Threads = 2
	bc := DefaultBuildConfig(cfg)
	bc.QAxis = axisFor(t, 0.01, 0.3, 15)

	mt, err := Run(context.Background(), smallAtoms(), smallWaters(), bc)
	if err != nil {
		t.Fatalf("Run (multi-threaded): %v", err)
	}

	cfg.HistogramManager = config.ManagerSingleThreaded
	bc.Config = cfg
	st, err := Run(context.Background(), smallAtoms(), smallWaters(), bc)
	if err != nil {
		t.Fatalf("Run (single-threaded): %v", err)
	}

	for i := range st.Profile.Total {
		if abs(mt.Profile.Total[i]-st.Profile.Total[i]) > 1e-6 {
			t.Errorf("profile[%d]: multi-threaded %g != single-threaded %g", i, mt.Profile.Total[i], st.Profile.Total[i])
		}
	}
}

func axisFor(t *testing.T, min, max float64, bins int) axis.Axis {
	t.Helper()
	return axis.NewLinearAxis(min, max, bins)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
