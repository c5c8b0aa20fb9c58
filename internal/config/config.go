// Package config holds the flat configuration struct the CLI entry points
// build and pass down through structure, grid, histogram, and fit, in the
// teacher's single-struct-plus-DefaultXConfig() idiom.
package config

import "github.com/sarat-asymmetrica/saxskit/internal/ffdata"

// HistogramManagerKind selects which internal/histmanager implementation
// to build.
type HistogramManagerKind int

const (
	ManagerSingleThreaded HistogramManagerKind = iota
	ManagerMultiThreaded
	ManagerPartial
	ManagerSymmetry
)

// Config collects every tunable the intensity engine and fitter need.
type Config struct {
	QMin, QMax float64
	BinWidth   float64
	BinCount   int

	Threads int

	ImplicitHydrogens bool
	CenterMolecule    bool

	FitExcludedVolume bool
	ExvSet            ffdata.VolumeSet
	GridWidth         float64
	ExvRadius         float64
	MinExvRadius      float64
	SurfaceThickness  float64

	WeightedBins bool

	HistogramManager HistogramManagerKind
}

// DefaultConfig returns the engine's default tuning, chosen to match
// commonly used SAXS analysis defaults (1 A distance bins, q in
// [0, 0.5] A^-1, single-threaded histogram manager).
func DefaultConfig() Config {
	return Config{
		QMin: 0.0, QMax: 0.5, BinWidth: 1.0, BinCount: 0,
		Threads: 0,
		ImplicitHydrogens: true, CenterMolecule: true,
		FitExcludedVolume: true, ExvSet: ffdata.Traube,
		GridWidth: 1.0, ExvRadius: 1.5, MinExvRadius: 1.0, SurfaceThickness: 1.0,
		WeightedBins:     true,
		HistogramManager: ManagerSingleThreaded,
	}
}
