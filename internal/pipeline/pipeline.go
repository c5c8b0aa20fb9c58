// Package pipeline wires together axis, kernel, structure, grid, histogram,
// and histmanager into the single call an entry point needs: atoms (and,
// optionally, explicit waters) in, a q-indexed intensity profile out.
//
// BIOCHEMIST: mirrors a typical SAXS analysis pipeline - load coordinates,
// derive the hydration/excluded-volume shell, accumulate the distance
// histogram, and Debye-transform it onto the experimental q-range.
// PHYSICIST: the phases below are independent passes over the same
// molecule; none feeds back into an earlier one within a single Run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sarat-asymmetrica/saxskit/internal/axis"
	"github.com/sarat-asymmetrica/saxskit/internal/config"
	"github.com/sarat-asymmetrica/saxskit/internal/ffdata"
	"github.com/sarat-asymmetrica/saxskit/internal/grid"
	"github.com/sarat-asymmetrica/saxskit/internal/histmanager"
	"github.com/sarat-asymmetrica/saxskit/internal/histogram"
	"github.com/sarat-asymmetrica/saxskit/internal/kernel"
	"github.com/sarat-asymmetrica/saxskit/internal/structure"
)

// BuildConfig configures one end-to-end profile build: the engine tuning
// (config.Config), the target q axis, and a verbosity flag for progress
// banners.
type BuildConfig struct {
	Config  config.Config
	QAxis   axis.Axis
	Verbose bool
}

// DefaultBuildConfig derives a q axis from cfg's QMin/QMax/BinWidth (or
// BinCount if set) and wraps it alongside cfg.
func DefaultBuildConfig(cfg config.Config) BuildConfig {
	bins := cfg.BinCount
	if bins <= 0 {
		width := cfg.QMax - cfg.QMin
		step := cfg.BinWidth
		if step <= 0 {
			step = 0.01
		}
		bins = int(width/step) + 1
		if bins < 1 {
			bins = 1
		}
	}
	return BuildConfig{
		Config: cfg,
		QAxis:  axis.NewLinearAxis(cfg.QMin, cfg.QMax, bins),
	}
}

// BuildResult holds every intermediate artifact of a Run, so a caller can
// inspect the excluded-volume classification or re-run DebyeTransform with
// different scaling without repeating the expensive steps.
type BuildResult struct {
	Molecule       *structure.Molecule
	ExcludedVolume grid.ExvAtomSet
	Histogram      *histogram.CompositeHistogram
	Sinc           *kernel.SincTable
	FF             *kernel.FormFactorProductTable
	Profile        histogram.Profile

	TotalTimeSeconds float64
}

// Run executes the full build: assemble the molecule, detect the
// excluded-volume shell (if cfg.FitExcludedVolume), accumulate the
// composite histogram via the configured manager, and Debye-transform it
// onto bc.QAxis.
func Run(ctx context.Context, atoms, waters []structure.PointFF, bc BuildConfig) (*BuildResult, error) {
	startTime := time.Now()
	cfg := bc.Config

	if bc.Verbose {
		fmt.Printf("Phase A: assembling molecule (%d atoms, %d waters)\n", len(atoms), len(waters))
	}
	body := structure.NewBody(1, atoms)
	body.SetWaters(waters)
	molecule := structure.NewMolecule(body)

	var exv grid.ExvAtomSet
	if cfg.FitExcludedVolume {
		if bc.Verbose {
			fmt.Printf("Phase B: detecting excluded-volume shell (grid width %.2g A)\n", cfg.GridWidth)
		}
		g := grid.NewGrid(cfg.GridWidth, atoms, 2*cfg.ExvRadius)
		g.AddAtoms(atoms, cfg.ExvRadius, cfg.MinExvRadius)
		g.AddWaters(waters, cfg.ExvRadius)
		exv = g.DetectSurface(grid.SurfaceConfig{
			ProbeWidth:       cfg.GridWidth,
			SurfaceThickness: cfg.SurfaceThickness,
			Stride:           1,
		})
		if bc.Verbose {
			fmt.Printf("  interior voxels: %d, surface voxels: %d\n", len(exv.Interior), len(exv.Surface))
		}
	}

	diameter := molecule.Diameter()
	dAxis := axis.NewDistanceAxis(1.0, diameter)

	if bc.Verbose {
		fmt.Printf("Phase C: accumulating distance histogram (manager kind %d)\n", cfg.HistogramManager)
	}
	manager := buildManager(cfg, molecule, excludedVolumePoints(exv), dAxis)
	hist, err := manager.CalculateAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline: histogram accumulation failed: %w", err)
	}

	if bc.Verbose {
		fmt.Printf("Phase D: Debye-transforming onto %d q points\n", bc.QAxis.Bins)
	}
	qValues := make([]float64, bc.QAxis.Bins)
	for i := range qValues {
		qValues[i] = bc.QAxis.Value(i)
	}
	dValues := make([]float64, dAxis.Bins)
	for i := range dValues {
		dValues[i] = dAxis.Value(i)
	}
	sinc := kernel.NewSincTable(qValues, dValues)
	meanVolume := ffdata.DisplacedVolume(cfg.ExvSet, ffdata.OTHER, nil)
	ffTable := kernel.NewFormFactorProductTable(qValues, meanVolume)

	profile := hist.DebyeTransform(bc.QAxis, sinc, ffTable)

	return &BuildResult{
		Molecule:         molecule,
		ExcludedVolume:   exv,
		Histogram:        hist,
		Sinc:             sinc,
		FF:               ffTable,
		Profile:          profile,
		TotalTimeSeconds: time.Since(startTime).Seconds(),
	}, nil
}

func excludedVolumePoints(exv grid.ExvAtomSet) []structure.PointFF {
	if len(exv.Interior) == 0 && len(exv.Surface) == 0 {
		return nil
	}
	out := make([]structure.PointFF, 0, len(exv.Interior)+len(exv.Surface))
	out = append(out, exv.Interior...)
	out = append(out, exv.Surface...)
	return out
}

func buildManager(cfg config.Config, molecule *structure.Molecule, exv []structure.PointFF, dAxis axis.Axis) histmanager.Manager {
	switch cfg.HistogramManager {
	case config.ManagerMultiThreaded:
		workers := cfg.Threads
		return &histmanager.MultiThreaded{Molecule: molecule, ExcludedVolume: exv, DAxis: dAxis, Weighted: cfg.WeightedBins, Workers: workers}
	case config.ManagerPartial:
		return histmanager.NewPartial(molecule, dAxis, cfg.WeightedBins)
	case config.ManagerSymmetry:
		inner := &histmanager.SingleThreaded{Molecule: molecule, ExcludedVolume: exv, DAxis: dAxis, Weighted: cfg.WeightedBins}
		return &histmanager.Symmetry{Inner: inner, Molecule: molecule}
	default:
		return &histmanager.SingleThreaded{Molecule: molecule, ExcludedVolume: exv, DAxis: dAxis, Weighted: cfg.WeightedBins}
	}
}
