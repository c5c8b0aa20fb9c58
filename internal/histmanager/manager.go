package histmanager

import (
	"context"

	"github.com/sarat-asymmetrica/saxskit/internal/axis"
	"github.com/sarat-asymmetrica/saxskit/internal/histogram"
	"github.com/sarat-asymmetrica/saxskit/internal/structure"
	"github.com/sarat-asymmetrica/saxskit/internal/workerpool"
)

// Manager builds the composite histogram for a molecule.
type Manager interface {
	CalculateAll(ctx context.Context) (*histogram.CompositeHistogram, error)
}

// SingleThreaded rebuilds every partial from scratch on every call - the
// simplest correct implementation, used as the reference the other
// managers are checked against.
type SingleThreaded struct {
	Molecule      *structure.Molecule
	ExcludedVolume []structure.PointFF
	DAxis         axis.Axis
	Weighted      bool
}

// CalculateAll builds aa/aw/ww (and ax/xx/wx when excluded-volume points
// are present) from the molecule's current geometry.
func (m *SingleThreaded) CalculateAll(ctx context.Context) (*histogram.CompositeHistogram, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	atoms := m.Molecule.AllAtoms()
	waters := m.Molecule.AllWaters()

	aa, _ := histogram.BuildSelf(atoms, m.DAxis, m.Weighted)
	aw, _ := histogram.BuildCross(atoms, waters, m.DAxis, m.Weighted)
	ww, _ := histogram.BuildCrossFlat(waters, waters, m.DAxis, m.Weighted)

	var ax histogram.PairPartialHistogram
	var xx, wx histogram.PartialHistogram
	if len(m.ExcludedVolume) > 0 {
		ax, _ = histogram.BuildCross(atoms, m.ExcludedVolume, m.DAxis, m.Weighted)
		xx, _ = histogram.BuildCrossFlat(m.ExcludedVolume, m.ExcludedVolume, m.DAxis, m.Weighted)
		wx, _ = histogram.BuildCrossFlat(waters, m.ExcludedVolume, m.DAxis, m.Weighted)
	}

	return histogram.NewCompositeHistogram(aa, aw, ww, ax, xx, wx, m.DAxis), nil
}

// MultiThreaded has the same contract as SingleThreaded but splits the
// independent partial builds across internal/workerpool, since aa, aw, ww
// (and ax, xx, wx) have no data dependency on each other within one call.
type MultiThreaded struct {
	Molecule      *structure.Molecule
	ExcludedVolume []structure.PointFF
	DAxis         axis.Axis
	Weighted      bool
	Workers       int
}

// CalculateAll dispatches each partial build to the pool and reduces at a
// Wait() barrier (spec's "suspension points" - the only synchronization
// this manager needs, since each partial accumulates into its own buffer).
func (m *MultiThreaded) CalculateAll(ctx context.Context) (*histogram.CompositeHistogram, error) {
	atoms := m.Molecule.AllAtoms()
	waters := m.Molecule.AllWaters()

	var aa histogram.TriplePartialHistogram
	var aw histogram.PairPartialHistogram
	var ww histogram.PartialHistogram
	var ax histogram.PairPartialHistogram
	var xx, wx histogram.PartialHistogram

	pool := workerpool.New(m.Workers)
	pool.Submit(ctx, func() error { aa, _ = histogram.BuildSelf(atoms, m.DAxis, m.Weighted); return nil })
	pool.Submit(ctx, func() error { aw, _ = histogram.BuildCross(atoms, waters, m.DAxis, m.Weighted); return nil })
	pool.Submit(ctx, func() error { ww, _ = histogram.BuildCrossFlat(waters, waters, m.DAxis, m.Weighted); return nil })
	if len(m.ExcludedVolume) > 0 {
		pool.Submit(ctx, func() error { ax, _ = histogram.BuildCross(atoms, m.ExcludedVolume, m.DAxis, m.Weighted); return nil })
		pool.Submit(ctx, func() error {
			xx, _ = histogram.BuildCrossFlat(m.ExcludedVolume, m.ExcludedVolume, m.DAxis, m.Weighted)
			return nil
		})
		pool.Submit(ctx, func() error { wx, _ = histogram.BuildCrossFlat(waters, m.ExcludedVolume, m.DAxis, m.Weighted); return nil })
	}
	if err := pool.Wait(); err != nil {
		return nil, err
	}

	return histogram.NewCompositeHistogram(aa, aw, ww, ax, xx, wx, m.DAxis), nil
}
