package histmanager

import (
	"context"

	"github.com/sarat-asymmetrica/saxskit/internal/axis"
	"github.com/sarat-asymmetrica/saxskit/internal/ffdata"
	"github.com/sarat-asymmetrica/saxskit/internal/histogram"
	"github.com/sarat-asymmetrica/saxskit/internal/structure"
)

// Partial is the incremental histogram manager: it owns per-body partials
// and, on each CalculateAll, recomputes only what StateManager reports as
// changed, folding deltas into a running master histogram by
// subtract-old/add-new rather than rebuilding from scratch.
type Partial struct {
	Molecule *structure.Molecule
	DAxis    axis.Axis
	Weighted bool

	sm *StateManager

	// selfPartials[i] is body i's internal aa self-histogram.
	selfPartials map[uint64]histogram.TriplePartialHistogram
	// pairPartials[i][j] (i<j by ID) is the aa cross-histogram between
	// bodies i and j.
	pairPartials map[uint64]map[uint64]histogram.TriplePartialHistogram
	// awPartials[i] is body i's atom-water cross histogram.
	awPartials map[uint64]histogram.PairPartialHistogram
	wwPartial  histogram.PartialHistogram

	master histogram.TriplePartialHistogram
	initialized bool
}

// NewPartial builds an incremental manager bound to molecule, registering
// a StateManager probe on every existing body.
func NewPartial(molecule *structure.Molecule, dAxis axis.Axis, weighted bool) *Partial {
	p := &Partial{
		Molecule: molecule, DAxis: dAxis, Weighted: weighted,
		sm:           NewStateManager(),
		selfPartials: make(map[uint64]histogram.TriplePartialHistogram),
		pairPartials: make(map[uint64]map[uint64]histogram.TriplePartialHistogram),
		awPartials:   make(map[uint64]histogram.PairPartialHistogram),
	}
	for _, b := range molecule.Bodies {
		b.SetNotifier(p.sm)
		p.sm.RegisterBody(b.ID)
	}
	// The first CalculateAll also builds the shared ww/aw hydration partials.
	p.sm.NotifyModified(0, structure.ModifiedHydration)
	return p
}

// StateManager exposes the underlying change tracker, e.g. for a caller
// that wants to force a body dirty without going through Body.Translate.
func (p *Partial) StateManager() *StateManager { return p.sm }

// SignalModifiedHydrationLayer marks the hydration layer dirty without
// requiring a Body method call, for callers that rebuild waters directly
// on the Molecule.
func (p *Partial) SignalModifiedHydrationLayer() {
	p.sm.NotifyModified(0, structure.ModifiedHydration)
}

func newEmptyTriple(ax axis.Axis) histogram.TriplePartialHistogram {
	n := ffdata.Count()
	t := histogram.TriplePartialHistogram{Axis: ax, P: make([][][]float64, n)}
	for i := range t.P {
		t.P[i] = make([][]float64, n)
		for j := range t.P[i] {
			t.P[i][j] = make([]float64, ax.Bins)
		}
	}
	return t
}

func addInto(dst *histogram.TriplePartialHistogram, src histogram.TriplePartialHistogram, sign float64) {
	for i := range src.P {
		for j := range src.P[i] {
			for d := range src.P[i][j] {
				dst.P[i][j][d] += sign * src.P[i][j][d]
			}
		}
	}
}

func pairKey(a, b uint64) (uint64, uint64) {
	if a < b {
		return a, b
	}
	return b, a
}

// CalculateAll implements the subtract-old/add-new incremental update:
// bodies reported internally modified get their self-partial rebuilt;
// cross-partials rebuild for any pair where either side changed; the
// hydration layer's aw/ww rebuild when the hydration signal fired.
func (p *Partial) CalculateAll(ctx context.Context) (*histogram.CompositeHistogram, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !p.initialized {
		p.master = newEmptyTriple(p.DAxis)
		p.initialized = true
	}

	modifiedInternal := p.sm.ModifiedInternally()
	modifiedAny := p.sm.ModifiedBodies()
	hydrationDirty := p.sm.ModifiedHydration()

	bodies := p.Molecule.Bodies
	for _, b := range bodies {
		if !modifiedInternal[b.ID] {
			continue
		}
		if old, ok := p.selfPartials[b.ID]; ok {
			addInto(&p.master, old, -1)
		}
		fresh, _ := histogram.BuildSelf(b.Atoms, p.DAxis, p.Weighted)
		p.selfPartials[b.ID] = fresh
		addInto(&p.master, fresh, 1)
	}

	for i, bi := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			bj := bodies[j]
			if !modifiedAny[bi.ID] && !modifiedAny[bj.ID] {
				continue
			}
			lo, hi := pairKey(bi.ID, bj.ID)
			if p.pairPartials[lo] == nil {
				p.pairPartials[lo] = make(map[uint64]histogram.TriplePartialHistogram)
			}
			if old, ok := p.pairPartials[lo][hi]; ok {
				addInto(&p.master, old, -1)
			}
			fresh, _ := crossAsTriple(bi.Atoms, bj.Atoms, p.DAxis, p.Weighted)
			p.pairPartials[lo][hi] = fresh
			addInto(&p.master, fresh, 1)
		}
	}

	waters := p.Molecule.AllWaters()
	if hydrationDirty {
		p.wwPartial, _ = histogram.BuildCrossFlat(waters, waters, p.DAxis, p.Weighted)
		for _, b := range bodies {
			p.awPartials[b.ID], _ = histogram.BuildCross(b.Atoms, waters, p.DAxis, p.Weighted)
		}
	} else {
		for _, b := range bodies {
			if !modifiedAny[b.ID] {
				continue
			}
			p.awPartials[b.ID], _ = histogram.BuildCross(b.Atoms, waters, p.DAxis, p.Weighted)
		}
	}

	p.sm.Reset()

	aw := mergeAw(p.awPartials, p.DAxis)
	return histogram.NewCompositeHistogram(p.master, aw, p.wwPartial,
		histogram.PairPartialHistogram{}, histogram.PartialHistogram{}, histogram.PartialHistogram{}, p.DAxis), nil
}

// crossAsTriple computes the aa cross-histogram between two disjoint atom
// sets in the same [t1][t2][d] shape as BuildSelf, so body-pair
// cross-partials can be folded into the same master accumulator as
// self-partials. Each unordered (i,j) pair contributes 2*w_i*w_j, matching
// BuildSelf's convention for within-body pairs - a cross-body pair is just
// as real a contribution to the Debye sum as a within-body one, and the
// full-molecule rebuild (BuildSelf over every atom, body boundaries
// notwithstanding) always doubles it.
func crossAsTriple(a, b []structure.PointFF, ax axis.Axis, weighted bool) (histogram.TriplePartialHistogram, *histogram.WeightedBinMeans) {
	t := newEmptyTriple(ax)
	for _, pi := range a {
		for _, pj := range b {
			d := pi.Position().Sub(pj.Position()).Magnitude()
			bin, ok := ax.IndexOf(d)
			if !ok {
				continue
			}
			t1, t2 := pi.Type, pj.Type
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			t.P[t1][t2][bin] += 2 * pi.W * pj.W
		}
	}
	return t, nil
}

func mergeAw(perBody map[uint64]histogram.PairPartialHistogram, ax axis.Axis) histogram.PairPartialHistogram {
	n := ffdata.Count()
	merged := histogram.PairPartialHistogram{Axis: ax, P: make([][]float64, n)}
	for i := range merged.P {
		merged.P[i] = make([]float64, ax.Bins)
	}
	for _, part := range perBody {
		if part.P == nil {
			continue
		}
		for t := range part.P {
			for d := range part.P[t] {
				merged.P[t][d] += part.P[t][d]
			}
		}
	}
	return merged
}
