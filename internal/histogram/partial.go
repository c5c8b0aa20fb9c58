// Package histogram builds the partial pair-distance histograms that feed
// the Debye transform, and the composite histogram that combines them into
// a scattering intensity profile.
//
// MATHEMATICIAN: a partial distance histogram is just a weighted count of
// pairwise distances binned onto the shared distance axis; everything else
// in this package is bookkeeping around that one operation.
package histogram

import (
	"math"

	"github.com/sarat-asymmetrica/saxskit/internal/axis"
	"github.com/sarat-asymmetrica/saxskit/internal/ffdata"
	"github.com/sarat-asymmetrica/saxskit/internal/structure"
)

// PartialHistogram is a 1-D binned pair-distance histogram (used for the
// ww/xx/wx single-type cross and self terms).
type PartialHistogram struct {
	P     []float64
	Axis  axis.Axis
	Means *WeightedBinMeans // nil unless built with weighted=true
}

// PairPartialHistogram is a 2-D histogram indexed [type][distance bin]
// (used for aw/ax: one atomic/exv form factor type crossed with water).
type PairPartialHistogram struct {
	P     [][]float64
	Axis  axis.Axis
	Means *WeightedBinMeans // nil unless built with weighted=true
}

// TriplePartialHistogram is a 3-D histogram indexed [type1][type2][distance
// bin] (used for aa, the atom-atom self term split by type pair).
type TriplePartialHistogram struct {
	P     [][][]float64
	Axis  axis.Axis
	Means *WeightedBinMeans // nil unless built with weighted=true
}

// WeightedBinMeans accumulates, per distance bin, the weighted mean
// distance actually observed in that bin (sum of w*d divided by sum of w),
// used by the weighted-bin Debye transform mode.
type WeightedBinMeans struct {
	sumWD []float64
	sumW  []float64
}

func newWeightedBinMeans(bins int) *WeightedBinMeans {
	return &WeightedBinMeans{sumWD: make([]float64, bins), sumW: make([]float64, bins)}
}

func (m *WeightedBinMeans) add(bin int, weight, dist float64) {
	m.sumWD[bin] += weight * dist
	m.sumW[bin] += weight
}

// Mean returns the weighted mean distance for bin b, clamped to within
// half a bin width of the bin's nominal center when the accumulated weight
// is nonzero; returns the bin's nominal center when empty.
func (m *WeightedBinMeans) Mean(b int, ax axis.Axis) float64 {
	center := ax.BinCenter(b)
	if m.sumW[b] == 0 {
		return center
	}
	mean := m.sumWD[b] / m.sumW[b]
	half := ax.BinWidth() / 2
	if mean < center-half {
		return center - half
	}
	if mean > center+half {
		return center + half
	}
	return mean
}

// Means returns the weighted mean distance for every bin of ax, for
// building a kernel.SincTable (via kernel.NewWeightedSincTable) indexed by
// this call's bin means rather than ax's nominal bin centers.
func (m *WeightedBinMeans) Means(ax axis.Axis) []float64 {
	out := make([]float64, ax.Bins)
	for b := range out {
		out[b] = m.Mean(b, ax)
	}
	return out
}

func distance(a, b structure.PointFF) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func binOf(ax axis.Axis, d float64) (int, bool) {
	return ax.IndexOf(d)
}

// BuildSelf computes the internal aa self-histogram of a single point set,
// split by type pair: each unordered pair (i<j) contributes 2*w_i*w_j to
// bin(dist(i,j)) (a factor of two since both (i,j) and (j,i) orderings are
// real physical contributions to the Debye sum), and each point
// contributes w_i^2 to bin 0 (the self-term, distance zero).
func BuildSelf(points []structure.PointFF, ax axis.Axis, weighted bool) (TriplePartialHistogram, *WeightedBinMeans) {
	n := ffdata.Count()
	hist := TriplePartialHistogram{Axis: ax, P: make([][][]float64, n)}
	for i := range hist.P {
		hist.P[i] = make([][]float64, n)
		for j := range hist.P[i] {
			hist.P[i][j] = make([]float64, ax.Bins)
		}
	}
	var means *WeightedBinMeans
	if weighted {
		means = newWeightedBinMeans(ax.Bins)
	}

	for i := 0; i < len(points); i++ {
		b0, ok := binOf(ax, 0)
		if ok {
			hist.P[points[i].Type][points[i].Type][b0] += points[i].W * points[i].W
		}
	}
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			d := distance(points[i], points[j])
			b, ok := binOf(ax, d)
			if !ok {
				continue
			}
			w := 2 * points[i].W * points[j].W
			t1, t2 := points[i].Type, points[j].Type
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			hist.P[t1][t2][b] += w
			if weighted {
				means.add(b, w, d)
			}
		}
	}
	hist.Means = means
	return hist, means
}

// Symmetric returns the upper-triangle row h.P[min(t1,t2)][max(t1,t2)],
// which is where BuildSelf accumulates every unordered type pair (the
// lower-triangle entry is left zero), or h.P[t][t] when t1==t2.
func (h TriplePartialHistogram) Symmetric(t1, t2 ffdata.FFType) []float64 {
	if t1 == t2 {
		return h.P[t1][t2]
	}
	lo, hi := t1, t2
	if lo > hi {
		lo, hi = hi, lo
	}
	return h.P[lo][hi]
}

// BuildCross computes the unordered cross-histogram between two disjoint
// point sets (e.g. atoms of type t crossed with waters): each pair (i,j)
// with i from a and j from b contributes exactly w_i*w_j (no factor of
// two - each physical pair is counted once here since a and b are disjoint
// sets, unlike BuildSelf's i<j-over-one-set convention).
func BuildCross(a, b []structure.PointFF, ax axis.Axis, weighted bool) (PairPartialHistogram, *WeightedBinMeans) {
	n := ffdata.Count()
	hist := PairPartialHistogram{Axis: ax, P: make([][]float64, n)}
	for i := range hist.P {
		hist.P[i] = make([]float64, ax.Bins)
	}
	var means *WeightedBinMeans
	if weighted {
		means = newWeightedBinMeans(ax.Bins)
	}
	for _, pi := range a {
		for _, pj := range b {
			d := distance(pi, pj)
			bin, ok := binOf(ax, d)
			if !ok {
				continue
			}
			w := pi.W * pj.W
			hist.P[pi.Type][bin] += w
			if weighted {
				means.add(bin, w, d)
			}
		}
	}
	hist.Means = means
	return hist, means
}

// BuildCrossFlat computes a 1-D cross or self histogram with no type
// splitting (used for ww, xx, and wx terms, which don't need a type axis
// since water and exv points are each a single homogeneous type).
// If a and b are the same slice (by identity), it behaves like BuildSelf's
// self-term convention (i<j contributes 2*w_i*w_j, plus the w_i^2 diagonal);
// otherwise it behaves like BuildCross's disjoint-set convention.
func BuildCrossFlat(a, b []structure.PointFF, ax axis.Axis, weighted bool) (PartialHistogram, *WeightedBinMeans) {
	hist := PartialHistogram{Axis: ax, P: make([]float64, ax.Bins)}
	var means *WeightedBinMeans
	if weighted {
		means = newWeightedBinMeans(ax.Bins)
	}
	self := samePointSet(a, b)
	if self {
		for i := range a {
			b0, ok := binOf(ax, 0)
			if ok {
				hist.P[b0] += a[i].W * a[i].W
			}
		}
		for i := 0; i < len(a); i++ {
			for j := i + 1; j < len(a); j++ {
				d := distance(a[i], a[j])
				bin, ok := binOf(ax, d)
				if !ok {
					continue
				}
				w := 2 * a[i].W * a[j].W
				hist.P[bin] += w
				if weighted {
					means.add(bin, w, d)
				}
			}
		}
		hist.Means = means
		return hist, means
	}
	for _, pi := range a {
		for _, pj := range b {
			d := distance(pi, pj)
			bin, ok := binOf(ax, d)
			if !ok {
				continue
			}
			w := pi.W * pj.W
			hist.P[bin] += w
			if weighted {
				means.add(bin, w, d)
			}
		}
	}
	hist.Means = means
	return hist, means
}

func samePointSet(a, b []structure.PointFF) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == 0 && len(b) == 0
	}
	return &a[0] == &b[0] && len(a) == len(b)
}
