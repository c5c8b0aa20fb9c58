package histogram

import (
	"github.com/sarat-asymmetrica/saxskit/internal/axis"
	"github.com/sarat-asymmetrica/saxskit/internal/ffdata"
	"github.com/sarat-asymmetrica/saxskit/internal/kernel"
)

// CompositeHistogram combines the six partial histograms (aa, aw, ww,
// optional ax, xx, wx) into the full scattering system and applies the
// Debye transform. Free scalars scale the water and excluded-volume
// contributions and the two Debye-Waller damping widths, mirroring the
// original engine's fitted nuisance parameters.
type CompositeHistogram struct {
	Aa TriplePartialHistogram
	Aw PairPartialHistogram
	Ww PartialHistogram
	Ax PairPartialHistogram // zero-valued (nil P) when excluded volume isn't modeled
	Xx PartialHistogram
	Wx PartialHistogram

	DAxis axis.Axis

	Cw, Cx, Crho   float64
	SigmaA, SigmaX float64

	cache map[cacheEntry][]float64
	// weightedSinc memoizes the per-partial weighted-bin-mean SincTable
	// keyed by (term, mean-distance hash), so repeated DebyeTransform
	// calls during a fit only rebuild a term's weighted sinc table when
	// its bin means actually change, per spec's "keep per-partial
	// sinc-weighted sums" cache requirement.
	weightedSinc map[weightedSincKey]*kernel.SincTable
}

type cacheEntry struct {
	term string
	gen  int
}

type weightedSincKey struct {
	term string
	hash uint64
}

// NewCompositeHistogram assembles a composite from its six partials, with
// the scaling scalars defaulted to 1 (no extra scaling) and the
// Debye-Waller widths to 0 (no damping) until a fit sets them.
func NewCompositeHistogram(aa TriplePartialHistogram, aw PairPartialHistogram, ww PartialHistogram, ax PairPartialHistogram, xx, wx PartialHistogram, dAxis axis.Axis) *CompositeHistogram {
	return &CompositeHistogram{
		Aa: aa, Aw: aw, Ww: ww, Ax: ax, Xx: xx, Wx: wx, DAxis: dAxis,
		Cw: 1, Cx: 1, Crho: 1,
		cache:        make(map[cacheEntry][]float64),
		weightedSinc: make(map[weightedSincKey]*kernel.SincTable),
	}
}

func (c *CompositeHistogram) invalidate() {
	c.cache = make(map[cacheEntry][]float64)
}

// ApplyWaterScalingFactor sets c_w, the hydration shell contrast scaling.
func (c *CompositeHistogram) ApplyWaterScalingFactor(cw float64) {
	c.Cw = cw
	c.invalidate()
}

// ApplyExcludedVolumeScalingFactor sets c_x, the excluded-volume contrast
// scaling.
func (c *CompositeHistogram) ApplyExcludedVolumeScalingFactor(cx float64) {
	c.Cx = cx
	c.invalidate()
}

// ApplySolventDensityScalingFactor sets c_rho, the bulk solvent electron
// density scaling relative to the tabulated default.
func (c *CompositeHistogram) ApplySolventDensityScalingFactor(crho float64) {
	c.Crho = crho
	c.invalidate()
}

// ApplyAtomicDebyeWallerFactor sets sigma_a, the atomic Debye-Waller width.
func (c *CompositeHistogram) ApplyAtomicDebyeWallerFactor(sigma float64) {
	c.SigmaA = sigma
	c.invalidate()
}

// ApplyExvDebyeWallerFactor sets sigma_x, the excluded-volume Debye-Waller
// width.
func (c *CompositeHistogram) ApplyExvDebyeWallerFactor(sigma float64) {
	c.SigmaX = sigma
	c.invalidate()
}

// Profile holds per-term intensity contributions alongside the total, for
// diagnostics and for the TestableProperties invariant Total ~= sum(terms).
type Profile struct {
	Q                       []float64
	Total                   []float64
	Aa, Aw, Ww, Ax, Xx, Wx  []float64
}

// DebyeTransform evaluates
// I(q) = aa + 2*Cw*aw - 2*Cx*ax + Cx^2*Crho^2*xx - 2*Cw*Cx*Crho^2*wx + Cw^2*ww
// across the q axis, applying the atomic Debye-Waller factor to aa/aw/ww
// and the excluded-volume Debye-Waller factor to ax/xx/wx (the Open
// Question resolution: a cross term takes the D-W factor of whichever
// side is exv, since the exv dummy atoms are the ones carrying positional
// uncertainty from the grid discretization). The ax and wx terms are
// excluded-volume displacing solvent that the real atoms already
// displaced, so they enter with a minus sign; aa, xx, and ww accumulate
// their own scaling (aw and ww separately carry one and two powers of Cw)
// directly in the per-distance sum below, not at the final total.
func (c *CompositeHistogram) DebyeTransform(q axis.Axis, sinc *kernel.SincTable, ff *kernel.FormFactorProductTable) Profile {
	qValues := make([]float64, q.Bins)
	for i := range qValues {
		qValues[i] = q.Value(i)
	}

	aaDamp := kernel.NewDampedSincTable(c.sincFor("aa", c.Aa.Means, qValues, sinc), c.SigmaA)
	awDamp := kernel.NewDampedSincTable(c.sincFor("aw", c.Aw.Means, qValues, sinc), c.SigmaA)
	wwDamp := kernel.NewDampedSincTable(c.sincFor("ww", c.Ww.Means, qValues, sinc), c.SigmaA)
	axDamp := kernel.NewDampedSincTable(c.sincFor("ax", c.Ax.Means, qValues, sinc), c.SigmaX)
	xxDamp := kernel.NewDampedSincTable(c.sincFor("xx", c.Xx.Means, qValues, sinc), c.SigmaX)
	wxDamp := kernel.NewDampedSincTable(c.sincFor("wx", c.Wx.Means, qValues, sinc), c.SigmaX)

	profile := Profile{
		Q: qValues,
		Total: make([]float64, q.Bins), Aa: make([]float64, q.Bins), Aw: make([]float64, q.Bins),
		Ww: make([]float64, q.Bins), Ax: make([]float64, q.Bins), Xx: make([]float64, q.Bins), Wx: make([]float64, q.Bins),
	}

	n := ffdata.Count()
	for qi := range qValues {
		var aa, aw, ww, ax, xx, wx float64

		for t1 := 0; t1 < n; t1++ {
			if ffdata.FFType(t1) == ffdata.EXV {
				continue
			}
			for t2 := t1; t2 < n; t2++ {
				if ffdata.FFType(t2) == ffdata.EXV {
					continue
				}
				row := c.Aa.Symmetric(ffdata.FFType(t1), ffdata.FFType(t2))
				if row == nil {
					continue
				}
				fpro := ff.Atomic(qi, ffdata.FFType(t1), ffdata.FFType(t2))
				for d, p := range row {
					if p == 0 {
						continue
					}
					aa += p * fpro * aaDamp.At(qi, d)
				}
			}
			if c.Aw.P != nil {
				fpro := ff.Atomic(qi, ffdata.FFType(t1), ffdata.O)
				for d, p := range c.Aw.P[t1] {
					if p == 0 {
						continue
					}
					aw += 2 * p * fpro * awDamp.At(qi, d) * c.Cw
				}
			}
			if c.Ax.P != nil {
				fpro := ff.ExcludedVolumeCross(qi, ffdata.FFType(t1))
				for d, p := range c.Ax.P[t1] {
					if p == 0 {
						continue
					}
					ax -= 2 * p * fpro * axDamp.At(qi, d) * c.Cx
				}
			}
		}

		fww := ff.Atomic(qi, ffdata.O, ffdata.O)
		for d, p := range c.Ww.P {
			if p == 0 {
				continue
			}
			ww += p * fww * wwDamp.At(qi, d) * c.Cw * c.Cw
		}

		if c.Xx.P != nil {
			fxx := ff.ExcludedVolumeSelf(qi)
			for d, p := range c.Xx.P {
				if p == 0 {
					continue
				}
				xx += p * fxx * xxDamp.At(qi, d) * c.Cx * c.Cx * c.Crho * c.Crho
			}
		}

		if c.Wx.P != nil {
			fwx := ff.ExcludedVolumeCross(qi, ffdata.O)
			for d, p := range c.Wx.P {
				if p == 0 {
					continue
				}
				wx -= 2 * p * fwx * wxDamp.At(qi, d) * c.Cw * c.Cx * c.Crho * c.Crho
			}
		}

		profile.Aa[qi], profile.Aw[qi], profile.Ww[qi] = aa, aw, ww
		profile.Ax[qi], profile.Xx[qi], profile.Wx[qi] = ax, xx, wx
		profile.Total[qi] = aa + aw + ww + ax + xx + wx
	}
	return profile
}

// sincFor returns fallback unchanged when means is nil (weighted-bin mode
// off for this partial); otherwise it returns a SincTable built from the
// partial's weighted mean distances, keyed by a cache that only rebuilds
// when those means actually change (detected via SincTable.Hash), per
// spec's weighted-bin sinc-table cache.
func (c *CompositeHistogram) sincFor(term string, means *WeightedBinMeans, qValues []float64, fallback *kernel.SincTable) *kernel.SincTable {
	if means == nil {
		return fallback
	}
	meanValues := means.Means(c.DAxis)
	probe := kernel.NewWeightedSincTable(qValues[:0], meanValues)
	key := weightedSincKey{term: term, hash: probe.Hash()}
	if cached, ok := c.weightedSinc[key]; ok {
		return cached
	}
	table := kernel.NewWeightedSincTable(qValues, meanValues)
	c.weightedSinc[key] = table
	return table
}
