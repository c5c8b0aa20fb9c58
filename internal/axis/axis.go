// Package axis implements the two fixed ordered axes the intensity engine
// is built on: the distance axis (histogram bins) and the q axis (the
// scattering-vector grid intensity profiles are evaluated on).
//
// MATHEMATICIAN: both axes are simple arithmetic (or, for q, optionally
// logarithmic) progressions - the type exists so every consumer agrees on
// bin indexing instead of each re-deriving floor(x/width).
package axis

import "math"

// Axis is an ordered, evenly-spaced (or log-spaced) 1-D grid of Bins points
// between Min and Max.
type Axis struct {
	Min, Max float64
	Bins     int
	log      bool
}

// NewLinearAxis builds a linearly-spaced axis.
func NewLinearAxis(min, max float64, bins int) Axis {
	return Axis{Min: min, Max: max, Bins: bins}
}

// NewLogAxis builds a log-spaced axis; Min must be strictly positive.
func NewLogAxis(min, max float64, bins int) Axis {
	if min <= 0 {
		panic("axis: log axis requires Min > 0")
	}
	return Axis{Min: min, Max: max, Bins: bins, log: true}
}

// Width returns the linear sample step (Max-Min)/(Bins-1) that Value
// advances by. It is computed the same way for a log axis, where it is not
// the spacing of any particular pair of samples; callers needing per-bin
// spacing on a log axis should use Value(i+1)-Value(i) directly.
func (a Axis) Width() float64 {
	if a.Bins <= 1 {
		return a.Max - a.Min
	}
	return (a.Max - a.Min) / float64(a.Bins-1)
}

// Value returns the coordinate of bin i.
func (a Axis) Value(i int) float64 {
	if a.Bins <= 1 {
		return a.Min
	}
	frac := float64(i) / float64(a.Bins-1)
	if !a.log {
		return a.Min + frac*(a.Max-a.Min)
	}
	logMin, logMax := math.Log(a.Min), math.Log(a.Max)
	return math.Exp(logMin + frac*(logMax-logMin))
}

// IndexOf returns the bin containing x by nearest-floor bucketing on a
// linear axis, or false if x falls outside [Min, Max).
func (a Axis) IndexOf(x float64) (int, bool) {
	if x < a.Min || x >= a.Max {
		return 0, false
	}
	if a.log {
		logMin, logMax := math.Log(a.Min), math.Log(a.Max)
		frac := (math.Log(x) - logMin) / (logMax - logMin)
		i := int(frac * float64(a.Bins))
		if i < 0 {
			i = 0
		}
		if i >= a.Bins {
			i = a.Bins - 1
		}
		return i, true
	}
	w := (a.Max - a.Min) / float64(a.Bins)
	i := int((x - a.Min) / w)
	if i < 0 {
		i = 0
	}
	if i >= a.Bins {
		i = a.Bins - 1
	}
	return i, true
}

// BinWidth returns the bucket width (Max-Min)/Bins that IndexOf buckets
// against - distinct from Width, which is the point-sampling step Value
// advances by. The two axes Axis supports (Value's evenly-spaced sample
// points, and IndexOf's evenly-spaced buckets) agree only in the limit of
// large Bins; callers that need a bucket's own geometric center (rather
// than the i-th sample point) should use BinCenter, not Value.
func (a Axis) BinWidth() float64 {
	if a.Bins <= 0 {
		return a.Max - a.Min
	}
	return (a.Max - a.Min) / float64(a.Bins)
}

// BinCenter returns the center of IndexOf's bucket i, i.e. the midpoint of
// [Min+i*BinWidth, Min+(i+1)*BinWidth). Unlike Value, BinCenter always
// satisfies IndexOf(BinCenter(i)) == i.
func (a Axis) BinCenter(i int) float64 {
	if a.log {
		logMin, logMax := math.Log(a.Min), math.Log(a.Max)
		w := (logMax - logMin) / float64(a.Bins)
		return math.Exp(logMin + (float64(i)+0.5)*w)
	}
	return a.Min + (float64(i)+0.5)*a.BinWidth()
}

// NewDistanceAxis builds the distance axis per the bin-width policy: the
// axis must span at least the molecule's diameter, so Bins is sized up from
// the requested width if necessary.
func NewDistanceAxis(binWidth, diameter float64) Axis {
	bins := int(math.Ceil(diameter / binWidth))
	if bins < 1 {
		bins = 1
	}
	return Axis{Min: 0, Max: float64(bins) * binWidth, Bins: bins}
}

// Shorten truncates the axis to drop trailing all-zero bins (as reported by
// nonZero, one bool per existing bin), keeping at least minBins bins.
func (a Axis) Shorten(nonZero []bool, minBins int) Axis {
	last := -1
	for i, v := range nonZero {
		if v {
			last = i
		}
	}
	newBins := last + 1
	if newBins < minBins {
		newBins = minBins
	}
	if newBins > a.Bins {
		newBins = a.Bins
	}
	w := a.BinWidth()
	return Axis{Min: a.Min, Max: a.Min + float64(newBins)*w, Bins: newBins}
}

// IsLog reports whether the axis is log-spaced.
func (a Axis) IsLog() bool { return a.log }
