package kernel

import "github.com/sarat-asymmetrica/saxskit/internal/ffdata"

// FormFactorProductTable precomputes f_i(q) * f_j(q) for every ordered pair
// of form factor types over a fixed q axis, so the Debye transform's inner
// loop over histogram bins never re-evaluates a Gaussian form factor.
type FormFactorProductTable struct {
	qValues  []float64
	atomic   [][ffdata.COUNT][ffdata.COUNT]float64 // [qIndex][i][j]
	exvAtom  [][ffdata.COUNT]float64                // [qIndex][i], product with EXV
	exvSelf  []float64                              // [qIndex], EXV*EXV
}

// NewFormFactorProductTable builds the table for every atomic form factor
// type plus the excluded-volume form factor, the latter parameterized by a
// representative displaced volume (the mean over the molecule's atoms is
// the conventional choice, per the single effective excluded-volume atom
// approximation).
func NewFormFactorProductTable(qValues []float64, meanDisplacedVolume float64) *FormFactorProductTable {
	n := ffdata.Count()
	t := &FormFactorProductTable{
		qValues: qValues,
		atomic:  make([][ffdata.COUNT][ffdata.COUNT]float64, len(qValues)),
		exvAtom: make([][ffdata.COUNT]float64, len(qValues)),
		exvSelf: make([]float64, len(qValues)),
	}
	for qi, q := range qValues {
		f := make([]float64, n)
		for i := 0; i < n; i++ {
			ft := ffdata.FFType(i)
			if ft == ffdata.EXV || ft == ffdata.UNKNOWN {
				continue
			}
			f[i] = ffdata.CoefficientsFor(ft).Evaluate(q)
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				t.atomic[qi][i][j] = f[i] * f[j]
			}
		}
		fx := ffdata.ExcludedVolumeFormFactor(q, meanDisplacedVolume)
		for i := 0; i < n; i++ {
			t.exvAtom[qi][i] = f[i] * fx
		}
		t.exvSelf[qi] = fx * fx
	}
	return t
}

// Atomic returns f_i(q[qi]) * f_j(q[qi]) for two atomic form factor types.
func (t *FormFactorProductTable) Atomic(qi int, i, j ffdata.FFType) float64 {
	return t.atomic[qi][i][j]
}

// ExcludedVolumeCross returns f_i(q[qi]) * f_x(q[qi]) for an atomic type
// crossed with the excluded-volume form factor.
func (t *FormFactorProductTable) ExcludedVolumeCross(qi int, i ffdata.FFType) float64 {
	return t.exvAtom[qi][i]
}

// ExcludedVolumeSelf returns f_x(q[qi])^2.
func (t *FormFactorProductTable) ExcludedVolumeSelf(qi int) float64 {
	return t.exvSelf[qi]
}
