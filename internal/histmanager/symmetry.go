package histmanager

import (
	"context"

	"github.com/sarat-asymmetrica/saxskit/internal/histogram"
	"github.com/sarat-asymmetrica/saxskit/internal/structure"
)

// closedOrbitThreshold is the distance (Angstrom) below which two
// symmetry-replicated copies of a point are treated as coincident rather
// than a genuine close pair, avoiding spurious near-zero-distance spikes
// from floating-point replication error on a closed symmetry orbit.
const closedOrbitThreshold = 1e-9

// Symmetry wraps an inner Manager and expands each body's symmetry
// operations into additional replicated point sets before delegating,
// deduplicating coincident points introduced by closed orbits.
type Symmetry struct {
	Inner Manager
	Molecule *structure.Molecule
}

// CalculateAll expands every body's SymmetryOp list into replicated copies
// appended as synthetic extra bodies, then delegates to Inner.
func (s *Symmetry) CalculateAll(ctx context.Context) (*histogram.CompositeHistogram, error) {
	expanded := &structure.Molecule{Bodies: append([]*structure.Body{}, s.Molecule.Bodies...)}
	nextID := uint64(1 << 32)
	for _, b := range s.Molecule.Bodies {
		for _, op := range b.Symmetry {
			copyAtoms := replicate(b.Atoms, op)
			if len(copyAtoms) == 0 {
				continue
			}
			rep := structure.NewBody(nextID, copyAtoms)
			nextID++
			expanded.Bodies = append(expanded.Bodies, rep)
		}
	}

	switch inner := s.Inner.(type) {
	case *SingleThreaded:
		inner.Molecule = expanded
	case *MultiThreaded:
		inner.Molecule = expanded
	case *Partial:
		inner.Molecule = expanded
	}
	return s.Inner.CalculateAll(ctx)
}

// replicate applies one symmetry operation Repeats times, dropping any
// replicated point that lands within closedOrbitThreshold of its source
// (a closed orbit mapping a point back onto itself).
func replicate(atoms []structure.PointFF, op structure.SymmetryOp) []structure.PointFF {
	var out []structure.PointFF
	current := append([]structure.PointFF{}, atoms...)
	for r := 0; r < op.Repeats; r++ {
		next := make([]structure.PointFF, 0, len(current))
		for _, p := range current {
			rotated := op.Rotation.Rotate(p.Position()).Add(op.Translation)
			if distance3(rotated, p.Position()) < closedOrbitThreshold {
				continue
			}
			next = append(next, structure.PointFF{X: rotated.X, Y: rotated.Y, Z: rotated.Z, W: p.W, Type: p.Type})
		}
		out = append(out, next...)
		current = next
	}
	return out
}

func distance3(a, b structure.Vector3) float64 {
	return a.Sub(b).Magnitude()
}
