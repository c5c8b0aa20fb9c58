package structure

// Molecule groups the bodies that make up one scattering system. It does
// not own a grid directly - internal/grid builds one from a Molecule's
// points on demand - but callers that cache a grid alongside a Molecule
// should invalidate it on any body change, per the package-level
// invariant: a grid reflects the molecule's current positions or is nil.
type Molecule struct {
	Bodies []*Body
}

// NewMolecule wraps a set of bodies.
func NewMolecule(bodies ...*Body) *Molecule {
	return &Molecule{Bodies: bodies}
}

// AllAtoms returns every atom across every body, excluding waters.
func (m *Molecule) AllAtoms() []PointFF {
	var out []PointFF
	for _, b := range m.Bodies {
		out = append(out, b.Atoms...)
	}
	return out
}

// AllWaters returns every water across every body.
func (m *Molecule) AllWaters() []PointFF {
	var out []PointFF
	for _, b := range m.Bodies {
		out = append(out, b.Waters...)
	}
	return out
}

// AllPoints returns every atom and water across every body.
func (m *Molecule) AllPoints() []PointFF {
	var out []PointFF
	for _, b := range m.Bodies {
		out = append(out, b.AllPoints()...)
	}
	return out
}

// BoundingBox returns the axis-aligned box containing every atom and water
// in the molecule.
func (m *Molecule) BoundingBox() (min, max Vector3) {
	points := m.AllPoints()
	if len(points) == 0 {
		return Vector3{}, Vector3{}
	}
	min = points[0].Position()
	max = min
	for _, p := range points[1:] {
		pos := p.Position()
		if pos.X < min.X {
			min.X = pos.X
		}
		if pos.Y < min.Y {
			min.Y = pos.Y
		}
		if pos.Z < min.Z {
			min.Z = pos.Z
		}
		if pos.X > max.X {
			max.X = pos.X
		}
		if pos.Y > max.Y {
			max.Y = pos.Y
		}
		if pos.Z > max.Z {
			max.Z = pos.Z
		}
	}
	return min, max
}

// Diameter returns the length of the bounding box's diagonal, a cheap
// upper bound on the molecule's maximum interatomic distance used to size
// the distance axis.
func (m *Molecule) Diameter() float64 {
	min, max := m.BoundingBox()
	d := max.Sub(min)
	diag := d.Magnitude()
	return diag
}
