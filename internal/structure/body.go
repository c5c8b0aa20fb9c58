package structure

// ChangeKind classifies what about a body changed, so an incremental
// histogram manager can decide how much recomputation is required.
type ChangeKind int

const (
	// ModifiedExternal means the body moved or rotated as a rigid unit -
	// only cross-partials involving this body need recomputing.
	ModifiedExternal ChangeKind = iota
	// ModifiedInternal means atoms moved relative to each other within
	// the body - both its self-partial and its cross-partials are stale.
	ModifiedInternal
	// ModifiedHydration means the body's hydration shell was rebuilt.
	ModifiedHydration
)

// ChangeNotifier receives change notifications from a Body. An incremental
// histogram manager implements this to track which partials need rebuilding
// without the Body package depending on histmanager.
type ChangeNotifier interface {
	NotifyModified(bodyID uint64, kind ChangeKind)
}

// SymmetryOp describes one crystallographic symmetry-mate replication of a
// body: rotate by Rotation about the coordinate origin, then translate by
// Translation, repeated Repeats times (e.g. for a helical or screw axis).
type SymmetryOp struct {
	Rotation    Quaternion
	Translation Vector3
	Repeats     int
}

// Body is a rigid group of atoms (and, once hydrated, waters) that moves as
// a unit under Translate/Rotate. Bodies are the unit of incremental
// recomputation for the partial histogram manager.
type Body struct {
	ID       uint64
	Atoms    []PointFF
	Waters   []PointFF
	Symmetry []SymmetryOp

	notifier ChangeNotifier
}

// NewBody constructs a body with the given atoms; waters are attached
// separately once a hydration shell has been built.
func NewBody(id uint64, atoms []PointFF) *Body {
	return &Body{ID: id, Atoms: atoms}
}

// SetNotifier registers the change notifier an incremental manager uses to
// track which bodies moved since the last histogram calculation.
func (b *Body) SetNotifier(n ChangeNotifier) { b.notifier = n }

// Translate shifts every atom and water by v, in place, and raises
// ModifiedExternal (a rigid shift never changes internal distances).
func (b *Body) Translate(v Vector3) {
	for i := range b.Atoms {
		b.Atoms[i].X += v.X
		b.Atoms[i].Y += v.Y
		b.Atoms[i].Z += v.Z
	}
	for i := range b.Waters {
		b.Waters[i].X += v.X
		b.Waters[i].Y += v.Y
		b.Waters[i].Z += v.Z
	}
	b.notify(ModifiedExternal)
}

// Rotate rotates every atom and water about origin by q, in place, and
// raises ModifiedExternal.
func (b *Body) Rotate(q Quaternion, origin Vector3) {
	rotatePoints(b.Atoms, q, origin)
	rotatePoints(b.Waters, q, origin)
	b.notify(ModifiedExternal)
}

func rotatePoints(points []PointFF, q Quaternion, origin Vector3) {
	for i := range points {
		rel := points[i].Position().Sub(origin)
		rotated := q.Rotate(rel).Add(origin)
		points[i].X, points[i].Y, points[i].Z = rotated.X, rotated.Y, rotated.Z
	}
}

// SetWaters replaces the body's hydration shell and raises
// ModifiedHydration.
func (b *Body) SetWaters(waters []PointFF) {
	b.Waters = waters
	b.notify(ModifiedHydration)
}

// SetAtoms replaces the body's atoms (e.g. after an internal conformational
// change) and raises ModifiedInternal.
func (b *Body) SetAtoms(atoms []PointFF) {
	b.Atoms = atoms
	b.notify(ModifiedInternal)
}

func (b *Body) notify(kind ChangeKind) {
	if b.notifier != nil {
		b.notifier.NotifyModified(b.ID, kind)
	}
}

// AllPoints returns the body's atoms followed by its waters, the
// concatenation most histogram builders operate on.
func (b *Body) AllPoints() []PointFF {
	out := make([]PointFF, 0, len(b.Atoms)+len(b.Waters))
	out = append(out, b.Atoms...)
	out = append(out, b.Waters...)
	return out
}
