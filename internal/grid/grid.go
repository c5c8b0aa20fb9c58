// Package grid implements the voxel grid used to classify which regions of
// space around a molecule are occupied, vacant but enclosed ("vacuum
// holes"), or candidates for excluded-volume dummy atoms.
//
// PHYSICIST: every atom occupies a small sphere of space that displaces
// solvent; the grid turns that continuous picture into a discrete voxel
// classification cheap enough to run a radial probe test against.
package grid

import (
	"math"

	"github.com/sarat-asymmetrica/saxskit/internal/axis"
	"github.com/sarat-asymmetrica/saxskit/internal/structure"
)

// State is a bit-flag classification of one voxel. A voxel can carry more
// than one flag at once (e.g. ACenter atoms are always also Volume).
type State uint8

const (
	Empty State = 0
	// Volume marks a voxel inside an atom's excluded-volume sphere.
	Volume State = 1 << (iota - 1)
	// Vacuum marks an empty voxel fully enclosed by Volume/water voxels
	// (an internal cavity rather than bulk solvent).
	Vacuum
	// ACenter marks the voxel nearest an atom's own center.
	ACenter
	// AArea marks any voxel within an atom's radius (including ACenter).
	AArea
	// WCenter marks the voxel nearest a water's own center.
	WCenter
	// WArea marks any voxel within a water's radius (including WCenter).
	WArea
	// reserved1 and reserved2 are reserved for transient marking; no code
	// in this package sets or reads them.
	reserved1
	reserved2
)

// IsEmptyOrWater reports whether a voxel can be treated as passable space
// for the radial probe test (no atom occupancy at all, or only water).
func (s State) IsEmptyOrWater() bool {
	return s&(Volume|AArea|ACenter) == 0
}

// IsAtomAreaOrVolume reports whether a voxel is inside an atom's radius.
func (s State) IsAtomAreaOrVolume() bool {
	return s&(Volume|AArea|ACenter) != 0
}

// Grid is a dense 3D array of voxel states addressed by a flattened index
// over three axes, generalizing the teacher's hashed sparse cell map to a
// bounded dense array now that cell coordinates are known in advance.
type Grid struct {
	AxisX, AxisY, AxisZ axis.Axis
	Cells                []State
	CellWidth             float64
	volume                int
}

func (g *Grid) dims() (nx, ny, nz int) {
	return g.AxisX.Bins, g.AxisY.Bins, g.AxisZ.Bins
}

func (g *Grid) index(i, j, k int) (int, bool) {
	nx, ny, nz := g.dims()
	if i < 0 || i >= nx || j < 0 || j >= ny || k < 0 || k >= nz {
		return 0, false
	}
	return (i*ny+j)*nz + k, true
}

func (g *Grid) at(i, j, k int) State {
	idx, ok := g.index(i, j, k)
	if !ok {
		return Empty
	}
	return g.Cells[idx]
}

func (g *Grid) set(i, j, k int, s State) {
	idx, ok := g.index(i, j, k)
	if !ok {
		return
	}
	if g.Cells[idx] == Empty && s != Empty {
		g.volume++
	}
	g.Cells[idx] |= s
}

// cellOf returns the voxel indices containing point p.
func (g *Grid) cellOf(p structure.PointFF) (int, int, int) {
	i, _ := g.AxisX.IndexOf(p.X)
	j, _ := g.AxisY.IndexOf(p.Y)
	k, _ := g.AxisZ.IndexOf(p.Z)
	return i, j, k
}

// NewGrid builds an empty grid sized to the bounding box of atoms plus a
// padding margin (in Angstrom), voxelized at the given cell width.
func NewGrid(cellWidth float64, atoms []structure.PointFF, padding float64) *Grid {
	if len(atoms) == 0 {
		return &Grid{CellWidth: cellWidth}
	}
	minX, maxX := atoms[0].X, atoms[0].X
	minY, maxY := atoms[0].Y, atoms[0].Y
	minZ, maxZ := atoms[0].Z, atoms[0].Z
	for _, a := range atoms[1:] {
		minX, maxX = math.Min(minX, a.X), math.Max(maxX, a.X)
		minY, maxY = math.Min(minY, a.Y), math.Max(maxY, a.Y)
		minZ, maxZ = math.Min(minZ, a.Z), math.Max(maxZ, a.Z)
	}
	mkAxis := func(lo, hi float64) axis.Axis {
		lo -= padding
		hi += padding
		bins := int(math.Ceil((hi - lo) / cellWidth))
		if bins < 1 {
			bins = 1
		}
		return axis.NewLinearAxis(lo, lo+float64(bins)*cellWidth, bins)
	}
	g := &Grid{
		AxisX: mkAxis(minX, maxX), AxisY: mkAxis(minY, maxY), AxisZ: mkAxis(minZ, maxZ),
		CellWidth: cellWidth,
	}
	g.Cells = make([]State, g.AxisX.Bins*g.AxisY.Bins*g.AxisZ.Bins)
	return g
}

// Volume returns the number of occupied (non-Empty) voxels.
func (g *Grid) Volume() int { return g.volume }

// radiusInCells converts a radius in Angstrom to a (rounded) number of
// voxel steps, with a floor of 1.
func (g *Grid) radiusInCells(radius float64) int {
	n := int(math.Round(radius / g.CellWidth))
	if n < 1 {
		n = 1
	}
	return n
}

// AddAtoms marks the voxels within vdwRadius of each atom as AArea/ACenter
// and Volume, and the voxels in the shell out to minExvRadius (when it is
// larger) as Volume only, so they register as occupied for the radial
// probe test.
func (g *Grid) AddAtoms(atoms []structure.PointFF, vdwRadius, minExvRadius float64) {
	nArea := g.radiusInCells(vdwRadius)
	n := g.radiusInCells(math.Max(vdwRadius, minExvRadius))
	for _, a := range atoms {
		ci, cj, ck := g.cellOf(a)
		g.set(ci, cj, ck, ACenter|AArea|Volume)
		forEachInSphere(n, func(di, dj, dk int) {
			if di == 0 && dj == 0 && dk == 0 {
				return
			}
			s := Volume
			if di*di+dj*dj+dk*dk <= nArea*nArea {
				s |= AArea
			}
			g.set(ci+di, cj+dj, ck+dk, s)
		})
	}
}

// AddWaters marks the voxels within hydrationRadius of each water as
// WArea/WCenter.
func (g *Grid) AddWaters(waters []structure.PointFF, hydrationRadius float64) {
	n := g.radiusInCells(hydrationRadius)
	for _, w := range waters {
		ci, cj, ck := g.cellOf(w)
		g.set(ci, cj, ck, WCenter|WArea)
		forEachInSphere(n, func(di, dj, dk int) {
			if di == 0 && dj == 0 && dk == 0 {
				return
			}
			g.set(ci+di, cj+dj, ck+dk, WArea)
		})
	}
}

// forEachInSphere invokes fn for every integer offset within radius n
// voxels (inclusive), using a spherical rather than cubic footprint.
func forEachInSphere(n int, fn func(di, dj, dk int)) {
	n2 := n * n
	for di := -n; di <= n; di++ {
		for dj := -n; dj <= n; dj++ {
			for dk := -n; dk <= n; dk++ {
				if di*di+dj*dj+dk*dk <= n2 {
					fn(di, dj, dk)
				}
			}
		}
	}
}

// Expand grows the occupied-volume counter without changing cell contents,
// used when a caller adds symmetry-mate copies computed outside the grid
// and wants the running volume estimate kept consistent.
func (g *Grid) Expand(delta int) { g.volume += delta }

// Deflate shrinks the occupied-volume counter, the inverse of Expand.
func (g *Grid) Deflate(delta int) {
	g.volume -= delta
	if g.volume < 0 {
		g.volume = 0
	}
}

// ToXYZ returns the real-space coordinate of a voxel's center.
func (g *Grid) ToXYZ(i, j, k int) structure.Vector3 {
	return structure.Vector3{
		X: g.AxisX.BinCenter(i),
		Y: g.AxisY.BinCenter(j),
		Z: g.AxisZ.BinCenter(k),
	}
}
