// Package structure holds the atom- and body-level data model the
// intensity engine operates on: weighted scattering points, rigid bodies
// that group them, and the molecule-level container that groups the bodies.
//
// BIOCHEMIST: a "point" here is whatever the caller chose to reduce an atom
// to - a single heavy atom with implicit hydrogens folded into its weight,
// a water oxygen, or an excluded-volume dummy atom.
package structure

import "github.com/sarat-asymmetrica/saxskit/internal/ffdata"

// PointFF is a single weighted scattering point: a 3D position, a weight
// (occupancy times implicit-hydrogen-adjusted electron count), and the
// form factor type it scatters as.
type PointFF struct {
	X, Y, Z float64
	W       float64
	Type    ffdata.FFType
}

// Position returns the point's coordinate as a Vector3.
func (p PointFF) Position() Vector3 {
	return Vector3{X: p.X, Y: p.Y, Z: p.Z}
}

// CompactCoordinates is the struct-of-arrays layout the histogram builders
// iterate over, avoiding per-point pointer chasing in the hot inner loop.
type CompactCoordinates struct {
	X, Y, Z, W []float64
	Type       []ffdata.FFType
}

// NewCompactCoordinates flattens a slice of PointFF into SoA buffers.
func NewCompactCoordinates(points []PointFF) CompactCoordinates {
	n := len(points)
	cc := CompactCoordinates{
		X: make([]float64, n), Y: make([]float64, n), Z: make([]float64, n),
		W: make([]float64, n), Type: make([]ffdata.FFType, n),
	}
	for i, p := range points {
		cc.X[i], cc.Y[i], cc.Z[i], cc.W[i], cc.Type[i] = p.X, p.Y, p.Z, p.W, p.Type
	}
	return cc
}

// Len returns the number of points.
func (cc CompactCoordinates) Len() int { return len(cc.X) }

// At reconstructs the i-th point as a PointFF.
func (cc CompactCoordinates) At(i int) PointFF {
	return PointFF{X: cc.X[i], Y: cc.Y[i], Z: cc.Z[i], W: cc.W[i], Type: cc.Type[i]}
}
