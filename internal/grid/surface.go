package grid

import (
	"math"

	"github.com/sarat-asymmetrica/saxskit/internal/ffdata"
	"github.com/sarat-asymmetrica/saxskit/internal/structure"
)

// SurfaceConfig configures the radial probe surface/interior classification
// and the excluded-volume dummy atom placement it produces.
type SurfaceConfig struct {
	// ProbeWidth is the cell-width-scaled radius of the innermost probe
	// shell (the original's sqrt(grid width) term).
	ProbeWidth float64
	// SurfaceThickness is carried with the rest of the surface settings;
	// DetectSurface does not read it and performs no dilation of the
	// detected surface voxels.
	SurfaceThickness float64
	// Stride subsamples the scan every Stride voxels along each axis,
	// trading resolution for speed on large grids.
	Stride int
}

// ExvAtomSet is the output of surface detection: excluded-volume dummy
// atoms split into interior and surface populations, so a caller can
// (optionally) weight them differently in the composite histogram's P_xx/P_ax.
type ExvAtomSet struct {
	Interior []structure.PointFF
	Surface  []structure.PointFF
}

// probeDirections returns n unit directions sampled on a sphere via the
// golden-angle (Fibonacci sphere) construction, a cheap deterministic way
// to get a roughly even angular sampling without a lookup table.
func probeDirections(n int) []structure.Vector3 {
	dirs := make([]structure.Vector3, n)
	goldenAngle := math.Pi * (3 - math.Sqrt(5))
	for i := 0; i < n; i++ {
		y := 1 - (float64(i)/float64(n-1))*2
		if n == 1 {
			y = 0
		}
		r := math.Sqrt(math.Max(0, 1-y*y))
		theta := goldenAngle * float64(i)
		dirs[i] = structure.Vector3{X: math.Cos(theta) * r, Y: y, Z: math.Sin(theta) * r}
	}
	return dirs
}

// collisionCheck implements the radial probe test: for each of a fixed set
// of sampling directions, step outward at three increasing radii and
// accumulate a penalty score the way the original's collision_check does -
// an atom found at the innermost radius costs nothing (the direction is
// blocked, i.e. interior-looking), while empty space found only at
// increasingly distant radii costs more (the direction looks increasingly
// like open solvent). A voxel is classified as surface once its total
// score crosses the threshold.
func (g *Grid) collisionCheck(i, j, k int, cfg SurfaceConfig) bool {
	const numDirections = 26
	dirs := probeDirections(numDirections)
	r1 := g.radiusInCells(math.Max(cfg.ProbeWidth, 1e-3))
	r2 := g.radiusInCells(2 * cfg.ProbeWidth)
	r3 := g.radiusInCells(3 * cfg.ProbeWidth)

	score := 0
	const outOfBoundsPenalty = 7
	const threshold = 42 * numDirections / 26 // scaled the way the original's fixed-direction-count threshold is

	for _, d := range dirs {
		p1i, p1j, p1k := i+int(math.Round(d.X*float64(r1))), j+int(math.Round(d.Y*float64(r1))), k+int(math.Round(d.Z*float64(r1)))
		if !g.inBounds(p1i, p1j, p1k) {
			score += outOfBoundsPenalty
			continue
		}
		if g.at(p1i, p1j, p1k).IsEmptyOrWater() {
			p2i, p2j, p2k := i+int(math.Round(d.X*float64(r2))), j+int(math.Round(d.Y*float64(r2))), k+int(math.Round(d.Z*float64(r2)))
			if !g.inBounds(p2i, p2j, p2k) {
				score += outOfBoundsPenalty
				continue
			}
			if !g.at(p2i, p2j, p2k).IsEmptyOrWater() {
				score += 3
				continue
			}
			p3i, p3j, p3k := i+int(math.Round(d.X*float64(r3))), j+int(math.Round(d.Y*float64(r3))), k+int(math.Round(d.Z*float64(r3)))
			if !g.inBounds(p3i, p3j, p3k) {
				score += outOfBoundsPenalty
				continue
			}
			if !g.at(p3i, p3j, p3k).IsEmptyOrWater() {
				score += 5
				continue
			}
			score += outOfBoundsPenalty
		}
	}
	return score < threshold
}

func (g *Grid) inBounds(i, j, k int) bool {
	nx, ny, nz := g.dims()
	return i >= 0 && i < nx && j >= 0 && j < ny && k >= 0 && k < nz
}

// DetectSurface scans every occupied voxel and classifies it as interior or
// surface via the radial probe test, returning the excluded-volume dummy
// atoms (one per qualifying voxel, weighted to match a single solvent
// electron's worth of displaced volume - the caller's displaced-volume
// model rescales W as needed).
func (g *Grid) DetectSurface(cfg SurfaceConfig) ExvAtomSet {
	stride := cfg.Stride
	if stride < 1 {
		stride = 1
	}
	nx, ny, nz := g.dims()
	var out ExvAtomSet
	for i := 0; i < nx; i += stride {
		for j := 0; j < ny; j += stride {
			for k := 0; k < nz; k += stride {
				s := g.at(i, j, k)
				if s&(Volume|AArea|ACenter) == 0 {
					continue
				}
				pos := g.ToXYZ(i, j, k)
				point := structure.PointFF{X: pos.X, Y: pos.Y, Z: pos.Z, W: 1, Type: ffdata.EXV}
				if g.collisionCheck(i, j, k, cfg) {
					out.Interior = append(out.Interior, point)
				} else {
					out.Surface = append(out.Surface, point)
				}
			}
		}
	}
	return out
}

// DetectVacuum scans along the Z axis of every (X,Y) column and relabels
// runs of connected Empty voxels that are fully bracketed above and below
// by occupied voxels (and never touch a WArea voxel, which would mean the
// "gap" is actually bulk solvent reachable from outside) as Vacuum,
// returning their coordinates.
func (g *Grid) DetectVacuum(emptyLimit int) []structure.PointFF {
	nx, ny, nz := g.dims()
	var holes []structure.PointFF
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			k := 0
			for k < nz && g.at(i, j, k).IsEmptyOrWater() {
				k++
			}
			for k < nz {
				for k < nz && !g.at(i, j, k).IsEmptyOrWater() {
					k++
				}
				start := k
				touchesWater := false
				for k < nz && g.at(i, j, k).IsEmptyOrWater() {
					if g.at(i, j, k)&WArea != 0 {
						touchesWater = true
					}
					k++
				}
				run := k - start
				if touchesWater || run == 0 || run > emptyLimit || k == nz {
					continue
				}
				for l := start; l < k; l++ {
					g.set(i, j, l, Vacuum)
					pos := g.ToXYZ(i, j, l)
					holes = append(holes, structure.PointFF{X: pos.X, Y: pos.Y, Z: pos.Z})
				}
			}
		}
	}
	return holes
}
