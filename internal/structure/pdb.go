package structure

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarat-asymmetrica/saxskit/internal/ffdata"
)

// implicitHydrogens gives the number of hydrogens folded into a
// backbone/sidechain heavy atom's weight, keyed by residue then by atom
// name. ReadPDB always applies it; no setting turns promotion off.
// Unlisted atoms get zero.
//
// BIOCHEMIST: this is a small, deliberately incomplete table covering the
// backbone and the common sidechain carbons; residues needing finer
// coverage should be added here rather than generalized away.
var implicitHydrogens = map[string]map[string]int{
	"*": {"CA": 1, "CB": 2, "N": 1}, // wildcard backbone/common entries
	"ALA": {"CB": 3},
	"VAL": {"CB": 1, "CG1": 3, "CG2": 3},
	"LEU": {"CB": 2, "CG": 1, "CD1": 3, "CD2": 3},
	"ILE": {"CB": 1, "CG1": 2, "CG2": 3, "CD1": 3},
	"SER": {"CB": 2, "OG": 1},
	"THR": {"CB": 1, "CG2": 3, "OG1": 1},
	"CYS": {"CB": 2, "SG": 1},
	"MET": {"CB": 2, "CG": 2, "CE": 3},
	"LYS": {"CB": 2, "CG": 2, "CD": 2, "CE": 2, "NZ": 3},
}

// isWaterResidue reports whether a PDB residue name denotes a water.
func isWaterResidue(resName string) bool {
	r := strings.TrimSpace(resName)
	return r == "HOH" || r == "WAT" || r == "DOD"
}

func promote(element string, resName, atomName string) (ffdata.FFType, float64) {
	base := ffdata.ParseElement(element)
	h := 0
	if table, ok := implicitHydrogens[resName]; ok {
		h = table[atomName]
	}
	if h == 0 {
		if table, ok := implicitHydrogens["*"]; ok {
			h = table[atomName]
		}
	}
	switch base {
	case ffdata.ElementC:
		switch h {
		case 1:
			return ffdata.CH, 7
		case 2:
			return ffdata.CH2, 8
		case 3:
			return ffdata.CH3, 9
		default:
			return ffdata.C, 6
		}
	case ffdata.ElementN:
		switch h {
		case 1:
			return ffdata.NH, 8
		case 2:
			return ffdata.NH2, 9
		case 3:
			return ffdata.NH3, 10
		default:
			return ffdata.N, 7
		}
	case ffdata.ElementO:
		if h == 1 {
			return ffdata.OH, 9
		}
		return ffdata.O, 8
	case ffdata.ElementS:
		if h == 1 {
			return ffdata.SH, 17
		}
		return ffdata.S, 16
	case ffdata.ElementH:
		return ffdata.H, 1
	default:
		return ffdata.OTHER, 6
	}
}

// ReadPDB parses fixed-column ATOM/HETATM records into weighted scattering
// points, tagging water residues separately from protein atoms. Implicit
// hydrogens are folded into the heavy atom's weight and form factor type
// via a small residue lookup table; atoms not covered by the table are left
// as their bare element type.
func ReadPDB(r io.Reader) (atoms, waters []PointFF, err error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if len(line) < 6 {
			continue
		}
		record := strings.TrimRight(line[:6], " ")
		if record != "ATOM" && record != "HETATM" {
			if record == "END" || record == "ENDMDL" {
				break
			}
			continue
		}
		if len(line) < 54 {
			continue
		}
		for len(line) < 80 {
			line += " "
		}

		name := strings.TrimSpace(line[12:16])
		resName := strings.TrimSpace(line[17:20])
		element := strings.TrimSpace(line[76:78])
		if element == "" {
			element = strings.TrimSpace(strings.TrimLeft(name, "0123456789"))[:1]
		}

		x, errX := strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
		z, errZ := strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
		if errX != nil || errY != nil || errZ != nil {
			return nil, nil, fmt.Errorf("structure: malformed coordinates at line %d: %w", lineNo, errOf(errX, errY, errZ))
		}

		occupancy := 1.0
		if len(line) >= 60 {
			if occ, err := strconv.ParseFloat(strings.TrimSpace(line[54:60]), 64); err == nil && occ > 0 {
				occupancy = occ
			}
		}

		if isWaterResidue(resName) {
			waters = append(waters, PointFF{X: x, Y: y, Z: z, W: occupancy * 8, Type: ffdata.O})
			continue
		}

		ft, weight := promote(element, resName, name)
		atoms = append(atoms, PointFF{X: x, Y: y, Z: z, W: occupancy * weight, Type: ft})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("structure: error reading PDB stream: %w", err)
	}
	if len(atoms) == 0 {
		return nil, nil, fmt.Errorf("structure: no ATOM/HETATM records found")
	}
	return atoms, waters, nil
}

func errOf(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}
