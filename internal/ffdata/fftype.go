// Package ffdata holds the read-only, process-lifetime tables the intensity
// engine is built on: the form-factor type enumeration, per-element
// constants, the five-Gaussian form-factor coefficients, and the
// displaced-volume tables used by the excluded-volume model.
//
// PHYSICIST: every table here is immutable after process start; nothing in
// this package allocates per-atom or per-query.
// MATHEMATICIAN: FFType is used as a direct array index, not a map key -
// keep it a small dense enum.
package ffdata

import "fmt"

// FFType is the closed enumeration of scattering categories an atom or
// pseudo-atom can be classified into.
type FFType int

const (
	H FFType = iota
	C
	CH
	CH2
	CH3
	N
	NH
	NH2
	NH3
	O
	OH
	S
	SH
	OTHER
	EXV
	COUNT
	UNKNOWN
)

// String names a form factor type the way the original AUSAXS table does.
func (t FFType) String() string {
	switch t {
	case H:
		return "H"
	case C:
		return "C"
	case CH:
		return "CH"
	case CH2:
		return "CH2"
	case CH3:
		return "CH3"
	case N:
		return "N"
	case NH:
		return "NH"
	case NH2:
		return "NH2"
	case NH3:
		return "NH3"
	case O:
		return "O"
	case OH:
		return "OH"
	case S:
		return "S"
	case SH:
		return "SH"
	case OTHER:
		return "OTH"
	case EXV:
		return "EXV"
	case COUNT:
		return "CNT"
	case UNKNOWN:
		return "UNK"
	default:
		return fmt.Sprintf("FFType(%d)", int(t))
	}
}

// Count returns the number of real form factor types, including EXV.
func Count() int { return int(COUNT) }

// CountWithoutEXV returns the number of form factor types excluding EXV,
// useful for iterating only atomic/water types.
func CountWithoutEXV() int { return int(COUNT) - 1 }
