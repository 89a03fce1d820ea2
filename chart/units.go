package chart

import (
	"strconv"
	"strings"
)

// This file defines unit-safe lengths used by figure sizes, font sizes and strokes.

// Unit represents the original unit of a length value as written by the author.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, treated as points
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt, mm and in.
const (
	PtToMm = 25.4 / 72
	MmToPt = 72 / 25.4
	InToMm = 25.4
)

// String returns a short suffix for a Unit value.
func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Pt and In build lengths in the two units figures are usually described in.
func Pt(v float64) Length { return Length{Value: v, Unit: UnitPT} }
func In(v float64) Length { return Length{Value: v, Unit: UnitIN} }

func (l Length) IsZero() bool { return l.Value == 0 }

// MM converts the length to millimeters. Unit-less values are points.
func (l Length) MM() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * InToMm
	default:
		return l.Value * PtToMm
	}
}

// PT converts the length to points.
func (l Length) PT() float64 {
	if l.Unit == UnitPT || l.Unit == UnitNone {
		return l.Value
	}
	return l.MM() * MmToPt
}

// Inches converts the length to inches.
func (l Length) Inches() float64 {
	if l.Unit == UnitIN {
		return l.Value
	}
	return l.MM() / InToMm
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

// ParseLength parses "8in", "12pt", "3.5mm" or a bare number (points).
func ParseLength(value string) (Length, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, false
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}
