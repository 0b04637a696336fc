// Package units converts legacy symbol library units and codes into their
// KiCad 6 symbol library equivalents.
//
// Legacy libraries store every coordinate and size as an integer number of
// mils. The new format stores millimetres, so the whole numeric bridge is a
// single scale factor applied once per value at emission time.
package units

import (
	"strconv"
	"strings"
)

// MilsToMM converts mils to millimetres (multiply by this).
const MilsToMM = 0.0254

// tenthMicronsPerMil is MilsToMM expressed in units of 0.1 µm, which keeps
// formatted output exact.
const tenthMicronsPerMil = 254

// ToMM converts a legacy mil value to millimetres.
func ToMM(mils int) float64 {
	return float64(mils) * MilsToMM
}

// FormatMM renders mils as a millimetre decimal string.
// The result is exact (mils * 0.0254 never needs more than four decimals),
// with trailing zeros trimmed: 100 -> "2.54", 10 -> "0.254", 0 -> "0".
func FormatMM(mils int) string {
	v := int64(mils) * tenthMicronsPerMil
	neg := v < 0
	if neg {
		v = -v
	}

	whole := v / 10000
	frac := v % 10000

	var b strings.Builder
	if neg && v != 0 {
		b.WriteByte('-')
	}
	b.WriteString(strconv.FormatInt(whole, 10))
	if frac != 0 {
		digits := strconv.FormatInt(frac+10000, 10)[1:] // zero-padded to 4
		b.WriteByte('.')
		b.WriteString(strings.TrimRight(digits, "0"))
	}
	return b.String()
}

// Angle maps a legacy orientation letter to degrees.
// Unknown letters fall back to 90 (up).
func Angle(orientation byte) int {
	switch orientation {
	case 'R':
		return 0
	case 'U':
		return 90
	case 'L':
		return 180
	case 'D':
		return 270
	default:
		return 90
	}
}

// Fill keywords
const (
	FillNone       = "none"
	FillBackground = "background"
)

// FillKeyword maps a legacy fill code to a fill type keyword.
// Both the filled (F) and background (f) codes render as background fill.
func FillKeyword(code byte) string {
	switch code {
	case 'F', 'f':
		return FillBackground
	default:
		return FillNone
	}
}

// Justify maps a legacy justification letter to its keyword.
// Center (and anything unrecognised) returns "" since it is the implicit default.
func Justify(code byte) string {
	switch code {
	case 'L':
		return "left"
	case 'R':
		return "right"
	case 'T':
		return "top"
	case 'B':
		return "bottom"
	default:
		return ""
	}
}

// Bool reports whether a legacy flag character means yes.
func Bool(c byte) bool {
	return c == 'Y'
}
