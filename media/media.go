// Package media resolves PWG 5101.1 self-describing media size names.
//
// A self-describing name has the form "class_sizename_WxHunit", for example
// "na_letter_8.5x11in" or "iso_a4_210x297mm". The trailing dimension part is
// authoritative; dimensions are expressed in hundredths of millimetres
// throughout vprinter, matching IPP media-size semantics.
package media

import (
	"math"
	"strconv"
	"strings"
)

// Common size names used for seeding and defaults
const (
	Letter   = "na_letter_8.5x11in"
	Legal    = "na_legal_8.5x14in"
	A4       = "iso_a4_210x297mm"
	A5       = "iso_a5_148x210mm"
	Photo4x6 = "na_index-4x6_4x6in"
)

// Size is a resolved media size with dimensions in hundredths of millimetres
type Size struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Length int    `json:"length"`
}

// Parse resolves a self-describing PWG media size name. The second return
// value is false when the name does not follow the PWG grammar.
func Parse(name string) (Size, bool) {
	parts := strings.Split(name, "_")
	if len(parts) < 3 {
		return Size{}, false
	}

	dims := parts[len(parts)-1]

	var scale float64
	switch {
	case strings.HasSuffix(dims, "in"):
		scale = 2540
		dims = strings.TrimSuffix(dims, "in")
	case strings.HasSuffix(dims, "mm"):
		scale = 100
		dims = strings.TrimSuffix(dims, "mm")
	default:
		return Size{}, false
	}

	wh := strings.Split(dims, "x")
	if len(wh) != 2 {
		return Size{}, false
	}

	w, err := strconv.ParseFloat(wh[0], 64)
	if err != nil || w < 0 {
		return Size{}, false
	}
	l, err := strconv.ParseFloat(wh[1], 64)
	if err != nil || l < 0 {
		return Size{}, false
	}

	// A zero dimension is only meaningful for roll media, where the length
	// is variable.
	if w == 0 || (l == 0 && !IsRoll(name)) {
		return Size{}, false
	}

	return Size{
		Name:   name,
		Width:  int(math.Round(w * scale)),
		Length: int(math.Round(l * scale)),
	}, true
}

// IsMin reports whether name is the lower bound of a continuous size range
// ("custom_min_*" or "roll_min_*")
func IsMin(name string) bool {
	return strings.HasPrefix(name, "custom_min_") || strings.HasPrefix(name, "roll_min_")
}

// IsMax reports whether name is the upper bound of a continuous size range
// ("custom_max_*" or "roll_max_*")
func IsMax(name string) bool {
	return strings.HasPrefix(name, "custom_max_") || strings.HasPrefix(name, "roll_max_")
}

// IsRange reports whether name is either bound of a continuous size range
func IsRange(name string) bool {
	return IsMin(name) || IsMax(name)
}

// IsRoll reports whether name describes roll media
func IsRoll(name string) bool {
	return strings.HasPrefix(name, "roll_")
}
