// Package model defines the core domain entities for the allocation service.
package model

// Size is one of the garment sizes a purchase order line can carry.
//
// @Description Garment size identifier
type Size string

// Canonical sizes in display order. XXS is optional per product and only
// participates when the product was bought or shipped in that size.
const (
	SizeXXS Size = "XXS"
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
)

// Sizes lists every size in canonical order.
var Sizes = []Size{SizeXXS, SizeXS, SizeS, SizeM, SizeL, SizeXL}

// ValidSize reports whether s is one of the canonical sizes.
func ValidSize(s Size) bool {
	switch s {
	case SizeXXS, SizeXS, SizeS, SizeM, SizeL, SizeXL:
		return true
	}
	return false
}

// SizeVector maps sizes to non-negative unit quantities.
// Absent keys mean zero.
//
// @Description Per-size unit quantities
// @Example {"XS": 30, "S": 30, "M": 20, "L": 10, "XL": 10}
type SizeVector map[Size]int

// Get returns the quantity for s, treating absent keys as zero.
func (v SizeVector) Get(s Size) int {
	if v == nil {
		return 0
	}
	return v[s]
}

// Set stores a quantity for s, clamping negative values at zero.
// Zero values are stored explicitly so serialized vectors keep their shape.
func (v SizeVector) Set(s Size, qty int) {
	if qty < 0 {
		qty = 0
	}
	v[s] = qty
}

// Add increases the quantity for s by delta, clamping the result at zero.
func (v SizeVector) Add(s Size, delta int) {
	v.Set(s, v.Get(s)+delta)
}

// Total returns the sum of all quantities in the vector.
func (v SizeVector) Total() int {
	total := 0
	for _, qty := range v {
		total += qty
	}
	return total
}

// Clone returns an independent copy of the vector.
// A nil vector clones to an empty, usable vector.
func (v SizeVector) Clone() SizeVector {
	out := make(SizeVector, len(v))
	for s, qty := range v {
		out[s] = qty
	}
	return out
}

// IsZero reports whether every quantity in the vector is zero.
func (v SizeVector) IsZero() bool {
	for _, qty := range v {
		if qty != 0 {
			return false
		}
	}
	return true
}

// MinWith returns a new vector holding, per size, the smaller of the two
// quantities. Sizes absent from either vector count as zero.
func (v SizeVector) MinWith(other SizeVector) SizeVector {
	out := make(SizeVector)
	for _, s := range Sizes {
		a, b := v.Get(s), other.Get(s)
		if b < a {
			a = b
		}
		if a > 0 {
			out[s] = a
		}
	}
	return out
}

// SurplusOver returns, per size, how much v exceeds other, clamped at zero.
func (v SizeVector) SurplusOver(other SizeVector) SizeVector {
	out := make(SizeVector)
	for _, s := range Sizes {
		if d := v.Get(s) - other.Get(s); d > 0 {
			out[s] = d
		}
	}
	return out
}

// EqualPerSize reports whether both vectors hold the same quantity for every
// canonical size, treating absent keys as zero.
func (v SizeVector) EqualPerSize(other SizeVector) bool {
	for _, s := range Sizes {
		if v.Get(s) != other.Get(s) {
			return false
		}
	}
	return true
}

// DiffPerSize returns other subtracted from v per size. Unlike the clamped
// arithmetic used during allocation, the diff keeps negative entries so
// callers can show both shortfalls and overscans.
func (v SizeVector) DiffPerSize(other SizeVector) map[Size]int {
	out := make(map[Size]int)
	for _, s := range Sizes {
		if d := v.Get(s) - other.Get(s); d != 0 {
			out[s] = d
		}
	}
	return out
}

// Sanitize returns a copy of the vector containing only canonical sizes with
// positive quantities. Negative quantities are dropped.
func (v SizeVector) Sanitize() SizeVector {
	out := make(SizeVector)
	for s, qty := range v {
		if ValidSize(s) && qty > 0 {
			out[s] = qty
		}
	}
	return out
}
