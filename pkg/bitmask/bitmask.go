// Package bitmask converts between explicit hour lists and the 24-bit
// occupancy masks stored on rooms, closures and reservations. Bit h set
// means hour h (UTC) is occupied or unavailable.
package bitmask

import (
	"errors"
	"fmt"
	"math/bits"
)

const (
	// HoursPerDay is the number of addressable bits in a day mask.
	HoursPerDay = 24

	// FullDay has every hour bit set.
	FullDay uint32 = (1 << HoursPerDay) - 1
)

var ErrInvalidRange = errors.New("hour out of range")

// HoursToMask folds a set of hours into a mask. The empty set maps to 0.
func HoursToMask(hours []int) (uint32, error) {
	var mask uint32
	for _, h := range hours {
		if h < 0 || h >= HoursPerDay {
			return 0, fmt.Errorf("%w: hour %d", ErrInvalidRange, h)
		}
		mask |= 1 << h
	}
	return mask, nil
}

// MaskToHours expands a mask into its set hours in ascending order.
// The zero mask maps to an empty, non-nil slice.
func MaskToHours(mask uint32) []int {
	hours := make([]int, 0, bits.OnesCount32(mask&FullDay))
	for h := 0; h < HoursPerDay; h++ {
		if mask&(1<<h) != 0 {
			hours = append(hours, h)
		}
	}
	return hours
}

// RangeToMask builds the mask of the inclusive hour range [start, end].
func RangeToMask(start, end int) (uint32, error) {
	if start < 0 || end >= HoursPerDay || start > end {
		return 0, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, start, end)
	}
	var mask uint32
	for h := start; h <= end; h++ {
		mask |= 1 << h
	}
	return mask, nil
}

// HourSpan returns the lowest and highest set hours of a mask.
// ok is false for the zero mask.
func HourSpan(mask uint32) (start, end int, ok bool) {
	mask &= FullDay
	if mask == 0 {
		return 0, 0, false
	}
	return bits.TrailingZeros32(mask), 31 - bits.LeadingZeros32(mask), true
}
