package model

import (
	"time"

	"roomly/pkg/bitmask"
)

// WeeklyMask holds one 24-bit unavailability mask per weekday. A nil entry
// means "not configured" (the day is fully open), which is distinct from an
// explicit 0 mask. Bit h set means hour h is structurally closed.
type WeeklyMask struct {
	Monday    *uint32 `json:"monday,omitempty" bson:"monday,omitempty" validate:"omitempty,lte=16777215"`
	Tuesday   *uint32 `json:"tuesday,omitempty" bson:"tuesday,omitempty" validate:"omitempty,lte=16777215"`
	Wednesday *uint32 `json:"wednesday,omitempty" bson:"wednesday,omitempty" validate:"omitempty,lte=16777215"`
	Thursday  *uint32 `json:"thursday,omitempty" bson:"thursday,omitempty" validate:"omitempty,lte=16777215"`
	Friday    *uint32 `json:"friday,omitempty" bson:"friday,omitempty" validate:"omitempty,lte=16777215"`
	Saturday  *uint32 `json:"saturday,omitempty" bson:"saturday,omitempty" validate:"omitempty,lte=16777215"`
	Sunday    *uint32 `json:"sunday,omitempty" bson:"sunday,omitempty" validate:"omitempty,lte=16777215"`
}

// ClosedMask returns the configured mask for the weekday, or 0 when unset.
func (m *WeeklyMask) ClosedMask(day time.Weekday) uint32 {
	if m == nil {
		return 0
	}
	var v *uint32
	switch day {
	case time.Monday:
		v = m.Monday
	case time.Tuesday:
		v = m.Tuesday
	case time.Wednesday:
		v = m.Wednesday
	case time.Thursday:
		v = m.Thursday
	case time.Friday:
		v = m.Friday
	case time.Saturday:
		v = m.Saturday
	case time.Sunday:
		v = m.Sunday
	}
	if v == nil {
		return 0
	}
	return *v & bitmask.FullDay
}

// WeeklyHours is the wire form of a WeeklyMask: one optional list of closed
// hours per weekday. A nil list leaves the day unconfigured.
type WeeklyHours struct {
	Monday    *[]int `json:"monday_unavailable,omitempty" validate:"omitempty,dive,min=0,max=23"`
	Tuesday   *[]int `json:"tuesday_unavailable,omitempty" validate:"omitempty,dive,min=0,max=23"`
	Wednesday *[]int `json:"wednesday_unavailable,omitempty" validate:"omitempty,dive,min=0,max=23"`
	Thursday  *[]int `json:"thursday_unavailable,omitempty" validate:"omitempty,dive,min=0,max=23"`
	Friday    *[]int `json:"friday_unavailable,omitempty" validate:"omitempty,dive,min=0,max=23"`
	Saturday  *[]int `json:"saturday_unavailable,omitempty" validate:"omitempty,dive,min=0,max=23"`
	Sunday    *[]int `json:"sunday_unavailable,omitempty" validate:"omitempty,dive,min=0,max=23"`
}

// ToMask converts per-day hour lists into a WeeklyMask.
func (h *WeeklyHours) ToMask() (WeeklyMask, error) {
	var m WeeklyMask
	convert := func(hours *[]int, dst **uint32) error {
		if hours == nil {
			return nil
		}
		mask, err := bitmask.HoursToMask(*hours)
		if err != nil {
			return err
		}
		*dst = &mask
		return nil
	}

	for _, c := range []struct {
		src *[]int
		dst **uint32
	}{
		{h.Monday, &m.Monday},
		{h.Tuesday, &m.Tuesday},
		{h.Wednesday, &m.Wednesday},
		{h.Thursday, &m.Thursday},
		{h.Friday, &m.Friday},
		{h.Saturday, &m.Saturday},
		{h.Sunday, &m.Sunday},
	} {
		if err := convert(c.src, c.dst); err != nil {
			return WeeklyMask{}, err
		}
	}
	return m, nil
}

// FromMask converts a WeeklyMask back into per-day hour lists, preserving
// the unset/empty distinction.
func FromMask(m WeeklyMask) WeeklyHours {
	convert := func(mask *uint32) *[]int {
		if mask == nil {
			return nil
		}
		hours := bitmask.MaskToHours(*mask)
		return &hours
	}
	return WeeklyHours{
		Monday:    convert(m.Monday),
		Tuesday:   convert(m.Tuesday),
		Wednesday: convert(m.Wednesday),
		Thursday:  convert(m.Thursday),
		Friday:    convert(m.Friday),
		Saturday:  convert(m.Saturday),
		Sunday:    convert(m.Sunday),
	}
}
