package clinic

import (
	"fmt"
	"slices"
)

// Period narrows availability to a part of the working day.
type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	PeriodEvening   Period = "evening"
	PeriodAny       Period = "any"
)

// ParsePeriod validates a period string; empty defaults to any.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodMorning, PeriodAfternoon, PeriodEvening, PeriodAny:
		return Period(s), nil
	case "":
		return PeriodAny, nil
	default:
		return "", fmt.Errorf("unknown time preference: %q", s)
	}
}

// Working-hours grid in 30 minute steps. Lunch break between morning and
// afternoon is not bookable.
var (
	morningSlots   = []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}
	afternoonSlots = []string{"14:00", "14:30", "15:00", "15:30", "16:00", "16:30"}
	eveningSlots   = []string{"17:00", "17:30", "18:00", "18:30", "19:00", "19:30"}
)

// Slots returns the bookable times for a period, in chronological order.
// The returned slice is a copy.
func Slots(p Period) []string {
	switch p {
	case PeriodMorning:
		return slices.Clone(morningSlots)
	case PeriodAfternoon:
		return slices.Clone(afternoonSlots)
	case PeriodEvening:
		return slices.Clone(eveningSlots)
	default:
		out := make([]string, 0, len(morningSlots)+len(afternoonSlots)+len(eveningSlots))
		out = append(out, morningSlots...)
		out = append(out, afternoonSlots...)
		out = append(out, eveningSlots...)
		return out
	}
}

// ValidSlot reports whether t (HH:MM) is on the working-hours grid.
func ValidSlot(t string) bool {
	return slices.Contains(Slots(PeriodAny), t)
}

// AvailableSlots returns the period's slots minus the booked ones,
// preserving grid order.
func AvailableSlots(p Period, booked []string) []string {
	all := Slots(p)
	if len(booked) == 0 {
		return all
	}
	out := all[:0]
	for _, s := range all {
		if !slices.Contains(booked, s) {
			out = append(out, s)
		}
	}
	return out
}
