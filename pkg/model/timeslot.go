package model

import (
	"cmp"
	"fmt"
	"strings"
)

type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

func (day Weekday) String() string {
	name, ok := weekdayNames[day]
	if !ok {
		return fmt.Sprintf("weekday(%d)", int(day))
	}
	return name
}

func (day Weekday) Valid() bool {
	_, ok := weekdayNames[day]
	return ok
}

func ParseWeekday(value string) (Weekday, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for day, name := range weekdayNames {
		if strings.ToLower(name) == normalized {
			return day, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", value)
}

// TimeSlot is one schedulable period. Identity is the (Day, Index) pair
// itself, so the value is comparable and usable as a map key. Busyness is
// never a property of the slot: it is always relative to a resource and
// lives in the engine's reservation state.
type TimeSlot struct {
	Day   Weekday
	Index int
}

func (slot TimeSlot) String() string {
	return fmt.Sprintf("%v/%d", slot.Day, slot.Index)
}

func (slot TimeSlot) Compare(other TimeSlot) int {
	if result := cmp.Compare(slot.Day, other.Day); result != 0 {
		return result
	}
	return cmp.Compare(slot.Index, other.Index)
}
