package export

import (
	"bytes"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"coursetable/pkg/model"
)

const productID = "-//coursetable//schedule//EN"

// Calendar maps slot coordinates onto real clock time for the iCalendar
// export. The zero value places the timetable on the upcoming Monday, with
// one hour slots starting at 08:00 and a single week.
type Calendar struct {
	WeekStart  time.Time     // Monday the reference week begins on
	FirstSlot  time.Duration // clock offset of slot index 0
	SlotLength time.Duration
	Weeks      int // weekly repetitions of the timetable
}

func (calendar Calendar) withDefaults() Calendar {
	if calendar.WeekStart.IsZero() {
		calendar.WeekStart = nextMonday(time.Now().UTC())
	}
	if calendar.FirstSlot <= 0 {
		calendar.FirstSlot = 8 * time.Hour
	}
	if calendar.SlotLength <= 0 {
		calendar.SlotLength = time.Hour
	}
	if calendar.Weeks < 1 {
		calendar.Weeks = 1
	}
	return calendar
}

// start returns the wall clock start of a slot inside the reference week.
func (calendar Calendar) start(slot model.TimeSlot) time.Time {
	day := calendar.WeekStart.AddDate(0, 0, int(slot.Day))
	return day.Add(calendar.FirstSlot + time.Duration(slot.Index)*calendar.SlotLength)
}

// ICS renders the assignments of a result as an iCalendar document, one
// event per session placed on the reference week.
func ICS(catalog *model.Catalog, result *model.Result, calendar Calendar) (*bytes.Buffer, error) {
	entries, err := Entries(catalog, result)
	if err != nil {
		return nil, err
	}
	calendar = calendar.withDefaults()

	document := ics.NewCalendar()
	document.SetMethod(ics.MethodPublish)
	document.SetProductId(productID)

	for _, item := range entries {
		start := calendar.start(item.Slot)

		event := document.AddEvent(fmt.Sprintf("%v-%d@coursetable", item.Session.Kind, item.Session.Course))
		event.SetDtStampTime(calendar.WeekStart)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(calendar.SlotLength))
		event.SetSummary(fmt.Sprintf("%s %v", item.CourseCode, item.Session.Kind))
		event.SetLocation(item.Room)
		event.SetDescription(fmt.Sprintf("%s with %s", item.CourseName, item.Instructor))
		if calendar.Weeks > 1 {
			event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", calendar.Weeks))
		}
	}

	return bytes.NewBufferString(document.Serialize()), nil
}

func nextMonday(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}
