// Package export renders schedule results as calendar and spreadsheet
// documents. Both exporters work purely in memory and leave it to the
// caller to decide where the bytes go.
package export

import (
	"cmp"
	"fmt"
	"slices"

	"coursetable/pkg/model"
)

// Entry is one assignment with every catalog reference resolved to its
// display form.
type Entry struct {
	Session    model.SessionID
	Slot       model.TimeSlot
	CourseCode string
	CourseName string
	Room       string
	Instructor string
}

// Entries flattens a result against the catalog, sorted by slot and course
// so exports come out in reading order.
func Entries(catalog *model.Catalog, result *model.Result) ([]Entry, error) {
	entries := make([]Entry, 0, len(result.Assignments))
	for _, assigned := range result.Assignments {
		course, found := catalog.Course(assigned.Session.Course)
		if !found {
			return nil, fmt.Errorf("unknown course %d in result", assigned.Session.Course)
		}
		room, found := catalog.Room(assigned.Assignment.Room)
		if !found {
			return nil, fmt.Errorf("unknown room %v in result", assigned.Assignment.Room)
		}
		instructor, found := catalog.InstructorName(assigned.Assignment.Instructor)
		if !found {
			return nil, fmt.Errorf("unknown instructor %v in result", assigned.Assignment.Instructor)
		}

		entries = append(entries, Entry{
			Session:    assigned.Session,
			Slot:       assigned.Assignment.Slot,
			CourseCode: course.Code,
			CourseName: course.Name,
			Room:       room.Code,
			Instructor: instructor,
		})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if result := a.Slot.Compare(b.Slot); result != 0 {
			return result
		}
		if result := cmp.Compare(a.CourseCode, b.CourseCode); result != 0 {
			return result
		}
		return cmp.Compare(a.Session.Kind, b.Session.Kind)
	})
	return entries, nil
}
