package scheduler

import (
	"fmt"

	"coursetable/pkg/model"
)

// Verify re-validates a result against a catalog without trusting the
// engine: session coverage, reference integrity, double bookings, capacity,
// room type, qualification and busy slots. It returns one issue per problem
// in assignment order, so a clean result yields an empty slice.
func Verify(catalog *model.Catalog, result *model.Result) []string {
	issues := []string{}
	check := newChecker(catalog)
	state := newReservations()
	seen := map[model.SessionID]bool{}

	for _, assigned := range result.Assignments {
		id := assigned.Session

		if seen[id] {
			issues = append(issues, fmt.Sprintf("session %v is assigned more than once", id))
			continue
		}
		seen[id] = true

		session, found := catalog.Session(id)
		if !found {
			issues = append(issues, fmt.Sprintf("session %v is not derived from the catalog", id))
			continue
		}
		if !catalog.HasSlot(assigned.Assignment.Slot) {
			issues = append(issues, fmt.Sprintf("session %v sits in undeclared slot %v", id, assigned.Assignment.Slot))
			continue
		}
		if _, found := catalog.Room(assigned.Assignment.Room); !found {
			issues = append(issues, fmt.Sprintf("session %v uses unknown room %v", id, assigned.Assignment.Room))
			continue
		}
		if _, found := catalog.InstructorName(assigned.Assignment.Instructor); !found {
			issues = append(issues, fmt.Sprintf("session %v names unknown instructor %v", id, assigned.Assignment.Instructor))
			continue
		}

		if violation := check.check(session, assigned.Assignment, state); violation != nil {
			issues = append(issues, violation.String())
			continue
		}
		state.reserve(id, assigned.Assignment)
	}

	if result.Outcome == model.Committed {
		for _, session := range catalog.Sessions() {
			if !seen[session.ID] {
				issues = append(issues, fmt.Sprintf("session %v is missing from the schedule", session.ID))
			}
		}
	}

	return issues
}
