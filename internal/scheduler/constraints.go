package scheduler

import (
	"fmt"
	"slices"

	"coursetable/pkg/model"
)

// checker evaluates hard constraints for candidate assignments. Static checks
// depend only on the catalog; dynamic checks also read the reservations of the
// current branch. Both are pure: no check mutates state.
type checker struct {
	catalog *model.Catalog
}

func newChecker(catalog *model.Catalog) checker {
	return checker{catalog: catalog}
}

// checkStatic evaluates the constraints that no other session can influence:
// instructor role and qualification, room capacity and room type. A nil
// violation means the candidate survives.
func (check checker) checkStatic(session model.Session, candidate model.Assignment) *model.Violation {
	if violation := check.checkQualification(session, candidate.Instructor); violation != nil {
		return violation
	}

	room, found := check.catalog.Room(candidate.Room)
	if !found {
		panic(fmt.Sprintf("candidate for %v references unknown room %v", session.ID, candidate.Room))
	}

	if room.Capacity < session.Enrollment {
		return &model.Violation{
			Kind:    model.CapacityMismatch,
			Session: session.ID,
			Detail:  fmt.Sprintf("room %v seats %d of %d students", room.Code, room.Capacity, session.Enrollment),
		}
	}

	if !slices.Contains(session.RoomTypes, room.Type) {
		return &model.Violation{
			Kind:    model.TypeMismatch,
			Session: session.ID,
			Detail:  fmt.Sprintf("room %v is a %v", room.Code, room.Type),
		}
	}

	return nil
}

func (check checker) checkQualification(session model.Session, instructor model.InstructorRef) *model.Violation {
	if instructor.Role != session.ID.Role() {
		return &model.Violation{
			Kind:    model.QualificationMismatch,
			Session: session.ID,
			Detail:  fmt.Sprintf("%v cannot lead a %v session", instructor, session.ID.Kind),
		}
	}

	if !check.qualified(session.ID.Course, instructor) {
		return &model.Violation{
			Kind:    model.QualificationMismatch,
			Session: session.ID,
			Detail:  fmt.Sprintf("%v is not qualified for course %d", instructor, session.ID.Course),
		}
	}

	return nil
}

// checkDynamic evaluates the constraints that depend on the partial schedule:
// pre-existing busy slots and double bookings of rooms or instructors.
func (check checker) checkDynamic(session model.Session, candidate model.Assignment, state *reservations) *model.Violation {
	if check.busy(candidate.Instructor, candidate.Slot) {
		return &model.Violation{
			Kind:    model.InstructorPreBusy,
			Session: session.ID,
			Detail:  fmt.Sprintf("%v is busy at %v", candidate.Instructor, candidate.Slot),
		}
	}

	if holder, held := state.roomHolder(candidate.Room, candidate.Slot); held {
		return &model.Violation{
			Kind:    model.RoomConflict,
			Session: session.ID,
			Detail:  fmt.Sprintf("room %v at %v is taken by %v", candidate.Room, candidate.Slot, holder),
		}
	}

	if holder, held := state.instructorHolder(candidate.Instructor, candidate.Slot); held {
		return &model.Violation{
			Kind:    model.InstructorConflict,
			Session: session.ID,
			Detail:  fmt.Sprintf("%v at %v is teaching %v", candidate.Instructor, candidate.Slot, holder),
		}
	}

	return nil
}

// check runs the full evaluation, static constraints first.
func (check checker) check(session model.Session, candidate model.Assignment, state *reservations) *model.Violation {
	if violation := check.checkStatic(session, candidate); violation != nil {
		return violation
	}
	return check.checkDynamic(session, candidate, state)
}

func (check checker) qualified(course model.CourseID, instructor model.InstructorRef) bool {
	switch instructor.Role {
	case model.RoleProfessor:
		professor, found := check.catalog.Professor(model.ProfessorID(instructor.ID))
		return found && professor.Qualified[course]
	case model.RoleTA:
		ta, found := check.catalog.TA(model.TAID(instructor.ID))
		return found && ta.QualifiedLabs[course]
	default:
		panic(fmt.Sprintf("unknown instructor role %d", instructor.Role))
	}
}

func (check checker) busy(instructor model.InstructorRef, slot model.TimeSlot) bool {
	switch instructor.Role {
	case model.RoleProfessor:
		professor, found := check.catalog.Professor(model.ProfessorID(instructor.ID))
		return found && professor.Busy[slot]
	case model.RoleTA:
		ta, found := check.catalog.TA(model.TAID(instructor.ID))
		return found && ta.Busy[slot]
	default:
		panic(fmt.Sprintf("unknown instructor role %d", instructor.Role))
	}
}
