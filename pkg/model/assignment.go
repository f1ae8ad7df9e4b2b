package model

import (
	"cmp"
	"fmt"
	"strings"
)

type InstructorRole int

const (
	RoleProfessor InstructorRole = iota
	RoleTA
)

var instructorRoleNames = map[InstructorRole]string{
	RoleProfessor: "professor",
	RoleTA:        "ta",
}

func (role InstructorRole) String() string {
	name, ok := instructorRoleNames[role]
	if !ok {
		return fmt.Sprintf("instructor-role(%d)", int(role))
	}
	return name
}

// ParseInstructorRole reads a role name, ignoring case.
func ParseInstructorRole(value string) (InstructorRole, error) {
	for role, name := range instructorRoleNames {
		if strings.EqualFold(value, name) {
			return role, nil
		}
	}
	return 0, fmt.Errorf("unknown instructor role %q", value)
}

// InstructorRef points at a professor or a TA without committing to either
// concrete id type.
type InstructorRef struct {
	Role InstructorRole
	ID   int
}

func ProfessorRef(id ProfessorID) InstructorRef {
	return InstructorRef{Role: RoleProfessor, ID: int(id)}
}

func TARef(id TAID) InstructorRef {
	return InstructorRef{Role: RoleTA, ID: int(id)}
}

func (ref InstructorRef) String() string {
	return fmt.Sprintf("%v(%d)", ref.Role, ref.ID)
}

func (ref InstructorRef) Compare(other InstructorRef) int {
	if result := cmp.Compare(ref.Role, other.Role); result != 0 {
		return result
	}
	return cmp.Compare(ref.ID, other.ID)
}

// Assignment commits one session to a venue, a slot and an instructor.
type Assignment struct {
	Room       RoomID
	Slot       TimeSlot
	Instructor InstructorRef
}
