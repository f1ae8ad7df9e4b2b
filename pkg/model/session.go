package model

import (
	"cmp"
	"fmt"
)

type SessionKind int

const (
	Lecture SessionKind = iota
	Lab
)

var sessionKindNames = map[SessionKind]string{
	Lecture: "lecture",
	Lab:     "lab",
}

func (kind SessionKind) String() string {
	name, ok := sessionKindNames[kind]
	if !ok {
		return fmt.Sprintf("session-kind(%d)", int(kind))
	}
	return name
}

// SessionID identifies one schedulable unit of a course: its lecture, or its
// lab when the course has one.
type SessionID struct {
	Course CourseID
	Kind   SessionKind
}

func (id SessionID) String() string {
	return fmt.Sprintf("%v(%d)", id.Kind, id.Course)
}

func (id SessionID) Compare(other SessionID) int {
	if result := cmp.Compare(id.Course, other.Course); result != 0 {
		return result
	}
	return cmp.Compare(id.Kind, other.Kind)
}

// Role returns the instructor role the session requires: professors lecture,
// TAs run labs.
func (id SessionID) Role() InstructorRole {
	if id.Kind == Lab {
		return RoleTA
	}
	return RoleProfessor
}

// Session carries the derived scheduling requirement of one course component.
type Session struct {
	ID         SessionID
	Enrollment int
	RoomTypes  []RoomType // admissible venue types
}
