package model

import "fmt"

type ViolationKind int

const (
	RoomConflict ViolationKind = iota
	InstructorConflict
	CapacityMismatch
	TypeMismatch
	QualificationMismatch
	InstructorPreBusy
)

var violationKindNames = map[ViolationKind]string{
	RoomConflict:          "room-conflict",
	InstructorConflict:    "instructor-conflict",
	CapacityMismatch:      "capacity-mismatch",
	TypeMismatch:          "type-mismatch",
	QualificationMismatch: "qualification-mismatch",
	InstructorPreBusy:     "instructor-pre-busy",
}

func (kind ViolationKind) String() string {
	name, ok := violationKindNames[kind]
	if !ok {
		return fmt.Sprintf("violation-kind(%d)", int(kind))
	}
	return name
}

// Violation reports one hard-constraint breach for one session's candidate
// assignment. Violations drive backtracking inside the engine and are only
// surfaced to callers aggregated into a failed Result.
type Violation struct {
	Kind    ViolationKind
	Session SessionID
	Detail  string
}

func (violation Violation) String() string {
	return fmt.Sprintf("%v on %v: %v", violation.Kind, violation.Session, violation.Detail)
}
