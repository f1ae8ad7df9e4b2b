package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursetable/pkg/model"
)

func TestVerify(t *testing.T) {
	slot := model.TimeSlot{Day: model.Monday, Index: 0}
	lecture := model.SessionID{Course: 1, Kind: model.Lecture}

	catalog := mustCatalog(t,
		[]model.Course{
			{ID: 1, Name: "Algorithms", Code: "CS201", Enrollment: 30},
			{ID: 2, Name: "Databases", Code: "CS301", Enrollment: 30},
		},
		[]model.Professor{{ID: 1, Name: "Rivera", Qualified: map[model.CourseID]bool{1: true, 2: true}}},
		nil,
		[]model.Room{
			{ID: 1, Code: "C-101", Capacity: 40, Type: model.Classroom},
			{ID: 2, Code: "C-102", Capacity: 40, Type: model.Classroom},
		},
		[]model.TimeSlot{
			slot,
			{Day: model.Monday, Index: 1},
		},
	)

	t.Run("engine output verifies clean", func(t *testing.T) {
		// Arrange
		result, err := New(model.Config{}, nil).Schedule(context.Background(), catalog)
		require.NoError(t, err)

		// Act & Assert
		assert.Empty(t, Verify(catalog, result))
	})

	t.Run("double booked room is reported", func(t *testing.T) {
		// Arrange
		tampered := &model.Result{
			Outcome: model.Committed,
			Assignments: []model.SessionAssignment{
				{Session: lecture, Assignment: model.Assignment{Room: 1, Slot: slot, Instructor: model.ProfessorRef(1)}},
				{Session: model.SessionID{Course: 2, Kind: model.Lecture}, Assignment: model.Assignment{Room: 1, Slot: slot, Instructor: model.ProfessorRef(1)}},
			},
		}

		// Act
		issues := Verify(catalog, tampered)

		// Assert
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0], "room-conflict")
	})

	t.Run("duplicate session is reported", func(t *testing.T) {
		// Arrange
		tampered := &model.Result{
			Outcome: model.Partial,
			Assignments: []model.SessionAssignment{
				{Session: lecture, Assignment: model.Assignment{Room: 1, Slot: slot, Instructor: model.ProfessorRef(1)}},
				{Session: lecture, Assignment: model.Assignment{Room: 2, Slot: slot, Instructor: model.ProfessorRef(1)}},
			},
		}

		// Act
		issues := Verify(catalog, tampered)

		// Assert
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0], "assigned more than once")
	})

	t.Run("missing session fails committed coverage", func(t *testing.T) {
		// Arrange
		incomplete := &model.Result{
			Outcome: model.Committed,
			Assignments: []model.SessionAssignment{
				{Session: lecture, Assignment: model.Assignment{Room: 1, Slot: slot, Instructor: model.ProfessorRef(1)}},
			},
		}

		// Act
		issues := Verify(catalog, incomplete)

		// Assert
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0], "missing from the schedule")
	})

	t.Run("unknown references are reported", func(t *testing.T) {
		// Arrange
		bogus := &model.Result{
			Outcome: model.Partial,
			Assignments: []model.SessionAssignment{
				{Session: model.SessionID{Course: 9, Kind: model.Lecture}, Assignment: model.Assignment{Room: 1, Slot: slot, Instructor: model.ProfessorRef(1)}},
				{Session: lecture, Assignment: model.Assignment{Room: 9, Slot: slot, Instructor: model.ProfessorRef(1)}},
				{Session: model.SessionID{Course: 2, Kind: model.Lecture}, Assignment: model.Assignment{Room: 1, Slot: model.TimeSlot{Day: model.Friday, Index: 4}, Instructor: model.ProfessorRef(1)}},
			},
		}

		// Act
		issues := Verify(catalog, bogus)

		// Assert
		require.Len(t, issues, 3)
		assert.Contains(t, issues[0], "not derived from the catalog")
		assert.Contains(t, issues[1], "unknown room")
		assert.Contains(t, issues[2], "undeclared slot")
	})

	t.Run("busy instructor is reported", func(t *testing.T) {
		// Arrange
		busyCatalog := mustCatalog(t,
			[]model.Course{{ID: 1, Name: "Algorithms", Code: "CS201", Enrollment: 30}},
			[]model.Professor{{ID: 1, Name: "Rivera", Qualified: map[model.CourseID]bool{1: true}, Busy: map[model.TimeSlot]bool{slot: true}}},
			nil,
			[]model.Room{{ID: 1, Code: "C-101", Capacity: 40, Type: model.Classroom}},
			[]model.TimeSlot{slot},
		)
		busyResult := &model.Result{
			Outcome: model.Committed,
			Assignments: []model.SessionAssignment{
				{Session: lecture, Assignment: model.Assignment{Room: 1, Slot: slot, Instructor: model.ProfessorRef(1)}},
			},
		}

		// Act
		issues := Verify(busyCatalog, busyResult)

		// Assert
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0], "instructor-pre-busy")
	})
}
