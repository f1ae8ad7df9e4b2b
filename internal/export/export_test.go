package export

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursetable/pkg/model"
)

func TestEntries(t *testing.T) {
	t.Run("resolves references in slot order", func(t *testing.T) {
		// Arrange
		catalog := mustCatalog(t)

		// Act
		entries, err := Entries(catalog, sampleResult())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []Entry{
			{
				Session:    model.SessionID{Course: 101, Kind: model.Lecture},
				Slot:       model.TimeSlot{Day: model.Monday, Index: 0},
				CourseCode: "CS101",
				CourseName: "Algorithms",
				Room:       "A-101",
				Instructor: "Ada Lovelace",
			},
			{
				Session:    model.SessionID{Course: 102, Kind: model.Lecture},
				Slot:       model.TimeSlot{Day: model.Monday, Index: 1},
				CourseCode: "MA102",
				CourseName: "Calculus",
				Room:       "A-101",
				Instructor: "Ada Lovelace",
			},
			{
				Session:    model.SessionID{Course: 101, Kind: model.Lab},
				Slot:       model.TimeSlot{Day: model.Tuesday, Index: 0},
				CourseCode: "CS101",
				CourseName: "Algorithms",
				Room:       "L-CS1",
				Instructor: "Grace Hopper",
			},
		}, entries)
	})

	t.Run("empty result yields no entries", func(t *testing.T) {
		// Arrange
		catalog := mustCatalog(t)

		// Act
		entries, err := Entries(catalog, &model.Result{Outcome: model.Failed})

		// Assert
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("unknown room fails", func(t *testing.T) {
		// Arrange
		catalog := mustCatalog(t)
		result := sampleResult()
		result.Assignments[0].Assignment.Room = 999

		// Act
		_, err := Entries(catalog, result)

		// Assert
		assert.ErrorContains(t, err, "unknown room 999")
	})

	t.Run("unknown instructor fails", func(t *testing.T) {
		// Arrange
		catalog := mustCatalog(t)
		result := sampleResult()
		result.Assignments[0].Assignment.Instructor = model.ProfessorRef(999)

		// Act
		_, err := Entries(catalog, result)

		// Assert
		assert.ErrorContains(t, err, "unknown instructor professor(999)")
	})
}

func TestEntriesKindTiebreak(t *testing.T) {
	// Arrange: lecture and lab of the same course in the same slot cannot
	// happen in a verified result, but ordering must still be total.
	catalog := mustCatalog(t)
	slot := model.TimeSlot{Day: model.Monday, Index: 0}
	result := &model.Result{
		Outcome: model.Committed,
		Assignments: []model.SessionAssignment{
			{
				Session:    model.SessionID{Course: 101, Kind: model.Lab},
				Assignment: model.Assignment{Room: 3, Slot: slot, Instructor: model.TARef(1)},
			},
			{
				Session:    model.SessionID{Course: 101, Kind: model.Lecture},
				Assignment: model.Assignment{Room: 1, Slot: slot, Instructor: model.ProfessorRef(1)},
			},
		},
	}

	// Act
	entries, err := Entries(catalog, result)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []model.SessionKind{model.Lecture, model.Lab}, lo.Map(entries, func(entry Entry, _ int) model.SessionKind {
		return entry.Session.Kind
	}))
}
