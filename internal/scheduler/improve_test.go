package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursetable/pkg/model"
)

func TestImprove(t *testing.T) {
	lecture := model.SessionID{Course: 1, Kind: model.Lecture}

	newRun := func(t *testing.T, config model.Config) *search {
		t.Helper()

		catalog := mustCatalog(t,
			[]model.Course{{ID: 1, Name: "World History", Code: "GE201", Enrollment: 30, IsGeneralProgram: true}},
			[]model.Professor{{ID: 1, Name: "Rivera", Qualified: map[model.CourseID]bool{1: true}}},
			nil,
			[]model.Room{
				{ID: 1, Code: "C-101", Capacity: 40, Type: model.Classroom},
				{ID: 2, Code: "T-1", Capacity: 100, Type: model.Theater},
			},
			[]model.TimeSlot{{Day: model.Monday, Index: 0}},
		)

		domains, err := reduceDomains(catalog)
		require.NoError(t, err)
		orderDomains(domains)

		config = config.WithDefaults()
		return newSearch(catalog, config, domains, newBudget(config.MaxIterations))
	}

	t.Run("moves a general program lecture into the theater", func(t *testing.T) {
		// Arrange
		run := newRun(t, model.Config{
			SoftCostWeight: 1,
			ImprovePasses:  2,
			Weights:        model.DefaultCostWeights(),
		})
		start := map[model.SessionID]model.Assignment{
			lecture: {Room: 1, Slot: model.TimeSlot{Day: model.Monday, Index: 0}, Instructor: model.ProfessorRef(1)},
		}

		// Act
		improved, cost := improve(run, start)

		// Assert
		assert.Equal(t, model.RoomID(2), improved[lecture].Room)
		assert.Equal(t, 0.0, cost)

		// The input map is left untouched.
		assert.Equal(t, model.RoomID(1), start[lecture].Room)
	})

	t.Run("keeps an already optimal schedule", func(t *testing.T) {
		// Arrange
		run := newRun(t, model.Config{
			SoftCostWeight: 1,
			ImprovePasses:  2,
			Weights:        model.DefaultCostWeights(),
		})
		start := map[model.SessionID]model.Assignment{
			lecture: {Room: 2, Slot: model.TimeSlot{Day: model.Monday, Index: 0}, Instructor: model.ProfessorRef(1)},
		}

		// Act
		improved, cost := improve(run, start)

		// Assert
		assert.Equal(t, start, improved)
		assert.Equal(t, 0.0, cost)
	})

	t.Run("stops without budget", func(t *testing.T) {
		// Arrange
		run := newRun(t, model.Config{
			SoftCostWeight: 1,
			ImprovePasses:  2,
			Weights:        model.DefaultCostWeights(),
		})
		for run.allowance.spend() {
			// Drain the allowance so no move can be evaluated.
		}
		start := map[model.SessionID]model.Assignment{
			lecture: {Room: 1, Slot: model.TimeSlot{Day: model.Monday, Index: 0}, Instructor: model.ProfessorRef(1)},
		}

		// Act
		improved, cost := improve(run, start)

		// Assert
		assert.Equal(t, model.RoomID(1), improved[lecture].Room)
		assert.Equal(t, 0.25, cost)
	})
}
