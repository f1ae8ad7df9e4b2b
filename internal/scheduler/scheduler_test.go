package scheduler

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursetable/pkg/model"
)

func mustCatalog(t *testing.T, courses []model.Course, professors []model.Professor, tas []model.TA, rooms []model.Room, slots []model.TimeSlot) *model.Catalog {
	t.Helper()

	catalog, err := model.NewCatalog(courses, professors, tas, rooms, slots)
	require.NoError(t, err)
	return catalog
}

func violationKinds(violations []model.Violation) []model.ViolationKind {
	return lo.Map(violations, func(violation model.Violation, _ int) model.ViolationKind {
		return violation.Kind
	})
}

func TestSchedule(t *testing.T) {
	t.Run("single course commits", func(t *testing.T) {
		// Arrange
		slot := model.TimeSlot{Day: model.Monday, Index: 0}
		catalog := mustCatalog(t,
			[]model.Course{{ID: 1, Name: "Algorithms", Code: "CS201", Enrollment: 30}},
			[]model.Professor{{ID: 1, Name: "Rivera", Qualified: map[model.CourseID]bool{1: true}}},
			nil,
			[]model.Room{{ID: 1, Code: "C-101", Capacity: 40, Type: model.Classroom}},
			[]model.TimeSlot{slot},
		)
		scheduler := New(model.Config{}, nil)

		// Act
		result, err := scheduler.Schedule(context.Background(), catalog)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, model.Committed, result.Outcome)
		require.Len(t, result.Assignments, 1)

		assigned := result.Assignments[0]
		assert.Equal(t, model.SessionID{Course: 1, Kind: model.Lecture}, assigned.Session)
		assert.Equal(t, model.RoomID(1), assigned.Assignment.Room)
		assert.Equal(t, slot, assigned.Assignment.Slot)
		assert.Equal(t, model.ProfessorRef(1), assigned.Assignment.Instructor)

		assert.GreaterOrEqual(t, result.Iterations, 1)
		assert.Empty(t, Verify(catalog, result))
	})

	t.Run("lab course splits into two sessions", func(t *testing.T) {
		// Arrange
		slots := []model.TimeSlot{
			{Day: model.Monday, Index: 0},
			{Day: model.Monday, Index: 1},
		}
		catalog := mustCatalog(t,
			[]model.Course{{ID: 1, Name: "Data Structures", Code: "CS202", Enrollment: 25, HasLab: true, LabType: model.LabCS}},
			[]model.Professor{{ID: 1, Name: "Rivera", Qualified: map[model.CourseID]bool{1: true}}},
			[]model.TA{{ID: 1, Name: "Onu", QualifiedLabs: map[model.CourseID]bool{1: true}}},
			[]model.Room{
				{ID: 1, Code: "C-101", Capacity: 40, Type: model.Classroom},
				{ID: 2, Code: "L-1", Capacity: 30, Type: model.LabCS},
			},
			slots,
		)
		scheduler := New(model.Config{}, nil)

		// Act
		result, err := scheduler.Schedule(context.Background(), catalog)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, model.Committed, result.Outcome)
		require.Len(t, result.Assignments, 2)

		lecture, found := result.Assignment(model.SessionID{Course: 1, Kind: model.Lecture})
		require.True(t, found)
		assert.Equal(t, model.RoomID(1), lecture.Room)
		assert.Equal(t, model.ProfessorRef(1), lecture.Instructor)

		lab, found := result.Assignment(model.SessionID{Course: 1, Kind: model.Lab})
		require.True(t, found)
		assert.Equal(t, model.RoomID(2), lab.Room)
		assert.Equal(t, model.TARef(1), lab.Instructor)

		assert.Empty(t, Verify(catalog, result))
	})

	t.Run("shared professor with one slot fails", func(t *testing.T) {
		// Arrange
		catalog := mustCatalog(t,
			[]model.Course{
				{ID: 1, Name: "Calculus I", Code: "MA101", Enrollment: 30},
				{ID: 2, Name: "Calculus II", Code: "MA102", Enrollment: 30},
			},
			[]model.Professor{{ID: 1, Name: "Duarte", Qualified: map[model.CourseID]bool{1: true, 2: true}}},
			nil,
			[]model.Room{
				{ID: 1, Code: "C-101", Capacity: 40, Type: model.Classroom},
				{ID: 2, Code: "C-102", Capacity: 40, Type: model.Classroom},
			},
			[]model.TimeSlot{{Day: model.Monday, Index: 0}},
		)
		scheduler := New(model.Config{}, nil)

		// Act
		result, err := scheduler.Schedule(context.Background(), catalog)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, model.Failed, result.Outcome)
		assert.Empty(t, result.Assignments)

		require.Len(t, result.Blocked, 1)
		assert.Equal(t, model.SessionID{Course: 2, Kind: model.Lecture}, result.Blocked[0].Session)
		assert.Contains(t, violationKinds(result.Blocked[0].Violations), model.InstructorConflict)
	})

	t.Run("busy ta blocks the lab dynamically", func(t *testing.T) {
		// Arrange
		slot := model.TimeSlot{Day: model.Tuesday, Index: 2}
		catalog := mustCatalog(t,
			[]model.Course{{ID: 1, Name: "Physics", Code: "PH101", Enrollment: 20, HasLab: true, LabType: model.LabPhysics}},
			[]model.Professor{{ID: 1, Name: "Abara", Qualified: map[model.CourseID]bool{1: true}}},
			[]model.TA{{ID: 1, Name: "Silva", QualifiedLabs: map[model.CourseID]bool{1: true}, Busy: map[model.TimeSlot]bool{slot: true}}},
			[]model.Room{
				{ID: 1, Code: "C-101", Capacity: 40, Type: model.Classroom},
				{ID: 2, Code: "LP-1", Capacity: 25, Type: model.LabPhysics},
			},
			[]model.TimeSlot{slot},
		)
		scheduler := New(model.Config{}, nil)

		// Act
		result, err := scheduler.Schedule(context.Background(), catalog)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, model.Failed, result.Outcome)

		require.Len(t, result.Blocked, 1)
		assert.Equal(t, model.SessionID{Course: 1, Kind: model.Lab}, result.Blocked[0].Session)
		assert.Equal(t, []model.ViolationKind{model.InstructorPreBusy}, violationKinds(result.Blocked[0].Violations))
	})

	t.Run("empty domain surfaces before search", func(t *testing.T) {
		// Arrange
		catalog := mustCatalog(t,
			[]model.Course{{ID: 1, Name: "Intro Lecture", Code: "GE100", Enrollment: 100}},
			[]model.Professor{{ID: 1, Name: "Rivera", Qualified: map[model.CourseID]bool{1: true}}},
			nil,
			[]model.Room{{ID: 1, Code: "C-101", Capacity: 30, Type: model.Classroom}},
			[]model.TimeSlot{{Day: model.Monday, Index: 0}},
		)
		scheduler := New(model.Config{}, nil)

		// Act
		result, err := scheduler.Schedule(context.Background(), catalog)

		// Assert
		require.Nil(t, result)

		var emptyErr *model.EmptyDomainError
		require.ErrorAs(t, err, &emptyErr)
		require.Len(t, emptyErr.Sessions, 1)
		assert.Equal(t, model.SessionID{Course: 1, Kind: model.Lecture}, emptyErr.Sessions[0].Session)
		assert.Contains(t, emptyErr.Sessions[0].Causes, model.CapacityMismatch)
	})

	t.Run("exhausted budget returns timeout", func(t *testing.T) {
		// Arrange
		catalog := mustCatalog(t,
			[]model.Course{
				{ID: 1, Name: "Calculus I", Code: "MA101", Enrollment: 30},
				{ID: 2, Name: "Calculus II", Code: "MA102", Enrollment: 30},
			},
			[]model.Professor{{ID: 1, Name: "Duarte", Qualified: map[model.CourseID]bool{1: true, 2: true}}},
			nil,
			[]model.Room{{ID: 1, Code: "C-101", Capacity: 40, Type: model.Classroom}},
			[]model.TimeSlot{
				{Day: model.Monday, Index: 0},
				{Day: model.Monday, Index: 1},
			},
		)
		scheduler := New(model.Config{MaxIterations: 1}, nil)

		// Act
		result, err := scheduler.Schedule(context.Background(), catalog)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, model.Timeout, result.Outcome)
		assert.Empty(t, result.Assignments)
		assert.Equal(t, 1, result.Iterations)
	})

	t.Run("allow partial keeps the deepest prefix", func(t *testing.T) {
		// Arrange
		catalog := mustCatalog(t,
			[]model.Course{
				{ID: 1, Name: "Calculus I", Code: "MA101", Enrollment: 30},
				{ID: 2, Name: "Calculus II", Code: "MA102", Enrollment: 30},
			},
			[]model.Professor{{ID: 1, Name: "Duarte", Qualified: map[model.CourseID]bool{1: true, 2: true}}},
			nil,
			[]model.Room{
				{ID: 1, Code: "C-101", Capacity: 40, Type: model.Classroom},
				{ID: 2, Code: "C-102", Capacity: 40, Type: model.Classroom},
			},
			[]model.TimeSlot{{Day: model.Monday, Index: 0}},
		)
		scheduler := New(model.Config{AllowPartial: true}, nil)

		// Act
		result, err := scheduler.Schedule(context.Background(), catalog)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, model.Partial, result.Outcome)
		require.Len(t, result.Assignments, 1)
		assert.Equal(t, model.SessionID{Course: 1, Kind: model.Lecture}, result.Assignments[0].Session)

		require.Len(t, result.Blocked, 1)
		assert.Equal(t, model.SessionID{Course: 2, Kind: model.Lecture}, result.Blocked[0].Session)
		assert.Contains(t, violationKinds(result.Blocked[0].Violations), model.InstructorConflict)

		assert.Empty(t, Verify(catalog, result))
	})

	t.Run("soft cost prefers the theater for general program lectures", func(t *testing.T) {
		// Arrange
		catalog := mustCatalog(t,
			[]model.Course{{ID: 1, Name: "World History", Code: "GE201", Enrollment: 60, IsGeneralProgram: true}},
			[]model.Professor{{ID: 1, Name: "Mensah", Qualified: map[model.CourseID]bool{1: true}}},
			nil,
			[]model.Room{
				{ID: 1, Code: "C-201", Capacity: 80, Type: model.Classroom},
				{ID: 2, Code: "T-1", Capacity: 120, Type: model.Theater},
			},
			[]model.TimeSlot{{Day: model.Monday, Index: 0}},
		)
		scheduler := New(model.Config{
			SoftCostWeight: 1,
			Weights:        model.DefaultCostWeights(),
		}, nil)

		// Act
		result, err := scheduler.Schedule(context.Background(), catalog)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, model.Committed, result.Outcome)
		require.Len(t, result.Assignments, 1)
		assert.Equal(t, model.RoomID(2), result.Assignments[0].Assignment.Room)
		assert.Equal(t, 0.0, result.Cost)
	})

	t.Run("committed assignments come from the reduced domains", func(t *testing.T) {
		// Arrange
		catalog := mediumCatalog(t)
		domains, err := reduceDomains(catalog)
		require.NoError(t, err)

		// Act
		result, err := New(model.Config{}, nil).Schedule(context.Background(), catalog)
		require.NoError(t, err)

		// Assert
		require.Equal(t, model.Committed, result.Outcome)
		for _, assigned := range result.Assignments {
			dom, found := lo.Find(domains, func(dom domain) bool { return dom.session.ID == assigned.Session })
			require.True(t, found)
			assert.Contains(t, dom.candidates, assigned.Assignment)
		}
	})

	t.Run("identical runs produce identical results", func(t *testing.T) {
		// Arrange
		catalog := mediumCatalog(t)
		config := model.Config{SoftCostWeight: 1, Weights: model.DefaultCostWeights()}

		// Act
		first, err := New(config, nil).Schedule(context.Background(), catalog)
		require.NoError(t, err)
		second, err := New(config, nil).Schedule(context.Background(), catalog)
		require.NoError(t, err)

		// Assert
		require.Equal(t, first, second)
	})

	t.Run("parallel workers match the single worker cost", func(t *testing.T) {
		// Arrange
		catalog := mediumCatalog(t)
		single := model.Config{SoftCostWeight: 1, Weights: model.DefaultCostWeights()}
		parallel := single
		parallel.Workers = 3

		// Act
		sequential, err := New(single, nil).Schedule(context.Background(), catalog)
		require.NoError(t, err)
		fanned, err := New(parallel, nil).Schedule(context.Background(), catalog)
		require.NoError(t, err)

		// Assert
		assert.Equal(t, model.Committed, sequential.Outcome)
		assert.Equal(t, model.Committed, fanned.Outcome)
		assert.Equal(t, sequential.Cost, fanned.Cost)
		assert.Empty(t, Verify(catalog, fanned))
	})

	t.Run("cancelled context aborts the run", func(t *testing.T) {
		// Arrange
		catalog := mediumCatalog(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// Act
		result, err := New(model.Config{}, nil).Schedule(ctx, catalog)

		// Assert
		require.Nil(t, result)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("catalog without courses commits an empty schedule", func(t *testing.T) {
		// Arrange
		catalog := mustCatalog(t,
			nil,
			nil,
			nil,
			[]model.Room{{ID: 1, Code: "C-101", Capacity: 40, Type: model.Classroom}},
			[]model.TimeSlot{{Day: model.Monday, Index: 0}},
		)

		// Act
		result, err := New(model.Config{}, nil).Schedule(context.Background(), catalog)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, model.Committed, result.Outcome)
		assert.Empty(t, result.Assignments)
		assert.Equal(t, 0, result.Iterations)
	})
}

// mediumCatalog is small enough for exhaustive search yet rich enough to
// exercise labs, both instructor roles and several rooms.
func mediumCatalog(t *testing.T) *model.Catalog {
	t.Helper()

	return mustCatalog(t,
		[]model.Course{
			{ID: 1, Name: "Algorithms", Code: "CS201", Enrollment: 30},
			{ID: 2, Name: "Databases", Code: "CS301", Enrollment: 25, HasLab: true, LabType: model.LabCS},
		},
		[]model.Professor{
			{ID: 1, Name: "Rivera", Qualified: map[model.CourseID]bool{1: true, 2: true}},
			{ID: 2, Name: "Duarte", Qualified: map[model.CourseID]bool{1: true}},
		},
		[]model.TA{
			{ID: 1, Name: "Onu", QualifiedLabs: map[model.CourseID]bool{2: true}},
		},
		[]model.Room{
			{ID: 1, Code: "C-101", Capacity: 40, Type: model.Classroom},
			{ID: 2, Code: "C-102", Capacity: 35, Type: model.Classroom},
			{ID: 3, Code: "L-1", Capacity: 30, Type: model.LabCS},
		},
		[]model.TimeSlot{
			{Day: model.Monday, Index: 0},
			{Day: model.Monday, Index: 1},
			{Day: model.Monday, Index: 2},
		},
	)
}
