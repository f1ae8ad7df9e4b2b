package model

import (
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(
		[]Course{
			{ID: 102, Name: "Calculus", Code: "MA102", Enrollment: 100},
			{ID: 101, Name: "Algorithms", Code: "CS101", Enrollment: 40, HasLab: true, LabType: LabCS},
		},
		[]Professor{
			{ID: 1, Name: "Ada Lovelace", Qualified: map[CourseID]bool{101: true, 102: true}},
			{ID: 2, Name: "Edsger Dijkstra", Qualified: map[CourseID]bool{101: true}, Busy: map[TimeSlot]bool{{Day: Monday, Index: 0}: true}},
		},
		[]TA{
			{ID: 1, Name: "Grace Hopper", QualifiedLabs: map[CourseID]bool{101: true}},
		},
		[]Room{
			{ID: 2, Code: "T-MAIN", Capacity: 150, Type: Theater},
			{ID: 1, Code: "A-101", Capacity: 60, Type: Classroom},
			{ID: 3, Code: "L-CS1", Capacity: 45, Type: LabCS},
		},
		[]TimeSlot{
			{Day: Tuesday, Index: 0},
			{Day: Monday, Index: 1},
			{Day: Monday, Index: 0},
		},
	)
	require.NoError(t, err)
	return catalog
}

func TestNewCatalog(t *testing.T) {
	t.Run("collections come out sorted by id", func(t *testing.T) {
		// Arrange + Act
		catalog := validCatalog(t)

		// Assert
		assert.Equal(t, []CourseID{101, 102}, lo.Map(catalog.Courses(), func(course Course, _ int) CourseID { return course.ID }))
		assert.Equal(t, []RoomID{1, 2, 3}, lo.Map(catalog.Rooms(), func(room Room, _ int) RoomID { return room.ID }))
		assert.Equal(t, []TimeSlot{
			{Day: Monday, Index: 0},
			{Day: Monday, Index: 1},
			{Day: Tuesday, Index: 0},
		}, catalog.Slots())
	})

	t.Run("sessions cover every course component", func(t *testing.T) {
		// Arrange + Act
		catalog := validCatalog(t)

		// Assert
		sessions := catalog.Sessions()
		require.Len(t, sessions, 3)
		assert.Equal(t, SessionID{Course: 101, Kind: Lecture}, sessions[0].ID)
		assert.Equal(t, SessionID{Course: 101, Kind: Lab}, sessions[1].ID)
		assert.Equal(t, SessionID{Course: 102, Kind: Lecture}, sessions[2].ID)
		assert.Equal(t, []RoomType{Classroom, Theater, Hall}, sessions[0].RoomTypes)
		assert.Equal(t, []RoomType{LabCS}, sessions[1].RoomTypes)
		assert.Equal(t, 40, sessions[1].Enrollment)
	})

	t.Run("every issue surfaces in one validation error", func(t *testing.T) {
		// Arrange
		courses := []Course{
			{ID: 101, Name: "Algorithms", Code: "CS101", Enrollment: 0},
			{ID: 101, Name: "Algorithms again", Code: "CS101", Enrollment: 40},
			{ID: 102, Name: "Calculus", Code: "MA102", Enrollment: 35, HasLab: true, LabType: Classroom},
		}
		professors := []Professor{
			{ID: 1, Name: "Ada Lovelace", Qualified: map[CourseID]bool{999: true}},
			{ID: 2, Name: "Edsger Dijkstra", Busy: map[TimeSlot]bool{{Day: Friday, Index: 9}: true}},
		}
		rooms := []Room{{ID: 1, Code: "A-101", Capacity: 0, Type: Classroom}}
		slots := []TimeSlot{{Day: Monday, Index: 0}, {Day: Monday, Index: 0}}

		// Act
		catalog, err := NewCatalog(courses, professors, nil, rooms, slots)

		// Assert
		require.Nil(t, catalog)
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Len(t, validation.Issues, 7)
		joined := validation.Error()
		assert.Contains(t, joined, "duplicated course id 101")
		assert.Contains(t, joined, "non-positive enrollment 0")
		assert.Contains(t, joined, "lab course requires a lab room type")
		assert.Contains(t, joined, "unknown course 999")
		assert.Contains(t, joined, "busy slot Friday/9 is not declared")
		assert.Contains(t, joined, "non-positive capacity 0")
		assert.Contains(t, joined, "duplicated time slot Monday/0")
	})

	t.Run("input slices stay untouched", func(t *testing.T) {
		// Arrange
		courses := []Course{
			{ID: 102, Name: "Calculus", Code: "MA102", Enrollment: 35},
			{ID: 101, Name: "Algorithms", Code: "CS101", Enrollment: 40},
		}
		professors := []Professor{{ID: 1, Name: "Ada Lovelace", Qualified: map[CourseID]bool{101: true, 102: true}}}
		rooms := []Room{{ID: 1, Code: "A-101", Capacity: 60, Type: Classroom}}
		slots := []TimeSlot{{Day: Monday, Index: 0}}

		// Act
		_, err := NewCatalog(courses, professors, nil, rooms, slots)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, CourseID(102), courses[0].ID)
	})
}

func TestCatalogLookups(t *testing.T) {
	catalog := validCatalog(t)

	t.Run("entities resolve by id", func(t *testing.T) {
		course, found := catalog.Course(101)
		require.True(t, found)
		assert.Equal(t, "Algorithms", course.Name)

		professor, found := catalog.Professor(2)
		require.True(t, found)
		assert.Equal(t, "Edsger Dijkstra", professor.Name)

		ta, found := catalog.TA(1)
		require.True(t, found)
		assert.Equal(t, "Grace Hopper", ta.Name)

		room, found := catalog.Room(3)
		require.True(t, found)
		assert.Equal(t, "L-CS1", room.Code)

		session, found := catalog.Session(SessionID{Course: 101, Kind: Lab})
		require.True(t, found)
		assert.Equal(t, []RoomType{LabCS}, session.RoomTypes)
	})

	t.Run("unknown ids report not found", func(t *testing.T) {
		_, found := catalog.Course(999)
		assert.False(t, found)
		_, found = catalog.Professor(999)
		assert.False(t, found)
		_, found = catalog.TA(999)
		assert.False(t, found)
		_, found = catalog.Room(999)
		assert.False(t, found)
		_, found = catalog.Session(SessionID{Course: 102, Kind: Lab})
		assert.False(t, found)
	})

	t.Run("instructor names resolve through the reference", func(t *testing.T) {
		name, found := catalog.InstructorName(ProfessorRef(1))
		require.True(t, found)
		assert.Equal(t, "Ada Lovelace", name)

		name, found = catalog.InstructorName(TARef(1))
		require.True(t, found)
		assert.Equal(t, "Grace Hopper", name)

		_, found = catalog.InstructorName(ProfessorRef(999))
		assert.False(t, found)
		_, found = catalog.InstructorName(InstructorRef{Role: InstructorRole(7), ID: 1})
		assert.False(t, found)
	})

	t.Run("declared slots are known", func(t *testing.T) {
		assert.True(t, catalog.HasSlot(TimeSlot{Day: Monday, Index: 1}))
		assert.False(t, catalog.HasSlot(TimeSlot{Day: Friday, Index: 0}))
	})
}

func TestCatalogQueries(t *testing.T) {
	catalog := validCatalog(t)

	t.Run("qualification filters keep id order", func(t *testing.T) {
		professors := catalog.QualifiedProfessors(101)
		assert.Equal(t, []ProfessorID{1, 2}, lo.Map(professors, func(professor Professor, _ int) ProfessorID { return professor.ID }))

		professors = catalog.QualifiedProfessors(102)
		assert.Equal(t, []ProfessorID{1}, lo.Map(professors, func(professor Professor, _ int) ProfessorID { return professor.ID }))

		tas := catalog.QualifiedTAs(101)
		require.Len(t, tas, 1)
		assert.Equal(t, TAID(1), tas[0].ID)
		assert.Empty(t, catalog.QualifiedTAs(102))
	})

	t.Run("compatible rooms respect type and capacity", func(t *testing.T) {
		lecture, found := catalog.Session(SessionID{Course: 102, Kind: Lecture})
		require.True(t, found)
		rooms := catalog.CompatibleRooms(lecture)
		// Enrollment 100 rules out the 60 seat classroom.
		assert.Equal(t, []RoomID{2}, lo.Map(rooms, func(room Room, _ int) RoomID { return room.ID }))

		lab, found := catalog.Session(SessionID{Course: 101, Kind: Lab})
		require.True(t, found)
		rooms = catalog.CompatibleRooms(lab)
		assert.Equal(t, []RoomID{3}, lo.Map(rooms, func(room Room, _ int) RoomID { return room.ID }))
	})
}

func TestValidationErrorUnwrap(t *testing.T) {
	// Arrange
	_, err := NewCatalog([]Course{{ID: 1, Name: "X", Code: "X1", Enrollment: -1}}, nil, nil, nil, nil)

	// Act + Assert
	var validation *ValidationError
	assert.True(t, errors.As(err, &validation))
}
