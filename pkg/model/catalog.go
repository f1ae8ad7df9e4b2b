package model

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

var lectureRoomTypes = []RoomType{Classroom, Theater, Hall}

// Catalog is the immutable, validated entity snapshot one scheduling run
// works against. Accessors return data in ascending id order and must be
// treated as read-only; any notion of "busy" belongs to the engine's
// reservation state, never to the catalog.
type Catalog struct {
	courses    []Course
	professors []Professor
	tas        []TA
	rooms      []Room
	slots      []TimeSlot

	courseIndex    map[CourseID]int
	professorIndex map[ProfessorID]int
	taIndex        map[TAID]int
	roomIndex      map[RoomID]int
	slotSet        map[TimeSlot]bool

	sessions []Session
}

// NewCatalog validates the given collections and freezes them. All issues
// are collected into a single ValidationError instead of stopping at the
// first.
func NewCatalog(courses []Course, professors []Professor, tas []TA, rooms []Room, slots []TimeSlot) (*Catalog, error) {
	catalog := &Catalog{
		courses:    slices.Clone(courses),
		professors: slices.Clone(professors),
		tas:        slices.Clone(tas),
		rooms:      slices.Clone(rooms),
		slots:      slices.Clone(slots),
	}

	slices.SortFunc(catalog.courses, func(a, b Course) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(catalog.professors, func(a, b Professor) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(catalog.tas, func(a, b TA) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(catalog.rooms, func(a, b Room) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(catalog.slots, TimeSlot.Compare)

	issues := catalog.index()
	issues = append(issues, catalog.check()...)
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	catalog.deriveSessions()
	return catalog, nil
}

func (catalog *Catalog) index() []string {
	issues := []string{}

	catalog.courseIndex = make(map[CourseID]int, len(catalog.courses))
	for i, course := range catalog.courses {
		if _, duplicated := catalog.courseIndex[course.ID]; duplicated {
			issues = append(issues, fmt.Sprintf("duplicated course id %v", course.ID))
			continue
		}
		catalog.courseIndex[course.ID] = i
	}

	catalog.professorIndex = make(map[ProfessorID]int, len(catalog.professors))
	for i, professor := range catalog.professors {
		if _, duplicated := catalog.professorIndex[professor.ID]; duplicated {
			issues = append(issues, fmt.Sprintf("duplicated professor id %v", professor.ID))
			continue
		}
		catalog.professorIndex[professor.ID] = i
	}

	catalog.taIndex = make(map[TAID]int, len(catalog.tas))
	for i, ta := range catalog.tas {
		if _, duplicated := catalog.taIndex[ta.ID]; duplicated {
			issues = append(issues, fmt.Sprintf("duplicated ta id %v", ta.ID))
			continue
		}
		catalog.taIndex[ta.ID] = i
	}

	catalog.roomIndex = make(map[RoomID]int, len(catalog.rooms))
	for i, room := range catalog.rooms {
		if _, duplicated := catalog.roomIndex[room.ID]; duplicated {
			issues = append(issues, fmt.Sprintf("duplicated room id %v", room.ID))
			continue
		}
		catalog.roomIndex[room.ID] = i
	}

	catalog.slotSet = make(map[TimeSlot]bool, len(catalog.slots))
	for _, slot := range catalog.slots {
		if catalog.slotSet[slot] {
			issues = append(issues, fmt.Sprintf("duplicated time slot %v", slot))
			continue
		}
		catalog.slotSet[slot] = true
	}

	return issues
}

func (catalog *Catalog) check() []string {
	issues := []string{}

	for _, course := range catalog.courses {
		if course.Enrollment <= 0 {
			issues = append(issues, fmt.Sprintf("course %v: non-positive enrollment %d", course.ID, course.Enrollment))
		}
		if course.HasLab && !course.LabType.IsLab() {
			issues = append(issues, fmt.Sprintf("course %v: lab course requires a lab room type, got %v", course.ID, course.LabType))
		}
	}

	for _, professor := range catalog.professors {
		for _, courseID := range sortedCourseIDs(professor.Qualified) {
			if _, ok := catalog.courseIndex[courseID]; !ok {
				issues = append(issues, fmt.Sprintf("professor %v: qualification references unknown course %v", professor.ID, courseID))
			}
		}
		for _, slot := range sortedSlots(professor.Busy) {
			if !catalog.slotSet[slot] {
				issues = append(issues, fmt.Sprintf("professor %v: busy slot %v is not declared", professor.ID, slot))
			}
		}
	}

	for _, ta := range catalog.tas {
		for _, courseID := range sortedCourseIDs(ta.QualifiedLabs) {
			index, ok := catalog.courseIndex[courseID]
			if !ok {
				issues = append(issues, fmt.Sprintf("ta %v: lab qualification references unknown course %v", ta.ID, courseID))
			} else if !catalog.courses[index].HasLab {
				issues = append(issues, fmt.Sprintf("ta %v: lab qualification references course %v which has no lab", ta.ID, courseID))
			}
		}
		for _, slot := range sortedSlots(ta.Busy) {
			if !catalog.slotSet[slot] {
				issues = append(issues, fmt.Sprintf("ta %v: busy slot %v is not declared", ta.ID, slot))
			}
		}
	}

	for _, room := range catalog.rooms {
		if room.Capacity <= 0 {
			issues = append(issues, fmt.Sprintf("room %v: non-positive capacity %d", room.ID, room.Capacity))
		}
		if !room.Type.Valid() {
			issues = append(issues, fmt.Sprintf("room %v: unknown room type %d", room.ID, int(room.Type)))
		}
	}

	return issues
}

// deriveSessions expands every course into its schedulable units. Courses
// are already sorted by id, so sessions come out sorted by (course, kind).
func (catalog *Catalog) deriveSessions() {
	catalog.sessions = make([]Session, 0, len(catalog.courses)*2)
	for _, course := range catalog.courses {
		catalog.sessions = append(catalog.sessions, Session{
			ID:         SessionID{Course: course.ID, Kind: Lecture},
			Enrollment: course.Enrollment,
			RoomTypes:  lectureRoomTypes,
		})
		if course.HasLab {
			catalog.sessions = append(catalog.sessions, Session{
				ID:         SessionID{Course: course.ID, Kind: Lab},
				Enrollment: course.Enrollment,
				RoomTypes:  []RoomType{course.LabType},
			})
		}
	}
}

func (catalog *Catalog) Courses() []Course       { return catalog.courses }
func (catalog *Catalog) Professors() []Professor { return catalog.professors }
func (catalog *Catalog) TAs() []TA               { return catalog.tas }
func (catalog *Catalog) Rooms() []Room           { return catalog.rooms }
func (catalog *Catalog) Slots() []TimeSlot       { return catalog.slots }

// Sessions returns every schedulable unit derived from the courses, sorted
// by session id.
func (catalog *Catalog) Sessions() []Session { return catalog.sessions }

func (catalog *Catalog) Course(id CourseID) (Course, bool) {
	index, ok := catalog.courseIndex[id]
	if !ok {
		return Course{}, false
	}
	return catalog.courses[index], true
}

func (catalog *Catalog) Professor(id ProfessorID) (Professor, bool) {
	index, ok := catalog.professorIndex[id]
	if !ok {
		return Professor{}, false
	}
	return catalog.professors[index], true
}

func (catalog *Catalog) TA(id TAID) (TA, bool) {
	index, ok := catalog.taIndex[id]
	if !ok {
		return TA{}, false
	}
	return catalog.tas[index], true
}

func (catalog *Catalog) Room(id RoomID) (Room, bool) {
	index, ok := catalog.roomIndex[id]
	if !ok {
		return Room{}, false
	}
	return catalog.rooms[index], true
}

func (catalog *Catalog) Session(id SessionID) (Session, bool) {
	return lo.Find(catalog.sessions, func(session Session) bool {
		return session.ID == id
	})
}

// InstructorName resolves the display name behind an instructor reference.
func (catalog *Catalog) InstructorName(ref InstructorRef) (string, bool) {
	switch ref.Role {
	case RoleProfessor:
		professor, found := catalog.Professor(ProfessorID(ref.ID))
		return professor.Name, found
	case RoleTA:
		ta, found := catalog.TA(TAID(ref.ID))
		return ta.Name, found
	default:
		return "", false
	}
}

func (catalog *Catalog) HasSlot(slot TimeSlot) bool {
	return catalog.slotSet[slot]
}

// QualifiedProfessors returns the professors qualified to lecture the
// course, ascending id.
func (catalog *Catalog) QualifiedProfessors(courseID CourseID) []Professor {
	return lo.Filter(catalog.professors, func(professor Professor, _ int) bool {
		return professor.Qualified[courseID]
	})
}

// QualifiedTAs returns the TAs qualified to run the course's lab, ascending
// id.
func (catalog *Catalog) QualifiedTAs(courseID CourseID) []TA {
	return lo.Filter(catalog.tas, func(ta TA, _ int) bool {
		return ta.QualifiedLabs[courseID]
	})
}

// CompatibleRooms returns the rooms whose type and capacity admit the
// session, ascending id.
func (catalog *Catalog) CompatibleRooms(session Session) []Room {
	return lo.Filter(catalog.rooms, func(room Room, _ int) bool {
		return room.Capacity >= session.Enrollment && slices.Contains(session.RoomTypes, room.Type)
	})
}

func sortedCourseIDs(set map[CourseID]bool) []CourseID {
	ids := lo.Keys(set)
	slices.Sort(ids)
	return ids
}

func sortedSlots(set map[TimeSlot]bool) []TimeSlot {
	slots := lo.Keys(set)
	slices.SortFunc(slots, TimeSlot.Compare)
	return slots
}
