// Package store persists catalogs in SQLite so the HTTP surface can serve
// entity queries without re-reading CSV datasets.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/samber/lo"

	"coursetable/pkg/model"
)

const schemaTimeout = 5 * time.Second

var schema = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT NOT NULL,
		enrollment INTEGER NOT NULL,
		has_lab INTEGER NOT NULL,
		lab_type TEXT NOT NULL,
		general_program INTEGER NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS professors (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS professor_courses (
		professor_id INTEGER NOT NULL,
		course_id INTEGER NOT NULL,
		PRIMARY KEY (professor_id, course_id)
	);`,
	`CREATE TABLE IF NOT EXISTS tas (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS ta_labs (
		ta_id INTEGER NOT NULL,
		course_id INTEGER NOT NULL,
		PRIMARY KEY (ta_id, course_id)
	);`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id INTEGER PRIMARY KEY,
		code TEXT NOT NULL,
		capacity INTEGER NOT NULL,
		type TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS timeslots (
		day TEXT NOT NULL,
		slot_index INTEGER NOT NULL,
		PRIMARY KEY (day, slot_index)
	);`,
	`CREATE TABLE IF NOT EXISTS busy_slots (
		role TEXT NOT NULL,
		instructor_id INTEGER NOT NULL,
		day TEXT NOT NULL,
		slot_index INTEGER NOT NULL,
		PRIMARY KEY (role, instructor_id, day, slot_index)
	);`,
}

var tables = []string{"courses", "professors", "professor_courses", "tas", "ta_labs", "rooms", "timeslots", "busy_slots"}

// Store saves and restores catalogs. SaveCatalog replaces the previous
// catalog wholesale; partial updates are not a thing at this layer.
type Store interface {
	SaveCatalog(ctx context.Context, catalog *model.Catalog) error
	LoadCatalog(ctx context.Context) (*model.Catalog, error)
	Stats(ctx context.Context) (map[string]int, error)
	Close() error
}

type sqliteStore struct {
	db *sql.DB
}

// Open opens or creates the database file and ensures the schema exists.
func Open(path string) (Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %v: %w", path, err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()
	for _, statement := range schema {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return &sqliteStore{db: db}, nil
}

func (store *sqliteStore) Close() error {
	return store.db.Close()
}

func (store *sqliteStore) SaveCatalog(ctx context.Context, catalog *model.Catalog) error {
	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %v: %w", table, err)
		}
	}

	for _, course := range catalog.Courses() {
		labType := ""
		if course.HasLab {
			labType = course.LabType.String()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO courses (id, name, code, enrollment, has_lab, lab_type, general_program) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			int(course.ID), course.Name, course.Code, course.Enrollment, course.HasLab, labType, course.IsGeneralProgram)
		if err != nil {
			return fmt.Errorf("save course %v: %w", course.ID, err)
		}
	}

	for _, professor := range catalog.Professors() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO professors (id, name) VALUES (?, ?)`, int(professor.ID), professor.Name); err != nil {
			return fmt.Errorf("save professor %v: %w", professor.ID, err)
		}
		for _, courseID := range sortedCourseIDs(professor.Qualified) {
			if _, err := tx.ExecContext(ctx, `INSERT INTO professor_courses (professor_id, course_id) VALUES (?, ?)`, int(professor.ID), int(courseID)); err != nil {
				return fmt.Errorf("save professor %v qualification: %w", professor.ID, err)
			}
		}
		if err := saveBusy(ctx, tx, model.ProfessorRef(professor.ID), professor.Busy); err != nil {
			return err
		}
	}

	for _, ta := range catalog.TAs() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO tas (id, name) VALUES (?, ?)`, int(ta.ID), ta.Name); err != nil {
			return fmt.Errorf("save ta %v: %w", ta.ID, err)
		}
		for _, courseID := range sortedCourseIDs(ta.QualifiedLabs) {
			if _, err := tx.ExecContext(ctx, `INSERT INTO ta_labs (ta_id, course_id) VALUES (?, ?)`, int(ta.ID), int(courseID)); err != nil {
				return fmt.Errorf("save ta %v qualification: %w", ta.ID, err)
			}
		}
		if err := saveBusy(ctx, tx, model.TARef(ta.ID), ta.Busy); err != nil {
			return err
		}
	}

	for _, room := range catalog.Rooms() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rooms (id, code, capacity, type) VALUES (?, ?, ?, ?)`,
			int(room.ID), room.Code, room.Capacity, room.Type.String()); err != nil {
			return fmt.Errorf("save room %v: %w", room.ID, err)
		}
	}

	for _, slot := range catalog.Slots() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO timeslots (day, slot_index) VALUES (?, ?)`,
			slot.Day.String(), slot.Index); err != nil {
			return fmt.Errorf("save slot %v: %w", slot, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func saveBusy(ctx context.Context, tx *sql.Tx, ref model.InstructorRef, busy map[model.TimeSlot]bool) error {
	slots := lo.Keys(busy)
	slices.SortFunc(slots, model.TimeSlot.Compare)
	for _, slot := range slots {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO busy_slots (role, instructor_id, day, slot_index) VALUES (?, ?, ?, ?)`,
			ref.Role.String(), ref.ID, slot.Day.String(), slot.Index)
		if err != nil {
			return fmt.Errorf("save busy slot for %v: %w", ref, err)
		}
	}
	return nil
}

func (store *sqliteStore) LoadCatalog(ctx context.Context) (*model.Catalog, error) {
	courses, err := store.loadCourses(ctx)
	if err != nil {
		return nil, err
	}
	professors, err := store.loadProfessors(ctx)
	if err != nil {
		return nil, err
	}
	tas, err := store.loadTAs(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := store.loadRooms(ctx)
	if err != nil {
		return nil, err
	}
	slots, err := store.loadSlots(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.loadBusy(ctx, professors, tas); err != nil {
		return nil, err
	}

	return model.NewCatalog(courses, professors, tas, rooms, slots)
}

func (store *sqliteStore) loadCourses(ctx context.Context) ([]model.Course, error) {
	rows, err := store.db.QueryContext(ctx,
		`SELECT id, name, code, enrollment, has_lab, lab_type, general_program FROM courses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var course model.Course
		var labType string
		if err := rows.Scan(&course.ID, &course.Name, &course.Code, &course.Enrollment, &course.HasLab, &labType, &course.IsGeneralProgram); err != nil {
			return nil, fmt.Errorf("load courses: %w", err)
		}
		if course.HasLab {
			parsed, err := model.ParseRoomType(labType)
			if err != nil {
				return nil, fmt.Errorf("load course %v: %w", course.ID, err)
			}
			course.LabType = parsed
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (store *sqliteStore) loadProfessors(ctx context.Context) ([]model.Professor, error) {
	rows, err := store.db.QueryContext(ctx, `SELECT id, name FROM professors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load professors: %w", err)
	}
	defer rows.Close()

	professors := []model.Professor{}
	for rows.Next() {
		professor := model.Professor{Qualified: map[model.CourseID]bool{}, Busy: map[model.TimeSlot]bool{}}
		if err := rows.Scan(&professor.ID, &professor.Name); err != nil {
			return nil, fmt.Errorf("load professors: %w", err)
		}
		professors = append(professors, professor)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	index := lo.SliceToMap(lo.Range(len(professors)), func(i int) (model.ProfessorID, int) {
		return professors[i].ID, i
	})
	links, err := store.db.QueryContext(ctx, `SELECT professor_id, course_id FROM professor_courses`)
	if err != nil {
		return nil, fmt.Errorf("load professor qualifications: %w", err)
	}
	defer links.Close()
	for links.Next() {
		var professorID model.ProfessorID
		var courseID model.CourseID
		if err := links.Scan(&professorID, &courseID); err != nil {
			return nil, fmt.Errorf("load professor qualifications: %w", err)
		}
		if i, found := index[professorID]; found {
			professors[i].Qualified[courseID] = true
		}
	}
	return professors, links.Err()
}

func (store *sqliteStore) loadTAs(ctx context.Context) ([]model.TA, error) {
	rows, err := store.db.QueryContext(ctx, `SELECT id, name FROM tas ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load tas: %w", err)
	}
	defer rows.Close()

	tas := []model.TA{}
	for rows.Next() {
		ta := model.TA{QualifiedLabs: map[model.CourseID]bool{}, Busy: map[model.TimeSlot]bool{}}
		if err := rows.Scan(&ta.ID, &ta.Name); err != nil {
			return nil, fmt.Errorf("load tas: %w", err)
		}
		tas = append(tas, ta)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	index := lo.SliceToMap(lo.Range(len(tas)), func(i int) (model.TAID, int) {
		return tas[i].ID, i
	})
	links, err := store.db.QueryContext(ctx, `SELECT ta_id, course_id FROM ta_labs`)
	if err != nil {
		return nil, fmt.Errorf("load ta qualifications: %w", err)
	}
	defer links.Close()
	for links.Next() {
		var taID model.TAID
		var courseID model.CourseID
		if err := links.Scan(&taID, &courseID); err != nil {
			return nil, fmt.Errorf("load ta qualifications: %w", err)
		}
		if i, found := index[taID]; found {
			tas[i].QualifiedLabs[courseID] = true
		}
	}
	return tas, links.Err()
}

func (store *sqliteStore) loadRooms(ctx context.Context) ([]model.Room, error) {
	rows, err := store.db.QueryContext(ctx, `SELECT id, code, capacity, type FROM rooms ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	defer rows.Close()

	rooms := []model.Room{}
	for rows.Next() {
		var room model.Room
		var roomType string
		if err := rows.Scan(&room.ID, &room.Code, &room.Capacity, &roomType); err != nil {
			return nil, fmt.Errorf("load rooms: %w", err)
		}
		parsed, err := model.ParseRoomType(roomType)
		if err != nil {
			return nil, fmt.Errorf("load room %v: %w", room.ID, err)
		}
		room.Type = parsed
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (store *sqliteStore) loadSlots(ctx context.Context) ([]model.TimeSlot, error) {
	rows, err := store.db.QueryContext(ctx, `SELECT day, slot_index FROM timeslots`)
	if err != nil {
		return nil, fmt.Errorf("load timeslots: %w", err)
	}
	defer rows.Close()

	slots := []model.TimeSlot{}
	for rows.Next() {
		var day string
		var slot model.TimeSlot
		if err := rows.Scan(&day, &slot.Index); err != nil {
			return nil, fmt.Errorf("load timeslots: %w", err)
		}
		parsed, err := model.ParseWeekday(day)
		if err != nil {
			return nil, fmt.Errorf("load timeslots: %w", err)
		}
		slot.Day = parsed
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func (store *sqliteStore) loadBusy(ctx context.Context, professors []model.Professor, tas []model.TA) error {
	professorIndex := lo.SliceToMap(lo.Range(len(professors)), func(i int) (model.ProfessorID, int) {
		return professors[i].ID, i
	})
	taIndex := lo.SliceToMap(lo.Range(len(tas)), func(i int) (model.TAID, int) {
		return tas[i].ID, i
	})

	rows, err := store.db.QueryContext(ctx, `SELECT role, instructor_id, day, slot_index FROM busy_slots`)
	if err != nil {
		return fmt.Errorf("load busy slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var roleName, dayName string
		var id int
		var slot model.TimeSlot
		if err := rows.Scan(&roleName, &id, &dayName, &slot.Index); err != nil {
			return fmt.Errorf("load busy slots: %w", err)
		}
		role, err := model.ParseInstructorRole(roleName)
		if err != nil {
			return fmt.Errorf("load busy slots: %w", err)
		}
		day, err := model.ParseWeekday(dayName)
		if err != nil {
			return fmt.Errorf("load busy slots: %w", err)
		}
		slot.Day = day

		switch role {
		case model.RoleProfessor:
			if i, found := professorIndex[model.ProfessorID(id)]; found {
				professors[i].Busy[slot] = true
			}
		case model.RoleTA:
			if i, found := taIndex[model.TAID(id)]; found {
				tas[i].Busy[slot] = true
			}
		}
	}
	return rows.Err()
}

// Stats reports the row count of every catalog table, keyed by table name.
func (store *sqliteStore) Stats(ctx context.Context) (map[string]int, error) {
	stats := map[string]int{}
	for _, table := range tables {
		var count int
		if err := store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return nil, fmt.Errorf("count %v: %w", table, err)
		}
		stats[table] = count
	}
	return stats, nil
}

func sortedCourseIDs(set map[model.CourseID]bool) []model.CourseID {
	ids := lo.Keys(set)
	slices.Sort(ids)
	return ids
}
