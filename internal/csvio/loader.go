// Package csvio loads catalogs from CSV datasets and writes schedules back
// out as CSV.
package csvio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gocarina/gocsv"
	"github.com/samber/lo"

	"coursetable/pkg/model"
)

// Paths names the catalog files of one dataset. Busy may point at a missing
// file; an absent busy list just means nobody is busy.
type Paths struct {
	Courses    string
	Professors string
	TAs        string
	Rooms      string
	TimeSlots  string
	Busy       string
}

// DirPaths resolves the conventional file names inside a dataset directory.
func DirPaths(dir string) Paths {
	return Paths{
		Courses:    filepath.Join(dir, "courses.csv"),
		Professors: filepath.Join(dir, "professors.csv"),
		TAs:        filepath.Join(dir, "tas.csv"),
		Rooms:      filepath.Join(dir, "rooms.csv"),
		TimeSlots:  filepath.Join(dir, "timeslots.csv"),
		Busy:       filepath.Join(dir, "busy.csv"),
	}
}

// idList parses a pipe separated list of numeric ids, like "12|7|3".
type idList []int

func (list *idList) UnmarshalCSV(value string) error {
	*list = idList{}
	if strings.TrimSpace(value) == "" {
		return nil
	}

	for _, field := range strings.Split(value, "|") {
		id, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return fmt.Errorf("id list entry %q: %w", field, err)
		}
		*list = append(*list, id)
	}
	return nil
}

type courseRow struct {
	ID               int    `csv:"course_id" validate:"required"`
	Name             string `csv:"name" validate:"required"`
	Code             string `csv:"code" validate:"required"`
	Enrollment       int    `csv:"enrollment" validate:"gt=0"`
	HasLab           bool   `csv:"has_lab"`
	LabType          string `csv:"lab_type" validate:"required_if=HasLab true"`
	IsGeneralProgram bool   `csv:"general_program"`
}

type professorRow struct {
	ID        int    `csv:"professor_id" validate:"required"`
	Name      string `csv:"name" validate:"required"`
	Qualified idList `csv:"qualified_courses"`
}

type taRow struct {
	ID            int    `csv:"ta_id" validate:"required"`
	Name          string `csv:"name" validate:"required"`
	QualifiedLabs idList `csv:"qualified_labs"`
}

type roomRow struct {
	ID       int    `csv:"room_id" validate:"required"`
	Code     string `csv:"code" validate:"required"`
	Capacity int    `csv:"capacity" validate:"gt=0"`
	Type     string `csv:"type" validate:"required"`
}

type slotRow struct {
	Day   string `csv:"day" validate:"required"`
	Index int    `csv:"slot" validate:"gte=0"`
}

type busyRow struct {
	Role string `csv:"role" validate:"oneof=professor ta"`
	ID   int    `csv:"instructor_id" validate:"required"`
	Day  string `csv:"day" validate:"required"`
	Slot int    `csv:"slot" validate:"gte=0"`
}

// LoadCatalog reads a CSV dataset and builds a validated catalog. Row shape
// problems, unparsable enum names and catalog inconsistencies are all
// collected into a single ValidationError instead of stopping at the first.
func LoadCatalog(paths Paths) (*model.Catalog, error) {
	courseRows, err := readRows[courseRow](paths.Courses)
	if err != nil {
		return nil, err
	}
	professorRows, err := readRows[professorRow](paths.Professors)
	if err != nil {
		return nil, err
	}
	taRows, err := readRows[taRow](paths.TAs)
	if err != nil {
		return nil, err
	}
	roomRows, err := readRows[roomRow](paths.Rooms)
	if err != nil {
		return nil, err
	}
	slotRows, err := readRows[slotRow](paths.TimeSlots)
	if err != nil {
		return nil, err
	}
	busyRows, err := readRows[busyRow](paths.Busy)
	if errors.Is(err, fs.ErrNotExist) {
		busyRows = nil
	} else if err != nil {
		return nil, err
	}

	validate := validator.New()

	issues := []string{}
	issues = append(issues, validateRows(validate, "courses", courseRows)...)
	issues = append(issues, validateRows(validate, "professors", professorRows)...)
	issues = append(issues, validateRows(validate, "tas", taRows)...)
	issues = append(issues, validateRows(validate, "rooms", roomRows)...)
	issues = append(issues, validateRows(validate, "timeslots", slotRows)...)
	issues = append(issues, validateRows(validate, "busy", busyRows)...)
	if len(issues) > 0 {
		return nil, &model.ValidationError{Issues: issues}
	}

	courses := lo.Map(courseRows, func(row courseRow, index int) model.Course {
		course := model.Course{
			ID:               model.CourseID(row.ID),
			Name:             row.Name,
			Code:             row.Code,
			Enrollment:       row.Enrollment,
			HasLab:           row.HasLab,
			IsGeneralProgram: row.IsGeneralProgram,
		}
		if row.HasLab {
			labType, err := model.ParseRoomType(row.LabType)
			if err != nil {
				issues = append(issues, fmt.Sprintf("courses row %d: %v", index+1, err))
			}
			course.LabType = labType
		}
		return course
	})

	professors := lo.Map(professorRows, func(row professorRow, _ int) model.Professor {
		return model.Professor{
			ID:        model.ProfessorID(row.ID),
			Name:      row.Name,
			Qualified: courseSet(row.Qualified),
			Busy:      map[model.TimeSlot]bool{},
		}
	})
	tas := lo.Map(taRows, func(row taRow, _ int) model.TA {
		return model.TA{
			ID:            model.TAID(row.ID),
			Name:          row.Name,
			QualifiedLabs: courseSet(row.QualifiedLabs),
			Busy:          map[model.TimeSlot]bool{},
		}
	})

	rooms := lo.Map(roomRows, func(row roomRow, index int) model.Room {
		roomType, err := model.ParseRoomType(row.Type)
		if err != nil {
			issues = append(issues, fmt.Sprintf("rooms row %d: %v", index+1, err))
		}
		return model.Room{
			ID:       model.RoomID(row.ID),
			Code:     row.Code,
			Capacity: row.Capacity,
			Type:     roomType,
		}
	})

	slots := lo.Map(slotRows, func(row slotRow, index int) model.TimeSlot {
		day, err := model.ParseWeekday(row.Day)
		if err != nil {
			issues = append(issues, fmt.Sprintf("timeslots row %d: %v", index+1, err))
		}
		return model.TimeSlot{Day: day, Index: row.Index}
	})

	issues = append(issues, applyBusy(busyRows, professors, tas)...)
	if len(issues) > 0 {
		return nil, &model.ValidationError{Issues: issues}
	}

	return model.NewCatalog(courses, professors, tas, rooms, slots)
}

func readRows[Row any](path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %v: %w", path, err)
	}
	defer file.Close()

	rows := []Row{}
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("parse %v: %w", path, err)
	}
	return rows, nil
}

func validateRows[Row any](validate *validator.Validate, file string, rows []Row) []string {
	issues := []string{}
	for index, row := range rows {
		if err := validate.Struct(row); err != nil {
			issues = append(issues, fmt.Sprintf("%v row %d: %v", file, index+1, err))
		}
	}
	return issues
}

// applyBusy marks the referenced instructors busy. Unknown references are
// reported rather than dropped.
func applyBusy(rows []busyRow, professors []model.Professor, tas []model.TA) []string {
	professorIndex := lo.SliceToMap(professors, func(professor model.Professor) (model.ProfessorID, model.Professor) {
		return professor.ID, professor
	})
	taIndex := lo.SliceToMap(tas, func(ta model.TA) (model.TAID, model.TA) {
		return ta.ID, ta
	})

	issues := []string{}
	for index, row := range rows {
		day, err := model.ParseWeekday(row.Day)
		if err != nil {
			issues = append(issues, fmt.Sprintf("busy row %d: %v", index+1, err))
			continue
		}
		slot := model.TimeSlot{Day: day, Index: row.Slot}

		role, err := model.ParseInstructorRole(row.Role)
		if err != nil {
			issues = append(issues, fmt.Sprintf("busy row %d: %v", index+1, err))
			continue
		}

		switch role {
		case model.RoleProfessor:
			professor, found := professorIndex[model.ProfessorID(row.ID)]
			if !found {
				issues = append(issues, fmt.Sprintf("busy row %d: unknown professor %d", index+1, row.ID))
				continue
			}
			professor.Busy[slot] = true
		case model.RoleTA:
			ta, found := taIndex[model.TAID(row.ID)]
			if !found {
				issues = append(issues, fmt.Sprintf("busy row %d: unknown ta %d", index+1, row.ID))
				continue
			}
			ta.Busy[slot] = true
		}
	}
	return issues
}

func courseSet(ids idList) map[model.CourseID]bool {
	return lo.SliceToMap(ids, func(id int) (model.CourseID, bool) {
		return model.CourseID(id), true
	})
}
