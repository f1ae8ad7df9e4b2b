package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

type RawSlot struct {
	Day   string
	Index int
}

type RawCourse struct {
	ID               int
	Name             string
	Code             string
	Enrollment       int
	HasLab           bool   `mapstructure:"hasLab"`
	IsGeneralProgram bool   `mapstructure:"isGeneralProgram"`
	LabType          string `mapstructure:"labType"`
}

type RawProfessor struct {
	ID        int
	Name      string
	Qualified []int
	Busy      []RawSlot
}

type RawTA struct {
	ID            int
	Name          string
	QualifiedLabs []int `mapstructure:"qualifiedLabs"`
	Busy          []RawSlot
}

type RawRoom struct {
	ID       int
	Code     string
	Capacity int
	Type     string
}

// RawCatalog mirrors the external catalog document before any validation.
type RawCatalog struct {
	Courses    []RawCourse
	Professors []RawProfessor
	TAs        []RawTA `mapstructure:"tas"`
	Rooms      []RawRoom
	TimeSlots  []RawSlot `mapstructure:"timeSlots"`
}

// Catalog parses and validates the raw document. Parse issues and semantic
// issues are collected together into a single ValidationError.
func (raw RawCatalog) Catalog() (*Catalog, error) {
	issues := []string{}

	courses := make([]Course, 0, len(raw.Courses))
	for _, rawCourse := range raw.Courses {
		course := Course{
			ID:               CourseID(rawCourse.ID),
			Name:             rawCourse.Name,
			Code:             rawCourse.Code,
			Enrollment:       rawCourse.Enrollment,
			HasLab:           rawCourse.HasLab,
			IsGeneralProgram: rawCourse.IsGeneralProgram,
		}
		if rawCourse.HasLab {
			if rawCourse.LabType == "" {
				issues = append(issues, fmt.Sprintf("course %d: lab course without labType", rawCourse.ID))
			} else if labType, err := ParseRoomType(rawCourse.LabType); err != nil {
				issues = append(issues, fmt.Sprintf("course %d: %v", rawCourse.ID, err))
			} else {
				course.LabType = labType
			}
		}
		courses = append(courses, course)
	}

	professors := make([]Professor, 0, len(raw.Professors))
	for _, rawProfessor := range raw.Professors {
		busy, busyIssues := slotSet(fmt.Sprintf("professor %d", rawProfessor.ID), rawProfessor.Busy)
		issues = append(issues, busyIssues...)
		professors = append(professors, Professor{
			ID:        ProfessorID(rawProfessor.ID),
			Name:      rawProfessor.Name,
			Qualified: courseSet(rawProfessor.Qualified),
			Busy:      busy,
		})
	}

	tas := make([]TA, 0, len(raw.TAs))
	for _, rawTA := range raw.TAs {
		busy, busyIssues := slotSet(fmt.Sprintf("ta %d", rawTA.ID), rawTA.Busy)
		issues = append(issues, busyIssues...)
		tas = append(tas, TA{
			ID:            TAID(rawTA.ID),
			Name:          rawTA.Name,
			QualifiedLabs: courseSet(rawTA.QualifiedLabs),
			Busy:          busy,
		})
	}

	rooms := make([]Room, 0, len(raw.Rooms))
	for _, rawRoom := range raw.Rooms {
		room := Room{
			ID:       RoomID(rawRoom.ID),
			Code:     rawRoom.Code,
			Capacity: rawRoom.Capacity,
		}
		if roomType, err := ParseRoomType(rawRoom.Type); err != nil {
			issues = append(issues, fmt.Sprintf("room %d: %v", rawRoom.ID, err))
		} else {
			room.Type = roomType
		}
		rooms = append(rooms, room)
	}

	slots := make([]TimeSlot, 0, len(raw.TimeSlots))
	for _, rawSlot := range raw.TimeSlots {
		day, err := ParseWeekday(rawSlot.Day)
		if err != nil {
			issues = append(issues, fmt.Sprintf("time slot %q/%d: %v", rawSlot.Day, rawSlot.Index, err))
			continue
		}
		slots = append(slots, TimeSlot{Day: day, Index: rawSlot.Index})
	}

	catalog, err := NewCatalog(courses, professors, tas, rooms, slots)
	if err != nil {
		var validation *ValidationError
		if !errors.As(err, &validation) {
			return nil, err
		}
		issues = append(issues, validation.Issues...)
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	return catalog, nil
}

// DecodeCatalog parses and validates a JSON catalog document.
func DecodeCatalog(content []byte) (*Catalog, error) {
	var document map[string]any
	if err := json.Unmarshal(content, &document); err != nil {
		return nil, err
	}

	var raw RawCatalog
	if err := mapstructure.Decode(document, &raw); err != nil {
		return nil, err
	}

	return raw.Catalog()
}

// CatalogFromJSON reads, parses and validates a catalog document from a
// JSON file.
func CatalogFromJSON(file string) (*Catalog, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return DecodeCatalog(content)
}

func courseSet(ids []int) map[CourseID]bool {
	return lo.SliceToMap(ids, func(id int) (CourseID, bool) {
		return CourseID(id), true
	})
}

func slotSet(owner string, rawSlots []RawSlot) (map[TimeSlot]bool, []string) {
	issues := []string{}
	set := make(map[TimeSlot]bool, len(rawSlots))
	for _, rawSlot := range rawSlots {
		day, err := ParseWeekday(rawSlot.Day)
		if err != nil {
			issues = append(issues, fmt.Sprintf("%v: %v", owner, err))
			continue
		}
		set[TimeSlot{Day: day, Index: rawSlot.Index}] = true
	}
	return set, issues
}
