package httpapi

import (
	"slices"

	"github.com/samber/lo"

	"coursetable/internal/export"
	"coursetable/pkg/model"
)

// View structs mirror the JSON catalog document format, so a catalog read
// back from the API matches the shape accepted by PUT /catalog.

type slotView struct {
	Day   string `json:"day"`
	Index int    `json:"index"`
}

type courseView struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Code             string `json:"code"`
	Enrollment       int    `json:"enrollment"`
	HasLab           bool   `json:"hasLab"`
	IsGeneralProgram bool   `json:"isGeneralProgram"`
	LabType          string `json:"labType,omitempty"`
}

type professorView struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Qualified []int      `json:"qualified"`
	Busy      []slotView `json:"busy"`
}

type taView struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	QualifiedLabs []int      `json:"qualifiedLabs"`
	Busy          []slotView `json:"busy"`
}

type roomView struct {
	ID       int    `json:"id"`
	Code     string `json:"code"`
	Capacity int    `json:"capacity"`
	Type     string `json:"type"`
}

type instructorsView struct {
	Professors []professorView `json:"professors"`
	TAs        []taView        `json:"tas"`
}

type assignmentView struct {
	Course     int      `json:"course"`
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	Session    string   `json:"session"`
	Slot       slotView `json:"slot"`
	Room       string   `json:"room"`
	Instructor string   `json:"instructor"`
}

type blockedView struct {
	Session    string   `json:"session"`
	Violations []string `json:"violations"`
}

type resultView struct {
	Outcome     string           `json:"outcome"`
	Cost        float64          `json:"cost"`
	Iterations  int              `json:"iterations"`
	Assignments []assignmentView `json:"assignments"`
	Blocked     []blockedView    `json:"blocked,omitempty"`
}

type runView struct {
	ID      string      `json:"id"`
	Status  string      `json:"status"`
	Elapsed string      `json:"elapsed,omitempty"`
	Error   string      `json:"error,omitempty"`
	Result  *resultView `json:"result,omitempty"`
}

func newSlotView(slot model.TimeSlot) slotView {
	return slotView{Day: slot.Day.String(), Index: slot.Index}
}

func newCourseView(course model.Course) courseView {
	view := courseView{
		ID:               int(course.ID),
		Name:             course.Name,
		Code:             course.Code,
		Enrollment:       course.Enrollment,
		HasLab:           course.HasLab,
		IsGeneralProgram: course.IsGeneralProgram,
	}
	if course.HasLab {
		view.LabType = course.LabType.String()
	}
	return view
}

func newProfessorView(professor model.Professor) professorView {
	return professorView{
		ID:        int(professor.ID),
		Name:      professor.Name,
		Qualified: sortedCourses(professor.Qualified),
		Busy:      sortedBusy(professor.Busy),
	}
}

func newTAView(ta model.TA) taView {
	return taView{
		ID:            int(ta.ID),
		Name:          ta.Name,
		QualifiedLabs: sortedCourses(ta.QualifiedLabs),
		Busy:          sortedBusy(ta.Busy),
	}
}

func newRoomView(room model.Room) roomView {
	return roomView{
		ID:       int(room.ID),
		Code:     room.Code,
		Capacity: room.Capacity,
		Type:     room.Type.String(),
	}
}

func newResultView(catalog *model.Catalog, result *model.Result) (resultView, error) {
	entries, err := export.Entries(catalog, result)
	if err != nil {
		return resultView{}, err
	}

	return resultView{
		Outcome:    result.Outcome.String(),
		Cost:       result.Cost,
		Iterations: result.Iterations,
		Assignments: lo.Map(entries, func(entry export.Entry, _ int) assignmentView {
			return assignmentView{
				Course:     int(entry.Session.Course),
				Code:       entry.CourseCode,
				Name:       entry.CourseName,
				Session:    entry.Session.Kind.String(),
				Slot:       newSlotView(entry.Slot),
				Room:       entry.Room,
				Instructor: entry.Instructor,
			}
		}),
		Blocked: lo.Map(result.Blocked, func(blocked model.BlockedSession, _ int) blockedView {
			return blockedView{
				Session: blocked.Session.String(),
				Violations: lo.Map(blocked.Violations, func(violation model.Violation, _ int) string {
					return violation.String()
				}),
			}
		}),
	}, nil
}

func sortedCourses(set map[model.CourseID]bool) []int {
	ids := lo.Map(lo.Keys(set), func(id model.CourseID, _ int) int { return int(id) })
	slices.Sort(ids)
	return ids
}

func sortedBusy(set map[model.TimeSlot]bool) []slotView {
	slots := lo.Keys(set)
	slices.SortFunc(slots, model.TimeSlot.Compare)
	return lo.Map(slots, func(slot model.TimeSlot, _ int) slotView {
		return newSlotView(slot)
	})
}
