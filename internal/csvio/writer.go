package csvio

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"

	"coursetable/internal/export"
	"coursetable/pkg/model"
)

// scheduleRow is one line of the exported schedule.
type scheduleRow struct {
	Day        string `csv:"day"`
	Slot       int    `csv:"slot"`
	CourseCode string `csv:"course_code"`
	CourseName string `csv:"course_name"`
	Session    string `csv:"session"`
	Room       string `csv:"room"`
	Instructor string `csv:"instructor"`
}

// WriteSchedule renders the assignments of a result as CSV, sorted by day,
// slot and course so reruns diff cleanly.
func WriteSchedule(out io.Writer, catalog *model.Catalog, result *model.Result) error {
	rows, err := scheduleRows(catalog, result)
	if err != nil {
		return err
	}
	return gocsv.Marshal(&rows, out)
}

// ScheduleString renders the schedule CSV in memory.
func ScheduleString(catalog *model.Catalog, result *model.Result) (string, error) {
	rows, err := scheduleRows(catalog, result)
	if err != nil {
		return "", err
	}
	return gocsv.MarshalString(&rows)
}

// SaveSchedule writes the schedule CSV to a file, replacing any previous one.
func SaveSchedule(path string, catalog *model.Catalog, result *model.Result) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %v: %w", path, err)
	}
	defer out.Close()

	return WriteSchedule(out, catalog, result)
}

func scheduleRows(catalog *model.Catalog, result *model.Result) ([]scheduleRow, error) {
	entries, err := export.Entries(catalog, result)
	if err != nil {
		return nil, err
	}

	return lo.Map(entries, func(item export.Entry, _ int) scheduleRow {
		return scheduleRow{
			Day:        item.Slot.Day.String(),
			Slot:       item.Slot.Index,
			CourseCode: item.CourseCode,
			CourseName: item.CourseName,
			Session:    item.Session.Kind.String(),
			Room:       item.Room,
			Instructor: item.Instructor,
		}
	}), nil
}
