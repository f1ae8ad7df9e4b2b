package export

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"coursetable/pkg/model"
)

const sheetName = "Timetable"

// Excel renders the schedule as a spreadsheet grid, slot indexes as rows and
// weekdays as columns. Declared slots without a session show a dash;
// undeclared (day, index) combinations stay blank.
func Excel(catalog *model.Catalog, result *model.Result) (*bytes.Buffer, error) {
	entries, err := Entries(catalog, result)
	if err != nil {
		return nil, err
	}

	days := lo.Uniq(lo.Map(catalog.Slots(), func(slot model.TimeSlot, _ int) model.Weekday {
		return slot.Day
	}))
	indexes := lo.Uniq(lo.Map(catalog.Slots(), func(slot model.TimeSlot, _ int) int {
		return slot.Index
	}))
	slices.Sort(days)
	slices.Sort(indexes)

	cells := map[model.TimeSlot][]string{}
	for _, item := range entries {
		text := fmt.Sprintf("%s %v\n%s\n%s", item.CourseCode, item.Session.Kind, item.Room, item.Instructor)
		cells[item.Slot] = append(cells[item.Slot], text)
	}

	file := excelize.NewFile()
	defer file.Close()

	index, err := file.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	file.SetActiveSheet(index)
	file.DeleteSheet("Sheet1")

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	bodyStyle, err := file.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	lastColumn, _ := excelize.ColumnNumberToName(len(days) + 1)

	file.SetCellValue(sheetName, "A1", "Course timetable")
	file.MergeCell(sheetName, "A1", lastColumn+"1")
	file.SetCellValue(sheetName, "A2", "Slot")
	for column, day := range days {
		cell, _ := excelize.CoordinatesToCellName(column+2, 2)
		file.SetCellValue(sheetName, cell, day.String())
	}

	for offset, slotIndex := range indexes {
		row := offset + 3
		cell, _ := excelize.CoordinatesToCellName(1, row)
		file.SetCellValue(sheetName, cell, slotIndex)

		for column, day := range days {
			slot := model.TimeSlot{Day: day, Index: slotIndex}
			cell, _ := excelize.CoordinatesToCellName(column+2, row)
			switch {
			case len(cells[slot]) > 0:
				file.SetCellValue(sheetName, cell, strings.Join(cells[slot], "\n\n"))
			case catalog.HasSlot(slot):
				file.SetCellValue(sheetName, cell, "-")
			}
		}
	}

	file.SetCellStyle(sheetName, "A1", lastColumn+"2", headerStyle)
	if len(indexes) > 0 {
		file.SetCellStyle(sheetName, "A3", fmt.Sprintf("%s%d", lastColumn, len(indexes)+2), bodyStyle)
	}
	file.SetColWidth(sheetName, "A", "A", 8)
	file.SetColWidth(sheetName, "B", lastColumn, 28)

	buffer := new(bytes.Buffer)
	if err := file.Write(buffer); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buffer, nil
}
