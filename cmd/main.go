// A small end-to-end smoke run: schedules a built-in catalog, prints the
// timetable and verifies it.
package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"coursetable/internal/export"
	"coursetable/internal/scheduler"
	"coursetable/pkg/model"
)

func main() {
	catalog, err := model.NewCatalog(
		[]model.Course{
			{ID: 101, Name: "Algorithms", Code: "CS101", Enrollment: 45, HasLab: true, LabType: model.LabCS},
			{ID: 102, Name: "Calculus", Code: "MA102", Enrollment: 30},
			{ID: 103, Name: "Mechanics", Code: "PH103", Enrollment: 60, HasLab: true, LabType: model.LabPhysics, IsGeneralProgram: true},
		},
		[]model.Professor{
			{ID: 1, Name: "Ada Lovelace", Qualified: map[model.CourseID]bool{101: true, 102: true}},
			{ID: 2, Name: "Edsger Dijkstra", Qualified: map[model.CourseID]bool{101: true, 103: true}},
		},
		[]model.TA{
			{ID: 1, Name: "Grace Hopper", QualifiedLabs: map[model.CourseID]bool{101: true}},
			{ID: 2, Name: "Margaret Hamilton", QualifiedLabs: map[model.CourseID]bool{103: true}},
		},
		[]model.Room{
			{ID: 1, Code: "A-101", Capacity: 60, Type: model.Classroom},
			{ID: 2, Code: "T-MAIN", Capacity: 150, Type: model.Theater},
			{ID: 3, Code: "L-CS1", Capacity: 50, Type: model.LabCS},
			{ID: 4, Code: "L-PH1", Capacity: 60, Type: model.LabPhysics},
		},
		[]model.TimeSlot{
			{Day: model.Monday, Index: 0}, {Day: model.Monday, Index: 1}, {Day: model.Monday, Index: 2},
			{Day: model.Tuesday, Index: 0}, {Day: model.Tuesday, Index: 1}, {Day: model.Tuesday, Index: 2},
			{Day: model.Wednesday, Index: 0}, {Day: model.Wednesday, Index: 1}, {Day: model.Wednesday, Index: 2},
		},
	)
	if err != nil {
		log.Fatalf("cannot build catalog: %v", err)
	}

	engine := scheduler.New(model.Config{SoftCostWeight: 1}, zap.NewNop())
	result, err := engine.Schedule(context.Background(), catalog)
	if err != nil {
		log.Fatal(err)
	} else if result.Outcome != model.Committed {
		fmt.Printf("Not schedulable: %v\n", result.Outcome)
		return
	}

	entries, err := export.Entries(catalog, result)
	if err != nil {
		log.Fatal(err)
	}
	for _, entry := range entries {
		fmt.Printf("Day: %v, Slot: %v, Session: %v %v, Room: %v, Instructor: %v\n",
			entry.Slot.Day, entry.Slot.Index, entry.CourseCode, entry.Session.Kind, entry.Room, entry.Instructor)
	}
	fmt.Printf("Cost: %v, Iterations: %v\n", result.Cost, result.Iterations)

	if issues := scheduler.Verify(catalog, result); len(issues) > 0 {
		log.Fatalf("Verification failed: %v", issues)
	}

	fmt.Println("Well done!")
}
