// Command benchmark times the scheduling engine over synthetic catalogs of
// growing size and writes the measurements to benchmark_results.csv.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"coursetable/internal/scheduler"
	"coursetable/pkg/model"
)

const MB float32 = 1024 * 1024

type CatalogMetadata struct {
	Name       string
	Courses    int
	Sessions   int
	Professors int
	TAs        int
	Rooms      int
	Slots      int
}

type EngineMetadata struct {
	Workers        int
	SoftCostWeight float64
}

type BenchmarkResult struct {
	Engine   EngineMetadata
	Catalog  CatalogMetadata
	Duration time.Duration
	Memory   float32
	Outcome  model.Outcome
	Iters    int
	Cost     float64
}

func main() {
	catalogs := getCatalogs()
	engines := getEngines()
	results := make([]BenchmarkResult, 0, len(catalogs)*len(engines))

	for _, catalog := range catalogs {
		metadata := describe(catalog)
		for _, engine := range engines {
			fmt.Printf("Benchmarking catalog %q with %v worker(s) and soft-cost weight %v\n",
				metadata.Name, engine.Workers, engine.SoftCostWeight)

			duration, memory, result := measure(catalog, engine)

			results = append(results, BenchmarkResult{
				Engine:   engine,
				Catalog:  metadata,
				Duration: duration,
				Memory:   memory,
				Outcome:  result.Outcome,
				Iters:    result.Iterations,
				Cost:     result.Cost,
			})
		}
	}

	toCsv(results)
}

func getCatalogs() []*model.Catalog {
	scales := []int{10, 20, 40}
	catalogs := make([]*model.Catalog, 0, len(scales))
	for _, scale := range scales {
		catalog, err := synthesize(scale)
		if err != nil {
			log.Fatalf("cannot synthesize catalog of %v courses: %v", scale, err)
		}
		catalogs = append(catalogs, catalog)
	}
	return catalogs
}

func getEngines() []EngineMetadata {
	return []EngineMetadata{
		{Workers: 1, SoftCostWeight: 0},
		{Workers: 1, SoftCostWeight: 1},
		{Workers: 4, SoftCostWeight: 0},
		{Workers: 4, SoftCostWeight: 1},
	}
}

// synthesize builds a deterministic feasible catalog: every second course
// carries a lab, professors split the lectures round robin with one course
// of overlap, and the room pool keeps enough slack for every session.
func synthesize(courses int) (*model.Catalog, error) {
	labTypes := []model.RoomType{model.LabCS, model.LabPhysics, model.LabDigital}

	courseList := make([]model.Course, 0, courses)
	for i := 1; i <= courses; i++ {
		course := model.Course{
			ID:               model.CourseID(i),
			Name:             fmt.Sprintf("Course %v", i),
			Code:             fmt.Sprintf("CS%v", 100+i),
			Enrollment:       30 + (i%3)*15,
			HasLab:           i%2 == 0,
			IsGeneralProgram: i%5 == 0,
		}
		if course.HasLab {
			course.LabType = labTypes[(i/2)%len(labTypes)]
		}
		courseList = append(courseList, course)
	}

	professorCount := max(1, courses/2)
	professors := make([]model.Professor, 0, professorCount)
	for j := 0; j < professorCount; j++ {
		qualified := map[model.CourseID]bool{}
		for i := 1; i <= courses; i++ {
			if i%professorCount == j || (i+1)%professorCount == j {
				qualified[model.CourseID(i)] = true
			}
		}
		professors = append(professors, model.Professor{
			ID:        model.ProfessorID(j + 1),
			Name:      fmt.Sprintf("Professor %v", j+1),
			Qualified: qualified,
			Busy:      map[model.TimeSlot]bool{},
		})
	}

	labCourses := lo.Filter(courseList, func(course model.Course, _ int) bool { return course.HasLab })
	taCount := max(1, courses/4)
	tas := make([]model.TA, 0, taCount)
	for j := 0; j < taCount; j++ {
		qualified := map[model.CourseID]bool{}
		for k, course := range labCourses {
			if k%taCount == j {
				qualified[course.ID] = true
			}
		}
		tas = append(tas, model.TA{
			ID:            model.TAID(j + 1),
			Name:          fmt.Sprintf("TA %v", j+1),
			QualifiedLabs: qualified,
			Busy:          map[model.TimeSlot]bool{},
		})
	}

	rooms := make([]model.Room, 0, courses)
	for i := 1; i <= max(2, courses/2); i++ {
		rooms = append(rooms, model.Room{
			ID:       model.RoomID(i),
			Code:     fmt.Sprintf("A-%v", 100+i),
			Capacity: 120,
			Type:     model.Classroom,
		})
	}
	for index, labType := range labTypes {
		for i := 0; i < max(1, courses/8); i++ {
			rooms = append(rooms, model.Room{
				ID:       model.RoomID(1000 + index*100 + i),
				Code:     fmt.Sprintf("L-%v%v", index+1, i+1),
				Capacity: 90,
				Type:     labType,
			})
		}
	}

	days := []model.Weekday{model.Monday, model.Tuesday, model.Wednesday, model.Thursday, model.Friday}
	slots := make([]model.TimeSlot, 0, len(days)*6)
	for _, day := range days {
		for index := 0; index < 6; index++ {
			slots = append(slots, model.TimeSlot{Day: day, Index: index})
		}
	}

	return model.NewCatalog(courseList, professors, tas, rooms, slots)
}

func describe(catalog *model.Catalog) CatalogMetadata {
	return CatalogMetadata{
		Name:       fmt.Sprintf("synthetic-%v", len(catalog.Courses())),
		Courses:    len(catalog.Courses()),
		Sessions:   len(catalog.Sessions()),
		Professors: len(catalog.Professors()),
		TAs:        len(catalog.TAs()),
		Rooms:      len(catalog.Rooms()),
		Slots:      len(catalog.Slots()),
	}
}

func measure(catalog *model.Catalog, engine EngineMetadata) (time.Duration, float32, *model.Result) {
	config := model.Config{
		Workers:        engine.Workers,
		SoftCostWeight: engine.SoftCostWeight,
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	started := time.Now()
	result, err := scheduler.New(config, zap.NewNop()).Schedule(context.Background(), catalog)
	if err != nil {
		log.Fatalf("an error occurred while scheduling %q: %v", describe(catalog).Name, err)
	}
	duration := time.Since(started)

	runtime.ReadMemStats(&after)
	memory := float32(after.TotalAlloc-before.TotalAlloc) / MB

	return duration, memory, result
}

func toCsv(results []BenchmarkResult) {
	file, err := os.Create("benchmark_results.csv")
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Catalog", "Courses", "Sessions", "Professors", "TAs", "Rooms", "Slots", "Workers", "SoftCostWeight", "Duration(ms)", "Alloc(MB)", "Iterations", "Cost", "Outcome"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			result.Catalog.Name,
			fmt.Sprintf("%d", result.Catalog.Courses),
			fmt.Sprintf("%d", result.Catalog.Sessions),
			fmt.Sprintf("%d", result.Catalog.Professors),
			fmt.Sprintf("%d", result.Catalog.TAs),
			fmt.Sprintf("%d", result.Catalog.Rooms),
			fmt.Sprintf("%d", result.Catalog.Slots),
			fmt.Sprintf("%d", result.Engine.Workers),
			fmt.Sprintf("%v", result.Engine.SoftCostWeight),
			fmt.Sprintf("%d", result.Duration.Milliseconds()),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.Iters),
			fmt.Sprintf("%.2f", result.Cost),
			result.Outcome.String(),
		}
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}
