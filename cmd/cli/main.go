// Command cli loads a catalog, runs the scheduling engine once and writes
// the resulting timetable.
//
// Exit codes: 0 when a schedule was produced, 2 when the search failed or
// ran out of budget, 3 when the produced schedule failed verification.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"coursetable/config"
	"coursetable/internal/csvio"
	"coursetable/internal/export"
	"coursetable/internal/scheduler"
	"coursetable/pkg/logger"
	"coursetable/pkg/model"
)

var validFormats = []string{"csv", "ics", "xlsx"}

func main() {
	filePtr := flag.String("file", "", "path to a JSON catalog document")
	csvPtr := flag.String("csv", "", "path to a directory holding the CSV dataset (courses.csv, professors.csv, tas.csv, rooms.csv, timeslots.csv and optionally busy.csv)")
	configPtr := flag.String("config", "", "path to a YAML config file")
	outPtr := flag.String("out", "", "path to the output file; if empty, the schedule is written to the Standard Output")
	formatPtr := flag.String("format", "csv", `output format. Allowed values are: "csv", "ics" and "xlsx", where "csv" is the default`)
	flag.Parse()
	format := strings.ToLower(*formatPtr)

	// Validate arguments
	if (*filePtr == "") == (*csvPtr == "") {
		log.Fatal("exactly one of -file and -csv must be specified")
	} else if !slices.Contains(validFormats, format) {
		log.Fatalf("%v is not a valid format", format)
	} else if format == "xlsx" && *outPtr == "" {
		log.Fatal("the xlsx format needs -out, it cannot go to the Standard Output")
	}

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer zapLogger.Sync()

	catalog, err := loadCatalog(*filePtr, *csvPtr)
	if err != nil {
		log.Fatalf("cannot load catalog: %v", err)
	}

	// Build the schedule
	engine := scheduler.New(cfg.EngineOptions(), zapLogger)
	result, err := engine.Schedule(context.Background(), catalog)
	if err != nil {
		log.Fatalf("cannot schedule catalog: %v", err)
	}

	summarize(result)
	if result.Outcome == model.Failed || result.Outcome == model.Timeout {
		os.Exit(2)
	}

	// Verify schedule correctness
	if issues := scheduler.Verify(catalog, result); len(issues) > 0 {
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "verification: %v\n", issue)
		}
		os.Exit(3)
	}

	document, err := render(catalog, result, format)
	if err != nil {
		log.Fatalf("cannot render schedule: %v", err)
	}
	if *outPtr == "" {
		fmt.Print(string(document))
	} else if err := os.WriteFile(*outPtr, document, 0o644); err != nil {
		log.Fatalf("cannot write output file: %v", err)
	}
}

func loadCatalog(file, dir string) (*model.Catalog, error) {
	if file != "" {
		return model.CatalogFromJSON(file)
	}
	return csvio.LoadCatalog(csvio.DirPaths(dir))
}

func render(catalog *model.Catalog, result *model.Result, format string) ([]byte, error) {
	switch format {
	case "csv":
		document, err := csvio.ScheduleString(catalog, result)
		if err != nil {
			return nil, err
		}
		return []byte(document), nil
	case "ics":
		buffer, err := export.ICS(catalog, result, export.Calendar{})
		if err != nil {
			return nil, err
		}
		return buffer.Bytes(), nil
	case "xlsx":
		buffer, err := export.Excel(catalog, result)
		if err != nil {
			return nil, err
		}
		return buffer.Bytes(), nil
	default:
		panic(fmt.Sprintf("unvalidated format %v", format))
	}
}

func summarize(result *model.Result) {
	fmt.Fprintf(os.Stderr, "Outcome: %v\n", result.Outcome)
	fmt.Fprintf(os.Stderr, "Assigned: %v\n", len(result.Assignments))
	fmt.Fprintf(os.Stderr, "Cost: %v\n", result.Cost)
	fmt.Fprintf(os.Stderr, "Iterations: %v\n", result.Iterations)
	for _, blocked := range result.Blocked {
		fmt.Fprintf(os.Stderr, "Blocked %v:\n", blocked.Session)
		for _, violation := range blocked.Violations {
			fmt.Fprintf(os.Stderr, "  %v\n", violation)
		}
	}
}
