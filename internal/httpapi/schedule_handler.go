package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursetable/internal/csvio"
	"coursetable/internal/export"
	"coursetable/internal/scheduler"
	"coursetable/internal/store"
	"coursetable/pkg/model"
	"coursetable/pkg/response"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var errUnknownFormat = errors.New("unsupported export format")

// ScheduleHandler starts engine runs over the stored catalog and serves
// their results.
type ScheduleHandler struct {
	scheduler scheduler.Scheduler
	store     store.Store
	logger    *zap.Logger
	runs      *runManager
}

func NewScheduleHandler(scheduler scheduler.Scheduler, store store.Store, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		scheduler: scheduler,
		store:     store,
		logger:    logger,
		runs:      newRunManager(),
	}
}

// Submit snapshots the stored catalog, starts a run over it and replies
// immediately with the run id. The run keeps going after the reply.
// POST /schedules
func (handler *ScheduleHandler) Submit(c *gin.Context) {
	catalog, err := handler.store.LoadCatalog(c.Request.Context())
	if err != nil {
		handler.logger.Error("load catalog", zap.Error(err))
		response.InternalError(c, "load catalog from store")
		return
	}
	if len(catalog.Sessions()) == 0 {
		response.Conflict(c, "store holds no catalog, put one to /catalog first")
		return
	}

	id := handler.runs.begin(catalog)
	go handler.execute(id, catalog)

	handler.logger.Info("schedule run started",
		zap.String("run", id),
		zap.Int("sessions", len(catalog.Sessions())))
	response.Accepted(c, gin.H{"id": id})
}

func (handler *ScheduleHandler) execute(id string, catalog *model.Catalog) {
	started := time.Now()
	result, err := handler.scheduler.Schedule(context.Background(), catalog)
	elapsed := time.Since(started)
	handler.runs.finish(id, result, err, elapsed)

	if err != nil {
		handler.logger.Warn("schedule run failed",
			zap.String("run", id),
			zap.Error(err))
		return
	}
	handler.logger.Info("schedule run finished",
		zap.String("run", id),
		zap.Stringer("outcome", result.Outcome),
		zap.Float64("cost", result.Cost),
		zap.Int("iterations", result.Iterations),
		zap.Duration("elapsed", elapsed))
}

// Get reports run progress, including the full result once finished.
// GET /schedules/:id
func (handler *ScheduleHandler) Get(c *gin.Context) {
	run, found := handler.runs.get(c.Param("id"))
	if !found {
		response.NotFound(c, fmt.Sprintf("unknown run %s", c.Param("id")))
		return
	}

	view := runView{ID: run.ID, Status: runStatus(run)}
	switch {
	case !run.Finished:
	case run.Err != nil:
		view.Elapsed = run.Elapsed.String()
		view.Error = run.Err.Error()
	default:
		view.Elapsed = run.Elapsed.String()
		result, err := newResultView(run.Catalog, run.Result)
		if err != nil {
			handler.logger.Error("render run result", zap.String("run", run.ID), zap.Error(err))
			response.InternalError(c, "render run result")
			return
		}
		view.Result = &result
	}
	response.OK(c, view)
}

// Export renders a finished run as a downloadable document.
// GET /schedules/:id/export?format=csv|ics|xlsx
func (handler *ScheduleHandler) Export(c *gin.Context) {
	run, found := handler.runs.get(c.Param("id"))
	if !found {
		response.NotFound(c, fmt.Sprintf("unknown run %s", c.Param("id")))
		return
	}
	if !run.Finished {
		response.Conflict(c, "run still in progress")
		return
	}
	if run.Err != nil {
		response.Conflict(c, "run failed, nothing to export")
		return
	}
	if len(run.Result.Assignments) == 0 {
		response.Conflict(c, "run produced no assignments")
		return
	}

	format := c.DefaultQuery("format", "csv")
	payload, mime, err := renderExport(run.Catalog, run.Result, format)
	if err != nil {
		if errors.Is(err, errUnknownFormat) {
			response.BadRequest(c, err.Error())
			return
		}
		handler.logger.Error("render export",
			zap.String("run", run.ID),
			zap.String("format", format),
			zap.Error(err))
		response.InternalError(c, "render export")
		return
	}

	filename := fmt.Sprintf("schedule-%s.%s", run.ID[:8], format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, mime, payload)
}

func renderExport(catalog *model.Catalog, result *model.Result, format string) ([]byte, string, error) {
	switch format {
	case "csv":
		document, err := csvio.ScheduleString(catalog, result)
		if err != nil {
			return nil, "", err
		}
		return []byte(document), "text/csv", nil
	case "ics":
		buffer, err := export.ICS(catalog, result, export.Calendar{})
		if err != nil {
			return nil, "", err
		}
		return buffer.Bytes(), "text/calendar", nil
	case "xlsx":
		buffer, err := export.Excel(catalog, result)
		if err != nil {
			return nil, "", err
		}
		return buffer.Bytes(), xlsxMIME, nil
	default:
		return nil, "", fmt.Errorf("%w %q", errUnknownFormat, format)
	}
}

func runStatus(run runSnapshot) string {
	switch {
	case !run.Finished:
		return "running"
	case run.Err != nil:
		return "failed"
	default:
		return "done"
	}
}
