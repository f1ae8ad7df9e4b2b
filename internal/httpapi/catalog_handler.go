package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"coursetable/internal/store"
	"coursetable/pkg/model"
	"coursetable/pkg/response"
)

// CatalogHandler serves the catalog held by the store and accepts
// replacement catalogs.
type CatalogHandler struct {
	store  store.Store
	logger *zap.Logger
}

func NewCatalogHandler(store store.Store, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{store: store, logger: logger}
}

// Health reports liveness together with per-table row counts.
// GET /health
func (handler *CatalogHandler) Health(c *gin.Context) {
	stats, err := handler.store.Stats(c.Request.Context())
	if err != nil {
		handler.logger.Error("store stats", zap.Error(err))
		response.InternalError(c, "store unavailable")
		return
	}
	response.OK(c, gin.H{"status": "ok", "tables": stats})
}

// Put validates a JSON catalog document and replaces the stored catalog
// with it.
// PUT /catalog
func (handler *CatalogHandler) Put(c *gin.Context) {
	content, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "read request body")
		return
	}

	catalog, err := model.DecodeCatalog(content)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "invalid catalog document", err.Error())
		return
	}

	if err := handler.store.SaveCatalog(c.Request.Context(), catalog); err != nil {
		handler.logger.Error("save catalog", zap.Error(err))
		response.InternalError(c, "save catalog")
		return
	}

	response.OK(c, gin.H{
		"courses":    len(catalog.Courses()),
		"professors": len(catalog.Professors()),
		"tas":        len(catalog.TAs()),
		"rooms":      len(catalog.Rooms()),
		"timeslots":  len(catalog.Slots()),
		"sessions":   len(catalog.Sessions()),
	})
}

// Courses lists every stored course.
// GET /courses
func (handler *CatalogHandler) Courses(c *gin.Context) {
	catalog, ok := handler.load(c)
	if !ok {
		return
	}
	response.OK(c, lo.Map(catalog.Courses(), func(course model.Course, _ int) courseView {
		return newCourseView(course)
	}))
}

// Course returns one course by id.
// GET /courses/:id
func (handler *CatalogHandler) Course(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "course id must be an integer")
		return
	}

	catalog, ok := handler.load(c)
	if !ok {
		return
	}
	course, found := catalog.Course(model.CourseID(id))
	if !found {
		response.NotFound(c, fmt.Sprintf("unknown course %d", id))
		return
	}
	response.OK(c, newCourseView(course))
}

// Instructors lists professors and TAs side by side.
// GET /instructors
func (handler *CatalogHandler) Instructors(c *gin.Context) {
	catalog, ok := handler.load(c)
	if !ok {
		return
	}
	response.OK(c, instructorsView{
		Professors: lo.Map(catalog.Professors(), func(professor model.Professor, _ int) professorView {
			return newProfessorView(professor)
		}),
		TAs: lo.Map(catalog.TAs(), func(ta model.TA, _ int) taView {
			return newTAView(ta)
		}),
	})
}

// Rooms lists every stored room.
// GET /rooms
func (handler *CatalogHandler) Rooms(c *gin.Context) {
	catalog, ok := handler.load(c)
	if !ok {
		return
	}
	response.OK(c, lo.Map(catalog.Rooms(), func(room model.Room, _ int) roomView {
		return newRoomView(room)
	}))
}

// Slots lists the declared time grid.
// GET /timeslots
func (handler *CatalogHandler) Slots(c *gin.Context) {
	catalog, ok := handler.load(c)
	if !ok {
		return
	}
	response.OK(c, lo.Map(catalog.Slots(), func(slot model.TimeSlot, _ int) slotView {
		return newSlotView(slot)
	}))
}

func (handler *CatalogHandler) load(c *gin.Context) (*model.Catalog, bool) {
	catalog, err := handler.store.LoadCatalog(c.Request.Context())
	if err != nil {
		handler.logger.Error("load catalog", zap.Error(err))
		response.InternalError(c, "load catalog from store")
		return nil, false
	}
	return catalog, true
}
