// Package httpapi exposes the catalog store and the scheduling engine over
// HTTP. Catalog endpoints read whatever the store currently holds;
// scheduling runs are asynchronous and addressed by run id.
package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires every handler onto a gin engine with recovery and
// request logging installed.
func NewRouter(catalogs *CatalogHandler, schedules *ScheduleHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))

	router.GET("/health", catalogs.Health)

	router.PUT("/catalog", catalogs.Put)
	router.GET("/courses", catalogs.Courses)
	router.GET("/courses/:id", catalogs.Course)
	router.GET("/instructors", catalogs.Instructors)
	router.GET("/rooms", catalogs.Rooms)
	router.GET("/timeslots", catalogs.Slots)

	router.POST("/schedules", schedules.Submit)
	router.GET("/schedules/:id", schedules.Get)
	router.GET("/schedules/:id/export", schedules.Export)

	return router
}
