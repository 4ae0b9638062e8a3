package api

import (
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine exposing svc's operations: graph
// submission and status under /api/v1, a live event stream over
// websocket, and health/readiness probes at the root.
func NewRouter(svc *Service, version string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(recovery())
	router.Use(requestLogger())

	h := newGraphHandler(svc, version)

	router.GET("/health", h.health)
	router.GET("/ready", h.ready)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/graphs", h.listGraphs)
		v1.POST("/graphs/:name/runs", h.submitRun)
		v1.GET("/graphs/:name/runs", h.runHistory)
		v1.GET("/runs/:id", h.runStatus)
		v1.GET("/events", h.eventStream)
	}

	return router
}
