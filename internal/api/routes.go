package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Routes returns a route setup function for NewServer. metrics may be nil.
func Routes(h *Handler, metrics http.Handler, version string) func(*gin.Engine) {
	started := time.Now()

	return func(router *gin.Engine) {
		RegisterHealthRoutes(router, version, started)
		if metrics != nil {
			router.GET("/metrics", gin.WrapH(metrics))
		}

		v1 := router.Group("/api/v1")
		v1.POST("/titles", h.InferTitle)
		v1.POST("/covers", h.GenerateCover)
	}
}
