package handlers

import (
	"net/http"

	"github.com/arnavshah/planner-api-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Version is reported by the root endpoint
const Version = "3.0.0"

// NewRouter builds the engine shared by the server and the serverless entry
func NewRouter(h *Handler, log *logger.Logger, corsOrigins []string) *gin.Engine {
	RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log), CORS(corsOrigins))

	// Admin interface assets from the embedded FS
	r.StaticFS("/static", h.GetStaticFS())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Study Planner API",
			"version": Version,
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/admin", h.AdminInterface)
	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/planner/generate", h.GeneratePlan)
		api.POST("/planner/preview", h.PreviewPlan)
		api.POST("/planner/save", h.SavePlan)
		api.GET("/planner/saved", h.ListSavedPlans)

		api.GET("/calendar/list", h.ListCalendar)
		api.GET("/calendar/export", h.ExportCalendarCSV)
		api.GET("/calendar/count", h.CountCalendar)
		api.DELETE("/calendar/clear", h.ClearCalendar)

		api.POST("/routine/save", h.SaveRoutine)
		api.GET("/routine/load", h.LoadRoutine)

		api.POST("/validate", h.ValidateInput)
		api.GET("/usage", h.GetMyUsage)
	}

	return r
}
