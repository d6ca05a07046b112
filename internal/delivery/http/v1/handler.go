package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Vinnycalora/Reliabot/internal/clock"
	"github.com/Vinnycalora/Reliabot/internal/service"
)

// Handler exposes the core facade over HTTP for the dashboard. It owns no
// business logic: it parses identity and request shape, delegates to the
// services and translates results into status codes.
type Handler struct {
	tasks     *service.TaskService
	streaks   *service.StreakService
	analytics *service.AnalyticsService
	svcClock  *clock.Service
	log       zerolog.Logger
}

func New(tasks *service.TaskService, streaks *service.StreakService, analytics *service.AnalyticsService, svcClock *clock.Service, log zerolog.Logger) *Handler {
	return &Handler{
		tasks:     tasks,
		streaks:   streaks,
		analytics: analytics,
		svcClock:  svcClock,
		log:       log,
	}
}

// Register wires all dashboard routes onto the router.
func (h *Handler) Register(router gin.IRouter) {
	router.GET("/tasks/:user_id", h.handleListTasks)
	router.POST("/task", h.handleAddTask)
	router.POST("/done", h.handleDone)
	router.DELETE("/task/:user_id/:id", h.handleDeleteTask)
	router.POST("/clearcompleted/:user_id", h.handleClearCompleted)

	router.GET("/streak/:user_id", h.handleStreak)
	router.GET("/summary/:user_id", h.handleSummary)
	router.GET("/analytics/:user_id", h.handleAnalytics)
	router.GET("/heatmap/:user_id", h.handleHeatmap)
	router.GET("/xp/:user_id", h.handleXP)

	router.POST("/reminder", h.handleSetReminder)
	router.DELETE("/reminder/:user_id", h.handleClearReminder)

	router.GET("/status", h.handleStatus)
}
