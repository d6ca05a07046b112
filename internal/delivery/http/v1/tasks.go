package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Vinnycalora/Reliabot/internal/service"
)

type addTaskRequest struct {
	UserID      string     `json:"user_id" binding:"required"`
	Task        string     `json:"task" binding:"required"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at"`
	Recurrence  string     `json:"recurrence"`
	Labels      string     `json:"labels"`
	Priority    string     `json:"priority"`
}

type doneRequest struct {
	UserID string `json:"user_id" binding:"required"`
	ID     uint   `json:"id"`
	Task   string `json:"task"`
}

type setReminderRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Hour   *int   `json:"hour" binding:"required"`
}

func (h *Handler) handleListTasks(c *gin.Context) {
	userID := c.Param("user_id")
	tasks, err := h.tasks.List(c.Request.Context(), actor(c, userID), userID)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) handleAddTask(c *gin.Context) {
	var req addTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	task, err := h.tasks.Add(c.Request.Context(), actor(c, req.UserID), req.UserID, service.TaskInput{
		Name:        req.Task,
		Description: req.Description,
		DueAt:       req.DueAt,
		Recurrence:  req.Recurrence,
		Labels:      req.Labels,
		Priority:    req.Priority,
	})
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *Handler) handleDone(c *gin.Context) {
	var req doneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	changed, err := h.tasks.Complete(c.Request.Context(), actor(c, req.UserID), req.UserID, service.TaskSelector{
		ID:   req.ID,
		Name: req.Task,
	})
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	if !changed {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task marked as done."})
}

func (h *Handler) handleDeleteTask(c *gin.Context) {
	userID := c.Param("user_id")
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "task id must be numeric"})
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), actor(c, userID), userID, uint(id)); err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleClearCompleted(c *gin.Context) {
	userID := c.Param("user_id")
	if err := h.tasks.ClearCompleted(c.Request.Context(), actor(c, userID), userID); err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Completed tasks cleared."})
}

func (h *Handler) handleSetReminder(c *gin.Context) {
	var req setReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.tasks.SetReminder(c.Request.Context(), actor(c, req.UserID), req.UserID, *req.Hour); err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminder set."})
}

func (h *Handler) handleClearReminder(c *gin.Context) {
	userID := c.Param("user_id")
	if err := h.tasks.ClearReminder(c.Request.Context(), actor(c, userID), userID); err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminder disabled."})
}
