package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/arnavshah/planner-api-go/pkg/database"
	"github.com/arnavshah/planner-api-go/pkg/models"
	"github.com/arnavshah/planner-api-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
)

// ListCalendar returns every committed session of the caller
func (h *Handler) ListCalendar(c *gin.Context) {
	rows, err := h.Store.ListSessions(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": rows})
}

// ExportCalendarCSV returns the caller's committed sessions as CSV
func (h *Handler) ExportCalendarCSV(c *gin.Context) {
	rows, err := h.Store.ListSessions(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var out strings.Builder
	if err := writeSessionsCSV(&out, rows); err != nil {
		h.respondError(c, fmt.Errorf("export calendar: %w", err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="calendar.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(out.String()))
}

func writeSessionsCSV(w io.Writer, rows []database.StudySession) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"date", "start_time", "end_time", "task", "subject", "difficulty", "hours", "due"}); err != nil {
		return err
	}
	for _, r := range rows {
		err := writer.Write([]string{
			r.Date,
			r.StartTime,
			r.EndTime,
			r.Task,
			r.Subject,
			fmt.Sprintf("%d", r.Difficulty),
			fmt.Sprintf("%.2f", r.Hours),
			r.Due,
		})
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ClearCalendar deletes every committed session of the caller
func (h *Handler) ClearCalendar(c *gin.Context) {
	deleted, err := h.Store.ClearSessions(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.Log.Info("Calendar cleared", "user", c.GetString("userID"), "deleted", deleted)
	c.JSON(http.StatusOK, gin.H{"status": "cleared", "deleted": deleted})
}

// CountCalendar returns how many sessions the caller has committed
func (h *Handler) CountCalendar(c *gin.Context) {
	count, err := h.Store.CountSessions(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// SaveRoutine replaces the caller's routine. Blocks are checked the same
// way a planning run checks them before anything is stored.
func (h *Handler) SaveRoutine(c *gin.Context) {
	var req models.RoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if _, err := scheduler.NewRoutine(req.Items); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.Store.SaveRoutine(c.Request.Context(), c.GetString("userID"), req.Items); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved", "count": len(req.Items)})
}

// LoadRoutine returns the caller's stored routine
func (h *Handler) LoadRoutine(c *gin.Context) {
	items, err := h.Store.LoadRoutine(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if items == nil {
		items = []models.RoutineBlock{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
