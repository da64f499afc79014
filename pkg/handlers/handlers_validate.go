package handlers

import (
	"net/http"
	"time"

	"github.com/arnavshah/planner-api-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// ValidateInput checks a plan request without touching the caller's
// calendar. Invalid input is reported with 200 and "valid": false.
func (h *Handler) ValidateInput(c *gin.Context) {
	var req models.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid":  false,
			"error":  err.Error(),
			"fields": fieldErrors(err),
		})
		return
	}

	plan, err := h.Planner.Scheduler().Prepare(req, nil)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	synthetic := 0
	for _, t := range plan.Tasks {
		if t.Synthetic {
			synthetic++
		}
	}

	warnings := []string{}
	seen := make(map[string]bool)
	for _, t := range req.Tasks {
		if seen[t.Name] {
			warnings = append(warnings, "Duplicate task name: "+t.Name)
		}
		seen[t.Name] = true
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"warnings": warnings,
		"stats": gin.H{
			"task_count":          len(plan.Tasks),
			"synthetic_deadlines": synthetic,
			"planning_start":      plan.Start.Format(time.RFC3339),
			"planning_end":        plan.End.Format(time.RFC3339),
			"daily_hour_cap":      plan.DailyCap.Hours(),
		},
	})
}
