package handlers

import (
	"net/http"

	"github.com/arnavshah/planner-api-go/pkg/models"
	"github.com/arnavshah/planner-api-go/pkg/planner"
	"github.com/gin-gonic/gin"
)

// GeneratePlan plans the request around the caller's commitments and
// commits the result
func (h *Handler) GeneratePlan(c *gin.Context) {
	var req models.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.Planner.Generate(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.RecordUsage(c, len(req.Tasks), planner.BlockCount(resp.Schedule))
	c.JSON(http.StatusOK, resp)
}

// PreviewPlan plans the request without committing anything
func (h *Handler) PreviewPlan(c *gin.Context) {
	var req models.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.Planner.Preview(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.RecordUsage(c, len(req.Tasks), planner.BlockCount(resp.Schedule))
	c.JSON(http.StatusOK, resp)
}

// SavePlan commits a previewed schedule
func (h *Handler) SavePlan(c *gin.Context) {
	var req models.SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	planID, err := h.Planner.Save(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.RecordUsage(c, len(req.Tasks), planner.BlockCount(req.Schedule))
	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"message":     "Plan saved successfully!",
		"plan_id":     planID,
		"summary":     req.Summary,
		"tasks_count": len(req.Tasks),
	})
}

// ListSavedPlans returns the caller's saved plans, newest first
func (h *Handler) ListSavedPlans(c *gin.Context) {
	plans, err := h.Store.ListPlans(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": plans})
}
