package handler

import (
	"context"
	"net/http"

	"bed-management-backend/internal/models"
	"bed-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type aiRunner interface {
	Trigger(ctx context.Context, actor string) (*models.AIRun, error)
	GetRun(ctx context.Context, id string) (*models.AIRun, error)
	Complete(ctx context.Context, id, errMsg string) (*models.AIRun, error)
}

type AIHandler struct {
	ai aiRunner
}

func NewAIHandler(ai aiRunner) *AIHandler {
	return &AIHandler{ai: ai}
}

// CompleteRunRequest is sent by the scorer once it has written its results.
// A non-empty Error marks the run failed.
type CompleteRunRequest struct {
	Error string `json:"error"`
}

// TriggerRun asks the external scorer to recompute priorities.
// Poll GetRun until the run leaves the pending state.
func (h *AIHandler) TriggerRun(c *gin.Context) {
	run, err := h.ai.Trigger(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err, "Failed to start priority run")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data":    run,
	})
}

func (h *AIHandler) GetRun(c *gin.Context) {
	run, err := h.ai.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch priority run")
		return
	}

	utils.SuccessResponse(c, run)
}

func (h *AIHandler) CompleteRun(c *gin.Context) {
	var req CompleteRunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	run, err := h.ai.Complete(c.Request.Context(), c.Param("id"), req.Error)
	if err != nil {
		respondError(c, err, "Failed to complete priority run")
		return
	}

	utils.SuccessResponse(c, run)
}
