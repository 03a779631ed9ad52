package handler

import (
	"context"
	"net/http"

	"bed-management-backend/internal/models"
	"bed-management-backend/internal/service"
	"bed-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type recommendationLister interface {
	ListActionable(ctx context.Context) ([]models.Recommendation, error)
}

type bedAssigner interface {
	AssignBed(ctx context.Context, actor, patientID, bedID string) (*service.AssignmentResult, error)
}

type RecommendationHandler struct {
	recommendations recommendationLister
	assignments     bedAssigner
}

func NewRecommendationHandler(recommendations recommendationLister, assignments bedAssigner) *RecommendationHandler {
	return &RecommendationHandler{
		recommendations: recommendations,
		assignments:     assignments,
	}
}

// AssignBedRequest represents the request body for confirming a suggested bed
type AssignBedRequest struct {
	PatientID string `json:"patient_id" binding:"required"`
	BedID     string `json:"bed_id" binding:"required"`
}

// GetRecommendations returns the actionable priority list, highest score first
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	recs, err := h.recommendations.ListActionable(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch recommendations")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"recommendations": recs,
		"count":           len(recs),
	})
}

// AssignBed confirms a recommendation by placing the patient in the bed
func (h *RecommendationHandler) AssignBed(c *gin.Context) {
	var req AssignBedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request. patient_id and bed_id are required")
		return
	}

	result, err := h.assignments.AssignBed(c.Request.Context(), actor(c), req.PatientID, req.BedID)
	if err != nil {
		respondError(c, err, "Failed to assign bed")
		return
	}

	utils.SuccessResponse(c, result)
}
