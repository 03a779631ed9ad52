package handler

import (
	"context"
	"net/http"

	"bed-management-backend/internal/models"
	"bed-management-backend/internal/service"
	"bed-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type intakeFlow interface {
	StartSession() service.IntakeSession
	GetSession(id string) (service.IntakeSession, error)
	DiscardSession(id string) error
	SaveIdentity(id string, draft service.IdentityDraft) (service.IntakeSession, error)
	SaveAdmission(id string, draft service.AdmissionDraft) (service.IntakeSession, error)
	Submit(ctx context.Context, actor, id string) (*service.IntakeResult, service.IntakeSession, error)
	Admit(ctx context.Context, actor string, identity service.IdentityDraft, admission service.AdmissionDraft) (*service.IntakeResult, error)
	LookupPatient(ctx context.Context, dni string) (*models.Patient, error)
}

type IntakeHandler struct {
	intake intakeFlow
}

func NewIntakeHandler(intake intakeFlow) *IntakeHandler {
	return &IntakeHandler{intake: intake}
}

// AdmitRequest carries both intake stages in one body
type AdmitRequest struct {
	Identity  service.IdentityDraft  `json:"identity"`
	Admission service.AdmissionDraft `json:"admission"`
}

func (h *IntakeHandler) StartSession(c *gin.Context) {
	utils.CreatedResponse(c, h.intake.StartSession())
}

func (h *IntakeHandler) GetSession(c *gin.Context) {
	session, err := h.intake.GetSession(c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch intake session")
		return
	}

	utils.SuccessResponse(c, session)
}

func (h *IntakeHandler) DiscardSession(c *gin.Context) {
	if err := h.intake.DiscardSession(c.Param("id")); err != nil {
		respondError(c, err, "Failed to discard intake session")
		return
	}

	utils.MessageResponse(c, "Intake session discarded")
}

// SaveIdentity validates and stores the first stage. An invalid draft is not
// stored; the field errors come back with a 400 and the session is unchanged.
func (h *IntakeHandler) SaveIdentity(c *gin.Context) {
	var draft service.IdentityDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.intake.SaveIdentity(c.Param("id"), draft)
	if err != nil {
		respondError(c, err, "Failed to save identity")
		return
	}

	utils.SuccessResponse(c, session)
}

// SaveAdmission stores the second stage. It is locked until a first name has been saved.
func (h *IntakeHandler) SaveAdmission(c *gin.Context) {
	var draft service.AdmissionDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.intake.SaveAdmission(c.Param("id"), draft)
	if err != nil {
		respondError(c, err, "Failed to save admission")
		return
	}

	utils.SuccessResponse(c, session)
}

// Submit commits the session. On failure the drafts are returned untouched.
func (h *IntakeHandler) Submit(c *gin.Context) {
	result, session, err := h.intake.Submit(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to register admission")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"result":  result,
		"session": session,
	})
}

// Admit registers a patient and admission from a single request
func (h *IntakeHandler) Admit(c *gin.Context) {
	var req AdmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.intake.Admit(c.Request.Context(), actor(c), req.Identity, req.Admission)
	if err != nil {
		respondError(c, err, "Failed to register admission")
		return
	}

	utils.CreatedResponse(c, result)
}

// LookupPatient reports whether a DNI already belongs to a registered patient
func (h *IntakeHandler) LookupPatient(c *gin.Context) {
	patient, err := h.intake.LookupPatient(c.Request.Context(), c.Param("dni"))
	if err != nil {
		respondError(c, err, "Failed to look up patient")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"patient": patient,
		"notice":  service.ExistingPatientNotice,
	})
}
