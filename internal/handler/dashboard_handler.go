package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"bed-management-backend/internal/models"
	"bed-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type dashboardReader interface {
	GetMetrics(ctx context.Context) (*models.DashboardMetrics, error)
	GetSectorOccupancy(ctx context.Context) ([]models.SectorOccupancy, error)
	GetSectors(ctx context.Context) ([]models.Sector, error)
	GetAdmittedPatients(ctx context.Context) ([]models.AdmittedPatient, error)
}

type workbookExporter interface {
	AdmittedPatientsWorkbook(ctx context.Context) (*bytes.Buffer, error)
}

type DashboardHandler struct {
	dashboard dashboardReader
	export    workbookExporter
}

func NewDashboardHandler(dashboard dashboardReader, export workbookExporter) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		export:    export,
	}
}

// GetMetrics returns bed and admission counters for the dashboard header
func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	metrics, err := h.dashboard.GetMetrics(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch dashboard metrics")
		return
	}

	utils.SuccessResponse(c, metrics)
}

// GetSectorOccupancy returns per-sector bed usage
func (h *DashboardHandler) GetSectorOccupancy(c *gin.Context) {
	sectors, err := h.dashboard.GetSectorOccupancy(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch sector occupancy")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"sectors": sectors,
		"count":   len(sectors),
	})
}

// GetSectors lists sectors for the intake form
func (h *DashboardHandler) GetSectors(c *gin.Context) {
	sectors, err := h.dashboard.GetSectors(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch sectors")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"sectors": sectors,
		"count":   len(sectors),
	})
}

func (h *DashboardHandler) GetAdmittedPatients(c *gin.Context) {
	patients, err := h.dashboard.GetAdmittedPatients(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch admitted patients")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"patients": patients,
		"count":    len(patients),
	})
}

// ExportAdmittedPatients streams the admitted-patient list as an xlsx workbook
func (h *DashboardHandler) ExportAdmittedPatients(c *gin.Context) {
	buf, err := h.export.AdmittedPatientsWorkbook(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to export admitted patients")
		return
	}

	filename := fmt.Sprintf("admitted-patients-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
