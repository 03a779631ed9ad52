package service

import (
	"context"
	"fmt"
	"math"

	"bed-management-backend/internal/models"
)

// NoSectorName labels admissions whose sector cannot be resolved
const NoSectorName = "No sector"

type DashboardService struct {
	beds       BedStore
	sectors    SectorStore
	admissions AdmissionStore
}

func NewDashboardService(beds BedStore, sectors SectorStore, admissions AdmissionStore) *DashboardService {
	return &DashboardService{
		beds:       beds,
		sectors:    sectors,
		admissions: admissions,
	}
}

// GetMetrics returns hospital-wide bed occupancy and the waiting/critical admission counts
func (s *DashboardService) GetMetrics(ctx context.Context) (*models.DashboardMetrics, error) {
	beds, err := s.beds.GetAllBedStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch beds: %w", err)
	}

	occupied := 0
	for _, b := range beds {
		if b.IsOccupied() {
			occupied++
		}
	}

	waiting, severe, err := s.admissions.CountWaitingAndSevere(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count admissions: %w", err)
	}

	return &models.DashboardMetrics{
		Beds: models.BedSummary{
			Total:         len(beds),
			Occupied:      occupied,
			OccupancyRate: occupancyRate(occupied, len(beds)),
		},
		Admissions: models.AdmissionSummary{
			Waiting:  int(waiting),
			Critical: int(severe),
		},
	}, nil
}

// GetSectorOccupancy returns the bed breakdown of every sector
func (s *DashboardService) GetSectorOccupancy(ctx context.Context) ([]models.SectorOccupancy, error) {
	sectors, err := s.sectors.GetSectorsWithBeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sectors: %w", err)
	}

	result := make([]models.SectorOccupancy, 0, len(sectors))
	for _, sector := range sectors {
		row := models.SectorOccupancy{
			ID:    sector.ID,
			Name:  sector.Name,
			Total: len(sector.Beds),
		}
		for _, b := range sector.Beds {
			switch {
			case b.IsOccupied():
				row.Occupied++
			case b.IsFree():
				row.Free++
			}
		}
		row.OccupancyRate = occupancyRate(row.Occupied, row.Total)
		result = append(result, row)
	}
	return result, nil
}

// GetSectors lists the sectors an admission can target
func (s *DashboardService) GetSectors(ctx context.Context) ([]models.Sector, error) {
	return s.sectors.GetAllSectors(ctx)
}

// GetAdmittedPatients lists open admissions, newest first. Admissions whose
// patient cannot be resolved are skipped.
func (s *DashboardService) GetAdmittedPatients(ctx context.Context) ([]models.AdmittedPatient, error) {
	admissions, err := s.admissions.GetOpenAdmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch admitted patients: %w", err)
	}

	patients := make([]models.AdmittedPatient, 0, len(admissions))
	for _, a := range admissions {
		if a.Patient == nil {
			continue
		}
		row := models.AdmittedPatient{
			AdmissionID: a.ID,
			Reason:      a.Reason,
			AdmittedAt:  a.AdmittedAt,
			Urgent:      a.Urgent,
			Severe:      a.Severe,
			EndOfLife:   a.EndOfLife,
			Oncologic:   a.Oncologic,
			Patient:     *a.Patient,
			SectorName:  NoSectorName,
		}
		if a.Sector != nil {
			row.SectorName = a.Sector.Name
		}
		if a.Bed != nil {
			row.BedLabel = a.Bed.Identifier
		}
		patients = append(patients, row)
	}
	return patients, nil
}

func occupancyRate(occupied, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(occupied) / float64(total) * 100))
}
