package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const admittedSheet = "Admitted"

var admittedHeader = []interface{}{
	"Last name", "First name", "DNI", "Age", "Gender", "Insurer",
	"Reason", "Admitted at", "Sector", "Bed", "Urgent", "Severe", "End of life", "Oncologic",
}

type ExportService struct {
	dashboard *DashboardService
}

func NewExportService(dashboard *DashboardService) *ExportService {
	return &ExportService{dashboard: dashboard}
}

// AdmittedPatientsWorkbook renders the admitted-patients list as an .xlsx file
func (s *ExportService) AdmittedPatientsWorkbook(ctx context.Context) (*bytes.Buffer, error) {
	patients, err := s.dashboard.GetAdmittedPatients(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", admittedSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(admittedSheet, "A1", &admittedHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range patients {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			p.Patient.LastName, p.Patient.FirstName, p.Patient.DNI, p.Patient.Age,
			p.Patient.Gender, p.Patient.Insurer,
			p.Reason, p.AdmittedAt.Format("2006-01-02 15:04"), p.SectorName, p.BedLabel,
			yesNo(p.Urgent), yesNo(p.Severe), yesNo(p.EndOfLife), yesNo(p.Oncologic),
		}
		if err := f.SetSheetRow(admittedSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf, nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
