package models

import "time"

// BedSummary aggregates bed occupancy across the hospital
type BedSummary struct {
	Total         int `json:"total"`
	Occupied      int `json:"occupied"`
	OccupancyRate int `json:"occupancy_rate"`
}

// AdmissionSummary counts open admissions waiting for a bed and flagged severe
type AdmissionSummary struct {
	Waiting  int `json:"waiting"`
	Critical int `json:"critical"`
}

// DashboardMetrics is the headline block of the dashboard
type DashboardMetrics struct {
	Beds       BedSummary       `json:"beds"`
	Admissions AdmissionSummary `json:"admissions"`
}

// SectorOccupancy is the per-sector bed breakdown
type SectorOccupancy struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Total         int    `json:"total"`
	Occupied      int    `json:"occupied"`
	Free          int    `json:"free"`
	OccupancyRate int    `json:"occupancy_rate"`
}

// AdmittedPatient is one row of the admitted-patients list
type AdmittedPatient struct {
	AdmissionID string    `json:"admission_id"`
	Reason      string    `json:"reason"`
	AdmittedAt  time.Time `json:"admitted_at"`
	Urgent      bool      `json:"urgent"`
	Severe      bool      `json:"severe"`
	EndOfLife   bool      `json:"end_of_life"`
	Oncologic   bool      `json:"oncologic"`
	Patient     Patient   `json:"patient"`
	SectorName  string    `json:"sector_name"`
	BedLabel    string    `json:"bed_identifier,omitempty"`
}
