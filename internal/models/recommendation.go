package models

// PriorityTier is the display bucket for a priority score
type PriorityTier string

const (
	TierCritical PriorityTier = "Critical"
	TierHigh     PriorityTier = "High"
	TierMedium   PriorityTier = "Medium"
	TierLow      PriorityTier = "Low"
)

// ClassifyPriority maps a score to its tier; each lower bound is inclusive
func ClassifyPriority(score float64) PriorityTier {
	switch {
	case score >= 80:
		return TierCritical
	case score >= 60:
		return TierHigh
	case score >= 40:
		return TierMedium
	default:
		return TierLow
	}
}

// RecommendedPatient is the patient identity shown next to a recommendation
type RecommendedPatient struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DNI       string `json:"dni"`
}

// SuggestedBed is the resolved bed proposed by the scorer
type SuggestedBed struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	SectorName string `json:"sector_name"`
}

// ClinicalSummary carries the open admission's flags, all false when none was found
type ClinicalSummary struct {
	Reason    string `json:"reason"`
	Severe    bool   `json:"severe"`
	EndOfLife bool   `json:"end_of_life"`
	Urgent    bool   `json:"urgent"`
}

// Recommendation is an actionable priority row after reconciliation
type Recommendation struct {
	ID           int64              `json:"id"`
	Score        float64            `json:"score"`
	Tier         PriorityTier       `json:"tier"`
	Patient      RecommendedPatient `json:"patient"`
	SuggestedBed *SuggestedBed      `json:"suggested_bed"`
	Admission    ClinicalSummary    `json:"admission"`
}
