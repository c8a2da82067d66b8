package model

import "time"

// RiskSummary aggregates current derived risk fields
type RiskSummary struct {
	Total              int
	ByStatus           map[string]int
	ByLevel            map[string]int
	Treated            int
	OverdueReview      int
	AppetiteViolations []int64
}

// ControlSummary aggregates one control collection
type ControlSummary struct {
	Total    int
	ByStatus map[string]int
	Usable   int
}

// FrameworkCompliance is the implemented-over-total ratio for one framework
type FrameworkCompliance struct {
	FrameworkID int64
	Name        string
	Implemented int
	Total       int
	Percent     float64
}

// FindingSummary aggregates findings across both control collections
type FindingSummary struct {
	Total   int
	Active  int
	ByType  map[string]int
	Overdue int
}

// AssetSummary aggregates BIA-derived asset fields
type AssetSummary struct {
	Total         int
	ByCriticality map[string]int
	BIACompleted  int
}

// TreatmentSummary aggregates treatment workflow state
type TreatmentSummary struct {
	Total    int
	ByStatus map[string]int
}

// PolicySummary aggregates policy workflow state
type PolicySummary struct {
	Total         int
	ByStatus      map[string]int
	OverdueReview int
}

// VendorSummary aggregates vendor risk ratings
type VendorSummary struct {
	Total         int
	ByRating      map[string]int
	OverdueReview int
}

// EvidenceSummary aggregates evidence freshness
type EvidenceSummary struct {
	Total   int
	Expired int
}

// DashboardSnapshot is the immutable aggregate the dashboard reads. A
// section whose source read failed is zero-valued and listed in Degraded;
// the UI distinguishes "not configured" from "could not compute" through
// that list.
type DashboardSnapshot struct {
	ID      string
	TakenAt time.Time

	Risks             RiskSummary
	InternalControls  ControlSummary
	FrameworkControls ControlSummary
	Frameworks        []FrameworkCompliance
	Findings          FindingSummary
	Assets            AssetSummary
	Treatments        TreatmentSummary
	Policies          PolicySummary
	Vendors           VendorSummary
	Evidence          EvidenceSummary

	Degraded []string
}
