package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type riskSummaryPayload struct {
	Total              int            `json:"total"`
	ByStatus           map[string]int `json:"by_status"`
	ByLevel            map[string]int `json:"by_level"`
	Treated            int            `json:"treated"`
	OverdueReview      int            `json:"overdue_review"`
	AppetiteViolations []int64        `json:"appetite_violations"`
}

type controlSummaryPayload struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
	Usable   int            `json:"usable"`
}

type frameworkCompliancePayload struct {
	FrameworkID int64   `json:"framework_id"`
	Name        string  `json:"name"`
	Implemented int     `json:"implemented"`
	Total       int     `json:"total"`
	Percent     float64 `json:"percent"`
}

type findingSummaryPayload struct {
	Total   int            `json:"total"`
	Active  int            `json:"active"`
	ByType  map[string]int `json:"by_type"`
	Overdue int            `json:"overdue"`
}

type assetSummaryPayload struct {
	Total         int            `json:"total"`
	ByCriticality map[string]int `json:"by_criticality"`
	BIACompleted  int            `json:"bia_completed"`
}

type treatmentSummaryPayload struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

type policySummaryPayload struct {
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"by_status"`
	OverdueReview int            `json:"overdue_review"`
}

type vendorSummaryPayload struct {
	Total         int            `json:"total"`
	ByRating      map[string]int `json:"by_rating"`
	OverdueReview int            `json:"overdue_review"`
}

type evidenceSummaryPayload struct {
	Total   int `json:"total"`
	Expired int `json:"expired"`
}

type snapshotResponse struct {
	ID      string    `json:"id,omitempty"`
	TakenAt time.Time `json:"taken_at"`

	Risks             riskSummaryPayload           `json:"risks"`
	InternalControls  controlSummaryPayload        `json:"internal_controls"`
	FrameworkControls controlSummaryPayload        `json:"framework_controls"`
	Frameworks        []frameworkCompliancePayload `json:"frameworks"`
	Findings          findingSummaryPayload        `json:"findings"`
	Assets            assetSummaryPayload          `json:"assets"`
	Treatments        treatmentSummaryPayload      `json:"treatments"`
	Policies          policySummaryPayload         `json:"policies"`
	Vendors           vendorSummaryPayload         `json:"vendors"`
	Evidence          evidenceSummaryPayload       `json:"evidence"`

	Degraded []string `json:"degraded,omitempty"`
}

func toSnapshotResponse(snapshot *model.DashboardSnapshot) *snapshotResponse {
	frameworks := make([]frameworkCompliancePayload, len(snapshot.Frameworks))
	for i, fc := range snapshot.Frameworks {
		frameworks[i] = frameworkCompliancePayload{
			FrameworkID: fc.FrameworkID,
			Name:        fc.Name,
			Implemented: fc.Implemented,
			Total:       fc.Total,
			Percent:     fc.Percent,
		}
	}

	return &snapshotResponse{
		ID:      snapshot.ID,
		TakenAt: snapshot.TakenAt,
		Risks: riskSummaryPayload{
			Total:              snapshot.Risks.Total,
			ByStatus:           snapshot.Risks.ByStatus,
			ByLevel:            snapshot.Risks.ByLevel,
			Treated:            snapshot.Risks.Treated,
			OverdueReview:      snapshot.Risks.OverdueReview,
			AppetiteViolations: snapshot.Risks.AppetiteViolations,
		},
		InternalControls: controlSummaryPayload{
			Total:    snapshot.InternalControls.Total,
			ByStatus: snapshot.InternalControls.ByStatus,
			Usable:   snapshot.InternalControls.Usable,
		},
		FrameworkControls: controlSummaryPayload{
			Total:    snapshot.FrameworkControls.Total,
			ByStatus: snapshot.FrameworkControls.ByStatus,
			Usable:   snapshot.FrameworkControls.Usable,
		},
		Frameworks: frameworks,
		Findings: findingSummaryPayload{
			Total:   snapshot.Findings.Total,
			Active:  snapshot.Findings.Active,
			ByType:  snapshot.Findings.ByType,
			Overdue: snapshot.Findings.Overdue,
		},
		Assets: assetSummaryPayload{
			Total:         snapshot.Assets.Total,
			ByCriticality: snapshot.Assets.ByCriticality,
			BIACompleted:  snapshot.Assets.BIACompleted,
		},
		Treatments: treatmentSummaryPayload{
			Total:    snapshot.Treatments.Total,
			ByStatus: snapshot.Treatments.ByStatus,
		},
		Policies: policySummaryPayload{
			Total:         snapshot.Policies.Total,
			ByStatus:      snapshot.Policies.ByStatus,
			OverdueReview: snapshot.Policies.OverdueReview,
		},
		Vendors: vendorSummaryPayload{
			Total:         snapshot.Vendors.Total,
			ByRating:      snapshot.Vendors.ByRating,
			OverdueReview: snapshot.Vendors.OverdueReview,
		},
		Evidence: evidenceSummaryPayload{
			Total:   snapshot.Evidence.Total,
			Expired: snapshot.Evidence.Expired,
		},
		Degraded: snapshot.Degraded,
	}
}

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.uc.Dashboard.Build(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toSnapshotResponse(snapshot))
}

func (s *Server) takeSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.uc.Dashboard.Snapshot(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toSnapshotResponse(snapshot))
}

func (s *Server) getLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.uc.Dashboard.Latest(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if snapshot == nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "no snapshot"})
		return
	}

	respondJSON(w, http.StatusOK, toSnapshotResponse(snapshot))
}

func (s *Server) listSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	snapshots, err := s.uc.Dashboard.History(r.Context(), limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	out := make([]*snapshotResponse, len(snapshots))
	for i, snapshot := range snapshots {
		out[i] = toSnapshotResponse(snapshot)
	}
	respondJSON(w, http.StatusOK, map[string]any{"snapshots": out})
}
