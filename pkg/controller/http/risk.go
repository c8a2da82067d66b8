package http

import (
	"net/http"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

type riskRequest struct {
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	OwnerID            string     `json:"owner_id"`
	InherentSeverity   string     `json:"inherent_severity"`
	InherentLikelihood string     `json:"inherent_likelihood"`
	Status             string     `json:"status"`
	ReviewDate         *time.Time `json:"review_date,omitempty"`
}

func (req *riskRequest) toModel(id int64) *model.Risk {
	risk := &model.Risk{
		ID:                 id,
		Title:              req.Title,
		Description:        req.Description,
		OwnerID:            req.OwnerID,
		InherentSeverity:   types.Severity(req.InherentSeverity),
		InherentLikelihood: types.Likelihood(req.InherentLikelihood),
		Status:             types.RiskStatus(req.Status),
	}
	if req.ReviewDate != nil {
		risk.ReviewDate = *req.ReviewDate
	}
	return risk
}

type riskResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`

	InherentSeverity   string `json:"inherent_severity"`
	InherentLikelihood string `json:"inherent_likelihood"`
	InherentScore      int    `json:"inherent_score"`
	InherentLevel      string `json:"inherent_level"`

	NetSeverity        string     `json:"net_severity,omitempty"`
	NetLikelihood      string     `json:"net_likelihood,omitempty"`
	ResidualScore      int        `json:"residual_score,omitempty"`
	ResidualRating     string     `json:"residual_rating,omitempty"`
	ResidualLikelihood string     `json:"residual_likelihood,omitempty"`
	ResidualUpdatedAt  *time.Time `json:"residual_updated_at,omitempty"`

	CurrentScore int `json:"current_score"`

	Status     string     `json:"status"`
	ReviewDate *time.Time `json:"review_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func toRiskResponse(risk *model.Risk) *riskResponse {
	resp := &riskResponse{
		ID:                 risk.ID,
		Title:              risk.Title,
		Description:        risk.Description,
		OwnerID:            risk.OwnerID,
		InherentSeverity:   risk.InherentSeverity.String(),
		InherentLikelihood: risk.InherentLikelihood.String(),
		InherentScore:      risk.InherentScore,
		InherentLevel:      risk.InherentLevel.String(),
		NetSeverity:        risk.NetSeverity.String(),
		NetLikelihood:      risk.NetLikelihood.String(),
		ResidualScore:      risk.ResidualScore,
		ResidualRating:     risk.ResidualRating.String(),
		ResidualLikelihood: risk.ResidualLikelihood.String(),
		CurrentScore:       risk.CurrentScore(),
		Status:             risk.Status.Normalize().String(),
		CreatedAt:          risk.CreatedAt,
		UpdatedAt:          risk.UpdatedAt,
	}
	if risk.HasResidual() {
		t := risk.ResidualUpdatedAt
		resp.ResidualUpdatedAt = &t
	}
	if !risk.ReviewDate.IsZero() {
		t := risk.ReviewDate
		resp.ReviewDate = &t
	}
	return resp
}

func toRiskResponses(risks []*model.Risk) []*riskResponse {
	out := make([]*riskResponse, len(risks))
	for i, r := range risks {
		out[i] = toRiskResponse(r)
	}
	return out
}

func (s *Server) createRisk(w http.ResponseWriter, r *http.Request) {
	var req riskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}
	if req.OwnerID == "" {
		req.OwnerID = userIDFrom(r.Context())
	}

	created, err := s.uc.Risk.Create(r.Context(), req.toModel(0))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toRiskResponse(created))
}

func (s *Server) getRisk(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	risk, err := s.uc.Risk.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toRiskResponse(risk))
}

func (s *Server) listRisks(w http.ResponseWriter, r *http.Request) {
	risks, err := s.uc.Risk.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"risks": toRiskResponses(risks)})
}

func (s *Server) updateRisk(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	var req riskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	updated, err := s.uc.Risk.Update(r.Context(), req.toModel(id))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toRiskResponse(updated))
}

func (s *Server) deleteRisk(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	if err := s.uc.Risk.Delete(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

type appetiteCheckResponse struct {
	RiskID    int64  `json:"risk_id"`
	Title     string `json:"title"`
	Score     int    `json:"score"`
	Band      string `json:"band,omitempty"`
	Violation bool   `json:"violation"`
}

func (s *Server) evaluateAppetite(w http.ResponseWriter, r *http.Request) {
	checks, err := s.uc.Risk.EvaluateAppetite(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	out := make([]*appetiteCheckResponse, len(checks))
	for i, c := range checks {
		resp := &appetiteCheckResponse{
			RiskID:    c.Risk.ID,
			Title:     c.Risk.Title,
			Score:     c.Score,
			Violation: c.Violation(),
		}
		if c.Band != nil {
			resp.Band = c.Band.Label
		}
		out[i] = resp
	}

	respondJSON(w, http.StatusOK, map[string]any{"checks": out})
}
