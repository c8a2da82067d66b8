package http

import (
	"net/http"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

type treatmentRequest struct {
	RiskID             int64  `json:"risk_id"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	Strategy           string `json:"strategy"`
	ResidualSeverity   string `json:"residual_severity,omitempty"`
	ResidualLikelihood string `json:"residual_likelihood,omitempty"`
}

func (req *treatmentRequest) toModel(id int64) *model.Treatment {
	return &model.Treatment{
		ID:                 id,
		RiskID:             req.RiskID,
		Title:              req.Title,
		Description:        req.Description,
		Strategy:           req.Strategy,
		ResidualSeverity:   types.Severity(req.ResidualSeverity),
		ResidualLikelihood: types.Likelihood(req.ResidualLikelihood),
	}
}

type controlLinkPayload struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
}

type treatmentResponse struct {
	ID                 int64                `json:"id"`
	RiskID             int64                `json:"risk_id"`
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	Strategy           string               `json:"strategy"`
	Status             string               `json:"status"`
	ResidualSeverity   string               `json:"residual_severity,omitempty"`
	ResidualLikelihood string               `json:"residual_likelihood,omitempty"`
	ControlLinks       []controlLinkPayload `json:"control_links"`
	CompletedAt        *time.Time           `json:"completed_at,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

func toTreatmentResponse(treatment *model.Treatment) *treatmentResponse {
	links := make([]controlLinkPayload, len(treatment.ControlLinks))
	for i, l := range treatment.ControlLinks {
		links[i] = controlLinkPayload{Kind: l.Kind.String(), ID: l.ID}
	}
	resp := &treatmentResponse{
		ID:                 treatment.ID,
		RiskID:             treatment.RiskID,
		Title:              treatment.Title,
		Description:        treatment.Description,
		Strategy:           treatment.Strategy,
		Status:             treatment.Status.Normalize().String(),
		ResidualSeverity:   treatment.ResidualSeverity.String(),
		ResidualLikelihood: treatment.ResidualLikelihood.String(),
		ControlLinks:       links,
		CreatedAt:          treatment.CreatedAt,
		UpdatedAt:          treatment.UpdatedAt,
	}
	if !treatment.CompletedAt.IsZero() {
		t := treatment.CompletedAt
		resp.CompletedAt = &t
	}
	return resp
}

func toTreatmentResponses(treatments []*model.Treatment) []*treatmentResponse {
	out := make([]*treatmentResponse, len(treatments))
	for i, t := range treatments {
		out[i] = toTreatmentResponse(t)
	}
	return out
}

func (s *Server) createTreatment(w http.ResponseWriter, r *http.Request) {
	var req treatmentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	created, err := s.uc.Treatment.Create(r.Context(), req.toModel(0))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toTreatmentResponse(created))
}

func (s *Server) getTreatment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	treatment, err := s.uc.Treatment.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toTreatmentResponse(treatment))
}

func (s *Server) listTreatments(w http.ResponseWriter, r *http.Request) {
	treatments, err := s.uc.Treatment.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"treatments": toTreatmentResponses(treatments)})
}

func (s *Server) listTreatmentsByRisk(w http.ResponseWriter, r *http.Request) {
	riskID, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	treatments, err := s.uc.Treatment.ListByRisk(r.Context(), riskID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"treatments": toTreatmentResponses(treatments)})
}

func (s *Server) updateTreatment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	var req treatmentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	updated, err := s.uc.Treatment.Update(r.Context(), req.toModel(id))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toTreatmentResponse(updated))
}

func (s *Server) deleteTreatment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	if err := s.uc.Treatment.Delete(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) startTreatment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	updated, err := s.uc.Treatment.Start(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toTreatmentResponse(updated))
}

func (s *Server) completeTreatment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	updated, err := s.uc.Treatment.Complete(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toTreatmentResponse(updated))
}

func (s *Server) cancelTreatment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	updated, err := s.uc.Treatment.Cancel(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toTreatmentResponse(updated))
}

func (s *Server) linkControl(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	var req controlLinkPayload
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	updated, err := s.uc.Treatment.LinkControl(r.Context(), id, model.ControlRef{
		Kind: types.ControlKind(req.Kind),
		ID:   req.ID,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toTreatmentResponse(updated))
}

func (s *Server) unlinkControl(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	var req controlLinkPayload
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	updated, err := s.uc.Treatment.UnlinkControl(r.Context(), id, model.ControlRef{
		Kind: types.ControlKind(req.Kind),
		ID:   req.ID,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toTreatmentResponse(updated))
}
