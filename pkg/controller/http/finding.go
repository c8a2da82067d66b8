package http

import (
	"net/http"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

type findingRequest struct {
	InternalControlID  int64      `json:"internal_control_id,omitempty"`
	FrameworkControlID int64      `json:"framework_control_id,omitempty"`
	FindingType        string     `json:"finding_type"`
	Status             string     `json:"status"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	DueDate            *time.Time `json:"due_date,omitempty"`
}

func (req *findingRequest) toModel(id int64) *model.ControlFinding {
	finding := &model.ControlFinding{
		ID:                 id,
		InternalControlID:  req.InternalControlID,
		FrameworkControlID: req.FrameworkControlID,
		FindingType:        types.FindingType(req.FindingType),
		Status:             types.FindingStatus(req.Status),
		Title:              req.Title,
		Description:        req.Description,
	}
	if req.DueDate != nil {
		finding.DueDate = *req.DueDate
	}
	return finding
}

type findingResponse struct {
	ID                 int64      `json:"id"`
	InternalControlID  int64      `json:"internal_control_id,omitempty"`
	FrameworkControlID int64      `json:"framework_control_id,omitempty"`
	FindingType        string     `json:"finding_type"`
	Status             string     `json:"status"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func toFindingResponse(finding *model.ControlFinding) *findingResponse {
	resp := &findingResponse{
		ID:                 finding.ID,
		InternalControlID:  finding.InternalControlID,
		FrameworkControlID: finding.FrameworkControlID,
		FindingType:        finding.FindingType.String(),
		Status:             finding.Status.String(),
		Title:              finding.Title,
		Description:        finding.Description,
		CreatedAt:          finding.CreatedAt,
		UpdatedAt:          finding.UpdatedAt,
	}
	if !finding.DueDate.IsZero() {
		t := finding.DueDate
		resp.DueDate = &t
	}
	return resp
}

func toFindingResponses(findings []*model.ControlFinding) []*findingResponse {
	out := make([]*findingResponse, len(findings))
	for i, f := range findings {
		out[i] = toFindingResponse(f)
	}
	return out
}

func (s *Server) createFinding(w http.ResponseWriter, r *http.Request) {
	var req findingRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	created, err := s.uc.Finding.Create(r.Context(), req.toModel(0))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toFindingResponse(created))
}

func (s *Server) getFinding(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	finding, err := s.uc.Finding.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toFindingResponse(finding))
}

func (s *Server) listFindings(w http.ResponseWriter, r *http.Request) {
	findings, err := s.uc.Finding.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"findings": toFindingResponses(findings)})
}

func (s *Server) listFindingsByInternalControl(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	findings, err := s.uc.Finding.ListByControl(r.Context(), types.ControlKindInternal, id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"findings": toFindingResponses(findings)})
}

func (s *Server) listFindingsByFrameworkControl(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	findings, err := s.uc.Finding.ListByControl(r.Context(), types.ControlKindFramework, id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"findings": toFindingResponses(findings)})
}

func (s *Server) updateFinding(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	var req findingRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	updated, err := s.uc.Finding.Update(r.Context(), req.toModel(id))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toFindingResponse(updated))
}

func (s *Server) deleteFinding(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	if err := s.uc.Finding.Delete(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
