package http

import (
	"net/http"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type internalControlRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
}

type internalControlResponse struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	OwnerID          string     `json:"owner_id"`
	ComplianceStatus string     `json:"compliance_status"`
	LastAssessedAt   *time.Time `json:"last_assessed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func toInternalControlResponse(control *model.InternalControl) *internalControlResponse {
	resp := &internalControlResponse{
		ID:               control.ID,
		Name:             control.Name,
		Description:      control.Description,
		OwnerID:          control.OwnerID,
		ComplianceStatus: control.ComplianceStatus.Normalize().String(),
		CreatedAt:        control.CreatedAt,
		UpdatedAt:        control.UpdatedAt,
	}
	if !control.LastAssessedAt.IsZero() {
		t := control.LastAssessedAt
		resp.LastAssessedAt = &t
	}
	return resp
}

func (s *Server) createInternalControl(w http.ResponseWriter, r *http.Request) {
	var req internalControlRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}
	if req.OwnerID == "" {
		req.OwnerID = userIDFrom(r.Context())
	}

	created, err := s.uc.Control.CreateInternal(r.Context(), &model.InternalControl{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toInternalControlResponse(created))
}

func (s *Server) getInternalControl(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	control, err := s.uc.Control.GetInternal(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toInternalControlResponse(control))
}

func (s *Server) listInternalControls(w http.ResponseWriter, r *http.Request) {
	controls, err := s.uc.Control.ListInternal(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	out := make([]*internalControlResponse, len(controls))
	for i, c := range controls {
		out[i] = toInternalControlResponse(c)
	}
	respondJSON(w, http.StatusOK, map[string]any{"controls": out})
}

func (s *Server) updateInternalControl(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	var req internalControlRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	updated, err := s.uc.Control.UpdateInternal(r.Context(), &model.InternalControl{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toInternalControlResponse(updated))
}

func (s *Server) deleteInternalControl(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	if err := s.uc.Control.DeleteInternal(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

type frameworkControlRequest struct {
	FrameworkID int64  `json:"framework_id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Implemented bool   `json:"implemented"`
}

type frameworkControlResponse struct {
	ID               int64      `json:"id"`
	FrameworkID      int64      `json:"framework_id"`
	Code             string     `json:"code"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Implemented      bool       `json:"implemented"`
	ComplianceStatus string     `json:"compliance_status"`
	LastAssessedAt   *time.Time `json:"last_assessed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func toFrameworkControlResponse(control *model.FrameworkControl) *frameworkControlResponse {
	resp := &frameworkControlResponse{
		ID:               control.ID,
		FrameworkID:      control.FrameworkID,
		Code:             control.Code,
		Name:             control.Name,
		Description:      control.Description,
		Implemented:      control.Implemented,
		ComplianceStatus: control.ComplianceStatus.Normalize().String(),
		CreatedAt:        control.CreatedAt,
		UpdatedAt:        control.UpdatedAt,
	}
	if !control.LastAssessedAt.IsZero() {
		t := control.LastAssessedAt
		resp.LastAssessedAt = &t
	}
	return resp
}

func toFrameworkControlResponses(controls []*model.FrameworkControl) []*frameworkControlResponse {
	out := make([]*frameworkControlResponse, len(controls))
	for i, c := range controls {
		out[i] = toFrameworkControlResponse(c)
	}
	return out
}

func (s *Server) createFrameworkControl(w http.ResponseWriter, r *http.Request) {
	var req frameworkControlRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	created, err := s.uc.Control.CreateFrameworkControl(r.Context(), &model.FrameworkControl{
		FrameworkID: req.FrameworkID,
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Implemented: req.Implemented,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toFrameworkControlResponse(created))
}

func (s *Server) getFrameworkControl(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	control, err := s.uc.Control.GetFrameworkControl(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toFrameworkControlResponse(control))
}

func (s *Server) listFrameworkControls(w http.ResponseWriter, r *http.Request) {
	controls, err := s.uc.Control.ListFrameworkControls(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"controls": toFrameworkControlResponses(controls)})
}

func (s *Server) updateFrameworkControl(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	var req frameworkControlRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	updated, err := s.uc.Control.UpdateFrameworkControl(r.Context(), &model.FrameworkControl{
		ID:          id,
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Implemented: req.Implemented,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toFrameworkControlResponse(updated))
}

func (s *Server) deleteFrameworkControl(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	if err := s.uc.Control.DeleteFrameworkControl(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

type frameworkRequest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type frameworkResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toFrameworkResponse(framework *model.ControlFramework) *frameworkResponse {
	return &frameworkResponse{
		ID:        framework.ID,
		Name:      framework.Name,
		Version:   framework.Version,
		Active:    framework.Active,
		CreatedAt: framework.CreatedAt,
		UpdatedAt: framework.UpdatedAt,
	}
}

func (s *Server) createFramework(w http.ResponseWriter, r *http.Request) {
	var req frameworkRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	created, err := s.uc.Control.CreateFramework(r.Context(), &model.ControlFramework{
		Name:    req.Name,
		Version: req.Version,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toFrameworkResponse(created))
}

func (s *Server) getFramework(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	framework, err := s.uc.Control.GetFramework(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toFrameworkResponse(framework))
}

func (s *Server) listFrameworks(w http.ResponseWriter, r *http.Request) {
	frameworks, err := s.uc.Control.ListFrameworks(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	out := make([]*frameworkResponse, len(frameworks))
	for i, fw := range frameworks {
		out[i] = toFrameworkResponse(fw)
	}
	respondJSON(w, http.StatusOK, map[string]any{"frameworks": out})
}

func (s *Server) updateFramework(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	var req frameworkRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	updated, err := s.uc.Control.UpdateFramework(r.Context(), &model.ControlFramework{
		ID:      id,
		Name:    req.Name,
		Version: req.Version,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toFrameworkResponse(updated))
}

func (s *Server) deleteFramework(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	if err := s.uc.Control.DeleteFramework(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) activateFramework(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	if err := s.uc.Control.SetActiveFramework(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) listControlsByFramework(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	controls, err := s.uc.Control.ListByFramework(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"controls": toFrameworkControlResponses(controls)})
}
