package http

import (
	"net/http"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type appetiteBandPayload struct {
	Label             string   `json:"label"`
	MinScore          int      `json:"min_score"`
	MaxScore          int      `json:"max_score"`
	AuthorizedActions []string `json:"authorized_actions,omitempty"`
}

type appetiteRequest struct {
	Name  string                `json:"name"`
	Bands []appetiteBandPayload `json:"bands"`
}

func (req *appetiteRequest) toModel(id int64) *model.RiskAppetite {
	bands := make([]model.AppetiteBand, len(req.Bands))
	for i, b := range req.Bands {
		bands[i] = model.AppetiteBand{
			Label:             b.Label,
			MinScore:          b.MinScore,
			MaxScore:          b.MaxScore,
			AuthorizedActions: b.AuthorizedActions,
		}
	}
	return &model.RiskAppetite{ID: id, Name: req.Name, Bands: bands}
}

type appetiteResponse struct {
	ID        int64                 `json:"id"`
	Name      string                `json:"name"`
	Bands     []appetiteBandPayload `json:"bands"`
	Active    bool                  `json:"active"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func toAppetiteResponse(appetite *model.RiskAppetite) *appetiteResponse {
	bands := make([]appetiteBandPayload, len(appetite.Bands))
	for i, b := range appetite.Bands {
		bands[i] = appetiteBandPayload{
			Label:             b.Label,
			MinScore:          b.MinScore,
			MaxScore:          b.MaxScore,
			AuthorizedActions: b.AuthorizedActions,
		}
	}
	return &appetiteResponse{
		ID:        appetite.ID,
		Name:      appetite.Name,
		Bands:     bands,
		Active:    appetite.Active,
		CreatedAt: appetite.CreatedAt,
		UpdatedAt: appetite.UpdatedAt,
	}
}

func (s *Server) createAppetite(w http.ResponseWriter, r *http.Request) {
	var req appetiteRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	created, err := s.uc.Appetite.Create(r.Context(), req.toModel(0))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toAppetiteResponse(created))
}

func (s *Server) getAppetite(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	appetite, err := s.uc.Appetite.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toAppetiteResponse(appetite))
}

func (s *Server) getActiveAppetite(w http.ResponseWriter, r *http.Request) {
	appetite, err := s.uc.Appetite.GetActive(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if appetite == nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "no active appetite"})
		return
	}

	respondJSON(w, http.StatusOK, toAppetiteResponse(appetite))
}

func (s *Server) listAppetites(w http.ResponseWriter, r *http.Request) {
	appetites, err := s.uc.Appetite.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	out := make([]*appetiteResponse, len(appetites))
	for i, a := range appetites {
		out[i] = toAppetiteResponse(a)
	}
	respondJSON(w, http.StatusOK, map[string]any{"appetites": out})
}

func (s *Server) updateAppetite(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	var req appetiteRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	updated, err := s.uc.Appetite.Update(r.Context(), req.toModel(id))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toAppetiteResponse(updated))
}

func (s *Server) deleteAppetite(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	if err := s.uc.Appetite.Delete(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) activateAppetite(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	if err := s.uc.Appetite.SetActive(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
