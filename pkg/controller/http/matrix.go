package http

import (
	"net/http"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type matrixLevelPayload struct {
	Level       int    `json:"level"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

type matrixRequest struct {
	Name       string               `json:"name"`
	Likelihood []matrixLevelPayload `json:"likelihood"`
	Impact     []matrixLevelPayload `json:"impact"`
}

func (req *matrixRequest) toModel(id int64) *model.RiskMatrix {
	return &model.RiskMatrix{
		ID:         id,
		Name:       req.Name,
		Likelihood: toMatrixLevels(req.Likelihood),
		Impact:     toMatrixLevels(req.Impact),
	}
}

func toMatrixLevels(payloads []matrixLevelPayload) []model.MatrixLevel {
	levels := make([]model.MatrixLevel, len(payloads))
	for i, p := range payloads {
		levels[i] = model.MatrixLevel{Level: p.Level, Label: p.Label, Description: p.Description}
	}
	return levels
}

type matrixResponse struct {
	ID         int64                `json:"id"`
	Name       string               `json:"name"`
	Likelihood []matrixLevelPayload `json:"likelihood"`
	Impact     []matrixLevelPayload `json:"impact"`
	Active     bool                 `json:"active"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

func toMatrixResponse(matrix *model.RiskMatrix) *matrixResponse {
	return &matrixResponse{
		ID:         matrix.ID,
		Name:       matrix.Name,
		Likelihood: toMatrixLevelPayloads(matrix.Likelihood),
		Impact:     toMatrixLevelPayloads(matrix.Impact),
		Active:     matrix.Active,
		CreatedAt:  matrix.CreatedAt,
		UpdatedAt:  matrix.UpdatedAt,
	}
}

func toMatrixLevelPayloads(levels []model.MatrixLevel) []matrixLevelPayload {
	payloads := make([]matrixLevelPayload, len(levels))
	for i, lv := range levels {
		payloads[i] = matrixLevelPayload{Level: lv.Level, Label: lv.Label, Description: lv.Description}
	}
	return payloads
}

func (s *Server) createMatrix(w http.ResponseWriter, r *http.Request) {
	var req matrixRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	created, err := s.uc.Matrix.Create(r.Context(), req.toModel(0))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toMatrixResponse(created))
}

func (s *Server) getMatrix(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	matrix, err := s.uc.Matrix.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toMatrixResponse(matrix))
}

func (s *Server) getActiveMatrix(w http.ResponseWriter, r *http.Request) {
	matrix, err := s.uc.Matrix.GetActive(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if matrix == nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "no active matrix"})
		return
	}

	respondJSON(w, http.StatusOK, toMatrixResponse(matrix))
}

func (s *Server) listMatrices(w http.ResponseWriter, r *http.Request) {
	matrices, err := s.uc.Matrix.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	out := make([]*matrixResponse, len(matrices))
	for i, m := range matrices {
		out[i] = toMatrixResponse(m)
	}
	respondJSON(w, http.StatusOK, map[string]any{"matrices": out})
}

func (s *Server) updateMatrix(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	var req matrixRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	updated, err := s.uc.Matrix.Update(r.Context(), req.toModel(id))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toMatrixResponse(updated))
}

func (s *Server) deleteMatrix(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	if err := s.uc.Matrix.Delete(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) activateMatrix(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	if err := s.uc.Matrix.SetActive(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
