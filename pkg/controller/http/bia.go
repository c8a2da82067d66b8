package http

import (
	"net/http"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

type assetRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
}

type assetResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	OwnerID      string    `json:"owner_id"`
	Criticality  string    `json:"criticality,omitempty"`
	RTOHours     int       `json:"rto_hours"`
	RPOHours     int       `json:"rpo_hours"`
	MTDHours     int       `json:"mtd_hours"`
	BIACompleted bool      `json:"bia_completed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toAssetResponse(asset *model.PrimaryAsset) *assetResponse {
	return &assetResponse{
		ID:           asset.ID,
		Name:         asset.Name,
		Description:  asset.Description,
		OwnerID:      asset.OwnerID,
		Criticality:  asset.Criticality.String(),
		RTOHours:     asset.RTOHours,
		RPOHours:     asset.RPOHours,
		MTDHours:     asset.MTDHours,
		BIACompleted: asset.BIACompleted,
		CreatedAt:    asset.CreatedAt,
		UpdatedAt:    asset.UpdatedAt,
	}
}

func (s *Server) createAsset(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	created, err := s.uc.Bia.CreateAsset(r.Context(), &model.PrimaryAsset{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toAssetResponse(created))
}

func (s *Server) getAsset(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	asset, err := s.uc.Bia.GetAsset(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toAssetResponse(asset))
}

func (s *Server) listAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.uc.Bia.ListAssets(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	out := make([]*assetResponse, len(assets))
	for i, a := range assets {
		out[i] = toAssetResponse(a)
	}
	respondJSON(w, http.StatusOK, map[string]any{"assets": out})
}

func (s *Server) updateAsset(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	var req assetRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	updated, err := s.uc.Bia.UpdateAsset(r.Context(), &model.PrimaryAsset{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toAssetResponse(updated))
}

func (s *Server) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	if err := s.uc.Bia.DeleteAsset(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

type timelineEntryPayload struct {
	Bucket      string `json:"bucket"`
	ImpactLevel int    `json:"impact_level"`
}

type assessmentRequest struct {
	Timeline []timelineEntryPayload `json:"timeline"`
	RTOHours int                    `json:"rto_hours"`
	RPOHours int                    `json:"rpo_hours"`
}

type assessmentResponse struct {
	ID                 int64                  `json:"id"`
	AssetID            int64                  `json:"asset_id"`
	Timeline           []timelineEntryPayload `json:"timeline"`
	RTOHours           int                    `json:"rto_hours"`
	RPOHours           int                    `json:"rpo_hours"`
	MTDHours           int                    `json:"mtd_hours"`
	DerivedCriticality string                 `json:"derived_criticality"`
	TimeToHighBucket   string                 `json:"time_to_high_bucket,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

func toAssessmentResponse(assessment *model.BiaAssessment) *assessmentResponse {
	timeline := make([]timelineEntryPayload, len(assessment.Timeline))
	for i, e := range assessment.Timeline {
		timeline[i] = timelineEntryPayload{Bucket: e.Bucket.String(), ImpactLevel: e.ImpactLevel}
	}
	resp := &assessmentResponse{
		ID:                 assessment.ID,
		AssetID:            assessment.AssetID,
		Timeline:           timeline,
		RTOHours:           assessment.RTOHours,
		RPOHours:           assessment.RPOHours,
		MTDHours:           assessment.MTDHours(),
		DerivedCriticality: assessment.DerivedCriticality.String(),
		CreatedAt:          assessment.CreatedAt,
		UpdatedAt:          assessment.UpdatedAt,
	}
	if assessment.TimeToHighBucket != nil {
		resp.TimeToHighBucket = assessment.TimeToHighBucket.String()
	}
	return resp
}

func (s *Server) saveAssessment(w http.ResponseWriter, r *http.Request) {
	assetID, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	var req assessmentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	timeline := make([]model.BiaTimelineEntry, len(req.Timeline))
	for i, e := range req.Timeline {
		timeline[i] = model.BiaTimelineEntry{
			Bucket:      types.TimeBucket(e.Bucket),
			ImpactLevel: e.ImpactLevel,
		}
	}

	saved, err := s.uc.Bia.SaveAssessment(r.Context(), &model.BiaAssessment{
		AssetID:  assetID,
		Timeline: timeline,
		RTOHours: req.RTOHours,
		RPOHours: req.RPOHours,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toAssessmentResponse(saved))
}

func (s *Server) getAssessmentByAsset(w http.ResponseWriter, r *http.Request) {
	assetID, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	assessment, err := s.uc.Bia.GetAssessmentByAsset(r.Context(), assetID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if assessment == nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "no assessment for asset"})
		return
	}

	respondJSON(w, http.StatusOK, toAssessmentResponse(assessment))
}

func (s *Server) getAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	assessment, err := s.uc.Bia.GetAssessment(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toAssessmentResponse(assessment))
}

func (s *Server) listAssessments(w http.ResponseWriter, r *http.Request) {
	assessments, err := s.uc.Bia.ListAssessments(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	out := make([]*assessmentResponse, len(assessments))
	for i, a := range assessments {
		out[i] = toAssessmentResponse(a)
	}
	respondJSON(w, http.StatusOK, map[string]any{"assessments": out})
}

func (s *Server) deleteAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	if err := s.uc.Bia.DeleteAssessment(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
