package http

import (
	"net/http"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

type policyRequest struct {
	Name       string     `json:"name"`
	OwnerID    string     `json:"owner_id"`
	Status     string     `json:"status"`
	ReviewDate *time.Time `json:"review_date,omitempty"`
}

func (req *policyRequest) toModel(id int64) *model.Policy {
	policy := &model.Policy{
		ID:      id,
		Name:    req.Name,
		OwnerID: req.OwnerID,
		Status:  types.PolicyStatus(req.Status),
	}
	if req.ReviewDate != nil {
		policy.ReviewDate = *req.ReviewDate
	}
	return policy
}

type policyResponse struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	OwnerID    string     `json:"owner_id"`
	Status     string     `json:"status"`
	ReviewDate *time.Time `json:"review_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func toPolicyResponse(policy *model.Policy) *policyResponse {
	resp := &policyResponse{
		ID:        policy.ID,
		Name:      policy.Name,
		OwnerID:   policy.OwnerID,
		Status:    policy.Status.Normalize().String(),
		CreatedAt: policy.CreatedAt,
		UpdatedAt: policy.UpdatedAt,
	}
	if !policy.ReviewDate.IsZero() {
		t := policy.ReviewDate
		resp.ReviewDate = &t
	}
	return resp
}

func (s *Server) createPolicy(w http.ResponseWriter, r *http.Request) {
	var req policyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	created, err := s.uc.Record.CreatePolicy(r.Context(), req.toModel(0))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toPolicyResponse(created))
}

func (s *Server) getPolicy(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	policy, err := s.uc.Record.GetPolicy(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toPolicyResponse(policy))
}

func (s *Server) listPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := s.uc.Record.ListPolicies(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	out := make([]*policyResponse, len(policies))
	for i, p := range policies {
		out[i] = toPolicyResponse(p)
	}
	respondJSON(w, http.StatusOK, map[string]any{"policies": out})
}

func (s *Server) updatePolicy(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	var req policyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	updated, err := s.uc.Record.UpdatePolicy(r.Context(), req.toModel(id))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toPolicyResponse(updated))
}

func (s *Server) deletePolicy(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	if err := s.uc.Record.DeletePolicy(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

type vendorRequest struct {
	Name       string     `json:"name"`
	RiskRating string     `json:"risk_rating"`
	ReviewDate *time.Time `json:"review_date,omitempty"`
}

func (req *vendorRequest) toModel(id int64) *model.Vendor {
	vendor := &model.Vendor{
		ID:         id,
		Name:       req.Name,
		RiskRating: types.RiskLevel(req.RiskRating),
	}
	if req.ReviewDate != nil {
		vendor.ReviewDate = *req.ReviewDate
	}
	return vendor
}

type vendorResponse struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	RiskRating string     `json:"risk_rating,omitempty"`
	ReviewDate *time.Time `json:"review_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func toVendorResponse(vendor *model.Vendor) *vendorResponse {
	resp := &vendorResponse{
		ID:         vendor.ID,
		Name:       vendor.Name,
		RiskRating: vendor.RiskRating.String(),
		CreatedAt:  vendor.CreatedAt,
		UpdatedAt:  vendor.UpdatedAt,
	}
	if !vendor.ReviewDate.IsZero() {
		t := vendor.ReviewDate
		resp.ReviewDate = &t
	}
	return resp
}

func (s *Server) createVendor(w http.ResponseWriter, r *http.Request) {
	var req vendorRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	created, err := s.uc.Record.CreateVendor(r.Context(), req.toModel(0))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toVendorResponse(created))
}

func (s *Server) getVendor(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	vendor, err := s.uc.Record.GetVendor(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toVendorResponse(vendor))
}

func (s *Server) listVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := s.uc.Record.ListVendors(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	out := make([]*vendorResponse, len(vendors))
	for i, v := range vendors {
		out[i] = toVendorResponse(v)
	}
	respondJSON(w, http.StatusOK, map[string]any{"vendors": out})
}

func (s *Server) updateVendor(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	var req vendorRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	updated, err := s.uc.Record.UpdateVendor(r.Context(), req.toModel(id))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toVendorResponse(updated))
}

func (s *Server) deleteVendor(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	if err := s.uc.Record.DeleteVendor(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

type evidenceRequest struct {
	Name        string     `json:"name"`
	ControlKind string     `json:"control_kind"`
	ControlID   int64      `json:"control_id"`
	CollectedAt *time.Time `json:"collected_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func (req *evidenceRequest) toModel(id int64) *model.Evidence {
	ev := &model.Evidence{
		ID:          id,
		Name:        req.Name,
		ControlKind: types.ControlKind(req.ControlKind),
		ControlID:   req.ControlID,
	}
	if req.CollectedAt != nil {
		ev.CollectedAt = *req.CollectedAt
	}
	if req.ExpiresAt != nil {
		ev.ExpiresAt = *req.ExpiresAt
	}
	return ev
}

type evidenceResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	StorageKey  string     `json:"storage_key"`
	ControlKind string     `json:"control_kind"`
	ControlID   int64      `json:"control_id"`
	CollectedAt *time.Time `json:"collected_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toEvidenceResponse(ev *model.Evidence) *evidenceResponse {
	resp := &evidenceResponse{
		ID:          ev.ID,
		Name:        ev.Name,
		StorageKey:  ev.StorageKey,
		ControlKind: ev.ControlKind.String(),
		ControlID:   ev.ControlID,
		CreatedAt:   ev.CreatedAt,
		UpdatedAt:   ev.UpdatedAt,
	}
	if !ev.CollectedAt.IsZero() {
		t := ev.CollectedAt
		resp.CollectedAt = &t
	}
	if !ev.ExpiresAt.IsZero() {
		t := ev.ExpiresAt
		resp.ExpiresAt = &t
	}
	return resp
}

func (s *Server) createEvidence(w http.ResponseWriter, r *http.Request) {
	var req evidenceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	created, err := s.uc.Record.CreateEvidence(r.Context(), req.toModel(0))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toEvidenceResponse(created))
}

func (s *Server) getEvidence(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	ev, err := s.uc.Record.GetEvidence(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toEvidenceResponse(ev))
}

func (s *Server) listEvidence(w http.ResponseWriter, r *http.Request) {
	evs, err := s.uc.Record.ListEvidence(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	out := make([]*evidenceResponse, len(evs))
	for i, ev := range evs {
		out[i] = toEvidenceResponse(ev)
	}
	respondJSON(w, http.StatusOK, map[string]any{"evidence": out})
}

func (s *Server) updateEvidence(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	var req evidenceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleBadRequest(w, err)
		return
	}

	updated, err := s.uc.Record.UpdateEvidence(r.Context(), req.toModel(id))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toEvidenceResponse(updated))
}

func (s *Server) deleteEvidence(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleBadRequest(w, err)
		return
	}

	if err := s.uc.Record.DeleteEvidence(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
