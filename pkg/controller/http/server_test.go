package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/briareus/pkg/controller/http"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(httpctrl.New(usecase.New(memory.New())))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body map[string]any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	gt.NoError(t, err).Required()
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	gt.NoError(t, err).Required()
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&out)).Required()
	return out
}

func TestServer_CreateRisk(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/api/risks", map[string]any{
		"title":               "Ransomware on file servers",
		"inherent_severity":   "critical",
		"inherent_likelihood": "possible",
	})
	gt.Number(t, resp.StatusCode).Equal(http.StatusCreated)

	body := decodeBody(t, resp)
	gt.Value(t, body["inherent_score"]).Equal(float64(15))
	gt.Value(t, body["inherent_level"]).Equal("high")
	gt.Value(t, body["current_score"]).Equal(float64(15))
	gt.Value(t, body["status"]).Equal("draft")
}

func TestServer_CreateRisk_Invalid(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/api/risks", map[string]any{
		"title":               "Bad",
		"inherent_severity":   "catastrophic",
		"inherent_likelihood": "possible",
	})
	gt.Number(t, resp.StatusCode).Equal(http.StatusBadRequest)
	resp.Body.Close()
}

func TestServer_GetRisk_NotFound(t *testing.T) {
	srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/risks/999")
	gt.NoError(t, err).Required()
	gt.Number(t, resp.StatusCode).Equal(http.StatusNotFound)
	resp.Body.Close()
}

func TestServer_TreatmentLifecycle(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/api/risks", map[string]any{
		"title":               "Stolen laptops",
		"inherent_severity":   "critical",
		"inherent_likelihood": "likely",
	})
	gt.Number(t, resp.StatusCode).Equal(http.StatusCreated)
	risk := decodeBody(t, resp)
	riskID := int64(risk["id"].(float64))

	resp = postJSON(t, srv.URL+"/api/treatments", map[string]any{
		"risk_id":             riskID,
		"title":               "Full disk encryption",
		"strategy":            "mitigate",
		"residual_severity":   "low",
		"residual_likelihood": "unlikely",
	})
	gt.Number(t, resp.StatusCode).Equal(http.StatusCreated)
	treatment := decodeBody(t, resp)
	gt.Value(t, treatment["status"]).Equal("planned")
	treatmentID := int64(treatment["id"].(float64))

	resp = postJSON(t, srv.URL+fmt.Sprintf("/api/treatments/%d/start", treatmentID), nil)
	gt.Number(t, resp.StatusCode).Equal(http.StatusOK)
	started := decodeBody(t, resp)
	gt.Value(t, started["status"]).Equal("in_progress")

	// Starting a treatment applies the residual to the risk
	riskResp, err := http.Get(srv.URL + fmt.Sprintf("/api/risks/%d", riskID))
	gt.NoError(t, err).Required()
	gt.Number(t, riskResp.StatusCode).Equal(http.StatusOK)
	updated := decodeBody(t, riskResp)
	gt.Value(t, updated["residual_score"]).Equal(float64(4))
	gt.Value(t, updated["residual_rating"]).Equal("low")
	gt.Value(t, updated["current_score"]).Equal(float64(4))
	gt.Value(t, updated["status"]).Equal("active")

	resp = postJSON(t, srv.URL+fmt.Sprintf("/api/treatments/%d/complete", treatmentID), nil)
	gt.Number(t, resp.StatusCode).Equal(http.StatusOK)
	completed := decodeBody(t, resp)
	gt.Value(t, completed["status"]).Equal("completed")
	gt.Value(t, completed["completed_at"]).NotNil()

	riskResp, err = http.Get(srv.URL + fmt.Sprintf("/api/risks/%d", riskID))
	gt.NoError(t, err).Required()
	final := decodeBody(t, riskResp)
	gt.Value(t, final["status"]).Equal("treated")
}

func TestServer_FindingRecomputesControl(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/api/controls", map[string]any{
		"name": "Quarterly access review",
	})
	gt.Number(t, resp.StatusCode).Equal(http.StatusCreated)
	control := decodeBody(t, resp)
	gt.Value(t, control["compliance_status"]).Equal("not_assessed")
	controlID := int64(control["id"].(float64))

	resp = postJSON(t, srv.URL+"/api/findings", map[string]any{
		"internal_control_id": controlID,
		"finding_type":        "Major Deviation",
		"status":              "Open",
		"title":               "Reviews not performed",
	})
	gt.Number(t, resp.StatusCode).Equal(http.StatusCreated)
	resp.Body.Close()

	controlResp, err := http.Get(srv.URL + fmt.Sprintf("/api/controls/%d", controlID))
	gt.NoError(t, err).Required()
	updated := decodeBody(t, controlResp)
	gt.Value(t, updated["compliance_status"]).Equal("major_deviation")
	gt.Value(t, updated["last_assessed_at"]).NotNil()
}

func TestServer_Dashboard(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/api/risks", map[string]any{
		"title":               "Vendor outage",
		"inherent_severity":   "medium",
		"inherent_likelihood": "possible",
	})
	gt.Number(t, resp.StatusCode).Equal(http.StatusCreated)
	resp.Body.Close()

	dashResp, err := http.Get(srv.URL + "/api/dashboard")
	gt.NoError(t, err).Required()
	gt.Number(t, dashResp.StatusCode).Equal(http.StatusOK)
	dash := decodeBody(t, dashResp)

	risks, ok := dash["risks"].(map[string]any)
	gt.B(t, ok).True()
	gt.Value(t, risks["total"]).Equal(float64(1))

	snapResp := postJSON(t, srv.URL+"/api/dashboard/snapshots", nil)
	gt.Number(t, snapResp.StatusCode).Equal(http.StatusCreated)
	snap := decodeBody(t, snapResp)
	gt.Value(t, snap["id"]).NotNil()

	latestResp, err := http.Get(srv.URL + "/api/dashboard/snapshots/latest")
	gt.NoError(t, err).Required()
	gt.Number(t, latestResp.StatusCode).Equal(http.StatusOK)
	latest := decodeBody(t, latestResp)
	gt.Value(t, latest["id"]).Equal(snap["id"])
}

func TestServer_CreateRisk_OwnerFromHeader(t *testing.T) {
	srv := setupServer(t)

	data, err := json.Marshal(map[string]any{
		"title":               "Unpatched VPN gateway",
		"inherent_severity":   "high",
		"inherent_likelihood": "likely",
	})
	gt.NoError(t, err).Required()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/risks", bytes.NewReader(data))
	gt.NoError(t, err).Required()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u-aoki")

	resp, err := http.DefaultClient.Do(req)
	gt.NoError(t, err).Required()
	gt.Number(t, resp.StatusCode).Equal(http.StatusCreated)

	body := decodeBody(t, resp)
	gt.Value(t, body["owner_id"]).Equal("u-aoki")
}
