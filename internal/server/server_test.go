package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/ads-advisor/internal/telemetry"
	"github.com/iwvelando/ads-advisor/pkg/constants"
	"github.com/iwvelando/ads-advisor/pkg/rules"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

type decodedEvaluation struct {
	Product struct {
		SKU string `json:"sku"`
	} `json:"product"`
	Metrics struct {
		ConversionRate     float64  `json:"conversionRate"`
		CostPerAcquisition *float64 `json:"costPerAcquisition"`
	} `json:"metrics"`
	Recommendation struct {
		Action string `json:"action"`
		Tone   string `json:"tone"`
	} `json:"recommendation"`
}

type decodedResponse struct {
	Report struct {
		Evaluations    []decodedEvaluation `json:"evaluations"`
		PendingActions []struct {
			SKU string `json:"sku"`
		} `json:"pendingActions"`
		KPIs struct {
			TotalClicks int     `json:"totalClicks"`
			BlendedROAS float64 `json:"blendedROAS"`
		} `json:"kpis"`
	} `json:"report"`
	CSV      string   `json:"csv"`
	Warnings []string `json:"warnings"`
	Duration string   `json:"duration"`
}

const sampleRequest = `{
  "settings": {"dailyBudget": 45, "targetROAS": 8, "autoOptimize": true},
  "products": [
    {"sku": "CAM.03", "name": "Camera", "rank": 2, "price": 499.9, "bestCompetitorPrice": 489.9, "stock": 73,
     "cpc": 1.9, "clicks": 47, "conversions": 2, "adCost": 89.1, "profitPerUnit": 26.2, "autoOptimize": true},
    {"sku": "UV.01", "name": "Sterilizer", "rank": null, "price": 139.9, "stock": 38,
     "cpc": 0.85, "clicks": 120, "conversions": 8, "adCost": 102, "profitPerUnit": 26.2, "autoOptimize": false}
  ]
}`

func newTestHandler() (http.Handler, *telemetry.Metrics) {
	m := telemetry.New()
	return NewHandler(zap.NewNop(), m, constants.DefaultMaxUploadSizeBytes, "test"), m
}

func TestHandleEvaluateSuccess(t *testing.T) {
	handler, m := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(sampleRequest))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp decodedResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Report.Evaluations) != 2 {
		t.Fatalf("expected 2 evaluations, got %d", len(resp.Report.Evaluations))
	}
	if got := resp.Report.Evaluations[0].Recommendation.Action; got != string(rules.ActionDecreasePrice) {
		t.Errorf("CAM.03 action = %s, expected decrease-price", got)
	}
	if got := resp.Report.Evaluations[1].Recommendation.Action; got != string(rules.ActionIncreaseBid) {
		t.Errorf("UV.01 action = %s, expected increase-bid", got)
	}
	if resp.Report.Evaluations[0].Metrics.CostPerAcquisition == nil {
		t.Error("expected CAM.03 CPA to be present")
	}
	if resp.Report.KPIs.TotalClicks != 167 {
		t.Errorf("TotalClicks = %d, expected 167", resp.Report.KPIs.TotalClicks)
	}
	if len(resp.Report.PendingActions) != 1 || resp.Report.PendingActions[0].SKU != "CAM.03" {
		t.Errorf("unexpected pending actions: %+v", resp.Report.PendingActions)
	}
	if resp.CSV == "" || resp.Duration == "" {
		t.Error("expected CSV and duration in response")
	}

	found := false
	for _, w := range resp.Warnings {
		if strings.Contains(w, "UV.01") && strings.Contains(w, "no rank") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected missing rank warning for UV.01, got %v", resp.Warnings)
	}

	if got := testutil.ToFloat64(m.Recommendations.WithLabelValues(string(rules.ActionIncreaseBid))); got != 1 {
		t.Errorf("increase-bid counter = %v, expected 1", got)
	}
}

func TestHandleEvaluateNoCPAWithoutConversions(t *testing.T) {
	handler, _ := newTestHandler()

	body := `{"products": [{"sku": "NEW", "price": 10, "clicks": 20, "adCost": 5, "cpc": 0.25, "profitPerUnit": 2}]}`
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"costPerAcquisition":null`) {
		t.Errorf("expected null CPA in response: %s", rr.Body.String())
	}
}

func TestHandleEvaluateInvalidInput(t *testing.T) {
	handler, m := newTestHandler()

	body := `{"products": [{"sku": "BAD", "clicks": -4}]}`
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(body)))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Field != "clicks" || resp.SKU != "BAD" {
		t.Errorf("unexpected error response: %+v", resp)
	}
	if got := testutil.ToFloat64(m.Evaluations.WithLabelValues("rejected")); got != 1 {
		t.Errorf("rejected counter = %v, expected 1", got)
	}
}

func TestHandleEvaluateBadRequests(t *testing.T) {
	handler, _ := newTestHandler()

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"Wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"Malformed JSON", http.MethodPost, `{"products": [`, http.StatusBadRequest},
		{"Unknown field", http.MethodPost, `{"items": []}`, http.StatusBadRequest},
		{"Invalid policy", http.MethodPost, `{"policy": {"maxHealthyRank": -1}, "products": []}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(tt.method, "/api/evaluate", strings.NewReader(tt.body)))
			if rr.Code != tt.status {
				t.Errorf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestHandleEvaluateTooLarge(t *testing.T) {
	handler := NewHandler(zap.NewNop(), telemetry.New(), 64, "test")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(sampleRequest)))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rr.Code)
	}
}

func TestHandleUploadSuccess(t *testing.T) {
	handler, _ := newTestHandler()

	data, err := os.ReadFile(filepath.Join("..", "..", "test", "test_config.yaml"))
	if err != nil {
		t.Fatalf("failed to read test config: %v", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "test_config.yaml")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write form data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp decodedResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Report.Evaluations) != 3 {
		t.Fatalf("expected 3 evaluations, got %d", len(resp.Report.Evaluations))
	}
	if got := resp.Report.Evaluations[2].Recommendation.Action; got != string(rules.ActionDecreaseBid) {
		t.Errorf("DASH.07 action = %s, expected decrease-bid", got)
	}
	if got := resp.Report.Evaluations[2].Recommendation.Tone; got != string(rules.ToneDestructive) {
		t.Errorf("DASH.07 tone = %s, expected destructive", got)
	}
}

func TestHandleUploadMissingFile(t *testing.T) {
	handler, _ := newTestHandler()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("note", "no file"); err != nil {
		t.Fatalf("failed to write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleVersionAndMetrics(t *testing.T) {
	handler, _ := newTestHandler()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var version map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &version); err != nil {
		t.Fatalf("failed to decode version: %v", err)
	}
	if version["version"] != "test" {
		t.Errorf("version = %s, expected test", version["version"])
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "ads_advisor_http_requests_total") {
		t.Error("expected HTTP request counter in metrics output")
	}
}

func TestUnknownPathsShareOneMetricSeries(t *testing.T) {
	handler, m := newTestHandler()

	for i := 0; i < 50; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/junk/%d", i), nil))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rr.Code)
		}
	}

	if got := testutil.CollectAndCount(m.HTTPRequestsTotal); got != 1 {
		t.Errorf("request counter series = %d, expected 1", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, telemetry.OtherRoute, "404")); got != 50 {
		t.Errorf("other route count = %v, expected 50", got)
	}
}
