package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"campaigngen/internal/adapter/repo"
	"campaigngen/internal/campaign"
	"campaigngen/internal/http/handlers"
	"campaigngen/internal/providers/genai"
)

type echoBackend struct{}

func (echoBackend) GenerateText(_ context.Context, prompt string) genai.Result {
	return genai.Result{Text: "copy"}
}

func newTestRouter(t *testing.T, connect campaign.Connector) http.Handler {
	t.Helper()
	gen := campaign.NewGenerator(context.Background(), connect)
	app := handlers.NewApp(gen, repo.NewUsageRepositoryMemory(), zerolog.Nop())
	return NewRouter(app, zerolog.Nop(), []string{"*"})
}

func TestRouterServesCampaignRoutes(t *testing.T) {
	h := newTestRouter(t, func(context.Context) (campaign.TextBackend, error) { return echoBackend{}, nil })

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/service-status", "", http.StatusOK},
		{http.MethodPost, "/generate-message", `{"prompt":"spring sale"}`, http.StatusOK},
		{http.MethodPost, "/generate-multiple-messages", `{"prompt":"spring sale","count":2}`, http.StatusOK},
		{http.MethodPost, "/analyze-message", `{"message":"Buy now"}`, http.StatusOK},
		{http.MethodGet, "/stats/summary", "", http.StatusOK},
		{http.MethodGet, "/docs", "", http.StatusOK},
		{http.MethodGet, "/openapi.json", "", http.StatusOK},
		{http.MethodGet, "/generate-message", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/missing", "", http.StatusNotFound},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != tc.status {
			t.Fatalf("%s %s: status %d, want %d", tc.method, tc.path, rr.Code, tc.status)
		}
		if rr.Header().Get("X-Request-ID") == "" {
			t.Fatalf("%s %s: missing request id header", tc.method, tc.path)
		}
	}
}

func TestRouterDegradedHealth(t *testing.T) {
	h := newTestRouter(t, func(context.Context) (campaign.TextBackend, error) {
		return nil, genai.ErrConfiguration
	})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "unhealthy" || body["google_ai_available"] != false {
		t.Fatalf("unexpected health body: %v", body)
	}
}
