package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"campaigngen/internal/domain"
)

type fakeGenerator struct {
	status   domain.ServiceStatus
	message  domain.GeneratedMessage
	multiple []domain.GeneratedMessage
	analysis domain.AnalysisResult

	lastRequest   domain.GenerationRequest
	lastVariation domain.VariationRequest
	calls         int
}

func (f *fakeGenerator) GenerateMessage(_ context.Context, req domain.GenerationRequest) domain.GeneratedMessage {
	f.calls++
	f.lastRequest = req
	return f.message
}

func (f *fakeGenerator) GenerateMultipleVariations(_ context.Context, req domain.VariationRequest) []domain.GeneratedMessage {
	f.calls++
	f.lastVariation = req
	if f.multiple != nil {
		return f.multiple
	}
	out := make([]domain.GeneratedMessage, req.Count)
	for i := range out {
		out[i] = domain.GeneratedMessage{Text: "variation"}
	}
	return out
}

func (f *fakeGenerator) AnalyzeMessage(_ context.Context, message string) domain.AnalysisResult {
	f.calls++
	res := f.analysis
	res.Message = message
	return res
}

func (f *fakeGenerator) Status() domain.ServiceStatus { return f.status }

type recordingUsage struct {
	mu        sync.Mutex
	events    []domain.UsageEvent
	recordErr error
	summary   *domain.UsageSummary
	sumErr    error
}

func (r *recordingUsage) Record(_ context.Context, ev domain.UsageEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.recordErr
}

func (r *recordingUsage) Summary(context.Context) (*domain.UsageSummary, error) {
	return r.summary, r.sumErr
}

func (r *recordingUsage) Close() error { return nil }

func newTestApp(gen Generator, usage domain.UsageRepository) *App {
	return NewApp(gen, usage, zerolog.Nop())
}

func post(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestGenerateMessageSuccess(t *testing.T) {
	gen := &fakeGenerator{message: domain.GeneratedMessage{Text: "Shop the spring sale today!"}}
	usage := &recordingUsage{}
	app := newTestApp(gen, usage)

	rr := post(t, app.GenerateMessage, `{"prompt":"spring sale","industry":" Retail ","tone":"playful"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var resp generateMessageResponse
	decodeBody(t, rr, &resp)
	if resp.Message != "Shop the spring sale today!" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if rr.Header().Get(GenerationFailedHeader) != "" {
		t.Fatal("failure header must be absent on success")
	}
	if gen.lastRequest.Industry != "Retail" || gen.lastRequest.Tone != "playful" || gen.lastRequest.TargetAudience != "" {
		t.Fatalf("unexpected request: %+v", gen.lastRequest)
	}
	if len(usage.events) != 1 || usage.events[0].Operation != domain.OperationGenerateMessage || !usage.events[0].Success {
		t.Fatalf("unexpected usage events: %+v", usage.events)
	}
}

func TestGenerateMessageFailureIsInBand(t *testing.T) {
	gen := &fakeGenerator{message: domain.GeneratedMessage{
		Text: "Error generating message: quota exceeded",
		Err:  errors.New("quota exceeded"),
	}}
	usage := &recordingUsage{}
	app := newTestApp(gen, usage)

	rr := post(t, app.GenerateMessage, `{"prompt":"spring sale"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("failures must still answer 200, got %d", rr.Code)
	}
	if rr.Header().Get(GenerationFailedHeader) != "true" {
		t.Fatal("expected failure header")
	}
	var resp generateMessageResponse
	decodeBody(t, rr, &resp)
	if !strings.HasPrefix(resp.Message, "Error generating message: ") {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if usage.events[0].Success {
		t.Fatal("usage must record the failure")
	}
}

func TestGenerateMessageRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed", body: `{"prompt":`},
		{name: "empty body", body: ``},
		{name: "missing prompt", body: `{"industry":"Retail"}`},
		{name: "blank prompt", body: `{"prompt":"   "}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			app := newTestApp(gen, &recordingUsage{})
			rr := post(t, app.GenerateMessage, tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			var resp errorBody
			decodeBody(t, rr, &resp)
			if resp.Error.Code != "bad_request" || resp.Error.Message == "" {
				t.Fatalf("unexpected error body: %+v", resp)
			}
			if gen.calls != 0 {
				t.Fatal("generator must not be called for invalid input")
			}
		})
	}
}

func TestGenerateMultipleMessagesDefaultsCount(t *testing.T) {
	gen := &fakeGenerator{}
	app := newTestApp(gen, &recordingUsage{})

	rr := post(t, app.GenerateMultipleMessages, `{"prompt":"launch"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if gen.lastVariation.Count != domain.DefaultVariationCount {
		t.Fatalf("expected default count %d, got %d", domain.DefaultVariationCount, gen.lastVariation.Count)
	}
	var resp generateMultipleResponse
	decodeBody(t, rr, &resp)
	if len(resp.Messages) != domain.DefaultVariationCount {
		t.Fatalf("expected %d messages, got %d", domain.DefaultVariationCount, len(resp.Messages))
	}
}

func TestGenerateMultipleMessagesZeroAndNegative(t *testing.T) {
	gen := &fakeGenerator{}
	app := newTestApp(gen, &recordingUsage{})

	rr := post(t, app.GenerateMultipleMessages, `{"prompt":"launch","count":0}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"messages":[]`) {
		t.Fatalf("expected empty array, got %s", rr.Body.String())
	}

	rr = post(t, app.GenerateMultipleMessages, `{"prompt":"launch","count":-1}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("negative count: status = %d, want 400", rr.Code)
	}
}

func TestGenerateMultipleMessagesPartialFailure(t *testing.T) {
	gen := &fakeGenerator{multiple: []domain.GeneratedMessage{
		{Text: "first"},
		{Text: "Error generating message: boom", Err: errors.New("boom")},
		{Text: "third"},
	}}
	usage := &recordingUsage{}
	app := newTestApp(gen, usage)

	rr := post(t, app.GenerateMultipleMessages, `{"prompt":"launch","count":3}`)
	if rr.Header().Get(GenerationFailedHeader) != "true" {
		t.Fatal("expected failure header when one variation failed")
	}
	var resp generateMultipleResponse
	decodeBody(t, rr, &resp)
	want := []string{"first", "Error generating message: boom", "third"}
	for i := range want {
		if resp.Messages[i] != want[i] {
			t.Fatalf("message %d = %q, want %q", i, resp.Messages[i], want[i])
		}
	}
	if ev := usage.events[0]; ev.Success || ev.Count != 3 || ev.Operation != domain.OperationGenerateMultiple {
		t.Fatalf("unexpected usage event: %+v", ev)
	}
}

func TestAnalyzeMessage(t *testing.T) {
	gen := &fakeGenerator{analysis: domain.AnalysisResult{Analysis: "Clarity: 8/10"}}
	app := newTestApp(gen, &recordingUsage{})

	rr := post(t, app.AnalyzeMessage, `{"message":"Buy one, get one free!"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var resp analyzeMessageResponse
	decodeBody(t, rr, &resp)
	if resp.Message != "Buy one, get one free!" || resp.Analysis != "Clarity: 8/10" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	rr = post(t, app.AnalyzeMessage, `{"message":""}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("empty message: status = %d, want 400", rr.Code)
	}
}

func TestUsageFailureDoesNotAffectResponse(t *testing.T) {
	gen := &fakeGenerator{message: domain.GeneratedMessage{Text: "ok"}}
	app := newTestApp(gen, &recordingUsage{recordErr: errors.New("disk full")})

	rr := post(t, app.GenerateMessage, `{"prompt":"p"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var resp generateMessageResponse
	decodeBody(t, rr, &resp)
	if resp.Message != "ok" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestHealthAndStatus(t *testing.T) {
	tests := []struct {
		name   string
		status domain.ServiceStatus
		want   string
	}{
		{name: "ready", status: domain.ServiceStatus{IsInitialized: true, APIAvailable: true}, want: "healthy"},
		{name: "degraded", status: domain.ServiceStatus{}, want: "unhealthy"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(&fakeGenerator{status: tc.status}, nil)

			rr := httptest.NewRecorder()
			app.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
			var health map[string]any
			decodeBody(t, rr, &health)
			if health["status"] != tc.want || health["google_ai_available"] != tc.status.APIAvailable {
				t.Fatalf("unexpected health: %v", health)
			}

			rr = httptest.NewRecorder()
			app.ServiceStatus(rr, httptest.NewRequest(http.MethodGet, "/service-status", nil))
			var st domain.ServiceStatus
			decodeBody(t, rr, &st)
			if st != tc.status {
				t.Fatalf("status = %+v, want %+v", st, tc.status)
			}
		})
	}
}

func TestRootDescribesAPI(t *testing.T) {
	app := newTestApp(&fakeGenerator{}, nil)
	rr := httptest.NewRecorder()
	app.Root(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	var body struct {
		Message   string            `json:"message"`
		Version   string            `json:"version"`
		Endpoints map[string]string `json:"endpoints"`
	}
	decodeBody(t, rr, &body)
	if body.Version != "2.0.0" || body.Message != "Campaign Message Generator API" {
		t.Fatalf("unexpected root: %+v", body)
	}
	if body.Endpoints["docs"] != "/docs" || body.Endpoints["analyze_message"] != "/analyze-message" {
		t.Fatalf("unexpected endpoints: %v", body.Endpoints)
	}
}

func TestStatsSummary(t *testing.T) {
	summary := &domain.UsageSummary{
		Operations: map[string]domain.UsageCounters{domain.OperationGenerateMessage: {Requests: 4, Messages: 4, RequestSuccess: 3, RequestFail: 1}},
		Today:      map[string]domain.UsageCounters{},
	}
	app := newTestApp(&fakeGenerator{}, &recordingUsage{summary: summary})

	rr := httptest.NewRecorder()
	app.StatsSummary(rr, httptest.NewRequest(http.MethodGet, "/stats/summary", nil))
	var got domain.UsageSummary
	decodeBody(t, rr, &got)
	if got.Operations[domain.OperationGenerateMessage].RequestFail != 1 {
		t.Fatalf("unexpected summary: %+v", got)
	}

	app = newTestApp(&fakeGenerator{}, &recordingUsage{sumErr: errors.New("db down")})
	rr = httptest.NewRecorder()
	app.StatsSummary(rr, httptest.NewRequest(http.MethodGet, "/stats/summary", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}

func TestOpenAPIDocument(t *testing.T) {
	app := newTestApp(&fakeGenerator{}, nil)
	rr := httptest.NewRecorder()
	app.OpenAPIJSON(rr, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	var doc struct {
		Paths map[string]any `json:"paths"`
	}
	decodeBody(t, rr, &doc)
	for _, p := range []string{"/generate-message", "/generate-multiple-messages", "/analyze-message", "/service-status", "/health"} {
		if _, ok := doc.Paths[p]; !ok {
			t.Fatalf("openapi document missing %s", p)
		}
	}
}

func TestGenerateMultipleMessagesRejectsCountAboveLimit(t *testing.T) {
	tests := []struct {
		name   string
		limit  int
		body   string
		status int
	}{
		{name: "default limit", limit: domain.MaxVariationCount, body: `{"prompt":"launch","count":11}`, status: http.StatusBadRequest},
		{name: "huge", limit: domain.MaxVariationCount, body: `{"prompt":"launch","count":4611686018427387904}`, status: http.StatusBadRequest},
		{name: "at limit", limit: domain.MaxVariationCount, body: `{"prompt":"launch","count":10}`, status: http.StatusOK},
		{name: "custom limit", limit: 2, body: `{"prompt":"launch","count":3}`, status: http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			app := newTestApp(gen, &recordingUsage{})
			app.MaxVariations = tc.limit

			rr := post(t, app.GenerateMultipleMessages, tc.body)
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
			if tc.status == http.StatusBadRequest && gen.calls != 0 {
				t.Fatal("generator must not run for a rejected count")
			}
		})
	}
}
