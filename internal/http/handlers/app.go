package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"campaigngen/internal/domain"
	"campaigngen/internal/middleware"
)

// GenerationFailedHeader is set to "true" when any returned item carries an
// error text instead of generated content.
const GenerationFailedHeader = "X-Generation-Failed"

const maxBodyBytes = 1 << 20

// Generator is what the handlers need from the campaign orchestrator.
type Generator interface {
	GenerateMessage(ctx context.Context, req domain.GenerationRequest) domain.GeneratedMessage
	GenerateMultipleVariations(ctx context.Context, req domain.VariationRequest) []domain.GeneratedMessage
	AnalyzeMessage(ctx context.Context, message string) domain.AnalysisResult
	Status() domain.ServiceStatus
}

type App struct {
	Generator Generator
	Usage     domain.UsageRepository
	Logger    zerolog.Logger
	Now       func() time.Time
	// MaxVariations bounds the count accepted by GenerateMultipleMessages.
	MaxVariations int
}

func NewApp(gen Generator, usage domain.UsageRepository, logger zerolog.Logger) *App {
	return &App{Generator: gen, Usage: usage, Logger: logger, Now: time.Now, MaxVariations: domain.MaxVariationCount}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorBody{Error: errorDetail{Code: errCode, Message: message}})
}

func (a *App) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty")
		}
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func (a *App) markFailed(w http.ResponseWriter, failed bool) {
	if failed {
		w.Header().Set(GenerationFailedHeader, "true")
	}
}

// record stores a usage event. Failures are logged and otherwise ignored.
func (a *App) record(r *http.Request, operation string, success bool, count int) {
	if a.Usage == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 2*time.Second)
	defer cancel()

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	err := a.Usage.Record(ctx, domain.UsageEvent{
		Operation: operation,
		Success:   success,
		Count:     count,
		At:        now(),
	})
	if err != nil {
		a.Logger.Warn().Err(err).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Str("operation", operation).
			Msg("usage: record failed")
	}
}
