// Package campaign builds campaign prompts and coordinates calls to the text
// backend. Every public Generator method returns a usable value; backend
// failures travel in-band.
package campaign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"campaigngen/internal/domain"
	"campaigngen/internal/providers/genai"
)

// NotInitializedMessage is returned in place of content while the generator
// is degraded.
const NotInitializedMessage = "Error: Google AI service not initialized. Please check your API key."

// TextBackend is the one primitive the generator needs from a backend.
type TextBackend interface {
	GenerateText(ctx context.Context, prompt string) genai.Result
}

// Connector builds the backend. It runs once, inside NewGenerator.
type Connector func(ctx context.Context) (TextBackend, error)

// ErrNotInitialized is attached to results produced while degraded.
var ErrNotInitialized = errors.New("campaign: backend not initialized")

// Generator is ready when its backend connected, degraded otherwise. The state
// never changes after construction.
type Generator struct {
	backend     TextBackend
	initErr     error
	defaults    PromptDefaults
	concurrency int
	maxCount    int
	callTimeout time.Duration
	logger      zerolog.Logger
}

// Option customises a Generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithPromptDefaults overrides the fallbacks for optional request fields.
func WithPromptDefaults(d PromptDefaults) Option {
	return func(g *Generator) { g.defaults = d }
}

// WithVariationConcurrency bounds how many variation calls run at once.
// Values below 2 keep variations sequential.
func WithVariationConcurrency(n int) Option {
	return func(g *Generator) {
		if n < 1 {
			n = 1
		}
		g.concurrency = n
	}
}

// WithMaxVariations caps how many variations one call may request. Values
// below 1 keep domain.MaxVariationCount.
func WithMaxVariations(n int) Option {
	return func(g *Generator) {
		if n >= 1 {
			g.maxCount = n
		}
	}
}

// WithCallTimeout bounds each backend call. Zero disables the bound.
func WithCallTimeout(d time.Duration) Option {
	return func(g *Generator) { g.callTimeout = d }
}

// NewGenerator runs connect once and records whether it succeeded.
func NewGenerator(ctx context.Context, connect Connector, opts ...Option) *Generator {
	g := &Generator{
		defaults:    DefaultPromptDefaults(),
		concurrency: 1,
		maxCount:    domain.MaxVariationCount,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if connect == nil {
		g.initErr = fmt.Errorf("%w: no connector", genai.ErrConfiguration)
	} else {
		backend, err := connect(ctx)
		switch {
		case err != nil:
			g.initErr = err
		case backend == nil:
			g.initErr = fmt.Errorf("%w: connector returned no backend", genai.ErrConfiguration)
		default:
			g.backend = backend
		}
	}

	if g.initErr != nil {
		g.logger.Error().Err(g.initErr).Msg("campaign: failed to initialize text backend")
	} else {
		g.logger.Info().Msg("campaign: generator ready")
	}
	return g
}

func (g *Generator) ready() bool {
	return g.initErr == nil
}

// InitError returns the construction failure, or nil when ready.
func (g *Generator) InitError() error {
	return g.initErr
}

// Status reports the construction outcome. Both fields carry the same value.
func (g *Generator) Status() domain.ServiceStatus {
	ok := g.ready()
	return domain.ServiceStatus{IsInitialized: ok, APIAvailable: ok}
}

// GenerateMessage produces one campaign message for req.
func (g *Generator) GenerateMessage(ctx context.Context, req domain.GenerationRequest) domain.GeneratedMessage {
	if !g.ready() {
		return domain.GeneratedMessage{Text: NotInitializedMessage, Err: ErrNotInitialized}
	}
	res := g.call(ctx, BuildCampaignPrompt(req, g.defaults))
	if !res.OK() {
		g.logger.Warn().Err(res.Err).Str("reason", res.Err.Reason).Msg("campaign: message generation failed")
		return domain.GeneratedMessage{Text: "Error generating message: " + res.Err.Error(), Err: res.Err}
	}
	return domain.GeneratedMessage{Text: res.Text}
}

// GenerateMultipleVariations produces req.Count messages, each from the
// prompt suffixed with its variation marker. Result i is variation i+1.
func (g *Generator) GenerateMultipleVariations(ctx context.Context, req domain.VariationRequest) []domain.GeneratedMessage {
	if !g.ready() {
		return []domain.GeneratedMessage{{Text: NotInitializedMessage, Err: ErrNotInitialized}}
	}
	if req.Count <= 0 {
		return []domain.GeneratedMessage{}
	}
	if req.Count > g.maxCount {
		err := fmt.Errorf("%w: count must be at most %d, got %d", domain.ErrInvalidCount, g.maxCount, req.Count)
		return []domain.GeneratedMessage{{Text: "Error generating message: " + err.Error(), Err: err}}
	}

	out := make([]domain.GeneratedMessage, req.Count)
	if g.concurrency <= 1 {
		for i := range out {
			out[i] = g.GenerateMessage(ctx, req.WithPrompt(VariationPrompt(req.Prompt, i)))
		}
		return out
	}

	// Workers never return an error so one failed variation cannot cancel
	// the others.
	var eg errgroup.Group
	eg.SetLimit(g.concurrency)
	for i := range out {
		eg.Go(func() error {
			out[i] = g.GenerateMessage(ctx, req.WithPrompt(VariationPrompt(req.Prompt, i)))
			return nil
		})
	}
	_ = eg.Wait()
	return out
}

// AnalyzeMessage scores message against the fixed rubric. The message is
// echoed back unchanged.
func (g *Generator) AnalyzeMessage(ctx context.Context, message string) domain.AnalysisResult {
	if !g.ready() {
		return domain.AnalysisResult{Message: message, Analysis: NotInitializedMessage, Err: ErrNotInitialized}
	}
	res := g.call(ctx, BuildAnalysisPrompt(message))
	if !res.OK() {
		g.logger.Warn().Err(res.Err).Str("reason", res.Err.Reason).Msg("campaign: message analysis failed")
		return domain.AnalysisResult{Message: message, Analysis: "Error analyzing message: " + res.Err.Error(), Err: res.Err}
	}
	return domain.AnalysisResult{Message: message, Analysis: res.Text}
}

func (g *Generator) call(ctx context.Context, prompt string) genai.Result {
	if g.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.callTimeout)
		defer cancel()
	}
	return g.backend.GenerateText(ctx, prompt)
}
