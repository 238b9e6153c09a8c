package domain

import (
	"fmt"
	"strings"
)

// DefaultVariationCount is used when a caller does not say how many
// variations it wants.
const DefaultVariationCount = 3

// MaxVariationCount is the default upper bound on variations per request.
const MaxVariationCount = 10

// GenerationRequest describes one campaign message to generate. Optional
// fields are empty when absent.
type GenerationRequest struct {
	Prompt         string
	Industry       string
	TargetAudience string
	Tone           string
}

// NewGenerationRequest validates the prompt and returns an immutable request.
func NewGenerationRequest(prompt, industry, audience, tone string) (GenerationRequest, error) {
	if strings.TrimSpace(prompt) == "" {
		return GenerationRequest{}, fmt.Errorf("%w: prompt is required", ErrInvalidPrompt)
	}
	return GenerationRequest{
		Prompt:         prompt,
		Industry:       strings.TrimSpace(industry),
		TargetAudience: strings.TrimSpace(audience),
		Tone:           strings.TrimSpace(tone),
	}, nil
}

// WithPrompt returns a copy of the request carrying a different prompt.
func (r GenerationRequest) WithPrompt(prompt string) GenerationRequest {
	r.Prompt = prompt
	return r
}

// VariationRequest asks for Count independent messages for the same request.
type VariationRequest struct {
	GenerationRequest
	Count int
}

// NewVariationRequest rejects negative counts and counts above
// MaxVariationCount. A zero count is valid and produces no messages.
func NewVariationRequest(req GenerationRequest, count int) (VariationRequest, error) {
	return NewVariationRequestWithLimit(req, count, MaxVariationCount)
}

// NewVariationRequestWithLimit is NewVariationRequest with a caller chosen
// upper bound. A limit below 1 falls back to MaxVariationCount.
func NewVariationRequestWithLimit(req GenerationRequest, count, limit int) (VariationRequest, error) {
	if limit < 1 {
		limit = MaxVariationCount
	}
	if count < 0 {
		return VariationRequest{}, fmt.Errorf("%w: count must not be negative, got %d", ErrInvalidCount, count)
	}
	if count > limit {
		return VariationRequest{}, fmt.Errorf("%w: count must be at most %d, got %d", ErrInvalidCount, limit, count)
	}
	return VariationRequest{GenerationRequest: req, Count: count}, nil
}

// GeneratedMessage is the outcome of one generation. Text is always safe to
// show: it holds either the generated copy or a human readable error.
type GeneratedMessage struct {
	Text string
	Err  error
}

// Failed reports whether the message carries an error instead of content.
func (m GeneratedMessage) Failed() bool {
	return m.Err != nil
}

// AnalysisResult pairs the analysed message with the rubric output.
type AnalysisResult struct {
	Message  string
	Analysis string
	Err      error
}

// Failed reports whether Analysis holds an error text.
func (r AnalysisResult) Failed() bool {
	return r.Err != nil
}

// ServiceStatus is captured once when the generator is built.
type ServiceStatus struct {
	IsInitialized bool `json:"is_initialized"`
	APIAvailable  bool `json:"api_available"`
}
