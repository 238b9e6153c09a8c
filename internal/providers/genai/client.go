// Package genai isolates the generative text providers behind a single
// GenerateText primitive.
package genai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	defaultProbePrompt  = "Hello"
	defaultProbeTimeout = 15 * time.Second
)

// Options controls how the backend client is configured.
type Options struct {
	Provider     string
	APIKey       string
	Model        string
	BaseURL      string
	HTTPClient   *http.Client
	ProbePrompt  string
	ProbeTimeout time.Duration
	Logger       *zerolog.Logger
}

// textProvider is implemented by each provider adapter.
type textProvider interface {
	generate(ctx context.Context, prompt string) (string, error)
	model() string
}

// Result is the outcome of one GenerateText call.
type Result struct {
	Text string
	Err  *GenerationError
}

// OK reports whether the call produced text.
func (r Result) OK() bool {
	return r.Err == nil
}

// Client owns the provider connection. It holds no mutable state after New
// returns and is safe for concurrent use.
type Client struct {
	provider string
	backend  textProvider
	logger   zerolog.Logger
}

// New validates the credential, builds the provider client and runs one
// liveness probe. The probe is a real generation call and consumes quota.
func New(ctx context.Context, opts Options) (*Client, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = ProviderGemini
	}
	opts.Provider = provider
	opts.APIKey = strings.TrimSpace(opts.APIKey)

	var (
		backend textProvider
		err     error
	)
	switch provider {
	case ProviderGemini:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("%w: GOOGLE_API_KEY environment variable is required", ErrConfiguration)
		}
		backend, err = newGeminiProvider(ctx, opts)
	case ProviderOpenAI:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY environment variable is required", ErrConfiguration)
		}
		backend, err = newOpenAIProvider(opts)
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", ErrConfiguration, opts.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s client: %v", ErrBackendUnavailable, provider, err)
	}
	return newClient(ctx, backend, opts)
}

func newClient(ctx context.Context, backend textProvider, opts Options) (*Client, error) {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	c := &Client{
		provider: opts.Provider,
		backend:  backend,
		logger:   logger.With().Str("provider", opts.Provider).Str("model", backend.model()).Logger(),
	}

	c.logger.Info().Str("api_key", MaskKey(opts.APIKey)).Msg("genai: initializing backend")

	timeout := opts.ProbeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	probe := opts.ProbePrompt
	if probe == "" {
		probe = defaultProbePrompt
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if res := c.GenerateText(probeCtx, probe); !res.OK() {
		c.logger.Error().Err(res.Err).Str("reason", res.Err.Reason).Msg("genai: liveness probe failed")
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, res.Err)
	}
	c.logger.Info().Msg("genai: backend initialized")
	return c, nil
}

// GenerateText sends prompt verbatim and returns the trimmed response text.
// Failures are returned in the Result, never retried.
func (c *Client) GenerateText(ctx context.Context, prompt string) Result {
	text, err := c.backend.generate(ctx, prompt)
	if err != nil {
		return Result{Err: newGenerationError(c.provider, err)}
	}
	// A blank reply is a valid, empty message. Only a missing response is
	// an empty_response failure.
	return Result{Text: strings.TrimSpace(text)}
}

// Provider returns the configured provider name.
func (c *Client) Provider() string {
	return c.provider
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.backend.model()
}

// MaskKey keeps a short key prefix for log and console output.
func MaskKey(key string) string {
	const visible = 6
	if len(key) <= visible {
		return strings.Repeat("*", len(key))
	}
	return key[:visible] + "..."
}
