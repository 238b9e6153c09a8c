package genai

import (
	"context"
	"strings"

	googleai "google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// contentGenerator is the subset of the Gemini SDK used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*googleai.Content, config *googleai.GenerateContentConfig) (*googleai.GenerateContentResponse, error)
}

type geminiProvider struct {
	models    contentGenerator
	modelName string
}

func newGeminiProvider(ctx context.Context, opts Options) (*geminiProvider, error) {
	cfg := &googleai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    googleai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if base := strings.TrimRight(opts.BaseURL, "/"); base != "" {
		cfg.HTTPOptions = googleai.HTTPOptions{BaseURL: base}
	}
	client, err := googleai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultGeminiModel
	}
	return &geminiProvider{models: client.Models, modelName: model}, nil
}

func (g *geminiProvider) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.modelName, googleai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errEmptyResponse
	}
	return resp.Text(), nil
}

func (g *geminiProvider) model() string {
	return g.modelName
}

var _ textProvider = (*geminiProvider)(nil)
