package genai

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

// chatCompleter is the subset of the OpenAI SDK used here.
type chatCompleter interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

type openAIProvider struct {
	chat      chatCompleter
	modelName string
}

func newOpenAIProvider(opts Options) (*openAIProvider, error) {
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if base := strings.TrimRight(opts.BaseURL, "/"); base != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(base))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	client := openai.NewClient(reqOpts...)
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultOpenAIModel
	}
	return &openAIProvider{chat: &client.Chat.Completions, modelName: model}, nil
}

func (o *openAIProvider) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.chat.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	})
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *openAIProvider) model() string {
	return o.modelName
}

var _ textProvider = (*openAIProvider)(nil)
