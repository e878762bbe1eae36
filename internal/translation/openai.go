package translation

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a chat-completions provider. An empty baseURL keeps the OpenAI default.
func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Translate(ctx context.Context, text, sourceName string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: Prompt(text, sourceName)},
		},
	})
	if err != nil {
		return "", &ServiceError{Provider: o.Name(), Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", ErrMalformedResponse
	}
	return resp.Choices[0].Message.Content, nil
}
