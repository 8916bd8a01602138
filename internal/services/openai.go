package services

import (
	"context"
	"errors"
	"strings"

	"github.com/desertthunder/catalogai/internal/shared"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIModel implements [ChatModel] on any OpenAI-compatible chat completion endpoint.
type OpenAIModel struct {
	client      *openai.Client
	model       string
	temperature float32
	n           int
}

// NewOpenAIModel creates an OpenAI-compatible backend.
func NewOpenAIModel(s Settings) *OpenAIModel {
	cfg := openai.DefaultConfig(s.APIKey)
	if s.BaseURL != "" {
		cfg.BaseURL = s.BaseURL
	}
	if s.HTTPClient != nil {
		cfg.HTTPClient = s.HTTPClient
	}

	n := int(s.CandidateCount)
	if n < 1 {
		n = 1
	}

	return &OpenAIModel{
		client:      openai.NewClientWithConfig(cfg),
		model:       s.Model,
		temperature: s.Temperature,
		n:           n,
	}
}

// Name returns "OpenAI".
func (m *OpenAIModel) Name() string { return "OpenAI" }

// Generate maps history onto chat messages (model turns become assistant messages).
func (m *OpenAIModel) Generate(ctx context.Context, history []Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == RoleModel {
			if turn.Text == "" {
				continue
			}
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       m.model,
		Messages:    messages,
		Temperature: m.temperature,
		N:           m.n,
	})
	if err != nil {
		return "", m.wrapError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &APIError{Provider: m.Name(), Err: shared.ErrEmptyResponse}
	}

	text := trimReply(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &APIError{Provider: m.Name(), Err: shared.ErrEmptyResponse}
	}
	return text, nil
}

func (m *OpenAIModel) wrapError(err error) error {
	apiErr := &APIError{Provider: m.Name(), Err: err}

	var oaErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &oaErr):
		apiErr.StatusCode = oaErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		apiErr.StatusCode = reqErr.HTTPStatusCode
	}
	return apiErr
}

func trimReply(s string) string {
	return strings.TrimSpace(s)
}
