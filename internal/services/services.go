// package services defines interface ChatModel for talking to generative language APIs
//
// Gemini (google.golang.org/genai), OpenAI-compatible endpoints (go-openai)
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/catalogai/internal/shared"
)

// Role identifies the author of a conversation [Turn].
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one message of a conversation.
type Turn struct {
	Role Role
	Text string
}

// UserTurn builds a [Turn] authored by the user.
func UserTurn(text string) Turn { return Turn{Role: RoleUser, Text: text} }

// ModelTurn builds a [Turn] authored by the model.
func ModelTurn(text string) Turn { return Turn{Role: RoleModel, Text: text} }

// ChatModel defines the interface for generative language backends.
type ChatModel interface {
	// Generate sends the whole history and returns the trimmed text of the next model turn.
	// The history is never modified; callers append the reply themselves.
	Generate(ctx context.Context, history []Turn) (string, error)

	// Name returns the display name of the backend (e.g., "Gemini")
	Name() string
}

// Settings carries everything a backend needs to build its client.
type Settings struct {
	APIKey          string
	Model           string
	BaseURL         string
	Temperature     float32
	CandidateCount  int32
	SafetyThreshold string
	HTTPClient      *http.Client
}

// SettingsFromConfig maps the [shared.LLMConfig] section onto [Settings].
func SettingsFromConfig(cfg shared.LLMConfig, apiKey string, client *http.Client) Settings {
	return Settings{
		APIKey:          apiKey,
		Model:           cfg.Model,
		BaseURL:         cfg.BaseURL,
		Temperature:     cfg.Temperature,
		CandidateCount:  cfg.CandidateCount,
		SafetyThreshold: cfg.SafetyThreshold,
		HTTPClient:      client,
	}
}

// NewChatModel builds the backend named by provider.
func NewChatModel(ctx context.Context, provider string, s Settings) (ChatModel, error) {
	if strings.TrimSpace(s.APIKey) == "" {
		return nil, fmt.Errorf("%w: api key required", shared.ErrMissingCredentials)
	}

	switch strings.ToLower(provider) {
	case shared.ProviderGemini:
		return NewGeminiModel(ctx, s)
	case shared.ProviderOpenAI:
		return NewOpenAIModel(s), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", shared.ErrInvalidConfig, provider)
	}
}

// APIError reports a failed remote call.
//
// It unwraps to [shared.ErrRateLimited] for HTTP 429 responses and to [shared.ErrAPIRequest] otherwise,
// as well as to the underlying client error.
type APIError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	return e.Err.Error()
}

// RateLimited reports whether the remote API rejected the call for quota reasons.
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

func (e *APIError) Unwrap() []error {
	marker := shared.ErrAPIRequest
	if e.RateLimited() {
		marker = shared.ErrRateLimited
	}
	return []error{marker, e.Err}
}

// ProviderOf returns the provider name recorded on err, or "" when err is not an [APIError].
func ProviderOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Provider
	}
	return ""
}
