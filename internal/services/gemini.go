package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/catalogai/internal/shared"
	"google.golang.org/genai"
)

var geminiHarmCategories = []genai.HarmCategory{
	genai.HarmCategoryHateSpeech,
	genai.HarmCategoryHarassment,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

// GeminiModel implements [ChatModel] on the Gemini generateContent API.
type GeminiModel struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiModel creates a Gemini backend. BaseURL, when set, replaces the public endpoint (used by tests and proxies).
func NewGeminiModel(ctx context.Context, s Settings) (*GeminiModel, error) {
	cc := &genai.ClientConfig{
		APIKey:     s.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: s.HTTPClient,
	}
	if s.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: s.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create gemini client: %v", shared.ErrServiceUnavailable, err)
	}

	return &GeminiModel{
		client: client,
		model:  s.Model,
		config: geminiConfig(s),
	}, nil
}

func geminiConfig(s Settings) *genai.GenerateContentConfig {
	threshold := genai.HarmBlockThresholdBlockNone
	if s.SafetyThreshold != "" {
		threshold = genai.HarmBlockThreshold(s.SafetyThreshold)
	}

	safety := make([]*genai.SafetySetting, len(geminiHarmCategories))
	for i, category := range geminiHarmCategories {
		safety[i] = &genai.SafetySetting{Category: category, Threshold: threshold}
	}

	return &genai.GenerateContentConfig{
		Temperature:    genai.Ptr(s.Temperature),
		CandidateCount: s.CandidateCount,
		SafetySettings: safety,
	}
}

// Name returns "Gemini".
func (m *GeminiModel) Name() string { return "Gemini" }

// Generate sends history as the contents of a single generateContent call.
func (m *GeminiModel) Generate(ctx context.Context, history []Turn) (string, error) {
	contents := make([]*genai.Content, len(history))
	for i, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == RoleModel {
			role = genai.RoleModel
		}
		contents[i] = genai.NewContentFromText(turn.Text, role)
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, contents, m.config)
	if err != nil {
		return "", m.wrapError(err)
	}

	text := trimReply(resp.Text())
	if text == "" {
		return "", &APIError{Provider: m.Name(), Err: shared.ErrEmptyResponse}
	}
	return text, nil
}

func (m *GeminiModel) wrapError(err error) error {
	apiErr := &APIError{Provider: m.Name(), Err: err}

	var gerr genai.APIError
	if errors.As(err, &gerr) {
		apiErr.StatusCode = gerr.Code
	}
	return apiErr
}
