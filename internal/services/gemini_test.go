package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/catalogai/internal/services"
	"github.com/desertthunder/catalogai/internal/shared"
	tu "github.com/desertthunder/catalogai/internal/testing"
)

type geminiRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	SafetySettings []struct {
		Category  string `json:"category"`
		Threshold string `json:"threshold"`
	} `json:"safetySettings"`
	GenerationConfig struct {
		Temperature    float64 `json:"temperature"`
		CandidateCount int     `json:"candidateCount"`
	} `json:"generationConfig"`
}

const geminiReply = `{
	"candidates": [{
		"content": {"role": "model", "parts": [{"text": "  Fantasia e Aventura\n"}]},
		"finishReason": "STOP"
	}]
}`

func newGeminiModel(t *testing.T, url string, client *http.Client) *services.GeminiModel {
	t.Helper()
	model, err := services.NewGeminiModel(context.Background(), services.Settings{
		APIKey:          "test-key",
		Model:           "gemini-test",
		BaseURL:         url,
		Temperature:     0.7,
		CandidateCount:  1,
		SafetyThreshold: "BLOCK_NONE",
		HTTPClient:      client,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return model
}

func TestGeminiModel(t *testing.T) {
	t.Run("Generate", func(t *testing.T) {
		var captured geminiRequest
		var apiKey, path string

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			apiKey = r.Header.Get("x-goog-api-key")
			if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(geminiReply))
		}))
		defer srv.Close()

		model := newGeminiModel(t, srv.URL+"/", srv.Client())
		history := []services.Turn{
			services.UserTurn("Títulos: Naruto\nGênero: "),
			services.ModelTurn("Anime"),
			services.UserTurn("Informação: Naruto.\nResposta:\n"),
		}

		text, err := model.Generate(context.Background(), history)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		t.Run("Trims Reply", func(t *testing.T) {
			if text != "Fantasia e Aventura" {
				t.Errorf("expected trimmed reply, got %q", text)
			}
		})

		t.Run("Targets generateContent", func(t *testing.T) {
			if !strings.HasSuffix(path, "gemini-test:generateContent") {
				t.Errorf("unexpected path %s", path)
			}
			if apiKey != "test-key" {
				t.Errorf("expected api key header, got %q", apiKey)
			}
		})

		t.Run("Sends Whole History", func(t *testing.T) {
			if len(captured.Contents) != 3 {
				t.Fatalf("expected 3 contents, got %d", len(captured.Contents))
			}
			roles := []string{"user", "model", "user"}
			for i, c := range captured.Contents {
				if c.Role != roles[i] {
					t.Errorf("content %d: expected role %s, got %s", i, roles[i], c.Role)
				}
			}
			if captured.Contents[1].Parts[0].Text != "Anime" {
				t.Errorf("expected carried genre turn, got %+v", captured.Contents[1])
			}
		})

		t.Run("Sends Generation Settings", func(t *testing.T) {
			if len(captured.SafetySettings) != 4 {
				t.Fatalf("expected 4 safety settings, got %d", len(captured.SafetySettings))
			}
			for _, s := range captured.SafetySettings {
				if s.Threshold != "BLOCK_NONE" {
					t.Errorf("expected BLOCK_NONE for %s, got %s", s.Category, s.Threshold)
				}
			}
			if captured.GenerationConfig.CandidateCount != 1 {
				t.Errorf("expected candidate count 1, got %d", captured.GenerationConfig.CandidateCount)
			}
			if captured.GenerationConfig.Temperature < 0.69 || captured.GenerationConfig.Temperature > 0.71 {
				t.Errorf("expected temperature 0.7, got %v", captured.GenerationConfig.Temperature)
			}
		})
	})

	t.Run("Rate Limited", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error": {"code": 429, "message": "Resource has been exhausted", "status": "RESOURCE_EXHAUSTED"}}`))
		}))
		defer srv.Close()

		model := newGeminiModel(t, srv.URL+"/", srv.Client())
		_, err := model.Generate(context.Background(), []services.Turn{services.UserTurn("x")})
		if !errors.Is(err, shared.ErrRateLimited) {
			t.Errorf("expected ErrRateLimited, got %v", err)
		}
		if services.ProviderOf(err) != "Gemini" {
			t.Errorf("expected provider on error, got %q", services.ProviderOf(err))
		}
	})

	t.Run("Server Error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": {"code": 500, "message": "internal", "status": "INTERNAL"}}`))
		}))
		defer srv.Close()

		model := newGeminiModel(t, srv.URL+"/", srv.Client())
		_, err := model.Generate(context.Background(), []services.Turn{services.UserTurn("x")})
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		if errors.Is(err, shared.ErrRateLimited) {
			t.Error("server error must not be classified as rate limit")
		}
	})

	t.Run("Empty Reply", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates": [{"content": {"role": "model", "parts": [{"text": "   "}]}}]}`))
		}))
		defer srv.Close()

		model := newGeminiModel(t, srv.URL+"/", srv.Client())
		_, err := model.Generate(context.Background(), []services.Turn{services.UserTurn("x")})
		if !errors.Is(err, shared.ErrEmptyResponse) || !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected empty response api error, got %v", err)
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
		model := newGeminiModel(t, "http://gemini.invalid/", client)

		_, err := model.Generate(context.Background(), []services.Turn{services.UserTurn("x")})
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
