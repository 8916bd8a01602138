package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/catalogai/internal/services"
	"github.com/desertthunder/catalogai/internal/shared"
	tu "github.com/desertthunder/catalogai/internal/testing"
)

type chatRequest struct {
	Model    string `json:"model"`
	N        int    `json:"n"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newOpenAIModel(url string, client *http.Client) *services.OpenAIModel {
	return services.NewOpenAIModel(services.Settings{
		APIKey:         "test-key",
		Model:          "gpt-test",
		BaseURL:        url,
		Temperature:    0.7,
		CandidateCount: 1,
		HTTPClient:     client,
	})
}

func TestOpenAIModel(t *testing.T) {
	t.Run("Generate", func(t *testing.T) {
		var captured chatRequest
		var auth, path string

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			auth = r.Header.Get("Authorization")
			if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": "chatcmpl-1",
				"object": "chat.completion",
				"model": "gpt-test",
				"choices": [{"index": 0, "message": {"role": "assistant", "content": "\n Terror "}, "finish_reason": "stop"}]
			}`))
		}))
		defer srv.Close()

		model := newOpenAIModel(srv.URL+"/v1", srv.Client())
		history := []services.Turn{
			services.UserTurn("genre prompt"),
			services.ModelTurn("Terror"),
			services.UserTurn("rec prompt"),
		}

		text, err := model.Generate(context.Background(), history)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if text != "Terror" {
			t.Errorf("expected trimmed reply, got %q", text)
		}
		if path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", path)
		}
		if auth != "Bearer test-key" {
			t.Errorf("unexpected authorization %q", auth)
		}
		if captured.Model != "gpt-test" || captured.N != 1 {
			t.Errorf("unexpected request %+v", captured)
		}

		roles := []string{"user", "assistant", "user"}
		if len(captured.Messages) != len(roles) {
			t.Fatalf("expected %d messages, got %d", len(roles), len(captured.Messages))
		}
		for i, m := range captured.Messages {
			if m.Role != roles[i] {
				t.Errorf("message %d: expected role %s, got %s", i, roles[i], m.Role)
			}
		}
	})

	t.Run("Rate Limited", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error": {"message": "Rate limit reached", "type": "requests", "code": "rate_limit_exceeded"}}`))
		}))
		defer srv.Close()

		_, err := newOpenAIModel(srv.URL+"/v1", srv.Client()).Generate(context.Background(), []services.Turn{services.UserTurn("x")})
		if !errors.Is(err, shared.ErrRateLimited) {
			t.Errorf("expected ErrRateLimited, got %v", err)
		}
	})

	t.Run("No Choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id": "chatcmpl-2", "choices": []}`))
		}))
		defer srv.Close()

		_, err := newOpenAIModel(srv.URL+"/v1", srv.Client()).Generate(context.Background(), []services.Turn{services.UserTurn("x")})
		if !errors.Is(err, shared.ErrEmptyResponse) {
			t.Errorf("expected ErrEmptyResponse, got %v", err)
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
		_, err := newOpenAIModel("http://openai.invalid/v1", client).Generate(context.Background(), []services.Turn{services.UserTurn("x")})
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		if errors.Is(err, shared.ErrRateLimited) {
			t.Error("transport failure must not be classified as rate limit")
		}
	})
	t.Run("Mocked Transport", func(t *testing.T) {
		resp := tu.NewJSONResponse(http.StatusOK, `{"id": "chatcmpl-3", "choices": [{"index": 0, "message": {"role": "assistant", "content": " Anime \n"}}]}`)
		client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}

		text, err := newOpenAIModel("http://openai.invalid/v1", client).Generate(context.Background(), []services.Turn{services.UserTurn("x")})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if text != "Anime" {
			t.Errorf("expected trimmed reply, got %q", text)
		}
	})

	t.Run("Unreadable Body", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       &tu.FCloser{},
		}
		client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}

		_, err := newOpenAIModel("http://openai.invalid/v1", client).Generate(context.Background(), []services.Turn{services.UserTurn("x")})
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
