package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/catalogai/internal/services"
	"github.com/desertthunder/catalogai/internal/shared"
)

func TestNewChatModel(t *testing.T) {
	ctx := context.Background()

	t.Run("Gemini", func(t *testing.T) {
		model, err := services.NewChatModel(ctx, "gemini", services.Settings{APIKey: "k", Model: "m"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if model.Name() != "Gemini" {
			t.Errorf("expected Gemini, got %s", model.Name())
		}
	})

	t.Run("OpenAI Is Case Insensitive", func(t *testing.T) {
		model, err := services.NewChatModel(ctx, "OpenAI", services.Settings{APIKey: "k", Model: "m"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if model.Name() != "OpenAI" {
			t.Errorf("expected OpenAI, got %s", model.Name())
		}
	})

	t.Run("Missing Key", func(t *testing.T) {
		_, err := services.NewChatModel(ctx, "gemini", services.Settings{APIKey: "  "})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Unknown Provider", func(t *testing.T) {
		_, err := services.NewChatModel(ctx, "claude", services.Settings{APIKey: "k"})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestAPIError(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name        string
		status      int
		rateLimited bool
	}{
		{"Too Many Requests", 429, true},
		{"Server Error", 500, false},
		{"Transport Failure", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("genre: %w", &services.APIError{Provider: "Gemini", StatusCode: tt.status, Err: cause})

			if errors.Is(err, shared.ErrRateLimited) != tt.rateLimited {
				t.Errorf("expected rate limited = %v for %v", tt.rateLimited, err)
			}
			if errors.Is(err, shared.ErrAPIRequest) == tt.rateLimited {
				t.Errorf("expected api request = %v for %v", !tt.rateLimited, err)
			}
			if !errors.Is(err, cause) {
				t.Error("expected underlying error to be preserved")
			}
			if got := services.ProviderOf(err); got != "Gemini" {
				t.Errorf("expected provider Gemini, got %q", got)
			}
		})
	}

	t.Run("Provider Of Plain Error", func(t *testing.T) {
		if got := services.ProviderOf(cause); got != "" {
			t.Errorf("expected empty provider, got %q", got)
		}
	})

	t.Run("Error Text Is Underlying Detail", func(t *testing.T) {
		err := &services.APIError{Provider: "OpenAI", Err: cause}
		if err.Error() != "boom" {
			t.Errorf("expected boom, got %s", err.Error())
		}
	})
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := shared.DefaultConfig().LLM
	s := services.SettingsFromConfig(cfg, "key", nil)

	if s.APIKey != "key" || s.Model != cfg.Model {
		t.Errorf("unexpected settings: %+v", s)
	}
	if s.Temperature != cfg.Temperature || s.CandidateCount != cfg.CandidateCount {
		t.Errorf("expected generation params from config, got %+v", s)
	}
	if s.SafetyThreshold != cfg.SafetyThreshold {
		t.Errorf("expected threshold %s, got %s", cfg.SafetyThreshold, s.SafetyThreshold)
	}
}
