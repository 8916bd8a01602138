package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/catalogai/internal/metrics"
	"github.com/desertthunder/catalogai/internal/models"
	"github.com/desertthunder/catalogai/internal/services"
	"github.com/desertthunder/catalogai/internal/shared"
)

// Recommender produces a genre and raw recommendation text for a list of titles.
type Recommender interface {
	// Run sends both prompts in one conversation. Either both results are returned or neither is.
	Run(ctx context.Context, titles models.Titles, progress chan<- ProgressUpdate) (*models.Result, error)

	// Provider names the backend, used in error messages.
	Provider() string
}

// RecommendationEngine implements [Recommender] on a [services.ChatModel].
type RecommendationEngine struct {
	model   services.ChatModel
	timeout time.Duration
	logger  *log.Logger
}

// NewRecommendationEngine creates an engine. timeout bounds each remote call; zero disables it.
func NewRecommendationEngine(model services.ChatModel, timeout time.Duration, logger *log.Logger) *RecommendationEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &RecommendationEngine{model: model, timeout: timeout, logger: logger}
}

// Provider returns the model's display name.
func (e *RecommendationEngine) Provider() string {
	if e.model == nil {
		return ""
	}
	return e.model.Name()
}

// sendProgress sends a progress update through the channel without blocking.
func (e *RecommendationEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run validates titles, detects the genre, then asks for recommendations with the genre turn in context.
func (e *RecommendationEngine) Run(ctx context.Context, titles models.Titles, progress chan<- ProgressUpdate) (*models.Result, error) {
	if e.model == nil {
		return nil, fmt.Errorf("%w: chat model not initialized", shared.ErrServiceUnavailable)
	}
	if err := titles.Validate(); err != nil {
		return nil, err
	}

	history := []services.Turn{services.UserTurn(GenrePrompt(titles))}

	e.sendProgress(progress, detectGenreUpdate(e.model.Name()))
	genre, err := e.generate(ctx, "genre", history)
	if err != nil {
		return nil, err
	}

	history = append(history, services.ModelTurn(genre), services.UserTurn(RecommendationPrompt(titles)))

	e.sendProgress(progress, generateRecommendationsUpdate(genre))
	raw, err := e.generate(ctx, "recommendations", history)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, finishedUpdate(genre))
	e.logger.Info("recommendations generated", "provider", e.model.Name(), "titles", len(titles), "genre", genre)

	return &models.Result{Titles: titles, Genre: genre, Raw: raw}, nil
}

func (e *RecommendationEngine) generate(ctx context.Context, step string, history []services.Turn) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := e.model.Generate(ctx, history)
	metrics.ObserveRemoteCall(e.model.Name(), step, time.Since(start), err)

	if err != nil {
		e.logger.Error("model call failed", "provider", e.model.Name(), "step", step, "error", err)
		return "", err
	}
	if text == "" {
		return "", &services.APIError{Provider: e.model.Name(), Err: shared.ErrEmptyResponse}
	}
	e.logger.Debug("model call finished", "step", step, "chars", len(text), "elapsed", time.Since(start))
	return text, nil
}
