package tasks

import (
	"errors"
	"fmt"

	"github.com/desertthunder/catalogai/internal/services"
	"github.com/desertthunder/catalogai/internal/shared"
)

// User-facing texts shared by every surface.
const (
	SpinnerText       = "Pensando em recomendações incríveis..."
	InvalidInputText  = "Por favor, insira pelo menos um título."
	RetryLaterSuffix  = ". Aguarde alguns instantes e tente novamente."
	NoResultsText     = "Não foi possível interpretar as recomendações recebidas. Tente gerar novas sugestões."
	DroppedBlocksText = "%d recomendação(ões) com formato inválido foram ignoradas."
)

// DroppedBlocksNotice renders the warning for blocks the parser rejected.
func DroppedBlocksNotice(n int) string {
	return fmt.Sprintf(DroppedBlocksText, n)
}

// UserMessage turns a run error into the Portuguese text shown to the user.
//
// fallbackProvider names the backend when err does not carry one.
func UserMessage(err error, fallbackProvider string) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		return InvalidInputText
	case errors.Is(err, shared.ErrNoRecommendations):
		return NoResultsText
	}

	provider := services.ProviderOf(err)
	if provider == "" {
		provider = fallbackProvider
	}

	detail := err
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		detail = apiErr
	}

	msg := fmt.Sprintf("Erro na API do %s: %v", provider, detail)
	if errors.Is(err, shared.ErrRateLimited) {
		msg += RetryLaterSuffix
	}
	return msg
}
