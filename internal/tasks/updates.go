package tasks

import "fmt"

// ProgressUpdate represents a progress event during a recommendation run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number
	Total   int    // Total steps in the run
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data (the genre once detected)
}

// Operation phase enumeration
type Phase int

const (
	DetectGenre Phase = iota
	GenerateRecommendations
	Finished
)

// TotalSteps is the number of remote calls in one run.
const TotalSteps = 2

func (p Phase) String() string {
	switch p {
	case DetectGenre:
		return "detect_genre"
	case GenerateRecommendations:
		return "generate_recommendations"
	case Finished:
		return "finished"
	default:
		return ""
	}
}

func detectGenreUpdate(provider string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DetectGenre,
		Step:    1,
		Total:   TotalSteps,
		Message: fmt.Sprintf("Identificando o gênero com %s...", provider),
	}
}

func generateRecommendationsUpdate(genre string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GenerateRecommendations,
		Step:    2,
		Total:   TotalSteps,
		Message: fmt.Sprintf("Gênero: %s. Pensando em recomendações incríveis...", genre),
		Data:    genre,
	}
}

func finishedUpdate(genre string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Finished,
		Step:    TotalSteps,
		Total:   TotalSteps,
		Message: "Recomendações prontas!",
		Data:    genre,
	}
}
