// package models defines the data model for the recommendation service
package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/catalogai/internal/shared"
)

// Titles is an ordered list of trimmed, user supplied titles.
type Titles []string

// ParseTitles splits raw on commas and trims each entry. Empty entries are kept so [Titles.Validate] can reject them.
func ParseTitles(raw string) Titles {
	parts := strings.Split(raw, ",")
	titles := make(Titles, len(parts))
	for i, p := range parts {
		titles[i] = strings.TrimSpace(p)
	}
	return titles
}

// Validate requires at least one title and no blank entries.
func (t Titles) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no titles", shared.ErrInvalidInput)
	}
	for i, title := range t {
		if title == "" {
			return fmt.Errorf("%w: title %d is empty", shared.ErrInvalidInput, i+1)
		}
	}
	return nil
}

// Join renders the list the way it is embedded in prompts.
func (t Titles) Join() string {
	return strings.Join(t, ", ")
}

// Kind is the media type of a recommendation.
type Kind int

const (
	KindUnknown Kind = iota
	KindMovie
	KindAnime
	KindSeries
)

func (k Kind) String() string {
	switch k {
	case KindMovie:
		return "movie"
	case KindAnime:
		return "anime"
	case KindSeries:
		return "series"
	default:
		return "unknown"
	}
}

// Label returns the Portuguese label used in prompts and views.
func (k Kind) Label() string {
	switch k {
	case KindMovie:
		return "Filme"
	case KindAnime:
		return "Anime"
	case KindSeries:
		return "Série"
	default:
		return ""
	}
}

// Likelihood is the model's estimate that the user will enjoy a recommendation.
type Likelihood int

const (
	LikelihoodUnknown Likelihood = iota
	LikelihoodHigh
	LikelihoodMedium
	LikelihoodLow
)

func (l Likelihood) String() string {
	switch l {
	case LikelihoodHigh:
		return "high"
	case LikelihoodMedium:
		return "medium"
	case LikelihoodLow:
		return "low"
	default:
		return "unknown"
	}
}

// Label returns the Portuguese label used in prompts and views.
func (l Likelihood) Label() string {
	switch l {
	case LikelihoodHigh:
		return "Alta"
	case LikelihoodMedium:
		return "Média"
	case LikelihoodLow:
		return "Baixa"
	default:
		return ""
	}
}

// Recommendation is one block of the model's answer.
//
// Type and Chances hold the literal text after the label's colon; Kind and Likelihood are their parsed values.
type Recommendation struct {
	Type       string     `json:"type"`
	Kind       Kind       `json:"-"`
	Title      string     `json:"title"`
	Synopsis   string     `json:"synopsis"`
	Chances    string     `json:"chances"`
	Likelihood Likelihood `json:"-"`
}

// Heading renders "Tipo: Título" as shown on a card.
func (r Recommendation) Heading() string {
	return fmt.Sprintf("%s: %s", r.Type, r.Title)
}

// Result is the output of one successful recommendation run.
type Result struct {
	Titles Titles `json:"titles"`
	Genre  string `json:"genre"`
	Raw    string `json:"raw"`
}
