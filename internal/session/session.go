package session

import (
	"errors"
	"fmt"

	"github.com/desertthunder/catalogai/internal/formatter"
	"github.com/desertthunder/catalogai/internal/metrics"
	"github.com/desertthunder/catalogai/internal/models"
	"github.com/desertthunder/catalogai/internal/shared"
	"github.com/desertthunder/catalogai/internal/tasks"
)

// ErrInvalidTransition is returned when a transition does not apply to the current phase.
var ErrInvalidTransition = errors.New("invalid session transition")

// Phase of the view.
type Phase int

const (
	Idle Phase = iota
	Loading
	Shown
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Shown:
		return "shown"
	default:
		return "unknown"
	}
}

// NoticeLevel is the severity of a [Notice].
type NoticeLevel int

const (
	NoticeNone NoticeLevel = iota
	NoticeWarning
	NoticeError
)

func (l NoticeLevel) String() string {
	switch l {
	case NoticeWarning:
		return "warning"
	case NoticeError:
		return "error"
	default:
		return ""
	}
}

// Notice is a message shown once above the form.
type Notice struct {
	Level NoticeLevel
	Text  string
}

// Empty reports whether there is nothing to show.
func (n Notice) Empty() bool { return n.Level == NoticeNone || n.Text == "" }

func warning(text string) Notice { return Notice{Level: NoticeWarning, Text: text} }
func failure(text string) Notice { return Notice{Level: NoticeError, Text: text} }

// State is everything one user sees.
type State struct {
	Input  string
	Phase  Phase
	Titles models.Titles
	Genre  string
	Raw    string
	Notice Notice
}

// HasResult reports whether a genre and recommendation text are present.
func (s State) HasResult() bool {
	return s.Phase == Shown && s.Genre != "" && s.Raw != ""
}

// ShowSubmit reports whether the primary "Obter Recomendações" action is offered.
func (s State) ShowSubmit() bool { return s.Phase == Idle }

// ShowReset reports whether the "Gerar Novas Sugestões" action is offered.
func (s State) ShowReset() bool { return s.HasResult() }

// Report parses the stored raw text. It is only valid while [State.HasResult] is true.
func (s State) Report() (*formatter.Report, error) {
	if !s.HasResult() {
		return nil, fmt.Errorf("%w: no result in phase %s", shared.ErrNoRecommendations, s.Phase)
	}
	report, _, err := formatter.NewReport(&models.Result{Titles: s.Titles, Genre: s.Genre, Raw: s.Raw})
	return report, err
}

// Begin records input and moves Idle → Loading when every comma-separated title is non-blank.
//
// On invalid input the phase is unchanged, a warning notice is set and the error wraps
// [shared.ErrInvalidInput]; no remote call must follow.
func Begin(s State, input string) (State, models.Titles, error) {
	if s.Phase != Idle {
		return s, nil, fmt.Errorf("%w: cannot submit while %s", ErrInvalidTransition, s.Phase)
	}

	s.Input = input
	s.Notice = Notice{}

	titles := models.ParseTitles(input)
	if err := titles.Validate(); err != nil {
		s.Notice = warning(tasks.InvalidInputText)
		return s, nil, err
	}

	s.Phase = Loading
	s.Titles = titles
	s.Genre, s.Raw = "", ""
	return s, titles, nil
}

// Complete applies the outcome of a run to a Loading state.
//
// Success moves to Shown only when both texts are non-empty and at least one block parses. Dropped
// blocks become a warning notice. Everything else returns to Idle with an error notice.
func Complete(s State, result *models.Result, runErr error, provider string) State {
	if s.Phase != Loading {
		return s
	}

	s.Genre, s.Raw = "", ""

	switch {
	case runErr != nil:
		s.Phase = Idle
		s.Notice = failure(tasks.UserMessage(runErr, provider))
		return s
	case result == nil || result.Genre == "" || result.Raw == "":
		s.Phase = Idle
		s.Notice = failure(tasks.UserMessage(fmt.Errorf("%w: %w", shared.ErrAPIRequest, shared.ErrEmptyResponse), provider))
		return s
	}

	report, blockErrs, err := formatter.NewReport(result)
	metrics.RecordMalformedBlocks(len(blockErrs))
	if err != nil {
		s.Phase = Idle
		s.Notice = failure(tasks.UserMessage(err, provider))
		return s
	}

	s.Phase = Shown
	s.Genre = result.Genre
	s.Raw = result.Raw
	if report.Dropped > 0 {
		s.Notice = warning(tasks.DroppedBlocksNotice(report.Dropped))
	}
	return s
}

// Reset clears the result and returns to Idle. The input text is kept.
func Reset(s State) State {
	return State{Input: s.Input, Phase: Idle}
}

// ClearNotice drops the notice once it has been shown.
func ClearNotice(s State) State {
	s.Notice = Notice{}
	return s
}
