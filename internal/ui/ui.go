package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/catalogai/internal/formatter"
	"github.com/desertthunder/catalogai/internal/metrics"
	"github.com/desertthunder/catalogai/internal/models"
	"github.com/desertthunder/catalogai/internal/session"
	"github.com/desertthunder/catalogai/internal/shared"
	"github.com/desertthunder/catalogai/internal/tasks"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	engine       tasks.Recommender
	state        session.State
	width        int
	height       int
	input        textarea.Model
	spinner      spinner.Model
	cards        list.Model
	report       *formatter.Report
	progressChan chan tasks.ProgressUpdate
	outcome      chan runOutcome
	progress     tasks.ProgressUpdate
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine tasks.Recommender) *Model {
	ta := textarea.New()
	ta.Placeholder = "Stranger Things, Naruto, Your Name"
	ta.ShowLineNumbers = false
	ta.CharLimit = 1000
	ta.SetHeight(3)
	ta.SetWidth(defaultWidth - 4)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.heading

	return &Model{
		ctx:     ctx,
		engine:  engine,
		state:   session.State{Phase: session.Idle},
		width:   defaultWidth,
		height:  defaultHeight,
		input:   ta,
		spinner: sp,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// State returns the current session state.
func (m *Model) State() session.State { return m.state }

// Init starts the cursor blink.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width - 4)
		if m.report != nil {
			m.cards.SetSize(msg.Width-4, m.cardsHeight())
		}
		return m, nil

	case tea.KeyMsg:
		switch m.state.Phase {
		case session.Idle:
			return m.handleInputKeys(msg)
		case session.Loading:
			return m.handleLoadingKeys(msg)
		case session.Shown:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		if m.state.Phase != session.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(tasks.ProgressUpdate)
			return m, m.waitForProgress()
		case MsgRecommendationsDone:
			out := msg.data.(runOutcome)
			m.finish(out.result, out.err)
			return m, nil
		}
	}

	if m.state.Phase == session.Idle {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current phase.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("✨ CatalogAI: Seu Guia Personalizado para Filmes, Animes e Séries ✨"))
	b.WriteString("\n")

	switch m.state.Phase {
	case session.Idle:
		b.WriteString(m.renderInput())
	case session.Loading:
		b.WriteString(m.renderLoading())
	case session.Shown:
		b.WriteString(m.renderResult())
	}
	return b.String()
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.abort):
		return m, tea.Quit
	case key.Matches(msg, m.keys.submit):
		return m, m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleLoadingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reset):
		m.state = session.Reset(m.state)
		m.report = nil
		m.progress = tasks.ProgressUpdate{}
		m.input.Focus()
		return m, textarea.Blink
	}

	var cmd tea.Cmd
	m.cards, cmd = m.cards.Update(msg)
	return m, cmd
}

// submit validates the input and starts a run in the background.
func (m *Model) submit() tea.Cmd {
	next, titles, err := session.Begin(m.state, m.input.Value())
	m.state = next
	if err != nil {
		metrics.RecordRecommendation("tui", err)
		return nil
	}

	if m.engine == nil {
		m.finish(nil, shared.ErrServiceUnavailable)
		return nil
	}

	m.input.Blur()
	m.progress = tasks.ProgressUpdate{Message: tasks.SpinnerText, Total: tasks.TotalSteps}
	m.progressChan = make(chan tasks.ProgressUpdate, tasks.TotalSteps+1)
	m.outcome = make(chan runOutcome, 1)

	progress, outcome, engine, ctx := m.progressChan, m.outcome, m.engine, m.ctx
	go func() {
		result, err := engine.Run(ctx, titles, progress)
		outcome <- runOutcome{result: result, err: err}
		close(progress)
	}()

	return tea.Batch(m.spinner.Tick, m.waitForProgress())
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, outcome := m.progressChan, m.outcome
	return func() tea.Msg {
		if progress == nil {
			return recommendationsDoneMsg(nil, shared.ErrServiceUnavailable)
		}

		update, ok := <-progress
		if !ok {
			out := <-outcome
			return recommendationsDoneMsg(out.result, out.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) finish(result *models.Result, err error) {
	provider := ""
	if m.engine != nil {
		provider = m.engine.Provider()
	}

	m.state = session.Complete(m.state, result, err, provider)
	m.progressChan, m.outcome = nil, nil

	runErr := err
	if runErr == nil && m.state.Phase != session.Shown {
		runErr = shared.ErrNoRecommendations
	}
	metrics.RecordRecommendation("tui", runErr)

	if m.state.Phase != session.Shown {
		m.input.Focus()
		return
	}

	report, reportErr := m.state.Report()
	if reportErr != nil {
		m.state = session.Reset(m.state)
		m.input.Focus()
		return
	}
	m.report = report

	m.cards = list.New(recommendationItems(report.Recommendations), list.NewDefaultDelegate(), m.width-4, m.cardsHeight())
	m.cards.Title = formatter.Greeting(report.Genre)
	m.cards.SetShowStatusBar(false)
	m.cards.SetFilteringEnabled(false)
	m.cards.SetShowHelp(false)
}

func (m *Model) cardsHeight() int {
	h := m.height - 8
	if h < 6 {
		h = 6
	}
	return h
}

func (m *Model) renderNotice() string {
	n := m.state.Notice
	if n.Empty() {
		return ""
	}
	switch n.Level {
	case session.NoticeError:
		return styles.err.Render(n.Text) + "\n\n"
	default:
		return styles.warn.Render(n.Text) + "\n\n"
	}
}

func (m *Model) renderInput() string {
	intro := "Insira os títulos que você gosta, separados por vírgula:"
	hint := styles.help.Render("Experimente: Digite 'Stranger Things, Naruto, Your Name' e veja o que o CatalogAI recomenda!")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.abort})

	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s%s", hint, intro, m.input.View(), m.renderNotice(), helpView)
}

func (m *Model) renderLoading() string {
	msg := m.progress.Message
	if msg == "" {
		msg = tasks.SpinnerText
	}
	step := ""
	if m.progress.Step > 0 {
		step = styles.help.Render(fmt.Sprintf(" (%d/%d)", m.progress.Step, m.progress.Total))
	}
	return fmt.Sprintf("%s %s%s\n", m.spinner.View(), msg, step)
}

func (m *Model) renderResult() string {
	if m.report == nil {
		return styles.err.Render(tasks.NoResultsText)
	}

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.reset, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n\n%s", m.renderNotice(), m.cards.View(), helpView)
}

// RenderCards renders every recommendation of a report as a bordered card, for non-interactive output.
func RenderCards(r *formatter.Report, width int) string {
	var b strings.Builder
	b.WriteString(styles.ok.Render(formatter.Greeting(r.Genre)))
	b.WriteString("\n")

	card := styles.card
	if width > 4 {
		card = card.Width(width - 4)
	}
	for _, rec := range r.Recommendations {
		body := fmt.Sprintf("%s\n%s\n%s %s",
			styles.heading.Render(rec.Heading()),
			styles.help.Render(rec.Synopsis),
			styles.ok.Render(formatter.Labels[3]+":"),
			rec.Chances,
		)
		b.WriteString(card.Render(body))
		b.WriteString("\n")
	}
	return b.String()
}
