// Package web implements the HTMX-based web application.
//
// # Architecture
//
// One page with a text area for titles. The page is server-rendered with html/template; HTMX swaps the
// #app fragment on submit and reset, and plain form posts fall back to POST/redirect/GET.
//
// Routes
//
//	GET  /                → full page for the caller's session
//	POST /recommendations → run the two model calls, then render the result (or a notice)
//	POST /reset           → clear the result and show the form again
//
// # State Management
//
// Each browser gets a random session id in an HttpOnly cookie. The [session.State] behind it lives in a
// [session.Store]. Handlers load the state, apply pure transitions and store it back. Notices are shown
// once and then cleared.
//
// Recommendation cards are parsed from the stored raw text on every render, so rendering the same state
// twice yields the same bytes.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/catalogai/internal/formatter"
	"github.com/desertthunder/catalogai/internal/metrics"
	"github.com/desertthunder/catalogai/internal/models"
	"github.com/desertthunder/catalogai/internal/session"
	"github.com/desertthunder/catalogai/internal/shared"
	"github.com/desertthunder/catalogai/internal/tasks"
)

// CookieName is the session cookie.
const CookieName = "catalogai_session"

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// view is the data handed to the templates.
type view struct {
	Input       string
	Phase       string
	ShowSubmit  bool
	Loading     bool
	SpinnerText string
	Notice      *session.Notice
	Greeting    string
	Report      *formatter.Report
}

func newView(s session.State) view {
	v := view{
		Input:       s.Input,
		Phase:       s.Phase.String(),
		ShowSubmit:  s.ShowSubmit(),
		Loading:     s.Phase == session.Loading,
		SpinnerText: tasks.SpinnerText,
	}
	if !s.Notice.Empty() {
		notice := s.Notice
		v.Notice = &notice
	}
	if s.HasResult() {
		if report, err := s.Report(); err == nil {
			v.Report = report
			v.Greeting = formatter.Greeting(report.Genre)
		}
	}
	return v
}

// RenderPage renders the full page for s.
func RenderPage(s session.State) ([]byte, error) {
	return render("page", s)
}

// RenderApp renders only the #app fragment for s.
func RenderApp(s session.State) ([]byte, error) {
	return render("app", s)
}

func render(name string, s session.State) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, newView(s)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Handler serves the web application routes.
type Handler struct {
	engine    tasks.Recommender
	store     *session.Store
	logger    *log.Logger
	cookieTTL time.Duration
}

// Options configures a [Handler].
type Options struct {
	Engine     tasks.Recommender
	Store      *session.Store
	Logger     *log.Logger
	SessionTTL time.Duration
}

// NewHandler creates a Handler. A nil store gets an in-memory one using SessionTTL.
func NewHandler(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Store == nil {
		opts.Store = session.NewStore(opts.SessionTTL)
	}
	return &Handler{
		engine:    opts.Engine,
		store:     opts.Store,
		logger:    shared.WithLogger(opts.Logger, "component", "web"),
		cookieTTL: opts.SessionTTL,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *Handler) Routes() []string {
	return []string{"/", "/recommendations", "/reset"}
}

// ServeHTTP dispatches on path and method.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path
	switch route {
	case "GET /", "HEAD /":
		h.index(w, r)
	case "POST /recommendations":
		h.recommend(w, r)
	case "POST /reset":
		h.reset(w, r)
	default:
		switch r.URL.Path {
		case "/":
			w.Header().Set("Allow", "GET, HEAD")
		case "/recommendations", "/reset":
			w.Header().Set("Allow", "POST")
		default:
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	id, state := h.load(w, r)

	body, err := RenderPage(state)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.store.Put(id, session.ClearNotice(state))
	writeHTML(w, http.StatusOK, body)
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request) {
	id, state := h.load(w, r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	next, titles, err := session.Begin(state, r.PostFormValue("titles"))
	switch {
	case errors.Is(err, session.ErrInvalidTransition):
		h.logger.Debug("ignored submit", "phase", state.Phase)
		h.respond(w, r, id, state)
		return
	case err != nil:
		metrics.RecordRecommendation("web", err)
		h.respond(w, r, id, next)
		return
	}

	h.store.Put(id, next)

	var provider string
	defer func() {
		if p := recover(); p != nil {
			h.store.Put(id, session.Complete(next, nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, p), provider))
			panic(p)
		}
	}()

	var result *models.Result
	runErr := fmt.Errorf("%w: no recommendation engine configured", shared.ErrServiceUnavailable)
	if h.engine != nil {
		provider = h.engine.Provider()
		result, runErr = h.engine.Run(r.Context(), titles, nil)
	}

	next = session.Complete(next, result, runErr, provider)
	if runErr == nil && next.Phase != session.Shown {
		runErr = shared.ErrNoRecommendations
	}

	metrics.RecordRecommendation("web", runErr)
	if runErr != nil {
		h.logger.Warn("recommendation failed", "titles", len(titles), "error", runErr)
	}

	h.respond(w, r, id, next)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	id, state := h.load(w, r)
	h.respond(w, r, id, session.Reset(state))
}

// respond stores state and either renders the fragment (HTMX) or redirects to the page.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, id string, state session.State) {
	if !isHTMX(r) {
		h.store.Put(id, state)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	body, err := RenderApp(state)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.store.Put(id, session.ClearNotice(state))
	writeHTML(w, http.StatusOK, body)
}

// load returns the caller's session, creating one (and its cookie) when missing or expired.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (string, session.State) {
	if c, err := r.Cookie(CookieName); err == nil && shared.IsValidID(c.Value) {
		if state, ok := h.store.Get(c.Value); ok {
			return c.Value, state
		}
	}

	id, state := h.store.New()
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	}
	if h.cookieTTL > 0 {
		cookie.MaxAge = int(h.cookieTTL.Seconds())
	}
	http.SetCookie(w, cookie)
	return id, state
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("failed to render page", "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
