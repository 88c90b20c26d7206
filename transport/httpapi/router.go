package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/NCNU-OpenSource/meow-server/core/chaos"
	"github.com/NCNU-OpenSource/meow-server/core/logger"
	"github.com/NCNU-OpenSource/meow-server/core/session"
)

// Controller is the slice of the challenge manager the HTTP surface needs.
type Controller interface {
	StartChallenge(ctx context.Context) (session.StartResult, error)
	Status(ctx context.Context) (session.Status, error)
	Hint(step int) (session.HintResult, error)
}

// Options configure the router.
type Option func(*api)

// WithLogger sets the logger for request-scoped diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(a *api) {
		if log != nil {
			a.logger = log
		}
	}
}

type api struct {
	controller Controller
	logger     *slog.Logger
}

// NewRouter builds the trainee-facing HTTP API. It panics on a nil controller
// since the router is assembled once at startup.
func NewRouter(controller Controller, opts ...Option) http.Handler {
	if controller == nil {
		panic("httpapi: controller must not be nil")
	}

	a := &api{
		controller: controller,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/api/start", a.handleStart)
	r.Get("/api/status", a.handleStatus)
	r.Post("/api/hint", a.handleHint)
	r.Get("/health/live", a.handleLiveness)

	return r
}

type startResponse struct {
	OK             bool   `json:"ok"`
	TemplateID     string `json:"template_id"`
	Desc           string `json:"desc"`
	Explain        string `json:"explain"`
	HintsCount     int    `json:"hints_count"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	LoginHint      string `json:"login_hint"`
}

func (a *api) handleStart(w http.ResponseWriter, r *http.Request) {
	result, err := a.controller.StartChallenge(r.Context())
	if err != nil {
		a.writeStartError(w, r, err)
		return
	}

	a.writeJSON(w, http.StatusOK, startResponse{
		OK:             true,
		TemplateID:     result.TemplateID,
		Desc:           result.Description,
		Explain:        result.Explain,
		HintsCount:     result.HintsCount,
		TimeoutSeconds: int(result.Timeout / time.Second),
		LoginHint:      result.LoginHint,
	})
}

func (a *api) writeStartError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrChallengeActive):
		a.writeError(w, http.StatusConflict, "a challenge is already active")
	case errors.Is(err, chaos.ErrProvisionFailed):
		a.logger.ErrorContext(r.Context(), "sandbox provisioning failed", logger.Error(err))
		a.writeError(w, http.StatusBadGateway, "sandbox is not available")
	case errors.Is(err, session.ErrNoTemplates):
		a.logger.ErrorContext(r.Context(), "no challenge templates available", logger.Error(err))
		a.writeError(w, http.StatusInternalServerError, "no challenge templates available")
	default:
		a.logger.ErrorContext(r.Context(), "start challenge failed", logger.Error(err))
		a.writeError(w, http.StatusInternalServerError, "failed to start challenge")
	}
}

type statusResponse struct {
	Active           bool   `json:"active"`
	Status           string `json:"status"`
	TemplateID       string `json:"template_id,omitempty"`
	Desc             string `json:"desc,omitempty"`
	ElapsedSeconds   int    `json:"elapsed,omitempty"`
	RemainingSeconds int    `json:"remaining,omitempty"`
	Message          string `json:"message"`
}

// statusMessages maps each observed state to the line the trainee sees.
var statusMessages = map[session.State]string{
	session.StateIdle:    "no challenge is running",
	session.StatePending: "challenge in progress, keep digging",
	session.StateTimeout: "time is up, the challenge expired",
	session.StateSuccess: "fault resolved, nice work",
}

func (a *api) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := a.controller.Status(r.Context())
	if err != nil {
		a.logger.ErrorContext(r.Context(), "status check failed", logger.Error(err))
		a.writeError(w, http.StatusInternalServerError, "failed to check challenge status")
		return
	}

	a.writeJSON(w, http.StatusOK, statusResponse{
		Active:           status.Active,
		Status:           string(status.State),
		TemplateID:       status.TemplateID,
		Desc:             status.Description,
		ElapsedSeconds:   int(status.Elapsed / time.Second),
		RemainingSeconds: int(status.Remaining / time.Second),
		Message:          statusMessages[status.State],
	})
}

type hintRequest struct {
	Step int `json:"step"`
}

type hintResponse struct {
	Step    int    `json:"step"`
	Text    string `json:"text,omitempty"`
	HasMore bool   `json:"has_more"`
	Done    bool   `json:"done"`
}

func (a *api) handleHint(w http.ResponseWriter, r *http.Request) {
	var req hintRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.Step < 0 {
		a.writeError(w, http.StatusBadRequest, "step must not be negative")
		return
	}

	result, err := a.controller.Hint(req.Step)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoActiveChallenge):
			a.writeError(w, http.StatusBadRequest, "no challenge is running")
		case errors.Is(err, session.ErrTemplateNotFound):
			a.logger.ErrorContext(r.Context(), "hint lookup failed", logger.Error(err))
			a.writeError(w, http.StatusInternalServerError, "failed to look up hints")
		default:
			a.logger.ErrorContext(r.Context(), "hint failed", logger.Error(err))
			a.writeError(w, http.StatusInternalServerError, "failed to get hint")
		}
		return
	}

	a.writeJSON(w, http.StatusOK, hintResponse{
		Step:    result.Step,
		Text:    result.Text,
		HasMore: result.HasMore,
		Done:    result.Done,
	})
}

func (a *api) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (a *api) writeError(w http.ResponseWriter, code int, msg string) {
	a.writeJSON(w, code, errorResponse{OK: false, Error: msg})
}

func (a *api) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("failed to encode response", logger.Error(err))
	}
}
