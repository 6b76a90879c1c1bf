package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	appreplay "github.com/preston-bernstein/nba-replay-service/internal/app/replay"
	"github.com/preston-bernstein/nba-replay-service/internal/domain/playbyplay"
	"github.com/preston-bernstein/nba-replay-service/internal/domain/scoreboard"
	"github.com/preston-bernstein/nba-replay-service/internal/fixtures"
	"github.com/preston-bernstein/nba-replay-service/internal/logging"
	"github.com/preston-bernstein/nba-replay-service/internal/warmup"
)

// GameIDParam is the route parameter carrying the game id.
const GameIDParam = "gameId"

// ReplayService is the surface the handlers serve.
type ReplayService interface {
	Scoreboard(ctx context.Context) (scoreboard.Response, error)
	PlayByPlay(ctx context.Context, gameID string) (playbyplay.Response, error)
	FixedPointGame(ctx context.Context) (scoreboard.Game, error)
	Session(ctx context.Context) (appreplay.SessionStatus, error)
}

// Handler wires HTTP routes to the replay service.
type Handler struct {
	svc      ReplayService
	logger   *slog.Logger
	statusFn func() warmup.Status
}

// NewHandler constructs a Handler. A nil statusFn reports ready unconditionally.
func NewHandler(svc ReplayService, logger *slog.Logger, statusFn func() warmup.Status) *Handler {
	return &Handler{
		svc:      svc,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic once play-by-play warmup has succeeded.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Scoreboard serves today's scoreboard as observed at the simulated instant.
func (h *Handler) Scoreboard(w nethttp.ResponseWriter, r *nethttp.Request) {
	resp, err := h.svc.Scoreboard(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, resp, h.logger)
}

// PlayByPlay serves the visible action window of one game.
func (h *Handler) PlayByPlay(w nethttp.ResponseWriter, r *nethttp.Request) {
	id := chi.URLParam(r, GameIDParam)
	if !fixtures.ValidGameID(id) {
		writeError(w, r, nethttp.StatusBadRequest, "invalid game id", h.logger)
		return
	}
	resp, err := h.svc.PlayByPlay(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, logging.FieldGameID, id)
		return
	}
	writeJSON(w, nethttp.StatusOK, resp, h.logger)
}

// FixedPointGame serves the first template game frozen at the simulated session start.
func (h *Handler) FixedPointGame(w nethttp.ResponseWriter, r *nethttp.Request) {
	game, err := h.svc.FixedPointGame(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, game, h.logger)
}

// Session serves replay session diagnostics.
func (h *Handler) Session(w nethttp.ResponseWriter, r *nethttp.Request) {
	status, err := h.svc.Session(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, status, h.logger)
}

// NotFound answers unknown routes with the standard error body.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (h *Handler) MethodNotAllowed(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
}

func (h *Handler) fail(w nethttp.ResponseWriter, r *nethttp.Request, err error, attrs ...any) {
	status := statusForError(err)
	logger := loggerFromContext(r, h.logger)
	if status >= nethttp.StatusInternalServerError {
		logging.Error(logger, "replay request failed", err, append(attrs, logging.FieldStatusCode, status)...)
	} else {
		logging.Info(logger, "replay request rejected", append(attrs, logging.FieldStatusCode, status, "error", err)...)
	}
	writeError(w, r, status, err.Error(), h.logger)
}
