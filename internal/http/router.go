package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/preston-bernstein/nba-replay-service/internal/http/handlers"
	"github.com/preston-bernstein/nba-replay-service/internal/http/middleware"
	"github.com/preston-bernstein/nba-replay-service/internal/metrics"
)

const (
	ScoreboardRoute     = "/static/json/liveData/scoreboard/todaysScoreboard_00.json"
	PlayByPlayRoute     = "/static/json/liveData/playbyplay/playbyplay_{" + handlers.GameIDParam + "}.json"
	FixedPointGameRoute = "/game_fake_data"
	SessionRoute        = "/session"
)

// NewRouter registers the replay routes on a chi router.
func NewRouter(handler *handlers.Handler, logger *slog.Logger, recorder *metrics.Recorder) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(logger, recorder))
	r.Use(chimiddleware.Recoverer)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)
	r.Get(ScoreboardRoute, handler.Scoreboard)
	r.Get(PlayByPlayRoute, handler.PlayByPlay)
	r.Get(FixedPointGameRoute, handler.FixedPointGame)
	r.Get(SessionRoute, handler.Session)
	return r
}
