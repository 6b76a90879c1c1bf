// Package builder assembles a scoreboard template for one day from the league schedule
// and each game's final box score.
package builder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/schedule"
	"github.com/preston-bernstein/nba-replay-service/internal/domain/scoreboard"
	"github.com/preston-bernstein/nba-replay-service/internal/logging"
	"github.com/preston-bernstein/nba-replay-service/internal/providers"
	"github.com/preston-bernstein/nba-replay-service/internal/timeutil"
)

const defaultConcurrency = 4

// ScheduleLoader loads the league schedule.
type ScheduleLoader interface {
	LoadSchedule(ctx context.Context) (schedule.Response, error)
}

// Builder produces scoreboard templates.
type Builder struct {
	schedule    ScheduleLoader
	boxscores   providers.BoxscoreSource
	logger      *slog.Logger
	concurrency int
}

// New constructs a Builder. A non-positive concurrency uses the default.
func New(schedule ScheduleLoader, boxscores providers.BoxscoreSource, logger *slog.Logger, concurrency int) *Builder {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Builder{
		schedule:    schedule,
		boxscores:   boxscores,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Build returns the scoreboard for the calendar day of date, with games in schedule order.
// A day with no scheduled games yields an empty scoreboard.
func (b *Builder) Build(ctx context.Context, date time.Time) (scoreboard.Response, error) {
	sched, err := b.schedule.LoadSchedule(ctx)
	if err != nil {
		return scoreboard.Response{}, err
	}

	key := timeutil.ScheduleDate(date)
	refs := sched.LeagueSchedule.GamesOn(key)
	logger := logging.FromContext(ctx, b.logger)
	if len(refs) == 0 {
		logging.Warn(logger, "no games scheduled", slog.String(logging.FieldDate, key))
	}

	games := make([]scoreboard.Game, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, ref := range refs {
		g.Go(func() error {
			game, err := b.boxscores.FetchBoxscore(gctx, ref.GameID)
			if err != nil {
				return fmt.Errorf("boxscore %s: %w", ref.GameID, err)
			}
			games[i] = game
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return scoreboard.Response{}, err
	}

	logging.Info(logger, "scoreboard built",
		slog.String(logging.FieldDate, timeutil.FormatDate(date)),
		slog.Int(logging.FieldCount, len(games)),
	)
	return scoreboard.Response{Scoreboard: scoreboard.Scoreboard{
		GameDate:   timeutil.FormatDate(date),
		LeagueID:   scoreboard.LeagueIDNBA,
		LeagueName: scoreboard.LeagueNameNBA,
		Games:      games,
	}}, nil
}
