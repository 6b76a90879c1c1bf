package builder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/schedule"
	"github.com/preston-bernstein/nba-replay-service/internal/domain/scoreboard"
	"github.com/preston-bernstein/nba-replay-service/internal/teststubs"
	"github.com/preston-bernstein/nba-replay-service/internal/testutil"
)

type stubSchedule struct {
	resp schedule.Response
	err  error
}

func (s stubSchedule) LoadSchedule(ctx context.Context) (schedule.Response, error) {
	_ = ctx
	return s.resp, s.err
}

func sampleSchedule() stubSchedule {
	return stubSchedule{resp: schedule.Response{LeagueSchedule: schedule.LeagueSchedule{
		SeasonYear: "2024-25",
		LeagueID:   "00",
		GameDates: []schedule.GameDate{
			{GameDate: "12/07/2024 00:00:00", Games: []schedule.GameRef{{GameID: "x"}}},
			{GameDate: "12/08/2024 00:00:00", Games: []schedule.GameRef{{GameID: "c"}, {GameID: "a"}, {GameID: "b"}}},
		},
	}}}
}

func boxscores(ids ...string) map[string]scoreboard.Game {
	out := make(map[string]scoreboard.Game, len(ids))
	for _, id := range ids {
		out[id] = testutil.SampleGame(id)
	}
	return out
}

func TestBuildKeepsScheduleOrder(t *testing.T) {
	upstream := &teststubs.StubUpstream{Boxscores: boxscores("a", "b", "c", "x")}
	b := New(sampleSchedule(), upstream, nil, 2)

	resp, err := b.Build(context.Background(), time.Date(2024, 12, 8, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	sb := resp.Scoreboard
	assert.Equal(t, "2024-12-08", sb.GameDate)
	assert.Equal(t, "00", sb.LeagueID)
	assert.Equal(t, "National Basketball Association", sb.LeagueName)
	assert.Equal(t, []string{"c", "a", "b"}, sb.GameIDs())
	assert.Equal(t, int32(3), upstream.Calls.Load())
}

func TestBuildEmptyDay(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	resp, err := New(sampleSchedule(), &teststubs.StubUpstream{}, logger, 0).
		Build(context.Background(), time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, resp.Scoreboard.Games)
	assert.NotNil(t, resp.Scoreboard.Games)
	assert.Contains(t, buf.String(), "no games scheduled")
}

func TestBuildFailsOnBoxscoreError(t *testing.T) {
	upstream := &teststubs.StubUpstream{Boxscores: boxscores("a", "c")}
	_, err := New(sampleSchedule(), upstream, nil, 1).
		Build(context.Background(), time.Date(2024, 12, 8, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.ErrorIs(t, err, teststubs.ErrMissingLog)
	assert.Contains(t, err.Error(), "boxscore b")
}

func TestBuildFailsOnScheduleError(t *testing.T) {
	boom := errors.New("no schedule")
	_, err := New(stubSchedule{err: boom}, &teststubs.StubUpstream{}, nil, 1).
		Build(context.Background(), time.Now())
	assert.ErrorIs(t, err, boom)
}
