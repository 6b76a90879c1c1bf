package teststubs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/playbyplay"
	"github.com/preston-bernstein/nba-replay-service/internal/domain/scoreboard"
)

// ErrMissingLog is returned by StubFetcher for unknown game ids.
var ErrMissingLog = errors.New("stub: no action log")

// StubFetcher is a test double for replay.Fetcher.
type StubFetcher struct {
	Logs  map[string]playbyplay.Game
	Err   error
	Calls atomic.Int32
	// Gate, when set, blocks every fetch until it is closed.
	Gate chan struct{}
	// Started receives one signal per fetch entering the stub, when set.
	Started chan struct{}

	mu     sync.Mutex
	perID  map[string]int
	failID map[string]error
}

// FetchPlayByPlay returns the configured log while tracking calls.
func (s *StubFetcher) FetchPlayByPlay(ctx context.Context, gameID string) (playbyplay.Game, error) {
	s.Calls.Add(1)
	s.mu.Lock()
	if s.perID == nil {
		s.perID = make(map[string]int)
	}
	s.perID[gameID]++
	failErr := s.failID[gameID]
	s.mu.Unlock()

	if s.Started != nil {
		s.Started <- struct{}{}
	}
	if s.Gate != nil {
		select {
		case <-s.Gate:
		case <-ctx.Done():
			return playbyplay.Game{}, ctx.Err()
		}
	}
	if failErr != nil {
		return playbyplay.Game{}, failErr
	}
	if s.Err != nil {
		return playbyplay.Game{}, s.Err
	}
	log, ok := s.Logs[gameID]
	if !ok {
		return playbyplay.Game{}, ErrMissingLog
	}
	return log, nil
}

// FailFor makes fetches for gameID return err until cleared with a nil err.
func (s *StubFetcher) FailFor(gameID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failID == nil {
		s.failID = make(map[string]error)
	}
	if err == nil {
		delete(s.failID, gameID)
		return
	}
	s.failID[gameID] = err
}

// CallsFor reports how many fetches were made for gameID.
func (s *StubFetcher) CallsFor(gameID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.perID[gameID]
}

// StubTemplateLoader is a test double for the scoreboard template source.
type StubTemplateLoader struct {
	Response scoreboard.Response
	Err      error
	Calls    atomic.Int32
}

// LoadScoreboard returns the configured template.
func (s *StubTemplateLoader) LoadScoreboard(ctx context.Context) (scoreboard.Response, error) {
	_ = ctx
	s.Calls.Add(1)
	if s.Err != nil {
		return scoreboard.Response{}, s.Err
	}
	return s.Response, nil
}

// StubUpstream is a test double for providers.Upstream. Errs are returned in order
// by successive calls before documents are served.
type StubUpstream struct {
	PlayByPlay map[string][]byte
	Boxscores  map[string]scoreboard.Game
	Errs       []error
	Calls      atomic.Int32

	mu sync.Mutex
}

// FetchPlayByPlay returns the configured raw document.
func (s *StubUpstream) FetchPlayByPlay(ctx context.Context, gameID string) ([]byte, error) {
	_ = ctx
	if err := s.next(); err != nil {
		return nil, err
	}
	raw, ok := s.PlayByPlay[gameID]
	if !ok {
		return nil, ErrMissingLog
	}
	return raw, nil
}

// FetchBoxscore returns the configured box score.
func (s *StubUpstream) FetchBoxscore(ctx context.Context, gameID string) (scoreboard.Game, error) {
	_ = ctx
	if err := s.next(); err != nil {
		return scoreboard.Game{}, err
	}
	game, ok := s.Boxscores[gameID]
	if !ok {
		return scoreboard.Game{}, ErrMissingLog
	}
	return game, nil
}

func (s *StubUpstream) next() error {
	s.Calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Errs) == 0 {
		return nil
	}
	err := s.Errs[0]
	s.Errs = s.Errs[1:]
	return err
}
