package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/schedule"
	"github.com/preston-bernstein/nba-replay-service/internal/domain/scoreboard"
)

// ErrNotFound is returned when a requested document is not stored.
var ErrNotFound = errors.New("fixture not found")

// FSStore reads and writes replay documents under a single assets directory.
type FSStore struct {
	basePath string
	writer   *Writer
}

// NewFSStore constructs an FS-backed store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath, writer: NewWriter(basePath)}
}

// BasePath exposes the store root.
func (s *FSStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// LoadScoreboard reads the scoreboard template.
func (s *FSStore) LoadScoreboard(ctx context.Context) (scoreboard.Response, error) {
	_ = ctx
	var payload scoreboard.Response
	if err := s.decodeFile(ScoreboardPath(s.BasePath()), &payload); err != nil {
		return scoreboard.Response{}, fmt.Errorf("load scoreboard: %w", err)
	}
	return payload, nil
}

// LoadSchedule reads the league schedule.
func (s *FSStore) LoadSchedule(ctx context.Context) (schedule.Response, error) {
	_ = ctx
	var payload schedule.Response
	if err := s.decodeFile(SchedulePath(s.BasePath()), &payload); err != nil {
		return schedule.Response{}, fmt.Errorf("load schedule: %w", err)
	}
	return payload, nil
}

// LoadPlayByPlay returns the raw play-by-play document for gameID, or ErrNotFound.
func (s *FSStore) LoadPlayByPlay(ctx context.Context, gameID string) ([]byte, error) {
	_ = ctx
	if s == nil {
		return nil, errors.New("fixture store not configured")
	}
	if !ValidGameID(gameID) {
		return nil, fmt.Errorf("invalid game id %q", gameID)
	}
	raw, err := os.ReadFile(PlayByPlayPath(s.basePath, gameID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// SavePlayByPlay persists a raw play-by-play document and records it in the manifest.
func (s *FSStore) SavePlayByPlay(ctx context.Context, gameID string, raw []byte) error {
	_ = ctx
	if s == nil {
		return errors.New("fixture store not configured")
	}
	return s.writer.WritePlayByPlay(gameID, raw)
}

// SaveScoreboard writes resp to path; an empty path targets the store's scoreboard.json.
func (s *FSStore) SaveScoreboard(ctx context.Context, path string, resp scoreboard.Response) error {
	_ = ctx
	if s == nil {
		return errors.New("fixture store not configured")
	}
	return s.writer.WriteScoreboard(path, resp)
}

func (s *FSStore) decodeFile(path string, payload any) error {
	if s == nil {
		return errors.New("fixture store not configured")
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(payload)
}
