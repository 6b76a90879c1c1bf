package fixtures

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/scoreboard"
)

// Writer persists replay documents atomically and keeps the manifest current.
type Writer struct {
	basePath string
}

// NewWriter constructs a writer rooted at basePath.
func NewWriter(basePath string) *Writer {
	return &Writer{basePath: basePath}
}

// BasePath exposes the writer root path (primarily for testing).
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WritePlayByPlay stores a raw play-by-play document for gameID and records it in the manifest.
func (w *Writer) WritePlayByPlay(gameID string, raw []byte) error {
	if w == nil {
		return fmt.Errorf("fixture writer not configured")
	}
	if !ValidGameID(gameID) {
		return fmt.Errorf("invalid game id %q", gameID)
	}
	if len(raw) == 0 {
		return fmt.Errorf("empty play-by-play document for %s", gameID)
	}
	if err := os.MkdirAll(w.basePath, 0o755); err != nil {
		return err
	}
	if _, err := writeAtomic(PlayByPlayPath(w.basePath, gameID), raw); err != nil {
		return err
	}
	return w.updateManifest(gameID)
}

// WriteScoreboard encodes resp with four-space indentation to path.
// A relative path is resolved against the writer root.
func (w *Writer) WriteScoreboard(path string, resp scoreboard.Response) error {
	if w == nil {
		return fmt.Errorf("fixture writer not configured")
	}
	if path == "" {
		path = ScoreboardPath(w.basePath)
	} else if !filepath.IsAbs(path) && w.basePath != "" {
		path = filepath.Join(w.basePath, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(resp, "", "    ")
	if err != nil {
		return err
	}
	_, err = writeAtomic(path, data)
	return err
}

func (w *Writer) updateManifest(gameID string) error {
	m, _ := ReadManifest(w.basePath)
	ids, err := w.listGameIDs()
	if err != nil {
		return err
	}
	if !containsID(ids, gameID) {
		ids = append(ids, gameID)
		sort.Strings(ids)
	}
	m.PlayByPlay.GameIDs = ids
	m.PlayByPlay.LastRefreshed = time.Now().UTC()
	return writeManifest(w.basePath, m)
}

func (w *Writer) listGameIDs() ([]string, error) {
	entries, err := os.ReadDir(w.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	ids := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, playByPlaySfx) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, playByPlaySfx))
	}
	sort.Strings(ids)
	return ids, nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// writeAtomic replaces target with data via a temp file and rename.
// It reports false without touching the file when the content is unchanged.
func writeAtomic(target string, data []byte) (bool, error) {
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return false, err
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return false, err
	}
	return true, nil
}
