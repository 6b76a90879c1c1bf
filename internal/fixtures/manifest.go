package fixtures

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Manifest tracks the play-by-play documents cached under the assets directory.
type Manifest struct {
	Version     int            `json:"version"`
	GeneratedAt time.Time      `json:"generatedAt"`
	PlayByPlay  PlayByPlayMeta `json:"playByPlay"`
}

type PlayByPlayMeta struct {
	GameIDs       []string  `json:"gameIds"`
	LastRefreshed time.Time `json:"lastRefreshed"`
}

func defaultManifest() Manifest {
	return Manifest{
		Version:     1,
		GeneratedAt: time.Now().UTC(),
		PlayByPlay: PlayByPlayMeta{
			GameIDs: []string{},
		},
	}
}

// ReadManifest loads the manifest at basePath, returning a default one when absent or unreadable.
func ReadManifest(basePath string) (Manifest, error) {
	f, err := os.Open(filepath.Join(basePath, manifestFile))
	if err != nil {
		return defaultManifest(), err
	}
	defer f.Close()
	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return defaultManifest(), err
	}
	return m, nil
}

func writeManifest(basePath string, m Manifest) error {
	m.GeneratedAt = time.Now().UTC()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	_, err = writeAtomic(filepath.Join(basePath, manifestFile), data)
	return err
}
