package nbacdn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/scoreboard"
	"github.com/preston-bernstein/nba-replay-service/internal/providers"
)

// Config controls how the client reaches the live data CDN.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client fetches play-by-play and box score documents from the live data CDN.
type Client struct {
	baseURL    string
	httpClient httpDoer
	now        func() time.Time
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		now:        time.Now,
	}
}

// Name identifies the upstream in logs and metrics.
func (c *Client) Name() string {
	return providerName
}

// FetchPlayByPlay returns the raw play-by-play document for gameID.
func (c *Client) FetchPlayByPlay(ctx context.Context, gameID string) ([]byte, error) {
	return c.get(ctx, fmt.Sprintf(playByPlayPathFmt, gameID))
}

// FetchBoxscore returns the final box score for gameID as a scoreboard entry.
func (c *Client) FetchBoxscore(ctx context.Context, gameID string) (scoreboard.Game, error) {
	raw, err := c.get(ctx, fmt.Sprintf(boxscorePathFmt, gameID))
	if err != nil {
		return scoreboard.Game{}, err
	}
	var payload boxscoreResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return scoreboard.Game{}, fmt.Errorf("%s: decode boxscore %s: %w", providerName, gameID, err)
	}
	if payload.Game.GameID == "" {
		payload.Game.GameID = gameID
	}
	return payload.Game, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
			Remaining:  resp.Header.Get("X-RateLimit-Remaining"),
			Message:    "live data cdn rate limited",
		}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &providers.StatusError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			URL:        url,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read %s: %w", providerName, path, err)
	}
	return raw, nil
}
