package nbacdn

import "time"

const (
	providerName       = "nbacdn"
	defaultBaseURL     = "https://cdn.nba.com/static/json/liveData"
	defaultHTTPTimeout = 10 * time.Second
	maxDocumentBytes   = 32 << 20

	playByPlayPathFmt = "/playbyplay/playbyplay_%s.json"
	boxscorePathFmt   = "/boxscore/boxscore_%s.json"
)
