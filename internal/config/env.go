package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the environment. Durations that fail to parse decode as zero so
// callers can substitute defaults; booleans also accept yes/no.
func parseEnv(cfg any) error {
	return env.ParseWithOptions(cfg, env.Options{
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(time.Duration(0)): parseLenientDuration,
			reflect.TypeOf(false):            parseBool,
		},
	})
}

func parseLenientDuration(raw string) (interface{}, error) {
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return time.Duration(0), nil
	}
	return parsed, nil
}

func parseBool(raw string) (interface{}, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", raw)
}

func positiveOr(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
