package handlers

import (
	"context"
	"errors"
	nethttp "net/http"

	appreplay "github.com/preston-bernstein/nba-replay-service/internal/app/replay"
	"github.com/preston-bernstein/nba-replay-service/internal/replay"
)

func statusForError(err error) int {
	switch {
	case errors.Is(err, replay.ErrUnanchoredSession):
		return nethttp.StatusConflict
	case errors.Is(err, appreplay.ErrTemplateUnavailable):
		return nethttp.StatusServiceUnavailable
	case errors.Is(err, replay.ErrEmptyTemplate):
		return nethttp.StatusNotFound
	case errors.Is(err, replay.ErrDataUnavailable):
		return nethttp.StatusBadGateway
	case errors.Is(err, replay.ErrEmptyActionLog):
		return nethttp.StatusInternalServerError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nethttp.StatusServiceUnavailable
	default:
		return nethttp.StatusInternalServerError
	}
}
