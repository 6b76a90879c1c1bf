package replay

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataUnavailableErrorMatching(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("scoreboard: %w", &DataUnavailableError{GameID: "g1", Err: cause})

	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrEmptyActionLog)
	assert.Contains(t, err.Error(), "g1")

	got, ok := AsDataUnavailable(err)
	assert.True(t, ok)
	assert.Equal(t, "g1", got.GameID)

	_, ok = AsDataUnavailable(cause)
	assert.False(t, ok)
	assert.Contains(t, (&DataUnavailableError{GameID: "g2"}).Error(), "g2")
}

func TestEmptyActionLogErrorMatching(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &EmptyActionLogError{GameID: "g1"})
	assert.ErrorIs(t, err, ErrEmptyActionLog)
	assert.NotErrorIs(t, err, ErrDataUnavailable)
	assert.Contains(t, err.Error(), "g1")
}
