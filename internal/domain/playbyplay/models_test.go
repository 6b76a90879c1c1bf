package playbyplay

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = `{
	"meta": {"version": 1},
	"game": {
		"gameId": "0022400321",
		"actions": [
			{"actionNumber": 2, "clock": "PT12M00.00S", "timeActual": "2024-12-09T00:41:47.3Z", "period": 1, "periodType": "REGULAR", "actionType": "jumpball", "subType": "recovered", "scoreHome": "0", "scoreAway": "0", "orderNumber": 20000, "teamId": 1610612747, "description": "Jump Ball"},
			{"actionNumber": 4, "clock": "PT11M41.00S", "timeActual": "2024-12-09T00:42:10Z", "period": 1, "periodType": "REGULAR", "actionType": "2pt", "scoreHome": 2, "scoreAway": "0", "orderNumber": 40000}
		]
	}
}`

func TestDecodeAcceptsStringAndNumericScores(t *testing.T) {
	g, err := Decode([]byte(document))
	require.NoError(t, err)
	require.Len(t, g.Actions, 2)

	assert.Equal(t, "0022400321", g.GameID)
	assert.Equal(t, Score(0), g.Actions[0].ScoreHome)
	assert.Equal(t, Score(2), g.Actions[1].ScoreHome)
	assert.Equal(t, 20000, g.Actions[0].OrderNumber)
	require.NotNil(t, g.Actions[0].TeamID)
	assert.Equal(t, 1610612747, *g.Actions[0].TeamID)
	assert.Nil(t, g.Actions[1].TeamID)
	assert.True(t, g.Actions[0].TimeActual.Equal(time.Date(2024, 12, 9, 0, 41, 47, 300_000_000, time.UTC)))
}

func TestDecodeRejectsInvalidScore(t *testing.T) {
	raw := strings.Replace(document, `"scoreHome": 2`, `"scoreHome": "two"`, 1)
	_, err := Decode([]byte(raw))
	require.Error(t, err)
}

func TestEncodeUsesUpstreamFieldNames(t *testing.T) {
	g, err := Decode([]byte(document))
	require.NoError(t, err)

	data, err := json.Marshal(Response{Game: g})
	require.NoError(t, err)

	for _, key := range []string{`"actionNumber"`, `"timeActual"`, `"scoreHome":0`, `"orderNumber"`, `"periodType"`} {
		assert.Contains(t, string(data), key)
	}
}

func TestCloneCopiesTeamID(t *testing.T) {
	id := 7
	a := Action{TeamID: &id}
	c := a.Clone()
	*c.TeamID = 8
	assert.Equal(t, 7, *a.TeamID)
}

func TestFirstLastOnEmpty(t *testing.T) {
	_, ok := Game{}.First()
	assert.False(t, ok)
	_, ok = Game{}.Last()
	assert.False(t, ok)

	g := Game{Actions: []Action{{OrderNumber: 1}, {OrderNumber: 2}}}
	first, _ := g.First()
	last, _ := g.Last()
	assert.Equal(t, 1, first.OrderNumber)
	assert.Equal(t, 2, last.OrderNumber)
}
