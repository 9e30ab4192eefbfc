package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	assert.Equal(t, ActionCall, ParseAction("call"))
	assert.Equal(t, ActionPut, ParseAction(" PUT "))
	assert.Equal(t, ActionNA, ParseAction(""))
	assert.Equal(t, ActionNA, ParseAction("hold"))
}

func TestSignal_ExecutionTimeRollsToNextDay(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 30, 0, 0, time.Local)

	at, err := Signal{Time: "14:45"}.ExecutionTime(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 14, 45, 0, 0, time.Local), at)

	at, err = Signal{Time: "14:00"}.ExecutionTime(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 11, 14, 0, 0, 0, time.Local), at)

	_, err = Signal{Time: "25:99"}.ExecutionTime(now)
	require.Error(t, err)
}

func TestSignal_Key(t *testing.T) {
	a := Signal{Pair: "EURUSD_otc", Time: "10:05", Action: ActionCall, Percentage: "80"}
	b := Signal{Pair: "EURUSD_otc", Time: "10:05", Action: ActionCall, Percentage: "100"}
	c := Signal{Pair: "EURUSD_otc", Time: "10:05", Action: ActionPut}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.Equal(t, "10:05_EURUSD_otc_CALL", a.Key().String())
}

func TestConvertTime(t *testing.T) {
	cases := []struct {
		in   string
		tz   string
		want string
	}{
		{"10:00", "1", "09:30"},
		{"10:00", "2", "10:00"},
		{"10:00", "3", "09:00"},
		{"00:15", "1", "23:45"},
		{"00:15", "9", "23:45"},
	}
	for _, c := range cases {
		got, err := ConvertTime(c.in, LookupTimezone(c.tz))
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "%s tz=%s", c.in, c.tz)
	}

	_, err := ConvertTime("x", LookupTimezone("1"))
	require.Error(t, err)
}

func TestUniquePairs(t *testing.T) {
	got := UniquePairs([]Signal{
		{Pair: "USDPKR_otc"}, {Pair: "BRLUSD_otc"}, {Pair: "USDPKR_otc"},
	})
	assert.Equal(t, []string{"BRLUSD_otc", "USDPKR_otc"}, got)
}

func TestAutoBotSettings_Lead(t *testing.T) {
	s := DefaultAutoBotSettings()
	assert.Equal(t, 1.0, s.Lead())

	s.SendBefore = "3"
	assert.Equal(t, 3.0, s.Lead())

	s.SendBefore = "abc"
	assert.Equal(t, 1.0, s.Lead())
}

func TestQuery_Values(t *testing.T) {
	q := DefaultSettings().Query()
	v := q.Values()

	assert.Equal(t, "NZDCAD_otc", v.Get("pairs"))
	assert.Equal(t, "2", v.Get("filter"))
	assert.Equal(t, "1", v.Get("separate"))
	assert.False(t, q.Blackout())

	q.Mode = "Blackout"
	assert.True(t, q.Blackout())
}

func TestMessagePreset_Normalize(t *testing.T) {
	p := MessagePreset{AlertTitle: "HELLO", CallEmoji: "x", BotSignature: "me"}
	p.Normalize()

	assert.Equal(t, "HELLO", p.AlertTitle)
	assert.Equal(t, FixedCallEmoji, p.CallEmoji)
	assert.Equal(t, FixedBotSignature, p.BotSignature)
	assert.Equal(t, DefaultSignalRules, p.SignalRules)

	img, emoji := p.ImageFor(ActionNA)
	assert.Empty(t, img)
	assert.Empty(t, emoji)
}

func TestAutoBotSettings_TradingHours(t *testing.T) {
	a := DefaultAutoBotSettings()
	start, end, err := a.TradingHours()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), start)
	assert.Equal(t, 23*time.Hour+49*time.Minute, end)

	a.EndTime = "soon"
	_, _, err = a.TradingHours()
	assert.Error(t, err)
}

func TestAutoBotSettings_ApplyQuery(t *testing.T) {
	a := DefaultAutoBotSettings()
	q := a.Query()
	q.Pairs = "USDPKR_otc"
	q.Separate = "0"
	a.ApplyQuery(q)

	assert.Equal(t, "USDPKR_otc", a.Pairs)
	assert.Equal(t, "0", a.SeparateTrend)
	assert.Equal(t, q, a.Query())
}
