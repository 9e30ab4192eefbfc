package runner

import (
	"time"

	"signal_bot/internal/models"
)

// Window: торговые часы, обе границы включительно.
// Если Start > End, окно переходит через полночь.
type Window struct {
	Start time.Duration
	End   time.Duration
}

func NewWindow(s models.AutoBotSettings) (Window, error) {
	start, end, err := s.TradingHours()
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: end}, nil
}

func (w Window) Contains(now time.Time) bool {
	off := sinceMidnight(now)
	if w.Start <= w.End {
		return off >= w.Start && off <= w.End
	}
	return off >= w.Start || off <= w.End
}

func sinceMidnight(now time.Time) time.Duration {
	y, m, d := now.Date()
	return now.Sub(time.Date(y, m, d, 0, 0, 0, 0, now.Location()))
}
