package service

import (
	"regexp"
	"strings"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"

	"github.com/pkg/errors"
)

const (
	signalsMarker = "Signals:"
	lineMarker    = "PA～"
	fieldSep      = "～"
	unknownDate   = "Unknown Date"
)

var dateRe = regexp.MustCompile(`Date: (\d{2}/\d{2}/\d{4})`)

// Parse разбирает текстовый ответ источника. Строка сигнала имеет вид
// "PA～<pair>～<HH:MM>～<CALL|PUT>", время в часах источника.
func Parse(body string, q models.Query, tz models.Timezone) (models.Batch, error) {
	if !strings.Contains(body, signalsMarker) {
		return models.Batch{}, errors.Wrap(ErrNoSignals, "response has no signals section")
	}

	batch := models.Batch{Date: unknownDate}
	if m := dateRe.FindStringSubmatch(body); m != nil {
		batch.Date = m[1]
	}

	blackout := q.Blackout()
	for _, line := range strings.Split(body, "\n") {
		if !strings.Contains(line, lineMarker) {
			continue
		}
		parts := strings.Split(strings.TrimSpace(line), fieldSep)
		if len(parts) < 4 {
			continue
		}

		pair := strings.TrimSpace(parts[1])
		at, err := models.ConvertTime(parts[2], tz)
		if err != nil {
			logger.Warn("[SOURCE] drop line %q: %v", line, errors.Wrap(ErrMalformed, err.Error()))
			continue
		}

		action := models.ParseAction(parts[3])
		if blackout {
			action = models.ActionNA
		}

		batch.Signals = append(batch.Signals, models.Signal{
			Pair:       pair,
			Time:       at,
			Action:     action,
			Percentage: q.MinPercentage,
		})
	}

	if len(batch.Signals) == 0 {
		return batch, errors.Wrap(ErrNoSignals, "no signals meet the criteria")
	}
	return batch, nil
}
