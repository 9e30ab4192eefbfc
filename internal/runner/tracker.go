package runner

import (
	"time"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"

	"github.com/samber/lo"
)

// Upcoming: ближайший ещё не отправленный сигнал и момент его исполнения.
type Upcoming struct {
	Signal models.Signal `json:"signal"`
	At     time.Time     `json:"at"`
}

// MinutesUntil: сколько минут осталось до исполнения.
func (u Upcoming) MinutesUntil(now time.Time) float64 {
	return u.At.Sub(now).Minutes()
}

// Tracker хранит отправленные ключи и ближайший сигнал. Время передаётся снаружи.
// Не потокобезопасен: владеет им один цикл.
type Tracker struct {
	sent     map[models.SignalKey]struct{}
	batch    []models.Signal
	next     *Upcoming
	resetDay string
}

func NewTracker(now time.Time) *Tracker {
	return &Tracker{
		sent:     make(map[models.SignalKey]struct{}),
		resetDay: dayOf(now),
	}
}

// Observe пересчитывает ближайший сигнал по свежему списку.
// Уже отправленные и сигналы с неразборчивым временем пропускаются.
// Список запоминается: после отправки следующий выбирается из него без нового запроса.
func (t *Tracker) Observe(now time.Time, signals []models.Signal) {
	t.batch = signals
	t.pick(now)
}

func (t *Tracker) pick(now time.Time) {
	candidates := make([]Upcoming, 0, len(t.batch))
	for _, s := range t.batch {
		if t.Sent(s.Key()) {
			continue
		}
		at, err := s.ExecutionTime(now)
		if err != nil {
			logger.Warn("[TRACKER] skip %s: %v", s.Key(), err)
			continue
		}
		candidates = append(candidates, Upcoming{Signal: s, At: at})
	}
	if len(candidates) == 0 {
		t.next = nil
		return
	}
	best := lo.MinBy(candidates, func(a, b Upcoming) bool {
		return a.At.Before(b.At)
	})
	t.next = &best
}

// Due возвращает ближайший сигнал, если до него осталось от lead-width до lead минут.
// Сигнал, проскочивший окно (например, после долгой паузы), здесь не отдаётся.
func (t *Tracker) Due(now time.Time, lead, width float64) (Upcoming, bool) {
	if t.next == nil {
		return Upcoming{}, false
	}
	m := t.next.MinutesUntil(now)
	if m <= lead && m >= lead-width {
		return *t.next, true
	}
	return Upcoming{}, false
}

// MarkSent помечает ключ и сразу выбирает следующий из последнего списка,
// иначе сигнал той же минуты ждал бы опроса и проскочил окно.
func (t *Tracker) MarkSent(now time.Time, k models.SignalKey) {
	t.sent[k] = struct{}{}
	if t.next != nil && t.next.Signal.Key() == k {
		t.pick(now)
	}
}

func (t *Tracker) Sent(k models.SignalKey) bool {
	_, ok := t.sent[k]
	return ok
}

func (t *Tracker) SentCount() int { return len(t.sent) }

// ResetAtMidnight очищает отправленные при смене календарного дня. true: ровно один раз в сутки.
func (t *Tracker) ResetAtMidnight(now time.Time) bool {
	day := dayOf(now)
	if day == t.resetDay {
		return false
	}
	t.resetDay = day
	clear(t.sent)
	return true
}

func (t *Tracker) Next() (Upcoming, bool) {
	if t.next == nil {
		return Upcoming{}, false
	}
	return *t.next, true
}

func dayOf(now time.Time) string {
	return now.Format("2006-01-02")
}
