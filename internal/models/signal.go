package models

import (
	"fmt"
	"strings"
	"time"
)

// Action: направление сигнала.
type Action string

const (
	ActionCall Action = "CALL"
	ActionPut  Action = "PUT"
	ActionNA   Action = "N/A"
)

// ParseAction нормализует значение из ответа источника, всё неизвестное -> N/A.
func ParseAction(s string) Action {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CALL":
		return ActionCall
	case "PUT":
		return ActionPut
	default:
		return ActionNA
	}
}

// Tradable: только CALL/PUT отправляются картинкой.
func (a Action) Tradable() bool { return a == ActionCall || a == ActionPut }

// Signal хранит один прогноз: пара, время исполнения HH:MM (уже в целевой таймзоне), действие.
type Signal struct {
	Pair       string `json:"pair"`
	Time       string `json:"time"`
	Action     Action `json:"action"`
	Percentage string `json:"percentage"`
}

// SignalKey: идентичность сигнала для дедупликации отправок.
type SignalKey struct {
	Time   string
	Pair   string
	Action Action
}

func (s Signal) Key() SignalKey {
	return SignalKey{Time: s.Time, Pair: s.Pair, Action: s.Action}
}

func (k SignalKey) String() string {
	return fmt.Sprintf("%s_%s_%s", k.Time, k.Pair, k.Action)
}

// ClockLayout: формат времени сигналов и торговых часов.
const ClockLayout = "15:04"

// ParseClock разбирает "HH:MM" в смещение от полуночи.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// ExecutionTime возвращает ближайший момент исполнения сигнала относительно now:
// сегодня в HH:MM, либо завтра, если это время уже прошло.
func (s Signal) ExecutionTime(now time.Time) (time.Time, error) {
	off, err := ParseClock(s.Time)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := now.Date()
	at := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Add(off)
	if at.Before(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at, nil
}

// Batch: результат одного запроса к источнику.
type Batch struct {
	Date    string
	Signals []Signal
}

// Pairs возвращает отсортированный список уникальных пар батча.
func (b Batch) Pairs() []string {
	return UniquePairs(b.Signals)
}
