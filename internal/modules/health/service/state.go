package service

import (
	"time"

	"signal_bot/internal/runner"
)

// StatusSource: откуда берём состояние цикла автоотправки.
type StatusSource interface {
	Status() runner.Status
}

type State struct {
	startedAt time.Time
	src       StatusSource
}

func NewState(src *runner.Runner) *State {
	return NewStateFrom(src, time.Now())
}

func NewStateFrom(src StatusSource, now time.Time) *State {
	return &State{startedAt: now, src: src}
}

// Ready: цикл автоотправки запущен.
func (s *State) Ready() bool { return s.src.Status().Running }

func (s *State) Snapshot() runner.Status { return s.src.Status() }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
