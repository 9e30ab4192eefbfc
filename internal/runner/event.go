package runner

import "time"

type EventKind int

const (
	EventIdle EventKind = iota + 1
	EventNext
	EventSent
	EventSendFailed
	EventFetchFailed
	EventReset
)

// Event: то, что цикл сообщает оператору.
type Event struct {
	Kind     EventKind
	At       time.Time
	Upcoming *Upcoming
	Err      error
	Count    int
}

type Reporter interface {
	Report(e Event)
}

type nopReporter struct{}

func (nopReporter) Report(Event) {}

// ReporterFunc позволяет передать функцию как Reporter.
type ReporterFunc func(Event)

func (f ReporterFunc) Report(e Event) { f(e) }
