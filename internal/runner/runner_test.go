package runner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"signal_bot/internal/models"
	source "signal_bot/internal/modules/source/service"
	telegram "signal_bot/internal/modules/telegram_bot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fakeFetcher struct {
	calls   int
	batches []models.Batch
	errs    []error
}

func (f *fakeFetcher) Fetch(context.Context, models.Query, models.Timezone) (models.Batch, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return models.Batch{}, f.errs[i]
	}
	if len(f.batches) == 0 {
		return models.Batch{}, source.ErrNoSignals
	}
	if i >= len(f.batches) {
		i = len(f.batches) - 1
	}
	return f.batches[i], nil
}

type fakeNotifier struct {
	sent []models.Signal
	fail int
}

func (n *fakeNotifier) SendSignal(_ context.Context, _ telegram.Target, s models.Signal, _ models.MessagePreset, _ models.Timezone, _ float64) error {
	if n.fail > 0 {
		n.fail--
		return errors.New("telegram is down")
	}
	n.sent = append(n.sent, s)
	return nil
}

type fakeJournal struct {
	records []models.Relayed
}

func (j *fakeJournal) Record(_ context.Context, r models.Relayed) error {
	j.records = append(j.records, r)
	return nil
}

type eventLog struct {
	events []Event
}

func (e *eventLog) Report(ev Event) { e.events = append(e.events, ev) }

func (e *eventLog) kinds() []EventKind {
	out := make([]EventKind, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Kind)
	}
	return out
}

var testTarget = telegram.Target{Token: "123:abc", Channel: "@growup"}

func testConfig() RunConfig {
	return RunConfig{
		Tick:             time.Second,
		Poll:             30 * time.Second,
		Idle:             time.Minute,
		ShortBackoff:     5 * time.Second,
		LongBackoff:      time.Minute,
		MaxQuickFailures: 3,
		Width:            0.5,
	}
}

func newTestLoop(t *testing.T, r *Runner, s models.AutoBotSettings, rep Reporter) *loop {
	t.Helper()
	w, err := NewWindow(s)
	require.NoError(t, err)
	return &loop{
		settings: s,
		target:   testTarget,
		window:   w,
		lead:     s.Lead(),
		tz:       s.TZ(),
		rep:      rep,
		tracker:  NewTracker(r.clock.Now()),
	}
}

func TestRunner_SendsOnce(t *testing.T) {
	clock := &fakeClock{now: at(10, 0, 12)}
	f := &fakeFetcher{batches: []models.Batch{{Signals: []models.Signal{sig("USDPKR_otc", "10:01", models.ActionCall)}}}}
	n := &fakeNotifier{}
	j := &fakeJournal{}
	r := New(testConfig(), f, n, j, clock)

	events := &eventLog{}
	l := newTestLoop(t, r, models.DefaultAutoBotSettings(), events)

	r.step(context.Background(), l)
	require.Len(t, n.sent, 1)
	assert.Equal(t, "USDPKR_otc", n.sent[0].Pair)
	require.Len(t, j.records, 1)
	assert.Equal(t, at(10, 1, 0), j.records[0].ExecAt)

	clock.Set(at(10, 0, 13))
	r.step(context.Background(), l)
	clock.Set(at(10, 0, 45))
	r.step(context.Background(), l) // повторный fetch, тот же сигнал
	assert.Equal(t, 2, f.calls)
	assert.Len(t, n.sent, 1)

	assert.Equal(t, []EventKind{EventNext, EventSent}, events.kinds())
	assert.Equal(t, 1, r.Status().SentCount)
}

func TestRunner_SameMinuteSignals(t *testing.T) {
	clock := &fakeClock{now: at(10, 0, 5)}
	f := &fakeFetcher{batches: []models.Batch{{Signals: []models.Signal{
		sig("EURUSD_otc", "10:01", models.ActionCall),
		sig("USDPKR_otc", "10:01", models.ActionPut),
	}}}}
	n := &fakeNotifier{}
	r := New(testConfig(), f, n, nil, clock)
	l := newTestLoop(t, r, models.DefaultAutoBotSettings(), nopReporter{})

	for now := at(10, 0, 5); now.Before(at(10, 1, 0)); now = now.Add(time.Second) {
		clock.Set(now)
		r.step(context.Background(), l)
	}

	require.Len(t, n.sent, 2)
	assert.ElementsMatch(t, []string{"EURUSD_otc", "USDPKR_otc"}, []string{n.sent[0].Pair, n.sent[1].Pair})
	assert.Equal(t, 2, r.Status().SentCount)
}

func TestRunner_SameMinuteAfterFailedSend(t *testing.T) {
	clock := &fakeClock{now: at(10, 0, 5)}
	f := &fakeFetcher{batches: []models.Batch{{Signals: []models.Signal{
		sig("EURUSD_otc", "10:01", models.ActionCall),
		sig("USDPKR_otc", "10:01", models.ActionPut),
	}}}}
	n := &fakeNotifier{fail: 1}
	r := New(testConfig(), f, n, nil, clock)
	l := newTestLoop(t, r, models.DefaultAutoBotSettings(), nopReporter{})

	r.step(context.Background(), l)
	assert.Empty(t, n.sent)

	clock.Set(at(10, 0, 6))
	r.step(context.Background(), l)
	assert.Len(t, n.sent, 2)
}

func TestRunner_RepeatsNextDay(t *testing.T) {
	s := sig("USDPKR_otc", "10:01", models.ActionCall)
	clock := &fakeClock{now: at(10, 0, 5)}
	f := &fakeFetcher{batches: []models.Batch{{Signals: []models.Signal{s}}}}
	n := &fakeNotifier{}
	j := &fakeJournal{}
	r := New(testConfig(), f, n, j, clock)
	events := &eventLog{}
	l := newTestLoop(t, r, models.DefaultAutoBotSettings(), events)

	r.step(context.Background(), l)
	clock.Set(at(10, 0, 40))
	r.step(context.Background(), l)
	clock.Set(at(23, 40, 0))
	r.step(context.Background(), l)
	require.Len(t, n.sent, 1)

	nextDay := at(10, 0, 5).AddDate(0, 0, 1)
	clock.Set(nextDay)
	r.step(context.Background(), l)

	require.Len(t, n.sent, 2)
	assert.Equal(t, s.Key(), n.sent[1].Key())
	require.Len(t, j.records, 2)
	assert.Equal(t, at(10, 1, 0), j.records[0].ExecAt)
	assert.Equal(t, at(10, 1, 0).AddDate(0, 0, 1), j.records[1].ExecAt)
	assert.Contains(t, events.kinds(), EventReset)
}

func TestRunner_WaitsForWindow(t *testing.T) {
	clock := &fakeClock{now: at(9, 59, 40)}
	f := &fakeFetcher{batches: []models.Batch{{Signals: []models.Signal{sig("USDPKR_otc", "10:01", models.ActionPut)}}}}
	n := &fakeNotifier{}
	r := New(testConfig(), f, n, nil, clock)
	l := newTestLoop(t, r, models.DefaultAutoBotSettings(), nil)
	l.rep = nopReporter{}

	r.step(context.Background(), l)
	assert.Empty(t, n.sent)

	// между опросами проверка окна идёт по сохранённому времени
	clock.Set(at(10, 0, 5))
	r.step(context.Background(), l)
	require.Len(t, n.sent, 1)
	assert.Equal(t, models.ActionPut, n.sent[0].Action)
	assert.Equal(t, 1, f.calls)
}

func TestRunner_RetriesFailedSend(t *testing.T) {
	clock := &fakeClock{now: at(10, 0, 5)}
	f := &fakeFetcher{batches: []models.Batch{{Signals: []models.Signal{sig("USDPKR_otc", "10:01", models.ActionCall)}}}}
	n := &fakeNotifier{fail: 1}
	r := New(testConfig(), f, n, nil, clock)
	l := newTestLoop(t, r, models.DefaultAutoBotSettings(), nopReporter{})

	r.step(context.Background(), l)
	assert.Empty(t, n.sent)
	assert.False(t, l.tracker.Sent(sig("USDPKR_otc", "10:01", models.ActionCall).Key()))

	clock.Set(at(10, 0, 6))
	r.step(context.Background(), l)
	assert.Len(t, n.sent, 1)
}

func TestRunner_Backoff(t *testing.T) {
	boom := errors.New("connection refused")
	clock := &fakeClock{now: at(10, 0, 0)}
	f := &fakeFetcher{errs: []error{boom, boom, boom, nil}}
	r := New(testConfig(), f, &fakeNotifier{}, nil, clock)
	events := &eventLog{}
	l := newTestLoop(t, r, models.DefaultAutoBotSettings(), events)

	r.step(context.Background(), l)
	assert.Equal(t, 1, l.errCount)
	assert.Equal(t, at(10, 0, 5), l.pauseUntil)

	// во время паузы источник не трогаем
	clock.Set(at(10, 0, 3))
	r.step(context.Background(), l)
	assert.Equal(t, 1, f.calls)

	clock.Set(at(10, 0, 5))
	r.step(context.Background(), l)
	assert.Equal(t, at(10, 0, 10), l.pauseUntil)

	clock.Set(at(10, 0, 10))
	r.step(context.Background(), l)
	assert.Equal(t, 3, l.errCount)
	assert.Equal(t, at(10, 1, 10), l.pauseUntil)
	assert.Equal(t, 3, r.Status().ErrorCount)

	clock.Set(at(10, 1, 10))
	r.step(context.Background(), l)
	assert.Equal(t, 0, l.errCount)
	assert.Equal(t, at(10, 1, 10), l.lastFetch)
	assert.Equal(t, 4, f.calls)

	assert.Equal(t, []EventKind{EventFetchFailed, EventFetchFailed, EventFetchFailed}, events.kinds())
}

func TestRunner_PollInterval(t *testing.T) {
	clock := &fakeClock{now: at(10, 0, 0)}
	f := &fakeFetcher{}
	r := New(testConfig(), f, &fakeNotifier{}, nil, clock)
	l := newTestLoop(t, r, models.DefaultAutoBotSettings(), nopReporter{})

	r.step(context.Background(), l)
	clock.Set(at(10, 0, 29))
	r.step(context.Background(), l)
	assert.Equal(t, 1, f.calls)

	clock.Set(at(10, 0, 30))
	r.step(context.Background(), l)
	assert.Equal(t, 2, f.calls)
}

func TestRunner_OutsideTradingHours(t *testing.T) {
	clock := &fakeClock{now: at(8, 0, 0)}
	f := &fakeFetcher{}
	s := models.DefaultAutoBotSettings()
	s.StartTime, s.EndTime = "09:00", "17:00"
	r := New(testConfig(), f, &fakeNotifier{}, nil, clock)
	events := &eventLog{}
	l := newTestLoop(t, r, s, events)

	r.step(context.Background(), l)
	clock.Set(at(8, 1, 0))
	r.step(context.Background(), l)
	assert.Zero(t, f.calls)
	assert.Equal(t, []EventKind{EventIdle}, events.kinds())

	clock.Set(at(9, 0, 0))
	r.step(context.Background(), l)
	assert.Equal(t, 1, f.calls)
}

func TestRunner_Run(t *testing.T) {
	clock := &fakeClock{now: at(10, 0, 0)}
	cfg := testConfig()
	cfg.Tick = 5 * time.Millisecond
	r := New(cfg, &fakeFetcher{}, &fakeNotifier{}, nil, clock)

	err := r.Run(context.Background(), models.DefaultAutoBotSettings(), telegram.Target{}, nil)
	assert.ErrorIs(t, err, telegram.ErrNotConfigured)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, models.DefaultAutoBotSettings(), testTarget, nil) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
	assert.False(t, r.Status().Running)
}
