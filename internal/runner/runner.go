package runner

import (
	"context"
	"sync"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	source "signal_bot/internal/modules/source/service"
	telegram "signal_bot/internal/modules/telegram_bot/service"
	"signal_bot/pkg/logger"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
)

var ErrAlreadyRunning = errors.New("auto sender is already running")

type Fetcher interface {
	Fetch(ctx context.Context, q models.Query, tz models.Timezone) (models.Batch, error)
}

type Notifier interface {
	SendSignal(
		ctx context.Context,
		target telegram.Target,
		sig models.Signal,
		preset models.MessagePreset,
		tz models.Timezone,
		lead float64,
	) error
}

type Journal interface {
	Record(ctx context.Context, r models.Relayed) error
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// RunConfig: тайминги цикла автоотправки.
type RunConfig struct {
	Tick             time.Duration
	Poll             time.Duration
	Idle             time.Duration
	ShortBackoff     time.Duration
	LongBackoff      time.Duration
	MaxQuickFailures int
	Width            float64 // ширина окна отправки, минуты
}

func NewRunConfig(cfg *config.Config) RunConfig {
	return RunConfig{
		Tick:             cfg.Relay.TickInterval,
		Poll:             cfg.Relay.PollInterval,
		Idle:             cfg.Relay.IdleInterval,
		ShortBackoff:     cfg.Relay.ShortBackoff,
		LongBackoff:      cfg.Relay.LongBackoff,
		MaxQuickFailures: cfg.Relay.MaxQuickFailures,
		Width:            cfg.Relay.WindowWidth,
	}
}

// backoff: короткая пауза для первых ошибок, длинная после MaxQuickFailures подряд.
func (c RunConfig) backoff(errCount int) time.Duration {
	if errCount >= c.MaxQuickFailures {
		return c.LongBackoff
	}
	return c.ShortBackoff
}

type Runner struct {
	cfg     RunConfig
	fetch   Fetcher
	notify  Notifier
	journal Journal
	clock   Clock

	mu     sync.Mutex
	status Status
}

func NewRunner(cfg *config.Config, src *source.Client, tg *telegram.Telegram, j Journal) *Runner {
	return New(NewRunConfig(cfg), src, tg, j, systemClock{})
}

func New(cfg RunConfig, f Fetcher, n Notifier, j Journal, clock Clock) *Runner {
	if cfg.Tick <= 0 {
		cfg.Tick = time.Second
	}
	if clock == nil {
		clock = systemClock{}
	}
	return &Runner{
		cfg:     cfg,
		fetch:   f,
		notify:  n,
		journal: j,
		clock:   clock,
	}
}

// loop: состояние одного запуска.
type loop struct {
	settings models.AutoBotSettings
	target   telegram.Target
	window   Window
	lead     float64
	tz       models.Timezone
	rep      Reporter

	tracker    *Tracker
	lastFetch  time.Time
	pauseUntil time.Time
	errCount   int
	idle       bool
}

// Run крутит цикл опроса и отправки до отмены ctx. Отмена: штатный выход, ошибка nil.
func (r *Runner) Run(ctx context.Context, s models.AutoBotSettings, target telegram.Target, rep Reporter) error {
	if !target.Valid() {
		return telegram.ErrNotConfigured
	}
	window, err := NewWindow(s)
	if err != nil {
		return errors.Wrap(err, "trading hours")
	}
	if rep == nil {
		rep = nopReporter{}
	}

	if !r.begin() {
		return ErrAlreadyRunning
	}
	defer r.end()

	l := &loop{
		settings: s,
		target:   target,
		window:   window,
		lead:     s.Lead(),
		tz:       s.TZ(),
		rep:      rep,
		tracker:  NewTracker(r.clock.Now()),
	}
	logger.Info("[RUNNER] started: pairs=%s hours=%s-%s lead=%.1f", s.Pairs, s.StartTime, s.EndTime, l.lead)

	ticker := time.NewTicker(r.cfg.Tick)
	defer ticker.Stop()

	r.step(ctx, l)
	for {
		select {
		case <-ctx.Done():
			logger.Info("[RUNNER] stopped")
			return nil
		case <-ticker.C:
			r.step(ctx, l)
		}
	}
}

func (r *Runner) step(ctx context.Context, l *loop) {
	now := r.clock.Now()

	if l.tracker.ResetAtMidnight(now) {
		logger.Info("[RUNNER] new day, sent markers cleared")
		l.rep.Report(Event{Kind: EventReset, At: now})
		r.sync(l)
	}

	if now.Before(l.pauseUntil) {
		return
	}

	if !l.window.Contains(now) {
		l.pauseUntil = now.Add(r.cfg.Idle)
		if !l.idle {
			l.idle = true
			l.rep.Report(Event{Kind: EventIdle, At: now})
		}
		return
	}
	l.idle = false

	if l.lastFetch.IsZero() || now.Sub(l.lastFetch) >= r.cfg.Poll {
		if !r.poll(ctx, l, now) {
			return
		}
	}

	// несколько сигналов одной минуты уходят в одном тике
	for {
		u, ok := l.tracker.Due(now, l.lead, r.cfg.Width)
		if !ok || !r.send(ctx, l, u, now) {
			return
		}
	}
}

// poll забирает свежие сигналы. false: ошибка, цикл ушёл в паузу.
func (r *Runner) poll(ctx context.Context, l *loop, now time.Time) bool {
	span, spanCtx := opentracing.StartSpanFromContext(ctx, "runner.fetch")
	defer span.Finish()
	span.SetTag("pairs", l.settings.Pairs)

	batch, err := r.fetch.Fetch(spanCtx, l.settings.Query(), l.tz)
	if err != nil && !errors.Is(err, source.ErrNoSignals) {
		if ctx.Err() != nil {
			return false
		}
		span.SetTag("error", true)
		span.LogKV("event", "error", "message", err.Error())

		l.errCount++
		pause := r.cfg.backoff(l.errCount)
		l.pauseUntil = now.Add(pause)
		logger.Error("[RUNNER] fetch failed (%d in a row), retry in %s: %v", l.errCount, pause, err)
		l.rep.Report(Event{Kind: EventFetchFailed, At: now, Err: err, Count: l.errCount})
		r.sync(l)
		return false
	}

	l.errCount = 0
	l.lastFetch = now
	span.SetTag("signals", len(batch.Signals))

	if len(batch.Signals) > 0 {
		before, hadBefore := l.tracker.Next()
		l.tracker.Observe(now, batch.Signals)
		after, hasAfter := l.tracker.Next()
		if hasAfter && (!hadBefore || before.Signal.Key() != after.Signal.Key()) {
			l.rep.Report(Event{Kind: EventNext, At: now, Upcoming: &after})
		}
	}
	r.sync(l)
	return true
}

// send отправляет сигнал. При ошибке ключ не помечается: следующий тик повторит, пока сигнал в окне.
func (r *Runner) send(ctx context.Context, l *loop, u Upcoming, now time.Time) bool {
	span, spanCtx := opentracing.StartSpanFromContext(ctx, "runner.notify")
	defer span.Finish()
	span.SetTag("signal", u.Signal.Key().String())

	err := r.notify.SendSignal(spanCtx, l.target, u.Signal, l.settings.MessagePreset, l.tz, l.lead)
	if err != nil {
		span.SetTag("error", true)
		span.LogKV("event", "error", "message", err.Error())
		logger.Error("[RUNNER] send %s failed: %v", u.Signal.Key(), err)
		l.rep.Report(Event{Kind: EventSendFailed, At: now, Upcoming: &u, Err: err})
		return false
	}

	l.tracker.MarkSent(now, u.Signal.Key())
	l.rep.Report(Event{Kind: EventSent, At: now, Upcoming: &u})

	if r.journal != nil {
		rec := models.Relayed{Signal: u.Signal, ExecAt: u.At, Lead: l.lead, SentAt: now}
		if err := r.journal.Record(spanCtx, rec); err != nil {
			logger.Warn("[RUNNER] journal: %v", err)
		}
	}
	if next, ok := l.tracker.Next(); ok {
		l.rep.Report(Event{Kind: EventNext, At: now, Upcoming: &next})
	}
	r.sync(l)
	return true
}
