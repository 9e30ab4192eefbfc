package console

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"signal_bot/internal/models"
	auth "signal_bot/internal/modules/auth/service"
	source "signal_bot/internal/modules/source/service"
	telegram "signal_bot/internal/modules/telegram_bot/service"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseNop()
	color.NoColor = true
	os.Exit(m.Run())
}

type fakeSource struct {
	offline bool
	batch   models.Batch
	err     error
	queries []models.Query
}

func (f *fakeSource) Online(context.Context) error {
	if f.offline {
		return source.ErrOffline
	}
	return nil
}

func (f *fakeSource) Fetch(_ context.Context, q models.Query, _ models.Timezone) (models.Batch, error) {
	f.queries = append(f.queries, q)
	return f.batch, f.err
}

type fakeSettings struct {
	def    models.Settings
	auto   models.AutoBotSettings
	resets int
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{def: models.DefaultSettings(), auto: models.DefaultAutoBotSettings()}
}

func (f *fakeSettings) Load() (models.Settings, error) { return f.def, nil }
func (f *fakeSettings) Save(v models.Settings) error { f.def = v; return nil }
func (f *fakeSettings) LoadAuto() (models.AutoBotSettings, error) { return f.auto, nil }
func (f *fakeSettings) SaveAuto(v models.AutoBotSettings) error { f.auto = v; return nil }
func (f *fakeSettings) Reset() error { f.resets++; return nil }

type fakeAuth struct {
	err     error
	changed [3]string
}

func (f *fakeAuth) Login(context.Context, auth.Prompter) (models.Session, error) {
	if f.err != nil {
		return models.Session{}, f.err
	}
	return models.Session{Username: "growupmember", ExpireAt: time.Now().Add(24 * time.Hour)}, nil
}

func (f *fakeAuth) Check(models.Session) error { return nil }

func (f *fakeAuth) ChangePassword(user, old, next string) error {
	if old != "quotex" {
		return auth.ErrInvalidCredentials
	}
	f.changed = [3]string{user, old, next}
	return nil
}

type fakeLog struct {
	batches []models.Batch
}

func (f *fakeLog) Write(b models.Batch, _ models.Timezone) (string, error) {
	f.batches = append(f.batches, b)
	return "Signals/test.txt", nil
}

type fakeSender struct {
	calls  int
	target telegram.Target
	lead   float64
}

func (f *fakeSender) Run(_ context.Context, s models.AutoBotSettings, t telegram.Target, rep runner.Reporter) error {
	f.calls++
	f.target = t
	f.lead = s.Lead()
	rep.Report(runner.Event{Kind: runner.EventSent, At: time.Now(), Upcoming: &runner.Upcoming{
		Signal: models.Signal{Pair: "USDPKR_otc", Time: "10:01", Action: models.ActionCall},
	}})
	return nil
}

type harness struct {
	out      *bytes.Buffer
	src      *fakeSource
	settings *fakeSettings
	auth     *fakeAuth
	log      *fakeLog
	sender   *fakeSender
	console  *Console
}

func newHarness(lines ...string) *harness {
	h := &harness{
		out:      &bytes.Buffer{},
		src:      &fakeSource{},
		settings: newFakeSettings(),
		auth:     &fakeAuth{},
		log:      &fakeLog{},
		sender:   &fakeSender{},
	}
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	h.console = New(in, h.out, h.src, h.settings, h.auth, h.log, h.sender)
	h.console.interrupt = func(ctx context.Context) (context.Context, context.CancelFunc) {
		return context.WithCancel(ctx)
	}
	return h
}

func (h *harness) run(t *testing.T) {
	t.Helper()
	require.NoError(t, h.console.Run(context.Background()))
}

func TestRun_Exit(t *testing.T) {
	h := newHarness("7", "3")
	h.run(t)
	assert.Contains(t, h.out.String(), "Invalid choice")
	assert.Contains(t, h.out.String(), "Exiting program")
}

func TestRun_EndOfInput(t *testing.T) {
	h := newHarness()
	h.console.in.Reset(strings.NewReader(""))
	h.run(t)
}

func TestRun_SoftwareInfo(t *testing.T) {
	h := newHarness("2", "", "3")
	h.run(t)
	assert.Contains(t, h.out.String(), "USDPKR_otc")
	assert.Contains(t, h.out.String(), "Available Stocks and Indices")
}

func TestRun_TooManyAttempts(t *testing.T) {
	h := newHarness("1")
	h.auth.err = auth.ErrTooManyAttempts
	err := h.console.Run(context.Background())
	assert.ErrorIs(t, err, auth.ErrTooManyAttempts)
}

func TestRun_LicenseExpired(t *testing.T) {
	h := newHarness("1", "", "3")
	h.auth.err = auth.ErrLicenseExpired
	h.run(t)
	assert.Contains(t, h.out.String(), "Your license has expired")
}

func TestFetch_Defaults(t *testing.T) {
	h := newHarness("1", "1", "y", "", "9", "3")
	h.src.batch = models.Batch{
		Date: "16/01/2025",
		Signals: []models.Signal{
			{Pair: "USDPKR_otc", Time: "09:35", Action: models.ActionCall},
			{Pair: "BRLUSD_otc", Time: "10:10", Action: models.ActionPut},
		},
	}
	h.run(t)

	out := h.out.String()
	assert.Contains(t, out, "Welcome, growupmember!")
	assert.Contains(t, out, "Quotex Pair")
	assert.Contains(t, out, "BRLUSD_otc")
	assert.Contains(t, out, "Signals saved to: Signals/test.txt")
	require.Len(t, h.src.queries, 1)
	assert.Equal(t, models.DefaultSettings().Query(), h.src.queries[0])
	assert.Len(t, h.log.batches, 1)
}

func TestFetch_CustomSaved(t *testing.T) {
	h := newHarness(
		"1", "1", "n",
		"EURUSD_otc", "", "", "", "BLACKOUT", "", "5", "",
		"y", "", "9", "3",
	)
	h.src.err = source.ErrNoSignals
	h.run(t)

	require.Len(t, h.src.queries, 1)
	q := h.src.queries[0]
	assert.Equal(t, "EURUSD_otc", q.Pairs)
	assert.Equal(t, models.ModeBlackout, q.Mode)
	assert.Equal(t, models.FilterFutureTrend, q.Filter)

	assert.Equal(t, "EURUSD_otc", h.settings.def.Pairs)
	assert.Equal(t, models.ModeBlackout, h.settings.def.Mode)
	assert.Contains(t, h.out.String(), "No signals found that meet the criteria.")
	assert.Empty(t, h.log.batches)
}

func TestFetch_Offline(t *testing.T) {
	h := newHarness("1", "1", "y", "", "9", "3")
	h.src.offline = true
	h.run(t)

	assert.Contains(t, h.out.String(), "No internet connection")
	assert.Empty(t, h.src.queries)
}

func TestFetch_SourceError(t *testing.T) {
	h := newHarness("1", "1", "y", "", "9", "3")
	h.src.err = errors.New("http 502: bad gateway")
	h.run(t)
	assert.Contains(t, h.out.String(), "Error occurred while fetching signals: http 502")
}

func TestDefaultSettings(t *testing.T) {
	h := newHarness(
		"1", "2",
		"", "09:00", "18:00", "", "normal", "80", "1", "0",
		"9", "3",
		"", "9", "3",
	)
	h.run(t)

	s := h.settings.def
	assert.Equal(t, "09:00", s.StartTime)
	assert.Equal(t, "18:00", s.EndTime)
	assert.Equal(t, "80", s.MinPercentage)
	assert.Equal(t, models.FilterHuman, s.FilterValue)
	assert.Equal(t, "0", s.Separate)
	assert.Equal(t, "3", s.Timezone)
	assert.Contains(t, h.out.String(), "Invalid timezone selection")
}

func TestConfigureAutoBot(t *testing.T) {
	h := newHarness(
		"1", "5",
		"USDPKR_otc", "", "", "", "", "", "", "",
		"abc", "2", "123:abc", "@growup",
		"", "9", "3",
	)
	h.run(t)

	a := h.settings.auto
	assert.Equal(t, "USDPKR_otc", a.Pairs)
	assert.Equal(t, "1", a.SendBefore)
	assert.Equal(t, "2", a.Timezone)
	assert.Equal(t, "123:abc", a.BotToken)
	assert.Equal(t, "@growup", a.ChannelID)
}

func TestCustomizeMessage_Preset(t *testing.T) {
	h := newHarness("1", "6", "minimal", "", "9", "3")
	h.run(t)

	p := h.settings.auto.MessagePreset
	assert.Equal(t, "SIGNAL", p.AlertTitle)
	assert.Equal(t, models.FixedCallEmoji, p.CallEmoji)
	assert.Equal(t, models.FixedBotSignature, p.BotSignature)
}

func TestCustomizeMessage_Manual(t *testing.T) {
	h := newHarness("1", "6", "", "HOT SIGNAL", "", "https://img/put.png", "Rule one", "Rule two", "", "", "9", "3")
	h.run(t)

	p := h.settings.auto.MessagePreset
	assert.Equal(t, "HOT SIGNAL", p.AlertTitle)
	assert.Equal(t, models.DefaultCallImageURL, p.CallImageURL)
	assert.Equal(t, "https://img/put.png", p.PutImageURL)
	assert.Equal(t, []string{"Rule one", "Rule two"}, p.SignalRules)
}

func TestResetAll(t *testing.T) {
	h := newHarness("1", "7", "n", "", "7", "y", "", "9", "3")
	h.run(t)
	assert.Equal(t, 1, h.settings.resets)
	assert.Contains(t, h.out.String(), "Reset cancelled.")
}

func TestChangePassword(t *testing.T) {
	h := newHarness("1", "8", "quotex", "new", "other", "", "8", "quotex", "new", "new", "", "9", "3")
	h.run(t)

	assert.Contains(t, h.out.String(), "New passwords do not match.")
	assert.Equal(t, [3]string{"growupmember", "quotex", "new"}, h.auth.changed)
}

func TestAutoSend_NotConfigured(t *testing.T) {
	h := newHarness("1", "4", "", "9", "3")
	h.run(t)
	assert.Contains(t, h.out.String(), "Telegram settings not configured")
	assert.Zero(t, h.sender.calls)
}

func TestAutoSend(t *testing.T) {
	h := newHarness("1", "4", "", "9", "3")
	h.settings.def.TelegramBotToken = "123:abc"
	h.settings.def.TelegramChannel = "@growup"
	h.settings.auto.SendBefore = "2"
	h.run(t)

	require.Equal(t, 1, h.sender.calls)
	assert.Equal(t, telegram.Target{Token: "123:abc", Channel: "@growup"}, h.sender.target)
	assert.Equal(t, 2.0, h.sender.lead)

	out := h.out.String()
	assert.Contains(t, out, "Current Auto Bot Settings")
	assert.Contains(t, out, "Signal sent for USDPKR_otc | Execute at: 10:01")
	assert.Contains(t, out, "Stopping Auto Signal Sender")
}

func TestAutoSend_FallbackTarget(t *testing.T) {
	h := newHarness("1", "4", "", "9", "3")
	h.console.fallback = telegram.Target{Token: "9:xyz", Channel: "-100123"}
	h.run(t)
	assert.Equal(t, h.console.fallback, h.sender.target)
}

func TestPrompter(t *testing.T) {
	h := newHarness("alice", "Y", "n")

	v, err := h.console.Ask("Enter username: ")
	require.NoError(t, err)
	assert.Equal(t, "alice", v)

	ok, err := h.console.Confirm("Save?")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.console.Confirm("Save?")
	require.NoError(t, err)
	assert.False(t, ok)

	h.console.Warn("Invalid username or password. Attempt 1/3")
	assert.Contains(t, h.out.String(), "Attempt 1/3")
}
