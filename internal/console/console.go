package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"signal_bot/internal/models"
	auth "signal_bot/internal/modules/auth/service"
	"signal_bot/internal/modules/config"
	settings "signal_bot/internal/modules/settings/service"
	signallog "signal_bot/internal/modules/signal_log/service"
	source "signal_bot/internal/modules/source/service"
	telegram "signal_bot/internal/modules/telegram_bot/service"
	"signal_bot/internal/runner"

	"github.com/fatih/color"
)

type Source interface {
	Online(ctx context.Context) error
	Fetch(ctx context.Context, q models.Query, tz models.Timezone) (models.Batch, error)
}

type SettingsStore interface {
	Load() (models.Settings, error)
	Save(v models.Settings) error
	LoadAuto() (models.AutoBotSettings, error)
	SaveAuto(v models.AutoBotSettings) error
	Reset() error
}

type Authenticator interface {
	Login(ctx context.Context, p auth.Prompter) (models.Session, error)
	Check(s models.Session) error
	ChangePassword(username, oldPassword, newPassword string) error
}

type SignalLog interface {
	Write(batch models.Batch, tz models.Timezone) (string, error)
}

type AutoSender interface {
	Run(ctx context.Context, s models.AutoBotSettings, target telegram.Target, rep runner.Reporter) error
}

// Console: интерактивное меню поверх произвольных in/out.
type Console struct {
	in  *bufio.Reader
	out io.Writer

	src      Source
	settings SettingsStore
	auth     Authenticator
	log      SignalLog
	sender   AutoSender
	fallback telegram.Target

	// interrupt ограничивает автоотправку до Ctrl+C.
	interrupt func(ctx context.Context) (context.Context, context.CancelFunc)

	title   *color.Color
	info    *color.Color
	prompt  *color.Color
	success *color.Color
	alert   *color.Color
}

func NewConsole(
	cfg *config.Config,
	src *source.Client,
	st *settings.Store,
	a *auth.Authenticator,
	w *signallog.Writer,
	r *runner.Runner,
) *Console {
	c := New(os.Stdin, os.Stdout, src, st, a, w, r)
	c.fallback = telegram.Target{Token: cfg.Telegram.Token, Channel: cfg.Telegram.Channel}
	return c
}

func New(in io.Reader, out io.Writer, src Source, st SettingsStore, a Authenticator, w SignalLog, s AutoSender) *Console {
	return &Console{
		in:       bufio.NewReader(in),
		out:      out,
		src:      src,
		settings: st,
		auth:     a,
		log:      w,
		sender:   s,
		interrupt: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		},
		title:   color.New(color.FgCyan),
		info:    color.New(color.FgYellow),
		prompt:  color.New(color.FgYellow),
		success: color.New(color.FgGreen),
		alert:   color.New(color.FgRed),
	}
}

// readLine читает строку без перевода строки. io.EOF пробрасывается как есть.
func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Ask реализует auth.Prompter.
func (c *Console) Ask(prompt string) (string, error) {
	c.prompt.Fprint(c.out, prompt)
	return c.readLine()
}

func (c *Console) Confirm(prompt string) (bool, error) {
	answer, err := c.Ask(prompt + " (y/n): ")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y"), nil
}

func (c *Console) Warn(msg string) {
	c.alert.Fprintf(c.out, "\n%s\n", msg)
}

// askKeep спрашивает новое значение. Пустой ввод оставляет текущее.
func (c *Console) askKeep(label, current string) (string, error) {
	v, err := c.Ask(fmt.Sprintf("Enter %s (current: %s): ", label, orNotSet(current)))
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

func (c *Console) pause() error {
	c.prompt.Fprint(c.out, "\nPress Enter to continue...")
	_, err := c.readLine()
	return err
}

func (c *Console) printf(col *color.Color, format string, args ...any) {
	col.Fprintf(c.out, format, args...)
}

func orNotSet(v string) string {
	if v == "" {
		return "Not Set"
	}
	return v
}

func formatExpiry(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
