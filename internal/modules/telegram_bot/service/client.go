package service

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

var ErrNotConfigured = errors.New("telegram settings not configured")

// Target задаёт, куда отправлять: токен бота и канал (@username или числовой chat id).
type Target struct {
	Token   string
	Channel string
}

func (t Target) Valid() bool {
	return strings.TrimSpace(t.Token) != "" && strings.TrimSpace(t.Channel) != ""
}

// initRetry: сколько ждать нового getMe после неудачного.
const initRetry = 5 * time.Second

// Telegram отправляет сигналы в канал. Клиенты бота кэшируются по токену:
// токен меняется из меню, а NewBotAPI каждый раз ходит в getMe.
type Telegram struct {
	endpoint string
	client   tgbot.HTTPClient
	now      func() time.Time

	mu     sync.Mutex
	bots   map[string]*tgbot.BotAPI
	failed map[string]initFailure
}

// initFailure: последняя ошибка getMe по токену. До until её отдаём без запроса.
type initFailure struct {
	until time.Time
	err   error
}

func NewTelegram(cfg *config.Config) *Telegram {
	return New(cfg.Telegram.APIEndpoint, &http.Client{Timeout: cfg.Source.Timeout})
}

func New(endpoint string, client tgbot.HTTPClient) *Telegram {
	if endpoint == "" {
		endpoint = tgbot.APIEndpoint
	}
	return &Telegram{
		endpoint: endpoint,
		client:   client,
		now:      time.Now,
		bots:     make(map[string]*tgbot.BotAPI),
		failed:   make(map[string]initFailure),
	}
}

func (t *Telegram) bot(token string) (*tgbot.BotAPI, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if b, ok := t.bots[token]; ok {
		return b, nil
	}
	now := t.now()
	if f, ok := t.failed[token]; ok && now.Before(f.until) {
		return nil, f.err
	}
	b, err := tgbot.NewBotAPIWithClient(token, t.endpoint, t.client)
	if err != nil {
		err = errors.Wrap(err, "init telegram bot")
		t.failed[token] = initFailure{until: now.Add(initRetry), err: err}
		logger.Warn("[TELEGRAM] getMe failed, next try in %s: %v", initRetry, err)
		return nil, err
	}
	delete(t.failed, token)
	t.bots[token] = b
	return b, nil
}

// SendSignal отправляет CALL/PUT картинкой с подписью, остальное обычным текстом.
func (t *Telegram) SendSignal(
	ctx context.Context,
	target Target,
	sig models.Signal,
	preset models.MessagePreset,
	tz models.Timezone,
	lead float64,
) error {
	if !target.Valid() {
		return ErrNotConfigured
	}
	b, err := t.bot(target.Token)
	if err != nil {
		return err
	}

	caption := FormatSignal(sig, preset, tz, lead)
	image, _ := preset.ImageFor(sig.Action)
	if image == "" {
		return t.sendText(b, target.Channel, caption)
	}

	photo := tgbot.NewPhoto(0, tgbot.FileURL(image))
	photo.ChatID, photo.ChannelUsername = chatOf(target.Channel)
	photo.Caption = caption
	photo.ParseMode = tgbot.ModeHTML

	if _, err := b.Send(photo); err != nil {
		return errors.Wrapf(err, "send photo %s %s", sig.Pair, sig.Time)
	}
	logger.Info("[TELEGRAM] signal %s sent to %s", sig.Key(), target.Channel)
	return nil
}

// SendText: обычное сообщение в канал.
func (t *Telegram) SendText(ctx context.Context, target Target, text string) error {
	if !target.Valid() {
		return ErrNotConfigured
	}
	b, err := t.bot(target.Token)
	if err != nil {
		return err
	}
	return t.sendText(b, target.Channel, text)
}

func (t *Telegram) sendText(b *tgbot.BotAPI, channel, text string) error {
	msg := tgbot.NewMessage(0, text)
	msg.ChatID, msg.ChannelUsername = chatOf(channel)
	msg.ParseMode = tgbot.ModeHTML

	if _, err := b.Send(msg); err != nil {
		return errors.Wrap(err, "send message")
	}
	return nil
}

// chatOf: числовой канал считается chat id, иначе это username канала.
func chatOf(channel string) (int64, string) {
	channel = strings.TrimSpace(channel)
	if id, err := strconv.ParseInt(channel, 10, 64); err == nil {
		return id, ""
	}
	return 0, channel
}
