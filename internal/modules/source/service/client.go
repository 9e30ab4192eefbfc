package service

import (
	"context"
	"encoding/base64"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"

	"github.com/pkg/errors"
)

var (
	ErrOffline   = errors.New("no internet connection")
	ErrNoSignals = errors.New("no signals found")
	ErrMalformed = errors.New("malformed source response")
)

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client: HTTP-клиент источника сигналов.
type Client struct {
	http           HTTPDoer
	url            string
	maintenanceURL string
	probeAddr      string
	probeTimeout   time.Duration
}

func NewClient(cfg *config.Config) (*Client, error) {
	u, err := DecodeURL(cfg.Source.URL)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:           &http.Client{Timeout: cfg.Source.Timeout},
		url:            u,
		maintenanceURL: cfg.Source.MaintenanceURL,
		probeAddr:      cfg.Source.ProbeAddr,
		probeTimeout:   5 * time.Second,
	}, nil
}

// New для тестов и нестандартных источников, url уже раскодирован.
func New(doer HTTPDoer, url, maintenanceURL, probeAddr string) *Client {
	return &Client{
		http:           doer,
		url:            url,
		maintenanceURL: maintenanceURL,
		probeAddr:      probeAddr,
		probeTimeout:   5 * time.Second,
	}
}

// DecodeURL раскодирует адрес источника из base64.
func DecodeURL(encoded string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", errors.Wrap(err, "decode source url")
	}
	return string(b), nil
}

// Online проверяет TCP-доступность probeAddr. Пустой адрес: проверка выключена.
func (c *Client) Online(ctx context.Context) error {
	if c.probeAddr == "" {
		return nil
	}
	d := net.Dialer{Timeout: c.probeTimeout}
	conn, err := d.DialContext(ctx, "tcp", c.probeAddr)
	if err != nil {
		return errors.Wrapf(ErrOffline, "dial %s: %v", c.probeAddr, err)
	}
	_ = conn.Close()
	return nil
}

// Fetch запрашивает сигналы и переводит их время в таймзону tz.
func (c *Client) Fetch(ctx context.Context, q models.Query, tz models.Timezone) (models.Batch, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return models.Batch{}, errors.Wrap(err, "build request")
	}
	req.URL.RawQuery = q.Values().Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Batch{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Batch{}, errors.Wrap(err, "read body")
	}
	if resp.StatusCode/100 != 2 {
		return models.Batch{}, errors.Errorf("http %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return Parse(string(body), q, tz)
}

// Maintenance возвращает true, если панель выключена. Недоступность страницы
// статуса работу не блокирует.
func (c *Client) Maintenance(ctx context.Context) (bool, error) {
	if c.maintenanceURL == "" {
		return false, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.maintenanceURL, nil)
	if err != nil {
		return false, errors.Wrap(err, "build request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, nil
	}
	return maintenanceOn(string(b)), nil
}

func maintenanceOn(body string) bool {
	body = strings.TrimSpace(body)
	if !strings.Contains(body, "PANNEL ON/OFF") {
		return false
	}
	_, value, ok := strings.Cut(body, "=")
	if !ok {
		return false
	}
	status := strings.ReplaceAll(strings.TrimSpace(value), `"`, "")
	return !strings.EqualFold(status, "ON")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
