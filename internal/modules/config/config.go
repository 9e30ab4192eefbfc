package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"signal_bot/internal/models"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDirENV      = "CONFIG_DIR"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	channelENV        = "TELEGRAM_CHANNEL"
	databaseDSN       = "DATABASE_DSN"
)

const (
	// адрес источника хранится в base64, как и раньше
	defaultSourceURL      = "aHR0cHM6Ly9hbGx0cmFkaW5nYXBpLmNvbS9zaWduYWxfbGlzdF9nZW4vcXhfc2lnbmFsLmpz"
	defaultMaintenanceURL = "https://pastebin.com/raw/eqmdkZ0E"
	defaultProbeAddr      = "www.google.com:80"
)

// Config ...
type Config struct {
	Telegram struct {
		Token       string `yaml:"token"`
		Channel     string `yaml:"channel"`
		APIEndpoint string `yaml:"api_endpoint"`
	} `yaml:"telegram"`

	Source struct {
		URL            string        `yaml:"url"` // base64
		Timeout        time.Duration `yaml:"timeout"`
		MaintenanceURL string        `yaml:"maintenance_url"`
		ProbeAddr      string        `yaml:"probe_addr"`
	} `yaml:"source"`

	Storage struct {
		DataDir    string `yaml:"data_dir"`
		SignalsDir string `yaml:"signals_dir"`
	} `yaml:"storage"`

	// Параметры цикла автоотправки
	Relay struct {
		TickInterval     time.Duration `yaml:"tick_interval"`
		PollInterval     time.Duration `yaml:"poll_interval"`
		IdleInterval     time.Duration `yaml:"idle_interval"` // пауза вне торговых часов
		ShortBackoff     time.Duration `yaml:"short_backoff"`
		LongBackoff      time.Duration `yaml:"long_backoff"`
		MaxQuickFailures int           `yaml:"max_quick_failures"`
		WindowWidth      float64       `yaml:"window_width"` // минуты
	} `yaml:"relay"`

	DB      string `yaml:"db_dsn"`
	Service struct {
		Host      string `yaml:"host"`
		AdminPort int    `yaml:"admin_port"`
	} `yaml:"service"`

	Tracing struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"tracing"`

	LogLevel string `yaml:"log_level"`

	Users []models.User `yaml:"users"`
}

// Default: значения, с которыми клиент работает без конфиг-файла.
func Default() Config {
	var cfg Config
	cfg.Telegram.APIEndpoint = "https://api.telegram.org/bot%s/%s"

	cfg.Source.URL = defaultSourceURL
	cfg.Source.Timeout = 30 * time.Second
	cfg.Source.MaintenanceURL = defaultMaintenanceURL
	cfg.Source.ProbeAddr = defaultProbeAddr

	cfg.Storage.DataDir = "data"
	cfg.Storage.SignalsDir = "Signals"

	cfg.Relay.TickInterval = time.Second
	cfg.Relay.PollInterval = 30 * time.Second
	cfg.Relay.IdleInterval = time.Minute
	cfg.Relay.ShortBackoff = 5 * time.Second
	cfg.Relay.LongBackoff = time.Minute
	cfg.Relay.MaxQuickFailures = 3
	cfg.Relay.WindowWidth = 0.5

	cfg.Service.Host = "127.0.0.1"
	cfg.Tracing.Port = 6831
	cfg.LogLevel = "info"
	return cfg
}

func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configFileName := getenvDefault(configFilePathENV, "values_local.yaml")
	path := filepath.Join(getenvDefault(configDirENV, "configs"), configFileName)

	config, err := Load(path)
	if err != nil {
		return nil, err
	}
	applyEnv(config)
	return config, nil
}

// Load читает yaml поверх дефолтов. Отсутствующий файл: не ошибка.
func Load(path string) (*Config, error) {
	config := Default()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &config, nil
		}
		return nil, errors.Wrapf(err, "open config %s", path)
	}

	defer func() {
		_ = file.Close()
	}()

	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}
	return &config, nil
}

func applyEnv(config *Config) {
	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if channel := os.Getenv(channelENV); channel != "" {
		config.Telegram.Channel = channel
	}
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		config.DB = dsn
	}

	config.Storage.DataDir = getenvDefault("SIGNALS_DATA_DIR", config.Storage.DataDir)
	config.Storage.SignalsDir = getenvDefault("SIGNALS_LOG_DIR", config.Storage.SignalsDir)
	config.LogLevel = getenvDefault("LOG_LEVEL", config.LogLevel)

	config.Relay.TickInterval = durationFromEnv("TICK_INTERVAL", config.Relay.TickInterval)
	config.Relay.PollInterval = durationFromEnv("POLL_INTERVAL", config.Relay.PollInterval)
	config.Relay.IdleInterval = durationFromEnv("IDLE_INTERVAL", config.Relay.IdleInterval)
	config.Relay.ShortBackoff = durationFromEnv("SHORT_BACKOFF", config.Relay.ShortBackoff)
	config.Relay.LongBackoff = durationFromEnv("LONG_BACKOFF", config.Relay.LongBackoff)
	config.Relay.MaxQuickFailures = intFromEnv("MAX_QUICK_FAILURES", config.Relay.MaxQuickFailures)
	config.Relay.WindowWidth = floatFromEnv("WINDOW_WIDTH", config.Relay.WindowWidth)

	config.Service.AdminPort = intFromEnv("ADMIN_PORT", config.Service.AdminPort)
	config.Tracing.Host = getenvDefault("JAEGER_AGENT_HOST", config.Tracing.Host)
	config.Tracing.Port = intFromEnv("JAEGER_AGENT_PORT", config.Tracing.Port)
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
