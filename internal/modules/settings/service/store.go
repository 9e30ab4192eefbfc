package service

import (
	"os"
	"path/filepath"
	"sync"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	defaultSettingsFile = "default_settings.json"
	autoBotSettingsFile = "auto_bot_settings.json"
)

// Store хранит настройки в двух json-файлах. Пишем всегда целиком.
type Store struct {
	dir string
	mu  sync.Mutex
}

func NewStore(cfg *config.Config) *Store {
	return &Store{dir: cfg.Storage.DataDir}
}

func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) DefaultPath() string { return filepath.Join(s.dir, defaultSettingsFile) }
func (s *Store) AutoPath() string    { return filepath.Join(s.dir, autoBotSettingsFile) }

// Load читает default_settings.json. Нет файла: дефолты без ошибки;
// битый файл: дефолты и ошибка для показа пользователю.
func (s *Store) Load() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked()
}

func (s *Store) loadLocked() (models.Settings, error) {
	out := models.DefaultSettings()
	if err := read(s.DefaultPath(), out, &out); err != nil {
		return models.DefaultSettings(), err
	}
	if !models.ValidTimezone(out.Timezone) {
		out.Timezone = models.DefaultTimezoneID
	}
	return out, nil
}

func (s *Store) Save(v models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return write(s.DefaultPath(), v)
}

// LoadAuto читает auto_bot_settings.json; оформление сообщения дозаполняется дефолтами.
func (s *Store) LoadAuto() (models.AutoBotSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := models.DefaultAutoBotSettings()
	if err := read(s.AutoPath(), out, &out); err != nil {
		return models.DefaultAutoBotSettings(), err
	}
	if !models.ValidTimezone(out.Timezone) {
		out.Timezone = models.DefaultTimezoneID
	}
	out.MessagePreset.Normalize()
	return out, nil
}

// SaveAuto пишет настройки автобота и переносит telegram-реквизиты в основные настройки.
func (s *Store) SaveAuto(v models.AutoBotSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := write(s.AutoPath(), v); err != nil {
		return err
	}

	def, err := s.loadLocked()
	if err != nil {
		logger.Warn("[SETTINGS] %v, overwriting with defaults", err)
	}
	def.TelegramBotToken = v.BotToken
	def.TelegramChannel = v.ChannelID
	return write(s.DefaultPath(), def)
}

// Reset возвращает оба файла к заводским значениям.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := write(s.DefaultPath(), models.DefaultSettings()); err != nil {
		return err
	}
	return write(s.AutoPath(), models.DefaultAutoBotSettings())
}

func read(path string, defaults any, out any) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	m, err := toMap(defaults)
	if err != nil {
		return err
	}
	for k, val := range m {
		v.SetDefault(k, val)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return v.Unmarshal(out)
		}
		return errors.Wrapf(err, "read settings %s", path)
	}
	if err := v.Unmarshal(out); err != nil {
		return errors.Wrapf(err, "decode settings %s", path)
	}
	return nil
}

func write(path string, val any) error {
	m, err := toMap(val)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create settings dir")
	}

	v := viper.New()
	v.SetConfigType("json")
	for k, x := range m {
		v.Set(k, x)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return errors.Wrapf(err, "write settings %s", path)
	}
	return nil
}

// toMap раскладывает структуру в плоский map по json-тегам.
func toMap(val any) (map[string]any, error) {
	b, err := sonic.Marshal(val)
	if err != nil {
		return nil, errors.Wrap(err, "marshal settings")
	}
	m := map[string]any{}
	if err := sonic.Unmarshal(b, &m); err != nil {
		return nil, errors.Wrap(err, "unmarshal settings")
	}
	return m, nil
}
