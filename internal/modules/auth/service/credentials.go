package service

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"sync"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

const credentialsFile = "saved_credentials.json"

// CredentialStore: файл с сохранённым логином. Пароль лежит в base64,
// это не шифрование.
type CredentialStore struct {
	path string
	mu   sync.Mutex
}

func NewCredentialStore(cfg *config.Config) *CredentialStore {
	return NewCredentialStoreAt(filepath.Join(cfg.Storage.DataDir, credentialsFile))
}

func NewCredentialStoreAt(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

func (s *CredentialStore) Path() string { return s.path }

// Load возвращает пустые креды, если файла нет. Битый файл удаляется.
func (s *CredentialStore) Load() models.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Error("[AUTH] read %s: %v", s.path, err)
		}
		return models.Credentials{}
	}

	var c models.Credentials
	if err := sonic.Unmarshal(b, &c); err != nil {
		logger.Error("[AUTH] decode %s: %v, removing", s.path, err)
		_ = os.Remove(s.path)
		return models.Credentials{}
	}
	if c.Password != "" {
		raw, err := base64.StdEncoding.DecodeString(c.Password)
		if err != nil {
			logger.Error("[AUTH] decode saved password: %v", err)
			return models.Credentials{}
		}
		c.Password = string(raw)
	}
	return c
}

// Save пишет атомарно через tmp-файл. Пароль сохраняется только при SaveLogin.
func (s *CredentialStore) Save(c models.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := models.Credentials{Username: c.Username, SaveLogin: c.SaveLogin}
	if c.SaveLogin {
		out.Password = base64.StdEncoding.EncodeToString([]byte(c.Password))
	}

	b, err := sonic.Marshal(&out)
	if err != nil {
		return errors.Wrap(err, "marshal credentials")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "create credentials dir")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return errors.Wrap(err, "write credentials")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "rename credentials")
}

func (s *CredentialStore) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		logger.Error("[AUTH] remove %s: %v", s.path, err)
	}
}
