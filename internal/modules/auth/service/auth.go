package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/pkg/logger"

	"github.com/pkg/errors"
)

const MaxAttempts = 3

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrLicenseExpired     = errors.New("license has expired")
	ErrTooManyAttempts    = errors.New("too many failed attempts")
)

// Prompter: то, что спрашивает логин у оператора (консоль или тест).
type Prompter interface {
	Ask(prompt string) (string, error)
	Confirm(prompt string) (bool, error)
	Warn(msg string)
}

// Authenticator проверяет логин по реестру пользователей из конфига.
type Authenticator struct {
	store *CredentialStore
	now   func() time.Time

	mu    sync.RWMutex
	users map[string]models.User
}

func NewAuthenticator(cfg *config.Config, store *CredentialStore) *Authenticator {
	return New(cfg.Users, store, time.Now)
}

func New(users []models.User, store *CredentialStore, now func() time.Time) *Authenticator {
	m := make(map[string]models.User, len(users))
	for _, u := range users {
		m[u.Name] = u
	}
	return &Authenticator{store: store, now: now, users: m}
}

// Login: сначала сохранённые креды, затем до MaxAttempts ручных попыток.
func (a *Authenticator) Login(ctx context.Context, p Prompter) (models.Session, error) {
	if creds := a.store.Load(); creds.Usable() {
		sess, err := a.verify(creds.Username, creds.Password)
		switch {
		case err == nil:
			sess.Auto = true
			return sess, nil
		case errors.Is(err, ErrLicenseExpired):
			return models.Session{}, err
		default:
			p.Warn("Saved credentials are invalid. Please login again.")
			a.store.Remove()
		}
	}

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return models.Session{}, err
		}

		username, err := p.Ask("Enter username: ")
		if err != nil {
			return models.Session{}, errors.Wrap(err, "read username")
		}
		password, err := p.Ask("Enter password: ")
		if err != nil {
			return models.Session{}, errors.Wrap(err, "read password")
		}

		sess, err := a.verify(username, password)
		if errors.Is(err, ErrLicenseExpired) {
			return models.Session{}, err
		}
		if err != nil {
			p.Warn(fmt.Sprintf("Invalid username or password. Attempt %d/%d", attempt, MaxAttempts))
			continue
		}

		save, err := p.Confirm("Save login credentials for next time? (y/n): ")
		if err == nil && save {
			if err := a.store.Save(models.Credentials{Username: username, Password: password, SaveLogin: true}); err != nil {
				logger.Error("[AUTH] save credentials: %v", err)
				p.Warn("Could not save credentials, but login successful.")
			}
		}
		return sess, nil
	}

	return models.Session{}, ErrTooManyAttempts
}

// Check: сессия жива, пока не истекла лицензия.
func (a *Authenticator) Check(s models.Session) error {
	if a.now().After(s.ExpireAt) {
		return ErrLicenseExpired
	}
	return nil
}

// ChangePassword меняет пароль в реестре и в сохранённых кредах, если они есть.
func (a *Authenticator) ChangePassword(username, oldPassword, newPassword string) error {
	a.mu.Lock()
	u, ok := a.users[username]
	if !ok || u.Password != oldPassword {
		a.mu.Unlock()
		return ErrInvalidCredentials
	}
	u.Password = newPassword
	a.users[username] = u
	a.mu.Unlock()

	creds := a.store.Load()
	if creds.Username == username && creds.SaveLogin {
		creds.Password = newPassword
		return a.store.Save(creds)
	}
	return nil
}

func (a *Authenticator) verify(username, password string) (models.Session, error) {
	a.mu.RLock()
	u, ok := a.users[username]
	a.mu.RUnlock()

	if !ok || u.Password != password {
		return models.Session{}, ErrInvalidCredentials
	}
	if u.Expired(a.now()) {
		return models.Session{}, ErrLicenseExpired
	}
	return models.Session{Username: u.Name, ExpireAt: u.ExpireAt}, nil
}
