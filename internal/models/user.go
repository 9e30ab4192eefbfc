package models

import (
	"time"
)

// User: учётная запись с лицензией до ExpireAt.
type User struct {
	Name     string    `yaml:"name"`
	Password string    `yaml:"password"`
	ExpireAt time.Time `yaml:"expire_at"`
}

func (u User) Expired(now time.Time) bool {
	return now.After(u.ExpireAt)
}

// Credentials: сохранённый логин (saved_credentials.json).
type Credentials struct {
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`
	SaveLogin bool   `json:"save_login"`
}

func (c Credentials) Usable() bool {
	return c.SaveLogin && c.Username != "" && c.Password != ""
}

// Session: успешный вход.
type Session struct {
	Username string
	ExpireAt time.Time
	Auto     bool // вход по сохранённым кредам
}
