package models

import "time"

// Relayed: запись об отправленном в Telegram сигнале.
type Relayed struct {
	Signal Signal
	ExecAt time.Time
	Lead   float64
	SentAt time.Time
}
