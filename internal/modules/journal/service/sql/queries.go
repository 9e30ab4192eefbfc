package sql

import (
	"context"
	"time"

	"signal_bot/pkg/db"
)

const createRelayedSignals = `
CREATE TABLE IF NOT EXISTS relayed_signals (
    id           BIGSERIAL PRIMARY KEY,
    pair         TEXT        NOT NULL,
    exec_time    TIMESTAMPTZ NOT NULL,
    action       TEXT        NOT NULL,
    lead_minutes DOUBLE PRECISION NOT NULL,
    sent_at      TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertRelayedSignal = `
INSERT INTO relayed_signals (pair, exec_time, action, lead_minutes, sent_at)
VALUES ($1, $2, $3, $4, $5)`

type Queries struct{}

func New() *Queries {
	return &Queries{}
}

type InsertParams struct {
	Pair        string
	ExecTime    time.Time
	Action      string
	LeadMinutes float64
	SentAt      time.Time
}

func (q *Queries) CreateTable(ctx context.Context, tx db.Transaction) error {
	_, err := tx.Exec(ctx, createRelayedSignals)
	return err
}

func (q *Queries) Insert(ctx context.Context, tx db.Transaction, arg *InsertParams) error {
	_, err := tx.Exec(ctx, insertRelayedSignal,
		arg.Pair,
		arg.ExecTime,
		arg.Action,
		arg.LeadMinutes,
		arg.SentAt,
	)
	return err
}
