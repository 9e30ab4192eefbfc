package service

import (
	"context"
	"fmt"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/journal/service/sql"
	"signal_bot/pkg/db"
)

// Pg пишет отправленные сигналы в таблицу relayed_signals.
type Pg struct {
	db  db.TxManager
	sql *sql.Queries
}

func NewPg(tm db.TxManager) *Pg {
	return &Pg{
		db:  tm,
		sql: sql.New(),
	}
}

// EnsureSchema создаёт таблицу, если её нет.
func (p *Pg) EnsureSchema(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Journal.EnsureSchema: %w", err)
		}
	}()
	return p.db.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		return p.sql.CreateTable(ctxTx, tx)
	})
}

func (p *Pg) Record(ctx context.Context, r models.Relayed) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Journal.Record: %w", err)
		}
	}()
	return p.db.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		return p.sql.Insert(ctxTx, tx, &sql.InsertParams{
			Pair:        r.Signal.Pair,
			ExecTime:    r.ExecAt,
			Action:      string(r.Signal.Action),
			LeadMinutes: r.Lead,
			SentAt:      r.SentAt,
		})
	})
}

// Nop используется, когда база не настроена.
type Nop struct{}

func (Nop) Record(context.Context, models.Relayed) error { return nil }
