package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgTxManager: пул pgx, каждая запись журнала идёт своей транзакцией.
type PgTxManager struct {
	pool *pgxpool.Pool
}

// Connect открывает пул и проверяет соединение.
func Connect(ctx context.Context, dsn string) (*PgTxManager, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &PgTxManager{pool: pool}, nil
}

func (m *PgTxManager) Close() {
	m.pool.Close()
}

func (m *PgTxManager) RunMaster(ctx context.Context, fn func(ctxTx context.Context, tx Transaction) error) (err error) {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()

	if err = fn(ctx, tx); err != nil {
		return fmt.Errorf("run tx: %w", err)
	}
	return nil
}
