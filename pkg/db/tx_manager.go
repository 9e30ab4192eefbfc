package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
)

// TxManager выполняет fn в транзакции: ошибка fn откатывает её.
type TxManager interface {
	RunMaster(ctx context.Context, fn func(ctxTx context.Context, tx Transaction) error) error
}

// Transaction: то, что журналу нужно от pgx.Tx.
type Transaction interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}
