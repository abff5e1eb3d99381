package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

// TransactionManager provides a thin abstraction to execute a function within
// a database transaction, passing the underlying transaction handle via `tx`.
//
// The concrete type of `tx` is infra-defined (pgx.Tx for Postgres).
// Repositories MUST gracefully accept a nil tx (non-transactional path).
//
// Keep this interface small and stable.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
