package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle passed through use cases into
// repositories. The concrete type is infra-defined (pgx.Tx for Postgres).
// Repositories must gracefully accept nil (non-transactional path).
type Tx interface{}

// NoTX marks the non-transactional call sites explicitly.
var NoTX Tx

// TransactionManager executes a function within a database transaction,
// handing the transaction to the callback via tx. Keeps use-case interfaces
// free of storage types while still letting repositories run
// SELECT ... FOR UPDATE and tx-bound writes.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
