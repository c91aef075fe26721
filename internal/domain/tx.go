package domain

import "context"

// Transactor runs fn inside a single database transaction. The tx value handed to fn
// is passed on to the repositories' *Tx methods. If fn returns an error the transaction
// is rolled back and nothing is committed.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx interface{}) error) error
}
