package tx

import "context"

// Transactor runs fn in one database transaction. Repositories called with the
// ctx passed to fn take part in it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
