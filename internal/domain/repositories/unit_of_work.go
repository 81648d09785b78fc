package repositories

import (
	"context"
)

// UnitOfWork defines the interface for atomic operations
type UnitOfWork interface {
	// Do executes the given function within a transaction scope. Any error
	// rolls the whole unit back; balance effects are never partially applied.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	// WithLock marks the context so reads within the transaction take
	// row-level locks (SELECT ... FOR UPDATE where the driver supports it).
	WithLock(ctx context.Context) context.Context
}
