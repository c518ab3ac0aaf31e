package domain

import "context"

// Transactor runs a function inside a single storage transaction. Repository
// calls made within the function share one atomic unit of work.
type Transactor interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}
