package repositories

import "context"

// Notifier is the best-effort email side channel. Callers invoke it after
// their transaction commits, on a detached context; a notifier failure must
// never roll back or block a ledger operation.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, template string, data map[string]interface{}) error
}
