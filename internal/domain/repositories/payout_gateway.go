package repositories

import (
	"context"

	"prop-vault.backend/internal/domain/entities"
)

// PayoutGateway is the external payout service contract. Calls carry the
// caller's context deadline on top of the client timeout and are never
// retried internally; the admin action that triggered a failed call retries
// it.
type PayoutGateway interface {
	// ValidateAddress checks a crypto destination with the gateway. It fails
	// closed: a transport error returns an error, never an unvalidated true.
	ValidateAddress(ctx context.Context, address, currency string) (bool, error)
	CreatePayout(ctx context.Context, items []entities.PayoutItem, callbackURL, description string) (*entities.PayoutBatch, error)
	// VerifyPayout submits the 2FA code authorizing a batch release.
	VerifyPayout(ctx context.Context, batchID, code string) (bool, error)
	GetPayoutStatus(ctx context.Context, payoutID string) (*entities.PayoutStatus, error)
	ListPayouts(ctx context.Context) ([]*entities.PayoutStatus, error)
	// VerifyIPNSignature authenticates an inbound callback body against the
	// signature header using the shared IPN secret.
	VerifyIPNSignature(body []byte, signature string) bool
}
