package repositories

import (
	"context"

	"github.com/google/uuid"
	"prop-vault.backend/internal/domain/entities"
)

// WalletRepository defines wallet data operations. UpdateBalances must be a
// single relative UPDATE guarded against negative results; callers rely on
// the store for lost-update protection under concurrent requests.
type WalletRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)
	// GetOrCreate inserts a zero-balance wallet for the user, or returns the
	// existing one on a uniqueness conflict. Concurrent first-access calls
	// converge on the same row.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)
	UpdateBalances(ctx context.Context, walletID uuid.UUID, delta entities.BalanceDelta) error
}

// ReferralEarningRepository defines referral earning data operations.
type ReferralEarningRepository interface {
	Create(ctx context.Context, earning *entities.ReferralEarning) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ReferralEarning, error)
	GetByWalletID(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.ReferralEarning, int, error)
	GetByRegistrationID(ctx context.Context, registrationID uuid.UUID) (*entities.ReferralEarning, error)
	CountByReferrer(ctx context.Context, referrerID uuid.UUID) (int64, error)
	CountLockedByWallet(ctx context.Context, walletID uuid.UUID) (int64, error)
	// MarkReleased flips a locked earning to released and stamps the release
	// time. Returns false without error when the earning is not locked, so
	// repeated release calls are no-ops.
	MarkReleased(ctx context.Context, id uuid.UUID) (bool, error)
}

// WithdrawalStatusUpdate carries the optional fields written alongside a
// status transition.
type WithdrawalStatusUpdate struct {
	AdminNotes      string
	RejectionReason string
	ExternalStatus  string
}

// WithdrawalRepository defines withdrawal request data operations.
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *entities.WithdrawalRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.WithdrawalRequest, error)
	GetByPayoutID(ctx context.Context, payoutID string) (*entities.WithdrawalRequest, error)
	GetByWalletID(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.WithdrawalRequest, int, error)
	ListByStatus(ctx context.Context, status entities.WithdrawalStatus, limit, offset int) ([]*entities.WithdrawalRequest, int, error)
	// ListApprovedWithPayout returns approved gateway-routed requests that
	// have a payout id, for status polling.
	ListApprovedWithPayout(ctx context.Context, limit int) ([]*entities.WithdrawalRequest, error)
	// TransitionStatus moves a request from one of the given statuses to the
	// target status in a single guarded UPDATE. Returns false without error
	// when the current status is not in from; repeated calls targeting the
	// same terminal state are therefore no-ops.
	TransitionStatus(ctx context.Context, id uuid.UUID, from []entities.WithdrawalStatus, to entities.WithdrawalStatus, update WithdrawalStatusUpdate) (bool, error)
	// RecordPayoutBatch stores the gateway identifiers returned by batch
	// creation.
	RecordPayoutBatch(ctx context.Context, id uuid.UUID, batchID, payoutID, externalStatus string) error
	UpdateExternalStatus(ctx context.Context, id uuid.UUID, externalStatus string) error
}
