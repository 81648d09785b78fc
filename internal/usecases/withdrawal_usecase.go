package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"prop-vault.backend/internal/domain/entities"
	domainerrors "prop-vault.backend/internal/domain/errors"
	"prop-vault.backend/internal/domain/repositories"
	"prop-vault.backend/pkg/logger"
)

const notifyTimeout = 15 * time.Second

// WithdrawalUsecase governs the withdrawal request lifecycle:
// pending -> approved -> completed for gateway-routed payouts,
// pending -> completed for manual ones, pending -> rejected terminal.
// Status transitions are admin- or gateway-triggered only.
type WithdrawalUsecase struct {
	walletRepo     repositories.WalletRepository
	withdrawalRepo repositories.WithdrawalRepository
	userRepo       repositories.UserRepository
	globalRepo     repositories.GlobalSettingsRepository
	uow            repositories.UnitOfWork
	gateway        repositories.PayoutGateway
	notifier       repositories.Notifier
	adminEmail     string
	callbackURL    string
}

// NewWithdrawalUsecase creates a new withdrawal usecase
func NewWithdrawalUsecase(
	walletRepo repositories.WalletRepository,
	withdrawalRepo repositories.WithdrawalRepository,
	userRepo repositories.UserRepository,
	globalRepo repositories.GlobalSettingsRepository,
	uow repositories.UnitOfWork,
	gateway repositories.PayoutGateway,
	notifier repositories.Notifier,
	adminEmail string,
	callbackURL string,
) *WithdrawalUsecase {
	return &WithdrawalUsecase{
		walletRepo:     walletRepo,
		withdrawalRepo: withdrawalRepo,
		userRepo:       userRepo,
		globalRepo:     globalRepo,
		uow:            uow,
		gateway:        gateway,
		notifier:       notifier,
		adminEmail:     adminEmail,
		callbackURL:    callbackURL,
	}
}

// RequestWithdrawal validates and creates a withdrawal request. The
// available-balance debit and the pending insert commit together; validation
// failures leave the wallet untouched.
func (u *WithdrawalUsecase) RequestWithdrawal(ctx context.Context, userID uuid.UUID, input *entities.WithdrawalInput) (*entities.WithdrawalRequest, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerrors.ErrInvalidInput
	}
	if err := validateDestination(input); err != nil {
		return nil, err
	}

	global, err := u.globalRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if input.Amount.LessThan(global.MinimumWithdrawalAmount) {
		return nil, domainerrors.ErrBelowMinimum
	}

	// Crypto destinations are checked with the gateway before any mutation.
	// A gateway failure here fails the request; an unvalidated address never
	// reaches a pending payout.
	if input.PaymentMethod == entities.PaymentMethodCrypto {
		valid, err := u.gateway.ValidateAddress(ctx, input.CryptoDetails.WalletAddress, input.CryptoDetails.Currency)
		if err != nil {
			logger.Warn(ctx, "address validation unavailable", zap.Error(err))
			return nil, domainerrors.ErrInvalidDestination
		}
		if !valid {
			return nil, domainerrors.ErrInvalidDestination
		}
	}

	withdrawal := buildWithdrawal(input)

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		wallet, err := u.walletRepo.GetOrCreate(txCtx, userID)
		if err != nil {
			return err
		}
		if input.Amount.GreaterThan(wallet.AvailableBalance) {
			return domainerrors.ErrInsufficientBalance
		}
		withdrawal.WalletID = wallet.ID

		// The guarded delta also catches a concurrent debit that the
		// balance check above raced with.
		if err := u.walletRepo.UpdateBalances(txCtx, wallet.ID, entities.BalanceDelta{
			Available: input.Amount.Neg(),
		}); err != nil {
			return err
		}
		return u.withdrawalRepo.Create(txCtx, withdrawal)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "withdrawal requested",
		zap.String("withdrawal_id", withdrawal.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("amount", withdrawal.Amount.StringFixed(2)),
		zap.String("method", string(withdrawal.PaymentMethod)),
	)

	if user, uerr := u.userRepo.GetByID(ctx, userID); uerr == nil {
		data := map[string]interface{}{
			"name":           user.Name,
			"amount":         withdrawal.Amount.StringFixed(2),
			"payment_method": string(withdrawal.PaymentMethod),
			"created_at":     withdrawal.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		u.notifyAsync(user.Email, "Withdrawal Request Received", "withdrawal_request", data)
		if u.adminEmail != "" {
			adminData := map[string]interface{}{
				"user_name":      user.Name,
				"user_email":     user.Email,
				"amount":         withdrawal.Amount.StringFixed(2),
				"payment_method": string(withdrawal.PaymentMethod),
				"created_at":     withdrawal.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			u.notifyAsync(u.adminEmail, "New Withdrawal Request", "admin_withdrawal_request", adminData)
		}
	}

	return withdrawal, nil
}

// GetWithdrawal returns one request, scoped to the owning user unless the
// caller is an admin (ownerID == uuid.Nil skips the ownership check).
func (u *WithdrawalUsecase) GetWithdrawal(ctx context.Context, id, ownerID uuid.UUID) (*entities.WithdrawalRequest, error) {
	withdrawal, err := u.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownerID != uuid.Nil {
		wallet, err := u.walletRepo.GetByID(ctx, withdrawal.WalletID)
		if err != nil {
			return nil, err
		}
		if wallet.UserID != ownerID {
			return nil, domainerrors.ErrNotFound
		}
	}
	return withdrawal, nil
}

// ListWithdrawals returns a page of the user's withdrawal requests.
func (u *WithdrawalUsecase) ListWithdrawals(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.WithdrawalRequest, int, error) {
	wallet, err := u.walletRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return u.withdrawalRepo.GetByWalletID(ctx, wallet.ID, limit, offset)
}

// ListByStatus returns the admin queue for a status, oldest first.
func (u *WithdrawalUsecase) ListByStatus(ctx context.Context, status entities.WithdrawalStatus, limit, offset int) ([]*entities.WithdrawalRequest, int, error) {
	return u.withdrawalRepo.ListByStatus(ctx, status, limit, offset)
}

// ApproveWithdrawal moves a pending crypto withdrawal to approved by
// creating an external payout batch. No balance effect: the debit happened
// at creation. A gateway failure leaves the request pending for retry; batch
// identifiers are only recorded after the gateway call returned.
func (u *WithdrawalUsecase) ApproveWithdrawal(ctx context.Context, id uuid.UUID, notes string) (*entities.WithdrawalRequest, error) {
	withdrawal, err := u.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if withdrawal.Status != entities.WithdrawalStatusPending {
		return nil, domainerrors.ErrInvalidTransition
	}
	if withdrawal.PaymentMethod != entities.PaymentMethodCrypto {
		// Manual rails (bank, paypal) complete directly via Resolve.
		return nil, domainerrors.ErrInvalidInput
	}

	batch, err := u.gateway.CreatePayout(ctx, []entities.PayoutItem{{
		WithdrawalID: withdrawal.ID,
		Address:      withdrawal.CryptoWalletAddress.String,
		Currency:     withdrawal.CryptoCurrency.String,
		Amount:       withdrawal.Amount,
	}}, u.callbackURL, fmt.Sprintf("withdrawal %s", withdrawal.ID))
	if err != nil {
		return nil, domainerrors.ErrGatewayUnavailable
	}
	if len(batch.Withdrawals) == 0 {
		return nil, domainerrors.ErrGatewayUnavailable
	}
	item := batch.Withdrawals[0]

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		applied, err := u.withdrawalRepo.TransitionStatus(txCtx, id,
			[]entities.WithdrawalStatus{entities.WithdrawalStatusPending},
			entities.WithdrawalStatusApproved,
			repositories.WithdrawalStatusUpdate{AdminNotes: notes, ExternalStatus: item.Status},
		)
		if err != nil {
			return err
		}
		if !applied {
			return domainerrors.ErrInvalidTransition
		}
		return u.withdrawalRepo.RecordPayoutBatch(txCtx, id, batch.BatchID, item.PayoutID, item.Status)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "withdrawal approved",
		zap.String("withdrawal_id", id.String()),
		zap.String("batch_id", batch.BatchID),
		zap.String("payout_id", item.PayoutID),
	)
	return u.withdrawalRepo.GetByID(ctx, id)
}

// ResolveWithdrawal applies an admin decision. Balance effects are guarded
// by the status transition, so repeating a call with the same target status
// never double-applies: a completed request is credited to total_withdrawn
// exactly once, a rejected one refunded exactly once.
func (u *WithdrawalUsecase) ResolveWithdrawal(ctx context.Context, id uuid.UUID, input *entities.ResolveWithdrawalInput) (*entities.WithdrawalRequest, error) {
	withdrawal, err := u.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if withdrawal.Status == input.Status {
		// Repeated resolution to the current state is a no-op.
		return withdrawal, nil
	}

	update := repositories.WithdrawalStatusUpdate{
		AdminNotes:      input.AdminNotes,
		RejectionReason: input.RejectionReason,
	}

	switch input.Status {
	case entities.WithdrawalStatusCompleted:
		err = u.uow.Do(ctx, func(txCtx context.Context) error {
			applied, err := u.withdrawalRepo.TransitionStatus(txCtx, id,
				[]entities.WithdrawalStatus{entities.WithdrawalStatusPending, entities.WithdrawalStatusApproved},
				entities.WithdrawalStatusCompleted, update,
			)
			if err != nil {
				return err
			}
			if !applied {
				return domainerrors.ErrInvalidTransition
			}
			return u.walletRepo.UpdateBalances(txCtx, withdrawal.WalletID, entities.BalanceDelta{
				Withdrawn: withdrawal.Amount,
			})
		})

	case entities.WithdrawalStatusRejected:
		// Once a payout batch exists the funds are in flight externally;
		// refunding them internally would double-spend. Only pending
		// requests can be rejected.
		if withdrawal.Status == entities.WithdrawalStatusApproved {
			return nil, domainerrors.ErrInvalidTransition
		}
		err = u.uow.Do(ctx, func(txCtx context.Context) error {
			applied, err := u.withdrawalRepo.TransitionStatus(txCtx, id,
				[]entities.WithdrawalStatus{entities.WithdrawalStatusPending},
				entities.WithdrawalStatusRejected, update,
			)
			if err != nil {
				return err
			}
			if !applied {
				return domainerrors.ErrInvalidTransition
			}
			return u.walletRepo.UpdateBalances(txCtx, withdrawal.WalletID, entities.BalanceDelta{
				Available: withdrawal.Amount,
			})
		})

	case entities.WithdrawalStatusApproved:
		// Off-gateway bookkeeping only; the gateway path goes through
		// ApproveWithdrawal. No balance effect.
		err = u.uow.Do(ctx, func(txCtx context.Context) error {
			applied, err := u.withdrawalRepo.TransitionStatus(txCtx, id,
				[]entities.WithdrawalStatus{entities.WithdrawalStatusPending},
				entities.WithdrawalStatusApproved, update,
			)
			if err != nil {
				return err
			}
			if !applied {
				return domainerrors.ErrInvalidTransition
			}
			return nil
		})

	default:
		return nil, domainerrors.ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}

	resolved, err := u.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "withdrawal resolved",
		zap.String("withdrawal_id", id.String()),
		zap.String("status", string(resolved.Status)),
	)
	u.notifyStatusChange(ctx, resolved)
	return resolved, nil
}

// VerifyPayout forwards the 2FA code releasing a payout batch. Side
// operation only; it never changes withdrawal status.
func (u *WithdrawalUsecase) VerifyPayout(ctx context.Context, batchID, code string) (bool, error) {
	ok, err := u.gateway.VerifyPayout(ctx, batchID, code)
	if err != nil {
		return false, domainerrors.ErrGatewayUnavailable
	}
	return ok, nil
}

// ProcessPayoutCallback applies a gateway status notification to the
// matching withdrawal. Signature verification happens at the HTTP boundary
// before this is called. Safe under at-least-once delivery: the terminal
// transition is guarded, repeats only refresh the external status mirror.
func (u *WithdrawalUsecase) ProcessPayoutCallback(ctx context.Context, cb *entities.PayoutCallback) error {
	withdrawal, err := u.withdrawalRepo.GetByPayoutID(ctx, cb.ID)
	if err != nil {
		return err
	}
	return u.applyExternalStatus(ctx, withdrawal, cb.Status)
}

// SyncPayoutStatus polls the gateway for one approved withdrawal and applies
// the result. Used by the background polling job for gateways that miss
// callbacks.
func (u *WithdrawalUsecase) SyncPayoutStatus(ctx context.Context, withdrawal *entities.WithdrawalRequest) error {
	if !withdrawal.PayoutID.Valid {
		return nil
	}
	status, err := u.gateway.GetPayoutStatus(ctx, withdrawal.PayoutID.String)
	if err != nil {
		return domainerrors.ErrGatewayUnavailable
	}
	return u.applyExternalStatus(ctx, withdrawal, status.Status)
}

func (u *WithdrawalUsecase) applyExternalStatus(ctx context.Context, withdrawal *entities.WithdrawalRequest, external string) error {
	switch external {
	case entities.PayoutStatusFinished:
		err := u.uow.Do(ctx, func(txCtx context.Context) error {
			applied, err := u.withdrawalRepo.TransitionStatus(txCtx, withdrawal.ID,
				[]entities.WithdrawalStatus{entities.WithdrawalStatusPending, entities.WithdrawalStatusApproved},
				entities.WithdrawalStatusCompleted,
				repositories.WithdrawalStatusUpdate{ExternalStatus: external},
			)
			if err != nil {
				return err
			}
			if !applied {
				// Already completed; still mirror the external status.
				return u.withdrawalRepo.UpdateExternalStatus(txCtx, withdrawal.ID, external)
			}
			return u.walletRepo.UpdateBalances(txCtx, withdrawal.WalletID, entities.BalanceDelta{
				Withdrawn: withdrawal.Amount,
			})
		})
		if err != nil {
			return err
		}
		if resolved, gerr := u.withdrawalRepo.GetByID(ctx, withdrawal.ID); gerr == nil {
			u.notifyStatusChange(ctx, resolved)
		}
		return nil

	case entities.PayoutStatusFailed, entities.PayoutStatusRejected:
		// The batch exists but the gateway could not pay it out. The request
		// stays approved for manual handling; auto-refunding here would race
		// a gateway retry of the same batch.
		if err := u.withdrawalRepo.UpdateExternalStatus(ctx, withdrawal.ID, external); err != nil {
			return err
		}
		logger.Warn(ctx, "external payout failed, manual review required",
			zap.String("withdrawal_id", withdrawal.ID.String()),
			zap.String("external_status", external),
		)
		if u.adminEmail != "" {
			u.notifyAsync(u.adminEmail, "Payout Failed", "admin_payout_failed", map[string]interface{}{
				"withdrawal_id":   withdrawal.ID.String(),
				"amount":          withdrawal.Amount.StringFixed(2),
				"external_status": external,
			})
		}
		return nil

	default:
		// Intermediate gateway state; mirror it and wait.
		return u.withdrawalRepo.UpdateExternalStatus(ctx, withdrawal.ID, external)
	}
}

func (u *WithdrawalUsecase) notifyStatusChange(ctx context.Context, withdrawal *entities.WithdrawalRequest) {
	wallet, err := u.walletRepo.GetByID(ctx, withdrawal.WalletID)
	if err != nil {
		return
	}
	user, err := u.userRepo.GetByID(ctx, wallet.UserID)
	if err != nil {
		return
	}

	subject := "Withdrawal Completed"
	if withdrawal.Status == entities.WithdrawalStatusRejected {
		subject = "Withdrawal Rejected"
	}
	u.notifyAsync(user.Email, subject, "withdrawal_status", map[string]interface{}{
		"name":           user.Name,
		"amount":         withdrawal.Amount.StringFixed(2),
		"status":         string(withdrawal.Status),
		"payment_method": string(withdrawal.PaymentMethod),
		"admin_notes":    withdrawal.AdminNotes.String,
	})
}

// notifyAsync schedules a best-effort notification on a detached context.
// Failures are logged and dropped; they never affect the ledger operation
// that triggered them.
func (u *WithdrawalUsecase) notifyAsync(recipient, subject, template string, data map[string]interface{}) {
	if u.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := u.notifier.Notify(ctx, recipient, subject, template, data); err != nil {
			logger.Warn(ctx, "notification failed",
				zap.String("recipient", recipient),
				zap.String("template", template),
				zap.Error(err),
			)
		}
	}()
}

func buildWithdrawal(input *entities.WithdrawalInput) *entities.WithdrawalRequest {
	w := &entities.WithdrawalRequest{
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		Status:        entities.WithdrawalStatusPending,
	}

	switch input.PaymentMethod {
	case entities.PaymentMethodBankTransfer:
		w.BankName = null.StringFrom(input.BankDetails.BankName)
		w.AccountNumber = null.StringFrom(input.BankDetails.AccountNumber)
		w.AccountName = null.StringFrom(input.BankDetails.AccountName)
		if input.BankDetails.RoutingNumber != "" {
			w.RoutingNumber = null.StringFrom(input.BankDetails.RoutingNumber)
		}
		if input.BankDetails.SwiftCode != "" {
			w.SwiftCode = null.StringFrom(input.BankDetails.SwiftCode)
		}
	case entities.PaymentMethodCrypto:
		w.CryptoWalletAddress = null.StringFrom(input.CryptoDetails.WalletAddress)
		w.CryptoCurrency = null.StringFrom(input.CryptoDetails.Currency)
		if input.CryptoDetails.Network != "" {
			w.CryptoNetwork = null.StringFrom(input.CryptoDetails.Network)
		}
	case entities.PaymentMethodPayPal:
		w.PayPalEmail = null.StringFrom(input.PayPalDetails.Email)
	}
	return w
}

// validateDestination checks that exactly one destination group is set and
// that it matches the chosen payment method.
func validateDestination(input *entities.WithdrawalInput) error {
	groups := 0
	if input.BankDetails != nil {
		groups++
	}
	if input.CryptoDetails != nil {
		groups++
	}
	if input.PayPalDetails != nil {
		groups++
	}
	if groups != 1 {
		return domainerrors.ErrInvalidDestination
	}

	switch input.PaymentMethod {
	case entities.PaymentMethodBankTransfer:
		if input.BankDetails == nil ||
			input.BankDetails.BankName == "" ||
			input.BankDetails.AccountNumber == "" ||
			input.BankDetails.AccountName == "" {
			return domainerrors.ErrInvalidDestination
		}
	case entities.PaymentMethodCrypto:
		if input.CryptoDetails == nil ||
			input.CryptoDetails.WalletAddress == "" ||
			input.CryptoDetails.Currency == "" {
			return domainerrors.ErrInvalidDestination
		}
	case entities.PaymentMethodPayPal:
		if input.PayPalDetails == nil || input.PayPalDetails.Email == "" {
			return domainerrors.ErrInvalidDestination
		}
	default:
		return domainerrors.ErrInvalidInput
	}

	return nil
}
