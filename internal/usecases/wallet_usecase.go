package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"prop-vault.backend/internal/domain/entities"
	domainerrors "prop-vault.backend/internal/domain/errors"
	"prop-vault.backend/internal/domain/repositories"
	"prop-vault.backend/pkg/logger"
)

// WalletUsecase owns wallet balance invariants. It is the sole mutator of
// balance fields; every balance-affecting operation runs inside a single
// unit of work.
type WalletUsecase struct {
	walletRepo    repositories.WalletRepository
	earningRepo   repositories.ReferralEarningRepository
	userRepo      repositories.UserRepository
	globalRepo    repositories.GlobalSettingsRepository
	affiliateRepo repositories.AffiliateSettingsRepository
	uow           repositories.UnitOfWork
}

// NewWalletUsecase creates a new wallet usecase
func NewWalletUsecase(
	walletRepo repositories.WalletRepository,
	earningRepo repositories.ReferralEarningRepository,
	userRepo repositories.UserRepository,
	globalRepo repositories.GlobalSettingsRepository,
	affiliateRepo repositories.AffiliateSettingsRepository,
	uow repositories.UnitOfWork,
) *WalletUsecase {
	return &WalletUsecase{
		walletRepo:    walletRepo,
		earningRepo:   earningRepo,
		userRepo:      userRepo,
		globalRepo:    globalRepo,
		affiliateRepo: affiliateRepo,
		uow:           uow,
	}
}

// GetOrCreateWallet returns the user's wallet, creating it on first access.
func (u *WalletUsecase) GetOrCreateWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	return u.walletRepo.GetOrCreate(ctx, userID)
}

// GetSummary returns the dashboard view of a user's wallet.
func (u *WalletUsecase) GetSummary(ctx context.Context, userID uuid.UUID) (*entities.WalletSummary, error) {
	wallet, err := u.walletRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalReferrals, err := u.earningRepo.CountByReferrer(ctx, userID)
	if err != nil {
		return nil, err
	}
	pendingEarnings, err := u.earningRepo.CountLockedByWallet(ctx, wallet.ID)
	if err != nil {
		return nil, err
	}

	return &entities.WalletSummary{
		AvailableBalance: wallet.AvailableBalance,
		LockedBalance:    wallet.LockedBalance,
		TotalBalance:     wallet.AvailableBalance.Add(wallet.LockedBalance),
		TotalWithdrawn:   wallet.TotalWithdrawn,
		TotalReferrals:   totalReferrals,
		PendingEarnings:  pendingEarnings,
	}, nil
}

// ListEarnings returns a page of the user's referral earnings.
func (u *WalletUsecase) ListEarnings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.ReferralEarning, int, error) {
	wallet, err := u.walletRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return u.earningRepo.GetByWalletID(ctx, wallet.ID, limit, offset)
}

// CreditEarning processes a referral-driven purchase. An ineligible purchase
// (unknown referrer code, program or affiliate disabled) is a no-op, not an
// error: the purchase flow must not fail because no commission applies.
func (u *WalletUsecase) CreditEarning(ctx context.Context, input *entities.CreditEarningInput) (*entities.ReferralEarning, error) {
	referrer, err := u.userRepo.GetByReferralCode(ctx, input.ReferrerCode)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	snap, err := u.loadSnapshot(ctx, referrer.ID)
	if err != nil {
		return nil, err
	}

	result, ok := ComputeCommission(snap, input.PurchaseAmount)
	if !ok {
		return nil, nil
	}

	status := entities.EarningStatusLocked
	delta := entities.BalanceDelta{Locked: result.Amount}
	if input.PassType == entities.PassTypeStandard {
		status = entities.EarningStatusAvailable
		delta = entities.BalanceDelta{Available: result.Amount}
	}

	earning := &entities.ReferralEarning{
		ReferrerID:      referrer.ID,
		ReferredUserID:  input.ReferredUserID,
		RegistrationID:  input.RegistrationID,
		PassType:        input.PassType,
		Amount:          result.Amount,
		Status:          status,
		ChallengePassed: input.PassType == entities.PassTypeStandard,
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		wallet, err := u.walletRepo.GetOrCreate(txCtx, referrer.ID)
		if err != nil {
			return err
		}
		earning.WalletID = wallet.ID

		if err := u.earningRepo.Create(txCtx, earning); err != nil {
			return err
		}
		return u.walletRepo.UpdateBalances(txCtx, wallet.ID, delta)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "referral earning credited",
		zap.String("earning_id", earning.ID.String()),
		zap.String("referrer_id", referrer.ID.String()),
		zap.String("pass_type", string(input.PassType)),
		zap.String("amount", result.Amount.StringFixed(2)),
	)
	return earning, nil
}

// ReleaseEarning unlocks a guaranteed-pass earning after the challenge
// outcome is confirmed passed. Idempotent: releasing anything not currently
// locked is a no-op.
func (u *WalletUsecase) ReleaseEarning(ctx context.Context, earningID uuid.UUID) (*entities.ReferralEarning, error) {
	var released *entities.ReferralEarning

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		lockCtx := u.uow.WithLock(txCtx)

		earning, err := u.earningRepo.GetByID(lockCtx, earningID)
		if err != nil {
			return err
		}
		if earning.Status != entities.EarningStatusLocked {
			// Already released or never locked; at-least-once callers land here.
			released = earning
			return nil
		}

		applied, err := u.earningRepo.MarkReleased(txCtx, earningID)
		if err != nil {
			return err
		}
		if !applied {
			released = earning
			return nil
		}

		if err := u.walletRepo.UpdateBalances(txCtx, earning.WalletID, entities.BalanceDelta{
			Available: earning.Amount,
			Locked:    earning.Amount.Neg(),
		}); err != nil {
			return err
		}

		now := time.Now().UTC()
		earning.Status = entities.EarningStatusReleased
		earning.ChallengePassed = true
		earning.ReleasedAt = &now
		released = earning
		return nil
	})
	if err != nil {
		return nil, err
	}
	return released, nil
}

// ReleaseEarningsByRegistration releases the earning credited for a
// challenge registration, when the registration is marked passed.
func (u *WalletUsecase) ReleaseEarningsByRegistration(ctx context.Context, registrationID uuid.UUID) (*entities.ReferralEarning, error) {
	earning, err := u.earningRepo.GetByRegistrationID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	return u.ReleaseEarning(ctx, earning.ID)
}

// loadSnapshot captures the current commission settings for one referrer.
// Read fresh on every operation so live admin changes apply immediately.
func (u *WalletUsecase) loadSnapshot(ctx context.Context, referrerID uuid.UUID) (entities.CommissionSnapshot, error) {
	global, err := u.globalRepo.Get(ctx)
	if err != nil {
		return entities.CommissionSnapshot{}, err
	}

	snap := entities.CommissionSnapshot{
		DefaultRate:       global.DefaultCommissionRate,
		MinimumWithdrawal: global.MinimumWithdrawalAmount,
		ProgramEnabled:    global.IsProgramEnabled,
		AffiliateEnabled:  true,
	}

	settings, err := u.affiliateRepo.GetByUserID(ctx, referrerID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return snap, nil
		}
		return entities.CommissionSnapshot{}, err
	}

	snap.CustomRate = settings.CustomCommissionRate
	snap.AffiliateEnabled = settings.IsAffiliateEnabled
	return snap, nil
}
