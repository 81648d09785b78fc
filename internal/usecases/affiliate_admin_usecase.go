package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"prop-vault.backend/internal/domain/entities"
	domainerrors "prop-vault.backend/internal/domain/errors"
	"prop-vault.backend/internal/domain/repositories"
	"prop-vault.backend/pkg/logger"
)

// AffiliateAdminUsecase manages the commission program configuration: the
// global settings singleton and per-user overrides. Edits take effect on the
// next commission computation; already-credited earnings are never revised.
type AffiliateAdminUsecase struct {
	globalRepo    repositories.GlobalSettingsRepository
	affiliateRepo repositories.AffiliateSettingsRepository
	userRepo      repositories.UserRepository
}

// NewAffiliateAdminUsecase creates a new affiliate admin usecase
func NewAffiliateAdminUsecase(
	globalRepo repositories.GlobalSettingsRepository,
	affiliateRepo repositories.AffiliateSettingsRepository,
	userRepo repositories.UserRepository,
) *AffiliateAdminUsecase {
	return &AffiliateAdminUsecase{
		globalRepo:    globalRepo,
		affiliateRepo: affiliateRepo,
		userRepo:      userRepo,
	}
}

// GetGlobalSettings returns the program configuration.
func (u *AffiliateAdminUsecase) GetGlobalSettings(ctx context.Context) (*entities.GlobalAffiliateSettings, error) {
	return u.globalRepo.Get(ctx)
}

// UpdateGlobalSettings applies a partial edit to the program configuration.
func (u *AffiliateAdminUsecase) UpdateGlobalSettings(ctx context.Context, input *entities.UpdateGlobalSettingsInput) (*entities.GlobalAffiliateSettings, error) {
	settings, err := u.globalRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if input.DefaultCommissionRate != nil {
		if err := validateRate(*input.DefaultCommissionRate); err != nil {
			return nil, err
		}
		settings.DefaultCommissionRate = *input.DefaultCommissionRate
	}
	if input.MinimumWithdrawalAmount != nil {
		if input.MinimumWithdrawalAmount.IsNegative() {
			return nil, domainerrors.ErrInvalidInput
		}
		settings.MinimumWithdrawalAmount = *input.MinimumWithdrawalAmount
	}
	if input.IsProgramEnabled != nil {
		settings.IsProgramEnabled = *input.IsProgramEnabled
	}

	if err := u.globalRepo.Update(ctx, settings); err != nil {
		return nil, err
	}

	logger.Info(ctx, "global affiliate settings updated",
		zap.String("default_rate", settings.DefaultCommissionRate.String()),
		zap.String("minimum_withdrawal", settings.MinimumWithdrawalAmount.StringFixed(2)),
		zap.Bool("program_enabled", settings.IsProgramEnabled),
	)
	return settings, nil
}

// GetAffiliateSettings returns a user's overrides, materializing the default
// row on first access. Unknown users are rejected.
func (u *AffiliateAdminUsecase) GetAffiliateSettings(ctx context.Context, userID uuid.UUID) (*entities.AffiliateSettings, error) {
	if _, err := u.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return u.affiliateRepo.GetOrCreate(ctx, userID)
}

// UpdateAffiliateSettings applies a partial edit to a user's overrides.
// Setting CustomCommissionRate explicitly to null in the payload is not
// distinguishable from omitting it here; clearing goes through ClearCustomRate.
func (u *AffiliateAdminUsecase) UpdateAffiliateSettings(ctx context.Context, userID uuid.UUID, input *entities.UpdateAffiliateSettingsInput) (*entities.AffiliateSettings, error) {
	if _, err := u.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	settings, err := u.affiliateRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.CustomCommissionRate != nil {
		if err := validateRate(*input.CustomCommissionRate); err != nil {
			return nil, err
		}
		settings.CustomCommissionRate = input.CustomCommissionRate
	}
	if input.IsAffiliateEnabled != nil {
		settings.IsAffiliateEnabled = *input.IsAffiliateEnabled
	}
	if input.Notes != nil {
		settings.Notes = null.StringFrom(*input.Notes)
	}

	if err := u.affiliateRepo.Update(ctx, settings); err != nil {
		return nil, err
	}

	logger.Info(ctx, "affiliate settings updated",
		zap.String("user_id", userID.String()),
		zap.Bool("affiliate_enabled", settings.IsAffiliateEnabled),
		zap.Bool("has_custom_rate", settings.CustomCommissionRate != nil),
	)
	return settings, nil
}

// ClearCustomRate drops a user's custom rate; they revert to the global
// default on the next commission computation.
func (u *AffiliateAdminUsecase) ClearCustomRate(ctx context.Context, userID uuid.UUID) (*entities.AffiliateSettings, error) {
	settings, err := u.affiliateRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings.CustomCommissionRate = nil
	if err := u.affiliateRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return domainerrors.ErrInvalidInput
	}
	return nil
}
