package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"prop-vault.backend/internal/domain/entities"
	domainerrors "prop-vault.backend/internal/domain/errors"
	"prop-vault.backend/internal/infrastructure/models"
)

// Defaults seeded into the singleton settings row on first access.
var (
	defaultCommissionRate    = decimal.NewFromFloat(0.02)
	defaultMinimumWithdrawal = decimal.NewFromInt(100)
)

// GlobalSettingsRepository manages the singleton program configuration row
type GlobalSettingsRepository struct {
	db *gorm.DB
}

// NewGlobalSettingsRepository creates a new global settings repository
func NewGlobalSettingsRepository(db *gorm.DB) *GlobalSettingsRepository {
	return &GlobalSettingsRepository{db: db}
}

// Get returns the settings row, creating it with defaults on first use
func (r *GlobalSettingsRepository) Get(ctx context.Context) (*entities.GlobalAffiliateSettings, error) {
	db := GetDB(ctx, r.db)

	var m models.GlobalAffiliateSettings
	err := db.WithContext(ctx).Order("updated_at ASC").First(&m).Error
	if err == nil {
		return r.toEntity(&m), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m = models.GlobalAffiliateSettings{
		ID:                      uuid.New(),
		DefaultCommissionRate:   defaultCommissionRate,
		MinimumWithdrawalAmount: defaultMinimumWithdrawal,
		IsProgramEnabled:        true,
		UpdatedAt:               time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Update persists admin edits to the settings row
func (r *GlobalSettingsRepository) Update(ctx context.Context, settings *entities.GlobalAffiliateSettings) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.GlobalAffiliateSettings{}).
		Where("id = ?", settings.ID).
		Updates(map[string]interface{}{
			"default_commission_rate":   settings.DefaultCommissionRate,
			"minimum_withdrawal_amount": settings.MinimumWithdrawalAmount,
			"is_program_enabled":        settings.IsProgramEnabled,
			"updated_at":                time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *GlobalSettingsRepository) toEntity(m *models.GlobalAffiliateSettings) *entities.GlobalAffiliateSettings {
	return &entities.GlobalAffiliateSettings{
		ID:                      m.ID,
		DefaultCommissionRate:   m.DefaultCommissionRate,
		MinimumWithdrawalAmount: m.MinimumWithdrawalAmount,
		IsProgramEnabled:        m.IsProgramEnabled,
		UpdatedAt:               m.UpdatedAt,
	}
}

// AffiliateSettingsRepository manages per-user overrides
type AffiliateSettingsRepository struct {
	db *gorm.DB
}

// NewAffiliateSettingsRepository creates a new affiliate settings repository
func NewAffiliateSettingsRepository(db *gorm.DB) *AffiliateSettingsRepository {
	return &AffiliateSettingsRepository{db: db}
}

// GetByUserID gets a user's overrides, ErrNotFound when none exist
func (r *AffiliateSettingsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.AffiliateSettings, error) {
	var m models.AffiliateSettings
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetOrCreate returns the user's settings row, inserting defaults when
// absent. Insert-on-conflict keeps concurrent admin edits converging on one
// row, same discipline as wallet creation.
func (r *AffiliateSettingsRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*entities.AffiliateSettings, error) {
	db := GetDB(ctx, r.db)
	now := time.Now().UTC()
	m := &models.AffiliateSettings{
		ID:                 uuid.New(),
		UserID:             userID,
		IsAffiliateEnabled: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(m).Error; err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, userID)
}

// Update persists admin edits to a user's overrides
func (r *AffiliateSettingsRepository) Update(ctx context.Context, settings *entities.AffiliateSettings) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.AffiliateSettings{}).
		Where("id = ?", settings.ID).
		Updates(map[string]interface{}{
			"custom_commission_rate": settings.CustomCommissionRate,
			"is_affiliate_enabled":   settings.IsAffiliateEnabled,
			"notes":                  settings.Notes.Ptr(),
			"updated_at":             time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *AffiliateSettingsRepository) toEntity(m *models.AffiliateSettings) *entities.AffiliateSettings {
	return &entities.AffiliateSettings{
		ID:                   m.ID,
		UserID:               m.UserID,
		CustomCommissionRate: m.CustomCommissionRate,
		IsAffiliateEnabled:   m.IsAffiliateEnabled,
		Notes:                null.StringFromPtr(m.Notes),
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}
