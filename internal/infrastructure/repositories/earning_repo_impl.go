package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"prop-vault.backend/internal/domain/entities"
	domainerrors "prop-vault.backend/internal/domain/errors"
	"prop-vault.backend/internal/infrastructure/models"
)

// ReferralEarningRepository implements referral earning data operations
type ReferralEarningRepository struct {
	db *gorm.DB
}

// NewReferralEarningRepository creates a new referral earning repository
func NewReferralEarningRepository(db *gorm.DB) *ReferralEarningRepository {
	return &ReferralEarningRepository{db: db}
}

// Create creates a new earning record
func (r *ReferralEarningRepository) Create(ctx context.Context, earning *entities.ReferralEarning) error {
	m := r.toModel(earning)
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	earning.ID = m.ID
	earning.CreatedAt = m.CreatedAt
	return nil
}

// GetByID gets an earning by ID
func (r *ReferralEarningRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ReferralEarning, error) {
	var m models.ReferralEarning
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByWalletID gets earnings for a wallet with pagination, newest first
func (r *ReferralEarningRepository) GetByWalletID(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.ReferralEarning, int, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.WithContext(ctx).Model(&models.ReferralEarning{}).
		Where("wallet_id = ?", walletID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var ms []models.ReferralEarning
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	earnings := make([]*entities.ReferralEarning, 0, len(ms))
	for i := range ms {
		earnings = append(earnings, r.toEntity(&ms[i]))
	}
	return earnings, int(total), nil
}

// GetByRegistrationID gets the earning credited for a challenge registration
func (r *ReferralEarningRepository) GetByRegistrationID(ctx context.Context, registrationID uuid.UUID) (*entities.ReferralEarning, error) {
	var m models.ReferralEarning
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("registration_id = ?", registrationID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// CountByReferrer counts all earnings credited to a referrer
func (r *ReferralEarningRepository) CountByReferrer(ctx context.Context, referrerID uuid.UUID) (int64, error) {
	var count int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.ReferralEarning{}).
		Where("referrer_id = ?", referrerID).
		Count(&count).Error
	return count, err
}

// CountLockedByWallet counts locked earnings for a wallet
func (r *ReferralEarningRepository) CountLockedByWallet(ctx context.Context, walletID uuid.UUID) (int64, error) {
	var count int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.ReferralEarning{}).
		Where("wallet_id = ? AND status = ?", walletID, entities.EarningStatusLocked).
		Count(&count).Error
	return count, err
}

// MarkReleased flips a locked earning to released. The status predicate
// makes repeated calls no-ops: only the first one affects a row.
func (r *ReferralEarningRepository) MarkReleased(ctx context.Context, id uuid.UUID) (bool, error) {
	db := GetDB(ctx, r.db)
	now := time.Now().UTC()
	result := db.WithContext(ctx).Model(&models.ReferralEarning{}).
		Where("id = ? AND status = ?", id, entities.EarningStatusLocked).
		Updates(map[string]interface{}{
			"status":           entities.EarningStatusReleased,
			"challenge_passed": true,
			"released_at":      now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ReferralEarningRepository) toModel(e *entities.ReferralEarning) *models.ReferralEarning {
	return &models.ReferralEarning{
		ID:              e.ID,
		WalletID:        e.WalletID,
		ReferrerID:      e.ReferrerID,
		ReferredUserID:  e.ReferredUserID,
		RegistrationID:  e.RegistrationID,
		PassType:        string(e.PassType),
		Amount:          e.Amount,
		Status:          string(e.Status),
		ChallengePassed: e.ChallengePassed,
		CreatedAt:       e.CreatedAt,
		ReleasedAt:      e.ReleasedAt,
	}
}

func (r *ReferralEarningRepository) toEntity(m *models.ReferralEarning) *entities.ReferralEarning {
	return &entities.ReferralEarning{
		ID:              m.ID,
		WalletID:        m.WalletID,
		ReferrerID:      m.ReferrerID,
		ReferredUserID:  m.ReferredUserID,
		RegistrationID:  m.RegistrationID,
		PassType:        entities.PassType(m.PassType),
		Amount:          m.Amount,
		Status:          entities.EarningStatus(m.Status),
		ChallengePassed: m.ChallengePassed,
		CreatedAt:       m.CreatedAt,
		ReleasedAt:      m.ReleasedAt,
	}
}
