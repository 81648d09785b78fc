package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"prop-vault.backend/internal/domain/entities"
	domainerrors "prop-vault.backend/internal/domain/errors"
	"prop-vault.backend/internal/infrastructure/models"
)

// WalletRepository implements wallet data operations
type WalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetByID gets a wallet by ID
func (r *WalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	var m models.Wallet
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByUserID gets a wallet by owning user ID
func (r *WalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	var m models.Wallet
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetOrCreate inserts a zero-balance wallet or returns the existing one.
// The insert is an ON CONFLICT DO NOTHING on the user_id unique index, so
// concurrent first-access races converge on a single row.
func (r *WalletRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	db := GetDB(ctx, r.db)
	now := time.Now().UTC()
	m := &models.Wallet{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(m).Error; err != nil {
		return nil, err
	}
	// Re-fetch: on conflict the insert wrote nothing and another row owns
	// the user_id.
	return r.GetByUserID(ctx, userID)
}

// UpdateBalances applies a relative balance update in a single guarded
// UPDATE. The predicates keep every balance >= 0; a delta that would go
// negative affects zero rows and surfaces as ErrInsufficientBalance.
func (r *WalletRepository) UpdateBalances(ctx context.Context, walletID uuid.UUID, delta entities.BalanceDelta) error {
	if delta.IsZero() {
		return nil
	}

	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Where("available_balance + ? >= 0", delta.Available).
		Where("locked_balance + ? >= 0", delta.Locked).
		Where("total_withdrawn + ? >= 0", delta.Withdrawn).
		Updates(map[string]interface{}{
			"available_balance": gorm.Expr("available_balance + ?", delta.Available),
			"locked_balance":    gorm.Expr("locked_balance + ?", delta.Locked),
			"total_withdrawn":   gorm.Expr("total_withdrawn + ?", delta.Withdrawn),
			"updated_at":        time.Now().UTC(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing wallet from a guard rejection.
		var count int64
		if err := db.WithContext(ctx).Model(&models.Wallet{}).
			Where("id = ?", walletID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
		return domainerrors.ErrInsufficientBalance
	}
	return nil
}

func (r *WalletRepository) toEntity(m *models.Wallet) *entities.Wallet {
	return &entities.Wallet{
		ID:               m.ID,
		UserID:           m.UserID,
		AvailableBalance: m.AvailableBalance,
		LockedBalance:    m.LockedBalance,
		TotalWithdrawn:   m.TotalWithdrawn,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
