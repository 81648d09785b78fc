package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"prop-vault.backend/internal/domain/entities"
	domainerrors "prop-vault.backend/internal/domain/errors"
	domainRepos "prop-vault.backend/internal/domain/repositories"
	"prop-vault.backend/internal/infrastructure/models"
)

// WithdrawalRepository implements withdrawal request data operations
type WithdrawalRepository struct {
	db *gorm.DB
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// Create creates a new withdrawal request
func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *entities.WithdrawalRequest) error {
	m := r.toModel(withdrawal)
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
	withdrawal.ID = m.ID
	withdrawal.CreatedAt = m.CreatedAt
	return nil
}

// GetByID gets a withdrawal request by ID
func (r *WithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.WithdrawalRequest, error) {
	var m models.WithdrawalRequest
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByPayoutID gets the withdrawal carrying a gateway payout id
func (r *WithdrawalRepository) GetByPayoutID(ctx context.Context, payoutID string) (*entities.WithdrawalRequest, error) {
	var m models.WithdrawalRequest
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("payout_id = ?", payoutID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByWalletID gets withdrawals for a wallet with pagination, newest first
func (r *WithdrawalRepository) GetByWalletID(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.WithdrawalRequest, int, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.WithContext(ctx).Model(&models.WithdrawalRequest{}).
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

	var ms []models.WithdrawalRequest
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return r.toEntities(ms), int(total), nil
}

// ListByStatus lists withdrawals in a status, oldest first (admin queue order)
func (r *WithdrawalRepository) ListByStatus(ctx context.Context, status entities.WithdrawalStatus, limit, offset int) ([]*entities.WithdrawalRequest, int, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.WithContext(ctx).Model(&models.WithdrawalRequest{}).
		Where("status = ?", status).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var ms []models.WithdrawalRequest
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return r.toEntities(ms), int(total), nil
}

// ListApprovedWithPayout lists approved gateway-routed withdrawals awaiting
// external confirmation, for the status polling job
func (r *WithdrawalRepository) ListApprovedWithPayout(ctx context.Context, limit int) ([]*entities.WithdrawalRequest, error) {
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx).
		Where("status = ? AND payout_id IS NOT NULL", entities.WithdrawalStatusApproved).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var ms []models.WithdrawalRequest
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toEntities(ms), nil
}

// TransitionStatus moves a request between statuses in one guarded UPDATE.
// Zero rows affected means the request was not in any of the from statuses;
// the caller treats that as an idempotent no-op or checks existence itself.
func (r *WithdrawalRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from []entities.WithdrawalStatus, to entities.WithdrawalStatus, update domainRepos.WithdrawalStatusUpdate) (bool, error) {
	db := GetDB(ctx, r.db)

	fields := map[string]interface{}{
		"status": to,
	}
	if update.AdminNotes != "" {
		fields["admin_notes"] = update.AdminNotes
	}
	if update.RejectionReason != "" {
		fields["rejection_reason"] = update.RejectionReason
	}
	if update.ExternalStatus != "" {
		fields["external_status"] = update.ExternalStatus
	}
	if to == entities.WithdrawalStatusCompleted || to == entities.WithdrawalStatusRejected {
		fields["processed_at"] = time.Now().UTC()
	}

	result := db.WithContext(ctx).Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RecordPayoutBatch stores the gateway identifiers returned by batch creation
func (r *WithdrawalRepository) RecordPayoutBatch(ctx context.Context, id uuid.UUID, batchID, payoutID, externalStatus string) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.WithdrawalRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"batch_withdrawal_id": batchID,
			"payout_id":           payoutID,
			"external_status":     externalStatus,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateExternalStatus mirrors the gateway's payout status
func (r *WithdrawalRepository) UpdateExternalStatus(ctx context.Context, id uuid.UUID, externalStatus string) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.WithdrawalRequest{}).
		Where("id = ?", id).
		Update("external_status", externalStatus)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *WithdrawalRepository) toEntities(ms []models.WithdrawalRequest) []*entities.WithdrawalRequest {
	out := make([]*entities.WithdrawalRequest, 0, len(ms))
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out
}

func (r *WithdrawalRepository) toModel(e *entities.WithdrawalRequest) *models.WithdrawalRequest {
	return &models.WithdrawalRequest{
		ID:                  e.ID,
		WalletID:            e.WalletID,
		Amount:              e.Amount,
		PaymentMethod:       string(e.PaymentMethod),
		BankName:            e.BankName.Ptr(),
		AccountNumber:       e.AccountNumber.Ptr(),
		AccountName:         e.AccountName.Ptr(),
		RoutingNumber:       e.RoutingNumber.Ptr(),
		SwiftCode:           e.SwiftCode.Ptr(),
		CryptoWalletAddress: e.CryptoWalletAddress.Ptr(),
		CryptoNetwork:       e.CryptoNetwork.Ptr(),
		CryptoCurrency:      e.CryptoCurrency.Ptr(),
		PaypalEmail:         e.PayPalEmail.Ptr(),
		Status:              string(e.Status),
		AdminNotes:          e.AdminNotes.Ptr(),
		RejectionReason:     e.RejectionReason.Ptr(),
		BatchWithdrawalID:   e.BatchWithdrawalID.Ptr(),
		PayoutID:            e.PayoutID.Ptr(),
		ExternalStatus:      e.ExternalStatus.Ptr(),
		CreatedAt:           e.CreatedAt,
		ProcessedAt:         e.ProcessedAt,
	}
}

func (r *WithdrawalRepository) toEntity(m *models.WithdrawalRequest) *entities.WithdrawalRequest {
	return &entities.WithdrawalRequest{
		ID:                  m.ID,
		WalletID:            m.WalletID,
		Amount:              m.Amount,
		PaymentMethod:       entities.PaymentMethod(m.PaymentMethod),
		BankName:            null.StringFromPtr(m.BankName),
		AccountNumber:       null.StringFromPtr(m.AccountNumber),
		AccountName:         null.StringFromPtr(m.AccountName),
		RoutingNumber:       null.StringFromPtr(m.RoutingNumber),
		SwiftCode:           null.StringFromPtr(m.SwiftCode),
		CryptoWalletAddress: null.StringFromPtr(m.CryptoWalletAddress),
		CryptoNetwork:       null.StringFromPtr(m.CryptoNetwork),
		CryptoCurrency:      null.StringFromPtr(m.CryptoCurrency),
		PayPalEmail:         null.StringFromPtr(m.PaypalEmail),
		Status:              entities.WithdrawalStatus(m.Status),
		AdminNotes:          null.StringFromPtr(m.AdminNotes),
		RejectionReason:     null.StringFromPtr(m.RejectionReason),
		BatchWithdrawalID:   null.StringFromPtr(m.BatchWithdrawalID),
		PayoutID:            null.StringFromPtr(m.PayoutID),
		ExternalStatus:      null.StringFromPtr(m.ExternalStatus),
		CreatedAt:           m.CreatedAt,
		ProcessedAt:         m.ProcessedAt,
	}
}
