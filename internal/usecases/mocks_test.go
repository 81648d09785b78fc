package usecases_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"prop-vault.backend/internal/domain/entities"
	"prop-vault.backend/internal/domain/repositories"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	m.Called(ctx)
	return ctx
}

// Mock WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) UpdateBalances(ctx context.Context, walletID uuid.UUID, delta entities.BalanceDelta) error {
	args := m.Called(ctx, walletID, delta)
	return args.Error(0)
}

// Mock ReferralEarningRepository
type MockEarningRepository struct {
	mock.Mock
}

func (m *MockEarningRepository) Create(ctx context.Context, earning *entities.ReferralEarning) error {
	args := m.Called(ctx, earning)
	return args.Error(0)
}

func (m *MockEarningRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ReferralEarning, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ReferralEarning), args.Error(1)
}

func (m *MockEarningRepository) GetByWalletID(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.ReferralEarning, int, error) {
	args := m.Called(ctx, walletID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.ReferralEarning), args.Int(1), args.Error(2)
}

func (m *MockEarningRepository) GetByRegistrationID(ctx context.Context, registrationID uuid.UUID) (*entities.ReferralEarning, error) {
	args := m.Called(ctx, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ReferralEarning), args.Error(1)
}

func (m *MockEarningRepository) CountByReferrer(ctx context.Context, referrerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, referrerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEarningRepository) CountLockedByWallet(ctx context.Context, walletID uuid.UUID) (int64, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEarningRepository) MarkReleased(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// Mock WithdrawalRepository
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, withdrawal *entities.WithdrawalRequest) error {
	args := m.Called(ctx, withdrawal)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.WithdrawalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) GetByPayoutID(ctx context.Context, payoutID string) (*entities.WithdrawalRequest, error) {
	args := m.Called(ctx, payoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) GetByWalletID(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.WithdrawalRequest, int, error) {
	args := m.Called(ctx, walletID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.WithdrawalRequest), args.Int(1), args.Error(2)
}

func (m *MockWithdrawalRepository) ListByStatus(ctx context.Context, status entities.WithdrawalStatus, limit, offset int) ([]*entities.WithdrawalRequest, int, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.WithdrawalRequest), args.Int(1), args.Error(2)
}

func (m *MockWithdrawalRepository) ListApprovedWithPayout(ctx context.Context, limit int) ([]*entities.WithdrawalRequest, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from []entities.WithdrawalStatus, to entities.WithdrawalStatus, update repositories.WithdrawalStatusUpdate) (bool, error) {
	args := m.Called(ctx, id, from, to, update)
	return args.Bool(0), args.Error(1)
}

func (m *MockWithdrawalRepository) RecordPayoutBatch(ctx context.Context, id uuid.UUID, batchID, payoutID, externalStatus string) error {
	args := m.Called(ctx, id, batchID, payoutID, externalStatus)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) UpdateExternalStatus(ctx context.Context, id uuid.UUID, externalStatus string) error {
	args := m.Called(ctx, id, externalStatus)
	return args.Error(0)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByReferralCode(ctx context.Context, code string) (*entities.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

// Mock GlobalSettingsRepository
type MockGlobalSettingsRepository struct {
	mock.Mock
}

func (m *MockGlobalSettingsRepository) Get(ctx context.Context) (*entities.GlobalAffiliateSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GlobalAffiliateSettings), args.Error(1)
}

func (m *MockGlobalSettingsRepository) Update(ctx context.Context, settings *entities.GlobalAffiliateSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// Mock AffiliateSettingsRepository
type MockAffiliateSettingsRepository struct {
	mock.Mock
}

func (m *MockAffiliateSettingsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.AffiliateSettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AffiliateSettings), args.Error(1)
}

func (m *MockAffiliateSettingsRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*entities.AffiliateSettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AffiliateSettings), args.Error(1)
}

func (m *MockAffiliateSettingsRepository) Update(ctx context.Context, settings *entities.AffiliateSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// Mock PayoutGateway
type MockPayoutGateway struct {
	mock.Mock
}

func (m *MockPayoutGateway) ValidateAddress(ctx context.Context, address, currency string) (bool, error) {
	args := m.Called(ctx, address, currency)
	return args.Bool(0), args.Error(1)
}

func (m *MockPayoutGateway) CreatePayout(ctx context.Context, items []entities.PayoutItem, callbackURL, description string) (*entities.PayoutBatch, error) {
	args := m.Called(ctx, items, callbackURL, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PayoutBatch), args.Error(1)
}

func (m *MockPayoutGateway) VerifyPayout(ctx context.Context, batchID, code string) (bool, error) {
	args := m.Called(ctx, batchID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockPayoutGateway) GetPayoutStatus(ctx context.Context, payoutID string) (*entities.PayoutStatus, error) {
	args := m.Called(ctx, payoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PayoutStatus), args.Error(1)
}

func (m *MockPayoutGateway) ListPayouts(ctx context.Context) ([]*entities.PayoutStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PayoutStatus), args.Error(1)
}

func (m *MockPayoutGateway) VerifyIPNSignature(body []byte, signature string) bool {
	args := m.Called(body, signature)
	return args.Bool(0)
}

// Mock Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, recipient, subject, template string, data map[string]interface{}) error {
	args := m.Called(ctx, recipient, subject, template, data)
	return args.Error(0)
}
