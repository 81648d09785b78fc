package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/volatiletech/null/v8"
	"prop-vault.backend/internal/domain/entities"
	domainerrors "prop-vault.backend/internal/domain/errors"
	"prop-vault.backend/internal/domain/repositories"
	"prop-vault.backend/internal/usecases"
)

type withdrawalMocks struct {
	walletRepo     *MockWalletRepository
	withdrawalRepo *MockWithdrawalRepository
	userRepo       *MockUserRepository
	globalRepo     *MockGlobalSettingsRepository
	uow            *MockUnitOfWork
	gateway        *MockPayoutGateway
}

// Notifications are exercised in the notifier package tests; here the
// usecase runs without one.
func newWithdrawalUsecaseForTest() (*usecases.WithdrawalUsecase, withdrawalMocks) {
	m := withdrawalMocks{
		walletRepo:     new(MockWalletRepository),
		withdrawalRepo: new(MockWithdrawalRepository),
		userRepo:       new(MockUserRepository),
		globalRepo:     new(MockGlobalSettingsRepository),
		uow:            new(MockUnitOfWork),
		gateway:        new(MockPayoutGateway),
	}
	uc := usecases.NewWithdrawalUsecase(
		m.walletRepo, m.withdrawalRepo, m.userRepo, m.globalRepo, m.uow,
		m.gateway, nil, "", "https://api.example.com/ipn",
	)
	return uc, m
}

func bankInput(amount int64) *entities.WithdrawalInput {
	return &entities.WithdrawalInput{
		Amount:        decimal.NewFromInt(amount),
		PaymentMethod: entities.PaymentMethodBankTransfer,
		BankDetails: &entities.BankDetails{
			BankName:      "First Bank",
			AccountNumber: "12345678",
			AccountName:   "Jane Trader",
		},
	}
}

func cryptoInput(amount int64) *entities.WithdrawalInput {
	return &entities.WithdrawalInput{
		Amount:        decimal.NewFromInt(amount),
		PaymentMethod: entities.PaymentMethodCrypto,
		CryptoDetails: &entities.CryptoDetails{
			WalletAddress: "TXYZabc123",
			Currency:      "usdttrc20",
		},
	}
}

func TestRequestWithdrawal_DebitsAndCreatesPending(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	userID := uuid.New()
	wallet := &entities.Wallet{
		ID:               uuid.New(),
		UserID:           userID,
		AvailableBalance: decimal.NewFromInt(500),
	}

	m.globalRepo.On("Get", ctx).Return(globalSettings(), nil).Once()
	m.uow.On("Do", ctx, mock.Anything).Return(nil).Once()
	m.walletRepo.On("GetOrCreate", ctx, userID).Return(wallet, nil).Once()
	m.walletRepo.On("UpdateBalances", ctx, wallet.ID, mock.MatchedBy(func(d entities.BalanceDelta) bool {
		return d.Available.Equal(decimal.NewFromInt(-150))
	})).Return(nil).Once()
	m.withdrawalRepo.On("Create", ctx, mock.MatchedBy(func(w *entities.WithdrawalRequest) bool {
		return w.Status == entities.WithdrawalStatusPending &&
			w.WalletID == wallet.ID &&
			w.BankName.String == "First Bank"
	})).Return(nil).Once()
	m.userRepo.On("GetByID", ctx, userID).Return(nil, domainerrors.ErrNotFound).Once()

	withdrawal, err := uc.RequestWithdrawal(ctx, userID, bankInput(150))

	assert.NoError(t, err)
	assert.Equal(t, entities.WithdrawalStatusPending, withdrawal.Status)
	m.walletRepo.AssertExpectations(t)
	m.withdrawalRepo.AssertExpectations(t)
}

func TestRequestWithdrawal_BelowMinimum(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	m.globalRepo.On("Get", ctx).Return(globalSettings(), nil).Once()

	_, err := uc.RequestWithdrawal(ctx, uuid.New(), bankInput(99))

	assert.ErrorIs(t, err, domainerrors.ErrBelowMinimum)
	m.walletRepo.AssertNotCalled(t, "UpdateBalances", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestWithdrawal_ExactMinimumAccepted(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	userID := uuid.New()
	wallet := &entities.Wallet{ID: uuid.New(), UserID: userID, AvailableBalance: decimal.NewFromInt(100)}

	m.globalRepo.On("Get", ctx).Return(globalSettings(), nil).Once()
	m.uow.On("Do", ctx, mock.Anything).Return(nil).Once()
	m.walletRepo.On("GetOrCreate", ctx, userID).Return(wallet, nil).Once()
	m.walletRepo.On("UpdateBalances", ctx, wallet.ID, mock.Anything).Return(nil).Once()
	m.withdrawalRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	m.userRepo.On("GetByID", ctx, userID).Return(nil, domainerrors.ErrNotFound).Once()

	_, err := uc.RequestWithdrawal(ctx, userID, bankInput(100))
	assert.NoError(t, err)
}

func TestRequestWithdrawal_InsufficientBalance(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	userID := uuid.New()
	wallet := &entities.Wallet{ID: uuid.New(), UserID: userID, AvailableBalance: decimal.NewFromInt(120)}

	m.globalRepo.On("Get", ctx).Return(globalSettings(), nil).Once()
	m.uow.On("Do", ctx, mock.Anything).Return(nil).Once()
	m.walletRepo.On("GetOrCreate", ctx, userID).Return(wallet, nil).Once()

	_, err := uc.RequestWithdrawal(ctx, userID, bankInput(150))

	assert.ErrorIs(t, err, domainerrors.ErrInsufficientBalance)
	m.withdrawalRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRequestWithdrawal_DestinationMustMatchMethod(t *testing.T) {
	uc, _ := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	// Crypto method with bank details only.
	input := &entities.WithdrawalInput{
		Amount:        decimal.NewFromInt(150),
		PaymentMethod: entities.PaymentMethodCrypto,
		BankDetails: &entities.BankDetails{
			BankName:      "First Bank",
			AccountNumber: "12345678",
			AccountName:   "Jane Trader",
		},
	}

	_, err := uc.RequestWithdrawal(ctx, uuid.New(), input)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidDestination)
}

func TestRequestWithdrawal_MultipleDestinationGroupsRejected(t *testing.T) {
	uc, _ := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	input := bankInput(150)
	input.PayPalDetails = &entities.PayPalDetails{Email: "jane@mail.com"}

	_, err := uc.RequestWithdrawal(ctx, uuid.New(), input)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidDestination)
}

func TestRequestWithdrawal_CryptoAddressRejectedByGateway(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	m.globalRepo.On("Get", ctx).Return(globalSettings(), nil).Once()
	m.gateway.On("ValidateAddress", ctx, "TXYZabc123", "usdttrc20").Return(false, nil).Once()

	_, err := uc.RequestWithdrawal(ctx, uuid.New(), cryptoInput(150))

	assert.ErrorIs(t, err, domainerrors.ErrInvalidDestination)
	m.walletRepo.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
}

func TestRequestWithdrawal_AddressValidationFailsClosed(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	m.globalRepo.On("Get", ctx).Return(globalSettings(), nil).Once()
	m.gateway.On("ValidateAddress", ctx, "TXYZabc123", "usdttrc20").Return(false, errors.New("timeout")).Once()

	_, err := uc.RequestWithdrawal(ctx, uuid.New(), cryptoInput(150))

	assert.ErrorIs(t, err, domainerrors.ErrInvalidDestination)
}

func TestRequestWithdrawal_NonPositiveAmount(t *testing.T) {
	uc, _ := newWithdrawalUsecaseForTest()

	_, err := uc.RequestWithdrawal(context.Background(), uuid.New(), bankInput(0))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func pendingCryptoWithdrawal(amount int64) *entities.WithdrawalRequest {
	return &entities.WithdrawalRequest{
		ID:                  uuid.New(),
		WalletID:            uuid.New(),
		Amount:              decimal.NewFromInt(amount),
		PaymentMethod:       entities.PaymentMethodCrypto,
		Status:              entities.WithdrawalStatusPending,
		CryptoWalletAddress: null.StringFrom("TXYZabc123"),
		CryptoCurrency:      null.StringFrom("usdttrc20"),
	}
}

func TestApproveWithdrawal_CreatesPayoutBatch(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	w := pendingCryptoWithdrawal(150)
	batch := &entities.PayoutBatch{
		BatchID: "batch-1",
		Status:  "creating",
		Withdrawals: []entities.PayoutBatchItem{
			{PayoutID: "payout-1", Status: "creating"},
		},
	}
	approved := *w
	approved.Status = entities.WithdrawalStatusApproved

	m.withdrawalRepo.On("GetByID", ctx, w.ID).Return(w, nil).Once()
	m.gateway.On("CreatePayout", ctx, mock.MatchedBy(func(items []entities.PayoutItem) bool {
		return len(items) == 1 && items[0].Address == "TXYZabc123"
	}), "https://api.example.com/ipn", mock.Anything).Return(batch, nil).Once()
	m.uow.On("Do", ctx, mock.Anything).Return(nil).Once()
	m.withdrawalRepo.On("TransitionStatus", ctx, w.ID,
		[]entities.WithdrawalStatus{entities.WithdrawalStatusPending},
		entities.WithdrawalStatusApproved, mock.Anything).Return(true, nil).Once()
	m.withdrawalRepo.On("RecordPayoutBatch", ctx, w.ID, "batch-1", "payout-1", "creating").Return(nil).Once()
	m.withdrawalRepo.On("GetByID", ctx, w.ID).Return(&approved, nil).Once()

	result, err := uc.ApproveWithdrawal(ctx, w.ID, "looks good")

	assert.NoError(t, err)
	assert.Equal(t, entities.WithdrawalStatusApproved, result.Status)
	m.withdrawalRepo.AssertExpectations(t)
}

func TestApproveWithdrawal_GatewayFailureLeavesPending(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	w := pendingCryptoWithdrawal(150)

	m.withdrawalRepo.On("GetByID", ctx, w.ID).Return(w, nil).Once()
	m.gateway.On("CreatePayout", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("503")).Once()

	_, err := uc.ApproveWithdrawal(ctx, w.ID, "")

	assert.ErrorIs(t, err, domainerrors.ErrGatewayUnavailable)
	m.withdrawalRepo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveWithdrawal_OnlyPending(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	w := pendingCryptoWithdrawal(150)
	w.Status = entities.WithdrawalStatusCompleted

	m.withdrawalRepo.On("GetByID", ctx, w.ID).Return(w, nil).Once()

	_, err := uc.ApproveWithdrawal(ctx, w.ID, "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestApproveWithdrawal_ManualMethodRejected(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	w := pendingCryptoWithdrawal(150)
	w.PaymentMethod = entities.PaymentMethodBankTransfer

	m.withdrawalRepo.On("GetByID", ctx, w.ID).Return(w, nil).Once()

	_, err := uc.ApproveWithdrawal(ctx, w.ID, "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestResolveWithdrawal_CompleteAddsTotalWithdrawn(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	w := pendingCryptoWithdrawal(150)
	completed := *w
	completed.Status = entities.WithdrawalStatusCompleted

	m.withdrawalRepo.On("GetByID", ctx, w.ID).Return(w, nil).Once()
	m.uow.On("Do", ctx, mock.Anything).Return(nil).Once()
	m.withdrawalRepo.On("TransitionStatus", ctx, w.ID,
		[]entities.WithdrawalStatus{entities.WithdrawalStatusPending, entities.WithdrawalStatusApproved},
		entities.WithdrawalStatusCompleted, mock.Anything).Return(true, nil).Once()
	m.walletRepo.On("UpdateBalances", ctx, w.WalletID, mock.MatchedBy(func(d entities.BalanceDelta) bool {
		return d.Withdrawn.Equal(decimal.NewFromInt(150)) && d.Available.IsZero()
	})).Return(nil).Once()
	m.withdrawalRepo.On("GetByID", ctx, w.ID).Return(&completed, nil).Once()
	m.walletRepo.On("GetByID", ctx, w.WalletID).Return(nil, domainerrors.ErrNotFound).Maybe()

	result, err := uc.ResolveWithdrawal(ctx, w.ID, &entities.ResolveWithdrawalInput{
		Status: entities.WithdrawalStatusCompleted,
	})

	assert.NoError(t, err)
	assert.Equal(t, entities.WithdrawalStatusCompleted, result.Status)
	m.walletRepo.AssertExpectations(t)
}

func TestResolveWithdrawal_RejectPendingRefunds(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	w := pendingCryptoWithdrawal(150)
	rejected := *w
	rejected.Status = entities.WithdrawalStatusRejected

	m.withdrawalRepo.On("GetByID", ctx, w.ID).Return(w, nil).Once()
	m.uow.On("Do", ctx, mock.Anything).Return(nil).Once()
	m.withdrawalRepo.On("TransitionStatus", ctx, w.ID,
		[]entities.WithdrawalStatus{entities.WithdrawalStatusPending},
		entities.WithdrawalStatusRejected, mock.MatchedBy(func(u repositories.WithdrawalStatusUpdate) bool {
			return u.RejectionReason == "address mismatch"
		})).Return(true, nil).Once()
	m.walletRepo.On("UpdateBalances", ctx, w.WalletID, mock.MatchedBy(func(d entities.BalanceDelta) bool {
		return d.Available.Equal(decimal.NewFromInt(150)) && d.Withdrawn.IsZero()
	})).Return(nil).Once()
	m.withdrawalRepo.On("GetByID", ctx, w.ID).Return(&rejected, nil).Once()
	m.walletRepo.On("GetByID", ctx, w.WalletID).Return(nil, domainerrors.ErrNotFound).Maybe()

	result, err := uc.ResolveWithdrawal(ctx, w.ID, &entities.ResolveWithdrawalInput{
		Status:          entities.WithdrawalStatusRejected,
		RejectionReason: "address mismatch",
	})

	assert.NoError(t, err)
	assert.Equal(t, entities.WithdrawalStatusRejected, result.Status)
	m.walletRepo.AssertExpectations(t)
}

func TestResolveWithdrawal_RejectApprovedForbidden(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	w := pendingCryptoWithdrawal(150)
	w.Status = entities.WithdrawalStatusApproved
	w.PayoutID = null.StringFrom("payout-1")

	m.withdrawalRepo.On("GetByID", ctx, w.ID).Return(w, nil).Once()

	_, err := uc.ResolveWithdrawal(ctx, w.ID, &entities.ResolveWithdrawalInput{
		Status: entities.WithdrawalStatusRejected,
	})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
	m.walletRepo.AssertNotCalled(t, "UpdateBalances", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveWithdrawal_RepeatedResolutionIsNoop(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	w := pendingCryptoWithdrawal(150)
	w.Status = entities.WithdrawalStatusCompleted

	m.withdrawalRepo.On("GetByID", ctx, w.ID).Return(w, nil).Once()

	result, err := uc.ResolveWithdrawal(ctx, w.ID, &entities.ResolveWithdrawalInput{
		Status: entities.WithdrawalStatusCompleted,
	})

	assert.NoError(t, err)
	assert.Equal(t, entities.WithdrawalStatusCompleted, result.Status)
	m.walletRepo.AssertNotCalled(t, "UpdateBalances", mock.Anything, mock.Anything, mock.Anything)
	m.withdrawalRepo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessPayoutCallback_FinishedCompletes(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	w := pendingCryptoWithdrawal(150)
	w.Status = entities.WithdrawalStatusApproved
	w.PayoutID = null.StringFrom("payout-1")
	completed := *w
	completed.Status = entities.WithdrawalStatusCompleted

	m.withdrawalRepo.On("GetByPayoutID", ctx, "payout-1").Return(w, nil).Once()
	m.uow.On("Do", ctx, mock.Anything).Return(nil).Once()
	m.withdrawalRepo.On("TransitionStatus", ctx, w.ID,
		[]entities.WithdrawalStatus{entities.WithdrawalStatusPending, entities.WithdrawalStatusApproved},
		entities.WithdrawalStatusCompleted, mock.MatchedBy(func(u repositories.WithdrawalStatusUpdate) bool {
			return u.ExternalStatus == entities.PayoutStatusFinished
		})).Return(true, nil).Once()
	m.walletRepo.On("UpdateBalances", ctx, w.WalletID, mock.MatchedBy(func(d entities.BalanceDelta) bool {
		return d.Withdrawn.Equal(decimal.NewFromInt(150))
	})).Return(nil).Once()
	m.withdrawalRepo.On("GetByID", ctx, w.ID).Return(&completed, nil).Once()
	m.walletRepo.On("GetByID", ctx, w.WalletID).Return(nil, domainerrors.ErrNotFound).Maybe()

	err := uc.ProcessPayoutCallback(ctx, &entities.PayoutCallback{
		ID:     "payout-1",
		Status: entities.PayoutStatusFinished,
	})

	assert.NoError(t, err)
	m.walletRepo.AssertExpectations(t)
}

func TestProcessPayoutCallback_RepeatedFinishedOnlyMirrors(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	w := pendingCryptoWithdrawal(150)
	w.Status = entities.WithdrawalStatusCompleted
	w.PayoutID = null.StringFrom("payout-1")

	m.withdrawalRepo.On("GetByPayoutID", ctx, "payout-1").Return(w, nil).Once()
	m.uow.On("Do", ctx, mock.Anything).Return(nil).Once()
	m.withdrawalRepo.On("TransitionStatus", ctx, w.ID, mock.Anything,
		entities.WithdrawalStatusCompleted, mock.Anything).Return(false, nil).Once()
	m.withdrawalRepo.On("UpdateExternalStatus", ctx, w.ID, entities.PayoutStatusFinished).Return(nil).Once()
	m.withdrawalRepo.On("GetByID", ctx, w.ID).Return(w, nil).Once()
	m.walletRepo.On("GetByID", ctx, w.WalletID).Return(nil, domainerrors.ErrNotFound).Maybe()

	err := uc.ProcessPayoutCallback(ctx, &entities.PayoutCallback{
		ID:     "payout-1",
		Status: entities.PayoutStatusFinished,
	})

	assert.NoError(t, err)
	m.walletRepo.AssertNotCalled(t, "UpdateBalances", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessPayoutCallback_FailedKeepsApproved(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	w := pendingCryptoWithdrawal(150)
	w.Status = entities.WithdrawalStatusApproved
	w.PayoutID = null.StringFrom("payout-1")

	m.withdrawalRepo.On("GetByPayoutID", ctx, "payout-1").Return(w, nil).Once()
	m.withdrawalRepo.On("UpdateExternalStatus", ctx, w.ID, entities.PayoutStatusFailed).Return(nil).Once()

	err := uc.ProcessPayoutCallback(ctx, &entities.PayoutCallback{
		ID:     "payout-1",
		Status: entities.PayoutStatusFailed,
	})

	assert.NoError(t, err)
	m.walletRepo.AssertNotCalled(t, "UpdateBalances", mock.Anything, mock.Anything, mock.Anything)
	m.withdrawalRepo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessPayoutCallback_IntermediateStatusMirrored(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	w := pendingCryptoWithdrawal(150)
	w.Status = entities.WithdrawalStatusApproved
	w.PayoutID = null.StringFrom("payout-1")

	m.withdrawalRepo.On("GetByPayoutID", ctx, "payout-1").Return(w, nil).Once()
	m.withdrawalRepo.On("UpdateExternalStatus", ctx, w.ID, "sending").Return(nil).Once()

	err := uc.ProcessPayoutCallback(ctx, &entities.PayoutCallback{
		ID:     "payout-1",
		Status: "sending",
	})

	assert.NoError(t, err)
}

func TestProcessPayoutCallback_UnknownPayout(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	m.withdrawalRepo.On("GetByPayoutID", ctx, "ghost").Return(nil, domainerrors.ErrNotFound).Once()

	err := uc.ProcessPayoutCallback(ctx, &entities.PayoutCallback{ID: "ghost", Status: "finished"})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestSyncPayoutStatus_AppliesGatewayState(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	w := pendingCryptoWithdrawal(150)
	w.Status = entities.WithdrawalStatusApproved
	w.PayoutID = null.StringFrom("payout-1")
	completed := *w
	completed.Status = entities.WithdrawalStatusCompleted

	m.gateway.On("GetPayoutStatus", ctx, "payout-1").Return(&entities.PayoutStatus{
		PayoutID: "payout-1",
		Status:   entities.PayoutStatusFinished,
	}, nil).Once()
	m.uow.On("Do", ctx, mock.Anything).Return(nil).Once()
	m.withdrawalRepo.On("TransitionStatus", ctx, w.ID, mock.Anything,
		entities.WithdrawalStatusCompleted, mock.Anything).Return(true, nil).Once()
	m.walletRepo.On("UpdateBalances", ctx, w.WalletID, mock.Anything).Return(nil).Once()
	m.withdrawalRepo.On("GetByID", ctx, w.ID).Return(&completed, nil).Once()
	m.walletRepo.On("GetByID", ctx, w.WalletID).Return(nil, domainerrors.ErrNotFound).Maybe()

	err := uc.SyncPayoutStatus(ctx, w)
	assert.NoError(t, err)
}

func TestVerifyPayout_GatewayError(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	m.gateway.On("VerifyPayout", ctx, "batch-1", "123456").Return(false, errors.New("timeout")).Once()

	_, err := uc.VerifyPayout(ctx, "batch-1", "123456")
	assert.ErrorIs(t, err, domainerrors.ErrGatewayUnavailable)
}

func TestGetWithdrawal_ScopedToOwner(t *testing.T) {
	uc, m := newWithdrawalUsecaseForTest()
	ctx := context.Background()

	owner := uuid.New()
	w := pendingCryptoWithdrawal(150)
	wallet := &entities.Wallet{ID: w.WalletID, UserID: owner}

	m.withdrawalRepo.On("GetByID", ctx, w.ID).Return(w, nil).Twice()
	m.walletRepo.On("GetByID", ctx, w.WalletID).Return(wallet, nil).Twice()

	got, err := uc.GetWithdrawal(ctx, w.ID, owner)
	assert.NoError(t, err)
	assert.Equal(t, w.ID, got.ID)

	_, err = uc.GetWithdrawal(ctx, w.ID, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
