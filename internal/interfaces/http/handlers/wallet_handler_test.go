package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"prop-vault.backend/internal/domain/entities"
	domainerrors "prop-vault.backend/internal/domain/errors"
	"prop-vault.backend/internal/interfaces/http/middleware"
)

type walletServiceStub struct {
	wallet   *entities.Wallet
	summary  *entities.WalletSummary
	earnings []*entities.ReferralEarning
	err      error
}

func (s *walletServiceStub) GetOrCreateWallet(context.Context, uuid.UUID) (*entities.Wallet, error) {
	return s.wallet, s.err
}

func (s *walletServiceStub) GetSummary(context.Context, uuid.UUID) (*entities.WalletSummary, error) {
	return s.summary, s.err
}

func (s *walletServiceStub) ListEarnings(context.Context, uuid.UUID, int, int) ([]*entities.ReferralEarning, int, error) {
	return s.earnings, len(s.earnings), s.err
}

type withdrawalServiceStub struct {
	withdrawal  *entities.WithdrawalRequest
	withdrawals []*entities.WithdrawalRequest
	err         error
	gotInput    *entities.WithdrawalInput
}

func (s *withdrawalServiceStub) RequestWithdrawal(_ context.Context, _ uuid.UUID, input *entities.WithdrawalInput) (*entities.WithdrawalRequest, error) {
	s.gotInput = input
	return s.withdrawal, s.err
}

func (s *withdrawalServiceStub) GetWithdrawal(context.Context, uuid.UUID, uuid.UUID) (*entities.WithdrawalRequest, error) {
	return s.withdrawal, s.err
}

func (s *withdrawalServiceStub) ListWithdrawals(context.Context, uuid.UUID, int, int) ([]*entities.WithdrawalRequest, int, error) {
	return s.withdrawals, len(s.withdrawals), s.err
}

func authAs(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func newWalletRouter(h *WalletHandler, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/wallet", authAs(userID))
	g.GET("", h.GetWallet)
	g.GET("/summary", h.GetSummary)
	g.GET("/earnings", h.ListEarnings)
	g.POST("/withdrawals", h.RequestWithdrawal)
	g.GET("/withdrawals", h.ListWithdrawals)
	g.GET("/withdrawals/:id", h.GetWithdrawal)
	return r
}

func TestWalletHandler_GetWallet(t *testing.T) {
	userID := uuid.New()
	h := &WalletHandler{
		walletUsecase: &walletServiceStub{wallet: &entities.Wallet{
			ID:               uuid.New(),
			UserID:           userID,
			AvailableBalance: decimal.NewFromInt(120),
		}},
		withdrawalUsecase: &withdrawalServiceStub{},
	}
	r := newWalletRouter(h, userID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wallet", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"availableBalance":"120"`)
}

func TestWalletHandler_GetWalletUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &WalletHandler{
		walletUsecase:     &walletServiceStub{},
		withdrawalUsecase: &withdrawalServiceStub{},
	}
	r := gin.New()
	r.GET("/wallet", h.GetWallet)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wallet", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWalletHandler_GetSummary(t *testing.T) {
	userID := uuid.New()
	h := &WalletHandler{
		walletUsecase: &walletServiceStub{summary: &entities.WalletSummary{
			AvailableBalance: decimal.NewFromInt(100),
			LockedBalance:    decimal.NewFromInt(50),
			TotalBalance:     decimal.NewFromInt(150),
			TotalReferrals:   3,
			PendingEarnings:  1,
		}},
		withdrawalUsecase: &withdrawalServiceStub{},
	}
	r := newWalletRouter(h, userID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wallet/summary", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"totalBalance":"150"`)
	require.Contains(t, w.Body.String(), `"totalReferrals":3`)
}

func TestWalletHandler_ListEarningsEmpty(t *testing.T) {
	userID := uuid.New()
	h := &WalletHandler{
		walletUsecase:     &walletServiceStub{},
		withdrawalUsecase: &withdrawalServiceStub{},
	}
	r := newWalletRouter(h, userID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wallet/earnings", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"earnings":[]`)
	require.Contains(t, w.Body.String(), `"pagination"`)
}

func TestWalletHandler_RequestWithdrawal(t *testing.T) {
	userID := uuid.New()
	stub := &withdrawalServiceStub{withdrawal: &entities.WithdrawalRequest{
		ID:     uuid.New(),
		Amount: decimal.NewFromInt(150),
		Status: entities.WithdrawalStatusPending,
	}}
	h := &WalletHandler{walletUsecase: &walletServiceStub{}, withdrawalUsecase: stub}
	r := newWalletRouter(h, userID)

	body, _ := json.Marshal(gin.H{
		"amount":        "150",
		"paymentMethod": "crypto",
		"cryptoDetails": gin.H{
			"walletAddress": "TXYZabc123",
			"currency":      "usdttrc20",
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/wallet/withdrawals", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, stub.gotInput)
	require.Equal(t, entities.PaymentMethodCrypto, stub.gotInput.PaymentMethod)
	require.True(t, stub.gotInput.Amount.Equal(decimal.NewFromInt(150)))
}

func TestWalletHandler_RequestWithdrawalValidation(t *testing.T) {
	userID := uuid.New()

	t.Run("missing payment method fails binding", func(t *testing.T) {
		stub := &withdrawalServiceStub{}
		h := &WalletHandler{walletUsecase: &walletServiceStub{}, withdrawalUsecase: stub}
		r := newWalletRouter(h, userID)

		req := httptest.NewRequest(http.MethodPost, "/wallet/withdrawals", bytes.NewBufferString(`{"amount":"150"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Nil(t, stub.gotInput)
	})

	t.Run("missing amount rejected downstream", func(t *testing.T) {
		// A zero decimal survives binding; the amount check lives in the
		// usecase.
		stub := &withdrawalServiceStub{err: domainerrors.ErrInvalidInput}
		h := &WalletHandler{walletUsecase: &walletServiceStub{}, withdrawalUsecase: stub}
		r := newWalletRouter(h, userID)

		req := httptest.NewRequest(http.MethodPost, "/wallet/withdrawals", bytes.NewBufferString(`{"paymentMethod":"crypto"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, stub.gotInput)
		require.True(t, stub.gotInput.Amount.IsZero())
	})
}

func TestWalletHandler_RequestWithdrawalErrorMapping(t *testing.T) {
	userID := uuid.New()

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"insufficient balance", domainerrors.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{"below minimum", domainerrors.ErrBelowMinimum, http.StatusUnprocessableEntity},
		{"invalid destination", domainerrors.ErrInvalidDestination, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &WalletHandler{
				walletUsecase:     &walletServiceStub{},
				withdrawalUsecase: &withdrawalServiceStub{err: tc.err},
			}
			r := newWalletRouter(h, userID)

			body, _ := json.Marshal(gin.H{
				"amount":        "150",
				"paymentMethod": "crypto",
				"cryptoDetails": gin.H{"walletAddress": "x", "currency": "usdttrc20"},
			})
			req := httptest.NewRequest(http.MethodPost, "/wallet/withdrawals", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tc.code, w.Code)
		})
	}
}

func TestWalletHandler_GetWithdrawal(t *testing.T) {
	userID := uuid.New()
	withdrawalID := uuid.New()
	h := &WalletHandler{
		walletUsecase: &walletServiceStub{},
		withdrawalUsecase: &withdrawalServiceStub{withdrawal: &entities.WithdrawalRequest{
			ID:     withdrawalID,
			Status: entities.WithdrawalStatusPending,
		}},
	}
	r := newWalletRouter(h, userID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wallet/withdrawals/"+withdrawalID.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wallet/withdrawals/not-a-uuid", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWalletHandler_GetWithdrawalNotFound(t *testing.T) {
	userID := uuid.New()
	h := &WalletHandler{
		walletUsecase:     &walletServiceStub{},
		withdrawalUsecase: &withdrawalServiceStub{err: domainerrors.ErrNotFound},
	}
	r := newWalletRouter(h, userID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wallet/withdrawals/"+uuid.NewString(), nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}
