package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"prop-vault.backend/internal/domain/entities"
	domainerrors "prop-vault.backend/internal/domain/errors"
	"prop-vault.backend/internal/interfaces/http/middleware"
	"prop-vault.backend/internal/interfaces/http/response"
	"prop-vault.backend/internal/usecases"
	"prop-vault.backend/pkg/utils"
)

type walletService interface {
	GetOrCreateWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)
	GetSummary(ctx context.Context, userID uuid.UUID) (*entities.WalletSummary, error)
	ListEarnings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.ReferralEarning, int, error)
}

type withdrawalRequestService interface {
	RequestWithdrawal(ctx context.Context, userID uuid.UUID, input *entities.WithdrawalInput) (*entities.WithdrawalRequest, error)
	GetWithdrawal(ctx context.Context, id, ownerID uuid.UUID) (*entities.WithdrawalRequest, error)
	ListWithdrawals(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.WithdrawalRequest, int, error)
}

// WalletHandler handles the user-facing wallet endpoints
type WalletHandler struct {
	walletUsecase     walletService
	withdrawalUsecase withdrawalRequestService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletUsecase *usecases.WalletUsecase, withdrawalUsecase *usecases.WithdrawalUsecase) *WalletHandler {
	return &WalletHandler{
		walletUsecase:     walletUsecase,
		withdrawalUsecase: withdrawalUsecase,
	}
}

// GetWallet returns the current user's wallet
// GET /api/v1/wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	wallet, err := h.walletUsecase.GetOrCreateWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallet": wallet})
}

// GetSummary returns the wallet dashboard view
// GET /api/v1/wallet/summary
func (h *WalletHandler) GetSummary(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	summary, err := h.walletUsecase.GetSummary(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}

// ListEarnings lists the current user's referral earnings
// GET /api/v1/wallet/earnings
func (h *WalletHandler) ListEarnings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	params := bindPagination(c)
	earnings, total, err := h.walletUsecase.ListEarnings(c.Request.Context(), userID, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	if earnings == nil {
		earnings = []*entities.ReferralEarning{}
	}

	response.Success(c, http.StatusOK, gin.H{
		"earnings":   earnings,
		"pagination": utils.CalculateMeta(int64(total), params.Page, params.Limit),
	})
}

// RequestWithdrawal creates a withdrawal request
// POST /api/v1/wallet/withdrawals
func (h *WalletHandler) RequestWithdrawal(c *gin.Context) {
	var input entities.WithdrawalInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	withdrawal, err := h.withdrawalUsecase.RequestWithdrawal(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message":    "Withdrawal request submitted",
		"withdrawal": withdrawal,
	})
}

// GetWithdrawal returns one of the current user's withdrawal requests
// GET /api/v1/wallet/withdrawals/:id
func (h *WalletHandler) GetWithdrawal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid withdrawal ID"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	withdrawal, err := h.withdrawalUsecase.GetWithdrawal(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Withdrawal not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"withdrawal": withdrawal})
}

// ListWithdrawals lists the current user's withdrawal requests
// GET /api/v1/wallet/withdrawals
func (h *WalletHandler) ListWithdrawals(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	params := bindPagination(c)
	withdrawals, total, err := h.withdrawalUsecase.ListWithdrawals(c.Request.Context(), userID, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	if withdrawals == nil {
		withdrawals = []*entities.WithdrawalRequest{}
	}

	response.Success(c, http.StatusOK, gin.H{
		"withdrawals": withdrawals,
		"pagination":  utils.CalculateMeta(int64(total), params.Page, params.Limit),
	})
}

func bindPagination(c *gin.Context) utils.PaginationParams {
	var params utils.PaginationParams
	_ = c.ShouldBindQuery(&params)
	return utils.GetPaginationParams(params.Page, params.Limit)
}
