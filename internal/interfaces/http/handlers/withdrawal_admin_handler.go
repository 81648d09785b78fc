package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"prop-vault.backend/internal/domain/entities"
	domainerrors "prop-vault.backend/internal/domain/errors"
	"prop-vault.backend/internal/interfaces/http/response"
	"prop-vault.backend/internal/usecases"
	"prop-vault.backend/pkg/utils"
)

type withdrawalAdminService interface {
	ListByStatus(ctx context.Context, status entities.WithdrawalStatus, limit, offset int) ([]*entities.WithdrawalRequest, int, error)
	ApproveWithdrawal(ctx context.Context, id uuid.UUID, notes string) (*entities.WithdrawalRequest, error)
	ResolveWithdrawal(ctx context.Context, id uuid.UUID, input *entities.ResolveWithdrawalInput) (*entities.WithdrawalRequest, error)
	VerifyPayout(ctx context.Context, batchID, code string) (bool, error)
}

// WithdrawalAdminHandler handles the admin withdrawal queue
type WithdrawalAdminHandler struct {
	withdrawalUsecase withdrawalAdminService
}

// NewWithdrawalAdminHandler creates a new admin withdrawal handler
func NewWithdrawalAdminHandler(withdrawalUsecase *usecases.WithdrawalUsecase) *WithdrawalAdminHandler {
	return &WithdrawalAdminHandler{withdrawalUsecase: withdrawalUsecase}
}

type approveWithdrawalRequest struct {
	AdminNotes string `json:"adminNotes"`
}

type verifyPayoutRequest struct {
	VerificationCode string `json:"verificationCode" binding:"required"`
}

// ListWithdrawals lists withdrawal requests by status, oldest first
// GET /api/v1/admin/withdrawals?status=pending
func (h *WithdrawalAdminHandler) ListWithdrawals(c *gin.Context) {
	status := entities.WithdrawalStatus(c.DefaultQuery("status", string(entities.WithdrawalStatusPending)))
	switch status {
	case entities.WithdrawalStatusPending, entities.WithdrawalStatusApproved,
		entities.WithdrawalStatusRejected, entities.WithdrawalStatusCompleted:
	default:
		response.Error(c, domainerrors.BadRequest("Invalid status filter"))
		return
	}

	params := bindPagination(c)
	withdrawals, total, err := h.withdrawalUsecase.ListByStatus(c.Request.Context(), status, params.Limit, params.CalculateOffset())
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

// ApproveWithdrawal sends a pending crypto withdrawal to the payout gateway
// POST /api/v1/admin/withdrawals/:id/approve
func (h *WithdrawalAdminHandler) ApproveWithdrawal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid withdrawal ID"))
		return
	}

	var req approveWithdrawalRequest
	_ = c.ShouldBindJSON(&req)

	withdrawal, err := h.withdrawalUsecase.ApproveWithdrawal(c.Request.Context(), id, req.AdminNotes)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Withdrawal not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":    "Withdrawal approved, payout created",
		"withdrawal": withdrawal,
	})
}

// ResolveWithdrawal applies an admin decision to a withdrawal request
// POST /api/v1/admin/withdrawals/:id/resolve
func (h *WithdrawalAdminHandler) ResolveWithdrawal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid withdrawal ID"))
		return
	}

	var input entities.ResolveWithdrawalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	withdrawal, err := h.withdrawalUsecase.ResolveWithdrawal(c.Request.Context(), id, &input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Withdrawal not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":    "Withdrawal resolved",
		"withdrawal": withdrawal,
	})
}

// VerifyPayout submits the 2FA code releasing a payout batch
// POST /api/v1/admin/payouts/:batchId/verify
func (h *WithdrawalAdminHandler) VerifyPayout(c *gin.Context) {
	batchID := c.Param("batchId")
	if batchID == "" {
		response.Error(c, domainerrors.BadRequest("Invalid batch ID"))
		return
	}

	var req verifyPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	ok, err := h.withdrawalUsecase.VerifyPayout(c.Request.Context(), batchID, req.VerificationCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !ok {
		response.Error(c, domainerrors.BadRequest("Verification code rejected"))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Payout batch verified"})
}
