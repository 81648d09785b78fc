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
)

type referralService interface {
	CreditEarning(ctx context.Context, input *entities.CreditEarningInput) (*entities.ReferralEarning, error)
	ReleaseEarning(ctx context.Context, earningID uuid.UUID) (*entities.ReferralEarning, error)
	ReleaseEarningsByRegistration(ctx context.Context, registrationID uuid.UUID) (*entities.ReferralEarning, error)
}

// ReferralAdminHandler handles commission crediting and release. These are
// internal endpoints driven by the purchase and challenge-evaluation flows.
type ReferralAdminHandler struct {
	walletUsecase referralService
}

// NewReferralAdminHandler creates a new referral admin handler
func NewReferralAdminHandler(walletUsecase *usecases.WalletUsecase) *ReferralAdminHandler {
	return &ReferralAdminHandler{walletUsecase: walletUsecase}
}

// CreditEarning records a referred purchase and credits commission
// POST /api/v1/admin/referrals/credit
func (h *ReferralAdminHandler) CreditEarning(c *gin.Context) {
	var input entities.CreditEarningInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	earning, err := h.walletUsecase.CreditEarning(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	// A nil earning without error means the purchase earned nothing: unknown
	// referral code or the program is disabled for this affiliate.
	if earning == nil {
		response.Success(c, http.StatusOK, gin.H{
			"message": "No commission credited",
			"earning": nil,
		})
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "Commission credited",
		"earning": earning,
	})
}

// ReleaseEarning releases one locked earning
// POST /api/v1/admin/earnings/:id/release
func (h *ReferralAdminHandler) ReleaseEarning(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid earning ID"))
		return
	}

	earning, err := h.walletUsecase.ReleaseEarning(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Earning not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Earning released",
		"earning": earning,
	})
}

// ReleaseByRegistration releases the locked earning tied to a challenge
// registration, on challenge pass
// POST /api/v1/admin/registrations/:id/release
func (h *ReferralAdminHandler) ReleaseByRegistration(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid registration ID"))
		return
	}

	earning, err := h.walletUsecase.ReleaseEarningsByRegistration(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("No earning found for registration"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Earning released",
		"earning": earning,
	})
}
