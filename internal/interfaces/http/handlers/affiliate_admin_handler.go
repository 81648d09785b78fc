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

type affiliateAdminService interface {
	GetGlobalSettings(ctx context.Context) (*entities.GlobalAffiliateSettings, error)
	UpdateGlobalSettings(ctx context.Context, input *entities.UpdateGlobalSettingsInput) (*entities.GlobalAffiliateSettings, error)
	GetAffiliateSettings(ctx context.Context, userID uuid.UUID) (*entities.AffiliateSettings, error)
	UpdateAffiliateSettings(ctx context.Context, userID uuid.UUID, input *entities.UpdateAffiliateSettingsInput) (*entities.AffiliateSettings, error)
	ClearCustomRate(ctx context.Context, userID uuid.UUID) (*entities.AffiliateSettings, error)
}

// AffiliateAdminHandler handles commission program configuration
type AffiliateAdminHandler struct {
	affiliateUsecase affiliateAdminService
}

// NewAffiliateAdminHandler creates a new affiliate admin handler
func NewAffiliateAdminHandler(affiliateUsecase *usecases.AffiliateAdminUsecase) *AffiliateAdminHandler {
	return &AffiliateAdminHandler{affiliateUsecase: affiliateUsecase}
}

// GetGlobalSettings returns the program-wide configuration
// GET /api/v1/admin/affiliate/settings
func (h *AffiliateAdminHandler) GetGlobalSettings(c *gin.Context) {
	settings, err := h.affiliateUsecase.GetGlobalSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}

// UpdateGlobalSettings edits the program-wide configuration
// PUT /api/v1/admin/affiliate/settings
func (h *AffiliateAdminHandler) UpdateGlobalSettings(c *gin.Context) {
	var input entities.UpdateGlobalSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	settings, err := h.affiliateUsecase.UpdateGlobalSettings(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":  "Settings updated",
		"settings": settings,
	})
}

// GetAffiliateSettings returns a user's commission overrides
// GET /api/v1/admin/affiliate/users/:id/settings
func (h *AffiliateAdminHandler) GetAffiliateSettings(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	settings, err := h.affiliateUsecase.GetAffiliateSettings(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("User not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}

// UpdateAffiliateSettings edits a user's commission overrides
// PUT /api/v1/admin/affiliate/users/:id/settings
func (h *AffiliateAdminHandler) UpdateAffiliateSettings(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	var input entities.UpdateAffiliateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	settings, err := h.affiliateUsecase.UpdateAffiliateSettings(c.Request.Context(), userID, &input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("User not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":  "Settings updated",
		"settings": settings,
	})
}

// ClearCustomRate reverts a user to the default commission rate
// DELETE /api/v1/admin/affiliate/users/:id/custom-rate
func (h *AffiliateAdminHandler) ClearCustomRate(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	settings, err := h.affiliateUsecase.ClearCustomRate(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("User has no affiliate settings"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":  "Custom rate cleared",
		"settings": settings,
	})
}
