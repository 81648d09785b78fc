package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"prop-vault.backend/internal/domain/entities"
	domainerrors "prop-vault.backend/internal/domain/errors"
	"prop-vault.backend/internal/interfaces/http/response"
	"prop-vault.backend/internal/usecases"
	"prop-vault.backend/pkg/logger"
)

// IPNSignatureHeader carries the gateway's HMAC of the callback body.
const IPNSignatureHeader = "x-nowpayments-sig"

type ipnVerifier interface {
	VerifyIPNSignature(body []byte, signature string) bool
}

type payoutCallbackService interface {
	ProcessPayoutCallback(ctx context.Context, cb *entities.PayoutCallback) error
}

// PayoutCallbackHandler receives payout status notifications from the
// gateway. The endpoint is unauthenticated; the HMAC signature is the only
// trust anchor, so nothing is read or written before it verifies.
type PayoutCallbackHandler struct {
	verifier          ipnVerifier
	withdrawalUsecase payoutCallbackService
}

// NewPayoutCallbackHandler creates a new payout callback handler
func NewPayoutCallbackHandler(verifier ipnVerifier, withdrawalUsecase *usecases.WithdrawalUsecase) *PayoutCallbackHandler {
	return &PayoutCallbackHandler{
		verifier:          verifier,
		withdrawalUsecase: withdrawalUsecase,
	}
}

// HandleCallback processes a gateway IPN
// POST /api/v1/payouts/ipn-callback
func (h *PayoutCallbackHandler) HandleCallback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "unreadable body")
		return
	}

	signature := c.GetHeader(IPNSignatureHeader)
	if !h.verifier.VerifyIPNSignature(body, signature) {
		// No detail for the caller; the attempt is only logged.
		logger.Warn(c.Request.Context(), "rejected payout callback with bad signature",
			zap.String("client_ip", c.ClientIP()),
		)
		response.ErrorWithStatus(c, http.StatusForbidden, "invalid signature")
		return
	}

	var cb entities.PayoutCallback
	if err := json.Unmarshal(body, &cb); err != nil || cb.ID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "malformed payload")
		return
	}

	if err := h.withdrawalUsecase.ProcessPayoutCallback(c.Request.Context(), &cb); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "unknown payout")
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "OK"})
}
