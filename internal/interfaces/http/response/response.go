package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "prop-vault.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response, mapping domain errors to HTTP statuses.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		appErr = fromDomainError(err)
	}

	c.JSON(appErr.Code, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

// ErrorWithStatus sends an error response with a specific status and message
func ErrorWithStatus(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"code":    status,
		"message": message,
	})
}

func fromDomainError(err error) *domainerrors.AppError {
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NotFound("resource not found")
	case errors.Is(err, domainerrors.ErrInsufficientBalance):
		return domainerrors.NewAppError(http.StatusUnprocessableEntity, "insufficient available balance", err)
	case errors.Is(err, domainerrors.ErrBelowMinimum):
		return domainerrors.NewAppError(http.StatusUnprocessableEntity, "amount is below the minimum withdrawal", err)
	case errors.Is(err, domainerrors.ErrInvalidDestination):
		return domainerrors.NewAppError(http.StatusBadRequest, "invalid payout destination", err)
	case errors.Is(err, domainerrors.ErrInvalidTransition):
		return domainerrors.Conflict("status transition not allowed", err)
	case errors.Is(err, domainerrors.ErrGatewayUnavailable):
		return domainerrors.BadGateway(err)
	case errors.Is(err, domainerrors.ErrInvalidInput), errors.Is(err, domainerrors.ErrBadRequest):
		return domainerrors.BadRequest("invalid input")
	case errors.Is(err, domainerrors.ErrUnauthorized):
		return domainerrors.Unauthorized("unauthorized")
	case errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.Forbidden("forbidden")
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		return domainerrors.Conflict("resource already exists", err)
	default:
		return domainerrors.InternalError(err)
	}
}
