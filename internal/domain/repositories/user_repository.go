package repositories

import (
	"context"

	"github.com/google/uuid"
	"prop-vault.backend/internal/domain/entities"
)

// UserRepository defines read access to platform accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByReferralCode(ctx context.Context, code string) (*entities.User, error)
}
