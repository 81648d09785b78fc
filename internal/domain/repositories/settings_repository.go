package repositories

import (
	"context"

	"github.com/google/uuid"
	"prop-vault.backend/internal/domain/entities"
)

// GlobalSettingsRepository manages the singleton program configuration row.
type GlobalSettingsRepository interface {
	// Get returns the settings row, creating it with defaults on first use.
	Get(ctx context.Context) (*entities.GlobalAffiliateSettings, error)
	Update(ctx context.Context, settings *entities.GlobalAffiliateSettings) error
}

// AffiliateSettingsRepository manages per-user overrides.
type AffiliateSettingsRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.AffiliateSettings, error)
	// GetOrCreate returns the user's settings row, inserting defaults when
	// absent.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*entities.AffiliateSettings, error)
	Update(ctx context.Context, settings *entities.AffiliateSettings) error
}
