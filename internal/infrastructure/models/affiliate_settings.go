package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GlobalAffiliateSettings struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	DefaultCommissionRate   decimal.Decimal `gorm:"type:numeric(6,4);not null;default:0.02"`
	MinimumWithdrawalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:100"`
	IsProgramEnabled        bool            `gorm:"not null;default:true"`
	UpdatedAt               time.Time
}

func (GlobalAffiliateSettings) TableName() string {
	return "global_affiliate_settings"
}

type AffiliateSettings struct {
	ID                   uuid.UUID        `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID               uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	CustomCommissionRate *decimal.Decimal `gorm:"type:numeric(6,4)"` // Nullable, overrides global default
	IsAffiliateEnabled   bool             `gorm:"not null;default:true"`
	Notes                *string          `gorm:"type:text"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (AffiliateSettings) TableName() string {
	return "affiliate_settings"
}
