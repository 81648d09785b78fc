package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Wallet struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	AvailableBalance decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	LockedBalance    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TotalWithdrawn   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Wallet) TableName() string {
	return "wallets"
}
