package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReferralEarning struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	WalletID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReferrerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReferredUserID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	RegistrationID  *uuid.UUID      `gorm:"type:uuid;index"` // Nullable
	PassType        string          `gorm:"type:varchar(50);not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status          string          `gorm:"type:varchar(50);not null;index"`
	ChallengePassed bool            `gorm:"not null;default:false"`
	CreatedAt       time.Time
	ReleasedAt      *time.Time

	Wallet Wallet `gorm:"foreignKey:WalletID"`
}

func (ReferralEarning) TableName() string {
	return "referral_earnings"
}
