package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WithdrawalRequest struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	WalletID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(50);not null"`

	// Bank transfer details
	BankName      *string `gorm:"type:varchar(255)"`
	AccountNumber *string `gorm:"type:varchar(255)"`
	AccountName   *string `gorm:"type:varchar(255)"`
	RoutingNumber *string `gorm:"type:varchar(255)"`
	SwiftCode     *string `gorm:"type:varchar(255)"`

	// Crypto details
	CryptoWalletAddress *string `gorm:"type:varchar(255)"`
	CryptoNetwork       *string `gorm:"type:varchar(100)"`
	CryptoCurrency      *string `gorm:"type:varchar(50)"`

	// PayPal details
	PaypalEmail *string `gorm:"type:varchar(255)"`

	Status          string  `gorm:"type:varchar(50);not null;index"`
	AdminNotes      *string `gorm:"type:text"`
	RejectionReason *string `gorm:"type:varchar(500)"`

	// Gateway payout mirror
	BatchWithdrawalID *string `gorm:"type:varchar(255);index"`
	PayoutID          *string `gorm:"type:varchar(255);index"`
	ExternalStatus    *string `gorm:"type:varchar(100)"`

	CreatedAt   time.Time
	ProcessedAt *time.Time

	Wallet Wallet `gorm:"foreignKey:WalletID"`
}

func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}
