package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// PassType tags the kind of challenge package a referred purchase bought.
type PassType string

const (
	PassTypeStandard   PassType = "standard_pass"
	PassTypeGuaranteed PassType = "guaranteed_pass"
)

// EarningStatus is the lifecycle state of a referral earning.
type EarningStatus string

const (
	EarningStatusAvailable EarningStatus = "available"
	EarningStatusLocked    EarningStatus = "locked"
	EarningStatusReleased  EarningStatus = "released"
	EarningStatusClaimed   EarningStatus = "claimed"
)

// PaymentMethod is the withdrawal destination type.
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCrypto       PaymentMethod = "crypto"
	PaymentMethodPayPal       PaymentMethod = "paypal"
)

// WithdrawalStatus is the lifecycle state of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusApproved  WithdrawalStatus = "approved"
	WithdrawalStatusRejected  WithdrawalStatus = "rejected"
	WithdrawalStatusCompleted WithdrawalStatus = "completed"
)

// Wallet holds a user's referral commission balances. One wallet per user,
// created lazily on first access. All three balances stay >= 0; only the
// wallet usecase mutates them.
type Wallet struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"userId"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	LockedBalance    decimal.Decimal `json:"lockedBalance"`
	TotalWithdrawn   decimal.Decimal `json:"totalWithdrawn"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// BalanceDelta is a relative balance update applied atomically to a wallet.
// Negative deltas are rejected by the store when they would take a balance
// below zero.
type BalanceDelta struct {
	Available decimal.Decimal
	Locked    decimal.Decimal
	Withdrawn decimal.Decimal
}

// IsZero reports whether the delta changes nothing.
func (d BalanceDelta) IsZero() bool {
	return d.Available.IsZero() && d.Locked.IsZero() && d.Withdrawn.IsZero()
}

// ReferralEarning is one unit of commission accrued from one referred
// purchase. standard_pass earnings are born available; guaranteed_pass
// earnings are born locked and released once the challenge outcome is
// confirmed passed.
type ReferralEarning struct {
	ID              uuid.UUID       `json:"id"`
	WalletID        uuid.UUID       `json:"walletId"`
	ReferrerID      uuid.UUID       `json:"referrerId"`
	ReferredUserID  uuid.UUID       `json:"referredUserId"`
	RegistrationID  *uuid.UUID      `json:"registrationId,omitempty"`
	PassType        PassType        `json:"passType"`
	Amount          decimal.Decimal `json:"amount"`
	Status          EarningStatus   `json:"status"`
	ChallengePassed bool            `json:"challengePassed"`
	CreatedAt       time.Time       `json:"createdAt"`
	ReleasedAt      *time.Time      `json:"releasedAt,omitempty"`
}

// BankDetails is the bank_transfer destination group.
type BankDetails struct {
	BankName      string `json:"bankName" binding:"required"`
	AccountNumber string `json:"accountNumber" binding:"required"`
	AccountName   string `json:"accountName" binding:"required"`
	RoutingNumber string `json:"routingNumber"`
	SwiftCode     string `json:"swiftCode"`
}

// CryptoDetails is the crypto destination group.
type CryptoDetails struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
	Network       string `json:"network"`
	Currency      string `json:"currency" binding:"required"`
}

// PayPalDetails is the paypal destination group.
type PayPalDetails struct {
	Email string `json:"email" binding:"required,email"`
}

// WithdrawalRequest is one payout attempt against a wallet's available
// balance. The debit happens atomically with creation; completed and
// rejected are terminal with exactly-once balance effects.
type WithdrawalRequest struct {
	ID            uuid.UUID       `json:"id"`
	WalletID      uuid.UUID       `json:"walletId"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`

	BankName      null.String `json:"bankName,omitempty"`
	AccountNumber null.String `json:"accountNumber,omitempty"`
	AccountName   null.String `json:"accountName,omitempty"`
	RoutingNumber null.String `json:"routingNumber,omitempty"`
	SwiftCode     null.String `json:"swiftCode,omitempty"`

	CryptoWalletAddress null.String `json:"cryptoWalletAddress,omitempty"`
	CryptoNetwork       null.String `json:"cryptoNetwork,omitempty"`
	CryptoCurrency      null.String `json:"cryptoCurrency,omitempty"`

	PayPalEmail null.String `json:"paypalEmail,omitempty"`

	Status          WithdrawalStatus `json:"status"`
	AdminNotes      null.String      `json:"adminNotes,omitempty"`
	RejectionReason null.String      `json:"rejectionReason,omitempty"`

	BatchWithdrawalID null.String `json:"batchWithdrawalId,omitempty"`
	PayoutID          null.String `json:"payoutId,omitempty"`
	ExternalStatus    null.String `json:"externalStatus,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
}

// IsTerminal reports whether the request can no longer change state.
func (w *WithdrawalRequest) IsTerminal() bool {
	return w.Status == WithdrawalStatusCompleted || w.Status == WithdrawalStatusRejected
}

// CreditEarningInput is the purchase event fed into the commission flow.
type CreditEarningInput struct {
	ReferredUserID uuid.UUID       `json:"referredUserId" binding:"required"`
	ReferrerCode   string          `json:"referrerCode" binding:"required"`
	PassType       PassType        `json:"passType" binding:"required"`
	PurchaseAmount decimal.Decimal `json:"purchaseAmount" binding:"required"`
	RegistrationID *uuid.UUID      `json:"registrationId,omitempty"`
}

// WithdrawalInput carries a user's withdrawal request. Exactly one
// destination group must be set, matching PaymentMethod.
type WithdrawalInput struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" binding:"required"`
	BankDetails   *BankDetails    `json:"bankDetails,omitempty"`
	CryptoDetails *CryptoDetails  `json:"cryptoDetails,omitempty"`
	PayPalDetails *PayPalDetails  `json:"paypalDetails,omitempty"`
}

// ResolveWithdrawalInput is the admin decision on a withdrawal request.
type ResolveWithdrawalInput struct {
	Status          WithdrawalStatus `json:"status" binding:"required"`
	AdminNotes      string           `json:"adminNotes"`
	RejectionReason string           `json:"rejectionReason"`
}

// WalletSummary is the dashboard view of a wallet.
type WalletSummary struct {
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	LockedBalance    decimal.Decimal `json:"lockedBalance"`
	TotalBalance     decimal.Decimal `json:"totalBalance"`
	TotalWithdrawn   decimal.Decimal `json:"totalWithdrawn"`
	TotalReferrals   int64           `json:"totalReferrals"`
	PendingEarnings  int64           `json:"pendingEarnings"`
}
