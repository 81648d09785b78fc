package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// GlobalAffiliateSettings is the program-wide commission configuration
// (singleton row). Admin-editable at runtime; read fresh per operation.
type GlobalAffiliateSettings struct {
	ID                      uuid.UUID       `json:"id"`
	DefaultCommissionRate   decimal.Decimal `json:"defaultCommissionRate"`
	MinimumWithdrawalAmount decimal.Decimal `json:"minimumWithdrawalAmount"`
	IsProgramEnabled        bool            `json:"isProgramEnabled"`
	UpdatedAt               time.Time       `json:"updatedAt"`
}

// AffiliateSettings are per-user overrides. A missing row means defaults:
// enabled, global rate.
type AffiliateSettings struct {
	ID                   uuid.UUID        `json:"id"`
	UserID               uuid.UUID        `json:"userId"`
	CustomCommissionRate *decimal.Decimal `json:"customCommissionRate,omitempty"`
	IsAffiliateEnabled   bool             `json:"isAffiliateEnabled"`
	Notes                null.String      `json:"notes,omitempty"`
	CreatedAt            time.Time        `json:"createdAt"`
	UpdatedAt            time.Time        `json:"updatedAt"`
}

// CommissionSnapshot is the settings state captured once at the start of a
// commission computation. Policy code only ever sees this snapshot, never
// the live settings rows.
type CommissionSnapshot struct {
	DefaultRate       decimal.Decimal
	MinimumWithdrawal decimal.Decimal
	ProgramEnabled    bool
	CustomRate        *decimal.Decimal
	AffiliateEnabled  bool
}

// Rate returns the effective commission rate for the snapshot.
func (s CommissionSnapshot) Rate() decimal.Decimal {
	if s.CustomRate != nil {
		return *s.CustomRate
	}
	return s.DefaultRate
}

// Eligible reports whether a purchase under this snapshot earns commission.
// Global and per-affiliate disablement are independent short-circuit checks.
func (s CommissionSnapshot) Eligible() bool {
	if !s.ProgramEnabled {
		return false
	}
	return s.AffiliateEnabled
}

// UpdateGlobalSettingsInput is the admin edit of the global settings row.
type UpdateGlobalSettingsInput struct {
	DefaultCommissionRate   *decimal.Decimal `json:"defaultCommissionRate,omitempty"`
	MinimumWithdrawalAmount *decimal.Decimal `json:"minimumWithdrawalAmount,omitempty"`
	IsProgramEnabled        *bool            `json:"isProgramEnabled,omitempty"`
}

// UpdateAffiliateSettingsInput is the admin edit of a user's overrides.
// A nil CustomCommissionRate resets the user to the global default.
type UpdateAffiliateSettingsInput struct {
	CustomCommissionRate *decimal.Decimal `json:"customCommissionRate,omitempty"`
	IsAffiliateEnabled   *bool            `json:"isAffiliateEnabled,omitempty"`
	Notes                *string          `json:"notes,omitempty"`
}
