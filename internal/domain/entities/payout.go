package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutItem is one withdrawal instruction inside a gateway batch.
type PayoutItem struct {
	WithdrawalID uuid.UUID
	Address      string
	Currency     string
	Amount       decimal.Decimal
}

// PayoutBatchItem mirrors the gateway's per-item response.
type PayoutBatchItem struct {
	PayoutID string
	Address  string
	Currency string
	Amount   decimal.Decimal
	Status   string
}

// PayoutBatch is the gateway's response to a batch creation call.
type PayoutBatch struct {
	BatchID     string
	Status      string
	Withdrawals []PayoutBatchItem
}

// PayoutStatus is the gateway's view of a single payout.
type PayoutStatus struct {
	PayoutID string
	BatchID  string
	Status   string
	Address  string
	Currency string
	Amount   decimal.Decimal
	Hash     string
}

// Gateway payout statuses we react to. The gateway emits more granular
// states (creating, processing, sending); only the terminal ones move a
// withdrawal request.
const (
	PayoutStatusFinished = "finished"
	PayoutStatusFailed   = "failed"
	PayoutStatusRejected = "rejected"
)

// PayoutCallback is the IPN payload shape posted by the gateway on payout
// status changes. Signature verification happens before this is decoded.
type PayoutCallback struct {
	ID            string          `json:"id"`
	BatchID       string          `json:"batch_withdrawal_id"`
	Status        string          `json:"status"`
	Address       string          `json:"address"`
	Currency      string          `json:"currency"`
	Amount        decimal.Decimal `json:"amount"`
	Hash          string          `json:"hash,omitempty"`
	IPNCallbackURL string         `json:"ipn_callback_url,omitempty"`
}
