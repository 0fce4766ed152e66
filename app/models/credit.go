package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditBalance is unapplied excess payment held against a payer,
// created when a payment overshoots its target period. It is consumed
// against the payer's oldest future obligations and retained at zero
// for audit.
type CreditBalance struct {
	ID              string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PayerID         string          `json:"payer_id" gorm:"not null;index" validate:"required"`
	Amount          decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)"`
	Remaining       decimal.Decimal `json:"remaining_amount" gorm:"not null;type:numeric(12,2)"`
	SourcePaymentID string          `json:"created_from_payment_id" gorm:"not null;index"`
	CreatedAt       time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// Exhausted reports whether the credit has been fully consumed.
func (c *CreditBalance) Exhausted() bool {
	return !c.Remaining.IsPositive()
}

// CreditApplication reports one consumption of credit into an entry,
// surfaced to callers so salary advances show exactly where they went.
type CreditApplication struct {
	EntryID     string          `json:"entry_id"`
	PeriodYear  int             `json:"period_year"`
	PeriodMonth int             `json:"period_month"`
	Amount      decimal.Decimal `json:"amount_applied"`
}
