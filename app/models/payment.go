package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMeta carries the mode-conditional details of how a payment was
// made. Which fields are required depends on the mode, so it is validated
// as a unit at the boundary before a request reaches the engine.
type PaymentMeta struct {
	Mode           PaymentMode `json:"mode" validate:"required"`
	ChequeNumber   string      `json:"cheque_number,omitempty"`
	BankName       string      `json:"bank_name,omitempty"`
	TransactionRef string      `json:"transaction_ref,omitempty"`
	PhoneNumber    string      `json:"phone_number,omitempty"`
	Notes          string      `json:"notes,omitempty"`
}

// Validate enforces the mode-specific required fields.
func (m PaymentMeta) Validate() error {
	if !m.Mode.Valid() {
		return fmt.Errorf("unknown payment mode %q", m.Mode)
	}
	switch m.Mode {
	case ModeCheque:
		if m.ChequeNumber == "" {
			return fmt.Errorf("cheque payments require a cheque number")
		}
		if m.BankName == "" {
			return fmt.Errorf("cheque payments require a bank name")
		}
	case ModeBankTransfer:
		if m.TransactionRef == "" {
			return fmt.Errorf("bank transfers require a transaction reference")
		}
	case ModeMobileMoney:
		if m.TransactionRef == "" {
			return fmt.Errorf("mobile money payments require a transaction reference")
		}
	}
	return nil
}

// PaymentRecord is the immutable audit record of one clerk submission.
// A single payment may be allocated across several ledger entries.
type PaymentRecord struct {
	ID              string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PayerID         string          `json:"payer_id" gorm:"not null;index" validate:"required"`
	EntryIDs        []string        `json:"entry_ids" gorm:"-"`
	AmountSubmitted decimal.Decimal `json:"amount_submitted" gorm:"not null;type:numeric(12,2)" validate:"required"`
	AmountAllocated decimal.Decimal `json:"amount_allocated" gorm:"not null;type:numeric(12,2)"`
	ExcessAmount    decimal.Decimal `json:"excess_amount" gorm:"not null;type:numeric(12,2);default:0"`
	PaymentDate     time.Time       `json:"payment_date" gorm:"not null;type:date"`
	Meta            PaymentMeta     `json:"meta" gorm:"embedded"`
	ReceiptNumber   string          `json:"receipt_number" gorm:"uniqueIndex;type:varchar(50)"`
	RecordedBy      string          `json:"recorded_by" gorm:"type:varchar(100)"`
	CreatedAt       time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

// PaymentAllocation records how much of a payment landed on one entry.
type PaymentAllocation struct {
	EntryID string          `json:"entry_id"`
	Amount  decimal.Decimal `json:"amount"`
}
