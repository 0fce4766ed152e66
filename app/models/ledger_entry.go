package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one billable period's obligation for a payer, e.g.
// "March tuition for student X" or "March salary for teacher Y".
// The assigned amount is fixed from the rate version effective at the
// period start and is never altered by later rate hikes. Entries are
// never deleted; they are only settled by payments and credit.
type LedgerEntry struct {
	ID            string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PayerID       string          `json:"payer_id" gorm:"not null;index" validate:"required"`
	SubjectID     string          `json:"subject_id" gorm:"not null;index" validate:"required"`
	SubjectType   SubjectType     `json:"subject_type" gorm:"not null;type:varchar(20)" validate:"required"`
	PeriodStart   time.Time       `json:"period_start" gorm:"not null;type:date;index"`
	PeriodYear    int             `json:"period_year" gorm:"not null"`
	PeriodMonth   int             `json:"period_month"` // 0 for one-time charges
	Assigned      decimal.Decimal `json:"assigned_amount" gorm:"not null;type:numeric(12,2)"`
	Paid          decimal.Decimal `json:"paid_amount" gorm:"not null;type:numeric(12,2);default:0"`
	CreditApplied decimal.Decimal `json:"credit_applied_amount" gorm:"not null;type:numeric(12,2);default:0"`
	DueDate       time.Time       `json:"due_date" gorm:"not null;type:date"`
	Status        EntryStatus     `json:"status" gorm:"not null;type:varchar(20);index"`
	RateVersionID string          `json:"rate_version_id" gorm:"index"`
	Version       int             `json:"-" gorm:"not null;default:1"` // optimistic lock counter
	CreatedAt     time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// Pending returns assigned − paid − credit_applied. It is recomputed
// rather than stored on the struct so the invariant cannot drift.
func (e *LedgerEntry) Pending() decimal.Decimal {
	return e.Assigned.Sub(e.Paid).Sub(e.CreditApplied)
}

// Settled reports whether nothing remains payable on the entry.
func (e *LedgerEntry) Settled() bool {
	return e.Pending().IsZero()
}

// EntrySnapshot is the post-mutation view of an entry returned to
// callers for receipt rendering.
type EntrySnapshot struct {
	EntryID     string          `json:"entry_id"`
	SubjectID   string          `json:"subject_id"`
	PeriodYear  int             `json:"period_year"`
	PeriodMonth int             `json:"period_month"`
	Assigned    decimal.Decimal `json:"assigned_amount"`
	Paid        decimal.Decimal `json:"paid_amount"`
	Credit      decimal.Decimal `json:"credit_applied_amount"`
	Pending     decimal.Decimal `json:"pending_amount"`
	Status      EntryStatus     `json:"status"`
}

// Snapshot captures the entry's current amounts for caller display.
func (e *LedgerEntry) Snapshot() EntrySnapshot {
	return EntrySnapshot{
		EntryID:     e.ID,
		SubjectID:   e.SubjectID,
		PeriodYear:  e.PeriodYear,
		PeriodMonth: e.PeriodMonth,
		Assigned:    e.Assigned,
		Paid:        e.Paid,
		Credit:      e.CreditApplied,
		Pending:     e.Pending(),
		Status:      e.Status,
	}
}
