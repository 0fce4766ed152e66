package ledger

import (
	"time"

	"alnoor-schools/app/models"
)

// Store is the durable state the engine reconciles against: rate
// version history, ledger entries, payment audit records and credit
// balances. The Postgres implementation lives in app/database; an
// in-memory implementation in this package backs the tests.
//
// Entry updates carry an optimistic version check: UpdateEntry must
// fail with ErrConcurrentModification when the row version no longer
// matches the one the entry was read at.
type Store interface {
	// Rate versions.
	InsertRateVersion(v *models.RateVersion) error
	CloseRateVersion(id string, effectiveTo time.Time) error
	CurrentRateVersion(subjectID string) (*models.RateVersion, error)
	RateVersionOn(subjectID string, on time.Time) (*models.RateVersion, error)
	RateHistory(subjectID string) ([]*models.RateVersion, error)

	// Ledger entries.
	InsertEntry(e *models.LedgerEntry) error
	UpdateEntry(e *models.LedgerEntry) error
	EntryByID(id string) (*models.LedgerEntry, error)
	EntriesByIDs(ids []string) ([]*models.LedgerEntry, error)
	EntriesForPayer(payerID string) ([]*models.LedgerEntry, error)
	EntriesForSubject(payerID, subjectID string) ([]*models.LedgerEntry, error)
	// OpenEntries returns the payer's entries with pending > 0,
	// ordered by due date ascending.
	OpenEntries(payerID string) ([]*models.LedgerEntry, error)

	// Payments.
	InsertPayment(p *models.PaymentRecord, allocations []models.PaymentAllocation) error
	PaymentsForPayer(payerID string) ([]*models.PaymentRecord, error)

	// Credits.
	InsertCredit(c *models.CreditBalance) error
	UpdateCredit(c *models.CreditBalance) error
	// OpenCredits returns the payer's credits with remaining > 0,
	// ordered oldest first.
	OpenCredits(payerID string) ([]*models.CreditBalance, error)
	CreditsForPayer(payerID string) ([]*models.CreditBalance, error)

	// Fee configuration.
	UpsertFeeConfig(c *models.FeeConfig) error
	FeeConfig(payerID, subjectID string) (*models.FeeConfig, error)
	ActiveFeeConfigs() ([]*models.FeeConfig, error)
}
