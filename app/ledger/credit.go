package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"alnoor-schools/app/models"
)

// PostCredit records unapplied excess payment as a credit balance held
// against the payer. Callers should follow up with ApplyCredit so the
// credit lands on open obligations straight away.
func (en *Engine) PostCredit(payerID string, amount decimal.Decimal, sourcePaymentID string) (*models.CreditBalance, error) {
	if payerID == "" {
		return nil, NewValidationError("payer_id", "is required")
	}
	if !amount.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than zero")
	}

	unlock := en.locks.Lock("payer:" + payerID)
	defer unlock()

	return en.postCreditLocked(payerID, amount, sourcePaymentID)
}

func (en *Engine) postCreditLocked(payerID string, amount decimal.Decimal, sourcePaymentID string) (*models.CreditBalance, error) {
	now := time.Now()
	credit := &models.CreditBalance{
		ID:              uuid.NewString(),
		PayerID:         payerID,
		Amount:          amount,
		Remaining:       amount,
		SourcePaymentID: sourcePaymentID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := en.store.InsertCredit(credit); err != nil {
		return nil, err
	}
	return credit, nil
}

// ApplyCredit greedily consumes the payer's open credit balances
// (oldest first) into their unpaid entries (oldest due first). It is
// idempotent: every application moves amount out of a credit's
// remaining balance and into an entry's credit_applied, both of which
// only ever move one way, so re-running after new periods are generated
// picks up where it left off and a back-to-back re-run is a no-op.
func (en *Engine) ApplyCredit(payerID string, asOf time.Time) ([]models.CreditApplication, error) {
	if payerID == "" {
		return nil, NewValidationError("payer_id", "is required")
	}

	unlock := en.locks.Lock("payer:" + payerID)
	defer unlock()

	return en.applyCreditLocked(payerID, asOf)
}

func (en *Engine) applyCreditLocked(payerID string, asOf time.Time) ([]models.CreditApplication, error) {
	credits, err := en.store.OpenCredits(payerID)
	if err != nil {
		return nil, err
	}
	if len(credits) == 0 {
		return nil, nil
	}

	open, err := en.store.OpenEntries(payerID)
	if err != nil {
		return nil, err
	}

	var applied []models.CreditApplication
	ci := 0
	for _, entry := range open {
		received := decimal.Zero
		demand := entry.Pending()
		for demand.IsPositive() && ci < len(credits) {
			credit := credits[ci]
			if credit.Exhausted() {
				ci++
				continue
			}
			share := decimal.Min(demand, credit.Remaining)
			entry.CreditApplied = entry.CreditApplied.Add(share)
			credit.Remaining = credit.Remaining.Sub(share)
			credit.UpdatedAt = time.Now()
			demand = demand.Sub(share)
			received = received.Add(share)

			if err := en.store.UpdateCredit(credit); err != nil {
				return applied, err
			}
			applied = append(applied, models.CreditApplication{
				EntryID:     entry.ID,
				PeriodYear:  entry.PeriodYear,
				PeriodMonth: entry.PeriodMonth,
				Amount:      share,
			})
		}
		if received.IsPositive() {
			reclassify(entry, asOf)
			entry.UpdatedAt = time.Now()
			if err := en.store.UpdateEntry(entry); err != nil {
				return applied, err
			}
		}
		if ci >= len(credits) {
			break
		}
	}
	return applied, nil
}

// remainingCredit sums the payer's unconsumed credit.
func (en *Engine) remainingCredit(payerID string) (decimal.Decimal, error) {
	credits, err := en.store.OpenCredits(payerID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, c := range credits {
		total = total.Add(c.Remaining)
	}
	return total, nil
}

// RemainingCredit reports how much unapplied credit a payer holds.
func (en *Engine) RemainingCredit(payerID string) (decimal.Decimal, error) {
	unlock := en.locks.Lock("payer:" + payerID)
	defer unlock()
	return en.remainingCredit(payerID)
}

// CreditHistory returns every credit balance ever posted for a payer,
// exhausted ones included, for audit display.
func (en *Engine) CreditHistory(payerID string) ([]*models.CreditBalance, error) {
	return en.store.CreditsForPayer(payerID)
}
