package ledger

import (
	"time"

	"alnoor-schools/app/models"
)

// Classify maps an entry's amounts and due date to its lifecycle status
// as of a given date. The asOf date is always passed in explicitly so
// classification stays deterministic and testable; nothing in the
// engine reads the wall clock.
//
// Rules, in priority order:
//   - exempt entries stay exempt
//   - a period starting after asOf's month is future
//   - fully settled entries are paid, even when settled late
//   - partially settled entries are partially_paid
//   - anything untouched past its due date is overdue
//   - otherwise pending
func Classify(e *models.LedgerEntry, asOf time.Time) models.EntryStatus {
	if e.Status == models.StatusExempt && e.Assigned.IsZero() {
		return models.StatusExempt
	}

	if startsAfterMonth(e.PeriodStart, asOf) {
		return models.StatusFuture
	}

	pending := e.Pending()
	if pending.IsZero() && e.Assigned.IsPositive() {
		return models.StatusPaid
	}
	settled := e.Paid.Add(e.CreditApplied)
	if settled.IsPositive() && settled.LessThan(e.Assigned) {
		return models.StatusPartiallyPaid
	}
	if pending.IsPositive() && models.DateOnly(asOf).After(models.DateOnly(e.DueDate)) {
		return models.StatusOverdue
	}
	return models.StatusPending
}

// startsAfterMonth reports whether start falls in a calendar month
// strictly after asOf's month.
func startsAfterMonth(start, asOf time.Time) bool {
	if start.Year() != asOf.Year() {
		return start.Year() > asOf.Year()
	}
	return start.Month() > asOf.Month()
}

// reclassify refreshes an entry's stored status after a mutation.
func reclassify(e *models.LedgerEntry, asOf time.Time) {
	e.Status = Classify(e, asOf)
}
