package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"alnoor-schools/app/models"
)

// GeneratePeriods materializes the ledger entries a payer owes for a
// subject across [rangeStart, rangeEnd]. One entry is created per
// period boundary implied by the subject's billing cycle, with the
// assigned amount taken from the rate version effective at that
// period's start. Re-invoking for an already-materialized period is a
// no-op: existing entries keep their originally assigned amount even if
// a later hike's effective date falls inside their period.
//
// Per-trip subjects are caller-driven and rejected here; use
// RecordTripCharge instead.
func (en *Engine) GeneratePeriods(payerID, subjectID string, subjectType models.SubjectType, rangeStart, rangeEnd, asOf time.Time) ([]*models.LedgerEntry, error) {
	if payerID == "" {
		return nil, NewValidationError("payer_id", "is required")
	}
	if subjectID == "" {
		return nil, NewValidationError("subject_id", "is required")
	}
	if !subjectType.Valid() {
		return nil, NewValidationError("subject_type", "is not a recognised subject type")
	}
	rangeStart = models.DateOnly(rangeStart)
	rangeEnd = models.DateOnly(rangeEnd)
	if rangeEnd.Before(rangeStart) {
		return nil, NewValidationError("range", "end date is before start date")
	}

	unlock := en.locks.Lock("gen:" + payerID + ":" + subjectID)
	defer unlock()

	history, err := en.store.RateHistory(subjectID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, ErrNoActiveRate
	}
	cycle := history[len(history)-1].Cycle
	if cycle == models.CyclePerTrip {
		return nil, NewValidationError("cycle", "per-trip subjects are charged per trip, not generated")
	}

	cfg, err := en.store.FeeConfig(payerID, subjectID)
	if err != nil {
		return nil, err
	}

	existing, err := en.store.EntriesForSubject(payerID, subjectID)
	if err != nil {
		return nil, err
	}
	materialized := make(map[time.Time]bool, len(existing))
	for _, e := range existing {
		materialized[models.DateOnly(e.PeriodStart)] = true
	}

	anchor := models.DateOnly(history[0].EffectiveFrom)
	var created []*models.LedgerEntry
	for _, start := range periodStarts(cycle, anchor, rangeStart, rangeEnd) {
		if materialized[start] {
			continue
		}
		// Periods predating the subject's rate history are never owed.
		if start.Before(anchor) {
			continue
		}
		rate, err := en.store.RateVersionOn(subjectID, start)
		if err != nil {
			return nil, err
		}
		if rate == nil {
			return nil, ErrNoActiveRate
		}

		entry := en.buildEntry(payerID, subjectID, subjectType, cycle, start, rate, cfg, asOf)
		if err := en.store.InsertEntry(entry); err != nil {
			return nil, err
		}
		created = append(created, entry)
	}
	return created, nil
}

// RecordTripCharge materializes a single caller-driven charge for a
// per-trip subject, priced at the rate effective on the trip date.
// Unlike generated periods, repeated trips on the same day are distinct
// obligations.
func (en *Engine) RecordTripCharge(payerID, subjectID string, tripDate, asOf time.Time) (*models.LedgerEntry, error) {
	if payerID == "" {
		return nil, NewValidationError("payer_id", "is required")
	}
	if subjectID == "" {
		return nil, NewValidationError("subject_id", "is required")
	}

	unlock := en.locks.Lock("gen:" + payerID + ":" + subjectID)
	defer unlock()

	day := models.DateOnly(tripDate)
	rate, err := en.store.RateVersionOn(subjectID, day)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, ErrNoActiveRate
	}
	if rate.Cycle != models.CyclePerTrip {
		return nil, NewValidationError("cycle", "subject is not billed per trip")
	}

	cfg, err := en.store.FeeConfig(payerID, subjectID)
	if err != nil {
		return nil, err
	}

	entry := en.buildEntry(payerID, subjectID, rate.SubjectType, rate.Cycle, day, rate, cfg, asOf)
	entry.DueDate = day
	if err := en.store.InsertEntry(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// buildEntry assembles a new entry with the payer's discount or
// exemption applied and the due date clamped into the period.
func (en *Engine) buildEntry(payerID, subjectID string, subjectType models.SubjectType, cycle models.BillingCycle, start time.Time, rate *models.RateVersion, cfg *models.FeeConfig, asOf time.Time) *models.LedgerEntry {
	assigned := rate.Amount
	exempt := false
	dueDay := en.dueDay
	if cfg != nil {
		if cfg.Exempt {
			assigned = decimal.Zero
			exempt = true
		} else if cfg.Discount.IsPositive() {
			assigned = decimal.Max(decimal.Zero, assigned.Sub(cfg.Discount))
		}
		if cfg.DueDay > 0 {
			dueDay = cfg.DueDay
		}
	}

	periodMonth := int(start.Month())
	if cycle == models.CycleOneTime {
		periodMonth = 0
	}

	now := time.Now()
	entry := &models.LedgerEntry{
		ID:            uuid.NewString(),
		PayerID:       payerID,
		SubjectID:     subjectID,
		SubjectType:   subjectType,
		PeriodStart:   start,
		PeriodYear:    start.Year(),
		PeriodMonth:   periodMonth,
		Assigned:      assigned,
		Paid:          decimal.Zero,
		CreditApplied: decimal.Zero,
		DueDate:       dueDate(cycle, start, dueDay),
		RateVersionID: rate.ID,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if exempt {
		entry.Status = models.StatusExempt
	} else {
		entry.Status = Classify(entry, asOf)
	}
	return entry
}

// periodStarts lists the period boundaries of a cycle that fall inside
// [rangeStart, rangeEnd]. Month-based cycles align to calendar
// boundaries; week-based cycles step from the subject's first rate
// version so boundaries stay stable across invocations.
func periodStarts(cycle models.BillingCycle, anchor, rangeStart, rangeEnd time.Time) []time.Time {
	var starts []time.Time
	switch cycle {
	case models.CycleMonthly:
		s := time.Date(rangeStart.Year(), rangeStart.Month(), 1, 0, 0, 0, 0, time.UTC)
		for !s.After(rangeEnd) {
			if !s.Before(rangeStart) || sameMonth(s, rangeStart) {
				starts = append(starts, s)
			}
			s = s.AddDate(0, 1, 0)
		}
	case models.CycleQuarterly:
		q := (int(rangeStart.Month()) - 1) / 3
		s := time.Date(rangeStart.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC)
		for !s.After(rangeEnd) {
			starts = append(starts, s)
			s = s.AddDate(0, 3, 0)
		}
	case models.CycleYearly:
		s := time.Date(rangeStart.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		for !s.After(rangeEnd) {
			starts = append(starts, s)
			s = s.AddDate(1, 0, 0)
		}
	case models.CycleWeekly, models.CycleBiweekly:
		step := 7
		if cycle == models.CycleBiweekly {
			step = 14
		}
		s := anchor
		for s.Before(rangeStart) {
			s = s.AddDate(0, 0, step)
		}
		for !s.After(rangeEnd) {
			starts = append(starts, s)
			s = s.AddDate(0, 0, step)
		}
	case models.CycleOneTime:
		if !anchor.Before(rangeStart) && !anchor.After(rangeEnd) {
			starts = append(starts, anchor)
		}
	}
	return starts
}

// dueDate computes period start + due day, clamped to the period's last
// day when the due day overshoots it (e.g. due day 31 in February).
func dueDate(cycle models.BillingCycle, start time.Time, dueDay int) time.Time {
	end := periodEnd(cycle, start)
	due := start.AddDate(0, 0, dueDay-1)
	if due.After(end) {
		return end
	}
	return due
}

// periodEnd returns the last day of the period beginning at start.
func periodEnd(cycle models.BillingCycle, start time.Time) time.Time {
	switch cycle {
	case models.CycleQuarterly:
		return start.AddDate(0, 3, -1)
	case models.CycleYearly:
		return start.AddDate(1, 0, -1)
	case models.CycleWeekly:
		return start.AddDate(0, 0, 6)
	case models.CycleBiweekly:
		return start.AddDate(0, 0, 13)
	default:
		// Monthly and one-time charges live inside a calendar month.
		return start.AddDate(0, 1, -start.Day())
	}
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
