package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"alnoor-schools/app/models"
)

// CreateRate opens the first rate version for a new billable subject.
// Subjects with an existing history must be changed through Hike so the
// timeline stays contiguous.
func (en *Engine) CreateRate(subjectID string, subjectType models.SubjectType, amount decimal.Decimal, cycle models.BillingCycle, effectiveFrom time.Time, notes string) (*models.RateVersion, error) {
	if subjectID == "" {
		return nil, NewValidationError("subject_id", "is required")
	}
	if !subjectType.Valid() {
		return nil, NewValidationError("subject_type", "is not a recognised subject type")
	}
	if !cycle.Valid() {
		return nil, NewValidationError("cycle", "is not a recognised billing cycle")
	}
	if !amount.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than zero")
	}

	unlock := en.locks.Lock("rate:" + subjectID)
	defer unlock()

	if existing, err := en.store.CurrentRateVersion(subjectID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrRateExists
	}

	v := &models.RateVersion{
		ID:            uuid.NewString(),
		SubjectID:     subjectID,
		SubjectType:   subjectType,
		Amount:        amount,
		Cycle:         cycle,
		EffectiveFrom: models.DateOnly(effectiveFrom),
		VersionNumber: 1,
		Notes:         notes,
		CreatedAt:     time.Now(),
	}
	if err := en.store.InsertRateVersion(v); err != nil {
		return nil, err
	}
	return v, nil
}

// EffectiveRate returns the rate version in force for a subject on a
// given date.
func (en *Engine) EffectiveRate(subjectID string, on time.Time) (*models.RateVersion, error) {
	v, err := en.store.RateVersionOn(subjectID, models.DateOnly(on))
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNoActiveRate
	}
	return v, nil
}

// Hike closes the current version and opens a new one a day later.
// Hikes are strictly forward-dated: they never rewrite history, which
// is the mechanism by which already-materialized bills keep their
// original amounts.
func (en *Engine) Hike(subjectID string, newAmount decimal.Decimal, effectiveFrom time.Time, notes string) (*models.RateVersion, error) {
	if !newAmount.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than zero")
	}

	unlock := en.locks.Lock("rate:" + subjectID)
	defer unlock()

	current, err := en.store.CurrentRateVersion(subjectID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNoActiveRate
	}

	from := models.DateOnly(effectiveFrom)
	if !from.After(models.DateOnly(current.EffectiveFrom)) {
		return nil, ErrInvalidEffectiveDate
	}

	if err := en.store.CloseRateVersion(current.ID, from.AddDate(0, 0, -1)); err != nil {
		return nil, err
	}

	next := &models.RateVersion{
		ID:            uuid.NewString(),
		SubjectID:     subjectID,
		SubjectType:   current.SubjectType,
		Amount:        newAmount,
		Cycle:         current.Cycle,
		EffectiveFrom: from,
		VersionNumber: current.VersionNumber + 1,
		Notes:         notes,
		CreatedAt:     time.Now(),
	}
	if err := en.store.InsertRateVersion(next); err != nil {
		return nil, err
	}
	return next, nil
}

// RateHistory returns a subject's versions oldest first.
func (en *Engine) RateHistory(subjectID string) ([]*models.RateVersion, error) {
	return en.store.RateHistory(subjectID)
}
