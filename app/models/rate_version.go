package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateVersion is one effective-dated amount for a billable subject
// (a class fee, transport route, custom fee or a teacher's salary structure).
// Versions for a subject form a contiguous, non-overlapping timeline; a
// superseded version is never edited, only closed.
type RateVersion struct {
	ID            string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SubjectID     string          `json:"subject_id" gorm:"not null;index" validate:"required"`
	SubjectType   SubjectType     `json:"subject_type" gorm:"not null;type:varchar(20)" validate:"required"`
	Amount        decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)" validate:"required"`
	Cycle         BillingCycle    `json:"cycle" gorm:"not null;type:varchar(20)" validate:"required"`
	EffectiveFrom time.Time       `json:"effective_from" gorm:"not null;type:date" validate:"required"`
	EffectiveTo   *time.Time      `json:"effective_to,omitempty" gorm:"type:date"`
	VersionNumber int             `json:"version_number" gorm:"not null;default:1"`
	Notes         string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt     time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

// CoversDate reports whether on falls inside the version's
// [effective_from, effective_to] interval. An open-ended version
// covers everything from its start onwards.
func (v *RateVersion) CoversDate(on time.Time) bool {
	day := DateOnly(on)
	if day.Before(DateOnly(v.EffectiveFrom)) {
		return false
	}
	if v.EffectiveTo == nil {
		return true
	}
	return !day.After(DateOnly(*v.EffectiveTo))
}

// Open reports whether the version is the current, open-ended one.
func (v *RateVersion) Open() bool {
	return v.EffectiveTo == nil
}

// DateOnly truncates a timestamp to midnight UTC so that rate interval
// and period comparisons never depend on the time-of-day component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
