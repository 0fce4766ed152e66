package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"alnoor-schools/app/models"
)

func TestClassify(t *testing.T) {
	asOf := date(2024, time.March, 15)

	entry := func(start, due time.Time, assigned, paid, credit int64) *models.LedgerEntry {
		return &models.LedgerEntry{
			PeriodStart:   start,
			DueDate:       due,
			Assigned:      dec(assigned),
			Paid:          dec(paid),
			CreditApplied: dec(credit),
		}
	}

	tests := []struct {
		name  string
		entry *models.LedgerEntry
		want  models.EntryStatus
	}{
		{
			name:  "untouched entry before due date",
			entry: entry(date(2024, time.March, 1), date(2024, time.March, 20), 1000, 0, 0),
			want:  models.StatusPending,
		},
		{
			name:  "untouched entry past due date",
			entry: entry(date(2024, time.February, 1), date(2024, time.February, 10), 1000, 0, 0),
			want:  models.StatusOverdue,
		},
		{
			name:  "fully paid",
			entry: entry(date(2024, time.March, 1), date(2024, time.March, 10), 1000, 1000, 0),
			want:  models.StatusPaid,
		},
		{
			name:  "fully settled late is paid, not overdue",
			entry: entry(date(2024, time.January, 1), date(2024, time.January, 10), 1000, 1000, 0),
			want:  models.StatusPaid,
		},
		{
			name:  "settled by payment plus credit",
			entry: entry(date(2024, time.February, 1), date(2024, time.February, 10), 1000, 400, 600),
			want:  models.StatusPaid,
		},
		{
			name:  "partially paid",
			entry: entry(date(2024, time.March, 1), date(2024, time.March, 20), 1000, 400, 0),
			want:  models.StatusPartiallyPaid,
		},
		{
			name:  "partially paid past due stays partially paid",
			entry: entry(date(2024, time.February, 1), date(2024, time.February, 10), 1000, 0, 400),
			want:  models.StatusPartiallyPaid,
		},
		{
			name:  "next month is future",
			entry: entry(date(2024, time.April, 1), date(2024, time.April, 10), 1000, 0, 0),
			want:  models.StatusFuture,
		},
		{
			name:  "next year is future",
			entry: entry(date(2025, time.January, 1), date(2025, time.January, 10), 1000, 0, 0),
			want:  models.StatusFuture,
		},
		{
			name:  "earlier month of same year is not future",
			entry: entry(date(2024, time.January, 1), date(2024, time.January, 10), 1000, 0, 0),
			want:  models.StatusOverdue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.entry, asOf))
		})
	}
}

func TestClassifyExempt(t *testing.T) {
	e := &models.LedgerEntry{
		PeriodStart: date(2024, time.February, 1),
		DueDate:     date(2024, time.February, 10),
		Assigned:    dec(0),
		Status:      models.StatusExempt,
	}
	assert.Equal(t, models.StatusExempt, Classify(e, date(2024, time.March, 15)))
}

func TestClassifyDueDateBoundary(t *testing.T) {
	e := &models.LedgerEntry{
		PeriodStart: date(2024, time.March, 1),
		DueDate:     date(2024, time.March, 15),
		Assigned:    dec(1000),
	}
	// Due today is not yet overdue.
	assert.Equal(t, models.StatusPending, Classify(e, date(2024, time.March, 15)))
	assert.Equal(t, models.StatusOverdue, Classify(e, date(2024, time.March, 16)))
}
