package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"alnoor-schools/app/models"
)

// PeriodGroup is one billing period of a payer's ledger with its
// entries, as rendered on the monthly ledger screen.
type PeriodGroup struct {
	PeriodYear  int                    `json:"period_year"`
	PeriodMonth int                    `json:"period_month"`
	Assigned    decimal.Decimal        `json:"assigned_total"`
	Paid        decimal.Decimal        `json:"paid_total"`
	Credit      decimal.Decimal        `json:"credit_total"`
	Pending     decimal.Decimal        `json:"pending_total"`
	Entries     []models.EntrySnapshot `json:"entries"`
}

// MonthlyLedger groups a payer's entries by period, oldest first, with
// statuses refreshed against asOf. Pure projection, no side effects.
func (en *Engine) MonthlyLedger(payerID string, asOf time.Time) ([]PeriodGroup, error) {
	entries, err := en.store.EntriesForPayer(payerID)
	if err != nil {
		return nil, err
	}

	type key struct{ year, month int }
	groups := make(map[key]*PeriodGroup)
	for _, e := range entries {
		snap := e.Snapshot()
		snap.Status = Classify(e, asOf)

		k := key{e.PeriodYear, e.PeriodMonth}
		g, ok := groups[k]
		if !ok {
			g = &PeriodGroup{
				PeriodYear:  e.PeriodYear,
				PeriodMonth: e.PeriodMonth,
				Assigned:    decimal.Zero,
				Paid:        decimal.Zero,
				Credit:      decimal.Zero,
				Pending:     decimal.Zero,
			}
			groups[k] = g
		}
		g.Assigned = g.Assigned.Add(e.Assigned)
		g.Paid = g.Paid.Add(e.Paid)
		g.Credit = g.Credit.Add(e.CreditApplied)
		g.Pending = g.Pending.Add(e.Pending())
		g.Entries = append(g.Entries, snap)
	}

	out := make([]PeriodGroup, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g.Entries, func(i, j int) bool {
			return g.Entries[i].SubjectID < g.Entries[j].SubjectID
		})
		out = append(out, *g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PeriodYear != out[j].PeriodYear {
			return out[i].PeriodYear < out[j].PeriodYear
		}
		return out[i].PeriodMonth < out[j].PeriodMonth
	})
	return out, nil
}

// UnpaidSummary aggregates a payer's outstanding position for
// dashboards: total pending, how much of it is overdue, and the oldest
// unpaid entry.
type UnpaidSummary struct {
	PayerID        string                `json:"payer_id"`
	TotalPending   decimal.Decimal       `json:"total_pending"`
	OverduePending decimal.Decimal       `json:"overdue_pending"`
	OpenEntries    int                   `json:"open_entries"`
	OldestUnpaid   *models.EntrySnapshot `json:"oldest_unpaid,omitempty"`
}

// Unpaid computes the payer's unpaid summary as of a date.
func (en *Engine) Unpaid(payerID string, asOf time.Time) (*UnpaidSummary, error) {
	open, err := en.store.OpenEntries(payerID)
	if err != nil {
		return nil, err
	}

	summary := &UnpaidSummary{
		PayerID:        payerID,
		TotalPending:   decimal.Zero,
		OverduePending: decimal.Zero,
	}
	for _, e := range open {
		pending := e.Pending()
		summary.TotalPending = summary.TotalPending.Add(pending)
		summary.OpenEntries++
		if Classify(e, asOf) == models.StatusOverdue {
			summary.OverduePending = summary.OverduePending.Add(pending)
		}
		if summary.OldestUnpaid == nil {
			snap := e.Snapshot()
			snap.Status = Classify(e, asOf)
			summary.OldestUnpaid = &snap
		}
	}
	return summary, nil
}
