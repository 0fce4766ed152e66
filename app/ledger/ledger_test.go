package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"alnoor-schools/app/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func newTestEngine() (*Engine, *MemStore) {
	store := NewMemStore()
	return New(store), store
}

// seedRate opens the first version for a subject and fails the test on error.
func seedRate(t *testing.T, en *Engine, subjectID string, subjectType models.SubjectType, amount int64, cycle models.BillingCycle, from time.Time) *models.RateVersion {
	t.Helper()
	v, err := en.CreateRate(subjectID, subjectType, dec(amount), cycle, from, "")
	require.NoError(t, err)
	return v
}

func cashMeta() models.PaymentMeta {
	return models.PaymentMeta{Mode: models.ModeCash}
}

// generate materializes a range and fails the test on error.
func generate(t *testing.T, en *Engine, payerID, subjectID string, subjectType models.SubjectType, start, end, asOf time.Time) []*models.LedgerEntry {
	t.Helper()
	entries, err := en.GeneratePeriods(payerID, subjectID, subjectType, start, end, asOf)
	require.NoError(t, err)
	return entries
}

// requireInvariants checks the ledger arithmetic that must hold for
// every entry at all times.
func requireInvariants(t *testing.T, store *MemStore, payerID string) {
	t.Helper()
	entries, err := store.EntriesForPayer(payerID)
	require.NoError(t, err)
	for _, e := range entries {
		require.True(t, e.Pending().GreaterThanOrEqual(decimal.Zero),
			"entry %s has negative pending", e.ID)
		require.True(t, e.Paid.Add(e.CreditApplied).LessThanOrEqual(e.Assigned),
			"entry %s settled more than assigned", e.ID)
		require.True(t, e.Pending().Equal(e.Assigned.Sub(e.Paid).Sub(e.CreditApplied)),
			"entry %s pending drifted", e.ID)
	}
}
