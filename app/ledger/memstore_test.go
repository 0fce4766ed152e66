package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alnoor-schools/app/models"
)

func TestUpdateEntryRejectsStaleVersion(t *testing.T) {
	store := NewMemStore()
	e := &models.LedgerEntry{
		ID:          "e1",
		PayerID:     "student-1",
		SubjectID:   "class-p1",
		SubjectType: models.SubjectClassFee,
		PeriodStart: date(2024, time.January, 1),
		PeriodYear:  2024,
		PeriodMonth: 1,
		Assigned:    dec(1000),
		DueDate:     date(2024, time.January, 10),
		Status:      models.StatusPending,
		Version:     1,
	}
	require.NoError(t, store.InsertEntry(e))

	first, err := store.EntryByID("e1")
	require.NoError(t, err)
	second, err := store.EntryByID("e1")
	require.NoError(t, err)

	first.Paid = dec(400)
	require.NoError(t, store.UpdateEntry(first))

	// The second reader still holds version 1.
	second.Paid = dec(1000)
	err = store.UpdateEntry(second)
	assert.ErrorIs(t, err, ErrConcurrentModification)

	stored, err := store.EntryByID("e1")
	require.NoError(t, err)
	assert.True(t, stored.Paid.Equal(dec(400)))
}

func TestOpenEntriesSortedByDueDate(t *testing.T) {
	store := NewMemStore()
	mk := func(id string, due time.Time) *models.LedgerEntry {
		return &models.LedgerEntry{
			ID: id, PayerID: "student-1", SubjectID: "class-p1",
			SubjectType: models.SubjectClassFee,
			PeriodStart: date(due.Year(), due.Month(), 1),
			PeriodYear:  due.Year(), PeriodMonth: int(due.Month()),
			Assigned: dec(100), DueDate: due,
			Status: models.StatusPending, Version: 1,
		}
	}
	require.NoError(t, store.InsertEntry(mk("mar", date(2024, time.March, 10))))
	require.NoError(t, store.InsertEntry(mk("jan", date(2024, time.January, 10))))
	require.NoError(t, store.InsertEntry(mk("feb", date(2024, time.February, 10))))

	open, err := store.OpenEntries("student-1")
	require.NoError(t, err)
	require.Len(t, open, 3)
	assert.Equal(t, "jan", open[0].ID)
	assert.Equal(t, "feb", open[1].ID)
	assert.Equal(t, "mar", open[2].ID)
}
