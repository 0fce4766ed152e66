package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alnoor-schools/app/ledger"
	"alnoor-schools/app/models"
)

func TestMaterializeCurrentPeriods(t *testing.T) {
	store := ledger.NewMemStore()
	eng := ledger.New(store)

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	_, err := eng.CreateRate("class-p1", models.SubjectClassFee, decimal.NewFromInt(1000), models.CycleMonthly, from, "")
	require.NoError(t, err)
	_, err = eng.CreateRate("maths-post", models.SubjectSalary, decimal.NewFromInt(5000), models.CycleMonthly, from, "")
	require.NoError(t, err)

	configs := []*models.FeeConfig{
		{ID: "c1", PayerID: "student-1", SubjectID: "class-p1", SubjectType: models.SubjectClassFee, IsActive: true},
		{ID: "c2", PayerID: "teacher-1", SubjectID: "maths-post", SubjectType: models.SubjectSalary, IsActive: true},
		{ID: "c3", PayerID: "student-2", SubjectID: "class-p1", SubjectType: models.SubjectClassFee, IsActive: false},
	}
	for _, cfg := range configs {
		require.NoError(t, store.UpsertFeeConfig(cfg))
	}

	asOf := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, MaterializeCurrentPeriods(eng, asOf))

	// Only the active configs got a March entry.
	student, err := store.EntriesForPayer("student-1")
	require.NoError(t, err)
	require.Len(t, student, 1)
	assert.Equal(t, 3, student[0].PeriodMonth)
	assert.True(t, student[0].Assigned.Equal(decimal.NewFromInt(1000)))

	teacher, err := store.EntriesForPayer("teacher-1")
	require.NoError(t, err)
	require.Len(t, teacher, 1)

	inactive, err := store.EntriesForPayer("student-2")
	require.NoError(t, err)
	assert.Empty(t, inactive)

	// A second run on the same day creates nothing new.
	require.NoError(t, MaterializeCurrentPeriods(eng, asOf))
	student, err = store.EntriesForPayer("student-1")
	require.NoError(t, err)
	assert.Len(t, student, 1)
}

func TestMaterializeAppliesWaitingCredit(t *testing.T) {
	store := ledger.NewMemStore()
	eng := ledger.New(store)

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	_, err := eng.CreateRate("maths-post", models.SubjectSalary, decimal.NewFromInt(5000), models.CycleMonthly, from, "")
	require.NoError(t, err)
	require.NoError(t, store.UpsertFeeConfig(&models.FeeConfig{
		ID: "c1", PayerID: "teacher-1", SubjectID: "maths-post",
		SubjectType: models.SubjectSalary, IsActive: true,
	}))

	// Credit posted before any period exists, e.g. an advance.
	_, err = eng.PostCredit("teacher-1", decimal.NewFromInt(2000), "")
	require.NoError(t, err)

	asOf := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, MaterializeCurrentPeriods(eng, asOf))

	entries, err := store.EntriesForPayer("teacher-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].CreditApplied.Equal(decimal.NewFromInt(2000)))
	assert.True(t, entries[0].Pending().Equal(decimal.NewFromInt(3000)))
}

func TestMaterializeSkipsBrokenConfigs(t *testing.T) {
	store := ledger.NewMemStore()
	eng := ledger.New(store)

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	_, err := eng.CreateRate("route-7", models.SubjectTransportFee, decimal.NewFromInt(20), models.CyclePerTrip, from, "")
	require.NoError(t, err)
	_, err = eng.CreateRate("class-p1", models.SubjectClassFee, decimal.NewFromInt(1000), models.CycleMonthly, from, "")
	require.NoError(t, err)

	// Per-trip subjects and subjects with no rate history cannot be
	// materialized; the tick logs and moves on.
	configs := []*models.FeeConfig{
		{ID: "c1", PayerID: "student-1", SubjectID: "route-7", SubjectType: models.SubjectTransportFee, IsActive: true},
		{ID: "c2", PayerID: "student-1", SubjectID: "no-rate-yet", SubjectType: models.SubjectCustomFee, IsActive: true},
		{ID: "c3", PayerID: "student-1", SubjectID: "class-p1", SubjectType: models.SubjectClassFee, IsActive: true},
	}
	for _, cfg := range configs {
		require.NoError(t, store.UpsertFeeConfig(cfg))
	}

	asOf := time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, MaterializeCurrentPeriods(eng, asOf))

	entries, err := store.EntriesForPayer("student-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "class-p1", entries[0].SubjectID)
}
