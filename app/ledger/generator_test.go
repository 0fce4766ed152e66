package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alnoor-schools/app/models"
)

func TestGenerateMonthlyPeriods(t *testing.T) {
	en, store := newTestEngine()
	seedRate(t, en, "class-p1", models.SubjectClassFee, 1000, models.CycleMonthly, date(2024, time.January, 1))

	asOf := date(2024, time.January, 15)
	created := generate(t, en, "student-1", "class-p1", models.SubjectClassFee,
		date(2024, time.January, 1), date(2024, time.March, 31), asOf)
	require.Len(t, created, 3)

	for _, e := range created {
		assert.True(t, e.Assigned.Equal(dec(1000)))
		assert.Equal(t, 2024, e.PeriodYear)
	}
	// Default due day 10, within each month.
	assert.Equal(t, date(2024, time.January, 10), created[0].DueDate)
	assert.Equal(t, date(2024, time.February, 10), created[1].DueDate)

	// Jan is in the current month, Feb and Mar have not started.
	assert.Equal(t, models.StatusPending, created[0].Status)
	assert.Equal(t, models.StatusFuture, created[1].Status)
	assert.Equal(t, models.StatusFuture, created[2].Status)

	requireInvariants(t, store, "student-1")
}

func TestGenerateIsIdempotent(t *testing.T) {
	en, store := newTestEngine()
	seedRate(t, en, "class-p1", models.SubjectClassFee, 1000, models.CycleMonthly, date(2024, time.January, 1))

	asOf := date(2024, time.March, 15)
	first := generate(t, en, "student-1", "class-p1", models.SubjectClassFee,
		date(2024, time.January, 1), date(2024, time.March, 31), asOf)
	require.Len(t, first, 3)

	again := generate(t, en, "student-1", "class-p1", models.SubjectClassFee,
		date(2024, time.January, 1), date(2024, time.March, 31), asOf)
	assert.Empty(t, again)

	entries, err := store.EntriesForSubject("student-1", "class-p1")
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

// Scenario: three months billed at 1000, then a hike to 1200 effective
// March 1. Already-materialized months keep their original amounts;
// only newly generated periods pick up the new rate.
func TestHikeNeverRewritesMaterializedPeriods(t *testing.T) {
	en, store := newTestEngine()
	seedRate(t, en, "class-p1", models.SubjectClassFee, 1000, models.CycleMonthly, date(2024, time.January, 1))

	asOf := date(2024, time.January, 15)
	generate(t, en, "student-1", "class-p1", models.SubjectClassFee,
		date(2024, time.January, 1), date(2024, time.March, 31), asOf)

	_, err := en.Hike("class-p1", dec(1200), date(2024, time.March, 1), "")
	require.NoError(t, err)

	// March is already materialized at the old amount and must stay.
	regen := generate(t, en, "student-1", "class-p1", models.SubjectClassFee,
		date(2024, time.January, 1), date(2024, time.March, 31), asOf)
	assert.Empty(t, regen)

	april := generate(t, en, "student-1", "class-p1", models.SubjectClassFee,
		date(2024, time.April, 1), date(2024, time.April, 30), asOf)
	require.Len(t, april, 1)
	assert.True(t, april[0].Assigned.Equal(dec(1200)))

	entries, err := store.EntriesForSubject("student-1", "class-p1")
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for _, e := range entries {
		if e.PeriodMonth < 4 {
			assert.True(t, e.Assigned.Equal(dec(1000)), "month %d should keep the original amount", e.PeriodMonth)
		}
	}
}

func TestDueDayClampedToPeriodEnd(t *testing.T) {
	en, store := newTestEngine()
	seedRate(t, en, "class-p1", models.SubjectClassFee, 1000, models.CycleMonthly, date(2024, time.January, 1))

	cfg := &models.FeeConfig{
		ID: "cfg-1", PayerID: "student-1", SubjectID: "class-p1",
		SubjectType: models.SubjectClassFee, DueDay: 31, IsActive: true,
	}
	require.NoError(t, store.UpsertFeeConfig(cfg))

	created := generate(t, en, "student-1", "class-p1", models.SubjectClassFee,
		date(2024, time.February, 1), date(2024, time.February, 29), date(2024, time.February, 1))
	require.Len(t, created, 1)
	assert.Equal(t, date(2024, time.February, 29), created[0].DueDate)
}

func TestDiscountAndExemption(t *testing.T) {
	en, store := newTestEngine()
	seedRate(t, en, "class-p1", models.SubjectClassFee, 1000, models.CycleMonthly, date(2024, time.January, 1))

	discounted := &models.FeeConfig{
		ID: "cfg-1", PayerID: "student-1", SubjectID: "class-p1",
		SubjectType: models.SubjectClassFee, Discount: dec(300), IsActive: true,
	}
	require.NoError(t, store.UpsertFeeConfig(discounted))

	created := generate(t, en, "student-1", "class-p1", models.SubjectClassFee,
		date(2024, time.January, 1), date(2024, time.January, 31), date(2024, time.January, 1))
	require.Len(t, created, 1)
	assert.True(t, created[0].Assigned.Equal(dec(700)))

	// A discount larger than the rate floors at zero.
	huge := &models.FeeConfig{
		ID: "cfg-2", PayerID: "student-2", SubjectID: "class-p1",
		SubjectType: models.SubjectClassFee, Discount: dec(5000), IsActive: true,
	}
	require.NoError(t, store.UpsertFeeConfig(huge))
	created = generate(t, en, "student-2", "class-p1", models.SubjectClassFee,
		date(2024, time.January, 1), date(2024, time.January, 31), date(2024, time.January, 1))
	require.Len(t, created, 1)
	assert.True(t, created[0].Assigned.IsZero())

	exempted := &models.FeeConfig{
		ID: "cfg-3", PayerID: "student-3", SubjectID: "class-p1",
		SubjectType: models.SubjectClassFee, Exempt: true, IsActive: true,
	}
	require.NoError(t, store.UpsertFeeConfig(exempted))
	created = generate(t, en, "student-3", "class-p1", models.SubjectClassFee,
		date(2024, time.January, 1), date(2024, time.January, 31), date(2024, time.January, 1))
	require.Len(t, created, 1)
	assert.True(t, created[0].Assigned.IsZero())
	assert.Equal(t, models.StatusExempt, created[0].Status)
}

func TestGenerateQuarterlyAndYearly(t *testing.T) {
	en, _ := newTestEngine()
	seedRate(t, en, "exam-fee", models.SubjectCustomFee, 200, models.CycleQuarterly, date(2024, time.January, 1))
	seedRate(t, en, "dev-levy", models.SubjectCustomFee, 900, models.CycleYearly, date(2024, time.January, 1))

	asOf := date(2024, time.January, 1)
	quarters := generate(t, en, "student-1", "exam-fee", models.SubjectCustomFee,
		date(2024, time.January, 1), date(2024, time.December, 31), asOf)
	require.Len(t, quarters, 4)
	assert.Equal(t, date(2024, time.January, 1), quarters[0].PeriodStart)
	assert.Equal(t, date(2024, time.October, 1), quarters[3].PeriodStart)

	years := generate(t, en, "student-1", "dev-levy", models.SubjectCustomFee,
		date(2024, time.January, 1), date(2024, time.December, 31), asOf)
	require.Len(t, years, 1)
}

func TestGenerateOneTime(t *testing.T) {
	en, _ := newTestEngine()
	seedRate(t, en, "admission", models.SubjectCustomFee, 500, models.CycleOneTime, date(2024, time.February, 15))

	created := generate(t, en, "student-1", "admission", models.SubjectCustomFee,
		date(2024, time.January, 1), date(2024, time.December, 31), date(2024, time.February, 1))
	require.Len(t, created, 1)
	assert.Equal(t, 0, created[0].PeriodMonth)
	assert.Equal(t, date(2024, time.February, 15), created[0].PeriodStart)

	// Regenerating the year does not duplicate the charge.
	again := generate(t, en, "student-1", "admission", models.SubjectCustomFee,
		date(2024, time.January, 1), date(2024, time.December, 31), date(2024, time.February, 1))
	assert.Empty(t, again)
}

func TestGenerateWeeklyAnchoredToFirstVersion(t *testing.T) {
	en, _ := newTestEngine()
	// 2024-01-01 is a Monday.
	seedRate(t, en, "lunch", models.SubjectCustomFee, 50, models.CycleWeekly, date(2024, time.January, 1))

	created := generate(t, en, "student-1", "lunch", models.SubjectCustomFee,
		date(2024, time.January, 1), date(2024, time.January, 28), date(2024, time.January, 1))
	require.Len(t, created, 4)
	assert.Equal(t, date(2024, time.January, 8), created[1].PeriodStart)
}

func TestGenerateRequiresRateHistory(t *testing.T) {
	en, _ := newTestEngine()
	_, err := en.GeneratePeriods("student-1", "ghost", models.SubjectClassFee,
		date(2024, time.January, 1), date(2024, time.March, 31), date(2024, time.January, 1))
	assert.ErrorIs(t, err, ErrNoActiveRate)
}

func TestPerTripNotGenerated(t *testing.T) {
	en, _ := newTestEngine()
	seedRate(t, en, "route-7", models.SubjectTransportFee, 20, models.CyclePerTrip, date(2024, time.January, 1))

	_, err := en.GeneratePeriods("student-1", "route-7", models.SubjectTransportFee,
		date(2024, time.January, 1), date(2024, time.January, 31), date(2024, time.January, 1))
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestRecordTripCharge(t *testing.T) {
	en, store := newTestEngine()
	seedRate(t, en, "route-7", models.SubjectTransportFee, 20, models.CyclePerTrip, date(2024, time.January, 1))

	asOf := date(2024, time.January, 8)
	first, err := en.RecordTripCharge("student-1", "route-7", date(2024, time.January, 8), asOf)
	require.NoError(t, err)
	assert.True(t, first.Assigned.Equal(dec(20)))
	assert.Equal(t, date(2024, time.January, 8), first.DueDate)

	// Two trips on the same day are two distinct obligations.
	_, err = en.RecordTripCharge("student-1", "route-7", date(2024, time.January, 8), asOf)
	require.NoError(t, err)

	entries, err := store.EntriesForSubject("student-1", "route-7")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// Non-trip subjects are rejected.
	seedRate(t, en, "class-p1", models.SubjectClassFee, 1000, models.CycleMonthly, date(2024, time.January, 1))
	_, err = en.RecordTripCharge("student-1", "class-p1", date(2024, time.January, 8), asOf)
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}
