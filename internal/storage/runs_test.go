package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulwatch/haulwatch/internal/common"
	"github.com/haulwatch/haulwatch/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func testSummary(started time.Time) model.RunSummary {
	return model.RunSummary{
		ID:            uuid.New().String(),
		StartedAt:     started,
		ReferenceDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		TotalInvoices: 120,
		Skipped:       3,
		Matched:       110,
		Unmatched:     7,
		AlertCount:    2,
		StageCounts: map[model.ResolutionStage]int{
			model.StageDirectExact:   80,
			model.StageDirectFuzzy:   20,
			model.StageLocationExact: 10,
			model.StageUnresolved:    7,
		},
	}
}

func TestSaveRunRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	summary := testSummary(time.Date(2025, 12, 2, 9, 30, 0, 0, time.UTC))
	alerts := []model.Alert{
		{Vendor: "Waste Management", PriorCount: 40, CurrentCount: 12, Pct: 30},
		{Vendor: "Republic Services", PriorCount: 20, CurrentCount: 28, Pct: 140},
	}
	residue := []model.ResolvedInvoice{
		{
			RawInvoice: model.RawInvoice{
				ID:               "inv-901",
				VendorText:       "o Waste Mgm",
				CounterpartyText: "Depot North",
				Date:             time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			RawInvoice: model.RawInvoice{
				ID:         "inv-044",
				VendorText: "zzzzz",
				Date:       time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC),
			},
		},
	}

	require.NoError(t, store.SaveRun(ctx, summary, alerts, residue))

	latest, err := store.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, summary.ID, latest.ID)
	assert.Equal(t, summary.TotalInvoices, latest.TotalInvoices)
	assert.Equal(t, summary.Skipped, latest.Skipped)
	assert.Equal(t, summary.Matched, latest.Matched)
	assert.Equal(t, summary.Unmatched, latest.Unmatched)
	assert.Equal(t, summary.AlertCount, latest.AlertCount)
	assert.Equal(t, summary.StageCounts, latest.StageCounts)
	assert.True(t, summary.StartedAt.Equal(latest.StartedAt))
	assert.True(t, summary.ReferenceDate.Equal(latest.ReferenceDate))

	gotAlerts, err := store.RunAlerts(ctx, summary.ID)
	require.NoError(t, err)
	assert.Equal(t, alerts, gotAlerts)

	gotResidue, err := store.RunResidue(ctx, summary.ID)
	require.NoError(t, err)
	require.Len(t, gotResidue, 2)
	// Residue reads back ordered by invoice ID.
	assert.Equal(t, "inv-044", gotResidue[0].ID)
	assert.Equal(t, "inv-901", gotResidue[1].ID)
	assert.Equal(t, "o Waste Mgm", gotResidue[1].VendorText)
	assert.Equal(t, "Depot North", gotResidue[1].CounterpartyText)
	assert.Equal(t, model.VendorUnmatched, gotResidue[1].Vendor)
	assert.Equal(t, model.StageUnresolved, gotResidue[1].Stage)
}

func TestLatestRunEmptyStore(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LatestRun(context.Background())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := testSummary(time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC))
	second := testSummary(time.Date(2025, 12, 2, 8, 0, 0, 0, time.UTC))
	third := testSummary(time.Date(2025, 12, 3, 8, 0, 0, 0, time.UTC))
	for _, s := range []model.RunSummary{first, second, third} {
		require.NoError(t, store.SaveRun(ctx, s, nil, nil))
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, third.ID, runs[0].ID)
	assert.Equal(t, second.ID, runs[1].ID)

	all, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRunAlertsUnknownRun(t *testing.T) {
	store := newTestStore(t)

	alerts, err := store.RunAlerts(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestMigrateIdempotent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.Migrate(context.Background()))
}
