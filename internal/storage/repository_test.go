package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtrack/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "subs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func testSub(name, category string, cents int64, cycle core.BillingCycle, renewal core.Date) core.Subscription {
	return core.Subscription{
		Name:        name,
		Amount:      core.Money{Cents: cents},
		Cycle:       cycle,
		Category:    category,
		StartDate:   core.NewDate(2024, 1, 31),
		RenewalDate: renewal,
	}
}

func TestSQLiteRepository_InsertAndList(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	idZ, err := repo.Insert(ctx, testSub("Zoom", "Work", 149900, core.Annual, core.NewDate(2025, 1, 31)))
	require.NoError(t, err)
	idA, err := repo.Insert(ctx, testSub("Apple Music", "Streaming", 9900, core.Monthly, core.NewDate(2024, 2, 29)))
	require.NoError(t, err)
	assert.NotEqual(t, idZ, idA)

	subs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 2)

	assert.Equal(t, "Apple Music", subs[0].Name)
	assert.Equal(t, idA, subs[0].ID)
	assert.Equal(t, int64(9900), subs[0].Amount.Cents)
	assert.Equal(t, core.Monthly, subs[0].Cycle)
	assert.Equal(t, "2024-01-31", subs[0].StartDate.String())
	assert.Equal(t, "2024-02-29", subs[0].RenewalDate.String())
	assert.Equal(t, "Zoom", subs[1].Name)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSQLiteRepository_UnknownCycleRoundTrips(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.Insert(ctx, testSub("Odd", "Misc", 500, core.BillingCycle("weekly"), core.NewDate(2025, 3, 1)))
	require.NoError(t, err)

	subs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, core.BillingCycle("weekly"), subs[0].Cycle)
	assert.Equal(t, 5.0, subs[0].MonthlyCost())
}

func TestSQLiteRepository_InsertRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	tests := []struct {
		name string
		sub  core.Subscription
		want error
	}{
		{"empty name", testSub("  ", "Streaming", 100, core.Monthly, core.NewDate(2025, 1, 1)), core.ErrEmptyName},
		{"zero amount", testSub("Netflix", "Streaming", 0, core.Monthly, core.NewDate(2025, 1, 1)), core.ErrInvalidAmount},
		{"empty category", testSub("Netflix", "", 100, core.Monthly, core.NewDate(2025, 1, 1)), core.ErrEmptyCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Insert(ctx, tt.sub)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	id, err := repo.Insert(ctx, testSub("Netflix", "Streaming", 64900, core.Monthly, core.NewDate(2025, 2, 1)))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id+100), "deleting an unknown id is a no-op")
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, repo.Delete(ctx, id))
	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteRepository_ListRenewingBetween(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, s := range []core.Subscription{
		testSub("past", "X", 100, core.Monthly, core.NewDate(2025, 1, 9)),
		testSub("b-edge-start", "X", 100, core.Monthly, core.NewDate(2025, 1, 10)),
		testSub("a-edge-start", "X", 100, core.Monthly, core.NewDate(2025, 1, 10)),
		testSub("edge-end", "X", 100, core.Monthly, core.NewDate(2025, 4, 10)),
		testSub("later", "X", 100, core.Monthly, core.NewDate(2025, 4, 11)),
	} {
		_, err := repo.Insert(ctx, s)
		require.NoError(t, err)
	}

	got, err := repo.ListRenewingBetween(ctx, core.NewDate(2025, 1, 10), core.NewDate(2025, 4, 10))
	require.NoError(t, err)

	names := make([]string, len(got))
	for i, s := range got {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"a-edge-start", "b-edge-start", "edge-end"}, names)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs.db")
	v1, err := RunMigrations(path)
	require.NoError(t, err)
	v2, err := RunMigrations(path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v1)
	assert.Equal(t, v1, v2)
}
