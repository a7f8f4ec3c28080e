//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sharebite/sharebite-api/internal/domain"
	"github.com/sharebite/sharebite-api/internal/platform/postgres"
	"github.com/sharebite/sharebite-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	sharedOnce    sync.Once
	sharedInitErr error
	sharedDB      *sql.DB
)

func TestMain(m *testing.M) {
	code := m.Run()
	if sharedDB != nil {
		_ = sharedDB.Close()
	}
	os.Exit(code)
}

// setupStore returns a store over a freshly truncated foods table. The
// container and migrations are shared by every test in the package.
func setupStore(t *testing.T) *postgres.PostgresFoodStore {
	t.Helper()

	sharedOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		container, err := tcpostgres.Run(
			ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("sharebite"),
			tcpostgres.WithUsername("sharebite"),
			tcpostgres.WithPassword("sharebite_dev"),
			tcpostgres.BasicWaitStrategies(),
		)
		if err != nil {
			sharedInitErr = err
			return
		}

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			sharedInitErr = err
			return
		}

		db, err := postgres.Open(ctx, dsn, postgres.PoolConfig{MaxOpenConns: 5})
		if err != nil {
			sharedInitErr = err
			return
		}
		if err := postgres.Migrate(ctx, db, "up", nil); err != nil {
			sharedInitErr = err
			return
		}
		sharedDB = db
	})
	require.NoError(t, sharedInitErr)

	_, err := sharedDB.ExecContext(context.Background(), "TRUNCATE foods")
	require.NoError(t, err)

	// Close is not called on the shared pool.
	return postgres.NewPostgresFoodStore(sharedDB, nil)
}

func insert(t *testing.T, s store.FoodStore, body map[string]any) domain.FoodID {
	t.Helper()
	food, err := domain.DecodeFood(body)
	require.NoError(t, err)
	id, err := s.Insert(context.Background(), food)
	require.NoError(t, err)
	return id
}

func TestPostgresFoodStore_CRUD(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	id := insert(t, s, map[string]any{
		"foodName":       "Dal",
		"foodQuantity":   3.0,
		"expiredDate":    "2025-06-20T12:00:00Z",
		"foodDonarEmail": "donor@example.com",
		"servingSize":    1.5,
	})

	got, err := s.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Dal", got.Name)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, 1.5, got.Extra["servingSize"])
	assert.True(t, got.ExpiredDate.Equal(time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)))

	patch, err := domain.DecodeFoodPatch(map[string]any{
		"foodStatus":   "requested",
		"requestedBy":  "taker@example.com",
		"foodQuantity": nil,
	})
	require.NoError(t, err)

	result, err := s.Update(ctx, id, patch)
	require.NoError(t, err)
	assert.Equal(t, domain.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, result)

	result, err = s.Update(ctx, id, patch)
	require.NoError(t, err)
	assert.Equal(t, domain.UpdateResult{Acknowledged: true, MatchedCount: 1}, result, "unchanged merge")

	got, err = s.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "requested", got.Status)
	assert.Equal(t, "taker@example.com", got.RequestedBy)
	assert.Equal(t, 0, got.Quantity)
	assert.Equal(t, "Dal", got.Name)

	deleted, err := s.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted.DeletedCount)

	deleted, err = s.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted.DeletedCount)

	_, err = s.GetByID(ctx, id)
	assert.ErrorIs(t, err, store.ErrFoodNotFound)
}

func TestPostgresFoodStore_Find(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	insert(t, s, map[string]any{"foodName": "A", "expiredDate": "2025-06-22", "foodDonarEmail": "a@example.com"})
	insert(t, s, map[string]any{"foodName": "B", "expiredDate": "2025-06-20", "requestedBy": "a@example.com"})
	insert(t, s, map[string]any{"foodName": "C", "expiredDate": "2025-06-20", "foodDonarEmail": "a@example.com"})

	all, err := s.Find(ctx, store.FoodFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].Name)
	assert.Equal(t, "C", all[2].Name)

	byDonor, err := s.Find(ctx, store.FoodFilter{DonorEmail: "a@example.com"})
	require.NoError(t, err)
	assert.Len(t, byDonor, 2)

	byRequester, err := s.Find(ctx, store.FoodFilter{RequestedBy: "a@example.com"})
	require.NoError(t, err)
	require.Len(t, byRequester, 1)
	assert.Equal(t, "B", byRequester[0].Name)

	sorted, err := s.FindSortedByExpiry(ctx)
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Equal(t, "A", sorted[2].Name)
	assert.Less(t, sorted[0].ID.String(), sorted[1].ID.String())
}

func TestPostgresFoodStore_MalformedID(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.GetByID(ctx, "665f1c2e8b3a4d0012345678")
	assert.ErrorIs(t, err, store.ErrMalformedID)

	_, err = s.Delete(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrMalformedID)

	require.NoError(t, s.Ping(ctx))
}

func TestPostgresFoodStore_ZeroValues(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	id := insert(t, s, map[string]any{
		"foodName":        "Rice",
		"foodQuantity":    0.0,
		"additionalNotes": "",
		"expiredDate":     "2026-01-01",
	})

	got, err := s.GetByID(ctx, id)
	require.NoError(t, err)
	doc := got.Document()
	assert.Equal(t, 0, doc["foodQuantity"])
	assert.Equal(t, "", doc["additionalNotes"])

	patch, err := domain.DecodeFoodPatch(map[string]any{"foodName": "", "additionalNotes": nil})
	require.NoError(t, err)

	result, err := s.Update(ctx, id, patch)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ModifiedCount)

	got, err = s.GetByID(ctx, id)
	require.NoError(t, err)
	doc = got.Document()
	assert.Equal(t, "", doc["foodName"])
	assert.Equal(t, 0, doc["foodQuantity"])
	assert.NotContains(t, doc, "additionalNotes")
}
