//go:build integration

package mongo_test

import (
	"context"
	"testing"
	"time"

	"github.com/sharebite/sharebite-api/internal/domain"
	"github.com/sharebite/sharebite-api/internal/platform/mongo"
	"github.com/sharebite/sharebite-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupStore(t *testing.T) *mongo.MongoFoodStore {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, uri)
	require.NoError(t, err)

	s := mongo.NewMongoFoodStore(client, "shareFoodDb", "shareFood", nil)
	t.Cleanup(func() {
		_ = s.Close(context.Background())
	})
	return s
}

func insert(t *testing.T, s store.FoodStore, body map[string]any) domain.FoodID {
	t.Helper()
	food, err := domain.DecodeFood(body)
	require.NoError(t, err)
	id, err := s.Insert(context.Background(), food)
	require.NoError(t, err)
	return id
}

func TestMongoFoodStore(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	first := insert(t, s, map[string]any{"foodName": "A", "expiredDate": "2025-06-22", "foodDonarEmail": "a@example.com"})
	second := insert(t, s, map[string]any{"foodName": "B", "expiredDate": "2025-06-20", "requestedBy": "a@example.com"})
	insert(t, s, map[string]any{"foodName": "C", "expiredDate": "2025-06-20", "foodDonarEmail": "a@example.com"})

	t.Run("find", func(t *testing.T) {
		all, err := s.Find(ctx, store.FoodFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 3)

		byDonor, err := s.Find(ctx, store.FoodFilter{DonorEmail: "a@example.com"})
		require.NoError(t, err)
		assert.Len(t, byDonor, 2)

		byRequester, err := s.Find(ctx, store.FoodFilter{RequestedBy: "a@example.com"})
		require.NoError(t, err)
		require.Len(t, byRequester, 1)
		assert.Equal(t, second, byRequester[0].ID)
	})

	t.Run("sorted", func(t *testing.T) {
		sorted, err := s.FindSortedByExpiry(ctx)
		require.NoError(t, err)
		require.Len(t, sorted, 3)
		assert.Equal(t, second, sorted[0].ID, "equal expiry ties break on the older ObjectID")
		assert.Equal(t, first, sorted[2].ID)
	})

	t.Run("update", func(t *testing.T) {
		patch, err := domain.DecodeFoodPatch(map[string]any{"foodStatus": "requested", "foodName": "A2"})
		require.NoError(t, err)

		result, err := s.Update(ctx, first, patch)
		require.NoError(t, err)
		assert.Equal(t, domain.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, result)

		got, err := s.GetByID(ctx, first)
		require.NoError(t, err)
		assert.Equal(t, "A2", got.Name)
		assert.Equal(t, "a@example.com", got.DonorEmail)
	})

	t.Run("delete", func(t *testing.T) {
		result, err := s.Delete(ctx, first)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.DeletedCount)

		result, err = s.Delete(ctx, first)
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.DeletedCount)

		_, err = s.GetByID(ctx, first)
		assert.ErrorIs(t, err, store.ErrFoodNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := s.GetByID(ctx, "not-an-object-id")
		assert.ErrorIs(t, err, store.ErrMalformedID)
	})

	require.NoError(t, s.Ping(ctx))
}

func TestMongoFoodStore_ZeroValues(t *testing.T) {
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
