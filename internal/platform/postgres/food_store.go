package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sharebite/sharebite-api/internal/domain"
	"github.com/sharebite/sharebite-api/internal/platform/logger"
	"github.com/sharebite/sharebite-api/internal/store"
)

// PostgresFoodStore implements the store.FoodStore interface
// using a PostgreSQL JSONB table as the storage backend.
type PostgresFoodStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresFoodStore creates a new PostgreSQL implementation of the FoodStore interface.
// The store takes ownership of db and closes it in Close.
// If logger is nil, a default logger will be used.
func NewPostgresFoodStore(db *sql.DB, logger *slog.Logger) *PostgresFoodStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFoodStore{
		db:     db,
		logger: logger.With(slog.String("component", "food_store"), slog.String("driver", "postgres")),
	}
}

// Ensure PostgresFoodStore implements store.FoodStore interface
var _ store.FoodStore = (*PostgresFoodStore)(nil)

// Find implements store.FoodStore.Find
// Records are returned in insertion order.
func (s *PostgresFoodStore) Find(ctx context.Context, filter store.FoodFilter) ([]*domain.Food, error) {
	query := `
		SELECT id, doc
		FROM foods
		WHERE ($1 = '' OR doc->>'foodDonarEmail' = $1)
		  AND ($2 = '' OR doc->>'requestedBy' = $2)
		ORDER BY seq
	`
	return s.queryFoods(ctx, "find", query, filter.DonorEmail, filter.RequestedBy)
}

// FindSortedByExpiry implements store.FoodStore.FindSortedByExpiry
func (s *PostgresFoodStore) FindSortedByExpiry(ctx context.Context) ([]*domain.Food, error) {
	query := `
		SELECT id, doc
		FROM foods
		ORDER BY expired_date ASC, id ASC
	`
	return s.queryFoods(ctx, "find_sorted", query)
}

// GetByID implements store.FoodStore.GetByID
// Returns store.ErrFoodNotFound if the record does not exist.
func (s *PostgresFoodStore) GetByID(ctx context.Context, id domain.FoodID) (*domain.Food, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var raw []byte
	err = s.db.QueryRowContext(ctx, `SELECT doc FROM foods WHERE id = $1`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("food not found", slog.String("food_id", key.String()))
			return nil, store.ErrFoodNotFound
		}
		log.Error("failed to get food by ID",
			slog.String("error", err.Error()),
			slog.String("food_id", key.String()))
		return nil, store.NewStoreError("food", "get", "query failed", MapError(err))
	}

	return decodeFood(key, raw)
}

// Insert implements store.FoodStore.Insert
// The identifier is generated here, so the record's ID field is ignored.
func (s *PostgresFoodStore) Insert(ctx context.Context, food *domain.Food) (domain.FoodID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	doc, err := json.Marshal(food.Document())
	if err != nil {
		return "", store.NewStoreError("food", "insert", "failed to encode document", err)
	}

	id := uuid.New()
	query := `
		INSERT INTO foods (id, doc, expired_date)
		VALUES ($1, $2, $3)
	`
	if _, err := s.db.ExecContext(ctx, query, id, doc, food.ExpiredDate); err != nil {
		log.Error("failed to insert food",
			slog.String("error", err.Error()),
			slog.String("food_id", id.String()))
		return "", store.NewStoreError("food", "insert", "insert failed", MapError(err))
	}

	log.Debug("food inserted", slog.String("food_id", id.String()))
	return domain.FoodID(id.String()), nil
}

// Update implements store.FoodStore.Update
// Patched keys are merged into the stored document in a single statement.
// Fields the patch sets to null are removed from the document. The modified count is zero
// when the merge leaves the document unchanged.
func (s *PostgresFoodStore) Update(
	ctx context.Context,
	id domain.FoodID,
	patch domain.FoodPatch,
) (domain.UpdateResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	key, err := parseID(id)
	if err != nil {
		return domain.UpdateResult{}, err
	}

	set, unset := patch.Changes()
	setDoc, err := json.Marshal(set)
	if err != nil {
		return domain.UpdateResult{}, store.NewStoreError("food", "update", "failed to encode patch", err)
	}
	if unset == nil {
		unset = []string{}
	}

	var expiredDate sql.NullTime
	if t, ok := patch.ExpiredDate(); ok {
		expiredDate = sql.NullTime{Time: t, Valid: true}
	}

	query := `
		WITH target AS (
			SELECT id FROM foods WHERE id = $1 FOR UPDATE
		), updated AS (
			UPDATE foods f
			SET doc = (f.doc - $2::text[]) || $3::jsonb,
			    expired_date = COALESCE($4::timestamptz, f.expired_date),
			    updated_at = NOW()
			FROM target t
			WHERE f.id = t.id
			  AND f.doc IS DISTINCT FROM ((f.doc - $2::text[]) || $3::jsonb)
			RETURNING f.id
		)
		SELECT (SELECT COUNT(*) FROM target), (SELECT COUNT(*) FROM updated)
	`

	result := domain.UpdateResult{Acknowledged: true}
	err = s.db.QueryRowContext(ctx, query, key, unset, setDoc, expiredDate).
		Scan(&result.MatchedCount, &result.ModifiedCount)
	if err != nil {
		log.Error("failed to update food",
			slog.String("error", err.Error()),
			slog.String("food_id", key.String()))
		return domain.UpdateResult{}, store.NewStoreError("food", "update", "update failed", MapError(err))
	}

	log.Debug("food updated",
		slog.String("food_id", key.String()),
		slog.Int64("matched", result.MatchedCount),
		slog.Int64("modified", result.ModifiedCount))
	return result, nil
}

// Delete implements store.FoodStore.Delete
func (s *PostgresFoodStore) Delete(ctx context.Context, id domain.FoodID) (domain.DeleteResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	key, err := parseID(id)
	if err != nil {
		return domain.DeleteResult{}, err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM foods WHERE id = $1`, key)
	if err != nil {
		log.Error("failed to delete food",
			slog.String("error", err.Error()),
			slog.String("food_id", key.String()))
		return domain.DeleteResult{}, store.NewStoreError("food", "delete", "delete failed", MapError(err))
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return domain.DeleteResult{}, store.NewStoreError("food", "delete", "failed to get rows affected", err)
	}

	log.Debug("food delete executed",
		slog.String("food_id", key.String()),
		slog.Int64("deleted", deleted))
	return domain.DeleteResult{Acknowledged: true, DeletedCount: deleted}, nil
}

// Ping implements store.FoodStore.Ping
func (s *PostgresFoodStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close implements store.FoodStore.Close
func (s *PostgresFoodStore) Close(context.Context) error {
	return s.db.Close()
}

// queryFoods runs a query returning (id, doc) rows and decodes every row.
func (s *PostgresFoodStore) queryFoods(
	ctx context.Context,
	operation string,
	query string,
	args ...any,
) ([]*domain.Food, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query foods",
			slog.String("error", err.Error()),
			slog.String("operation", operation))
		return nil, store.NewStoreError("food", operation, "query failed", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	foods := make([]*domain.Food, 0)
	for rows.Next() {
		var id uuid.UUID
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, store.NewStoreError("food", operation, "failed to scan row", err)
		}
		food, err := decodeFood(id, raw)
		if err != nil {
			return nil, err
		}
		foods = append(foods, food)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("food", operation, "row iteration failed", MapError(err))
	}

	log.Debug("foods retrieved",
		slog.String("operation", operation),
		slog.Int("count", len(foods)))
	return foods, nil
}

func decodeFood(id uuid.UUID, raw []byte) (*domain.Food, error) {
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, store.NewStoreError("food", "decode", fmt.Sprintf("invalid document for %s", id), err)
	}
	return domain.FoodFromDocument(domain.FoodID(id.String()), doc)
}

func parseID(id domain.FoodID) (uuid.UUID, error) {
	key, err := uuid.Parse(id.String())
	if err != nil {
		return uuid.Nil, store.ErrMalformedID
	}
	return key, nil
}
