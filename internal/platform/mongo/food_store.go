package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sharebite/sharebite-api/internal/domain"
	"github.com/sharebite/sharebite-api/internal/platform/logger"
	"github.com/sharebite/sharebite-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect creates a client pinned to the stable API v1 in strict mode and
// verifies the deployment is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// MongoFoodStore implements the store.FoodStore interface
// on top of a MongoDB collection.
type MongoFoodStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewMongoFoodStore creates a store over database.collection. The store takes
// ownership of client and disconnects it in Close.
// If logger is nil, a default logger will be used.
func NewMongoFoodStore(client *mongo.Client, database, collection string, logger *slog.Logger) *MongoFoodStore {
	if client == nil {
		panic("client cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &MongoFoodStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger: logger.With(
			slog.String("component", "food_store"),
			slog.String("driver", "mongo"),
			slog.String("collection", database+"."+collection),
		),
	}
}

// Ensure MongoFoodStore implements store.FoodStore interface
var _ store.FoodStore = (*MongoFoodStore)(nil)

// Find implements store.FoodStore.Find
// Records are returned in natural (insertion) order.
func (s *MongoFoodStore) Find(ctx context.Context, filter store.FoodFilter) ([]*domain.Food, error) {
	query := bson.D{}
	if filter.DonorEmail != "" {
		query = append(query, bson.E{Key: domain.FieldDonorEmail, Value: filter.DonorEmail})
	}
	if filter.RequestedBy != "" {
		query = append(query, bson.E{Key: domain.FieldRequestedBy, Value: filter.RequestedBy})
	}
	return s.find(ctx, "find", query, options.Find())
}

// FindSortedByExpiry implements store.FoodStore.FindSortedByExpiry
func (s *MongoFoodStore) FindSortedByExpiry(ctx context.Context) ([]*domain.Food, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: domain.FieldExpiredDate, Value: 1},
		{Key: domain.FieldID, Value: 1},
	})
	return s.find(ctx, "find_sorted", bson.D{}, opts)
}

// GetByID implements store.FoodStore.GetByID
// Returns store.ErrFoodNotFound if the record does not exist.
func (s *MongoFoodStore) GetByID(ctx context.Context, id domain.FoodID) (*domain.Food, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc bson.M
	err = s.collection.FindOne(ctx, bson.D{{Key: domain.FieldID, Value: oid}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Debug("food not found", slog.String("food_id", oid.Hex()))
			return nil, store.ErrFoodNotFound
		}
		log.Error("failed to get food by ID",
			slog.String("error", err.Error()),
			slog.String("food_id", oid.Hex()))
		return nil, store.NewStoreError("food", "get", "query failed", err)
	}

	return decodeFood(doc)
}

// Insert implements store.FoodStore.Insert
// The ObjectID is generated by the driver.
func (s *MongoFoodStore) Insert(ctx context.Context, food *domain.Food) (domain.FoodID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := s.collection.InsertOne(ctx, bson.M(food.Document()))
	if err != nil {
		log.Error("failed to insert food", slog.String("error", err.Error()))
		return "", store.NewStoreError("food", "insert", "insert failed", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", store.NewStoreError("food", "insert", fmt.Sprintf("unexpected identifier type %T", res.InsertedID), nil)
	}

	log.Debug("food inserted", slog.String("food_id", oid.Hex()))
	return domain.FoodID(oid.Hex()), nil
}

// Update implements store.FoodStore.Update
// Fields the patch sets to null are removed with $unset.
func (s *MongoFoodStore) Update(
	ctx context.Context,
	id domain.FoodID,
	patch domain.FoodPatch,
) (domain.UpdateResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	oid, err := parseID(id)
	if err != nil {
		return domain.UpdateResult{}, err
	}

	res, err := s.collection.UpdateByID(ctx, oid, updateDocument(patch))
	if err != nil {
		log.Error("failed to update food",
			slog.String("error", err.Error()),
			slog.String("food_id", oid.Hex()))
		return domain.UpdateResult{}, store.NewStoreError("food", "update", "update failed", err)
	}

	log.Debug("food updated",
		slog.String("food_id", oid.Hex()),
		slog.Int64("matched", res.MatchedCount),
		slog.Int64("modified", res.ModifiedCount))
	return domain.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

// Delete implements store.FoodStore.Delete
func (s *MongoFoodStore) Delete(ctx context.Context, id domain.FoodID) (domain.DeleteResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	oid, err := parseID(id)
	if err != nil {
		return domain.DeleteResult{}, err
	}

	res, err := s.collection.DeleteOne(ctx, bson.D{{Key: domain.FieldID, Value: oid}})
	if err != nil {
		log.Error("failed to delete food",
			slog.String("error", err.Error()),
			slog.String("food_id", oid.Hex()))
		return domain.DeleteResult{}, store.NewStoreError("food", "delete", "delete failed", err)
	}

	return domain.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// Ping implements store.FoodStore.Ping
func (s *MongoFoodStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close implements store.FoodStore.Close
func (s *MongoFoodStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoFoodStore) find(
	ctx context.Context,
	operation string,
	filter bson.D,
	opts *options.FindOptions,
) ([]*domain.Food, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		log.Error("failed to query foods",
			slog.String("error", err.Error()),
			slog.String("operation", operation))
		return nil, store.NewStoreError("food", operation, "query failed", err)
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, store.NewStoreError("food", operation, "failed to read cursor", err)
	}

	foods := make([]*domain.Food, 0, len(docs))
	for _, doc := range docs {
		food, err := decodeFood(doc)
		if err != nil {
			return nil, err
		}
		foods = append(foods, food)
	}

	log.Debug("foods retrieved",
		slog.String("operation", operation),
		slog.Int("count", len(foods)))
	return foods, nil
}

// updateDocument builds the $set/$unset update for a patch.
func updateDocument(patch domain.FoodPatch) bson.M {
	set, unset := patch.Changes()

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = bson.M(set)
	}
	if len(unset) > 0 {
		fields := bson.M{}
		for _, key := range unset {
			fields[key] = ""
		}
		update["$unset"] = fields
	}
	return update
}

// decodeFood converts BSON value types to the Go types the domain coercion
// understands and rebuilds the record.
func decodeFood(doc bson.M) (*domain.Food, error) {
	var id domain.FoodID
	switch v := doc[domain.FieldID].(type) {
	case primitive.ObjectID:
		id = domain.FoodID(v.Hex())
	case string:
		id = domain.FoodID(v)
	default:
		return nil, store.NewStoreError("food", "decode", fmt.Sprintf("unexpected identifier type %T", v), nil)
	}

	plain := make(map[string]any, len(doc))
	for key, value := range doc {
		plain[key] = fromBSON(value)
	}
	return domain.FoodFromDocument(id, plain)
}

func fromBSON(value any) any {
	switch v := value.(type) {
	case primitive.DateTime:
		return v.Time().UTC()
	case primitive.ObjectID:
		return v.Hex()
	case primitive.Timestamp:
		return time.Unix(int64(v.T), 0).UTC()
	case primitive.Decimal128:
		return v.String()
	case primitive.M:
		out := make(map[string]any, len(v))
		for key, nested := range v {
			out[key] = fromBSON(nested)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(v))
		for _, e := range v {
			out[e.Key] = fromBSON(e.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = fromBSON(item)
		}
		return out
	default:
		return v
	}
}

func parseID(id domain.FoodID) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id.String())
	if err != nil {
		return primitive.NilObjectID, store.ErrMalformedID
	}
	return oid, nil
}
