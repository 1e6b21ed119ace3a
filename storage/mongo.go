package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go-url-shortener/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const mongoDisconnectTimeout = 5 * time.Second

// NewMongoClient connects to MongoDB and checks connectivity.
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect to mongo failed")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongo failed")
	}
	return client, nil
}

// MongoStorage implements the Storage interface on a MongoDB collection.
// The short code is the document _id, so the primary key index enforces
// uniqueness.
type MongoStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewMongoStorage wraps a client; the storage takes ownership of it.
func NewMongoStorage(client *mongo.Client, database, collection string, logger *zap.Logger) *MongoStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MongoStorage{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger.With(zap.String("component", "MongoStorage")),
	}
}

// PutIfAbsent inserts the mapping; a duplicate _id reports a collision.
func (s *MongoStorage) PutIfAbsent(ctx context.Context, mapping types.URLMapping) (bool, error) {
	_, err := s.collection.InsertOne(ctx, mapping)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		s.logger.Error("Failed to insert mapping", zap.Error(err), zap.String("shortCode", mapping.ShortCode))
		return false, errors.Wrap(err, "insert mapping failed")
	}
	return true, nil
}

// Get looks up a mapping by short code.
func (s *MongoStorage) Get(ctx context.Context, shortCode string) (types.URLMapping, bool, error) {
	var mapping types.URLMapping
	err := s.collection.FindOne(ctx, bson.M{"_id": shortCode}).Decode(&mapping)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return types.URLMapping{}, false, nil
	}
	if err != nil {
		s.logger.Error("Failed to find mapping", zap.Error(err), zap.String("shortCode", shortCode))
		return types.URLMapping{}, false, errors.Wrap(err, "find mapping failed")
	}
	return mapping, true, nil
}

// Close disconnects the client.
func (s *MongoStorage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
