package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration // connect and ping timeout, default 10s
}

// MongoStore keeps records in a MongoDB collection with a unique index on
// the canonical text.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects, pings the server and ensures the unique index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "canonical", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("canonical_unique"),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

// Register upserts with $setOnInsert, so concurrent registrations of the
// same structure converge on one document.
func (s *MongoStore) Register(ctx context.Context, rec Record) (Record, bool, error) {
	rec, err := prepare(rec)
	if err != nil {
		return Record{}, false, err
	}

	filter := bson.D{{Key: "canonical", Value: rec.Canonical}}
	update := bson.D{{Key: "$setOnInsert", Value: rec}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out Record
	err = s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	if mongo.IsDuplicateKeyError(err) {
		// Lost an upsert race; the winner's document is there now.
		out, err = s.Lookup(ctx, rec.Canonical)
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("register %q: %w", rec.Canonical, err)
	}
	return out, out.ID == rec.ID, nil
}

func (s *MongoStore) Lookup(ctx context.Context, canonical string) (Record, error) {
	return s.findOne(ctx, bson.D{{Key: "canonical", Value: canonical}})
}

func (s *MongoStore) Get(ctx context.Context, id string) (Record, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.D) (Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, filter).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("find record: %w", err)
	}
	return rec, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
