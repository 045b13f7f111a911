package store

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/katakuxiko/askexperts/internal/model"
)

// factCollection is the part of *mongo.Collection the store uses.
type factCollection interface {
	Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongo.Cursor, error)
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
}

// MongoStore reads facts from a MongoDB-API container, such as a Cosmos DB
// for MongoDB account.
type MongoStore struct {
	client *mongo.Client
	coll   factCollection
}

func NewMongoStore(ctx context.Context, uri, database, container string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoStore{client: client, coll: client.Database(database).Collection(container)}, nil
}

func (s *MongoStore) Add(ctx context.Context, fact string) error {
	_, err := s.coll.InsertOne(ctx, model.FactDocument{Fact: fact})
	return err
}

// Snapshot returns every document that has a fact field, in natural order.
// Empty facts are kept so they join into the corpus like any other.
func (s *MongoStore) Snapshot(ctx context.Context) ([]model.FactDocument, error) {
	opts := options.Find().SetProjection(bson.M{"fact": 1, "_id": 0})
	cur, err := s.coll.Find(ctx, bson.M{"fact": bson.M{"$exists": true}}, opts)
	if err != nil {
		return nil, err
	}

	var docs []model.FactDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
