package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LazyCollection resolves its backing collection through the provider on
// every call, so repository operations pick up reconnections instead of
// holding a handle to a discarded client.
type LazyCollection struct {
	provider *Provider
	name     string
}

func NewLazyCollection(provider *Provider, name string) *LazyCollection {
	return &LazyCollection{provider: provider, name: name}
}

func (l *LazyCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	coll, err := l.provider.Collection(ctx, l.name)
	if err != nil {
		return nil, err
	}
	return coll.InsertOne(ctx, document, opts...)
}

func (l *LazyCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	coll, err := l.provider.Collection(ctx, l.name)
	if err != nil {
		// A nil document would surface as ErrNoDocuments and hide the
		// connection failure from callers.
		return mongo.NewSingleResultFromDocument(bson.D{}, err, nil)
	}
	return coll.FindOne(ctx, filter, opts...)
}

func (l *LazyCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	coll, err := l.provider.Collection(ctx, l.name)
	if err != nil {
		return nil, err
	}
	return coll.Find(ctx, filter, opts...)
}

func (l *LazyCollection) FindOneAndUpdate(ctx context.Context, filter, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	coll, err := l.provider.Collection(ctx, l.name)
	if err != nil {
		// A nil document would surface as ErrNoDocuments and hide the
		// connection failure from callers.
		return mongo.NewSingleResultFromDocument(bson.D{}, err, nil)
	}
	return coll.FindOneAndUpdate(ctx, filter, update, opts...)
}

func (l *LazyCollection) UpdateOne(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	coll, err := l.provider.Collection(ctx, l.name)
	if err != nil {
		return nil, err
	}
	return coll.UpdateOne(ctx, filter, update, opts...)
}

func (l *LazyCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	coll, err := l.provider.Collection(ctx, l.name)
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, filter, opts...)
}

func (l *LazyCollection) Distinct(ctx context.Context, fieldName string, filter interface{}, opts ...*options.DistinctOptions) ([]interface{}, error) {
	coll, err := l.provider.Collection(ctx, l.name)
	if err != nil {
		return nil, err
	}
	return coll.Distinct(ctx, fieldName, filter, opts...)
}
