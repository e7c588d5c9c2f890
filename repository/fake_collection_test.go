package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeCollection satisfies Collection with overridable behavior per call.
// Unset functions return benign zero results so tests only wire what the
// path under test touches.
type fakeCollection struct {
	insertCalls int
	updateCalls int

	insertOneFn        func(document interface{}) (*mongo.InsertOneResult, error)
	findOneFn          func(filter interface{}) *mongo.SingleResult
	findFn             func(filter interface{}, opts *options.FindOptions) (*mongo.Cursor, error)
	findOneAndUpdateFn func(filter, update interface{}) *mongo.SingleResult
	updateOneFn        func(filter, update interface{}) (*mongo.UpdateResult, error)
	countFn            func(filter interface{}) (int64, error)
	distinctFn         func(fieldName string, filter interface{}) ([]interface{}, error)
}

func (f *fakeCollection) InsertOne(_ context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	f.insertCalls++
	if f.insertOneFn == nil {
		return &mongo.InsertOneResult{}, nil
	}
	return f.insertOneFn(document)
}

func (f *fakeCollection) FindOne(_ context.Context, filter interface{}, _ ...*options.FindOneOptions) *mongo.SingleResult {
	if f.findOneFn == nil {
		// The constructor maps a nil document to ErrNilDocument and drops
		// the passed error, so a placeholder document carries it through.
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return f.findOneFn(filter)
}

func (f *fakeCollection) Find(_ context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	if f.findFn == nil {
		return mongo.NewCursorFromDocuments([]interface{}{}, nil, nil)
	}
	return f.findFn(filter, options.MergeFindOptions(opts...))
}

func (f *fakeCollection) FindOneAndUpdate(_ context.Context, filter, update interface{}, _ ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	if f.findOneAndUpdateFn == nil {
		// The constructor maps a nil document to ErrNilDocument and drops
		// the passed error, so a placeholder document carries it through.
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return f.findOneAndUpdateFn(filter, update)
}

func (f *fakeCollection) UpdateOne(_ context.Context, filter, update interface{}, _ ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	f.updateCalls++
	if f.updateOneFn == nil {
		return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}
	return f.updateOneFn(filter, update)
}

func (f *fakeCollection) CountDocuments(_ context.Context, filter interface{}, _ ...*options.CountOptions) (int64, error) {
	if f.countFn == nil {
		return 0, nil
	}
	return f.countFn(filter)
}

func (f *fakeCollection) Distinct(_ context.Context, fieldName string, filter interface{}, _ ...*options.DistinctOptions) ([]interface{}, error) {
	if f.distinctFn == nil {
		return []interface{}{}, nil
	}
	return f.distinctFn(fieldName, filter)
}

// duplicateKeyErr mirrors the server's unique-index violation.
func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{
		{Code: 11000, Message: "E11000 duplicate key error"},
	}}
}

func documentsCursor(docs ...interface{}) (*mongo.Cursor, error) {
	return mongo.NewCursorFromDocuments(docs, nil, nil)
}

func singleResult(doc interface{}) *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(doc, nil, nil)
}
