package mongo

import (
	"context"
	"errors"
	"time"

	"stratum/internal/metrics"
	"stratum/internal/storage/types"
	"stratum/pkg/filter"
	"stratum/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (e *Engine) Add(ctx context.Context, collection string, docs []model.Document) (count int64, inserted []model.Document, err error) {
	defer func(start time.Time) { metrics.ObserveOp("add", collection, start, err) }(time.Now())

	coll, err := e.collection(collection)
	if err != nil {
		return 0, nil, err
	}
	if len(docs) == 0 {
		return 0, nil, nil
	}

	payload := make([]interface{}, len(docs))
	for i, doc := range docs {
		payload[i] = doc
	}

	result, err := coll.InsertMany(ctx, payload)
	if err != nil {
		return 0, nil, &model.BackendError{Op: "add", Collection: collection, Err: model.WrapError(err)}
	}
	return int64(len(result.InsertedIDs)), docs, nil
}

func (e *Engine) Remove(ctx context.Context, collection string, f *filter.Filter) (count int64, err error) {
	defer func(start time.Time) { metrics.ObserveOp("remove", collection, start, err) }(time.Now())

	coll, err := e.collection(collection)
	if err != nil {
		return 0, err
	}
	query, err := compileFilter(f)
	if err != nil {
		return 0, err
	}

	result, err := coll.DeleteMany(ctx, query)
	if err != nil {
		return 0, &model.BackendError{Op: "remove", Collection: collection, Err: model.WrapError(err)}
	}
	return result.DeletedCount, nil
}

func (e *Engine) RemoveField(ctx context.Context, collection string, field string, f *filter.Filter) (count int64, err error) {
	defer func(start time.Time) { metrics.ObserveOp("remove_field", collection, start, err) }(time.Now())

	coll, err := e.collection(collection)
	if err != nil {
		return 0, err
	}
	if field == "" {
		return 0, model.Validationf(field, "field name is required")
	}
	query, err := compileFilter(f)
	if err != nil {
		return 0, err
	}

	result, err := coll.UpdateMany(ctx, query, bson.M{"$unset": bson.M{field: ""}})
	if err != nil {
		return 0, &model.BackendError{Op: "remove_field", Collection: collection, Err: model.WrapError(err)}
	}
	return result.ModifiedCount, nil
}

// UpdateOne sets the fields of data on the first matching document. Fields
// are merged, never a wholesale replace.
func (e *Engine) UpdateOne(ctx context.Context, collection string, f *filter.Filter, data model.Document) (count int64, err error) {
	defer func(start time.Time) { metrics.ObserveOp("update_one", collection, start, err) }(time.Now())

	coll, err := e.collection(collection)
	if err != nil {
		return 0, err
	}
	query, err := compileFilter(f)
	if err != nil {
		return 0, err
	}

	result, err := coll.UpdateOne(ctx, query, bson.M{"$set": bson.M(data)})
	if err != nil {
		return 0, &model.BackendError{Op: "update_one", Collection: collection, Err: model.WrapError(err)}
	}
	return result.ModifiedCount, nil
}

// Get runs a count over the unbounded filter plus a bounded find
// (skip = page*limit) and returns the page with its pagination metadata.
func (e *Engine) Get(ctx context.Context, collection string, f *filter.Filter, opts types.GetOptions) (docs []model.Document, page *types.Pagination, err error) {
	defer func(start time.Time) { metrics.ObserveOp("get", collection, start, err) }(time.Now())

	coll, err := e.collection(collection)
	if err != nil {
		return nil, nil, err
	}
	opts = opts.WithDefaults()

	query, err := compileFilter(f)
	if err != nil {
		return nil, nil, err
	}
	projection, err := compileProjection(opts.Fields)
	if err != nil {
		return nil, nil, err
	}
	sortSpec, err := compileSort(opts.Sort, f)
	if err != nil {
		return nil, nil, err
	}

	size, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, nil, &model.BackendError{Op: "get", Collection: collection, Err: model.WrapError(err)}
	}

	findOpts := options.Find().
		SetProjection(projection).
		SetSkip(opts.Page * opts.Limit).
		SetLimit(opts.Limit)
	if sortSpec != nil {
		findOpts.SetSort(sortSpec)
	}

	cursor, err := coll.Find(ctx, query, findOpts)
	if err != nil {
		return nil, nil, &model.BackendError{Op: "get", Collection: collection, Err: model.WrapError(err)}
	}
	defer cursor.Close(ctx)

	docs = []model.Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, nil, &model.BackendError{Op: "get", Collection: collection, Err: model.WrapError(err)}
	}

	return docs, types.NewPagination(size, opts.Limit, opts.Page), nil
}

// GetOne returns the first match or nil; no document is not an error.
func (e *Engine) GetOne(ctx context.Context, collection string, f *filter.Filter, fields *types.Fields) (doc model.Document, err error) {
	defer func(start time.Time) { metrics.ObserveOp("get_one", collection, start, err) }(time.Now())

	coll, err := e.collection(collection)
	if err != nil {
		return nil, err
	}
	query, err := compileFilter(f)
	if err != nil {
		return nil, err
	}
	projection, err := compileProjection(fields)
	if err != nil {
		return nil, err
	}

	doc = model.Document{}
	err = coll.FindOne(ctx, query, options.FindOne().SetProjection(projection)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, &model.BackendError{Op: "get_one", Collection: collection, Err: model.WrapError(err)}
	}
	return doc, nil
}
