package mongo

import (
	"context"
	"time"

	"stratum/internal/metrics"
	"stratum/internal/storage/types"
	"stratum/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (e *Engine) GetIndexes(ctx context.Context, collection string) (indexes []types.Index, err error) {
	defer func(start time.Time) { metrics.ObserveOp("get_indexes", collection, start, err) }(time.Now())

	coll, err := e.collection(collection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, &model.BackendError{Op: "get_indexes", Collection: collection, Err: model.WrapError(err)}
	}
	defer cursor.Close(ctx)

	var specs []bson.M
	if err := cursor.All(ctx, &specs); err != nil {
		return nil, &model.BackendError{Op: "get_indexes", Collection: collection, Err: model.WrapError(err)}
	}

	indexes = make([]types.Index, 0, len(specs))
	for _, spec := range specs {
		index := types.Index{}
		if name, ok := spec["name"].(string); ok {
			index.Name = name
		}
		if unique, ok := spec["unique"].(bool); ok {
			index.Unique = unique
		}
		if key, ok := spec["key"].(bson.M); ok {
			for field, order := range key {
				index.Fields = append(index.Fields, types.IndexField{
					Field:      field,
					Descending: toInt(order) < 0,
				})
			}
		}
		indexes = append(indexes, index)
	}
	return indexes, nil
}

func (e *Engine) CreateIndexes(ctx context.Context, collection string, indexes []types.Index) (names []string, err error) {
	defer func(start time.Time) { metrics.ObserveOp("create_indexes", collection, start, err) }(time.Now())

	coll, err := e.collection(collection)
	if err != nil {
		return nil, err
	}
	if len(indexes) == 0 {
		return nil, nil
	}

	models := make([]mongo.IndexModel, 0, len(indexes))
	for _, index := range indexes {
		keys := bson.D{}
		for _, field := range index.Fields {
			order := 1
			if field.Descending {
				order = -1
			}
			keys = append(keys, bson.E{Key: field.Field, Value: order})
		}

		opts := options.Index().SetUnique(index.Unique)
		if index.Name != "" {
			opts.SetName(index.Name)
		}
		models = append(models, mongo.IndexModel{Keys: keys, Options: opts})
	}

	names, err = coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return nil, &model.BackendError{Op: "create_indexes", Collection: collection, Err: model.WrapError(err)}
	}
	return names, nil
}

func (e *Engine) DropIndex(ctx context.Context, collection string, name string) (err error) {
	defer func(start time.Time) { metrics.ObserveOp("drop_index", collection, start, err) }(time.Now())

	coll, err := e.collection(collection)
	if err != nil {
		return err
	}
	if name == "" {
		return model.Validationf("name", "index name is required")
	}

	if _, err := coll.Indexes().DropOne(ctx, name); err != nil {
		return &model.BackendError{Op: "drop_index", Collection: collection, Err: model.WrapError(err)}
	}
	return nil
}

// RenameCollection enumerates collections first so a missing source fails
// with a predictable not-found instead of the backend's native rename error.
func (e *Engine) RenameCollection(ctx context.Context, oldName, newName string) (err error) {
	defer func(start time.Time) { metrics.ObserveOp("rename_collection", oldName, start, err) }(time.Now())

	db, err := e.database()
	if err != nil {
		return err
	}

	exists, err := e.collectionExists(ctx, db, oldName)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrNotFound
	}

	command := bson.D{
		{Key: "renameCollection", Value: db.Name() + "." + oldName},
		{Key: "to", Value: db.Name() + "." + newName},
	}
	if err := db.Client().Database("admin").RunCommand(ctx, command).Err(); err != nil {
		return &model.BackendError{Op: "rename_collection", Collection: oldName, Err: model.WrapError(err)}
	}
	return nil
}

func (e *Engine) RemoveCollection(ctx context.Context, name string) (err error) {
	defer func(start time.Time) { metrics.ObserveOp("remove_collection", name, start, err) }(time.Now())

	db, err := e.database()
	if err != nil {
		return err
	}

	exists, err := e.collectionExists(ctx, db, name)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrNotFound
	}

	if err := db.Collection(name).Drop(ctx); err != nil {
		return &model.BackendError{Op: "remove_collection", Collection: name, Err: model.WrapError(err)}
	}
	return nil
}

func (e *Engine) collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, &model.BackendError{Op: "list_collections", Err: model.WrapError(err)}
	}
	return len(names) > 0, nil
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
