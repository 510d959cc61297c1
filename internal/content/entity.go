// Package content implements the entity model and its access-controlled
// decorator over the storage engine.
package content

import (
	"context"

	"stratum/internal/storage/types"
	"stratum/pkg/filter"
	"stratum/pkg/model"

	"github.com/google/uuid"
)

// Entity is the generic CRUD wrapper for one collection. It assigns
// identifiers at creation and otherwise passes straight through to the
// engine. It carries no authorization; see Content for that.
type Entity struct {
	engine     types.Engine
	collection string
}

// NewEntity binds an entity model to a collection.
func NewEntity(engine types.Engine, collection string) *Entity {
	return &Entity{engine: engine, collection: collection}
}

// Collection returns the backing collection name.
func (m *Entity) Collection() string { return m.collection }

// Add assigns a fresh identifier to each document and inserts them. The
// identifier is always model-assigned, never caller-supplied.
func (m *Entity) Add(ctx context.Context, docs ...model.Document) ([]model.Document, error) {
	for _, doc := range docs {
		doc.SetID(uuid.New().String())
	}
	_, inserted, err := m.engine.Add(ctx, m.collection, docs)
	return inserted, err
}

func (m *Entity) Get(ctx context.Context, f *filter.Filter, opts types.GetOptions) ([]model.Document, *types.Pagination, error) {
	return m.engine.Get(ctx, m.collection, f, opts)
}

func (m *Entity) GetOne(ctx context.Context, f *filter.Filter, fields *types.Fields) (model.Document, error) {
	return m.engine.GetOne(ctx, m.collection, f, fields)
}

// GetByID is a convenience lookup on the model-assigned identifier.
func (m *Entity) GetByID(ctx context.Context, id string) (model.Document, error) {
	return m.engine.GetOne(ctx, m.collection, filter.New().Equal("id", id), nil)
}

func (m *Entity) Update(ctx context.Context, f *filter.Filter, data model.Document) (int64, error) {
	return m.engine.UpdateOne(ctx, m.collection, f, data)
}

func (m *Entity) Remove(ctx context.Context, f *filter.Filter) (int64, error) {
	return m.engine.Remove(ctx, m.collection, f)
}

func (m *Entity) RemoveField(ctx context.Context, field string, f *filter.Filter) (int64, error) {
	return m.engine.RemoveField(ctx, m.collection, field, f)
}
