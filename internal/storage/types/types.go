// Package types defines the backend-agnostic storage engine contract.
package types

import (
	"context"
	"math"

	"stratum/pkg/filter"
	"stratum/pkg/model"
)

// DefaultLimit is the page size used when GetOptions.Limit is unset.
const DefaultLimit = 10

// Direction is a sort direction for one field.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
	// TextScore sorts by full-text relevance. Only valid when the filter
	// carries a SEARCH operation.
	TextScore Direction = "score"
)

// Sort maps field names to sort directions.
type Sort map[string]Direction

// Fields selects a projection: include some fields XOR exclude some fields,
// never both.
type Fields struct {
	Include []string
	Exclude []string
}

// Validate rejects a projection naming both include and exclude lists.
func (f *Fields) Validate() error {
	if f == nil {
		return nil
	}
	if len(f.Include) > 0 && len(f.Exclude) > 0 {
		return model.Validationf("", "fields must include or exclude, not both")
	}
	return nil
}

// GetOptions carries the paging, projection and sort parameters of a Get.
type GetOptions struct {
	Fields *Fields
	Limit  int64
	Page   int64
	Sort   Sort
}

// WithDefaults fills in the default limit and clamps the page to zero.
func (o GetOptions) WithDefaults() GetOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Page < 0 {
		o.Page = 0
	}
	return o
}

// Pagination describes the served page. Size is the total matching document
// count ignoring skip/limit; Page is the zero-based page actually served.
type Pagination struct {
	Limit int64 `json:"limit"`
	Page  int64 `json:"page"`
	Pages int64 `json:"pages"`
	Size  int64 `json:"size"`
}

// NewPagination computes page metadata. Pages is ceil(size/limit), zero when
// nothing matches.
func NewPagination(size, limit, page int64) *Pagination {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Pagination{
		Limit: limit,
		Page:  page,
		Pages: int64(math.Ceil(float64(size) / float64(limit))),
		Size:  size,
	}
}

// IndexField is one field of an index key, in key order.
type IndexField struct {
	Field      string
	Descending bool
}

// Index describes a secondary index on a collection.
type Index struct {
	Name   string
	Fields []IndexField
	Unique bool
}

// Engine is the storage contract any concrete document backend implements.
// All operations are round trips to an external service and honor ctx.
// Every operation except Connect fails with model.ErrNotConnected until
// Connect has completed.
type Engine interface {
	// Connect establishes the backend connection. Not safe to race; call once.
	Connect(ctx context.Context) error

	// Close tears the connection down. Safe to call when never connected.
	Close(ctx context.Context) error

	// Add inserts documents and returns the inserted count and documents.
	Add(ctx context.Context, collection string, docs []model.Document) (int64, []model.Document, error)

	// Remove deletes every document matching the filter.
	Remove(ctx context.Context, collection string, f *filter.Filter) (int64, error)

	// RemoveField unsets one field from every document matching the filter.
	RemoveField(ctx context.Context, collection string, field string, f *filter.Filter) (int64, error)

	// UpdateOne merge-updates the first document matching the filter: data
	// fields are set, the rest of the document is left alone.
	UpdateOne(ctx context.Context, collection string, f *filter.Filter, data model.Document) (int64, error)

	// Get returns one page of matching documents plus pagination metadata.
	Get(ctx context.Context, collection string, f *filter.Filter, opts GetOptions) ([]model.Document, *Pagination, error)

	// GetOne returns the first matching document, or nil when none matches.
	// An empty result is not an error.
	GetOne(ctx context.Context, collection string, f *filter.Filter, fields *Fields) (model.Document, error)

	GetIndexes(ctx context.Context, collection string) ([]Index, error)
	CreateIndexes(ctx context.Context, collection string, indexes []Index) ([]string, error)
	DropIndex(ctx context.Context, collection string, name string) error

	// RenameCollection fails with model.ErrNotFound when the source
	// collection does not exist.
	RenameCollection(ctx context.Context, oldName, newName string) error

	// RemoveCollection fails with model.ErrNotFound when the collection
	// does not exist.
	RemoveCollection(ctx context.Context, name string) error
}
