package content

import (
	"context"
	"strings"
	"sync"

	"stratum/internal/storage/types"
	"stratum/pkg/filter"
	"stratum/pkg/model"
)

// fakeEngine is an in-memory Engine with just enough filter evaluation for
// the model layer: comparisons, membership and logical nodes.
type fakeEngine struct {
	mu   sync.Mutex
	data map[string][]model.Document
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{data: make(map[string][]model.Document)}
}

func (e *fakeEngine) Connect(ctx context.Context) error { return nil }
func (e *fakeEngine) Close(ctx context.Context) error   { return nil }

func (e *fakeEngine) Add(ctx context.Context, collection string, docs []model.Document) (int64, []model.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data[collection] = append(e.data[collection], docs...)
	return int64(len(docs)), docs, nil
}

func (e *fakeEngine) Remove(ctx context.Context, collection string, f *filter.Filter) (int64, error) {
	if err := filterErr(f); err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	var kept []model.Document
	var removed int64
	for _, doc := range e.data[collection] {
		if matches(doc, f) {
			removed++
			continue
		}
		kept = append(kept, doc)
	}
	e.data[collection] = kept
	return removed, nil
}

func (e *fakeEngine) RemoveField(ctx context.Context, collection string, field string, f *filter.Filter) (int64, error) {
	if err := filterErr(f); err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	var modified int64
	for _, doc := range e.data[collection] {
		if matches(doc, f) && doc.HasKey(field) {
			delete(doc, field)
			modified++
		}
	}
	return modified, nil
}

func (e *fakeEngine) UpdateOne(ctx context.Context, collection string, f *filter.Filter, data model.Document) (int64, error) {
	if err := filterErr(f); err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, doc := range e.data[collection] {
		if matches(doc, f) {
			for k, v := range data {
				setPath(doc, k, v)
			}
			return 1, nil
		}
	}
	return 0, nil
}

// setPath applies one merge-update entry, following dotted keys into nested
// sub-documents the way the real backend does. Missing intermediate
// documents are created.
func setPath(doc model.Document, key string, v interface{}) {
	parts := strings.Split(key, ".")
	cur := map[string]interface{}(doc)
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = v
}

func (e *fakeEngine) Get(ctx context.Context, collection string, f *filter.Filter, opts types.GetOptions) ([]model.Document, *types.Pagination, error) {
	if err := filterErr(f); err != nil {
		return nil, nil, err
	}
	opts = opts.WithDefaults()

	e.mu.Lock()
	defer e.mu.Unlock()

	var matched []model.Document
	for _, doc := range e.data[collection] {
		if matches(doc, f) {
			matched = append(matched, doc)
		}
	}

	size := int64(len(matched))
	start := opts.Page * opts.Limit
	if start > size {
		start = size
	}
	end := start + opts.Limit
	if end > size {
		end = size
	}

	return matched[start:end], types.NewPagination(size, opts.Limit, opts.Page), nil
}

func (e *fakeEngine) GetOne(ctx context.Context, collection string, f *filter.Filter, fields *types.Fields) (model.Document, error) {
	if err := filterErr(f); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, doc := range e.data[collection] {
		if matches(doc, f) {
			return doc, nil
		}
	}
	return nil, nil
}

func (e *fakeEngine) GetIndexes(ctx context.Context, collection string) ([]types.Index, error) {
	return nil, nil
}

func (e *fakeEngine) CreateIndexes(ctx context.Context, collection string, indexes []types.Index) ([]string, error) {
	return nil, nil
}

func (e *fakeEngine) DropIndex(ctx context.Context, collection string, name string) error {
	return nil
}

func (e *fakeEngine) RenameCollection(ctx context.Context, oldName, newName string) error {
	return nil
}

func (e *fakeEngine) RemoveCollection(ctx context.Context, name string) error {
	return nil
}

func filterErr(f *filter.Filter) error {
	if f == nil {
		return nil
	}
	return f.Err()
}

// matches evaluates the filter against a document. Top-level operations are
// conjunctive, like the real backend.
func matches(doc model.Document, f *filter.Filter) bool {
	if f == nil {
		return true
	}
	for _, op := range f.Operations() {
		if !matchOp(doc, op) {
			return false
		}
	}
	return true
}

func matchOp(doc model.Document, op filter.Operation) bool {
	switch node := op.(type) {
	case *filter.Comparison:
		v, ok := doc.Lookup(node.Field)
		if !ok {
			return false
		}
		switch node.Kind {
		case filter.OpEqual:
			return v == node.Value
		case filter.OpNotEqual:
			return v != node.Value
		}
		return false

	case *filter.Membership:
		v, ok := doc.Lookup(node.Field)
		if !ok {
			return node.Kind == filter.OpNotIn
		}
		hit := anyIn(v, node.Values)
		if node.Kind == filter.OpNotIn {
			return !hit
		}
		return hit

	case *filter.Existence:
		_, ok := doc.Lookup(node.Field)
		return ok == node.Present

	case *filter.Logical:
		return matchLogical(doc, node)
	}
	return false
}

// anyIn mirrors the backend's membership semantics: an array field matches
// when any of its elements is in the value set.
func anyIn(v interface{}, values []interface{}) bool {
	contains := func(x interface{}) bool {
		for _, val := range values {
			if x == val {
				return true
			}
		}
		return false
	}

	switch elems := v.(type) {
	case []string:
		for _, e := range elems {
			if contains(e) {
				return true
			}
		}
		return false
	case []interface{}:
		for _, e := range elems {
			if contains(e) {
				return true
			}
		}
		return false
	default:
		return contains(v)
	}
}

func matchLogical(doc model.Document, node *filter.Logical) bool {
	switch node.Kind {
	case filter.OpOr:
		for _, sub := range node.Filters {
			if matches(doc, sub) {
				return true
			}
		}
		return false
	case filter.OpNor:
		for _, sub := range node.Filters {
			if matches(doc, sub) {
				return false
			}
		}
		return true
	default:
		for _, sub := range node.Filters {
			if !matches(doc, sub) {
				return false
			}
		}
		return true
	}
}
