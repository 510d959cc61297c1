package mongo

import (
	"fmt"
	"sort"

	"stratum/internal/storage/types"
	"stratum/pkg/filter"
	"stratum/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// compileFilter maps the abstract tree onto a native query document. The
// mapping is pure and stateless; it is applied recursively to logical
// sub-filters. An operation kind with no mapping is a programmer error, never
// a silently dropped clause.
func compileFilter(f *filter.Filter) (bson.M, error) {
	if f == nil {
		return bson.M{}, nil
	}
	if err := f.Err(); err != nil {
		return nil, err
	}

	query := bson.M{}
	for _, op := range f.Operations() {
		switch node := op.(type) {
		case *filter.Comparison:
			operator, err := comparisonOperator(node.Kind)
			if err != nil {
				return nil, err
			}
			fieldClause(query, node.Field)[operator] = node.Value

		case *filter.Membership:
			operator := "$in"
			if node.Kind == filter.OpNotIn {
				operator = "$nin"
			}
			fieldClause(query, node.Field)[operator] = node.Values

		case *filter.Pattern:
			fieldClause(query, node.Field)["$regex"] = primitive.Regex{Pattern: node.Expr.String()}

		case *filter.Existence:
			fieldClause(query, node.Field)["$exists"] = node.Present

		case *filter.FullText:
			query["$text"] = bson.M{"$search": node.Text}

		case *filter.Logical:
			compiled := make(bson.A, 0, len(node.Filters))
			for _, sub := range node.Filters {
				subQuery, err := compileFilter(sub)
				if err != nil {
					return nil, err
				}
				compiled = append(compiled, subQuery)
			}
			query[logicalOperator(node.Kind)] = compiled

		default:
			return nil, fmt.Errorf("storage/mongo: no mapping for operation %q", op.Op())
		}
	}

	return query, nil
}

// fieldClause returns the operator document for a field, creating it so that
// several operations on the same field merge into one clause.
func fieldClause(query bson.M, field string) bson.M {
	if clause, ok := query[field].(bson.M); ok {
		return clause
	}
	clause := bson.M{}
	query[field] = clause
	return clause
}

func comparisonOperator(kind filter.Op) (string, error) {
	switch kind {
	case filter.OpEqual:
		return "$eq", nil
	case filter.OpNotEqual:
		return "$ne", nil
	case filter.OpGreaterThan:
		return "$gt", nil
	case filter.OpGreaterThanEqual:
		return "$gte", nil
	case filter.OpLesserThan:
		return "$lt", nil
	case filter.OpLesserThanEqual:
		return "$lte", nil
	}
	return "", fmt.Errorf("storage/mongo: no mapping for comparison %q", kind)
}

func logicalOperator(kind filter.Op) string {
	switch kind {
	case filter.OpOr:
		return "$or"
	case filter.OpNor:
		return "$nor"
	default:
		return "$and"
	}
}

// compileProjection maps a field selection onto a native projection. With no
// selection, the minimal projection just drops the backend's internal
// identity surrogate.
func compileProjection(fields *types.Fields) (bson.M, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	projection := bson.M{}
	switch {
	case fields != nil && len(fields.Include) > 0:
		for _, field := range fields.Include {
			projection[field] = 1
		}
	case fields != nil && len(fields.Exclude) > 0:
		for _, field := range fields.Exclude {
			projection[field] = 0
		}
		projection["_id"] = 0
	default:
		projection["_id"] = 0
	}
	return projection, nil
}

// compileSort maps sort directions onto a native sort spec. Field order is
// made deterministic by sorting the keys. TextScore requires a SEARCH
// operation in the filter, since relevance only exists for text queries.
func compileSort(s types.Sort, f *filter.Filter) (bson.D, error) {
	if len(s) == 0 {
		return nil, nil
	}

	fields := make([]string, 0, len(s))
	for field := range s {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	spec := bson.D{}
	for _, field := range fields {
		switch s[field] {
		case types.Ascending:
			spec = append(spec, bson.E{Key: field, Value: 1})
		case types.Descending:
			spec = append(spec, bson.E{Key: field, Value: -1})
		case types.TextScore:
			if f == nil || !f.HasOperation(filter.OpSearch, "") {
				return nil, model.Validationf(field, "score sort requires a SEARCH operation")
			}
			spec = append(spec, bson.E{Key: field, Value: bson.M{"$meta": "textScore"}})
		default:
			return nil, model.Validationf(field, "unknown sort direction %q", s[field])
		}
	}
	return spec, nil
}
