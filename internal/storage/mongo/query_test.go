package mongo

import (
	"regexp"
	"testing"

	"stratum/internal/storage/types"
	"stratum/pkg/filter"
	"stratum/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCompileFilterComparisons(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *filter.Filter
		expected bson.M
	}{
		{
			name:     "equal",
			build:    func() *filter.Filter { return filter.New().Equal("name", "alice") },
			expected: bson.M{"name": bson.M{"$eq": "alice"}},
		},
		{
			name:     "not equal",
			build:    func() *filter.Filter { return filter.New().NotEqual("name", "bob") },
			expected: bson.M{"name": bson.M{"$ne": "bob"}},
		},
		{
			name:     "greater than",
			build:    func() *filter.Filter { return filter.New().GreaterThan("age", 30) },
			expected: bson.M{"age": bson.M{"$gt": 30}},
		},
		{
			name:     "greater than equal",
			build:    func() *filter.Filter { return filter.New().GreaterThanEqual("age", 30) },
			expected: bson.M{"age": bson.M{"$gte": 30}},
		},
		{
			name:     "lesser than",
			build:    func() *filter.Filter { return filter.New().LesserThan("age", 30) },
			expected: bson.M{"age": bson.M{"$lt": 30}},
		},
		{
			name:     "lesser than equal",
			build:    func() *filter.Filter { return filter.New().LesserThanEqual("age", 30) },
			expected: bson.M{"age": bson.M{"$lte": 30}},
		},
		{
			name:     "range merges into one clause",
			build:    func() *filter.Filter { return filter.New().GreaterThan("age", 18).LesserThan("age", 65) },
			expected: bson.M{"age": bson.M{"$gt": 18, "$lt": 65}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := compileFilter(tt.build())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, query)
		})
	}
}

func TestCompileFilterMembership(t *testing.T) {
	query, err := compileFilter(filter.New().In("status", []interface{}{"a", "b"}))
	require.NoError(t, err)
	assert.Equal(t, bson.M{"status": bson.M{"$in": []interface{}{"a", "b"}}}, query)

	query, err = compileFilter(filter.New().NotIn("status", []interface{}{"c"}))
	require.NoError(t, err)
	assert.Equal(t, bson.M{"status": bson.M{"$nin": []interface{}{"c"}}}, query)
}

func TestCompileFilterPatternExistsSearch(t *testing.T) {
	query, err := compileFilter(filter.New().Regex("name", regexp.MustCompile("^al")))
	require.NoError(t, err)
	assert.Equal(t, bson.M{"name": bson.M{"$regex": primitive.Regex{Pattern: "^al"}}}, query)

	query, err = compileFilter(filter.New().Exists("email", false))
	require.NoError(t, err)
	assert.Equal(t, bson.M{"email": bson.M{"$exists": false}}, query)

	query, err = compileFilter(filter.New().Search("hello world"))
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$text": bson.M{"$search": "hello world"}}, query)
}

func TestCompileFilterLogical(t *testing.T) {
	f := filter.New().Or(
		filter.New().Equal("a", 1),
		filter.New().Nor(filter.New().Equal("b", 2)),
	)

	query, err := compileFilter(f)
	require.NoError(t, err)
	assert.Equal(t, bson.M{
		"$or": bson.A{
			bson.M{"a": bson.M{"$eq": 1}},
			bson.M{"$nor": bson.A{bson.M{"b": bson.M{"$eq": 2}}}},
		},
	}, query)

	query, err = compileFilter(filter.New().And(filter.New().Equal("a", 1)))
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$and": bson.A{bson.M{"a": bson.M{"$eq": 1}}}}, query)
}

func TestCompileFilterNil(t *testing.T) {
	query, err := compileFilter(nil)
	require.NoError(t, err)
	assert.Equal(t, bson.M{}, query)
}

func TestCompileFilterPropagatesConstructionError(t *testing.T) {
	f := filter.New().Equal("age", map[string]interface{}{"bad": true})

	_, err := compileFilter(f)
	assert.True(t, model.IsValidation(err))
}

func TestCompileProjection(t *testing.T) {
	projection, err := compileProjection(nil)
	require.NoError(t, err)
	assert.Equal(t, bson.M{"_id": 0}, projection, "default projection drops the backend surrogate")

	projection, err = compileProjection(&types.Fields{Include: []string{"name", "age"}})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"name": 1, "age": 1}, projection)

	projection, err = compileProjection(&types.Fields{Exclude: []string{"secret"}})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"secret": 0, "_id": 0}, projection)

	_, err = compileProjection(&types.Fields{Include: []string{"a"}, Exclude: []string{"b"}})
	assert.True(t, model.IsValidation(err))
}

func TestCompileSort(t *testing.T) {
	spec, err := compileSort(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, spec)

	spec, err = compileSort(types.Sort{"b": types.Descending, "a": types.Ascending}, nil)
	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Key: "a", Value: 1},
		{Key: "b", Value: -1},
	}, spec, "field order is deterministic")
}

func TestCompileSortTextScore(t *testing.T) {
	sort := types.Sort{"relevance": types.TextScore}

	_, err := compileSort(sort, filter.New().Equal("a", 1))
	assert.True(t, model.IsValidation(err), "score without SEARCH is rejected")

	spec, err := compileSort(sort, filter.New().Search("query"))
	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Key: "relevance", Value: bson.M{"$meta": "textScore"}},
	}, spec)
}

func TestCompileSortUnknownDirection(t *testing.T) {
	_, err := compileSort(types.Sort{"a": "sideways"}, nil)
	assert.True(t, model.IsValidation(err))
}
