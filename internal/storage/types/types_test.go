package types

import (
	"testing"

	"stratum/pkg/model"

	"github.com/stretchr/testify/assert"
)

func TestFieldsValidate(t *testing.T) {
	var nilFields *Fields
	assert.NoError(t, nilFields.Validate())

	assert.NoError(t, (&Fields{Include: []string{"a"}}).Validate())
	assert.NoError(t, (&Fields{Exclude: []string{"a"}}).Validate())

	err := (&Fields{Include: []string{"a"}, Exclude: []string{"b"}}).Validate()
	assert.True(t, model.IsValidation(err))
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name  string
		size  int64
		limit int64
		page  int64
		pages int64
	}{
		{"exact division", 20, 10, 0, 2},
		{"remainder rounds up", 21, 10, 1, 3},
		{"smaller than one page", 3, 10, 0, 1},
		{"empty result", 0, 10, 0, 0},
		{"limit one", 5, 1, 4, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.size, tt.limit, tt.page)
			assert.Equal(t, tt.pages, p.Pages)
			assert.Equal(t, tt.size, p.Size)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.page, p.Page)
		})
	}
}

func TestGetOptionsWithDefaults(t *testing.T) {
	opts := GetOptions{}.WithDefaults()
	assert.Equal(t, int64(DefaultLimit), opts.Limit)
	assert.Equal(t, int64(0), opts.Page)

	opts = GetOptions{Limit: 50, Page: -3}.WithDefaults()
	assert.Equal(t, int64(50), opts.Limit)
	assert.Equal(t, int64(0), opts.Page)
}
