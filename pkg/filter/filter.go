// Package filter implements the backend-agnostic query expression tree.
// A Filter is built fluently, validated eagerly, and compiled by a storage
// backend into its native query representation.
package filter

import (
	"regexp"
	"time"

	"stratum/pkg/model"
)

// Op identifies the kind of an Operation node.
type Op string

const (
	OpEqual            Op = "EQUAL"
	OpNotEqual         Op = "NOT_EQUAL"
	OpGreaterThan      Op = "GREATER_THAN"
	OpGreaterThanEqual Op = "GREATER_THAN_EQUAL"
	OpLesserThan       Op = "LESSER_THAN"
	OpLesserThanEqual  Op = "LESSER_THAN_EQUAL"
	OpIn               Op = "IN"
	OpNotIn            Op = "NOT_IN"
	OpRegex            Op = "REGEX"
	OpExists           Op = "EXISTS"
	OpSearch           Op = "SEARCH"
	OpAnd              Op = "AND"
	OpOr               Op = "OR"
	OpNor              Op = "NOR"
)

// Operation is one node of a Filter. The concrete types below form a closed
// set; a backend compiler switches over them exhaustively and must reject any
// kind it does not know.
type Operation interface {
	Op() Op
}

// Comparison matches a field against a scalar value.
type Comparison struct {
	Kind  Op
	Field string
	Value interface{}
}

func (c *Comparison) Op() Op { return c.Kind }

// Membership matches a field against a set of scalar values.
type Membership struct {
	Kind   Op
	Field  string
	Values []interface{}
}

func (m *Membership) Op() Op { return m.Kind }

// Pattern matches a field against a regular expression.
type Pattern struct {
	Field string
	Expr  *regexp.Regexp
}

func (p *Pattern) Op() Op { return OpRegex }

// Existence matches on the presence or absence of a field.
type Existence struct {
	Field   string
	Present bool
}

func (e *Existence) Op() Op { return OpExists }

// FullText matches documents by full-text relevance. Semantics of multiple
// FullText nodes in one tree are backend-defined.
type FullText struct {
	Text string
}

func (s *FullText) Op() Op { return OpSearch }

// Logical combines sub-filters with AND, OR or NOR. A Filter holds at most
// one Logical node per kind; repeated calls accumulate sub-filters on the
// existing node.
type Logical struct {
	Kind    Op
	Filters []*Filter
}

func (l *Logical) Op() Op { return l.Kind }

// Filter is an append-only, ordered sequence of Operations. Builder methods
// return the receiver for fluent composition and record the first validation
// failure, surfaced by Err. A Filter with a recorded error is rejected by the
// storage engine before any query runs.
type Filter struct {
	ops     []Operation
	logical map[Op]*Logical
	err     error
}

// New returns an empty Filter.
func New() *Filter {
	return &Filter{logical: make(map[Op]*Logical)}
}

// Err returns the first validation failure recorded during construction.
func (f *Filter) Err() error { return f.err }

// Operations returns a copy of the operation list. The tree itself is not
// deep-copied; callers must treat the nodes as read-only.
func (f *Filter) Operations() []Operation {
	return append([]Operation(nil), f.ops...)
}

func (f *Filter) fail(err error) *Filter {
	if f.err == nil {
		f.err = err
	}
	return f
}

// validValue reports whether v is an allowed scalar: numeric, string, bool
// or time.Time. Maps, slices and structs are rejected, never coerced.
func validValue(v interface{}) bool {
	switch v.(type) {
	case string, bool, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

func (f *Filter) comparison(kind Op, field string, value interface{}) *Filter {
	if f.err != nil {
		return f
	}
	if field == "" {
		return f.fail(model.Validationf(field, "%s requires a field name", kind))
	}
	if !validValue(value) {
		return f.fail(model.Validationf(field, "%s value must be a number, string, boolean or time, got %T", kind, value))
	}
	f.ops = append(f.ops, &Comparison{Kind: kind, Field: field, Value: value})
	return f
}

func (f *Filter) Equal(field string, value interface{}) *Filter {
	return f.comparison(OpEqual, field, value)
}

func (f *Filter) NotEqual(field string, value interface{}) *Filter {
	return f.comparison(OpNotEqual, field, value)
}

func (f *Filter) GreaterThan(field string, value interface{}) *Filter {
	return f.comparison(OpGreaterThan, field, value)
}

func (f *Filter) GreaterThanEqual(field string, value interface{}) *Filter {
	return f.comparison(OpGreaterThanEqual, field, value)
}

func (f *Filter) LesserThan(field string, value interface{}) *Filter {
	return f.comparison(OpLesserThan, field, value)
}

func (f *Filter) LesserThanEqual(field string, value interface{}) *Filter {
	return f.comparison(OpLesserThanEqual, field, value)
}

func (f *Filter) membership(kind Op, field string, values []interface{}) *Filter {
	if f.err != nil {
		return f
	}
	if field == "" {
		return f.fail(model.Validationf(field, "%s requires a field name", kind))
	}
	if values == nil {
		return f.fail(model.Validationf(field, "%s requires a value list", kind))
	}
	for _, v := range values {
		if !validValue(v) {
			return f.fail(model.Validationf(field, "%s values must be numbers, strings, booleans or times, got %T", kind, v))
		}
	}
	f.ops = append(f.ops, &Membership{Kind: kind, Field: field, Values: append([]interface{}(nil), values...)})
	return f
}

func (f *Filter) In(field string, values []interface{}) *Filter {
	return f.membership(OpIn, field, values)
}

func (f *Filter) NotIn(field string, values []interface{}) *Filter {
	return f.membership(OpNotIn, field, values)
}

func (f *Filter) Regex(field string, expr *regexp.Regexp) *Filter {
	if f.err != nil {
		return f
	}
	if field == "" {
		return f.fail(model.Validationf(field, "REGEX requires a field name"))
	}
	if expr == nil {
		return f.fail(model.Validationf(field, "REGEX requires a compiled regular expression"))
	}
	f.ops = append(f.ops, &Pattern{Field: field, Expr: expr})
	return f
}

func (f *Filter) Exists(field string, present bool) *Filter {
	if f.err != nil {
		return f
	}
	if field == "" {
		return f.fail(model.Validationf(field, "EXISTS requires a field name"))
	}
	f.ops = append(f.ops, &Existence{Field: field, Present: present})
	return f
}

func (f *Filter) Search(text string) *Filter {
	if f.err != nil {
		return f
	}
	if text == "" {
		return f.fail(model.Validationf("", "SEARCH requires a non-empty text"))
	}
	f.ops = append(f.ops, &FullText{Text: text})
	return f
}

// logicalOp appends sub-filters under the logical node of the given kind,
// creating it on first use. One node per kind per Filter: repeat calls
// concatenate, they never create a sibling node.
func (f *Filter) logicalOp(kind Op, subs []*Filter) *Filter {
	if f.err != nil {
		return f
	}
	if len(subs) == 0 {
		return f.fail(model.Validationf("", "%s requires at least one sub-filter", kind))
	}
	for _, sub := range subs {
		if sub == nil {
			return f.fail(model.Validationf("", "%s sub-filters must not be nil", kind))
		}
		if sub.err != nil {
			return f.fail(sub.err)
		}
	}

	if node, ok := f.logical[kind]; ok {
		node.Filters = append(node.Filters, subs...)
		return f
	}

	node := &Logical{Kind: kind, Filters: append([]*Filter(nil), subs...)}
	f.logical[kind] = node
	f.ops = append(f.ops, node)
	return f
}

func (f *Filter) And(subs ...*Filter) *Filter { return f.logicalOp(OpAnd, subs) }

func (f *Filter) Or(subs ...*Filter) *Filter { return f.logicalOp(OpOr, subs) }

func (f *Filter) Nor(subs ...*Filter) *Filter { return f.logicalOp(OpNor, subs) }
