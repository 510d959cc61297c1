package filter

// Lookup helpers are read-only, depth-first traversals. They never mutate the
// tree and return nil (or false) on absence rather than an error, so callers
// can probe composed filters without prior knowledge of their structure.

// walk visits every operation in insertion order, descending into logical
// nodes before moving to the next sibling. It stops when fn returns true.
func walk(f *Filter, fn func(Operation) bool) bool {
	if f == nil {
		return false
	}
	for _, op := range f.ops {
		if fn(op) {
			return true
		}
		if logical, ok := op.(*Logical); ok {
			for _, sub := range logical.Filters {
				if walk(sub, fn) {
					return true
				}
			}
		}
	}
	return false
}

// HasOperation reports whether an operation of the given kind exists anywhere
// in the tree. For field-carrying operations a non-empty field narrows the
// match to that field.
func (f *Filter) HasOperation(kind Op, field string) bool {
	return walk(f, func(op Operation) bool {
		if op.Op() != kind {
			return false
		}
		if field == "" {
			return true
		}
		return operationField(op) == field
	})
}

// Comparison returns the first comparison operation of the given kind on the
// given field, including matches nested inside logical operations, or nil.
func (f *Filter) Comparison(kind Op, field string) *Comparison {
	var found *Comparison
	walk(f, func(op Operation) bool {
		cmp, ok := op.(*Comparison)
		if ok && cmp.Kind == kind && cmp.Field == field {
			found = cmp
			return true
		}
		return false
	})
	return found
}

// LogicalOperation returns the first logical operation of the given kind,
// including matches nested inside other logical operations, or nil.
func (f *Filter) LogicalOperation(kind Op) *Logical {
	var found *Logical
	walk(f, func(op Operation) bool {
		logical, ok := op.(*Logical)
		if ok && logical.Kind == kind {
			found = logical
			return true
		}
		return false
	})
	return found
}

func operationField(op Operation) string {
	switch node := op.(type) {
	case *Comparison:
		return node.Field
	case *Membership:
		return node.Field
	case *Pattern:
		return node.Field
	case *Existence:
		return node.Field
	}
	return ""
}
