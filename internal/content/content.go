package content

import (
	"context"

	"stratum/internal/storage/types"
	"stratum/pkg/filter"
	"stratum/pkg/model"
)

// Content decorates an Entity with per-user ownership and group
// authorization. Reads are protected by rewriting the filter before it
// reaches storage, so a listing can never leak documents the caller may not
// see. Writes load the target first and evaluate the authorization predicate
// before mutating.
//
// The load-then-write flows are not transactional: a concurrent write between
// the authorization read and the mutation is an accepted race. The check is
// best-effort, not a guarantee.
type Content struct {
	entity *Entity
	user   *model.User
	roles  Roles
}

// NewContent binds an entity model to an acting user. A nil user marks a
// system-internal call, which is always authorized.
func NewContent(entity *Entity, user *model.User, roles Roles) *Content {
	return &Content{entity: entity, user: user, roles: roles}
}

// isAuthorized is the per-entity authorization predicate: super-admin, owner,
// system-internal call, anonymous-owned entity, or a group the caller holds
// the operation on.
func (c *Content) isAuthorized(doc model.Document, op string) bool {
	if c.user == nil {
		return true
	}
	if c.user.ID == c.roles.SuperAdminID() {
		return true
	}

	md := doc.Meta()
	if md.User == c.user.ID {
		return true
	}
	if md.User == c.roles.AnonymousID() {
		return true
	}
	for _, group := range md.Groups {
		if c.user.AllowsGroup(op, group) {
			return true
		}
	}
	return false
}

// unrestricted reports whether the caller bypasses read filtering entirely.
func (c *Content) unrestricted() bool {
	if c.user == nil {
		return true
	}
	if c.user.ID == c.roles.SuperAdminID() {
		return true
	}
	return c.roles.IsManager(c.user)
}

// readFilter conjoins the caller's filter with the access disjunction:
// owned by the caller or the anonymous user, or shared with a group the
// caller may read. Unrestricted callers get the filter back unmodified.
//
// The two trees are combined as AND siblings under a fresh root. The access
// clauses must never be appended onto the caller's filter directly: a caller
// filter already holding an OR node would absorb them into that node and
// widen its own disjunction instead of being constrained by ours.
func (c *Content) readFilter(f *filter.Filter) *filter.Filter {
	if c.unrestricted() {
		return f
	}

	access := []*filter.Filter{
		filter.New().In("metadata.user", []interface{}{c.user.ID, c.roles.AnonymousID()}),
	}
	if groups := c.user.GroupsFor(model.OpGet); len(groups) > 0 {
		access = append(access, filter.New().In("metadata.groups", toValues(groups)))
	}
	guard := filter.New().Or(access...)

	if f == nil {
		return guard
	}
	return filter.New().And(f, guard)
}

// Get returns the first page of readable matches.
func (c *Content) Get(ctx context.Context, f *filter.Filter) ([]model.Document, error) {
	docs, _, err := c.entity.Get(ctx, c.readFilter(f), types.GetOptions{})
	return docs, err
}

// GetPaginated returns one page of readable matches with pagination metadata.
func (c *Content) GetPaginated(ctx context.Context, f *filter.Filter, opts types.GetOptions) ([]model.Document, *types.Pagination, error) {
	return c.entity.Get(ctx, c.readFilter(f), opts)
}

// GetOne delegates to storage unfiltered, then evaluates the authorization
// predicate against the returned entity.
func (c *Content) GetOne(ctx context.Context, f *filter.Filter, fields *types.Fields) (model.Document, error) {
	doc, err := c.entity.GetOne(ctx, f, fields)
	if err != nil || doc == nil {
		return doc, err
	}
	if !c.isAuthorized(doc, model.OpGet) {
		return nil, model.ErrAccessDenied
	}
	return doc, nil
}

// Add stamps ownership metadata onto the new document before delegating.
// Caller-supplied metadata never survives wholesale: the owner is always the
// acting user (or the anonymous user for system calls), only the group list
// is taken from the payload.
func (c *Content) Add(ctx context.Context, doc model.Document) (model.Document, error) {
	owner := c.roles.AnonymousID()
	if c.user != nil {
		owner = c.user.ID
	}
	doc.SetMeta(model.Metadata{User: owner, Groups: doc.Meta().Groups})

	inserted, err := c.entity.Add(ctx, doc)
	if err != nil {
		return nil, err
	}
	return inserted[0], nil
}

// Update loads the target, checks the update predicate, and applies the
// payload. A caller who is not the owner, the super-admin or a manager cannot
// reassign metadata.user; that part of the payload is stripped before the
// write is constructed. Group reassignment stays open to any authorized
// caller.
func (c *Content) Update(ctx context.Context, id string, data model.Document) (int64, error) {
	doc, err := c.entity.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if doc == nil {
		return 0, model.ErrNotFound
	}
	if !c.isAuthorized(doc, model.OpUpdate) {
		return 0, model.ErrAccessDenied
	}

	flattenMetadata(data)
	if !c.mayReassignOwner(doc) {
		delete(data, "metadata.user")
	}

	return c.entity.Update(ctx, filter.New().Equal("id", id), data)
}

func (c *Content) mayReassignOwner(doc model.Document) bool {
	if c.user == nil {
		return true
	}
	if c.user.ID == c.roles.SuperAdminID() || c.roles.IsManager(c.user) {
		return true
	}
	return doc.Meta().User == c.user.ID
}

// flattenMetadata rewrites a nested metadata payload into dotted keys. The
// merge update then touches the named metadata fields individually; a nested
// sub-document would replace metadata wholesale and erase the fields the
// payload never mentioned, the owner included.
func flattenMetadata(data model.Document) {
	var md map[string]interface{}
	switch m := data[model.MetadataKey].(type) {
	case map[string]interface{}:
		md = m
	case model.Document:
		md = m
	default:
		return
	}

	delete(data, model.MetadataKey)
	for k, v := range md {
		data[model.MetadataKey+"."+k] = v
	}
}

// Remove deletes the subset of the requested ids the caller may delete. The
// candidate entities are loaded, the id list is filtered by the delete
// predicate, and only the filtered subset is removed.
func (c *Content) Remove(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	candidates, _, err := c.entity.Get(ctx, filter.New().In("id", toValues(ids)), types.GetOptions{
		Limit: int64(len(ids)),
	})
	if err != nil {
		return 0, err
	}

	var allowed []interface{}
	for _, doc := range candidates {
		if c.isAuthorized(doc, model.OpDelete) {
			allowed = append(allowed, doc.GetID())
		}
	}
	if len(allowed) == 0 {
		return 0, nil
	}

	return c.entity.Remove(ctx, filter.New().In("id", allowed))
}

func toValues(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
