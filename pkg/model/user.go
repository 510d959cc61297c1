package model

import (
	"sort"
	"strings"
)

// Operations a group permission can grant.
const (
	OpGet    = "get"
	OpUpdate = "update"
	OpDelete = "delete"
)

const groupPermSep = "-group-"

// User is the acting identity a content model operates on behalf of.
// Permissions encode group-scoped rights as "<operation>-group-<groupId>"
// strings; they are parsed once at construction.
type User struct {
	ID          string
	Permissions []string

	groupOps map[string]map[string]bool // groupId -> operation set
}

// NewUser builds a User and parses its permission strings. Malformed
// permissions are ignored.
func NewUser(id string, permissions []string) *User {
	u := &User{
		ID:          id,
		Permissions: permissions,
		groupOps:    make(map[string]map[string]bool),
	}

	for _, perm := range permissions {
		op, group, ok := splitGroupPerm(perm)
		if !ok {
			continue
		}
		if u.groupOps[group] == nil {
			u.groupOps[group] = make(map[string]bool)
		}
		u.groupOps[group][op] = true
	}

	return u
}

func splitGroupPerm(perm string) (op, group string, ok bool) {
	idx := strings.Index(perm, groupPermSep)
	if idx < 0 {
		return "", "", false
	}
	op = perm[:idx]
	group = perm[idx+len(groupPermSep):]
	if group == "" {
		return "", "", false
	}
	switch op {
	case OpGet, OpUpdate, OpDelete:
		return op, group, true
	}
	return "", "", false
}

// AllowsGroup reports whether the user holds the given operation on the group.
func (u *User) AllowsGroup(op, group string) bool {
	if u == nil {
		return false
	}
	return u.groupOps[group][op]
}

// GroupsFor returns the groups the user may perform op on, sorted for
// deterministic filter construction.
func (u *User) GroupsFor(op string) []string {
	if u == nil {
		return nil
	}
	var groups []string
	for group, ops := range u.groupOps {
		if ops[op] {
			groups = append(groups, group)
		}
	}
	sort.Strings(groups)
	return groups
}
