package content

import "stratum/pkg/model"

// Roles is the capability interface the access-control layer consults for
// the well-known identities. It is injected, keeping role policy out of the
// content model itself.
type Roles interface {
	// SuperAdminID is the identity allowed to do anything.
	SuperAdminID() string
	// AnonymousID is the pseudo-user whose entities any caller may touch.
	AnonymousID() string
	// IsManager reports whether the user sees unfiltered listings.
	IsManager(u *model.User) bool
}

// StaticRoles is a fixed-identity Roles implementation, driven by
// configuration.
type StaticRoles struct {
	AdminID   string
	AnonID    string
	ManagerID []string
}

func (r StaticRoles) SuperAdminID() string { return r.AdminID }

func (r StaticRoles) AnonymousID() string { return r.AnonID }

func (r StaticRoles) IsManager(u *model.User) bool {
	if u == nil {
		return false
	}
	for _, id := range r.ManagerID {
		if id == u.ID {
			return true
		}
	}
	return false
}
