// Package policy is the single role-based access rule table. The gate
// middleware, the SDK guard and the endpoint handlers all consume the same
// decision function so the three call sites cannot drift apart.
package policy

import (
	"strings"

	"github.com/undokids/undokids/internal/admin/domain"
)

// Route constants for the admin surface.
const (
	AdminPrefix = "/admin"
	LoginPath   = "/admin/login"

	MasterHome  = "/admin/master"
	PartnerHome = "/admin/partner"
	StoreHome   = "/admin/store"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allow bool

	// RedirectTo is set on deny: where to send the caller instead.
	RedirectTo string

	// ClearSession is set when the deny should also sign the caller out.
	// Tenant-scoped denials clear the session (the account does not belong
	// here at all); admin-area denials keep it and bounce the caller to
	// their own landing page.
	ClearSession bool
}

var allow = Decision{Allow: true}

func denyTo(target string) Decision { return Decision{RedirectTo: target} }

// Landing returns the default landing path for a role. Unknown or empty
// roles land on the login page, which breaks redirect loops for stale
// accounts.
func Landing(role domain.Role) string {
	switch role {
	case domain.RoleMaster:
		return MasterHome
	case domain.RolePartner:
		return PartnerHome
	case domain.RoleStore:
		return StoreHome
	default:
		return LoginPath
	}
}

var (
	masterOnly    = []domain.Role{domain.RoleMaster}
	masterPartner = []domain.Role{domain.RoleMaster, domain.RolePartner}
	anyStaff      = []domain.Role{domain.RoleMaster, domain.RolePartner, domain.RoleStore}
)

// apiRoles maps management API resources onto the roles allowed to call
// them. /admin/api/me and the account self-service endpoints carry no
// entry: any authenticated profile may use them.
var apiRoles = []struct {
	prefix string
	roles  []domain.Role
}{
	{"/admin/api/users", masterOnly},
	{"/admin/api/partners", masterOnly},
	{"/admin/api/stores", masterPartner},
	{"/admin/api/children", anyStaff},
	{"/admin/api/measurements", anyStaff},
	{"/admin/api/results", anyStaff},
}

// RequiredRoles returns the role set allowed under an admin path prefix,
// or nil when the path carries no role requirement.
func RequiredRoles(path string) []domain.Role {
	for _, entry := range apiRoles {
		if strings.HasPrefix(path, entry.prefix) {
			return entry.roles
		}
	}
	switch {
	case strings.HasPrefix(path, MasterHome):
		return masterOnly
	case strings.HasPrefix(path, PartnerHome):
		return masterPartner
	case strings.HasPrefix(path, StoreHome):
		return anyStaff
	default:
		return nil
	}
}

// Decide gates an admin path for a role.
//
// The store branch denies to the login page while the other branches deny
// to the caller's own landing page. The asymmetry is deliberate: a role
// that cannot see /admin/store/* cannot see anything, so bouncing it to a
// landing page it also cannot see would loop.
func Decide(role domain.Role, path string) Decision {
	required := RequiredRoles(path)
	if required == nil {
		// Admin path without a role-scoped prefix (e.g. the dashboard
		// chooser): any authenticated profile may pass.
		return allow
	}

	if role.In(required...) {
		return allow
	}

	if strings.HasPrefix(path, StoreHome) {
		return denyTo(LoginPath)
	}
	return denyTo(Landing(role))
}

// AuthorizeTenant decides whether a profile may operate on a tenant's
// pages. Master always may; a store account only on its own store; a
// partner account only on stores its partner owns. Every deny clears the
// session and bounces to the tenant login page.
func AuthorizeTenant(p domain.Profile, t domain.Tenant) Decision {
	switch p.Role {
	case domain.RoleMaster:
		return allow
	case domain.RoleStore:
		if p.StoreID != nil && *p.StoreID == t.ID {
			return allow
		}
	case domain.RolePartner:
		if p.PartnerID != nil && t.PartnerID != nil && *p.PartnerID == *t.PartnerID {
			return allow
		}
	}
	return Decision{RedirectTo: TenantLoginPath(t.Slug), ClearSession: true}
}

// TenantLoginPath is the login page for a tenant's store-scoped pages.
func TenantLoginPath(slug string) string {
	return "/store/" + slug + "/login"
}
