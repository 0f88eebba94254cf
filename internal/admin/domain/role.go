package domain

// Role is the application-level access level carried on a profile.
type Role string

const (
	// RoleMaster has full access to every tenant and the master dashboard.
	RoleMaster Role = "master"
	// RolePartner is scoped to the stores owned by the profile's partner.
	RolePartner Role = "partner"
	// RoleStore is scoped to exactly one store.
	RoleStore Role = "store"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMaster, RolePartner, RoleStore:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// In reports whether r is contained in roles.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}
