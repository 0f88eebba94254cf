package domain

import "time"

// Profile is the application identity record, keyed by the identity
// service's user id. Exactly one profile exists per identity.
type Profile struct {
	ID        string // equals the identity id
	Email     string
	Name      string
	Role      Role
	PartnerID *string // set iff Role == RolePartner
	StoreID   *string // set iff Role == RoleStore
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateAssociations checks the role/foreign-key invariant: partner
// profiles need a partner, store profiles need a store, master profiles
// carry neither.
func (p Profile) ValidateAssociations() error {
	switch p.Role {
	case RoleMaster:
		if p.PartnerID != nil || p.StoreID != nil {
			return ErrMasterAssociations
		}
	case RolePartner:
		if p.PartnerID == nil || *p.PartnerID == "" {
			return ErrPartnerIDRequired
		}
	case RoleStore:
		if p.StoreID == nil || *p.StoreID == "" {
			return ErrStoreIDRequired
		}
	}
	return nil
}
