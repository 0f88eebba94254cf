// Package service holds the application services that sit between the
// HTTP handlers and the store/identity layers. Services own validation
// and cross-system orchestration; handlers own the wire format.
package service

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/identity"
	"github.com/undokids/undokids/internal/admin/store"
	"github.com/undokids/undokids/pkg/slogx"
)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("email is not a valid address")
	ErrPasswordRequired = errors.New("password is required")
	ErrNotFound         = errors.New("not found")
)

// AccountService manages the paired identity + profile lifecycle. The
// identity lives in the hosted auth service, the profile in our own
// store; the two must be created and destroyed together.
type AccountService struct {
	Store    store.Store
	Identity identity.Admin
}

// CreateAccountRequest carries the validated inputs for account creation.
type CreateAccountRequest struct {
	Email     string
	Password  string
	Name      string
	Role      domain.Role
	PartnerID string
	StoreID   string
}

func (r CreateAccountRequest) validate() error {
	if r.Email == "" {
		return ErrEmailRequired
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return ErrEmailInvalid
	}
	if r.Password == "" {
		return ErrPasswordRequired
	}
	if !r.Role.Valid() {
		return domain.ErrUnknownRole
	}
	switch r.Role {
	case domain.RoleMaster:
		if r.PartnerID != "" || r.StoreID != "" {
			return domain.ErrMasterAssociations
		}
	case domain.RolePartner:
		if r.PartnerID == "" {
			return domain.ErrPartnerIDRequired
		}
	case domain.RoleStore:
		if r.StoreID == "" {
			return domain.ErrStoreIDRequired
		}
	}
	return nil
}

// Create provisions an identity in the hosted auth service and then the
// matching profile row. If the profile insert fails the identity is
// deleted again so the two systems never drift apart.
func (s *AccountService) Create(ctx context.Context, req CreateAccountRequest) (domain.Profile, error) {
	if err := req.validate(); err != nil {
		return domain.Profile{}, err
	}

	ident, err := s.Identity.AdminCreateUser(ctx, req.Email, req.Password)
	if err != nil {
		return domain.Profile{}, err
	}

	now := time.Now().UTC()
	profile := domain.Profile{
		ID:        ident.ID,
		Email:     ident.Email,
		Name:      req.Name,
		Role:      req.Role,
		PartnerID: optional(req.PartnerID),
		StoreID:   optional(req.StoreID),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.Profiles().CreateProfile(ctx, profile); err != nil {
		// Compensate: without a profile the identity is unusable, so
		// roll the create back rather than leave an orphan.
		if delErr := s.Identity.AdminDeleteUser(ctx, ident.ID); delErr != nil {
			slogx.FromContext(ctx).Error("orphaned identity after profile insert failure",
				"user_id", ident.ID, "error", delErr)
		}
		return domain.Profile{}, err
	}

	return profile, nil
}

// Get returns a single profile by identity id.
func (s *AccountService) Get(ctx context.Context, id string) (domain.Profile, error) {
	p, err := s.Store.Profiles().GetProfile(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Profile{}, ErrNotFound
	}
	return p, err
}

// List returns all profiles, newest first.
func (s *AccountService) List(ctx context.Context) ([]domain.Profile, error) {
	return s.Store.Profiles().ListProfiles(ctx)
}

// UpdateAccountRequest carries the mutable profile attributes. Role
// changes re-run the association invariant.
type UpdateAccountRequest struct {
	Name      string
	Role      domain.Role
	PartnerID string
	StoreID   string
}

// Update mutates name, role and associations on the profile row. Email
// and password changes go through the identity service instead.
func (s *AccountService) Update(ctx context.Context, id string, req UpdateAccountRequest) (domain.Profile, error) {
	if !req.Role.Valid() {
		return domain.Profile{}, domain.ErrUnknownRole
	}

	current, err := s.Store.Profiles().GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Profile{}, ErrNotFound
		}
		return domain.Profile{}, err
	}

	current.Name = req.Name
	current.Role = req.Role
	current.PartnerID = optional(req.PartnerID)
	current.StoreID = optional(req.StoreID)
	current.UpdatedAt = time.Now().UTC()

	if err := current.ValidateAssociations(); err != nil {
		return domain.Profile{}, err
	}
	if err := s.Store.Profiles().UpdateProfile(ctx, current); err != nil {
		return domain.Profile{}, err
	}
	return current, nil
}

// Delete removes the profile row and then the identity. The identity
// delete is the authoritative one; a failed profile delete is logged but
// does not block it, since a dangling profile without an identity is
// harmless and visible, while the reverse locks the email forever.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.Store.Profiles().DeleteProfile(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(ctx).Warn("profile delete failed, proceeding with identity delete",
			"user_id", id, "error", err)
	}

	if err := s.Identity.AdminDeleteUser(ctx, id); err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// optional maps an empty form value to nil so the store never persists
// empty-string foreign keys.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
