package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/store"
)

func TestAccountCreateValidation(t *testing.T) {
	t.Parallel()

	svc := &AccountService{Store: newTestStore(t), Identity: newFakeIdentity()}
	ctx := context.Background()

	t.Run("missing email", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateAccountRequest{Password: "pw", Role: domain.RoleMaster})
		require.ErrorIs(t, err, ErrEmailRequired)
	})

	t.Run("malformed email", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateAccountRequest{Email: "not-an-email", Password: "pw", Role: domain.RoleMaster})
		require.ErrorIs(t, err, ErrEmailInvalid)
	})

	t.Run("missing password", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateAccountRequest{Email: "a@example.com", Role: domain.RoleMaster})
		require.ErrorIs(t, err, ErrPasswordRequired)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateAccountRequest{Email: "a@example.com", Password: "pw", Role: "admin"})
		require.ErrorIs(t, err, domain.ErrUnknownRole)
	})

	t.Run("partner role needs partner id", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateAccountRequest{Email: "a@example.com", Password: "pw", Role: domain.RolePartner})
		require.ErrorIs(t, err, domain.ErrPartnerIDRequired)
	})

	t.Run("store role needs store id", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateAccountRequest{Email: "a@example.com", Password: "pw", Role: domain.RoleStore})
		require.ErrorIs(t, err, domain.ErrStoreIDRequired)
	})

	t.Run("master role carries no associations", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateAccountRequest{
			Email: "a@example.com", Password: "pw", Role: domain.RoleMaster, StoreID: "t1",
		})
		require.ErrorIs(t, err, domain.ErrMasterAssociations)

		_, err = svc.Create(ctx, CreateAccountRequest{
			Email: "a@example.com", Password: "pw", Role: domain.RoleMaster, PartnerID: "p1",
		})
		require.ErrorIs(t, err, domain.ErrMasterAssociations)
	})
}

func TestAccountCreateTwoPhase(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ident := newFakeIdentity()
	svc := &AccountService{Store: st, Identity: ident}
	ctx := context.Background()

	tn := seedTenant(t, st, "shibuya")

	created, err := svc.Create(ctx, CreateAccountRequest{
		Email:    "staff@example.com",
		Password: "pw123456",
		Name:     "Staff",
		Role:     domain.RoleStore,
		StoreID:  tn.ID,
	})
	require.NoError(t, err)
	require.Len(t, ident.created, 1)
	require.Equal(t, ident.created[0].ID, created.ID)
	require.NotNil(t, created.StoreID)
	require.Equal(t, tn.ID, *created.StoreID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleStore, got.Role)
}

func TestAccountCreateCompensatesOnProfileFailure(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ident := newFakeIdentity()
	svc := &AccountService{Store: st, Identity: ident}
	ctx := context.Background()

	// Store id that violates the foreign key makes the profile insert
	// fail after the identity was already created.
	_, err := svc.Create(ctx, CreateAccountRequest{
		Email:    "staff@example.com",
		Password: "pw123456",
		Role:     domain.RoleStore,
		StoreID:  "no-such-tenant",
	})
	require.Error(t, err)

	// The rejected insert is a caller-fixable constraint failure, not an
	// internal error.
	var constraint *store.ConstraintError
	require.ErrorAs(t, err, &constraint)
	require.Len(t, ident.created, 1)
	require.Equal(t, []string{ident.created[0].ID}, ident.deleted)

	profiles, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, profiles)
}

func TestAccountDeleteProceedsPastProfileFailure(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ident := newFakeIdentity()
	svc := &AccountService{Store: st, Identity: ident}
	ctx := context.Background()

	// No profile row exists, the delete still reaches the identity
	// service.
	ident.created = append(ident.created, domain.Identity{ID: "ghost", Email: "g@example.com"})
	require.NoError(t, svc.Delete(ctx, "ghost"))
	require.Equal(t, []string{"ghost"}, ident.deleted)
}

func TestAccountUpdateRevalidatesAssociations(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ident := newFakeIdentity()
	svc := &AccountService{Store: st, Identity: ident}
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateAccountRequest{
		Email: "m@example.com", Password: "pw123456", Name: "Master", Role: domain.RoleMaster,
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, UpdateAccountRequest{Name: "Master", Role: domain.RolePartner})
	require.ErrorIs(t, err, domain.ErrPartnerIDRequired)

	_, err = svc.Update(ctx, created.ID, UpdateAccountRequest{Name: "Master", Role: domain.RoleMaster, StoreID: "t1"})
	require.ErrorIs(t, err, domain.ErrMasterAssociations)

	updated, err := svc.Update(ctx, created.ID, UpdateAccountRequest{Name: "Renamed", Role: domain.RoleMaster})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Nil(t, updated.PartnerID)
	require.Nil(t, updated.StoreID)
}

func TestAccountUpdateMissing(t *testing.T) {
	t.Parallel()

	svc := &AccountService{Store: newTestStore(t), Identity: newFakeIdentity()}
	_, err := svc.Update(context.Background(), "absent", UpdateAccountRequest{Role: domain.RoleMaster})
	require.ErrorIs(t, err, ErrNotFound)
	require.False(t, errors.Is(err, domain.ErrUnknownRole))
}
