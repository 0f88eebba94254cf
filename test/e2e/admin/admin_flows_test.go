package admin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/undokids/undokids/pkg/adminsdk"
)

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	e := startService(t)
	health, err := e.sdk.Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "e2e", health.Version)
}

func TestSDKSignInFlow(t *testing.T) {
	t.Parallel()

	e := startService(t)
	ctx := context.Background()
	session := adminsdk.NewSession(e.sdk)

	t.Run("wrong password", func(t *testing.T) {
		_, err := session.SignIn(ctx, masterEmail, "wrong")
		require.ErrorIs(t, err, adminsdk.ErrInvalidCredentials)
	})

	t.Run("master lands on the master dashboard", func(t *testing.T) {
		target, err := session.SignIn(ctx, masterEmail, masterPassword)
		require.NoError(t, err)
		require.Equal(t, "/admin/master", target)
		require.True(t, session.IsRole("master"))

		me, err := e.sdk.Me(ctx)
		require.NoError(t, err)
		require.Equal(t, masterEmail, me.Email)
	})

	t.Run("sign out closes the session server-side", func(t *testing.T) {
		session.SignOut(ctx)
		_, err := e.sdk.Me(ctx)
		require.ErrorIs(t, err, adminsdk.ErrUnauthenticated)
	})
}

func TestGuardAgainstRealService(t *testing.T) {
	t.Parallel()

	e := startService(t)
	ctx := context.Background()

	tenant, _ := e.seedStoreAccount(t, "sakura", "staff@example.com", "Staff123!")
	_, _ = e.seedStoreAccount(t, "momiji", "other@example.com", "Other123!")

	t.Run("store account authorized for its own store", func(t *testing.T) {
		session := adminsdk.NewSession(e.sdk)
		_, err := session.SignIn(ctx, "staff@example.com", "Staff123!")
		require.NoError(t, err)

		guard := adminsdk.NewGuard(session, "sakura")
		defer guard.Stop()

		res := guard.Check(ctx)
		require.Equal(t, adminsdk.GuardAuthorized, res.State)
		require.Equal(t, tenant.ID, res.Tenant.ID)
	})

	t.Run("store account denied on a foreign store and signed out", func(t *testing.T) {
		session := adminsdk.NewSession(e.sdk)
		_, err := session.SignIn(ctx, "staff@example.com", "Staff123!")
		require.NoError(t, err)

		guard := adminsdk.NewGuard(session, "momiji")
		res := guard.Check(ctx)

		require.Equal(t, adminsdk.GuardDenied, res.State)
		require.Equal(t, "/store/momiji/login", res.RedirectTo)
		require.False(t, session.Current().SignedIn)
	})

	t.Run("master authorized everywhere", func(t *testing.T) {
		session := adminsdk.NewSession(e.sdk)
		_, err := session.SignIn(ctx, masterEmail, masterPassword)
		require.NoError(t, err)

		for _, slug := range []string{"sakura", "momiji"} {
			guard := adminsdk.NewGuard(session, slug)
			res := guard.Check(ctx)
			require.Equal(t, adminsdk.GuardAuthorized, res.State, "slug %s", slug)
			guard.Stop()
		}
	})
}

func TestSelfServiceFlow(t *testing.T) {
	t.Parallel()

	e := startService(t)
	ctx := context.Background()
	_, _ = e.seedStoreAccount(t, "icho", "staff@example.com", "Staff123!")

	session := adminsdk.NewSession(e.sdk)
	_, err := session.SignIn(ctx, "staff@example.com", "Staff123!")
	require.NoError(t, err)

	t.Run("email change to the same address is rejected", func(t *testing.T) {
		err := e.sdk.ChangeEmail(ctx, "Staff123!", "staff@example.com")
		require.ErrorContains(t, err, "現在と同じメールアドレスです")
	})

	t.Run("password change requires the current password", func(t *testing.T) {
		err := e.sdk.ChangePassword(ctx, "wrong", "NewPass123!")
		require.ErrorIs(t, err, adminsdk.ErrUnauthenticated)
	})

	t.Run("password change takes effect", func(t *testing.T) {
		require.NoError(t, e.sdk.ChangePassword(ctx, "Staff123!", "NewPass123!"))

		session.SignOut(ctx)
		_, err := session.SignIn(ctx, "staff@example.com", "Staff123!")
		require.ErrorIs(t, err, adminsdk.ErrInvalidCredentials)
		_, err = session.SignIn(ctx, "staff@example.com", "NewPass123!")
		require.NoError(t, err)
	})

	t.Run("email change takes effect in both systems", func(t *testing.T) {
		require.NoError(t, e.sdk.ChangeEmail(ctx, "NewPass123!", "renamed@example.com"))

		me, err := e.sdk.Me(ctx)
		require.NoError(t, err)
		require.Equal(t, "renamed@example.com", me.Email)

		session.SignOut(ctx)
		_, err = session.SignIn(ctx, "renamed@example.com", "NewPass123!")
		require.NoError(t, err)
	})
}
