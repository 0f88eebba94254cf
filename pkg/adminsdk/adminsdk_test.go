package adminsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeAdmin is a minimal stand-in for the admin service: form login with
// a session cookie, profile endpoint, slug resolution.
type fakeAdmin struct {
	mu       sync.Mutex
	password string
	profile  Profile
	tenants  map[string]Tenant
	sessions map[string]bool
	logouts  int
}

func newFakeAdmin(profile Profile) *fakeAdmin {
	return &fakeAdmin{
		password: "correct-horse",
		profile:  profile,
		tenants:  map[string]Tenant{},
		sessions: map[string]bool{},
	}
}

func (f *fakeAdmin) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /admin/login", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostFormValue("password") != f.password {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		f.mu.Lock()
		f.sessions["session-1"] = true
		f.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "uk_session", Value: "session-1", Path: "/"})
		w.Header().Set("Location", "/admin/store")
		w.WriteHeader(http.StatusSeeOther)
	})

	mux.HandleFunc("POST /admin/logout", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.logouts++
		for k := range f.sessions {
			delete(f.sessions, k)
		}
		f.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "uk_session", Value: "", Path: "/", MaxAge: -1})
		w.Header().Set("Location", "/admin/login")
		w.WriteHeader(http.StatusSeeOther)
	})

	mux.HandleFunc("GET /admin/api/me", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("uk_session")
		f.mu.Lock()
		ok := err == nil && f.sessions[c.Value]
		f.mu.Unlock()
		if !ok {
			http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(f.profile)
	})

	mux.HandleFunc("GET /store/{slug}", func(w http.ResponseWriter, r *http.Request) {
		t, ok := f.tenants[r.PathValue("slug")]
		if !ok {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(t)
	})

	return mux
}

func ptr(s string) *string { return &s }

func startFake(t *testing.T, f *fakeAdmin) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestSessionSignInSignOut(t *testing.T) {
	t.Parallel()

	fake := newFakeAdmin(Profile{ID: "u1", Email: "u@example.com", Role: "store", StoreID: ptr("t1")})
	session := NewSession(startFake(t, fake))

	var events []Event
	var mu sync.Mutex
	unsub := session.Subscribe(func(ev Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})
	defer unsub()

	ctx := context.Background()

	t.Run("bad credentials", func(t *testing.T) {
		_, err := session.SignIn(ctx, "u@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		require.False(t, session.Current().SignedIn)
	})

	t.Run("sign in", func(t *testing.T) {
		target, err := session.SignIn(ctx, "u@example.com", "correct-horse")
		require.NoError(t, err)
		require.Equal(t, "/admin/store", target)

		snap := session.Current()
		require.True(t, snap.SignedIn)
		require.Equal(t, "u1", snap.Profile.ID)
		require.True(t, session.IsRole("store"))
		require.True(t, session.IsRole("master", "store"))
		require.False(t, session.IsRole("master"))
	})

	t.Run("sign out uses the pre-clear role for the redirect", func(t *testing.T) {
		target := session.SignOut(ctx)
		require.Equal(t, "/admin/store", target)
		require.False(t, session.Current().SignedIn)
		require.False(t, session.IsRole("store"))
		require.Equal(t, 1, fake.logouts)
	})

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []Event{EventSignedIn, EventSignedOut}, events)
}

func TestSessionInitPicksUpExistingCookie(t *testing.T) {
	t.Parallel()

	fake := newFakeAdmin(Profile{ID: "u1", Role: "master"})
	client := startFake(t, fake)

	// First session establishes the cookie in the shared jar.
	first := NewSession(client)
	_, err := first.SignIn(context.Background(), "u@example.com", "correct-horse")
	require.NoError(t, err)

	// A fresh session over the same client restores state via Init.
	second := NewSession(client)
	require.False(t, second.Current().SignedIn)
	second.Init(context.Background())
	require.True(t, second.Current().SignedIn)
	require.Equal(t, "u1", second.Current().Profile.ID)
}

func TestGuard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("authorized for own store", func(t *testing.T) {
		fake := newFakeAdmin(Profile{ID: "u1", Role: "store", StoreID: ptr("t1")})
		fake.tenants["sakura"] = Tenant{ID: "t1", Slug: "sakura", Name: "Sakura"}
		session := NewSession(startFake(t, fake))
		_, err := session.SignIn(ctx, "u@example.com", "correct-horse")
		require.NoError(t, err)

		guard := NewGuard(session, "sakura")
		defer guard.Stop()

		res := guard.Check(ctx)
		require.Equal(t, GuardAuthorized, res.State)
		require.Equal(t, "t1", res.Tenant.ID)
	})

	t.Run("no session denies to tenant login", func(t *testing.T) {
		fake := newFakeAdmin(Profile{})
		fake.tenants["sakura"] = Tenant{ID: "t1", Slug: "sakura"}
		session := NewSession(startFake(t, fake))

		guard := NewGuard(session, "sakura")
		defer guard.Stop()

		res := guard.Check(ctx)
		require.Equal(t, GuardDenied, res.State)
		require.Equal(t, "/store/sakura/login", res.RedirectTo)
	})

	t.Run("wrong store signs out and denies", func(t *testing.T) {
		fake := newFakeAdmin(Profile{ID: "u1", Role: "store", StoreID: ptr("other")})
		fake.tenants["sakura"] = Tenant{ID: "t1", Slug: "sakura"}
		session := NewSession(startFake(t, fake))
		_, err := session.SignIn(ctx, "u@example.com", "correct-horse")
		require.NoError(t, err)

		guard := NewGuard(session, "sakura")
		res := guard.Check(ctx)

		require.Equal(t, GuardDenied, res.State)
		require.Equal(t, "/store/sakura/login", res.RedirectTo)
		require.False(t, session.Current().SignedIn)
		require.Equal(t, 1, fake.logouts)
	})

	t.Run("unknown slug denies", func(t *testing.T) {
		fake := newFakeAdmin(Profile{ID: "u1", Role: "master"})
		session := NewSession(startFake(t, fake))
		_, err := session.SignIn(ctx, "u@example.com", "correct-horse")
		require.NoError(t, err)

		guard := NewGuard(session, "ghost")
		defer guard.Stop()

		res := guard.Check(ctx)
		require.Equal(t, GuardDenied, res.State)
	})

	t.Run("no updates after stop", func(t *testing.T) {
		fake := newFakeAdmin(Profile{ID: "u1", Role: "master"})
		fake.tenants["sakura"] = Tenant{ID: "t1", Slug: "sakura"}
		session := NewSession(startFake(t, fake))

		guard := NewGuard(session, "sakura")
		var calls int
		guard.OnChange = func(GuardResult) { calls++ }
		guard.Stop()

		res := guard.Check(ctx)
		require.Equal(t, GuardIdle, guard.Result().State)
		require.Equal(t, GuardIdle, res.State)
		require.Zero(t, calls)

		// Auth changes no longer reach the guard either.
		_, err := session.SignIn(ctx, "u@example.com", "correct-horse")
		require.NoError(t, err)
		require.Zero(t, calls)
	})
}
