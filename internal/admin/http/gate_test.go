package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/identity"
	"github.com/undokids/undokids/internal/admin/store"
	"github.com/undokids/undokids/internal/admin/store/drivers/sqlite"
)

var testSecret = []byte("test-session-secret")

type fakeSessions struct {
	revoked []string
}

func (f *fakeSessions) SignInWithPassword(ctx context.Context, email, password string) (identity.SignInResult, error) {
	return identity.SignInResult{}, identity.ErrInvalidCredentials
}

func (f *fakeSessions) SignOut(ctx context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return nil
}

func (f *fakeSessions) Reauthenticate(ctx context.Context, email, password string) error {
	return nil
}

func newGateStore(t *testing.T) store.Store {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mintSession(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": userID + "@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

// gateEnv wires a gate in front of a recording handler.
type gateEnv struct {
	gate     *Gate
	sessions *fakeSessions
	store    store.Store

	// what the inner handler saw
	seenPath string
	seenRaw  string
	hits     int
}

func newGateEnv(t *testing.T) *gateEnv {
	env := &gateEnv{sessions: &fakeSessions{}, store: newGateStore(t)}
	env.gate = &Gate{
		Verifier: &identity.Verifier{Secret: testSecret},
		Identity: env.sessions,
		Store:    env.store,
	}
	return env
}

func (env *gateEnv) do(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	next := http.HandlerFunc(func(_ http.ResponseWriter, req *http.Request) {
		env.hits++
		env.seenPath = req.URL.Path
		env.seenRaw = req.URL.RawQuery
	})
	env.gate.Middleware()(next).ServeHTTP(w, r)
	return w
}

func (env *gateEnv) seedProfile(t *testing.T, id string, role domain.Role, partnerID, storeID *string) {
	t.Helper()
	if partnerID != nil {
		require.NoError(t, env.store.Partners().CreatePartner(context.Background(), domain.Partner{
			ID: *partnerID, Name: "Partner " + *partnerID,
		}))
	}
	if storeID != nil {
		require.NoError(t, env.store.Tenants().CreateTenant(context.Background(), domain.Tenant{
			ID: *storeID, Slug: *storeID, Name: "Store " + *storeID,
		}))
	}
	require.NoError(t, env.store.Profiles().CreateProfile(context.Background(), domain.Profile{
		ID: id, Email: id + "@example.com", Name: id, Role: role,
		PartnerID: partnerID, StoreID: storeID,
	}))
}

func TestGateSubdomainRewrite(t *testing.T) {
	t.Parallel()

	t.Run("tenant subdomain rewrites once with query preserved", func(t *testing.T) {
		env := newGateEnv(t)
		r := httptest.NewRequest(http.MethodGet, "/welcome?tab=qr", nil)
		r.Host = "sakura.undokids.jp"
		w := env.do(r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, 1, env.hits)
		require.Equal(t, "/store/sakura/welcome", env.seenPath)
		require.Equal(t, "tab=qr", env.seenRaw)
	})

	t.Run("path already under /store/ is not rewritten again", func(t *testing.T) {
		env := newGateEnv(t)
		r := httptest.NewRequest(http.MethodGet, "/store/sakura/welcome", nil)
		r.Host = "sakura.undokids.jp"
		env.do(r)

		require.Equal(t, "/store/sakura/welcome", env.seenPath)
	})

	t.Run("rewrite short-circuits admin auth", func(t *testing.T) {
		env := newGateEnv(t)
		r := httptest.NewRequest(http.MethodGet, "/admin/master", nil)
		r.Host = "sakura.undokids.jp"
		w := env.do(r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "/store/sakura/admin/master", env.seenPath)
	})

	t.Run("reserved and dev hosts never rewrite", func(t *testing.T) {
		for _, host := range []string{
			"admin.undokids.jp", "www.undokids.jp", "app.undokids.jp", "api.undokids.jp",
			"localhost:8080", "127.0.0.1:8080", "undokids.jp",
		} {
			env := newGateEnv(t)
			r := httptest.NewRequest(http.MethodGet, "/welcome", nil)
			r.Host = host
			env.do(r)
			require.Equal(t, "/welcome", env.seenPath, "host %s", host)
		}
	})
}

func TestGateAdminAuth(t *testing.T) {
	t.Parallel()

	t.Run("non-admin paths pass without a session", func(t *testing.T) {
		env := newGateEnv(t)
		w := env.do(httptest.NewRequest(http.MethodGet, "/livez", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, 1, env.hits)
	})

	t.Run("no session redirects to login", func(t *testing.T) {
		env := newGateEnv(t)
		w := env.do(httptest.NewRequest(http.MethodGet, "/admin/master", nil))
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/admin/login", w.Header().Get("Location"))
		require.Zero(t, env.hits)
	})

	t.Run("api paths get 401 instead of a redirect", func(t *testing.T) {
		env := newGateEnv(t)
		w := env.do(httptest.NewRequest(http.MethodGet, "/admin/api/users", nil))
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "/admin/login", w.Header().Get("X-Redirect-To"))
	})

	t.Run("forged token is a missing session", func(t *testing.T) {
		env := newGateEnv(t)
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "u1", "exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("wrong-secret"))
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/admin/master", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: forged})
		w := env.do(r)
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/admin/login", w.Header().Get("Location"))
	})

	t.Run("session without profile signs out and redirects", func(t *testing.T) {
		env := newGateEnv(t)
		token := mintSession(t, "deleted-user")
		r := httptest.NewRequest(http.MethodGet, "/admin/master", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		w := env.do(r)

		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/admin/login", w.Header().Get("Location"))
		require.Equal(t, []string{token}, env.sessions.revoked)
	})

	t.Run("master passes everywhere", func(t *testing.T) {
		env := newGateEnv(t)
		env.seedProfile(t, "m1", domain.RoleMaster, nil, nil)
		for _, path := range []string{"/admin/master", "/admin/partner", "/admin/store"} {
			r := httptest.NewRequest(http.MethodGet, path, nil)
			r.AddCookie(&http.Cookie{Name: SessionCookie, Value: mintSession(t, "m1")})
			w := env.do(r)
			require.Equal(t, http.StatusOK, w.Code, "path %s", path)
		}
	})

	t.Run("role mismatch never reaches the handler", func(t *testing.T) {
		env := newGateEnv(t)
		pid := "partner-1"
		env.seedProfile(t, "p1", domain.RolePartner, &pid, nil)

		r := httptest.NewRequest(http.MethodGet, "/admin/master", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: mintSession(t, "p1")})
		w := env.do(r)

		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/admin/partner", w.Header().Get("Location"))
		require.Zero(t, env.hits)
	})

	t.Run("management api is role-gated", func(t *testing.T) {
		env := newGateEnv(t)
		sid := "shibuya"
		env.seedProfile(t, "s1", domain.RoleStore, nil, &sid)

		// A store account must not reach account management.
		r := httptest.NewRequest(http.MethodPost, "/admin/api/users", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: mintSession(t, "s1")})
		w := env.do(r)

		require.Equal(t, http.StatusForbidden, w.Code)
		require.Equal(t, "/admin/store", w.Header().Get("X-Redirect-To"))
		require.Zero(t, env.hits)

		// The measurement data stays reachable.
		r = httptest.NewRequest(http.MethodGet, "/admin/api/children", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: mintSession(t, "s1")})
		w = env.do(r)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, 1, env.hits)
	})

	t.Run("partner cannot manage partners", func(t *testing.T) {
		env := newGateEnv(t)
		pid := "partner-1"
		env.seedProfile(t, "p3", domain.RolePartner, &pid, nil)

		r := httptest.NewRequest(http.MethodDelete, "/admin/api/partners/partner-1", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: mintSession(t, "p3")})
		w := env.do(r)

		require.Equal(t, http.StatusForbidden, w.Code)
		require.Zero(t, env.hits)

		r = httptest.NewRequest(http.MethodGet, "/admin/api/stores", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: mintSession(t, "p3")})
		w = env.do(r)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("partner passes store-scoped paths", func(t *testing.T) {
		env := newGateEnv(t)
		pid := "partner-1"
		env.seedProfile(t, "p2", domain.RolePartner, &pid, nil)

		r := httptest.NewRequest(http.MethodGet, "/admin/store/reports", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: mintSession(t, "p2")})
		w := env.do(r)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("signed-in visit to login forwards to landing", func(t *testing.T) {
		env := newGateEnv(t)
		env.seedProfile(t, "m2", domain.RoleMaster, nil, nil)

		r := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: mintSession(t, "m2")})
		w := env.do(r)

		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/admin/master", w.Header().Get("Location"))
	})

	t.Run("signed-in visit to login without profile shows the form", func(t *testing.T) {
		env := newGateEnv(t)
		r := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: mintSession(t, "stale")})
		w := env.do(r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, 1, env.hits)
	})

	t.Run("login visit with an out-of-set role shows the form", func(t *testing.T) {
		// The schema refuses such rows, so serve one through a stub. A
		// redirect here would bounce the caller back to the login page
		// forever.
		env := newGateEnv(t)
		env.gate.Store = &fixedProfileStore{
			Store:   env.store,
			profile: domain.Profile{ID: "g1", Email: "g1@example.com", Role: "ghost"},
		}

		r := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: mintSession(t, "g1")})
		w := env.do(r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, 1, env.hits)
	})
}

// fixedProfileStore serves one canned profile for any id.
type fixedProfileStore struct {
	store.Store
	profile domain.Profile
}

func (s *fixedProfileStore) Profiles() store.Profiles {
	return &fixedProfiles{profile: s.profile}
}

type fixedProfiles struct {
	store.Profiles
	profile domain.Profile
}

func (p *fixedProfiles) GetProfile(ctx context.Context, id string) (domain.Profile, error) {
	return p.profile, nil
}
