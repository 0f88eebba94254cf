package admin_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/undokids/undokids/internal/admin/domain"
	adminhttp "github.com/undokids/undokids/internal/admin/http"
	"github.com/undokids/undokids/internal/admin/identity"
	"github.com/undokids/undokids/internal/admin/identity/identitydev"
	"github.com/undokids/undokids/internal/admin/service"
	"github.com/undokids/undokids/internal/admin/store"
	"github.com/undokids/undokids/internal/admin/store/drivers/sqlite"
	"github.com/undokids/undokids/pkg/adminsdk"
)

/*
 * End-to-end tests running the full admin service in-process: identitydev
 * as the hosted auth service, sqlite as the database, an in-memory blob
 * store, and the adminsdk client driving the real HTTP surface.
 */

const (
	sessionSecret = "e2e-session-secret"
	serviceKey    = "e2e-service-key"

	masterEmail    = "master@example.com"
	masterPassword = "Master123!"
)

type memBlob struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memBlob) Upload(ctx context.Context, key, contentType string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = data
	return nil
}

func (m *memBlob) PublicURL(key string) string { return "https://cdn.example.com/" + key }

type env struct {
	store    store.Store
	accounts *service.AccountService
	tenants  *service.TenantService
	sdk      *adminsdk.Client
}

// startService boots the whole stack and returns an SDK client pointed
// at it, with a master account already provisioned.
func startService(t *testing.T) *env {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "e2e.db") + "?_busy_timeout=5000"
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	idsrv := identitydev.New([]byte(sessionSecret), serviceKey)
	authBackend := httptest.NewServer(idsrv.Handler())
	t.Cleanup(authBackend.Close)

	sessions := identity.NewHTTPClient(authBackend.URL, "")
	elevated := identity.NewHTTPClient(authBackend.URL, serviceKey)

	blobStore := &memBlob{}
	accounts := &service.AccountService{Store: st, Identity: elevated}
	tenants := &service.TenantService{Store: st, Blob: blobStore}

	router := adminhttp.NewRouter(
		&identity.Verifier{Secret: []byte(sessionSecret)},
		sessions, "e2e", st,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	router.AccountService = accounts
	router.SelfService = &service.SelfService{Store: st, Identity: sessions, Admin: elevated}
	router.TenantService = tenants
	router.PartnerService = &service.PartnerService{Store: st}
	router.ChildService = &service.ChildService{Store: st}
	router.MeasurementService = &service.MeasurementService{Store: st}
	router.ResultService = &service.ResultService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	_, err = accounts.Create(context.Background(), service.CreateAccountRequest{
		Email:    masterEmail,
		Password: masterPassword,
		Name:     "Master",
		Role:     domain.RoleMaster,
	})
	require.NoError(t, err)

	return &env{
		store:    st,
		accounts: accounts,
		tenants:  tenants,
		sdk:      adminsdk.NewClient(srv.URL),
	}
}

// seedStoreAccount provisions a tenant and a store-role account bound to
// it, returning both.
func (e *env) seedStoreAccount(t *testing.T, slug, email, password string) (domain.Tenant, domain.Profile) {
	t.Helper()

	ctx := context.Background()
	tenant, err := e.tenants.Create(ctx, service.TenantInput{Slug: slug, Name: "Store " + slug})
	require.NoError(t, err)

	profile, err := e.accounts.Create(ctx, service.CreateAccountRequest{
		Email:    email,
		Password: password,
		Name:     "Staff",
		Role:     domain.RoleStore,
		StoreID:  tenant.ID,
	})
	require.NoError(t, err)
	return tenant, profile
}
