package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/identity"
	"github.com/undokids/undokids/internal/admin/store"
	"github.com/undokids/undokids/internal/admin/store/drivers/sqlite"
	"github.com/undokids/undokids/pkg/idx"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// fakeIdentity records admin calls and can be told to fail. It stands in
// for the hosted auth service in orchestration tests; the wire-level
// behavior is covered in the identity package's own tests.
type fakeIdentity struct {
	mu      sync.Mutex
	created []domain.Identity
	deleted []string
	updates map[string]identity.UserUpdate

	failCreate error
	failDelete error

	// password accepted by Reauthenticate
	password string
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{updates: map[string]identity.UserUpdate{}, password: "correct-horse"}
}

func (f *fakeIdentity) AdminCreateUser(ctx context.Context, email, password string) (domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return domain.Identity{}, f.failCreate
	}
	ident := domain.Identity{ID: idx.New().String(), Email: email}
	f.created = append(f.created, ident)
	return ident, nil
}

func (f *fakeIdentity) AdminUpdateUser(ctx context.Context, id string, upd identity.UserUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates[id] = upd
	return nil
}

func (f *fakeIdentity) AdminDeleteUser(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete != nil {
		return f.failDelete
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIdentity) SignInWithPassword(ctx context.Context, email, password string) (identity.SignInResult, error) {
	if password != f.password {
		return identity.SignInResult{}, identity.ErrInvalidCredentials
	}
	return identity.SignInResult{AccessToken: "token"}, nil
}

func (f *fakeIdentity) SignOut(ctx context.Context, accessToken string) error { return nil }

func (f *fakeIdentity) Reauthenticate(ctx context.Context, email, password string) error {
	if password != f.password {
		return identity.ErrInvalidCredentials
	}
	return nil
}

// fakeBlob records uploads in memory.
type fakeBlob struct {
	mu      sync.Mutex
	uploads map[string][]byte
	types   map[string]string
}

func newFakeBlob() *fakeBlob {
	return &fakeBlob{uploads: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeBlob) Upload(ctx context.Context, key, contentType string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeBlob) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}

func seedTenant(t *testing.T, s store.Store, slug string) domain.Tenant {
	t.Helper()
	tn := domain.Tenant{ID: idx.New().String(), Slug: slug, Name: "Store " + slug}
	require.NoError(t, s.Tenants().CreateTenant(context.Background(), tn))
	return tn
}
