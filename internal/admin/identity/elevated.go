package identity

import (
	"context"
	"sync"

	"github.com/undokids/undokids/internal/admin/domain"
)

// LazyAdmin defers building the service-role client until the first
// elevated call, then reuses the same client. The client is stateless
// beyond its configuration, so sharing it across requests is safe.
type LazyAdmin struct {
	BaseURL        string
	ServiceRoleKey string

	once   sync.Once
	client *HTTPClient
}

func (l *LazyAdmin) get() *HTTPClient {
	l.once.Do(func() {
		l.client = NewHTTPClient(l.BaseURL, l.ServiceRoleKey)
	})
	return l.client
}

func (l *LazyAdmin) AdminCreateUser(ctx context.Context, email, password string) (domain.Identity, error) {
	return l.get().AdminCreateUser(ctx, email, password)
}

func (l *LazyAdmin) AdminUpdateUser(ctx context.Context, id string, upd UserUpdate) error {
	return l.get().AdminUpdateUser(ctx, id, upd)
}

func (l *LazyAdmin) AdminDeleteUser(ctx context.Context, id string) error {
	return l.get().AdminDeleteUser(ctx, id)
}
