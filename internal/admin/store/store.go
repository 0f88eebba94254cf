package store

import (
	"context"
	"errors"
	"time"

	"github.com/undokids/undokids/internal/admin/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// ConstraintError reports a row the schema rejected (foreign key, check
// or not-null violation). The reason is safe to surface to the caller.
type ConstraintError struct {
	Reason string
}

func (e *ConstraintError) Error() string { return e.Reason }

// Store is the root data access interface. Concrete drivers implement
// this. It exposes sub-repositories to keep concerns tidy and testable.
type Store interface {
	Profiles() Profiles
	Partners() Partners
	Tenants() Tenants
	Children() Children
	Measurements() Measurements
	Results() Results

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error the transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Profiles interface {
	// GetProfile returns the profile for an identity id.
	GetProfile(ctx context.Context, id string) (domain.Profile, error)

	// ListProfiles returns all profiles, newest first.
	ListProfiles(ctx context.Context) ([]domain.Profile, error)

	// CreateProfile inserts the profile row for a freshly created identity.
	CreateProfile(ctx context.Context, p domain.Profile) error

	// UpdateProfile mutates name, role and associations.
	UpdateProfile(ctx context.Context, p domain.Profile) error

	// UpdateProfileEmail keeps the display email in step with the identity.
	UpdateProfileEmail(ctx context.Context, id, email string) error

	// DeleteProfile removes the profile row. The identity record is
	// deleted separately by the account service.
	DeleteProfile(ctx context.Context, id string) error
}

type Partners interface {
	GetPartner(ctx context.Context, id string) (domain.Partner, error)
	ListPartners(ctx context.Context) ([]domain.Partner, error)
	CreatePartner(ctx context.Context, p domain.Partner) error
	UpdatePartner(ctx context.Context, p domain.Partner) error
	DeletePartner(ctx context.Context, id string) error
}

type Tenants interface {
	GetTenant(ctx context.Context, id string) (domain.Tenant, error)

	// GetTenantBySlug backs subdomain resolution.
	GetTenantBySlug(ctx context.Context, slug string) (domain.Tenant, error)

	// ListTenants returns all tenants; pass a partner id to scope to one
	// partner's stores, or "" for all.
	ListTenants(ctx context.Context, partnerID string) ([]domain.Tenant, error)

	CreateTenant(ctx context.Context, t domain.Tenant) error
	UpdateTenant(ctx context.Context, t domain.Tenant) error
	DeleteTenant(ctx context.Context, id string) error

	// SetQRImage records the public URL of the latest QR upload for the
	// given kind. Overwrites, never appends.
	SetQRImage(ctx context.Context, id string, kind domain.QRKind, url string) error
}

type Children interface {
	GetChild(ctx context.Context, id string) (domain.Child, error)
	ListChildren(ctx context.Context, tenantID string) ([]domain.Child, error)
	CreateChild(ctx context.Context, c domain.Child) error
	UpdateChild(ctx context.Context, c domain.Child) error
	DeleteChild(ctx context.Context, id string) error
}

type Measurements interface {
	GetMeasurement(ctx context.Context, id string) (domain.Measurement, error)

	// ListMeasurements filters by child and/or tenant (empty means any),
	// ordered by measured_at descending.
	ListMeasurements(ctx context.Context, childID, tenantID string) ([]domain.Measurement, error)

	// ListMeasurementsSince supports period reports on the dashboards.
	ListMeasurementsSince(ctx context.Context, tenantID string, since time.Time) ([]domain.Measurement, error)

	CreateMeasurement(ctx context.Context, m domain.Measurement) error
	UpdateMeasurement(ctx context.Context, m domain.Measurement) error
	DeleteMeasurement(ctx context.Context, id string) error
}

type Results interface {
	GetResult(ctx context.Context, id string) (domain.Result, error)
	GetResultByMeasurement(ctx context.Context, measurementID string) (domain.Result, error)
	CreateResult(ctx context.Context, r domain.Result) error
	UpdateResult(ctx context.Context, r domain.Result) error
	DeleteResult(ctx context.Context, id string) error
}
