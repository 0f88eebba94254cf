package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/undokids/undokids/internal/admin/blob"
	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/store"
	"github.com/undokids/undokids/pkg/idx"
)

// MaxQRImageSize is the upload cap for QR images.
const MaxQRImageSize = 5 << 20

var (
	ErrSlugRequired = errors.New("slug is required")
	ErrSlugInvalid  = errors.New("slug must be lowercase letters, digits and hyphens")
	ErrNameRequired = errors.New("name is required")
	ErrSlugTaken    = errors.New("slug is already in use")

	// ErrQRTooLarge is surfaced verbatim to the uploading user.
	ErrQRTooLarge      = errors.New("ファイルサイズは5MB以下にしてください")
	ErrQRKindInvalid   = errors.New("qr kind must be member or staff")
	ErrQRTypeForbidden = errors.New("file must be a png, jpeg, gif or webp image")

	slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

var allowedQRTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// TenantService manages stores and their branding assets. A tenant's
// slug doubles as its subdomain label, so it is validated like a DNS
// label and never changed once taken lightly.
type TenantService struct {
	Store store.Store
	Blob  blob.Storage
}

type TenantInput struct {
	Slug         string
	Name         string
	PartnerID    string
	LogoURL      string
	ThemeColor   string
	ContactEmail string
}

func (in TenantInput) validate() error {
	if in.Slug == "" {
		return ErrSlugRequired
	}
	if !slugPattern.MatchString(in.Slug) || len(in.Slug) > 63 {
		return ErrSlugInvalid
	}
	if in.Name == "" {
		return ErrNameRequired
	}
	return nil
}

func (s *TenantService) Create(ctx context.Context, in TenantInput) (domain.Tenant, error) {
	if err := in.validate(); err != nil {
		return domain.Tenant{}, err
	}

	now := touch()
	t := domain.Tenant{
		ID:           idx.New().String(),
		Slug:         in.Slug,
		Name:         in.Name,
		PartnerID:    optional(in.PartnerID),
		LogoURL:      in.LogoURL,
		ThemeColor:   in.ThemeColor,
		ContactEmail: in.ContactEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Tenants().CreateTenant(ctx, t); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Tenant{}, ErrSlugTaken
		}
		return domain.Tenant{}, err
	}
	return t, nil
}

func (s *TenantService) Get(ctx context.Context, id string) (domain.Tenant, error) {
	t, err := s.Store.Tenants().GetTenant(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Tenant{}, ErrNotFound
	}
	return t, err
}

// GetBySlug resolves a subdomain label to its tenant.
func (s *TenantService) GetBySlug(ctx context.Context, slug string) (domain.Tenant, error) {
	t, err := s.Store.Tenants().GetTenantBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Tenant{}, ErrNotFound
	}
	return t, err
}

// List returns tenants, scoped to one partner when partnerID is set.
func (s *TenantService) List(ctx context.Context, partnerID string) ([]domain.Tenant, error) {
	return s.Store.Tenants().ListTenants(ctx, partnerID)
}

func (s *TenantService) Update(ctx context.Context, id string, in TenantInput) (domain.Tenant, error) {
	if err := in.validate(); err != nil {
		return domain.Tenant{}, err
	}

	t, err := s.Get(ctx, id)
	if err != nil {
		return domain.Tenant{}, err
	}

	t.Slug = in.Slug
	t.Name = in.Name
	t.PartnerID = optional(in.PartnerID)
	t.LogoURL = in.LogoURL
	t.ThemeColor = in.ThemeColor
	t.ContactEmail = in.ContactEmail
	t.UpdatedAt = touch()

	if err := s.Store.Tenants().UpdateTenant(ctx, t); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Tenant{}, ErrSlugTaken
		}
		return domain.Tenant{}, err
	}
	return t, nil
}

func (s *TenantService) Delete(ctx context.Context, id string) error {
	err := s.Store.Tenants().DeleteTenant(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// UploadQR validates and stores a QR image for a tenant, then records
// its public URL. Size and content-type are checked before any storage
// call is made. The object key is deterministic per tenant and kind, so
// a re-upload overwrites the previous image rather than accumulating.
func (s *TenantService) UploadQR(ctx context.Context, tenantID string, kind domain.QRKind, contentType string, data []byte) (string, error) {
	if !kind.Valid() {
		return "", ErrQRKindInvalid
	}
	if len(data) > MaxQRImageSize {
		return "", ErrQRTooLarge
	}
	if !allowedQRTypes[contentType] {
		return "", ErrQRTypeForbidden
	}

	t, err := s.Get(ctx, tenantID)
	if err != nil {
		return "", err
	}

	// No extension in the key: the same key regardless of image type
	// keeps re-uploads overwriting. Content type travels as metadata.
	key := fmt.Sprintf("tenants/%s/qr-%s", t.ID, kind)
	if err := s.Blob.Upload(ctx, key, contentType, data); err != nil {
		return "", err
	}

	url := s.Blob.PublicURL(key)
	if err := s.Store.Tenants().SetQRImage(ctx, t.ID, kind, url); err != nil {
		return "", err
	}
	return url, nil
}
