package domain

import "time"

// QRKind distinguishes the two branded QR images a store can upload.
type QRKind string

const (
	QRKindMember QRKind = "member"
	QRKindStaff  QRKind = "staff"
)

func (k QRKind) Valid() bool { return k == QRKindMember || k == QRKindStaff }

// Tenant is a store: the business unit each subdomain resolves to.
// Slug is unique and doubles as the subdomain label.
type Tenant struct {
	ID        string
	Slug      string
	Name      string
	PartnerID *string // owning partner, nil for directly-managed stores

	// Branding shown on the tenant-scoped pages.
	LogoURL      string
	ThemeColor   string
	ContactEmail string

	// Public URLs of the most recent QR uploads. Re-uploads overwrite.
	QRMemberURL string
	QRStaffURL  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Partner is a business partner owning one or more stores.
type Partner struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
