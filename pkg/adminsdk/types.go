package adminsdk

// HealthResponse is the payload of the health probes.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime,omitempty"`
	Version string `json:"version,omitempty"`
}

// Profile is the signed-in account as the admin API reports it.
type Profile struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	PartnerID *string `json:"partner_id,omitempty"`
	StoreID   *string `json:"store_id,omitempty"`
}

// Tenant is the public store record the slug resolution endpoint returns.
type Tenant struct {
	ID           string  `json:"id"`
	Slug         string  `json:"slug"`
	Name         string  `json:"name"`
	PartnerID    *string `json:"partner_id,omitempty"`
	LogoURL      string  `json:"logo_url,omitempty"`
	ThemeColor   string  `json:"theme_color,omitempty"`
	ContactEmail string  `json:"contact_email,omitempty"`
	QRMemberURL  string  `json:"qr_member_url,omitempty"`
	QRStaffURL   string  `json:"qr_staff_url,omitempty"`
}
