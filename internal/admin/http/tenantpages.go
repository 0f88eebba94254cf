package http

import (
	"html/template"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/service"
	"github.com/undokids/undokids/pkg/httpx"
)

var storeLoginTemplate = template.Must(template.New("store-login").Parse(`<!DOCTYPE html>
<html lang="ja">
<head><meta charset="utf-8"><title>{{.Name}} ログイン</title></head>
<body>
  <h1>{{.Name}}</h1>
  <form method="post" action="/admin/login">
    <label>メールアドレス <input type="email" name="email" required></label>
    <label>パスワード <input type="password" name="password" required></label>
    <button type="submit">ログイン</button>
  </form>
</body>
</html>`))

var storeHomeTemplate = template.Must(template.New("store-home").Parse(`<!DOCTYPE html>
<html lang="ja">
<head><meta charset="utf-8"><title>{{.Name}}</title></head>
<body>
  {{if .LogoURL}}<img src="{{.LogoURL}}" alt="{{.Name}}">{{end}}
  <h1>{{.Name}}</h1>
</body>
</html>`))

// TenantPagesHandler serves the /store/<slug> surface the subdomain
// rewrite lands on. Slug lookups go through a short TTL cache since
// every page hit on a tenant subdomain resolves the same row.
type TenantPagesHandler struct {
	Tenants *service.TenantService

	cache *cache.Cache
}

func NewTenantPagesHandler(tenants *service.TenantService) *TenantPagesHandler {
	return &TenantPagesHandler{
		Tenants: tenants,
		cache:   cache.New(time.Minute, 5*time.Minute),
	}
}

type tenantResponse struct {
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

func (h *TenantPagesHandler) resolve(r *http.Request, slug string) (domain.Tenant, error) {
	if cached, ok := h.cache.Get(slug); ok {
		return cached.(domain.Tenant), nil
	}
	t, err := h.Tenants.GetBySlug(r.Context(), slug)
	if err != nil {
		return domain.Tenant{}, err
	}
	h.cache.SetDefault(slug, t)
	return t, nil
}

// HandleResolve godoc
//
//	@Summary	Resolve a store slug to its public tenant record
//	@Tags		Stores
//	@Produce	json
//	@Param		slug	path		string	true	"Store slug"
//	@Success	200		{object}	tenantResponse
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Router		/store/{slug} [get].
func (h *TenantPagesHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolve(r, r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tenantResponse{
		ID:           t.ID,
		Slug:         t.Slug,
		Name:         t.Name,
		PartnerID:    t.PartnerID,
		LogoURL:      t.LogoURL,
		ThemeColor:   t.ThemeColor,
		ContactEmail: t.ContactEmail,
		QRMemberURL:  t.QRMemberURL,
		QRStaffURL:   t.QRStaffURL,
	})
}

// HandleHome catches every tenant page the subdomain rewrite lands on
// and renders the branded shell.
func (h *TenantPagesHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolve(r, r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = storeHomeTemplate.Execute(w, struct{ Name, LogoURL string }{Name: t.Name, LogoURL: t.LogoURL})
}

// HandleLoginPage renders the branded login page a denied tenant visit
// is redirected to.
func (h *TenantPagesHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	t, err := h.resolve(r, r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = storeLoginTemplate.Execute(w, struct{ Name string }{Name: t.Name})
}
