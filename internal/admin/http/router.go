// Package http carries the admin surface: the access gate middleware,
// the JSON management API, the login pages and the tenant resolution
// endpoint the browser SDK uses.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/undokids/undokids/internal/admin/identity"
	"github.com/undokids/undokids/internal/admin/service"
	"github.com/undokids/undokids/internal/admin/store"
	"github.com/undokids/undokids/pkg/httpx"
	"github.com/undokids/undokids/pkg/slogx"

	_ "github.com/undokids/undokids/api/admin" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     *identity.Verifier
	identity     identity.Client
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	AccountService     *service.AccountService
	SelfService        *service.SelfService
	TenantService      *service.TenantService
	PartnerService     *service.PartnerService
	ChildService       *service.ChildService
	MeasurementService *service.MeasurementService
	ResultService      *service.ResultService
}

func NewRouter(
	verifier *identity.Verifier,
	ident identity.Client,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		identity:     ident,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	gate := &Gate{Verifier: verifier, Identity: ident, Store: st}

	// Outermost first: request logging, metrics, panic recovery, then
	// the access gate, then per-route limits.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		MetricsMiddleware(),
		httpx.Recover(),
		gate.Middleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerPartners()
	r.registerStores()
	r.registerChildren()
	r.registerMeasurements()
	r.registerResults()
	r.registerAccount()
	r.registerDashboards()
	r.registerTenantPages()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler and applies the global middleware
// chain.
//
//	@title			UndoKids Admin API
//	@version		0.1.0
//	@description	Management API for the athletic-ability diagnostic service:
//	@description	stores, partners, children, measurements, results and the
//	@description	admin accounts that operate them.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &LoginHandler{Identity: r.identity, Store: r.store}

	r.Mux.Handle("GET /admin/login", http.HandlerFunc(h.HandleForm))
	r.Mux.Handle("POST /admin/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "email"),
		))
	r.Mux.Handle("POST /admin/logout", http.HandlerFunc(h.HandleLogout))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Accounts: r.AccountService}

	r.Mux.Handle("POST /admin/api/users", r.api(h.HandleCreate))
	r.Mux.Handle("GET /admin/api/users", r.api(h.HandleList))
	r.Mux.Handle("GET /admin/api/users/{id}", r.api(h.HandleGet))
	r.Mux.Handle("PUT /admin/api/users/{id}", r.api(h.HandleUpdate))
	r.Mux.Handle("DELETE /admin/api/users/{id}", r.api(h.HandleDelete))
}

func (r *Router) registerPartners() {
	h := &PartnersHandler{Partners: r.PartnerService}

	r.Mux.Handle("POST /admin/api/partners", r.api(h.HandleCreate))
	r.Mux.Handle("GET /admin/api/partners", r.api(h.HandleList))
	r.Mux.Handle("GET /admin/api/partners/{id}", r.api(h.HandleGet))
	r.Mux.Handle("PUT /admin/api/partners/{id}", r.api(h.HandleUpdate))
	r.Mux.Handle("DELETE /admin/api/partners/{id}", r.api(h.HandleDelete))
}

func (r *Router) registerStores() {
	h := &StoresHandler{Tenants: r.TenantService}

	r.Mux.Handle("POST /admin/api/stores", r.api(h.HandleCreate))
	r.Mux.Handle("GET /admin/api/stores", r.api(h.HandleList))
	r.Mux.Handle("GET /admin/api/stores/{id}", r.api(h.HandleGet))
	r.Mux.Handle("PUT /admin/api/stores/{id}", r.api(h.HandleUpdate))
	r.Mux.Handle("DELETE /admin/api/stores/{id}", r.api(h.HandleDelete))
	r.Mux.Handle("POST /admin/api/stores/{id}/qr", r.api(h.HandleUploadQR))
}

func (r *Router) registerChildren() {
	h := &ChildrenHandler{Children: r.ChildService}

	r.Mux.Handle("POST /admin/api/children", r.api(h.HandleCreate))
	r.Mux.Handle("GET /admin/api/children", r.api(h.HandleList))
	r.Mux.Handle("GET /admin/api/children/{id}", r.api(h.HandleGet))
	r.Mux.Handle("PUT /admin/api/children/{id}", r.api(h.HandleUpdate))
	r.Mux.Handle("DELETE /admin/api/children/{id}", r.api(h.HandleDelete))
}

func (r *Router) registerMeasurements() {
	h := &MeasurementsHandler{Measurements: r.MeasurementService}

	r.Mux.Handle("POST /admin/api/measurements", r.api(h.HandleCreate))
	r.Mux.Handle("GET /admin/api/measurements", r.api(h.HandleList))
	r.Mux.Handle("GET /admin/api/measurements/{id}", r.api(h.HandleGet))
	r.Mux.Handle("PUT /admin/api/measurements/{id}", r.api(h.HandleUpdate))
	r.Mux.Handle("DELETE /admin/api/measurements/{id}", r.api(h.HandleDelete))
}

func (r *Router) registerResults() {
	h := &ResultsHandler{Results: r.ResultService}

	r.Mux.Handle("POST /admin/api/results", r.api(h.HandleCreate))
	r.Mux.Handle("GET /admin/api/results", r.api(h.HandleList))
	r.Mux.Handle("GET /admin/api/results/{id}", r.api(h.HandleGet))
	r.Mux.Handle("PUT /admin/api/results/{id}", r.api(h.HandleUpdate))
	r.Mux.Handle("DELETE /admin/api/results/{id}", r.api(h.HandleDelete))
}

func (r *Router) registerAccount() {
	h := &AccountHandler{Self: r.SelfService}

	r.Mux.Handle("GET /admin/api/me", r.api(h.HandleMe))
	r.Mux.Handle("POST /admin/api/account/password",
		httpx.Chain(http.HandlerFunc(h.HandleChangePassword), httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /admin/api/account/email",
		httpx.Chain(http.HandlerFunc(h.HandleChangeEmail), httpx.RateLimitByIP(httpx.StrictLimit)))
}

func (r *Router) registerDashboards() {
	h := &DashboardHandler{
		Tenants:      r.TenantService,
		Partners:     r.PartnerService,
		Children:     r.ChildService,
		Measurements: r.MeasurementService,
		Accounts:     r.AccountService,
	}

	r.Mux.Handle("GET /admin/master", r.api(h.HandleMaster))
	r.Mux.Handle("GET /admin/partner", r.api(h.HandlePartner))
	r.Mux.Handle("GET /admin/store", r.api(h.HandleStore))
	r.Mux.Handle("GET /admin", http.HandlerFunc(h.HandleChooser))
	r.Mux.Handle("GET /admin/{$}", http.HandlerFunc(h.HandleChooser))
}

func (r *Router) registerTenantPages() {
	h := NewTenantPagesHandler(r.TenantService)

	r.Mux.Handle("GET /store/{slug}", http.HandlerFunc(h.HandleResolve))
	r.Mux.Handle("GET /store/{slug}/login", http.HandlerFunc(h.HandleLoginPage))
	r.Mux.Handle("GET /store/{slug}/", http.HandlerFunc(h.HandleHome))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.store))
	r.Mux.Handle("GET /metrics", MetricsHandler())
}

// api wraps a management endpoint with the moderate rate limit.
func (r *Router) api(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h, httpx.RateLimitByIP(httpx.ModerateLimit))
}
