package http

import (
	"net/http"
	"time"

	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/policy"
	"github.com/undokids/undokids/internal/admin/service"
	"github.com/undokids/undokids/pkg/httpx"
)

// reportWindow is the lookback for the dashboard activity figures.
const reportWindow = 30 * 24 * time.Hour

// DashboardHandler serves the role landing pages. The gate has already
// role-checked the path, so each handler only assembles its figures.
type DashboardHandler struct {
	Tenants      *service.TenantService
	Partners     *service.PartnerService
	Children     *service.ChildService
	Measurements *service.MeasurementService
	Accounts     *service.AccountService
}

// HandleChooser bounces /admin to the caller's landing page.
func (h *DashboardHandler) HandleChooser(w http.ResponseWriter, r *http.Request) {
	p, ok := profileFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, policy.LoginPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, policy.Landing(p.Role), http.StatusSeeOther)
}

// HandleMaster godoc
//
//	@Summary	Master dashboard figures
//	@Tags		Dashboards
//	@Produce	json
//	@Success	200	{object}	map[string]int
//	@Router		/admin/master [get].
func (h *DashboardHandler) HandleMaster(w http.ResponseWriter, r *http.Request) {
	partners, err := h.Partners.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	tenants, err := h.Tenants.List(r.Context(), "")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	accounts, err := h.Accounts.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]int{
		"partners": len(partners),
		"stores":   len(tenants),
		"accounts": len(accounts),
	})
}

// HandlePartner lists the caller's own stores. Master sees all stores
// here, which keeps the page usable when impersonating.
func (h *DashboardHandler) HandlePartner(w http.ResponseWriter, r *http.Request) {
	partnerID := ""
	if p, ok := profileFromContext(r.Context()); ok && p.Role == domain.RolePartner && p.PartnerID != nil {
		partnerID = *p.PartnerID
	}
	tenants, err := h.Tenants.List(r.Context(), partnerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]storeResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, toStoreResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleStore summarizes the caller's store: member count and recent
// measurement activity.
func (h *DashboardHandler) HandleStore(w http.ResponseWriter, r *http.Request) {
	p, ok := profileFromContext(r.Context())
	if !ok || p.StoreID == nil {
		// Master and partner roles may pass the gate here but have no
		// store of their own to summarize.
		httpx.WriteJSON(w, http.StatusOK, map[string]int{"children": 0, "recent_measurements": 0})
		return
	}

	children, err := h.Children.List(r.Context(), *p.StoreID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	recent, err := h.Measurements.ListSince(r.Context(), *p.StoreID, time.Now().Add(-reportWindow))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]int{
		"children":            len(children),
		"recent_measurements": len(recent),
	})
}
