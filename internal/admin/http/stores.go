package http

import (
	"io"
	"net/http"
	"time"

	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/service"
	"github.com/undokids/undokids/pkg/httpx"
)

// StoresHandler exposes tenant (store) management including the QR
// image uploads.
type StoresHandler struct {
	Tenants *service.TenantService
}

type storeRequest struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	PartnerID    string `json:"partner_id,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
	ThemeColor   string `json:"theme_color,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
}

type storeResponse struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	PartnerID    *string   `json:"partner_id,omitempty"`
	LogoURL      string    `json:"logo_url,omitempty"`
	ThemeColor   string    `json:"theme_color,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	QRMemberURL  string    `json:"qr_member_url,omitempty"`
	QRStaffURL   string    `json:"qr_staff_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toStoreResponse(t domain.Tenant) storeResponse {
	return storeResponse{
		ID:           t.ID,
		Slug:         t.Slug,
		Name:         t.Name,
		PartnerID:    t.PartnerID,
		LogoURL:      t.LogoURL,
		ThemeColor:   t.ThemeColor,
		ContactEmail: t.ContactEmail,
		QRMemberURL:  t.QRMemberURL,
		QRStaffURL:   t.QRStaffURL,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func (r storeRequest) toInput() service.TenantInput {
	return service.TenantInput{
		Slug:         r.Slug,
		Name:         r.Name,
		PartnerID:    r.PartnerID,
		LogoURL:      r.LogoURL,
		ThemeColor:   r.ThemeColor,
		ContactEmail: r.ContactEmail,
	}
}

// HandleCreate godoc
//
//	@Summary	Create a store
//	@Tags		Stores
//	@Accept		json
//	@Produce	json
//	@Param		request	body		storeRequest	true	"Store attributes"
//	@Success	201		{object}	storeResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Router		/admin/api/stores [post].
func (h *StoresHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := h.Tenants.Create(r.Context(), req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toStoreResponse(t))
}

// HandleList returns stores. Partner accounts only see their own
// partner's stores; master sees everything.
func (h *StoresHandler) HandleList(w http.ResponseWriter, r *http.Request) {
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

func (h *StoresHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tenants.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toStoreResponse(t))
}

func (h *StoresHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := h.Tenants.Update(r.Context(), r.PathValue("id"), req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toStoreResponse(t))
}

func (h *StoresHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Tenants.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUploadQR godoc
//
//	@Summary		Upload a QR image for a store
//	@Description	Multipart upload. Field "file" carries the image, field
//	@Description	"kind" selects member or staff. Re-uploads overwrite.
//	@Tags			Stores
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string	true	"Store id"
//	@Param			kind	formData	string	true	"member or staff"
//	@Param			file	formData	file	true	"PNG, JPEG, GIF or WebP, max 5MB"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Router			/admin/api/stores/{id}/qr [post].
func (h *StoresHandler) HandleUploadQR(w http.ResponseWriter, r *http.Request) {
	// One byte of headroom so the service sees oversize payloads and
	// answers with its own message instead of a connection error.
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxQRImageSize+1024*1024)
	if err := r.ParseMultipartForm(service.MaxQRImageSize + 1024); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, service.ErrQRTooLarge.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	kind := domain.QRKind(r.FormValue("kind"))
	contentType := header.Header.Get("Content-Type")

	url, err := h.Tenants.UploadQR(r.Context(), r.PathValue("id"), kind, contentType, data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}
