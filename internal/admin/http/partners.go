package http

import (
	"net/http"
	"time"

	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/service"
	"github.com/undokids/undokids/pkg/httpx"
)

type PartnersHandler struct {
	Partners *service.PartnerService
}

type partnerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type partnerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPartnerResponse(p domain.Partner) partnerResponse {
	return partnerResponse{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// HandleCreate godoc
//
//	@Summary	Create a partner
//	@Tags		Partners
//	@Accept		json
//	@Produce	json
//	@Param		request	body		partnerRequest	true	"Partner attributes"
//	@Success	201		{object}	partnerResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Router		/admin/api/partners [post].
func (h *PartnersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req partnerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.Partners.Create(r.Context(), service.PartnerInput{Name: req.Name, Email: req.Email})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toPartnerResponse(p))
}

func (h *PartnersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	partners, err := h.Partners.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]partnerResponse, 0, len(partners))
	for _, p := range partners {
		out = append(out, toPartnerResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *PartnersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.Partners.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPartnerResponse(p))
}

func (h *PartnersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req partnerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.Partners.Update(r.Context(), r.PathValue("id"), service.PartnerInput{Name: req.Name, Email: req.Email})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPartnerResponse(p))
}

func (h *PartnersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Partners.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
