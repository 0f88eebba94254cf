package http

import (
	"net/http"
	"time"

	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/service"
	"github.com/undokids/undokids/pkg/httpx"
)

type ChildrenHandler struct {
	Children *service.ChildService
}

type childRequest struct {
	TenantID  string `json:"tenant_id"`
	Name      string `json:"name"`
	Kana      string `json:"kana,omitempty"`
	Birthdate string `json:"birthdate"` // YYYY-MM-DD
	Gender    string `json:"gender,omitempty"`
}

type childResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Kana      string    `json:"kana,omitempty"`
	Birthdate string    `json:"birthdate"`
	Gender    string    `json:"gender,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toChildResponse(c domain.Child) childResponse {
	return childResponse{
		ID:        c.ID,
		TenantID:  c.TenantID,
		Name:      c.Name,
		Kana:      c.Kana,
		Birthdate: c.Birthdate.Format("2006-01-02"),
		Gender:    c.Gender,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (r childRequest) toInput(w http.ResponseWriter) (service.ChildInput, bool) {
	var birthdate time.Time
	if r.Birthdate != "" {
		var err error
		birthdate, err = time.Parse("2006-01-02", r.Birthdate)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "birthdate must be YYYY-MM-DD")
			return service.ChildInput{}, false
		}
	}
	return service.ChildInput{
		TenantID:  r.TenantID,
		Name:      r.Name,
		Kana:      r.Kana,
		Birthdate: birthdate,
		Gender:    r.Gender,
	}, true
}

// HandleCreate godoc
//
//	@Summary	Register a child
//	@Tags		Children
//	@Accept		json
//	@Produce	json
//	@Param		request	body		childRequest	true	"Child attributes"
//	@Success	201		{object}	childResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Router		/admin/api/children [post].
func (h *ChildrenHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req childRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, ok := req.toInput(w)
	if !ok {
		return
	}
	c, err := h.Children.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toChildResponse(c))
}

// HandleList returns children, filtered by ?tenant_id= when given. Store
// accounts are always pinned to their own store regardless of the query.
func (h *ChildrenHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenant_id")
	if p, ok := profileFromContext(r.Context()); ok && p.Role == domain.RoleStore && p.StoreID != nil {
		tenantID = *p.StoreID
	}
	children, err := h.Children.List(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]childResponse, 0, len(children))
	for _, c := range children {
		out = append(out, toChildResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *ChildrenHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.Children.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toChildResponse(c))
}

func (h *ChildrenHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req childRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, ok := req.toInput(w)
	if !ok {
		return
	}
	c, err := h.Children.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toChildResponse(c))
}

func (h *ChildrenHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Children.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
