package http

import (
	"net/http"
	"time"

	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/service"
	"github.com/undokids/undokids/pkg/httpx"
)

// UsersHandler exposes admin-account management. The gate only lets
// master profiles reach these routes.
type UsersHandler struct {
	Accounts *service.AccountService
}

type userRequest struct {
	Email     string `json:"email,omitempty"`
	Password  string `json:"password,omitempty"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	PartnerID string `json:"partner_id,omitempty"`
	StoreID   string `json:"store_id,omitempty"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	PartnerID *string   `json:"partner_id,omitempty"`
	StoreID   *string   `json:"store_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(p domain.Profile) userResponse {
	return userResponse{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		Role:      p.Role.String(),
		PartnerID: p.PartnerID,
		StoreID:   p.StoreID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// HandleCreate godoc
//
//	@Summary	Create an admin account
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Param		request	body		userRequest	true	"Account attributes"
//	@Success	201		{object}	userResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Router		/admin/api/users [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.Accounts.Create(r.Context(), service.CreateAccountRequest{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		Role:      domain.Role(req.Role),
		PartnerID: req.PartnerID,
		StoreID:   req.StoreID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(profile))
}

// HandleList godoc
//
//	@Summary	List admin accounts
//	@Tags		Users
//	@Produce	json
//	@Success	200	{array}	userResponse
//	@Router		/admin/api/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Accounts.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]userResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toUserResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Accounts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(profile))
}

// HandleUpdate godoc
//
//	@Summary	Update an admin account's profile
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string		true	"Account id"
//	@Param		request	body		userRequest	true	"Mutable attributes"
//	@Success	200		{object}	userResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Router		/admin/api/users/{id} [put].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.Accounts.Update(r.Context(), r.PathValue("id"), service.UpdateAccountRequest{
		Name:      req.Name,
		Role:      domain.Role(req.Role),
		PartnerID: req.PartnerID,
		StoreID:   req.StoreID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(profile))
}

// HandleDelete godoc
//
//	@Summary	Delete an admin account and its identity
//	@Tags		Users
//	@Param		id	path	string	true	"Account id"
//	@Success	204
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/admin/api/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
