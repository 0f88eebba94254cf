package http

import (
	"net/http"

	"github.com/undokids/undokids/internal/admin/service"
	"github.com/undokids/undokids/pkg/httpx"
)

// AccountHandler covers self-service credential changes for the caller's
// own account. Both routes re-authenticate with the current password.
type AccountHandler struct {
	Self *service.SelfService
}

// HandleMe godoc
//
//	@Summary	The caller's own profile
//	@Tags		Account
//	@Produce	json
//	@Success	200	{object}	userResponse
//	@Failure	401	{object}	httpx.ErrorResponse
//	@Router		/admin/api/me [get].
func (h *AccountHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	profile, ok := profileFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(profile))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type changeEmailRequest struct {
	CurrentPassword string `json:"current_password"`
	NewEmail        string `json:"new_email"`
}

// HandleChangePassword godoc
//
//	@Summary	Change the caller's own password
//	@Tags		Account
//	@Accept		json
//	@Param		request	body	changePasswordRequest	true	"Current and new password"
//	@Success	204
//	@Failure	400	{object}	httpx.ErrorResponse
//	@Failure	401	{object}	httpx.ErrorResponse	"wrong current password"
//	@Router		/admin/api/account/password [post].
func (h *AccountHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	profile, ok := profileFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.Self.ChangePassword(r.Context(), profile.ID, profile.Email, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleChangeEmail godoc
//
//	@Summary	Change the caller's own email address
//	@Tags		Account
//	@Accept		json
//	@Param		request	body	changeEmailRequest	true	"Current password and new email"
//	@Success	204
//	@Failure	400	{object}	httpx.ErrorResponse	"same or malformed email"
//	@Failure	401	{object}	httpx.ErrorResponse	"wrong current password"
//	@Router		/admin/api/account/email [post].
func (h *AccountHandler) HandleChangeEmail(w http.ResponseWriter, r *http.Request) {
	profile, ok := profileFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req changeEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.Self.ChangeEmail(r.Context(), profile.ID, profile.Email, req.CurrentPassword, req.NewEmail)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
