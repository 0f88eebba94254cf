package http

import (
	"errors"
	"net/http"

	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/identity"
	"github.com/undokids/undokids/internal/admin/service"
	"github.com/undokids/undokids/internal/admin/store"
	"github.com/undokids/undokids/pkg/httpx"
	"github.com/undokids/undokids/pkg/slogx"
)

// validationErrors are surfaced verbatim with a 400. Everything the user
// can fix belongs here.
var validationErrors = []error{
	service.ErrEmailRequired,
	service.ErrEmailInvalid,
	service.ErrPasswordRequired,
	service.ErrNameRequired,
	service.ErrSlugRequired,
	service.ErrSlugInvalid,
	service.ErrSlugTaken,
	service.ErrTenantRequired,
	service.ErrBirthdateRequired,
	service.ErrGenderInvalid,
	service.ErrChildRequired,
	service.ErrMeasuredAtRequired,
	service.ErrValueNegative,
	service.ErrMeasurementRequired,
	service.ErrScoreOutOfRange,
	service.ErrRankInvalid,
	service.ErrResultExists,
	service.ErrSameEmail,
	service.ErrQRTooLarge,
	service.ErrQRKindInvalid,
	service.ErrQRTypeForbidden,
	domain.ErrUnknownRole,
	domain.ErrPartnerIDRequired,
	domain.ErrStoreIDRequired,
	domain.ErrMasterAssociations,
}

// writeServiceError maps a service-layer error onto the wire. Unmapped
// errors are logged and masked as a plain 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			httpx.WriteError(w, http.StatusBadRequest, v.Error())
			return
		}
	}

	var constraint *store.ConstraintError

	switch {
	case errors.As(err, &constraint):
		httpx.WriteError(w, http.StatusBadRequest, constraint.Error())
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrWrongCurrentPassword):
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, identity.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid email or password")
	default:
		var upstream *identity.UpstreamError
		if errors.As(err, &upstream) && upstream.Status >= 400 && upstream.Status < 500 {
			httpx.WriteError(w, upstream.Status, upstream.Message)
			return
		}
		slogx.FromContext(r.Context()).Error("request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON parses a JSON request body into dst, answering a 400 itself
// on malformed input. Returns false when the caller should stop.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := readJSONBody(r, dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
