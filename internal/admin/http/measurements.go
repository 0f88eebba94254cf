package http

import (
	"net/http"
	"time"

	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/service"
	"github.com/undokids/undokids/pkg/httpx"
)

type MeasurementsHandler struct {
	Measurements *service.MeasurementService
}

type measurementRequest struct {
	ChildID    string  `json:"child_id"`
	MeasuredAt string  `json:"measured_at"` // RFC 3339 or YYYY-MM-DD
	Grip       float64 `json:"grip"`
	SprintTime float64 `json:"sprint_time"`
	Jump       float64 `json:"jump"`
	ThrowDist  float64 `json:"throw_dist"`
	SideSteps  int     `json:"side_steps"`
}

type measurementResponse struct {
	ID         string    `json:"id"`
	ChildID    string    `json:"child_id"`
	TenantID   string    `json:"tenant_id"`
	MeasuredAt time.Time `json:"measured_at"`
	Grip       float64   `json:"grip"`
	SprintTime float64   `json:"sprint_time"`
	Jump       float64   `json:"jump"`
	ThrowDist  float64   `json:"throw_dist"`
	SideSteps  int       `json:"side_steps"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toMeasurementResponse(m domain.Measurement) measurementResponse {
	return measurementResponse{
		ID:         m.ID,
		ChildID:    m.ChildID,
		TenantID:   m.TenantID,
		MeasuredAt: m.MeasuredAt,
		Grip:       m.Grip,
		SprintTime: m.SprintTime,
		Jump:       m.Jump,
		ThrowDist:  m.ThrowDist,
		SideSteps:  m.SideSteps,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func (r measurementRequest) toInput(w http.ResponseWriter) (service.MeasurementInput, bool) {
	var measuredAt time.Time
	if r.MeasuredAt != "" {
		var err error
		measuredAt, err = time.Parse(time.RFC3339, r.MeasuredAt)
		if err != nil {
			measuredAt, err = time.Parse("2006-01-02", r.MeasuredAt)
		}
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "measured_at must be RFC 3339 or YYYY-MM-DD")
			return service.MeasurementInput{}, false
		}
	}
	return service.MeasurementInput{
		ChildID:    r.ChildID,
		MeasuredAt: measuredAt,
		Grip:       r.Grip,
		SprintTime: r.SprintTime,
		Jump:       r.Jump,
		ThrowDist:  r.ThrowDist,
		SideSteps:  r.SideSteps,
	}, true
}

// HandleCreate godoc
//
//	@Summary	Record a measurement session
//	@Tags		Measurements
//	@Accept		json
//	@Produce	json
//	@Param		request	body		measurementRequest	true	"Raw item values"
//	@Success	201		{object}	measurementResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Router		/admin/api/measurements [post].
func (h *MeasurementsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req measurementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, ok := req.toInput(w)
	if !ok {
		return
	}
	m, err := h.Measurements.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toMeasurementResponse(m))
}

// HandleList filters by ?child_id= and/or ?tenant_id=. Store accounts
// are pinned to their own store.
func (h *MeasurementsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	childID := r.URL.Query().Get("child_id")
	tenantID := r.URL.Query().Get("tenant_id")
	if p, ok := profileFromContext(r.Context()); ok && p.Role == domain.RoleStore && p.StoreID != nil {
		tenantID = *p.StoreID
	}
	measurements, err := h.Measurements.List(r.Context(), childID, tenantID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]measurementResponse, 0, len(measurements))
	for _, m := range measurements {
		out = append(out, toMeasurementResponse(m))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *MeasurementsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	m, err := h.Measurements.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMeasurementResponse(m))
}

func (h *MeasurementsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req measurementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, ok := req.toInput(w)
	if !ok {
		return
	}
	m, err := h.Measurements.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMeasurementResponse(m))
}

func (h *MeasurementsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Measurements.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
