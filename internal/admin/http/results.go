package http

import (
	"net/http"
	"time"

	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/service"
	"github.com/undokids/undokids/pkg/httpx"
)

type ResultsHandler struct {
	Results *service.ResultService
}

type resultRequest struct {
	MeasurementID string `json:"measurement_id"`
	TotalScore    int    `json:"total_score"`
	AgeRank       string `json:"age_rank"`
	Comment       string `json:"comment,omitempty"`
}

type resultResponse struct {
	ID            string    `json:"id"`
	MeasurementID string    `json:"measurement_id"`
	TotalScore    int       `json:"total_score"`
	AgeRank       string    `json:"age_rank"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toResultResponse(r domain.Result) resultResponse {
	return resultResponse{
		ID:            r.ID,
		MeasurementID: r.MeasurementID,
		TotalScore:    r.TotalScore,
		AgeRank:       r.AgeRank,
		Comment:       r.Comment,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// HandleCreate godoc
//
//	@Summary	Attach a scored result to a measurement
//	@Tags		Results
//	@Accept		json
//	@Produce	json
//	@Param		request	body		resultRequest	true	"Scored outcome"
//	@Success	201		{object}	resultResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Router		/admin/api/results [post].
func (h *ResultsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Results.Create(r.Context(), service.ResultInput{
		MeasurementID: req.MeasurementID,
		TotalScore:    req.TotalScore,
		AgeRank:       req.AgeRank,
		Comment:       req.Comment,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toResultResponse(res))
}

// HandleList resolves ?measurement_id= to its single result.
func (h *ResultsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	measurementID := r.URL.Query().Get("measurement_id")
	if measurementID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "measurement_id query parameter is required")
		return
	}
	res, err := h.Results.GetByMeasurement(r.Context(), measurementID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, []resultResponse{toResultResponse(res)})
}

func (h *ResultsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	res, err := h.Results.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResultResponse(res))
}

func (h *ResultsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Results.Update(r.Context(), r.PathValue("id"), service.ResultInput{
		MeasurementID: req.MeasurementID,
		TotalScore:    req.TotalScore,
		AgeRank:       req.AgeRank,
		Comment:       req.Comment,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResultResponse(res))
}

func (h *ResultsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Results.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
