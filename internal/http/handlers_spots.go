package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/parkease/parkeased/internal/domain/model"
	"github.com/parkease/parkeased/internal/service"
)

const maxSpotListLimit = 100

// SpotHandlers provides HTTP handlers for parking spot operations.
type SpotHandlers struct {
	Svc *service.SpotService
}

// Create handles POST /api/spots (admin).
func (h *SpotHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSpotRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	spot, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, spot)
}

// List handles GET /api/spots. Supports q (name substring), available
// (true/false), and limit/offset paging.
func (h *SpotHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxSpotListLimit)
	opts := model.SpotsListOptions{
		Limit:  limit,
		Offset: offset,
		Q:      queryStringPtr(r, "q"),
	}
	if v := r.URL.Query().Get("available"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_query",
				Err:     errors.New("available must be true or false"),
			})
			return
		}
		opts.Available = &available
	}

	page, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"spots":  page.Items,
		"total":  page.Total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetByID handles GET /api/spots/{id}.
func (h *SpotHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("spot id is required")},
		)
		return
	}

	spot, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, spot)
}

// Update handles PUT /api/spots/{id} (admin).
func (h *SpotHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("spot id is required")},
		)
		return
	}

	var req model.UpdateSpotRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	spot, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, spot)
}

// Delete handles DELETE /api/spots/{id} (admin).
func (h *SpotHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("spot id is required")},
		)
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if !deleted {
		WriteError(
			w,
			ErrorParams{Code: http.StatusNotFound, ErrCode: "spot_not_found", Err: errors.New("parking spot not found")},
		)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
