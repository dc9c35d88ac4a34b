package httpx

import (
	"errors"
	"net/http"

	"github.com/parkease/parkeased/internal/domain/model"
	"github.com/parkease/parkeased/internal/service"
)

const maxReservationListLimit = 100

// ReservationHandlers provides HTTP handlers for reservation operations.
type ReservationHandlers struct {
	Svc *service.ReservationService
}

// Create handles POST /api/reservations: book a spot for the signed-in user.
func (h *ReservationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateReservationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	res, err := h.Svc.Create(r.Context(), UserIDFromRequest(r), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, res)
}

// ListMine handles GET /api/reservations: the signed-in user's bookings.
func (h *ReservationHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxReservationListLimit)

	page, err := h.Svc.ListMine(r.Context(), UserIDFromRequest(r), limit, offset)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"reservations": page.Items,
		"total":        page.Total,
		"limit":        limit,
		"offset":       offset,
	})
}

// Cancel handles DELETE /api/reservations/{id}.
func (h *ReservationHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("reservation id is required")},
		)
		return
	}

	res, err := h.Svc.Cancel(r.Context(), UserIDFromRequest(r), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// InspectorList handles GET /api/inspector/reservations: search by spot or
// user name (q), date, and status.
func (h *ReservationHandlers) InspectorList(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxReservationListLimit)
	opts := model.ReservationsListOptions{
		Limit:  limit,
		Offset: offset,
		Q:      queryStringPtr(r, "q"),
		Date:   queryStringPtr(r, "date"),
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status, ok := model.ParseReservationStatus(v)
		if !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_query",
				Err:     errors.New("unknown reservation status"),
			})
			return
		}
		opts.Status = &status
	}

	page, err := h.Svc.Search(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"reservations": page.Items,
		"total":        page.Total,
		"limit":        limit,
		"offset":       offset,
	})
}

type verifyRequest struct {
	Verified *bool `json:"verified,omitempty"`
}

// Verify handles POST /api/inspector/reservations/{id}/verify. The body may
// carry {"verified": false} to revoke; the default is to verify.
func (h *ReservationHandlers) Verify(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("reservation id is required")},
		)
		return
	}

	verified := true
	if r.ContentLength > 0 {
		var req verifyRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		if req.Verified != nil {
			verified = *req.Verified
		}
	}

	detail, err := h.Svc.Verify(r.Context(), id, verified)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, detail)
}
