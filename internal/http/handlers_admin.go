package httpx

import (
	"net/http"

	"github.com/parkease/parkeased/internal/service"
)

const maxUserListLimit = 100

// AdminHandlers provides HTTP handlers for the admin dashboard.
type AdminHandlers struct {
	Svc *service.OverviewService
}

// Overview handles GET /api/admin/overview.
func (h *AdminHandlers) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Svc.Snapshot(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, overview)
}

// Users handles GET /api/admin/users.
func (h *AdminHandlers) Users(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxUserListLimit)

	page, err := h.Svc.Users(r.Context(), limit, offset)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"users":  page.Items,
		"total":  page.Total,
		"limit":  limit,
		"offset": offset,
	})
}
