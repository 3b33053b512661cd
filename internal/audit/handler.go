package audit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rmoreas/benefits-portal/internal/transport"
	"github.com/rmoreas/benefits-portal/pkg/logger"

	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	TrailForRequest(ctx context.Context, requestID int64, limit int) ([]*Entry, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// ListAuditTrail returns the newest audit entries for a request. Mounted
// behind the view_all_requests permission.
func (h *Handler) ListAuditTrail(w http.ResponseWriter, r *http.Request) {
	requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.Logger.Error("ListAuditTrail: invalid request ID", "id", chi.URLParam(r, "id"))
		h.WriteError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}

	entries, err := h.Service.TrailForRequest(r.Context(), requestID, limit)
	if err != nil {
		h.Logger.Error("ListAuditTrail: service error", "error", err, "request_id", requestID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"audit_logs": entries,
	})
}
