package reimbursement

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rmoreas/benefits-portal/internal/auth"
	"github.com/rmoreas/benefits-portal/internal/transport"
	"github.com/rmoreas/benefits-portal/pkg/logger"
)

type SuggestionResponse struct {
	SalaryCents    int64 `json:"salary_cents"`
	SuggestedCents int64 `json:"suggested_cents"`
}

type Handler struct {
	*transport.BaseHandler
}

func NewHandler() *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
	}
}

// GetSuggestion handles GET /reimbursement/suggestion. With no salary_cents
// query parameter it falls back to the caller's registered salary.
func (h *Handler) GetSuggestion(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetSuggestion: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	salaryCents := user.MonthlySalaryCents

	if salaryStr := r.URL.Query().Get("salary_cents"); salaryStr != "" {
		parsed, err := strconv.ParseInt(salaryStr, 10, 64)
		if err != nil {
			h.Logger.Error("GetSuggestion: invalid salary_cents", "value", salaryStr)
			h.WriteError(w, http.StatusBadRequest, "salary_cents must be an integer")
			return
		}
		salaryCents = parsed
	}

	h.WriteJSON(w, http.StatusOK, SuggestionResponse{
		SalaryCents:    salaryCents,
		SuggestedCents: Suggest(salaryCents),
	})
}
