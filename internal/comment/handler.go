package comment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rmoreas/benefits-portal/internal/auth"
	"github.com/rmoreas/benefits-portal/internal/transport"
	"github.com/rmoreas/benefits-portal/pkg/logger"

	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	AddComment(ctx context.Context, requestID, authorID int64, authorPermissions []string, body string) (*Comment, error)
	ListByRequest(ctx context.Context, requestID, viewerID int64, viewerPermissions []string) ([]*Comment, error)
}

type CreateCommentDTO struct {
	Body string `json:"body"`
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

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("CreateComment: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.Logger.Error("CreateComment: invalid request ID", "id", chi.URLParam(r, "id"))
		h.WriteError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	var dto CreateCommentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateComment: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.AddComment(r.Context(), requestID, user.ID, user.Permissions, dto.Body)
	if err != nil {
		h.Logger.Error("CreateComment: service error", "error", err, "request_id", requestID, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ListComments: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.Logger.Error("ListComments: invalid request ID", "id", chi.URLParam(r, "id"))
		h.WriteError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	comments, err := h.Service.ListByRequest(r.Context(), requestID, user.ID, user.Permissions)
	if err != nil {
		h.Logger.Error("ListComments: service error", "error", err, "request_id", requestID, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"comments": comments,
	})
}
