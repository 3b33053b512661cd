package request

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
	CreateRequest(ctx context.Context, userID int64, dto CreateRequestDTO) (*Request, error)
	GetRequestByID(ctx context.Context, id, viewerID int64, viewerPermissions []string) (*Request, error)
	ListForRequester(ctx context.Context, userID int64, limit, offset int) ([]*Request, error)
	ListAll(ctx context.Context, polo string, limit, offset int, viewerPermissions []string) ([]*RequestWithOwner, error)
	ApproveRequest(ctx context.Context, requestID, managerID int64, viewerPermissions []string) (*Request, error)
	RejectRequest(ctx context.Context, requestID, managerID int64, reason string, viewerPermissions []string) (*Request, error)
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

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("CreateRequest: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateRequest: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.CreateRequest(r.Context(), user.ID, dto)
	if err != nil {
		h.Logger.Error("CreateRequest: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateRequest: request created successfully",
		"request_id", req.ID,
		"user_id", user.ID,
		"benefit_type", req.BenefitType,
		"status", req.Status)

	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetRequest: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requestID, err := requestIDParam(r)
	if err != nil {
		h.Logger.Error("GetRequest: invalid request ID", "id", chi.URLParam(r, "id"))
		h.WriteError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	req, err := h.Service.GetRequestByID(r.Context(), requestID, user.ID, user.Permissions)
	if err != nil {
		h.Logger.Error("GetRequest: service error", "error", err, "request_id", requestID, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

// GetRequests lists requests. Requesters only see their own; managers see
// everything, optionally filtered by polo.
func (h *Handler) GetRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetRequests: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, offset := paginationParams(r)

	if user.HasPermission(auth.PermViewAllRequests) {
		polo := r.URL.Query().Get("polo")

		reqs, err := h.Service.ListAll(r.Context(), polo, limit, offset, user.Permissions)
		if err != nil {
			h.Logger.Error("GetRequests: service error", "error", err, "user_id", user.ID, "polo", polo)
			h.HandleServiceError(w, err)
			return
		}

		h.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"requests": reqs,
			"limit":    limit,
			"offset":   offset,
		})
		return
	}

	reqs, err := h.Service.ListForRequester(r.Context(), user.ID, limit, offset)
	if err != nil {
		h.Logger.Error("GetRequests: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"requests": reqs,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ApproveRequest: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requestID, err := requestIDParam(r)
	if err != nil {
		h.Logger.Error("ApproveRequest: invalid request ID", "id", chi.URLParam(r, "id"))
		h.WriteError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	req, err := h.Service.ApproveRequest(r.Context(), requestID, user.ID, user.Permissions)
	if err != nil {
		h.Logger.Error("ApproveRequest: service error", "error", err, "request_id", requestID, "manager_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("ApproveRequest: request approved successfully",
		"request_id", requestID,
		"manager_id", user.ID)

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("RejectRequest: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requestID, err := requestIDParam(r)
	if err != nil {
		h.Logger.Error("RejectRequest: invalid request ID", "id", chi.URLParam(r, "id"))
		h.WriteError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	var dto RejectRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RejectRequest: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.RejectRequest(r.Context(), requestID, user.ID, dto.Reason, user.Permissions)
	if err != nil {
		h.Logger.Error("RejectRequest: service error", "error", err, "request_id", requestID, "manager_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("RejectRequest: request rejected successfully",
		"request_id", requestID,
		"manager_id", user.ID,
		"reason", dto.Reason)

	h.WriteJSON(w, http.StatusOK, req)
}

func requestIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func paginationParams(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	return limit, offset
}
