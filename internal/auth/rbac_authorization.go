package auth

import (
	"log/slog"
	"net/http"
)

// RBACAuthorization gates routes on permissions derived from the caller's role.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

func (ra *RBACAuthorization) Require(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				ra.logger.Warn("authorization check failed: user not found in context")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !user.HasPermission(permission) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					"user_id", user.ID,
					"required_permission", permission,
					"user_permissions", user.Permissions)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireApproveRequest() func(http.Handler) http.Handler {
	return ra.Require(PermApproveRequests)
}

func (ra *RBACAuthorization) RequireRejectRequest() func(http.Handler) http.Handler {
	return ra.Require(PermRejectRequests)
}

func (ra *RBACAuthorization) RequireViewAllRequests() func(http.Handler) http.Handler {
	return ra.Require(PermViewAllRequests)
}
