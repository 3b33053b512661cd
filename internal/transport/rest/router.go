package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/rmoreas/benefits-portal/internal/audit"
	"github.com/rmoreas/benefits-portal/internal/auth"
	"github.com/rmoreas/benefits-portal/internal/comment"
	"github.com/rmoreas/benefits-portal/internal/invoice"
	"github.com/rmoreas/benefits-portal/internal/reimbursement"
	"github.com/rmoreas/benefits-portal/internal/request"
	"github.com/rmoreas/benefits-portal/internal/transport/middleware"
	"github.com/rmoreas/benefits-portal/internal/transport/swagger"
	"github.com/rmoreas/benefits-portal/internal/user"
	"github.com/go-chi/chi"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth          *auth.Handler
	RBAC          *auth.RBACAuthorization
	User          *user.Handler
	Request       *request.Handler
	Invoice       *invoice.Handler
	Comment       *comment.Handler
	Audit         *audit.Handler
	Reimbursement *reimbursement.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/logout", h.Auth.Logout)
			})
		}

		if h.Auth != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)

				// Current user
				if h.User != nil {
					pr.Get("/users/me", h.User.GetCurrentUser)
				}

				// Reimbursement suggestion
				if h.Reimbursement != nil {
					pr.Get("/reimbursement/suggestion", h.Reimbursement.GetSuggestion)
				}

				// Benefit request routes
				if h.Request != nil {
					pr.Route("/requests", func(rr chi.Router) {
						rr.Post("/", h.Request.CreateRequest)  // POST /requests
						rr.Get("/", h.Request.GetRequests)     // GET /requests
						rr.Get("/{id}", h.Request.GetRequest)  // GET /requests/:id

						// Manager routes with permission protection
						rr.Group(func(mr chi.Router) {
							mr.Use(h.RBAC.RequireApproveRequest())
							mr.Patch("/{id}/approve", h.Request.ApproveRequest) // PATCH /requests/:id/approve
						})

						rr.Group(func(mr chi.Router) {
							mr.Use(h.RBAC.RequireRejectRequest())
							mr.Patch("/{id}/reject", h.Request.RejectRequest) // PATCH /requests/:id/reject
						})

						// Attachments
						if h.Invoice != nil {
							rr.Post("/{id}/invoices", h.Invoice.UploadInvoices) // POST /requests/:id/invoices
							rr.Get("/{id}/invoices", h.Invoice.ListInvoices)    // GET /requests/:id/invoices
						}

						// Discussion
						if h.Comment != nil {
							rr.Post("/{id}/comments", h.Comment.CreateComment) // POST /requests/:id/comments
							rr.Get("/{id}/comments", h.Comment.ListComments)   // GET /requests/:id/comments
						}

						// Audit trail, manager only
						if h.Audit != nil {
							rr.Group(func(mr chi.Router) {
								mr.Use(h.RBAC.RequireViewAllRequests())
								mr.Get("/{id}/audit", h.Audit.ListAuditTrail) // GET /requests/:id/audit
							})
						}
					})
				}
			})
		}
	})
}
