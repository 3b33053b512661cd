package request

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/rmoreas/benefits-portal/internal"
	"github.com/rmoreas/benefits-portal/internal/core/events"
)

// Repository defines the data access methods for benefit requests.
type Repository interface {
	Create(req *Request) error
	GetByID(id int64) (*Request, error)
	GetWithOwner(id int64) (*RequestWithOwner, error)
	GetByUserID(userID int64, limit, offset int) ([]*Request, error)
	GetAllWithOwner(polo string, limit, offset int) ([]*RequestWithOwner, error)
	// UpdateDecision persists a status transition guarded on the row still
	// being pending. Returns the number of rows updated (0 means another
	// manager already decided the request).
	UpdateDecision(id int64, status string, decidedBy int64, decidedAt time.Time, reason *string) (int64, error)
}

// EventPublisher dispatches domain events after state changes commit.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// AuditRecorder writes best-effort audit entries; implementations must not
// return errors into the request flow.
type AuditRecorder interface {
	Record(ctx context.Context, actorID int64, action string, requestID *int64, detail string)
}

// Service handles benefit request business logic.
type Service struct {
	repo   Repository
	events EventPublisher
	audit  AuditRecorder
	logger *slog.Logger
}

func NewService(repo Repository, publisher EventPublisher, audit AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: publisher,
		audit:  audit,
		logger: logger,
	}
}

// CreateRequest validates and persists a new request. Requests always start
// pending regardless of the payload.
func (s *Service) CreateRequest(ctx context.Context, userID int64, dto CreateRequestDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("request validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	now := time.Now()
	req := &Request{
		UserID:      userID,
		BenefitType: dto.BenefitType,
		Description: dto.Description,
		AmountCents: dto.AmountCents,
		Status:      StatusPending,
		Polo:        dto.Polo,
		Dependents:  dto.Dependents,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(req); err != nil {
		s.logger.Error("failed to create request", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to create request", err)
	}

	s.audit.Record(ctx, userID, "request.create", &req.ID, dto.BenefitType)
	s.events.Publish(ctx, events.NewRequestCreatedEvent(req.ID, userID, req.BenefitType, req.AmountCents, req.Polo))

	s.logger.Info("request created",
		"request_id", req.ID,
		"user_id", userID,
		"benefit_type", req.BenefitType,
		"amount_cents", req.AmountCents,
		"polo", req.Polo)

	return req, nil
}

// GetRequestByID retrieves a request, restricted to its owner or a manager.
func (s *Service) GetRequestByID(ctx context.Context, id, viewerID int64, viewerPermissions []string) (*Request, error) {
	req, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get request", "error", err, "request_id", id)
		return nil, errors.ErrRequestNotFound
	}

	if req.UserID != viewerID && !s.hasManagerPermissions(viewerPermissions) {
		s.logger.Warn("unauthorized access to request",
			"request_id", id, "viewer_id", viewerID, "owner_id", req.UserID)
		return nil, errors.ErrUnauthorizedAccess
	}

	return req, nil
}

// ListForRequester returns the viewer's own requests, newest first.
func (s *Service) ListForRequester(ctx context.Context, userID int64, limit, offset int) ([]*Request, error) {
	reqs, err := s.repo.GetByUserID(userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list user requests", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to list requests", err)
	}
	return reqs, nil
}

// ListAll returns every request joined with the owner profile, optionally
// filtered by polo. Manager only.
func (s *Service) ListAll(ctx context.Context, polo string, limit, offset int, viewerPermissions []string) ([]*RequestWithOwner, error) {
	if !s.hasManagerPermissions(viewerPermissions) {
		s.logger.Warn("list all requests denied: insufficient permissions", "permissions", viewerPermissions)
		return nil, errors.ErrUnauthorizedAccess
	}

	if polo != "" && !IsValidPolo(polo) {
		return nil, errors.NewValidationFieldError("polo", "unknown polo filter", errors.ErrCodeInvalidPolo)
	}

	reqs, err := s.repo.GetAllWithOwner(polo, limit, offset)
	if err != nil {
		s.logger.Error("failed to list all requests", "error", err)
		return nil, errors.NewInternalError("failed to list requests", err)
	}
	return reqs, nil
}

// ApproveRequest transitions a pending request to approved.
func (s *Service) ApproveRequest(ctx context.Context, requestID, managerID int64, viewerPermissions []string) (*Request, error) {
	return s.decide(ctx, requestID, managerID, StatusApproved, nil, viewerPermissions)
}

// RejectRequest transitions a pending request to rejected. A non-empty
// reason is required before any mutation happens.
func (s *Service) RejectRequest(ctx context.Context, requestID, managerID int64, reason string, viewerPermissions []string) (*Request, error) {
	if err := (RejectRequestDTO{Reason: reason}).Validate(); err != nil {
		return nil, err
	}
	return s.decide(ctx, requestID, managerID, StatusRejected, &reason, viewerPermissions)
}

func (s *Service) decide(ctx context.Context, requestID, managerID int64, target string, reason *string, viewerPermissions []string) (*Request, error) {
	if !s.hasManagerPermissions(viewerPermissions) {
		s.logger.Warn("decision denied: insufficient permissions",
			"request_id", requestID,
			"manager_id", managerID,
			"target_status", target)
		return nil, errors.ErrUnauthorizedAccess
	}

	current, err := s.repo.GetWithOwner(requestID)
	if err != nil {
		s.logger.Error("request not found for decision", "error", err, "request_id", requestID)
		return nil, errors.ErrRequestNotFound
	}

	if !current.CanBeDecided() {
		s.logger.Warn("request already decided",
			"request_id", requestID,
			"current_status", current.Status)
		return nil, errors.ErrRequestAlreadyClosed
	}

	decidedAt := time.Now()
	rows, err := s.repo.UpdateDecision(requestID, target, managerID, decidedAt, reason)
	if err != nil {
		s.logger.Error("failed to persist decision", "error", err, "request_id", requestID, "target_status", target)
		return nil, errors.NewInternalError("failed to update request status", err)
	}
	if rows == 0 {
		// lost the race against a concurrent decision
		s.logger.Warn("concurrent decision detected", "request_id", requestID)
		return nil, errors.ErrRequestAlreadyClosed
	}

	updated := current.Request
	updated.Status = target
	updated.ApprovedBy = &managerID
	updated.ApprovedAt = &decidedAt
	updated.RejectionReason = reason
	updated.UpdatedAt = decidedAt

	action := "approved"
	if target == StatusRejected {
		action = "rejected"
	}

	s.audit.Record(ctx, managerID, "request."+action, &requestID, "")

	reasonText := ""
	if reason != nil {
		reasonText = *reason
	}
	s.events.Publish(ctx, events.NewRequestDecidedEvent(
		requestID, current.UserID, managerID, action, reasonText, current.OwnerEmail))

	s.logger.Info("request decided",
		"request_id", requestID,
		"manager_id", managerID,
		"action", action)

	return &updated, nil
}

// hasManagerPermissions checks if the caller carries manager-level permissions.
func (s *Service) hasManagerPermissions(viewerPermissions []string) bool {
	managerPerms := []string{"approve_requests", "reject_requests", "view_all_requests", "admin"}
	for _, required := range managerPerms {
		for _, p := range viewerPermissions {
			if p == required {
				return true
			}
		}
	}
	return false
}
