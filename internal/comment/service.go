package comment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	errors "github.com/rmoreas/benefits-portal/internal"
	"github.com/rmoreas/benefits-portal/internal/request"
)

const maxBodyLength = 2000

type Repository interface {
	Create(c *Comment) error
	GetByRequestID(requestID int64) ([]*Comment, error)
}

// RequestAccessor resolves a request applying the viewer's access rules.
type RequestAccessor interface {
	GetRequestByID(ctx context.Context, id, viewerID int64, viewerPermissions []string) (*request.Request, error)
}

type Service struct {
	repo     Repository
	requests RequestAccessor
	logger   *slog.Logger
}

func NewService(repo Repository, requests RequestAccessor, logger *slog.Logger) *Service {
	return &Service{repo: repo, requests: requests, logger: logger}
}

// AddComment posts a comment under a request the author can see.
func (s *Service) AddComment(ctx context.Context, requestID, authorID int64, authorPermissions []string, body string) (*Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.NewValidationFieldError("body", "comment body is required", errors.ErrCodeValidationFailed)
	}
	if len(body) > maxBodyLength {
		return nil, errors.NewValidationFieldError("body", "comment body is too long", errors.ErrCodeValidationFailed)
	}

	if _, err := s.requests.GetRequestByID(ctx, requestID, authorID, authorPermissions); err != nil {
		return nil, err
	}

	c := &Comment{
		RequestID: requestID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create comment", "error", err, "request_id", requestID)
		return nil, errors.NewInternalError("failed to create comment", err)
	}

	s.logger.Info("comment added", "comment_id", c.ID, "request_id", requestID, "author_id", authorID)
	return c, nil
}

// ListByRequest returns a request's comments, oldest first.
func (s *Service) ListByRequest(ctx context.Context, requestID, viewerID int64, viewerPermissions []string) ([]*Comment, error) {
	if _, err := s.requests.GetRequestByID(ctx, requestID, viewerID, viewerPermissions); err != nil {
		return nil, err
	}

	comments, err := s.repo.GetByRequestID(requestID)
	if err != nil {
		s.logger.Error("failed to list comments", "error", err, "request_id", requestID)
		return nil, errors.NewInternalError("failed to list comments", err)
	}
	return comments, nil
}
