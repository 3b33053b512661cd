package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/rmoreas/benefits-portal/internal"
	"github.com/rmoreas/benefits-portal/internal/request"
	"github.com/rmoreas/benefits-portal/internal/storage"

	"github.com/google/uuid"
)

// MaxFileSize caps a single attachment at 10 MiB.
const MaxFileSize = 10 << 20

type Repository interface {
	Create(inv *Invoice) error
	GetByRequestID(requestID int64) ([]*Invoice, error)
}

// RequestAccessor resolves a request applying the viewer's access rules, so
// attachment endpoints inherit the same owner-or-manager scoping.
type RequestAccessor interface {
	GetRequestByID(ctx context.Context, id, viewerID int64, viewerPermissions []string) (*request.Request, error)
}

type Service struct {
	repo     Repository
	requests RequestAccessor
	uploader storage.Uploader
	logger   *slog.Logger
}

func NewService(repo Repository, requests RequestAccessor, uploader storage.Uploader, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		requests: requests,
		uploader: uploader,
		logger:   logger,
	}
}

// AttachAll uploads files one by one and records each stored invoice. A file
// that fails to upload is reported back but never aborts the batch; the
// request itself is untouched either way.
func (s *Service) AttachAll(ctx context.Context, requestID, userID int64, viewerPermissions []string, files []File) (*UploadReport, error) {
	req, err := s.requests.GetRequestByID(ctx, requestID, userID, viewerPermissions)
	if err != nil {
		return nil, err
	}

	if req.UserID != userID {
		// managers can read requests but only the owner attaches invoices
		return nil, errors.ErrUnauthorizedAccess
	}

	report := &UploadReport{}

	for _, file := range files {
		inv, err := s.attachOne(ctx, req, file)
		if err != nil {
			s.logger.Warn("invoice upload failed",
				"request_id", requestID,
				"file_name", file.Name,
				"error", err)
			report.Failed = append(report.Failed, FailedFile{
				FileName: file.Name,
				Reason:   err.Error(),
			})
			continue
		}
		report.Uploaded = append(report.Uploaded, inv)
	}

	s.logger.Info("invoice batch processed",
		"request_id", requestID,
		"uploaded", len(report.Uploaded),
		"failed", len(report.Failed))

	return report, nil
}

func (s *Service) attachOne(ctx context.Context, req *request.Request, file File) (*Invoice, error) {
	if len(file.Content) == 0 {
		return nil, fmt.Errorf("file %s is empty", file.Name)
	}
	if file.Size > MaxFileSize {
		return nil, fmt.Errorf("file %s exceeds the %d byte limit", file.Name, MaxFileSize)
	}

	key := fmt.Sprintf("invoices/%d/%s-%s", req.UserID, uuid.NewString(), file.Name)

	result, err := s.uploader.Upload(ctx, storage.UploadInput{
		Key:         key,
		Body:        file.Content,
		ContentType: file.MimeType,
	})
	if err != nil {
		return nil, err
	}

	inv := &Invoice{
		RequestID:  req.ID,
		FileName:   file.Name,
		FileURL:    result.URL,
		StorageKey: key,
		FileSize:   file.Size,
		MimeType:   file.MimeType,
		UploadedAt: time.Now(),
	}

	if err := s.repo.Create(inv); err != nil {
		return nil, fmt.Errorf("failed to record invoice: %w", err)
	}

	return inv, nil
}

// ListByRequest returns the attachments of a request the viewer may see.
func (s *Service) ListByRequest(ctx context.Context, requestID, viewerID int64, viewerPermissions []string) ([]*Invoice, error) {
	if _, err := s.requests.GetRequestByID(ctx, requestID, viewerID, viewerPermissions); err != nil {
		return nil, err
	}

	invoices, err := s.repo.GetByRequestID(requestID)
	if err != nil {
		s.logger.Error("failed to list invoices", "error", err, "request_id", requestID)
		return nil, errors.NewInternalError("failed to list invoices", err)
	}
	return invoices, nil
}
