package audit

import (
	"context"
	"log/slog"

	errors "github.com/rmoreas/benefits-portal/internal"
)

type Repository interface {
	Insert(entry *Entry) error
	GetByRequestID(requestID int64, limit int) ([]*Entry, error)
}

// Recorder writes audit entries. Record is best-effort: a failed insert is
// logged and the calling flow continues, the trail must never take a request
// down with it.
type Recorder struct {
	repo   Repository
	logger *slog.Logger
}

func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

func (r *Recorder) Record(ctx context.Context, actorID int64, action string, requestID *int64, detail string) {
	entry := &Entry{
		ActorID:   actorID,
		Action:    action,
		RequestID: requestID,
		Detail:    detail,
	}

	if err := r.repo.Insert(entry); err != nil {
		r.logger.Error("failed to record audit entry",
			"error", err,
			"actor_id", actorID,
			"action", action)
	}
}

// TrailForRequest returns the newest audit entries for a request.
func (r *Recorder) TrailForRequest(ctx context.Context, requestID int64, limit int) ([]*Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	entries, err := r.repo.GetByRequestID(requestID, limit)
	if err != nil {
		r.logger.Error("failed to load audit trail", "error", err, "request_id", requestID)
		return nil, errors.NewInternalError("failed to load audit trail", err)
	}
	return entries, nil
}
