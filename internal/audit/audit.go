package audit

import (
	"time"

	auditDatamodel "github.com/rmoreas/benefits-portal/internal/core/datamodel/audit"
)

// Entry is a single audit trail item.
type Entry struct {
	ID        int64     `json:"id"`
	ActorID   int64     `json:"actor_id"`
	Action    string    `json:"action"`
	RequestID *int64    `json:"request_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func FromDataModel(dm *auditDatamodel.Entry) *Entry {
	return &Entry{
		ID:        dm.ID,
		ActorID:   dm.ActorID,
		Action:    dm.Action,
		RequestID: dm.RequestID,
		Detail:    dm.Detail,
		CreatedAt: dm.CreatedAt,
	}
}

func FromDataModelSlice(dms []*auditDatamodel.Entry) []*Entry {
	result := make([]*Entry, len(dms))
	for i, dm := range dms {
		result[i] = FromDataModel(dm)
	}
	return result
}
