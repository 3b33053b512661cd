package postgres

import (
	"github.com/rmoreas/benefits-portal/internal/audit"
	auditDatamodel "github.com/rmoreas/benefits-portal/internal/core/datamodel/audit"
	"gorm.io/gorm"
)

// AuditRepository implements the audit.Repository interface using GORM
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(entry *audit.Entry) error {
	dm := &auditDatamodel.Entry{
		ActorID:   entry.ActorID,
		Action:    entry.Action,
		RequestID: entry.RequestID,
		Detail:    entry.Detail,
	}
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	entry.ID = dm.ID
	entry.CreatedAt = dm.CreatedAt
	return nil
}

func (r *AuditRepository) GetByRequestID(requestID int64, limit int) ([]*audit.Entry, error) {
	var dms []*auditDatamodel.Entry
	err := r.db.Where("request_id = ?", requestID).
		Order("created_at DESC").
		Limit(limit).
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return audit.FromDataModelSlice(dms), nil
}
