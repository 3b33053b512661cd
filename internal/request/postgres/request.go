package postgres

import (
	"time"

	requestDatamodel "github.com/rmoreas/benefits-portal/internal/core/datamodel/request"
	"github.com/rmoreas/benefits-portal/internal/request"
	"gorm.io/gorm"
)

// RequestRepository implements the request.Repository interface using GORM
type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) request.Repository {
	return &RequestRepository{db: db}
}

// Create saves a new request together with its dependents in one transaction.
func (r *RequestRepository) Create(req *request.Request) error {
	dm := request.ToDataModel(req)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(dm).Error
	})
	if err != nil {
		return err
	}

	req.ID = dm.ID
	req.CreatedAt = dm.CreatedAt
	req.UpdatedAt = dm.UpdatedAt
	return nil
}

func (r *RequestRepository) GetByID(id int64) (*request.Request, error) {
	var dm requestDatamodel.Request
	err := r.db.Preload("Dependents", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return request.FromDataModel(&dm), nil
}

// GetWithOwner joins the request with the owner's profile, used by decision
// flows that need the owner's email for notification.
func (r *RequestRepository) GetWithOwner(id int64) (*request.RequestWithOwner, error) {
	var dm requestDatamodel.RequestWithOwner
	err := r.db.Table("requests").
		Select(`requests.*,
			users.name AS owner_name,
			users.email AS owner_email,
			users.department AS owner_department,
			users.polo AS owner_polo`).
		Joins("JOIN users ON users.id = requests.user_id").
		Where("requests.id = ?", id).
		First(&dm).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Where("request_id = ?", id).
		Order("position ASC").
		Find(&dm.Dependents).Error
	if err != nil {
		return nil, err
	}

	return request.FromDataModelWithOwner(&dm), nil
}

func (r *RequestRepository) GetByUserID(userID int64, limit, offset int) ([]*request.Request, error) {
	var dms []*requestDatamodel.Request
	err := r.db.Preload("Dependents").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return request.FromDataModelSlice(dms), nil
}

// GetAllWithOwner is the manager list view, newest first, optionally filtered
// by polo.
func (r *RequestRepository) GetAllWithOwner(polo string, limit, offset int) ([]*request.RequestWithOwner, error) {
	query := r.db.Table("requests").
		Select(`requests.*,
			users.name AS owner_name,
			users.email AS owner_email,
			users.department AS owner_department,
			users.polo AS owner_polo`).
		Joins("JOIN users ON users.id = requests.user_id").
		Order("requests.created_at DESC").
		Limit(limit).
		Offset(offset)

	if polo != "" {
		query = query.Where("requests.polo = ?", polo)
	}

	var dms []*requestDatamodel.RequestWithOwner
	if err := query.Find(&dms).Error; err != nil {
		return nil, err
	}
	return request.FromDataModelWithOwnerSlice(dms), nil
}

// UpdateDecision flips a pending request to its terminal status. The status
// guard in the WHERE clause makes concurrent decisions lose cleanly: the
// second writer matches zero rows.
func (r *RequestRepository) UpdateDecision(id int64, status string, decidedBy int64, decidedAt time.Time, reason *string) (int64, error) {
	updates := map[string]interface{}{
		"status":      status,
		"approved_by": decidedBy,
		"approved_at": decidedAt,
		"updated_at":  time.Now(),
	}
	if reason != nil {
		updates["rejection_reason"] = *reason
	}

	result := r.db.Model(&requestDatamodel.Request{}).
		Where("id = ? AND status = ?", id, request.StatusPending).
		Updates(updates)

	return result.RowsAffected, result.Error
}
