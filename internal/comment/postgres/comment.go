package postgres

import (
	"github.com/rmoreas/benefits-portal/internal/comment"
	commentDatamodel "github.com/rmoreas/benefits-portal/internal/core/datamodel/comment"
	"gorm.io/gorm"
)

// CommentRepository implements the comment.Repository interface using GORM
type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) comment.Repository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(c *comment.Comment) error {
	dm := comment.ToDataModel(c)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	c.ID = dm.ID
	c.CreatedAt = dm.CreatedAt
	return nil
}

func (r *CommentRepository) GetByRequestID(requestID int64) ([]*comment.Comment, error) {
	var dms []*commentDatamodel.Comment
	err := r.db.Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return comment.FromDataModelSlice(dms), nil
}
