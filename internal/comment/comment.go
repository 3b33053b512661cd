package comment

import (
	"time"

	commentDatamodel "github.com/rmoreas/benefits-portal/internal/core/datamodel/comment"
)

// Comment is a discussion entry under a benefit request, visible to the
// request owner and to managers.
type Comment struct {
	ID        int64     `json:"id"`
	RequestID int64     `json:"request_id"`
	AuthorID  int64     `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func ToDataModel(c *Comment) *commentDatamodel.Comment {
	return &commentDatamodel.Comment{
		ID:        c.ID,
		RequestID: c.RequestID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

func FromDataModel(dm *commentDatamodel.Comment) *Comment {
	return &Comment{
		ID:        dm.ID,
		RequestID: dm.RequestID,
		AuthorID:  dm.AuthorID,
		Body:      dm.Body,
		CreatedAt: dm.CreatedAt,
	}
}

func FromDataModelSlice(dms []*commentDatamodel.Comment) []*Comment {
	result := make([]*Comment, len(dms))
	for i, dm := range dms {
		result[i] = FromDataModel(dm)
	}
	return result
}
