package comment

import "time"

// Comment is a discussion entry attached to a benefit request.
type Comment struct {
	ID        int64     `gorm:"primaryKey"`
	RequestID int64     `gorm:"column:request_id;not null;index"`
	AuthorID  int64     `gorm:"column:author_id;not null"`
	Body      string    `gorm:"column:body;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (Comment) TableName() string {
	return "comments"
}
