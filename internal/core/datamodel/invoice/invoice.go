package invoice

import "time"

// Invoice is the persistence model for request attachments.
type Invoice struct {
	ID         int64     `gorm:"primaryKey"`
	RequestID  int64     `gorm:"column:request_id;not null;index"`
	FileName   string    `gorm:"column:file_name;not null"`
	FileURL    string    `gorm:"column:file_url;not null"`
	StorageKey string    `gorm:"column:storage_key;not null"`
	FileSize   int64     `gorm:"column:file_size"`
	MimeType   string    `gorm:"column:mime_type"`
	UploadedAt time.Time `gorm:"column:uploaded_at;default:now()"`
}

func (Invoice) TableName() string {
	return "invoices"
}
