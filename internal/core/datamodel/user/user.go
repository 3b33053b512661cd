package user

import "time"

// User is the persistence model for portal users.
type User struct {
	ID                   int64     `gorm:"primaryKey"`
	AuthID               string    `gorm:"column:auth_id;uniqueIndex;not null"`
	Email                string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash         string    `gorm:"column:password_hash;not null"`
	Name                 string    `gorm:"column:name;not null"`
	Role                 string    `gorm:"column:role;not null;default:solicitante"`
	Polo                 string    `gorm:"column:polo;not null"`
	Department           string    `gorm:"column:department"`
	MonthlySalaryCents   int64     `gorm:"column:monthly_salary_cents"`
	ConsentDataUse       bool      `gorm:"column:consent_data_use;default:false"`
	ConsentNotifications bool      `gorm:"column:consent_notifications;default:false"`
	IsActive             bool      `gorm:"column:is_active;default:true"`
	CreatedAt            time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt            time.Time `gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}
