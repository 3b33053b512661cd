package request

import "time"

// Request is the persistence model for benefit requests.
type Request struct {
	ID              int64      `gorm:"primaryKey"`
	UserID          int64      `gorm:"column:user_id;not null;index"`
	BenefitType     string     `gorm:"column:benefit_type;not null"`
	Description     string     `gorm:"column:description;not null"`
	AmountCents     int64      `gorm:"column:amount_cents;not null"`
	Status          string     `gorm:"column:status;not null;default:pending;index"`
	Polo            string     `gorm:"column:polo;not null;index"`
	ApprovedBy      *int64     `gorm:"column:approved_by"`
	ApprovedAt      *time.Time `gorm:"column:approved_at"`
	RejectionReason *string    `gorm:"column:rejection_reason"`
	CreatedAt       time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;default:now()"`

	Dependents []Dependent `gorm:"foreignKey:RequestID"`
}

func (Request) TableName() string {
	return "requests"
}

// Dependent is a family member covered by a request. Position preserves the
// order the requester entered them in.
type Dependent struct {
	ID           int64  `gorm:"primaryKey"`
	RequestID    int64  `gorm:"column:request_id;not null;index"`
	Name         string `gorm:"column:name;not null"`
	Relationship string `gorm:"column:relationship;not null"`
	Position     int    `gorm:"column:position;not null;default:0"`
}

func (Dependent) TableName() string {
	return "request_dependents"
}

// RequestWithOwner is the manager-view read model: a request joined with the
// owner's public profile fields.
type RequestWithOwner struct {
	Request
	OwnerName       string `gorm:"column:owner_name"`
	OwnerEmail      string `gorm:"column:owner_email"`
	OwnerDepartment string `gorm:"column:owner_department"`
	OwnerPolo       string `gorm:"column:owner_polo"`
}
