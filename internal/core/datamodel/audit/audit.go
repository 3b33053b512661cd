package audit

import "time"

// Entry records who did what to which request. Inserts are best-effort and
// never block the action they describe.
type Entry struct {
	ID        int64     `gorm:"primaryKey"`
	ActorID   int64     `gorm:"column:actor_id;not null"`
	Action    string    `gorm:"column:action;not null"`
	RequestID *int64    `gorm:"column:request_id;index"`
	Detail    string    `gorm:"column:detail"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (Entry) TableName() string {
	return "audit_logs"
}
