package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRequestCreated = "request.created"
	EventTypeRequestDecided = "request.decided"
)

type RequestCreatedEvent struct {
	BaseEvent
	RequestID   int64  `json:"request_id"`
	UserID      int64  `json:"user_id"`
	BenefitType string `json:"benefit_type"`
	AmountCents int64  `json:"amount_cents"`
	Polo        string `json:"polo"`
}

func NewRequestCreatedEvent(requestID, userID int64, benefitType string, amountCents int64, polo string) *RequestCreatedEvent {
	return &RequestCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRequestCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":   requestID,
				"user_id":      userID,
				"benefit_type": benefitType,
				"amount_cents": amountCents,
				"polo":         polo,
			},
		},
		RequestID:   requestID,
		UserID:      userID,
		BenefitType: benefitType,
		AmountCents: amountCents,
		Polo:        polo,
	}
}

// RequestDecidedEvent is published after a manager decision has been
// persisted. Action is either "approved" or "rejected".
type RequestDecidedEvent struct {
	BaseEvent
	RequestID       int64  `json:"request_id"`
	UserID          int64  `json:"user_id"`
	DecidedBy       int64  `json:"decided_by"`
	Action          string `json:"action"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	RecipientEmail  string `json:"recipient_email"`
}

func NewRequestDecidedEvent(requestID, userID, decidedBy int64, action, rejectionReason, recipientEmail string) *RequestDecidedEvent {
	return &RequestDecidedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRequestDecided,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":       requestID,
				"user_id":          userID,
				"decided_by":       decidedBy,
				"action":           action,
				"rejection_reason": rejectionReason,
				"recipient_email":  recipientEmail,
			},
		},
		RequestID:       requestID,
		UserID:          userID,
		DecidedBy:       decidedBy,
		Action:          action,
		RejectionReason: rejectionReason,
		RecipientEmail:  recipientEmail,
	}
}
