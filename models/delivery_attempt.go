package models

import "time"

const (
	AttemptStatusSuccess = "success"
	AttemptStatusFailed  = "failed"
)

// DeliveryAttempt is the logged outcome of one recipient's dispatch.
// Written once per recipient per run, never mutated.
type DeliveryAttempt struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Recipient string    `json:"recipient"` // email address or phone number
	Name      string    `json:"name"`
	Title     string    `json:"title,omitempty"`
	Gender    string    `json:"gender,omitempty"`
	MessageID string    `json:"messageId,omitempty"`
	Error     string    `json:"error,omitempty"`
	Status    string    `json:"status"`
	Attempts  int       `json:"attempts"`
}
