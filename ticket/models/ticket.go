package models

import "time"

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
)

// Ticket is a handoff request raised when a visitor accepts the
// escalation offer. The session keeps living; the ticket tracks the
// agent-side follow-up.
type Ticket struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID string    `json:"session_id" gorm:"index;not null"`
	Subject   string    `json:"subject" gorm:"not null"`
	Status    string    `json:"status" gorm:"default:open;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
