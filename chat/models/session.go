package models

import (
	"time"
)

// Session status values
const (
	SessionActive    = "active"
	SessionEscalated = "escalated"
	SessionClosed    = "closed"
)

// Session represents one widget conversation. Sessions may be anonymous,
// so UserID is optional; messages reference sessions by string ID only.
type Session struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	UserID         *uint     `json:"user_id,omitempty" gorm:"index"`
	Status         string    `json:"status" gorm:"default:active"`
	LastActivityAt time.Time `json:"last_activity_at"`
	CreatedAt      time.Time `json:"created_at"`
}
