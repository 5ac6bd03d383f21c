package models

import (
	"time"
)

// Faq is a single question/answer pair used as a matching fallback when no
// intent clears the confidence threshold.
type Faq struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Question  string     `json:"question"`
	Answer    string     `json:"answer"`
	Keywords  StringList `json:"keywords" gorm:"type:jsonb"`
	Active    bool       `json:"active" gorm:"default:true;index"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
