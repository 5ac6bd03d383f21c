package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Message senders
const (
	SenderUser  = "user"
	SenderBot   = "bot"
	SenderAgent = "agent"
)

// Message types
const (
	TypeText = "text"
	TypeImage = "image"
	// TypeOptions tells the widget to render action buttons (the
	// escalation offer) instead of plain text.
	TypeOptions = "options"
)

// Metadata carries classification details on bot messages. Confidence is
// the match score in [0,1]; MatchedQuestion is the trigger phrase or FAQ
// question the reply was selected by, nil when the bot fell back.
type Metadata struct {
	Confidence      float64 `json:"confidence"`
	MatchedQuestion *string `json:"matchedQuestion"`
}

// Value implements driver.Valuer so GORM stores Metadata as a JSON column
func (m Metadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}
}

// Message represents a chat message. Messages are append-only: created once
// per turn per side and never updated.
type Message struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ExternalID string    `json:"external_id" gorm:"index"`
	SessionID  string    `json:"session_id" gorm:"index"`
	Sender     string    `json:"sender"`
	Content    string    `json:"content"`
	Type       string    `json:"type" gorm:"default:text"`
	Metadata   *Metadata `json:"metadata,omitempty" gorm:"type:jsonb"`
	Timestamp  time.Time `json:"timestamp"`
	CreatedAt  time.Time `json:"created_at"`
}
