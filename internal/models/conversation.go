package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn inside a conversation. Messages are immutable once
// appended; id and timestamp are assigned by the store on append.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageList is the ordered, append-only message log of a conversation,
// stored as a single jsonb column
type MessageList []Message

// Value implements driver.Valuer so gorm can write the list as jsonb
func (m MessageList) Value() (driver.Value, error) {
	if m == nil {
		m = MessageList{}
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner so gorm can read the jsonb column
func (m *MessageList) Scan(value interface{}) error {
	if value == nil {
		*m = MessageList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for message list: %T", value)
	}

	if len(data) == 0 {
		*m = MessageList{}
		return nil
	}

	return json.Unmarshal(data, m)
}

// Conversation is an ordered, append-only message log tied to one chatbot
// and optionally one user
type Conversation struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	ChatbotID uint        `json:"chatbotId" gorm:"index;not null"`
	UserID    *uint       `json:"userId,omitempty" gorm:"index"`
	Title     string      `json:"title" gorm:"not null"`
	Messages  MessageList `json:"messages" gorm:"type:jsonb"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// CreateConversationRequest is the request structure for opening a thread
type CreateConversationRequest struct {
	ChatbotID uint   `json:"chatbotId" binding:"required"`
	UserID    *uint  `json:"userId"`
	Title     string `json:"title" binding:"required"`
}

// ValidateMessage checks a message against the store contract before append
func ValidateMessage(role, content string) error {
	if role != RoleUser && role != RoleAssistant {
		return errors.New("message role must be user or assistant")
	}
	if content == "" {
		return errors.New("message content must not be empty")
	}
	return nil
}
