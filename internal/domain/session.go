package domain

import (
	"fmt"
	"time"
)

// MessageRole identifies who produced a message in a transcript.
type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleModel MessageRole = "model"
)

// Message is a single transcript entry. Messages are immutable once
// appended; transcript order is append order.
type Message struct {
	Text      string
	Role      MessageRole
	Timestamp time.Time
}

// NewMessage creates a new Message instance
func NewMessage(text string, role MessageRole, timestamp time.Time) Message {
	return Message{
		Text:      text,
		Role:      role,
		Timestamp: timestamp,
	}
}

// ChatSession holds one conversation transcript for a user. A user may
// accumulate multiple sessions over time (explicit resets create new
// ones); old sessions stay queryable by id.
type ChatSession struct {
	ID        string
	UserID    string
	Messages  []Message
	CreatedAt time.Time
}

// NewChatSession creates a new ChatSession instance with an empty transcript
func NewChatSession(id, userID string, createdAt time.Time) *ChatSession {
	return &ChatSession{
		ID:        id,
		UserID:    userID,
		Messages:  []Message{},
		CreatedAt: createdAt,
	}
}

// ValidateMessage validates a Message instance
func ValidateMessage(m Message) error {
	if m.Text == "" {
		return fmt.Errorf("message Text is required")
	}

	if !isValidMessageRole(m.Role) {
		return fmt.Errorf("message Role is invalid: %s", m.Role)
	}

	return nil
}

// ValidateChatSession validates a ChatSession instance
func ValidateChatSession(s *ChatSession) error {
	if s == nil {
		return fmt.Errorf("chat session cannot be nil")
	}

	if s.ID == "" {
		return fmt.Errorf("chat session ID is required")
	}

	if s.UserID == "" {
		return fmt.Errorf("chat session UserID is required")
	}

	return nil
}

// isValidMessageRole checks if a MessageRole is valid
func isValidMessageRole(r MessageRole) bool {
	switch r {
	case RoleUser, RoleModel:
		return true
	}
	return false
}
