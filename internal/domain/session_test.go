package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChatSession(t *testing.T) {
	now := time.Now().UTC()
	session := NewChatSession("s1", "user-1", now)

	assert.Equal(t, "s1", session.ID)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, now, session.CreatedAt)
	require.NotNil(t, session.Messages)
	assert.Empty(t, session.Messages)
}

func TestValidateChatSession(t *testing.T) {
	tests := []struct {
		name    string
		session *ChatSession
		wantErr bool
	}{
		{
			name:    "valid session",
			session: &ChatSession{ID: "s1", UserID: "user-1"},
			wantErr: false,
		},
		{
			name:    "nil session",
			session: nil,
			wantErr: true,
		},
		{
			name:    "missing ID",
			session: &ChatSession{UserID: "user-1"},
			wantErr: true,
		},
		{
			name:    "missing user ID",
			session: &ChatSession{ID: "s1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChatSession(tt.session)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateMessage(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		msg     Message
		wantErr bool
	}{
		{
			name:    "valid user message",
			msg:     NewMessage("What should I do during an earthquake?", RoleUser, now),
			wantErr: false,
		},
		{
			name:    "valid model message",
			msg:     NewMessage("Drop, cover, and hold on.", RoleModel, now),
			wantErr: false,
		},
		{
			name:    "empty text",
			msg:     Message{Role: RoleUser, Timestamp: now},
			wantErr: true,
		},
		{
			name:    "invalid role",
			msg:     Message{Text: "hi", Role: "assistant", Timestamp: now},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessage(tt.msg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
