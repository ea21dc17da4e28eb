package types

import (
	"time"

	"github.com/HMTking/greenify/internal/attachment"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleError     Role = "error"
)

// Message is one entry of a conversation history. Messages are never edited
// after they have been appended.
type Message struct {
	ID          MessageID                `json:"id"`
	Role        Role                     `json:"role"`
	Text        string                   `json:"text"`
	Attachments []*attachment.Attachment `json:"attachments,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
}

// NewMessage stamps a fresh id and creation time.
func NewMessage(role Role, text string, attachments []*attachment.Attachment) Message {
	return Message{
		ID:          NewMessageID(),
		Role:        role,
		Text:        text,
		Attachments: attachments,
		CreatedAt:   time.Now(),
	}
}
