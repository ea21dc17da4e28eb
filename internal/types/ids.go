package types

import (
	"github.com/google/uuid"
)

type MessageID string

// SessionID is the server-assigned continuity token. The zero value means the
// session has not received a successful reply yet.
type SessionID string

func NewMessageID() MessageID {
	return MessageID(uuid.New().String())
}

func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}
