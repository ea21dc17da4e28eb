package plantapi

import (
	"fmt"
	"time"
)

// Multipart field names of the chat endpoint.
const (
	FieldMessage   = "message"
	FieldSessionID = "sessionId"
	FieldImages    = "images"
)

// Part is one multipart form field. Parts with a FileName are sent as files
// carrying Data; the others carry Value.
type Part struct {
	Field       string
	FileName    string
	ContentType string
	Value       string
	Data        []byte
}

// IsFile reports whether the part is sent as a file.
func (p Part) IsFile() bool {
	return p.FileName != ""
}

// TextPart returns a plain form field.
func TextPart(field, value string) Part {
	return Part{Field: field, Value: value}
}

// FilePart returns a file form field.
func FilePart(field, name, contentType string, data []byte) Part {
	return Part{Field: field, FileName: name, ContentType: contentType, Data: data}
}

// Reply is the body of a successful chat response.
type Reply struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// APIError is returned when the assistant answered with a non-2xx status.
// Message holds the server's "error" field and is empty when the body had
// none or could not be decoded.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error (status %d)", e.Status)
	}
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Config holds the client settings.
type Config struct {
	Endpoint    string
	Token       string
	Timeout     time.Duration
	MaxAttempts int
}
