// Package attachment holds the images a user composes into a message: the
// validation rules, the pending composition buffer, and the temporary preview
// files that expose image bytes to the terminal.
package attachment

import (
	"sync"
)

const (
	// MaxCount is the number of attachments a single message may carry.
	MaxCount = 5
	// MaxBytes is the size limit of a single attachment.
	MaxBytes int64 = 10 << 20
	// MimePrefix is the media type prefix every attachment must carry.
	MimePrefix = "image/"
)

// Attachment is an image owned either by the composition buffer or by the
// message it was sent with. Attachments are always handled by pointer.
type Attachment struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Data     []byte `json:"-"`

	mu      sync.Mutex
	preview string
}

// New wraps an in-memory image.
func New(name, mimeType string, data []byte) *Attachment {
	return &Attachment{
		Name:     name,
		MimeType: mimeType,
		Size:     int64(len(data)),
		Data:     data,
	}
}
