// Package payload assembles the multipart parts of one chat request.
package payload

import (
	"fmt"
	"strings"

	"github.com/HMTking/greenify/internal/attachment"
	"github.com/HMTking/greenify/internal/types"
	"github.com/HMTking/greenify/pkg/plantapi"
)

// Build returns the request parts in wire order: the trimmed message text if
// any, the session id once the session has one, then one image part per
// attachment in the order given.
func Build(text string, sessionID types.SessionID, attachments []*attachment.Attachment) []plantapi.Part {
	parts := make([]plantapi.Part, 0, len(attachments)+2)

	if trimmed := strings.TrimSpace(text); trimmed != "" {
		parts = append(parts, plantapi.TextPart(plantapi.FieldMessage, trimmed))
	}
	if sessionID != "" {
		parts = append(parts, plantapi.TextPart(plantapi.FieldSessionID, string(sessionID)))
	}
	for _, a := range attachments {
		parts = append(parts, plantapi.FilePart(plantapi.FieldImages, a.Name, a.MimeType, a.Data))
	}
	return parts
}

// Describe summarises parts for logging, e.g. "message,sessionId,images[2]:48213B".
func Describe(parts []plantapi.Part) string {
	var (
		fields []string
		images int
		size   int
	)
	for _, p := range parts {
		if p.Field == plantapi.FieldImages {
			images++
			size += len(p.Data)
			continue
		}
		fields = append(fields, p.Field)
	}
	if images > 0 {
		fields = append(fields, fmt.Sprintf("%s[%d]:%dB", plantapi.FieldImages, images, size))
	}
	if len(fields) == 0 {
		return "empty"
	}
	return strings.Join(fields, ",")
}
