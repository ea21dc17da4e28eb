package devserver

import (
	"fmt"
	"strings"
)

var followUps = []string{
	"Care checklist:\n* Water when the top 2 cm of soil are dry\n* Give it **bright, indirect** light\n* Feed monthly in spring and summer",
	"1. Check the drainage holes\n2. Look for soft, dark roots\n3. Repot into fresh mix if they smell",
	"**Tip**: rotate the pot a quarter turn every week so growth stays even.",
}

// CannedReply answers with fixed plant-care text that covers every block
// kind the client renders.
func CannedReply(req Request) (string, error) {
	var sb strings.Builder

	switch {
	case req.Turn == 1:
		sb.WriteString("Hello! I'm your plant-care assistant.\n\n")
	default:
		sb.WriteString(fmt.Sprintf("Thanks, that's message %d in this conversation.\n\n", req.Turn))
	}

	if len(req.Images) > 0 {
		sb.WriteString("Photos received:\n")
		for _, img := range req.Images {
			sb.WriteString(fmt.Sprintf("- %s (%s, %d KB)\n", img.Name, img.MimeType, (img.Size+1023)/1024))
		}
		sb.WriteString("\nThe leaves look **slightly yellow**, which usually means overwatering.\n\n")
	}

	if req.Text != "" {
		sb.WriteString(fmt.Sprintf("You asked: %q\n\n", req.Text))
	}

	sb.WriteString(followUps[(req.Turn-1)%len(followUps)])
	return sb.String(), nil
}
