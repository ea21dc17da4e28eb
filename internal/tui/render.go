package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/HMTking/greenify/internal/attachment"
	"github.com/HMTking/greenify/internal/composer"
	"github.com/HMTking/greenify/internal/document"
	"github.com/HMTking/greenify/internal/types"
)

// renderHistory lays out every message for a viewport of the given width.
func renderHistory(history []types.Message, width int, previewDir string) string {
	if width < 20 {
		width = 20
	}
	parts := make([]string, 0, len(history))
	for _, msg := range history {
		parts = append(parts, renderMessage(msg, width, previewDir))
	}
	return strings.Join(parts, "\n\n")
}

func renderMessage(msg types.Message, width int, previewDir string) string {
	var b strings.Builder
	stamp := dimStyle.Render(msg.CreatedAt.Format("15:04"))

	switch msg.Role {
	case types.RoleUser:
		b.WriteString(userRoleStyle.Render(" you ") + " " + stamp + "\n")
		if msg.Text != "" {
			b.WriteString(wrap(msg.Text, width) + "\n")
		}
		for _, a := range msg.Attachments {
			b.WriteString(renderAttachment(a, previewDir) + "\n")
		}
	case types.RoleAssistant:
		b.WriteString(assistantRoleStyle.Render(" greenify ") + " " + stamp + "\n")
		b.WriteString(renderDocument(document.Parse(msg.Text), width) + "\n")
	case types.RoleError:
		b.WriteString(errorRoleStyle.Render(" error ") + " " + stamp + "\n")
		b.WriteString(errorTextStyle.Width(width).Render(msg.Text) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderAttachment(a *attachment.Attachment, previewDir string) string {
	line := fmt.Sprintf("  + %s (%s)", a.Name, composer.FormatSize(a.Size))
	if path, err := a.Preview(previewDir); err == nil {
		line += " " + dimStyle.Render(path)
	}
	return heldStyle.Render(line)
}

// renderDocument styles parsed assistant text.
func renderDocument(doc document.Document, width int) string {
	blocks := make([]string, 0, len(doc))
	for _, block := range doc {
		switch b := block.(type) {
		case document.Paragraph:
			blocks = append(blocks, wrap(renderSpans(b.Spans), width))
		case document.Heading:
			blocks = append(blocks, headingStyle.Render(b.Text))
		case document.List:
			items := make([]string, len(b.Items))
			for i, item := range b.Items {
				body := lipgloss.NewStyle().Width(width - 2).Render(renderSpans(item))
				items[i] = lipgloss.JoinHorizontal(lipgloss.Top, bulletStyle.Render("• "), body)
			}
			blocks = append(blocks, strings.Join(items, "\n"))
		case document.NumberedCallout:
			blocks = append(blocks, calloutStyle.Width(width-2).Render(renderSpans(b.Spans)))
		}
	}
	return strings.Join(blocks, "\n\n")
}

func renderSpans(spans []document.Span) string {
	var b strings.Builder
	for _, s := range spans {
		switch s.Kind {
		case document.SpanEmphasis:
			b.WriteString(emphasisStyle.Render(s.Text))
		default:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

func wrap(text string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(text)
}
