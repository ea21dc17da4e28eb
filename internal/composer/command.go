// Package composer interprets what the user types into the chat composer:
// slash commands that manage the held attachments, or text to send.
package composer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/HMTking/greenify/internal/attachment"
)

type Kind int

const (
	KindSend Kind = iota
	KindAttach
	KindDetach
	KindClear
	KindHelp
	KindQuit
)

// Command is one parsed composer line.
type Command struct {
	Kind  Kind
	Text  string   // KindSend
	Paths []string // KindAttach
	Index int      // KindDetach, zero-based
}

// Help lists the composer commands.
const Help = "/attach <path>...  add images\n" +
	"/detach <n>        remove the n-th held image\n" +
	"/clear             remove all held images\n" +
	"/help              show this help\n" +
	"/quit              leave the chat"

// Parse reads a composer line. Lines that do not start with "/" are sent as
// text; "//" escapes a leading slash.
func Parse(line string) (Command, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") {
		return Command{Kind: KindSend, Text: line}, nil
	}
	if strings.HasPrefix(trimmed, "//") {
		return Command{Kind: KindSend, Text: trimmed[1:]}, nil
	}

	fields := strings.Fields(trimmed)
	name, args := fields[0], fields[1:]
	switch name {
	case "/attach", "/a":
		if len(args) == 0 {
			return Command{}, errors.New("usage: /attach <path>...")
		}
		paths := make([]string, len(args))
		for i, p := range args {
			paths[i] = expandHome(p)
		}
		return Command{Kind: KindAttach, Paths: paths}, nil
	case "/detach", "/d":
		if len(args) != 1 {
			return Command{}, errors.New("usage: /detach <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return Command{}, fmt.Errorf("not an attachment number: %s", args[0])
		}
		return Command{Kind: KindDetach, Index: n - 1}, nil
	case "/clear":
		return Command{Kind: KindClear}, nil
	case "/help", "/?":
		return Command{Kind: KindHelp}, nil
	case "/quit", "/exit", "/q":
		return Command{Kind: KindQuit}, nil
	}
	return Command{}, fmt.Errorf("unknown command %s (try /help)", name)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Attach loads paths and adds them to buf. See AddLoaded for the result.
func Attach(ctx context.Context, buf *attachment.Buffer, paths []string) (string, error) {
	items, err := attachment.LoadAll(ctx, paths)
	if err != nil {
		return "", err
	}
	return AddLoaded(buf, items)
}

// AddLoaded adds already loaded images to buf. The returned notice describes
// what was added and what was skipped. A *attachment.ValidationError means
// nothing was added.
func AddLoaded(buf *attachment.Buffer, items []*attachment.Attachment) (string, error) {
	before := buf.Len()
	rejected, err := buf.Add(items...)
	if err != nil {
		return "", err
	}

	notice := fmt.Sprintf("attached %d image(s), holding %d/%d", buf.Len()-before, buf.Len(), attachment.MaxCount)
	if len(rejected) > 0 {
		notice += "; skipped " + describeRejections(rejected)
	}
	return notice, nil
}

func describeRejections(rejected []attachment.Rejection) string {
	parts := make([]string, len(rejected))
	for i, r := range rejected {
		parts[i] = fmt.Sprintf("%s (%s)", r.Attachment.Name, r.Reason)
	}
	return strings.Join(parts, ", ")
}

// Held renders the held set as a single line, e.g. "[1] leaf.jpg 120 KB".
func Held(buf *attachment.Buffer) string {
	items := buf.Items()
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, len(items))
	for i, a := range items {
		parts[i] = fmt.Sprintf("[%d] %s %s", i+1, a.Name, FormatSize(a.Size))
	}
	return strings.Join(parts, "  ")
}

// FormatSize renders a byte count for display.
func FormatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%d KB", (n+1<<10-1)>>10)
	}
	return fmt.Sprintf("%d B", n)
}
