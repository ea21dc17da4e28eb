// Package repl is the line-mode chat for terminals where the full-screen UI
// is unwanted. Each line is handled to completion before the next prompt,
// so at most one request is ever in flight.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/chzyer/readline"

	"github.com/HMTking/greenify/internal/attachment"
	"github.com/HMTking/greenify/internal/composer"
	"github.com/HMTking/greenify/internal/document"
	"github.com/HMTking/greenify/internal/session"
	"github.com/HMTking/greenify/internal/types"
)

type Options struct {
	HistoryFile string
}

// REPL holds the composition state between lines.
type REPL struct {
	session *session.Session
	buf     *attachment.Buffer
	out     io.Writer
}

func New(s *session.Session, out io.Writer) *REPL {
	return &REPL{session: s, buf: attachment.NewBuffer(), out: out}
}

// Handle processes one composer line and reports whether the user asked to
// quit.
func (r *REPL) Handle(ctx context.Context, line string) bool {
	cmd, err := composer.Parse(line)
	if err != nil {
		fmt.Fprintln(r.out, "!", err)
		return false
	}

	switch cmd.Kind {
	case composer.KindQuit:
		return true
	case composer.KindHelp:
		fmt.Fprintln(r.out, composer.Help)
	case composer.KindClear:
		if err := r.buf.Release(); err != nil {
			slog.Warn("release held attachments", "error", err)
		}
		fmt.Fprintln(r.out, "cleared held images")
	case composer.KindDetach:
		if err := r.buf.Remove(cmd.Index); err != nil {
			fmt.Fprintln(r.out, "!", err)
			return false
		}
		r.printHeld()
	case composer.KindAttach:
		notice, err := composer.Attach(ctx, r.buf, cmd.Paths)
		if err != nil {
			fmt.Fprintln(r.out, "!", err)
			return false
		}
		fmt.Fprintln(r.out, notice)
		r.printHeld()
	case composer.KindSend:
		msg, err := r.session.Submit(ctx, cmd.Text, r.buf)
		if err != nil {
			if !session.IsGuardRejection(err) {
				fmt.Fprintln(r.out, "!", err)
			}
			return false
		}
		r.printMessage(msg)
	}
	return false
}

func (r *REPL) printHeld() {
	if held := composer.Held(r.buf); held != "" {
		fmt.Fprintln(r.out, held)
	}
}

func (r *REPL) printMessage(msg types.Message) {
	switch msg.Role {
	case types.RoleAssistant:
		fmt.Fprintln(r.out, document.Text(document.Parse(msg.Text)))
	case types.RoleError:
		fmt.Fprintln(r.out, "error:", msg.Text)
	}
	fmt.Fprintln(r.out)
}

// Close releases the held attachments.
func (r *REPL) Close() error {
	return r.buf.Release()
}

// Run reads lines with readline until /quit, Ctrl-D or ctx is done.
func Run(ctx context.Context, s *session.Session, opts Options) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "🌱 > ",
		HistoryFile:     opts.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "/quit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	r := New(s, rl.Stdout())
	defer func() {
		if err := r.Close(); err != nil {
			slog.Warn("release held attachments", "error", err)
		}
	}()

	fmt.Fprintln(rl.Stdout(), "greenify chat, /help for commands")
	for ctx.Err() == nil {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read line: %w", err)
		}
		if r.Handle(ctx, line) {
			return nil
		}
	}
	return nil
}
