package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/HMTking/greenify/internal/attachment"
	"github.com/HMTking/greenify/internal/composer"
	"github.com/HMTking/greenify/internal/document"
	"github.com/HMTking/greenify/internal/session"
	"github.com/HMTking/greenify/internal/types"
)

var askImages []string

func init() {
	askCmd.Flags().StringSliceVarP(&askImages, "image", "i", nil, "image to attach (repeatable)")
	rootCmd.AddCommand(askCmd)
}

var askCmd = &cobra.Command{
	Use:   "ask [text]",
	Short: "Send one message and print the reply",
	RunE:  runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := session.New(newClient(cfg))
	defer func() {
		if err := s.Close(); err != nil {
			slog.Warn("close session", "error", err)
		}
	}()

	buf := attachment.NewBuffer()
	defer buf.Release()
	if len(askImages) > 0 {
		notice, err := composer.Attach(ctx, buf, askImages)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, notice)
	}

	msg, err := s.Submit(ctx, strings.Join(args, " "), buf)
	if errors.Is(err, session.ErrEmpty) {
		return errors.New("nothing to send: give a message or --image")
	}
	if err != nil {
		return err
	}
	if msg.Role == types.RoleError {
		return errors.New(msg.Text)
	}

	fmt.Fprintln(os.Stdout, document.Text(document.Parse(msg.Text)))
	slog.Debug("reply received", "session_id", s.ID())
	return nil
}
