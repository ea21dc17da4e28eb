package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/HMTking/greenify/internal/repl"
	"github.com/HMTking/greenify/internal/session"
	"github.com/HMTking/greenify/internal/tokens"
	"github.com/HMTking/greenify/internal/tui"
)

var chatPlain bool

func init() {
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "line-mode chat instead of the full-screen UI")
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat with the assistant",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	w, closeLog := logWriter(cfg)
	defer closeLog()
	setupLogging(cfg, w)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := session.New(newClient(cfg))
	defer func() {
		if err := s.Close(); err != nil {
			slog.Warn("close session", "error", err)
		}
	}()
	slog.Info("chat started", "endpoint", cfg.API.Endpoint, "plain", chatPlain)

	if chatPlain {
		return repl.Run(ctx, s, repl.Options{
			HistoryFile: filepath.Join(filepath.Dir(cfgPath), "history"),
		})
	}
	return tui.Run(ctx, s, tui.Options{
		PreviewDir: cfg.PreviewDir,
		Counter:    tokens.New(cfg.Tokens.Encoding),
	})
}
