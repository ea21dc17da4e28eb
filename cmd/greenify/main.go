package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HMTking/greenify/internal/config"
	"github.com/HMTking/greenify/pkg/plantapi"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "greenify",
	Short:         "Chat with a plant-care assistant",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file or exits; every subcommand needs it.
func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// setupLogging installs the default slog handler writing to w.
func setupLogging(cfg *config.Config, w io.Writer) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// logWriter is where logs go while a terminal UI owns stdout: the configured
// log file, or nowhere. The returned func closes the file.
func logWriter(cfg *config.Config) (io.Writer, func()) {
	if cfg.LogFile == "" {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}

func newClient(cfg *config.Config) *plantapi.Client {
	return plantapi.New(&plantapi.Config{
		Endpoint:    cfg.API.Endpoint,
		Token:       cfg.API.Token,
		Timeout:     cfg.Timeout(),
		MaxAttempts: cfg.API.MaxAttempts,
	})
}
