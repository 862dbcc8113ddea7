// Package cli содержит команды stepbot.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"step-bot/config"
	"step-bot/internal/container"
	app "step-bot/internal/application"
	"step-bot/internal/domain/port"
	"step-bot/internal/infrastructure/ai"
	"step-bot/internal/infrastructure/step"
	"step-bot/internal/infrastructure/storage"
)

var rootCmd = &cobra.Command{
	Use:           "stepbot",
	Short:         "STEP file geometry analyzer",
	Long:          `stepbot extracts bounding boxes and manufacturing features from STEP (ISO 10303-21) files over Telegram, HTTP, MCP or the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return botCmd.RunE(cmd, args)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

// signalContext отменяется по SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newLogger пишет в stderr: stdout занят транспортом MCP или выводом команды analyze.
func newLogger(cfg *config.Config, w io.Writer, jsonFormat bool) *slog.Logger {
	lvl, err := cfg.SlogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if jsonFormat {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// services собранные зависимости команды.
type services struct {
	cfg       *config.Config
	logger    *slog.Logger
	container *container.Container
	close     func()
}

// buildRuntime читает конфиг и собирает сервисы. withHistory=false отключает хранение анализов.
func buildRuntime(withHistory bool, jsonLogs bool) (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg, os.Stderr, jsonLogs)

	var (
		history port.AnalysisRepository
		closeFn = func() {}
	)
	if withHistory {
		if cfg.DBPath != "" {
			repo, err := storage.OpenSQLiteAnalysisRepository(cfg.DBPath)
			if err != nil {
				return nil, err
			}
			history = repo
			closeFn = func() {
				if err := repo.Close(); err != nil {
					logger.Error("close history database", "error", err)
				}
			}
			logger.Info("analysis history in sqlite", "path", cfg.DBPath)
		} else {
			history = storage.NewMemoryAnalysisRepository()
		}
	}

	opts := app.AnalysisOptions{
		MaxFileBytes: cfg.MaxFileBytes(),
		Logger:       logger,
	}
	if cfg.AI.Enabled() {
		opts.Suggester = ai.NewClient(ai.Config{
			BaseURL:   cfg.AI.BaseURL,
			APIKey:    cfg.AI.APIKey,
			Model:     cfg.AI.Model,
			MaxTokens: cfg.AI.MaxTokens,
			Timeout:   cfg.AI.Timeout,
		}, nil)
	}

	c := container.New(storage.NewMemoryUserRepository(), step.NewAnalyzer(nil), history, opts)
	return &services{cfg: cfg, logger: logger, container: c, close: closeFn}, nil
}
