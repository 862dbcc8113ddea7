package cli

import (
	"errors"

	"github.com/spf13/cobra"

	telegram "step-bot/internal/api"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildRuntime(true, true)
		if err != nil {
			return err
		}
		defer rt.close()

		if rt.cfg.TelegramToken == "" {
			return errors.New("TELEGRAM_TOKEN is required")
		}

		bot, err := telegram.NewBot(rt.cfg.TelegramToken, rt.container, rt.logger)
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		rt.logger.Info("bot is running")
		return bot.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
}
