package main

import (
	"errors"

	"github.com/akarakai/imgpdf/pkg/logger"
	"github.com/akarakai/imgpdf/pkg/repository"
	"github.com/akarakai/imgpdf/pkg/telegram"
	"github.com/spf13/cobra"
)

func newBotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Long: `Polls Telegram for updates until interrupted. Every chat has its own
image list; the PDF is sent back to the chat as a document.

The bot token is read from TELEGRAM_API_KEY, also from a .env file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Log.Info("Starting imgpdf bot")

			if a.cfg.Telegram.APIKey == "" {
				return errors.New("TELEGRAM_API_KEY is not present in the env variables")
			}

			asm, err := a.cfg.Assembler()
			if err != nil {
				return err
			}

			var db repository.Database
			sqlite, err := repository.NewSqlite3Database(a.cfg.DatabasePath)
			if err != nil {
				logger.Log.Warnw("could not connect to the database, history disabled", "err", err)
			} else {
				db = sqlite
				defer sqlite.Close()
			}

			tg, err := telegram.NewTelegramService(a.cfg.Telegram.APIKey, db, asm, a.cfg.Telegram.MaxFileSize)
			if err != nil {
				logger.Log.Errorw("could not create bot instance", "err", err)
				return err
			}

			tg.Start(cmd.Context())
			logger.Log.Info("bot stopped")
			return nil
		},
	}
}
