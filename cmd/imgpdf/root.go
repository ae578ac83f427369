package main

import (
	"github.com/akarakai/imgpdf/pkg/config"
	"github.com/akarakai/imgpdf/pkg/logger"
	"github.com/akarakai/imgpdf/pkg/repository"
	"github.com/spf13/cobra"
)

// app carries what the subcommands share once the config is loaded.
type app struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "imgpdf",
		Short: "Combine images into a single PDF, one image per page",
		Long: `imgpdf collects images into an ordered list and turns the list into
one PDF document. Every image gets its own page, scaled to fit inside the
page margins and centered.

Images can be converted in one go, arranged in an interactive shell or
sent to a Telegram bot.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load the config file, .env and the environment
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logger.LoggerInit(cfg.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default ./"+config.DefaultFile+")")

	// Add subcommands
	cmd.AddCommand(newConvertCmd(a))
	cmd.AddCommand(newShellCmd(a))
	cmd.AddCommand(newBotCmd(a))
	cmd.AddCommand(newHistoryCmd(a))

	return cmd
}

// openHistory opens the export history. It is optional for every command
// but history, a database that cannot be opened only disables it.
func (a *app) openHistory() (repository.ExportRepo, func()) {
	db, err := repository.NewSqlite3Database(a.cfg.DatabasePath)
	if err != nil {
		logger.Log.Warnw("export history disabled", "path", a.cfg.DatabasePath, "err", err)
		return nil, func() {}
	}
	return db.GetExportRepo(), func() { _ = db.Close() }
}
