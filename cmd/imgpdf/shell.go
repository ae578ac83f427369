package main

import (
	"os"
	"path/filepath"

	"github.com/akarakai/imgpdf/pkg/session"
	"github.com/akarakai/imgpdf/pkg/shell"
	"github.com/spf13/cobra"
)

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Arrange images interactively and export them",
		Long: `Starts an interactive shell with an empty image list.

Add images, check the order with ls, fix it with mv and rm, then export.
Positions start at 1. Type help inside the shell for all commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asm, err := a.cfg.Assembler()
			if err != nil {
				return err
			}
			history, closeHistory := a.openHistory()
			defer closeHistory()

			sess := session.New(session.SourceShell, asm, history)
			sh, err := shell.New(sess, history, shell.Config{
				HistoryFile: shellHistoryFile(),
				DownloadDir: a.cfg.DownloadDir,
				MaxFileSize: a.cfg.Telegram.MaxFileSize,
			})
			if err != nil {
				return err
			}
			return sh.Run(cmd.Context())
		},
	}
}

func shellHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".imgpdf_history")
}
