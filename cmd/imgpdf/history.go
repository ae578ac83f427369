package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/akarakai/imgpdf/pkg/model"
	"github.com/akarakai/imgpdf/pkg/repository"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := repository.NewSqlite3Database(a.cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("could not open the export history: %w", err)
			}
			defer db.Close()

			exports, err := db.GetExportRepo().FindRecentExports(limit)
			if err != nil {
				return err
			}
			return printExports(cmd.OutOrStdout(), exports)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of exports to show")

	return cmd
}

func printExports(w io.Writer, exports []model.Export) error {
	if len(exports) == 0 {
		_, err := fmt.Fprintln(w, "No exports yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSOURCE\tOUTCOME\tPAGES\tSIZE\tLOCATION")
	for _, e := range exports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Source, e.Outcome,
			e.PageCount, model.FormatByteSize(e.ByteSize), e.Location)
	}
	return tw.Flush()
}
