package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/akarakai/imgpdf/pkg/assembler"
	"github.com/akarakai/imgpdf/pkg/config"
	"github.com/akarakai/imgpdf/pkg/downloader"
	"github.com/akarakai/imgpdf/pkg/intake"
	"github.com/akarakai/imgpdf/pkg/logger"
	"github.com/akarakai/imgpdf/pkg/model"
	"github.com/akarakai/imgpdf/pkg/repository"
	"github.com/akarakai/imgpdf/pkg/session"
	"github.com/akarakai/imgpdf/pkg/sink"
	"github.com/akarakai/imgpdf/pkg/spinner"
	"github.com/spf13/cobra"
)

type convertOptions struct {
	out       string
	page      string
	landscape bool
	margin    float64
	quality   int
	noPrompt  bool
}

func newConvertCmd(a *app) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert FILE|URL...",
		Short: "Convert images into one PDF",
		Long: `Adds the images in argument order and exports them as one PDF.

Files that are not images are reported and skipped. Without --out you are
asked where to save the PDF; when there is no terminal to ask on, or with
--no-prompt, the PDF goes to the download directory.`,
		Example: `  # Save next to the images
  imgpdf convert scan1.jpg scan2.jpg --out scans.pdf

  # Letter pages in landscape, straight to ~/Downloads
  imgpdf convert *.png --page letter --landscape --no-prompt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *a.cfg
			flags := cmd.Flags()
			if flags.Changed("page") {
				cfg.Page.Size = opts.page
			}
			if flags.Changed("landscape") {
				cfg.Page.Landscape = opts.landscape
			}
			if flags.Changed("margin") {
				cfg.Page.Margin = opts.margin
			}
			if flags.Changed("quality") {
				cfg.JPEGQuality = opts.quality
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			history, closeHistory := a.openHistory()
			defer closeHistory()

			return runConvert(cmd.Context(), cmd.OutOrStdout(), &cfg, history, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "where to write the PDF, a file or a directory")
	cmd.Flags().StringVar(&opts.page, "page", "a4", "page size: a3, a4, a5, letter, legal")
	cmd.Flags().BoolVar(&opts.landscape, "landscape", false, "use landscape pages")
	cmd.Flags().Float64Var(&opts.margin, "margin", model.DefaultMargin, "page margin in mm")
	cmd.Flags().IntVar(&opts.quality, "quality", assembler.DefaultJPEGQuality, "JPEG quality used when images are re-encoded (1-100)")
	cmd.Flags().BoolVar(&opts.noPrompt, "no-prompt", false, "never ask where to save, download instead")

	return cmd
}

func runConvert(ctx context.Context, w io.Writer, cfg *config.Config, history repository.ExportRepo, opts convertOptions, args []string) error {
	asm, err := cfg.Assembler()
	if err != nil {
		return err
	}
	sess := session.New(session.SourceCLI, asm, history)

	candidates := collectCandidates(ctx, w, downloader.New(cfg.Telegram.MaxFileSize), args)
	for _, r := range sess.Images.AddAll(ctx, candidates) {
		if r.Err != nil {
			fmt.Fprintf(w, "skipped %s: %s\n", r.Name, session.UserMessage(r.Err))
		}
	}
	if sess.Images.Len() == 0 {
		return errors.New(session.UserMessage(model.ErrEmptyDocument))
	}

	spin := spinner.New(w, fmt.Sprintf("Creating PDF from %d image(s)...", sess.Images.Len()))

	persister := sink.Persister{Fallback: sink.DownloadSaver{Dir: cfg.DownloadDir}}
	switch {
	case opts.out != "":
		persister.Directed = sink.PathSaver{Path: opts.out}
	case !opts.noPrompt:
		prompter, closePrompter, err := sink.TerminalPrompter()
		if err != nil {
			logger.Log.Warnw("could not open the save prompt", "err", err)
		}
		defer closePrompter()
		if prompter != nil {
			persister.Directed = sink.DirectedSaver{
				Prompter: sink.PromptHook{Prompter: prompter, Before: func() { spin.Stop(true, "") }},
				Dir:      cfg.DownloadDir,
			}
		}
	}

	spin.Start()
	report, err := sess.Export(ctx, persister)
	if err != nil {
		spin.Stop(false, "")
		return errors.New(session.UserMessage(err))
	}
	if report.Delivery.Outcome == model.OutcomeCancelled {
		spin.Stop(true, "")
		fmt.Fprintln(w, "Export cancelled, nothing was saved.")
		return nil
	}
	spin.Stop(true, session.SuccessMessage(report))
	return nil
}

// collectCandidates reads files and downloads URLs in argument order.
// Unreadable arguments are reported and left out.
func collectCandidates(ctx context.Context, w io.Writer, fetcher *downloader.Downloader, args []string) []intake.Candidate {
	candidates := make([]intake.Candidate, 0, len(args))
	for _, arg := range args {
		var (
			c   intake.Candidate
			err error
		)
		if downloader.IsURL(arg) {
			c, err = fetcher.Fetch(ctx, arg)
		} else {
			c, err = intake.CandidateFromFile(arg)
		}
		if err != nil {
			fmt.Fprintf(w, "skipped %s: %v\n", arg, err)
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates
}
