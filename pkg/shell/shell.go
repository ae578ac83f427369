// Package shell provides the interactive REPL: one session, one image list.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/akarakai/imgpdf/pkg/downloader"
	"github.com/akarakai/imgpdf/pkg/intake"
	"github.com/akarakai/imgpdf/pkg/logger"
	"github.com/akarakai/imgpdf/pkg/model"
	"github.com/akarakai/imgpdf/pkg/repository"
	"github.com/akarakai/imgpdf/pkg/session"
	"github.com/akarakai/imgpdf/pkg/sink"
	"github.com/akarakai/imgpdf/pkg/spinner"
	"github.com/chzyer/readline"
)

// Shell is the interactive command-line interface.
type Shell struct {
	session   *session.Session
	history   repository.ExportRepo
	rl        *readline.Instance
	out       io.Writer
	persister sink.Persister
	spin      *spinner.Spinner
	fetcher   *downloader.Downloader
}

// Config holds shell configuration.
type Config struct {
	HistoryFile string
	DownloadDir string
	MaxFileSize int64 // limit for images added by URL, 0 means none
}

// New creates a new interactive shell. history may be nil.
func New(sess *session.Session, history repository.ExportRepo, cfg Config) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[33mimgpdf>\033[0m ",
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    newCompleter(),
	})
	if err != nil {
		return nil, err
	}

	s := newShell(sess, history, rl.Stdout(), cfg.MaxFileSize)
	s.rl = rl
	s.persister = sink.Persister{
		Directed: sink.DirectedSaver{
			Prompter: sink.PromptHook{Prompter: sink.NewReadlinePrompter(rl), Before: s.pauseSpinner},
			Dir:      cfg.DownloadDir,
		},
		Fallback: sink.DownloadSaver{Dir: cfg.DownloadDir},
	}
	return s, nil
}

func newShell(sess *session.Session, history repository.ExportRepo, out io.Writer, maxFileSize int64) *Shell {
	return &Shell{
		session: sess,
		history: history,
		out:     out,
		fetcher: downloader.New(maxFileSize),
	}
}

// Run starts the interactive loop.
func (s *Shell) Run(ctx context.Context) error {
	defer s.rl.Close()

	s.printf("Add images, put them in order and export them as one PDF.\n")
	s.printf("Type 'help' for the list of commands.\n\n")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := s.handleCommand(ctx, line); err != nil {
			if err == errQuit {
				return nil
			}
			s.printf("Error: %s\n", session.UserMessage(err))
			logger.Log.Debugw("command failed", "line", line, "err", err)
		}
	}
}

var errQuit = errors.New("quit")

func (s *Shell) handleCommand(ctx context.Context, line string) error {
	parts := strings.Fields(line)
	cmd := strings.TrimPrefix(parts[0], "/")
	args := parts[1:]

	switch cmd {
	case "quit", "exit", "q":
		return errQuit
	case "help", "h", "?":
		s.printHelp()
	case "add":
		s.add(ctx, args)
	case "ls", "list":
		s.list()
	case "rm", "remove":
		return s.remove(args)
	case "mv", "move":
		return s.move(args)
	case "clear":
		s.session.Images.Clear()
		s.printf("All images removed.\n")
	case "export", "pdf":
		return s.export(ctx)
	case "history":
		return s.printHistory()
	default:
		s.printf("Unknown command %q. Type 'help' for the list of commands.\n", cmd)
	}
	return nil
}

func (s *Shell) printHelp() {
	s.printf(`Commands:
  add FILE|GLOB|URL...  add images to the end of the list
  ls                    show the list in page order
  rm N                  remove image N
  mv FROM TO            move image FROM so that it becomes image TO
  clear                 remove all images
  export                create the PDF (one page per image, in list order)
  history               show recent exports
  quit                  leave the shell
`)
}

func (s *Shell) add(ctx context.Context, args []string) {
	if len(args) == 0 {
		s.printf("usage: add FILE|GLOB|URL...\n")
		return
	}

	var candidates []intake.Candidate
	for _, path := range expandPaths(args) {
		c, err := s.candidate(ctx, path)
		if err != nil {
			s.printf("  skipped %s: %v\n", path, err)
			continue
		}
		candidates = append(candidates, c)
	}

	added, rejected := 0, 0
	for _, r := range s.session.Images.AddAll(ctx, candidates) {
		switch {
		case r.Err != nil:
			if errors.Is(r.Err, model.ErrUnsupportedType) || errors.Is(r.Err, model.ErrDecode) {
				rejected++
			}
			s.printf("  skipped %s: %s\n", r.Name, session.UserMessage(r.Err))
		case r.Position < 0:
			s.printf("  %s is already being added\n", r.Name)
		case !r.Added:
			s.printf("  %s is already image %d\n", r.Name, r.Position+1)
		default:
			added++
		}
	}
	if len(candidates) > 0 && rejected == len(candidates) {
		s.printf("Please select image files only.\n")
	}
	s.printf("%d image(s) added, %d in the list.\n", added, s.session.Images.Len())
}

func (s *Shell) candidate(ctx context.Context, path string) (intake.Candidate, error) {
	if downloader.IsURL(path) {
		return s.fetcher.Fetch(ctx, path)
	}
	return intake.CandidateFromFile(path)
}

// expandPaths resolves globs; a pattern without matches is kept as is so the
// read error is reported for it.
func expandPaths(args []string) []string {
	var paths []string
	for _, a := range args {
		if downloader.IsURL(a) {
			paths = append(paths, a)
			continue
		}
		matches, err := filepath.Glob(a)
		if err != nil || len(matches) == 0 {
			paths = append(paths, a)
			continue
		}
		paths = append(paths, matches...)
	}
	return paths
}

func (s *Shell) list() {
	snap := s.session.Images.Snapshot()
	if len(snap) == 0 {
		s.printf("The list is empty. Use 'add' to select images.\n")
		return
	}
	for i, r := range snap {
		s.printf("%3d. %s  %dx%d  %s\n", i+1, r.ID, r.PixelWidth, r.PixelHeight, model.FormatByteSize(r.ByteSize))
	}
}

func (s *Shell) remove(args []string) error {
	if len(args) != 1 {
		s.printf("usage: rm N\n")
		return nil
	}
	pos, err := parsePosition(args[0])
	if err != nil {
		s.printf("usage: rm N\n")
		return nil
	}
	rec, err := s.session.Images.RemoveAt(pos)
	if err != nil {
		return err
	}
	s.printf("Removed %s.\n", rec.ID)
	return nil
}

func (s *Shell) move(args []string) error {
	if len(args) != 2 {
		s.printf("usage: mv FROM TO\n")
		return nil
	}
	from, errFrom := parsePosition(args[0])
	to, errTo := parsePosition(args[1])
	if errFrom != nil || errTo != nil {
		s.printf("usage: mv FROM TO\n")
		return nil
	}
	if err := s.session.Images.MoveTo(from, to); err != nil {
		return err
	}
	s.list()
	return nil
}

// parsePosition turns a 1-based user position into a 0-based index.
func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", arg)
	}
	return n - 1, nil
}

func (s *Shell) export(ctx context.Context) error {
	if s.session.Images.Len() == 0 {
		return model.ErrEmptyDocument
	}

	s.spin = spinner.New(s.out, "Creating PDF...")
	s.spin.Start()
	report, err := s.session.Export(ctx, s.persister)
	if err != nil {
		s.spin.Stop(false, session.UserMessage(err))
		logger.Log.Errorw("export failed", "err", err)
		return nil
	}
	if report.Delivery.Outcome == model.OutcomeCancelled {
		s.spin.Stop(true, "")
		s.printf("Export cancelled, the list is unchanged.\n")
		return nil
	}
	s.spin.Stop(true, session.SuccessMessage(report))
	return nil
}

func (s *Shell) pauseSpinner() {
	if s.spin != nil {
		s.spin.Stop(true, "")
	}
}

func (s *Shell) printHistory() error {
	if s.history == nil {
		s.printf("Export history is disabled.\n")
		return nil
	}
	exports, err := s.history.FindRecentExports(10)
	if err != nil {
		return err
	}
	if len(exports) == 0 {
		s.printf("No exports yet.\n")
		return nil
	}
	for _, e := range exports {
		s.printf("%s  %-10s %2d page(s)  %-9s %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Outcome, e.PageCount,
			model.FormatByteSize(e.ByteSize), e.Location)
	}
	return nil
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func newCompleter() *readline.PrefixCompleter {
	files := readline.PcItemDynamic(listImageFiles)
	return readline.NewPrefixCompleter(
		readline.PcItem("add", files),
		readline.PcItem("ls"),
		readline.PcItem("rm"),
		readline.PcItem("mv"),
		readline.PcItem("clear"),
		readline.PcItem("export"),
		readline.PcItem("history"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// listImageFiles offers the images of the working directory for completion.
func listImageFiles(string) []string {
	entries, err := os.ReadDir(".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if intake.IsImageType(intake.DeclaredType(e.Name(), nil)) {
			names = append(names, e.Name())
		}
	}
	return names
}
