package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// Prompter asks the user for a line of text, pre-filled with def.
type Prompter interface {
	Prompt(label, def string) (string, error)
}

// PromptHook runs Before ahead of every prompt, e.g. to stop a spinner
// that would draw over the question.
type PromptHook struct {
	Prompter
	Before func()
}

func (h PromptHook) Prompt(label, def string) (string, error) {
	if h.Before != nil {
		h.Before()
	}
	return h.Prompter.Prompt(label, def)
}

// DirectedSaver asks the user where to save. Without a Prompter it reports
// ErrDirectedSaveUnavailable so the caller can fall back to a download.
type DirectedSaver struct {
	Prompter Prompter
	Dir      string // directory used for the pre-filled answer
}

func (s DirectedSaver) Save(ctx context.Context, data []byte, suggestedName string) (string, error) {
	if s.Prompter == nil {
		return "", ErrDirectedSaveUnavailable
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	answer, err := s.Prompter.Prompt("Save PDF as: ", filepath.Join(s.Dir, suggestedName))
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", ErrSaveCancelled
	}
	return writeTo(expandHome(answer), suggestedName, data)
}

// PathSaver is a directed save whose destination was chosen up front,
// e.g. with a command line flag. A directory destination keeps the suggested name.
type PathSaver struct {
	Path string
}

func (s PathSaver) Save(_ context.Context, data []byte, suggestedName string) (string, error) {
	return writeTo(expandHome(s.Path), suggestedName, data)
}

func writeTo(dest, suggestedName string, data []byte) (string, error) {
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, suggestedName)
	}
	if filepath.Ext(dest) == "" {
		dest += ".pdf"
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write PDF file: %w", err)
	}
	return dest, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// ReadlinePrompter reuses a readline instance, e.g. the one of the shell.
type ReadlinePrompter struct {
	rl *readline.Instance
}

func NewReadlinePrompter(rl *readline.Instance) *ReadlinePrompter {
	return &ReadlinePrompter{rl: rl}
}

// Prompt maps ^C and ^D to ErrSaveCancelled.
func (p *ReadlinePrompter) Prompt(label, def string) (string, error) {
	old := p.rl.Config.Prompt
	p.rl.SetPrompt(label)
	defer p.rl.SetPrompt(old)

	line, err := p.rl.ReadlineWithDefault(def)
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return "", ErrSaveCancelled
		}
		return "", err
	}
	return line, nil
}

// TerminalPrompter returns a prompter on stdin, or nil when stdin is not a
// terminal. The returned close function is never nil.
func TerminalPrompter() (Prompter, func(), error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, func() {}, nil
	}
	rl, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		return nil, func() {}, err
	}
	return NewReadlinePrompter(rl), func() { _ = rl.Close() }, nil
}
