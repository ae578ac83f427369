// Package spinner shows a loading indicator while an export runs.
package spinner

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

const (
	clearLine  = "\r\033[K"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates on a terminal and prints plain lines everywhere else.
type Spinner struct {
	mu      sync.Mutex
	w       io.Writer
	message string
	isTTY   bool
	rate    time.Duration
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func New(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		isTTY:   isTerminalWriter(w),
		rate:    80 * time.Millisecond,
	}
}

func isTerminalWriter(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil {
		return
	}
	if !s.isTTY {
		fmt.Fprintf(s.w, "%s\n", s.message)
		return
	}
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.spin(s.stopCh, s.doneCh)
}

func (s *Spinner) spin(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.rate)
	defer ticker.Stop()
	start := time.Now()
	for i := 0; ; i++ {
		fmt.Fprintf(s.w, "%s%s %s (%.1fs)", clearLine, frames[i%len(frames)], s.message, time.Since(start).Seconds())
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// Stop ends the animation and prints the final status line. An empty
// message prints nothing.
func (s *Spinner) Stop(success bool, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil {
		close(s.stopCh)
		<-s.doneCh
		s.stopCh, s.doneCh = nil, nil
		fmt.Fprint(s.w, clearLine)
	}
	if message == "" {
		return
	}
	symbol, color := "✓", colorGreen
	if !success {
		symbol, color = "✗", colorRed
	}
	if s.isTTY {
		fmt.Fprintf(s.w, "%s%s%s %s\n", color, symbol, colorReset, message)
		return
	}
	fmt.Fprintf(s.w, "%s %s\n", symbol, message)
}
