package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner displays a progress animation while a request is in flight.
// A spinner writing to something other than a terminal stays silent.
type Spinner struct {
	mu       sync.Mutex
	w        io.Writer
	message  string
	frames   []string
	interval time.Duration
	animate  bool

	done    chan struct{}
	wg      sync.WaitGroup
	started bool
	stopped bool
}

// NewSpinner creates a new spinner.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:        w,
		message:  message,
		frames:   spinnerFrames,
		interval: 100 * time.Millisecond,
		animate:  IsTerminal(w),
		done:     make(chan struct{}),
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Start starts the spinner animation. Calling Start twice has no effect.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped || !s.animate {
		return
	}
	s.started = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s %s", s.frames[i%len(s.frames)], s.message)
			s.mu.Unlock()

			select {
			case <-s.done:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	if s.halt() {
		s.mu.Lock()
		fmt.Fprint(s.w, "\r\033[K")
		s.mu.Unlock()
	}
}

// halt stops the animation goroutine and reports whether it had drawn
// anything.
func (s *Spinner) halt() bool {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return false
	}
	s.stopped = true
	started := s.started
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
	return started
}
