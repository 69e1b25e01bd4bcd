package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a progress indicator on stderr while a pipeline stage
// runs. It stops on Stop or when its context is cancelled, and shows the
// elapsed time once a stage runs long enough for the user to wonder.
type Spinner struct {
	message string
	started time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	mu      sync.Mutex
}

// newSpinnerWithContext creates a spinner bound to ctx.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.started = time.Now()
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clearLine()
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.render(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *Spinner) render(frame string) {
	line := s.message
	if elapsed := time.Since(s.started); elapsed > 2*time.Second {
		line = fmt.Sprintf("%s (%s)", s.message, elapsed.Round(time.Second))
	}
	s.mu.Lock()
	fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(line))
	s.mu.Unlock()
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
	s.clearLine()
}

// StopWithError stops the spinner and prints an error line in its place.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner stopped due to context cancellation.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Wide enough for the message plus frame and elapsed suffix.
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+16))
}
