package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a status line on stderr while a stage runs. It stops on
// its own when the parent context is cancelled.
type Spinner struct {
	w       io.Writer
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	started bool

	mu      sync.Mutex
	message string
	width   int
}

func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       os.Stderr,
		parent:  ctx,
		ctx:     spinnerCtx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.started = true
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.mu.Lock()
				line := fmt.Sprintf("\r%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(s.message))
				s.width = max(s.width, len(s.message)+2)
				fmt.Fprint(s.w, line)
				s.mu.Unlock()
			}
		}
	}()
}

// Update replaces the status message.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop ends the animation and clears the line. It is idempotent.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if s.started {
			<-s.stopped
		}
	})
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+2))
	}
}

func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended, as opposed to a
// plain Stop.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
