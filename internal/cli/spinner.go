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

// spinnerOut receives spinner frames. Tests swap it for a buffer.
var spinnerOut io.Writer = os.Stderr

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line on stderr while a pipeline stage runs.
// It stops on stop, fail, or when ctx is cancelled (Ctrl-C).
type spinner struct {
	message string
	out     io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	exited  chan struct{}
	once    sync.Once
	mu      sync.Mutex
}

// startSpinner starts animating message until the returned spinner is stopped.
func startSpinner(ctx context.Context, message string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	s := &spinner{
		message: message,
		out:     spinnerOut,
		ctx:     sctx,
		cancel:  cancel,
		exited:  make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *spinner) loop() {
	defer close(s.exited)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-tick.C:
			s.mu.Lock()
			fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(spinnerFrames[frame%len(spinnerFrames)]), StyleDim.Render(s.message))
			s.mu.Unlock()
		}
	}
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// stop halts the animation and waits for the line to be cleared. Repeated
// calls are no-ops.
func (s *spinner) stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.exited
	})
}

// fail stops the spinner and prints msg as an error line.
func (s *spinner) fail(msg string) {
	s.stop()
	printError("%s", msg)
}
