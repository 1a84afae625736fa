package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// progress draws a spinner next to a status line while a layout runs. It
// draws nothing when out is not a terminal, so piped output stays clean.
type progress struct {
	out     io.Writer
	animate bool

	mu      sync.Mutex
	message string
	width   int

	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func newProgress(out io.Writer, message string) *progress {
	animate := false
	if f, ok := out.(*os.File); ok {
		animate = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &progress{
		out:     out,
		animate: animate,
		message: message,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// start animates until ctx is done or finish is called.
func (p *progress) start(ctx context.Context) {
	if !p.animate {
		close(p.stopped)
		return
	}
	go func() {
		defer close(p.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				return
			case <-p.stop:
				return
			case <-ticker.C:
				p.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (p *progress) draw(frame string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	line := fmt.Sprintf("%s %s", styleIconSpinner.Render(frame), StyleDim.Render(p.message))
	fmt.Fprintf(p.out, "\r%s", line)
	p.width = max(p.width, len(p.message)+4)
}

// finish stops the animation and blanks the line. Safe to call repeatedly.
func (p *progress) finish() {
	p.once.Do(func() { close(p.stop) })
	<-p.stopped
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.width > 0 {
		fmt.Fprintf(p.out, "\r%s\r", strings.Repeat(" ", p.width))
		p.width = 0
	}
}

// runWithSpinner runs fn while a spinner is shown on stderr.
func runWithSpinner[T any](ctx context.Context, message string, fn func(context.Context) (T, error)) (T, error) {
	p := newProgress(os.Stderr, message)
	p.start(ctx)
	v, err := fn(ctx)
	p.finish()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		newTerminal(os.Stderr).failure("%s failed", strings.TrimSuffix(message, "..."))
	}
	return v, err
}
