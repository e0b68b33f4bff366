package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/beanchain/pkg/bean"
	"github.com/matzehuels/beanchain/pkg/config"
	"github.com/matzehuels/beanchain/pkg/source"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// loadSpinner animates while records are fetched from a remote source and
// reports the outcome when the fetch ends.
type loadSpinner struct {
	w       io.Writer
	label   string
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	mu      sync.Mutex
}

// startLoadSpinner starts animating on w. The animation ends when ctx is
// done or when finish is called.
func startLoadSpinner(ctx context.Context, w io.Writer, label string) *loadSpinner {
	spinCtx, cancel := context.WithCancel(ctx)
	s := &loadSpinner{
		w:       w,
		label:   label,
		ctx:     spinCtx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *loadSpinner) message() string {
	return "Loading beans from " + s.label + "..."
}

func (s *loadSpinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clearLine()
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message()))
			s.mu.Unlock()
		}
	}
}

func (s *loadSpinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message())+4))
}

// stop ends the animation and waits for the line to be cleared.
// It is safe to call more than once.
func (s *loadSpinner) stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
	})
}

// finish stops the spinner and reports how many records were fetched, or
// that the fetch failed. Cancellation is not reported.
func (s *loadSpinner) finish(count int, err error) {
	s.stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err == nil:
		fmt.Fprintf(s.w, "%s Fetched %d records from %s\n", styleIconSuccess.Render(iconSuccess), count, s.label)
	case stderrors.Is(err, context.Canceled):
	default:
		fmt.Fprintf(s.w, "%s Loading from %s failed\n", styleIconError.Render(iconError), s.label)
	}
}

// loadRecords fetches the records of loader. Remote sources show a spinner
// on w; files load without one.
func loadRecords(ctx context.Context, w io.Writer, kind string, loader source.Loader) ([]bean.Record, error) {
	if kind == config.SourceFile {
		return loader.Load(ctx)
	}
	spin := startLoadSpinner(ctx, w, fmt.Sprint(loader))
	records, err := loader.Load(ctx)
	spin.finish(len(records), err)
	return records, err
}
