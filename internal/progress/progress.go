// Package progress renders training progress: a bubbletea progress bar on
// capable terminals, a plain dot reporter everywhere else.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/coder/quartz"
	"github.com/muesli/termenv"
)

// Reporter receives training progress. Implementations are driven from the
// training loop's progress callback.
type Reporter interface {
	// Start marks the beginning of the run.
	Start()
	// Episode reports that done of the total episodes have completed and
	// how many states the table currently holds.
	Episode(done, states int)
	// Finish flushes any pending output and prints the run summary.
	Finish()
}

// ForTerminal picks a reporter for out: the animated bar when the terminal
// supports it, dots otherwise (pipes, dumb terminals, CI logs).
func ForTerminal(out *os.File, clock quartz.Clock, total int) Reporter {
	if termenv.NewOutput(out).Profile == termenv.Ascii {
		return NewDotReporter(out, clock, total)
	}
	return NewBarReporter(out, clock, total)
}

const dotsTotal = 50

// DotReporter prints a fixed-width row of dots as episodes complete.
type DotReporter struct {
	w       io.Writer
	clock   quartz.Clock
	total   int
	printed int
	done    int
	start   time.Time
}

// NewDotReporter returns a dot reporter writing to w. The clock is injected
// so tests control the reported rate.
func NewDotReporter(w io.Writer, clock quartz.Clock, total int) *DotReporter {
	return &DotReporter{w: w, clock: clock, total: total}
}

func (r *DotReporter) Start() {
	r.start = r.clock.Now()
	fmt.Fprintf(r.w, "Training %d episodes: ", r.total)
}

func (r *DotReporter) Episode(done, states int) {
	r.done = done
	target := done * dotsTotal / r.total
	if target > dotsTotal {
		target = dotsTotal
	}
	for i := r.printed; i < target; i++ {
		fmt.Fprint(r.w, ".")
		r.printed++
	}
}

func (r *DotReporter) Finish() {
	for i := r.printed; i < dotsTotal; i++ {
		fmt.Fprint(r.w, ".")
		r.printed++
	}
	duration := r.clock.Now().Sub(r.start)
	perSec := float64(r.total) / duration.Seconds()
	fmt.Fprintf(r.w, " ✓ %d episodes in %.1fs (%.0f/sec)\n", r.total, duration.Seconds(), perSec)
}
