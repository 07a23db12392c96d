// Package progress renders "N of total" progress lines while a batch runs.
package progress

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/imcgaunn/to-webp/models"
)

// Reporter prints at most one line per interval. The line for the last
// outcome of a batch is always printed.
type Reporter struct {
	w        io.Writer
	interval time.Duration
	now      func() time.Time

	mu          sync.Mutex
	lastPrinted time.Time
	done        int
	total       int
	failed      int
	lastName    string
	finalShown  bool
}

func NewReporter(w io.Writer, interval time.Duration) *Reporter {
	return &Reporter{
		w:        w,
		interval: interval,
		now:      time.Now,
	}
}

func (r *Reporter) OnOutcome(done, total int, outcome models.ConversionOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if done <= r.done {
		return
	}
	r.done, r.total = done, total
	r.lastName = filepath.Base(outcome.Task.SourcePath)
	if !outcome.OK() {
		r.failed++
	}

	now := r.now()
	if done < total && now.Sub(r.lastPrinted) < r.interval {
		return
	}
	r.print(now)
}

// Finish prints the current state unless the final line was already shown.
func (r *Reporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finalShown {
		return
	}
	r.print(r.now())
}

func (r *Reporter) print(now time.Time) {
	pct := 100
	if r.total > 0 {
		pct = r.done * 100 / r.total
	}

	line := fmt.Sprintf("[%d/%d] %3d%%", r.done, r.total, pct)
	if r.lastName != "" {
		line += " " + r.lastName
	}
	if r.failed > 0 {
		line += fmt.Sprintf(" (%d failed)", r.failed)
	}

	fmt.Fprintln(r.w, line)
	r.lastPrinted = now
	r.finalShown = r.done == r.total
}
