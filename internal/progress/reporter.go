// Package progress reports schema crawl progress to the terminal or to
// CI logs.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives crawl progress. Start is called once with the schema
// count, Advance with the running total of processed schemas.
type Reporter interface {
	Start(total int)
	Advance(done int)
	Done()
}

// NewReporter picks a CIReporter under CI and a TerminalReporter otherwise.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{Out: os.Stderr, LogEvery: 25}
	}
	return &TerminalReporter{}
}

// TerminalReporter renders an interactive progress bar.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Crawling schema registry"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Advance(done int) {
	if r.bar != nil {
		_ = r.bar.Set(done)
	}
}

func (r *TerminalReporter) Done() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints plain lines, throttled so a thousand-schema crawl does
// not flood the build log.
type CIReporter struct {
	Out      io.Writer
	LogEvery int

	total   int
	started time.Time
}

func (r *CIReporter) Start(total int) {
	r.total = total
	r.started = time.Now()
	fmt.Fprintf(r.Out, "Crawling %d schemas\n", total)
}

func (r *CIReporter) Advance(done int) {
	every := r.LogEvery
	if every < 1 {
		every = 1
	}
	if done%every == 0 || done == r.total {
		fmt.Fprintf(r.Out, "  %d/%d schemas\n", done, r.total)
	}
}

func (r *CIReporter) Done() {
	fmt.Fprintf(r.Out, "Crawl finished in %s\n", time.Since(r.started).Round(time.Second))
}
