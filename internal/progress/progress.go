// Package progress reports batch progress in bytes.
package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives byte counts as files finish.
type Reporter interface {
	Start(total int64, description string)
	Add(n int64)
	Finish()
}

// Nop discards all progress.
type Nop struct{}

// Start implements Reporter.
func (Nop) Start(int64, string) {}

// Add implements Reporter.
func (Nop) Add(int64) {}

// Finish implements Reporter.
func (Nop) Finish() {}

// Bar renders a terminal progress bar.
type Bar struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

// NewBar creates a progress bar that draws on out once started.
func NewBar(out io.Writer) *Bar {
	return &Bar{out: out}
}

// Start initializes the bar with the total number of bytes to process.
func (b *Bar) Start(total int64, description string) {
	b.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(b.out),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(b.out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Add advances the bar by n bytes.
func (b *Bar) Add(n int64) {
	if b.bar != nil {
		_ = b.bar.Add64(n)
	}
}

// Finish completes the bar.
func (b *Bar) Finish() {
	if b.bar != nil {
		_ = b.bar.Finish()
	}
}
