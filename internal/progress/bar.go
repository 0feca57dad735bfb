// Package progress renders a terminal progress bar over the status stream
// reported by the download engine.
package progress

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const defaultWidth = 30

// Bar is a single-line, carriage-return redrawn progress bar. The displayed
// percentage never decreases, no matter what the parsed status stream does;
// byte counters always show the latest reported values.
type Bar struct {
	out     io.Writer
	width   int
	percent float64
}

func NewBar(out io.Writer) *Bar {
	return &Bar{out: out, width: defaultWidth}
}

// Update redraws the bar from the latest engine status. A zero total means
// the final size is not known yet and only byte counters are shown.
func (b *Bar) Update(completed, total, speed uint64, eta time.Duration) {
	if total > 0 {
		pct := float64(completed) * 100 / float64(total)
		if pct > 100 {
			pct = 100
		}

		if pct > b.percent {
			b.percent = pct
		}
	}

	b.render(completed, total, speed, eta)
}

// Percent returns the currently displayed percentage.
func (b *Bar) Percent() float64 {
	return b.percent
}

// Finish pins the bar at 100% and moves to the next line.
func (b *Bar) Finish() {
	b.percent = 100
	b.render(0, 0, 0, 0)
	fmt.Fprintln(b.out)
}

// Abort leaves the bar where it is and moves to the next line.
func (b *Bar) Abort() {
	fmt.Fprintln(b.out)
}

func (b *Bar) render(completed, total, speed uint64, eta time.Duration) {
	filled := int(b.percent / 100 * float64(b.width))
	if filled > b.width {
		filled = b.width
	}

	bar := strings.Repeat("=", filled) + strings.Repeat(" ", b.width-filled)

	fmt.Fprintf(b.out, "\r%3.0f%% [%s]", b.percent, bar)

	if total > 0 {
		fmt.Fprintf(b.out, " %s/%s", humanize.IBytes(completed), humanize.IBytes(total))
	} else if completed > 0 {
		fmt.Fprintf(b.out, " %s", humanize.IBytes(completed))
	}

	if speed > 0 {
		fmt.Fprintf(b.out, " %s/s", humanize.IBytes(speed))
	}

	if eta > 0 {
		fmt.Fprintf(b.out, " ETA %s", eta.Round(time.Second))
	}
}
