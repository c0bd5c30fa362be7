// Package progress renders a single-line terminal progress bar for long
// passes.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

const defaultBarWidth = 50

// Bar renders in-place progress updates on one terminal line. Updates for
// different phases reuse the same line; Done finishes the line with a
// newline.
type Bar struct {
	mu      sync.Mutex
	w       io.Writer
	width   int
	lastLen int
}

// New creates a progress bar writing to w (typically stderr).
func New(w io.Writer) *Bar {
	return &Bar{w: w, width: defaultBarWidth}
}

// Update redraws the bar for the given phase and completion.
func (b *Bar) Update(prefix string, current, total int, suffix string) {
	if total <= 0 {
		return
	}
	if current > total {
		current = total
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	filled := b.width * current / total
	bar := strings.Repeat("=", filled) + strings.Repeat("-", b.width-filled)
	pct := 100 * float64(current) / float64(total)

	line := fmt.Sprintf("%s |%s| %.1f%% %s", prefix, bar, pct, suffix)

	// Clear leftovers from a longer previous line.
	if pad := b.lastLen - len(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	b.lastLen = len(line)

	fmt.Fprintf(b.w, "\r%s", line)
	if current == total {
		fmt.Fprintln(b.w)
		b.lastLen = 0
	}
}

// Done finishes the current line if an update is in flight.
func (b *Bar) Done() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastLen > 0 {
		fmt.Fprintln(b.w)
		b.lastLen = 0
	}
}
