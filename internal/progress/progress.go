// Package progress renders download progress bars on a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	bprogress "github.com/charmbracelet/bubbles/progress"
	"golang.org/x/term"
)

const barWidth = 40

// Reporter draws one bar line per download. It is safe for concurrent use.
type Reporter struct {
	mu      sync.Mutex
	out     io.Writer
	bar     bprogress.Model
	enabled bool
	percent map[string]int
}

// New creates a reporter writing to out. A disabled reporter ignores updates.
func New(out io.Writer, enabled bool) *Reporter {
	return &Reporter{
		out:     out,
		bar:     bprogress.New(bprogress.WithDefaultGradient(), bprogress.WithWidth(barWidth)),
		enabled: enabled,
		percent: make(map[string]int),
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Update records that written of total bytes of name have arrived. It matches
// downloader.ProgressFunc. Unknown totals are not drawn.
func (r *Reporter) Update(name string, written, total int64) {
	if !r.enabled || total <= 0 {
		return
	}
	pct := int(written * 100 / total)

	r.mu.Lock()
	defer r.mu.Unlock()
	if last, ok := r.percent[name]; ok && last == pct {
		return
	}
	r.percent[name] = pct

	fmt.Fprintf(r.out, "\r%-32s %s", name, r.bar.ViewAs(float64(written)/float64(total)))
	if written >= total {
		fmt.Fprintln(r.out)
	}
}
