package present

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sacsbd/sacs-tui/internal/util"
)

// Plain is the minimal presenter: it writes one line per change and shows
// the target value straight away instead of animating.
type Plain struct {
	board *Board
	now   func() time.Time

	mu  sync.Mutex
	out io.Writer
}

// NewPlain creates a Plain presenter for the given KPI keys writing to out.
func NewPlain(out io.Writer, keys []string) *Plain {
	return &Plain{board: NewBoard(keys, "0"), out: out, now: time.Now}
}

// Has reports whether id is one of the configured counters.
func (p *Plain) Has(id string) bool {
	_, ok := p.board.Counter(id)
	return ok
}

// AnimateCounter sets the counter and prints the change.
func (p *Plain) AnimateCounter(id string, target float64) {
	c, ok := p.board.Counter(id)
	if !ok {
		return
	}
	prev := c.Value()
	next := Floor(target)
	c.Set(next)

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s  %-20s %12s", util.FormatDate(p.now()), strings.TrimPrefix(id, "kpi-"), util.FormatCount(next))
	if prev != next {
		fmt.Fprintf(p.out, "  (%+d)", next-prev)
	}
	fmt.Fprintln(p.out)
}

// Notify prints msg with its level.
func (p *Plain) Notify(level Level, msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s  [%s] %s\n", util.FormatDate(p.now()), level, msg)
}

// Value returns the displayed value of a counter, or false if absent.
func (p *Plain) Value(id string) (int64, bool) {
	c, ok := p.board.Counter(id)
	if !ok {
		return 0, false
	}
	return c.Value(), true
}
