package widgets

import (
	"math"
	"sync"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// Block characters for sparkline rendering (8 levels).
var sparkBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a 1-row graph of recent values using block characters.
// Values may be pushed from refresh goroutines while the UI draws.
type Sparkline struct {
	// Color of the blocks. Zero means cyan.
	Color vaxis.Color

	mu     sync.Mutex
	values []float64
	head   int
	count  int
}

// NewSparkline creates a Sparkline with the given ring buffer capacity.
func NewSparkline(capacity int) *Sparkline {
	if capacity < 1 {
		capacity = 1
	}
	return &Sparkline{
		values: make([]float64, capacity),
	}
}

// Push adds a value, dropping the oldest once full.
func (sl *Sparkline) Push(v float64) {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.values[sl.head] = v
	sl.head = (sl.head + 1) % len(sl.values)
	if sl.count < len(sl.values) {
		sl.count++
	}
}

// Count returns the number of values currently stored.
func (sl *Sparkline) Count() int {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.count
}

// Last returns the most recent value.
func (sl *Sparkline) Last() (float64, bool) {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.count == 0 {
		return 0, false
	}
	return sl.values[(sl.head-1+len(sl.values))%len(sl.values)], true
}

// ordered returns the stored values in chronological order.
func (sl *Sparkline) ordered() []float64 {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.count == 0 {
		return nil
	}
	out := make([]float64, sl.count)
	start := (sl.head - sl.count + len(sl.values)) % len(sl.values)
	for i := 0; i < sl.count; i++ {
		out[i] = sl.values[(start+i)%len(sl.values)]
	}
	return out
}

// level maps v onto the 0-7 block range between minV and maxV.
func level(v, minV, maxV float64) int {
	if maxV > minV {
		l := int(math.Round((v - minV) / (maxV - minV) * 7))
		return min(max(l, 0), 7)
	}
	if maxV > 0 {
		return 4 // flat non-zero line
	}
	return 0
}

// Draw renders the newest values that fit in the available width.
func (sl *Sparkline) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, sl)

	vals := sl.ordered()
	if len(vals) == 0 {
		return s, nil
	}
	if width := int(ctx.Max.Width); len(vals) > width {
		vals = vals[len(vals)-width:]
	}

	minV, maxV := vals[0], vals[0]
	for _, v := range vals[1:] {
		minV = min(minV, v)
		maxV = max(maxV, v)
	}

	color := sl.Color
	if color == 0 {
		color = vaxis.IndexColor(6)
	}
	for i, v := range vals {
		for _, c := range ctx.Characters(string(sparkBlocks[level(v, minV, maxV)])) {
			s.WriteCell(uint16(i), 0, vaxis.Cell{
				Character: c,
				Style:     vaxis.Style{Foreground: color},
			})
		}
	}

	return s, nil
}
