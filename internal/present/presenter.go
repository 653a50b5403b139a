// Package present holds the display side of the dashboard: counters, their
// animation, and the presenter variants the refresher writes through.
package present

import (
	"strconv"
	"sync"
)

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Presenter is where refreshed KPI values go.
type Presenter interface {
	// Has reports whether a display element with the given id exists.
	Has(id string) bool
	// AnimateCounter moves the element's displayed value to target.
	AnimateCounter(id string, target float64)
	// Notify shows a user-visible message.
	Notify(level Level, msg string)
}

// ElementID returns the display element id for a KPI key.
func ElementID(key string) string {
	return "kpi-" + key
}

// Counter is the displayed text of one KPI element.
type Counter struct {
	mu   sync.Mutex
	text string
}

// NewCounter creates a counter showing text.
func NewCounter(text string) *Counter {
	return &Counter{text: text}
}

// Text returns the displayed text.
func (c *Counter) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Set displays v.
func (c *Counter) Set(v int64) {
	c.mu.Lock()
	c.text = strconv.FormatInt(v, 10)
	c.mu.Unlock()
}

// Value parses the displayed text as an integer: an optional sign followed
// by leading digits. Anything else reads as 0.
func (c *Counter) Value() int64 {
	return parseLeadingInt(c.Text())
}

func parseLeadingInt(s string) int64 {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	digits := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digits {
		return 0
	}
	v, err := strconv.ParseInt(s[start:i], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// Board is a fixed set of counters keyed by element id.
type Board struct {
	ids      []string
	counters map[string]*Counter
}

// NewBoard creates a board with one counter per KPI key, showing placeholder.
func NewBoard(keys []string, placeholder string) *Board {
	b := &Board{counters: make(map[string]*Counter, len(keys))}
	for _, k := range keys {
		id := ElementID(k)
		if _, ok := b.counters[id]; ok {
			continue
		}
		b.ids = append(b.ids, id)
		b.counters[id] = NewCounter(placeholder)
	}
	return b
}

// Counter returns the counter for id.
func (b *Board) Counter(id string) (*Counter, bool) {
	c, ok := b.counters[id]
	return c, ok
}

// IDs returns the element ids in declaration order.
func (b *Board) IDs() []string {
	return b.ids
}
