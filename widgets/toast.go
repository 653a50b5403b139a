package widgets

import (
	"sync"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// ToastLevel selects the toast colour.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastDanger
)

// toastStyle returns the background colour for a level.
func toastStyle(l ToastLevel) vaxis.Style {
	bg := vaxis.IndexColor(4) // blue
	switch l {
	case ToastSuccess:
		bg = vaxis.IndexColor(2)
	case ToastWarning:
		bg = vaxis.IndexColor(3)
	case ToastDanger:
		bg = vaxis.IndexColor(1)
	}
	return vaxis.Style{Foreground: vaxis.IndexColor(15), Background: bg}
}

// Toast is a one-line notification bar. It is safe to Show and Hide from
// background goroutines.
type Toast struct {
	mu      sync.Mutex
	message string
	level   ToastLevel
	visible bool
}

// Show displays msg at the given level, replacing any current message.
func (t *Toast) Show(level ToastLevel, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.message = msg
	t.level = level
	t.visible = true
}

// Hide clears the toast.
func (t *Toast) Hide() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = false
}

// Visible reports whether a message is showing.
func (t *Toast) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// Message returns the current message and level.
func (t *Toast) Message() (string, ToastLevel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.message, t.level
}

// Draw renders the message as a full-width coloured row, or an empty row
// when hidden.
func (t *Toast) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, t)
	msg, level := t.Message()
	if !t.Visible() {
		return s, nil
	}

	style := toastStyle(level)
	for x := uint16(0); x < ctx.Max.Width; x++ {
		s.WriteCell(x, 0, vaxis.Cell{Character: vaxis.Character{Grapheme: " ", Width: 1}, Style: style})
	}
	col := uint16(1)
	for _, ch := range ctx.Characters("ⓘ " + msg) {
		if col+uint16(ch.Width) > ctx.Max.Width {
			break
		}
		s.WriteCell(col, 0, vaxis.Cell{Character: ch, Style: style})
		col += uint16(ch.Width)
	}
	return s, nil
}
