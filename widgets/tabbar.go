package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// TabBar is a horizontal tab navigation widget with an optional status text
// flush right.
type TabBar struct {
	labels []string
	active int

	status      string
	statusStyle vaxis.Style
}

// NewTabBar creates a TabBar with the given labels. Active defaults to 0.
func NewTabBar(labels []string) *TabBar {
	return &TabBar{labels: labels}
}

// Active returns the currently active tab index.
func (tb *TabBar) Active() int {
	return tb.active
}

// SetActive sets the active tab index. Out-of-range values are ignored.
func (tb *TabBar) SetActive(i int) {
	if i >= 0 && i < len(tb.labels) {
		tb.active = i
	}
}

// Next advances to the next tab, wrapping around.
func (tb *TabBar) Next() {
	tb.active = (tb.active + 1) % len(tb.labels)
}

// Prev moves to the previous tab, wrapping around.
func (tb *TabBar) Prev() {
	tb.active = (tb.active - 1 + len(tb.labels)) % len(tb.labels)
}

// SetStatus sets the text drawn at the right edge.
func (tb *TabBar) SetStatus(text string, style vaxis.Style) {
	tb.status = text
	tb.statusStyle = style
}

// Status returns the right-edge text.
func (tb *TabBar) Status() string {
	return tb.status
}

// Draw renders " 1 KPIs | 2 Métricas " with the active tab in reverse video.
// The status is dropped when it would overlap the tabs.
func (tb *TabBar) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, tb)

	col := uint16(0)
	for i, label := range tb.labels {
		if i > 0 {
			for _, ch := range ctx.Characters(" | ") {
				s.WriteCell(col, 0, vaxis.Cell{Character: ch})
				col += uint16(ch.Width)
			}
		}

		style := vaxis.Style{}
		if i == tb.active {
			style.Attribute |= vaxis.AttrReverse
		}

		text := " " + string(rune('1'+i)) + " " + label + " "
		for _, ch := range ctx.Characters(text) {
			s.WriteCell(col, 0, vaxis.Cell{Character: ch, Style: style})
			col += uint16(ch.Width)
		}
	}

	if tb.status == "" {
		return s, nil
	}
	chars := ctx.Characters(tb.status + " ")
	width := 0
	for _, ch := range chars {
		width += ch.Width
	}
	start := int(ctx.Max.Width) - width
	if start <= int(col)+1 {
		return s, nil
	}
	pos := uint16(start)
	for _, ch := range chars {
		s.WriteCell(pos, 0, vaxis.Cell{Character: ch, Style: tb.statusStyle})
		pos += uint16(ch.Width)
	}
	return s, nil
}
