package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/dustin/go-humanize"
)

// CounterCardHeight is the number of rows a CounterCard occupies.
const CounterCardHeight = 4

// CounterCard renders one KPI as a small bordered card:
//
//	┌ USERS ───────────┐
//	│ 1,234   ▃▄▅▆▇█   │
//	│ ▲ 12             │
//	└──────────────────┘
type CounterCard struct {
	Label   string
	Value   string
	Delta   int64
	History *Sparkline
}

// Draw renders the card using the full available width.
func (c *CounterCard) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	width := ctx.Max.Width
	s := vxfw.NewSurface(width, CounterCardHeight, c)
	if width < 4 {
		return s, nil
	}

	border := vaxis.Style{Foreground: vaxis.IndexColor(8)}
	last := width - 1

	// Frame
	put(&s, ctx, 0, 0, "┌", border)
	put(&s, ctx, last, 0, "┐", border)
	put(&s, ctx, 0, 3, "└", border)
	put(&s, ctx, last, 3, "┘", border)
	for x := uint16(1); x < last; x++ {
		put(&s, ctx, x, 0, "─", border)
		put(&s, ctx, x, 3, "─", border)
	}
	for y := uint16(1); y < 3; y++ {
		put(&s, ctx, 0, y, "│", border)
		put(&s, ctx, last, y, "│", border)
	}

	// Title sits on the top border
	col := uint16(2)
	for _, ch := range ctx.Characters(" " + c.Label + " ") {
		if col+uint16(ch.Width) >= last {
			break
		}
		s.WriteCell(col, 0, vaxis.Cell{Character: ch, Style: vaxis.Style{Attribute: vaxis.AttrBold}})
		col += uint16(ch.Width)
	}

	// Value
	col = 2
	for _, ch := range ctx.Characters(c.Value) {
		if col+uint16(ch.Width) >= last {
			break
		}
		s.WriteCell(col, 1, vaxis.Cell{Character: ch, Style: vaxis.Style{Attribute: vaxis.AttrBold}})
		col += uint16(ch.Width)
	}

	// Sparkline to the right of the value
	if c.History != nil && c.History.Count() > 0 {
		start := col + 2
		if start < last-1 {
			sparkSurf, err := c.History.Draw(ctx.WithMax(vxfw.Size{Width: last - 1 - start, Height: 1}))
			if err != nil {
				return vxfw.Surface{}, err
			}
			s.AddChild(int(start), 1, sparkSurf)
		}
	}

	// Delta since the previous refresh
	if c.Delta != 0 {
		text := formatDelta(c.Delta)
		style := vaxis.Style{Foreground: vaxis.IndexColor(2)}
		if c.Delta < 0 {
			style.Foreground = vaxis.IndexColor(1)
		}
		col = 2
		for _, ch := range ctx.Characters(text) {
			if col+uint16(ch.Width) >= last {
				break
			}
			s.WriteCell(col, 2, vaxis.Cell{Character: ch, Style: style})
			col += uint16(ch.Width)
		}
	}

	return s, nil
}

func put(s *vxfw.Surface, ctx vxfw.DrawContext, col, row uint16, text string, style vaxis.Style) {
	for _, ch := range ctx.Characters(text) {
		s.WriteCell(col, row, vaxis.Cell{Character: ch, Style: style})
		col += uint16(ch.Width)
	}
}

func formatDelta(d int64) string {
	if d > 0 {
		return "▲ " + humanize.Comma(d)
	}
	return "▼ " + humanize.Comma(-d)
}
