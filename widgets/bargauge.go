package widgets

import (
	"fmt"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// Default colour thresholds for BarGauge, in percent.
const (
	DefaultWarn = 60
	DefaultCrit = 85
)

// BarGauge is a horizontal usage gauge:
//
//	DISK [████████████████░░░░]  81.0%  412 GB libres
type BarGauge struct {
	Label    string  // 4-char left column, e.g. "CPU", "MEM"
	Value    float64 // 0.0–100.0, clamped
	Suffix   string  // dim text after the percentage
	BarWidth int     // cells between the brackets

	// Warn and Crit switch the bar to yellow and red. Zero uses the defaults.
	Warn float64
	Crit float64
}

const (
	barFilled = '█'
	barEmpty  = '░'
)

// Color returns the bar colour for the gauge's current value.
func (bg *BarGauge) Color() vaxis.Color {
	warn, crit := bg.Warn, bg.Crit
	if warn == 0 {
		warn = DefaultWarn
	}
	if crit == 0 {
		crit = DefaultCrit
	}
	switch v := clampPct(bg.Value); {
	case v >= crit:
		return vaxis.IndexColor(1)
	case v >= warn:
		return vaxis.IndexColor(3)
	default:
		return vaxis.IndexColor(2)
	}
}

func clampPct(v float64) float64 {
	return min(max(v, 0), 100)
}

// Draw renders the gauge as a single row.
func (bg *BarGauge) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, bg)
	col := uint16(0)
	write := func(text string, style vaxis.Style) {
		for _, ch := range ctx.Characters(text) {
			s.WriteCell(col, 0, vaxis.Cell{Character: ch, Style: style})
			col += uint16(ch.Width)
		}
	}

	write(fmt.Sprintf("%-4s [", bg.Label), vaxis.Style{Attribute: vaxis.AttrBold})

	v := clampPct(bg.Value)
	filled := int(v / 100 * float64(bg.BarWidth))
	fill := vaxis.Style{Foreground: bg.Color()}
	empty := vaxis.Style{Foreground: vaxis.IndexColor(8)}
	for i := 0; i < bg.BarWidth; i++ {
		if i < filled {
			write(string(barFilled), fill)
		} else {
			write(string(barEmpty), empty)
		}
	}

	write(fmt.Sprintf("] %5.1f%%", v), vaxis.Style{})
	if bg.Suffix != "" {
		write("  "+bg.Suffix, vaxis.Style{Attribute: vaxis.AttrDim})
	}

	return s, nil
}
