package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// TableColumn defines a column in a Table.
type TableColumn struct {
	Width      int         // fixed character width
	AlignRight bool        // right-align text within the column
	Style      vaxis.Style // default style for cells in this column
}

// Table renders label/value rows with fixed-width columns.
type Table struct {
	Columns []TableColumn
	Rows    [][]string
	Header  []string // optional, rendered dim
	Gap     int      // spaces between columns (default 1)

	// CellStyle, when set, may override the column style of a data cell.
	// row and col index into Rows.
	CellStyle func(row, col int, text string) (vaxis.Style, bool)
}

const ellipsis = "…"

// writeText writes s into surf at (col, row) within maxWidth. Text that does
// not fit is cut and ends in an ellipsis.
func writeText(ctx vxfw.DrawContext, surf *vxfw.Surface, col, row uint16, maxWidth int, s string, style vaxis.Style, alignRight bool) {
	if maxWidth <= 0 {
		return
	}
	chars := ctx.Characters(s)

	displayWidth := 0
	for _, ch := range chars {
		displayWidth += ch.Width
	}

	if displayWidth > maxWidth {
		cut := make([]vaxis.Character, 0, len(chars))
		w := 0
		for _, ch := range chars {
			if w+ch.Width > maxWidth-1 {
				break
			}
			cut = append(cut, ch)
			w += ch.Width
		}
		chars = append(cut, ctx.Characters(ellipsis)...)
		displayWidth = w + 1
	}

	pos := 0
	if alignRight && displayWidth < maxWidth {
		pos = maxWidth - displayWidth
	}
	for _, ch := range chars {
		if pos+ch.Width > maxWidth {
			break
		}
		surf.WriteCell(col+uint16(pos), row, vaxis.Cell{Character: ch, Style: style})
		pos += ch.Width
	}
}

func (t *Table) writeRow(ctx vxfw.DrawContext, s *vxfw.Surface, row uint16, cells []string, styleFor func(i int, c TableColumn, text string) vaxis.Style) {
	gap := t.Gap
	if gap == 0 {
		gap = 1
	}
	col := 0
	for i, c := range t.Columns {
		if col >= int(ctx.Max.Width) {
			break
		}
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		width := c.Width
		if col+width > int(ctx.Max.Width) {
			width = int(ctx.Max.Width) - col
		}
		writeText(ctx, s, uint16(col), row, width, text, styleFor(i, c, text), c.AlignRight)
		col += c.Width + gap
	}
}

// Draw renders the header, if set, and as many rows as fit.
func (t *Table) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	totalRows := len(t.Rows)
	if t.Header != nil {
		totalRows++
	}
	height := uint16(totalRows)
	if height > ctx.Max.Height {
		height = ctx.Max.Height
	}

	s := vxfw.NewSurface(ctx.Max.Width, height, t)
	row := uint16(0)

	if t.Header != nil && row < height {
		t.writeRow(ctx, &s, row, t.Header, func(int, TableColumn, string) vaxis.Style {
			return vaxis.Style{Attribute: vaxis.AttrDim}
		})
		row++
	}

	for r, cells := range t.Rows {
		if row >= height {
			break
		}
		t.writeRow(ctx, &s, row, cells, func(i int, c TableColumn, text string) vaxis.Style {
			if t.CellStyle != nil {
				if st, ok := t.CellStyle(r, i, text); ok {
					return st
				}
			}
			return c.Style
		})
		row++
	}

	return s, nil
}
