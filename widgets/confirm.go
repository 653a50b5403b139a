package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// Confirm is a modal yes/no prompt for destructive actions.
type Confirm struct {
	Title   string
	Message string

	open      bool
	onConfirm func() vxfw.Command
}

// DefaultConfirmMessage is used when Ask is given an empty message.
const DefaultConfirmMessage = "¿Está seguro de realizar esta acción?"

// Ask opens the prompt. onConfirm runs when the user accepts and its command
// is returned from HandleKey.
func (c *Confirm) Ask(msg string, onConfirm func() vxfw.Command) {
	if msg == "" {
		msg = DefaultConfirmMessage
	}
	if c.Title == "" {
		c.Title = "¿Confirmar acción?"
	}
	c.Message = msg
	c.onConfirm = onConfirm
	c.open = true
}

// Open reports whether the prompt is showing.
func (c *Confirm) Open() bool {
	return c.open
}

// HandleKey processes a key while the prompt is open. y/Enter confirms,
// n/Esc cancels; other keys are swallowed.
func (c *Confirm) HandleKey(key vaxis.Key) vxfw.Command {
	switch {
	case key.Matches('y'), key.Matches(vaxis.KeyEnter):
		c.open = false
		if c.onConfirm != nil {
			if cmd := c.onConfirm(); cmd != nil {
				return cmd
			}
		}
		return vxfw.ConsumeAndRedraw()
	case key.Matches('n'), key.Matches(vaxis.KeyEsc):
		c.open = false
		return vxfw.ConsumeAndRedraw()
	}
	return vxfw.ConsumeEventCmd{}
}

// Draw renders a bordered box centred in the available space.
func (c *Confirm) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, c)
	if !c.open {
		return s, nil
	}

	buttons := "[y] Sí, continuar   [n] Cancelar"
	width := len([]rune(c.Message)) + 4
	if w := len([]rune(buttons)) + 4; w > width {
		width = w
	}
	if w := len([]rune(c.Title)) + 6; w > width {
		width = w
	}
	if width > int(ctx.Max.Width) {
		width = int(ctx.Max.Width)
	}
	const height = 5
	if width < 4 || ctx.Max.Height < height {
		return s, nil
	}
	x0 := (int(ctx.Max.Width) - width) / 2
	y0 := (int(ctx.Max.Height) - height) / 2

	box := vxfw.NewSurface(uint16(width), height, c)
	border := vaxis.Style{Foreground: vaxis.IndexColor(3)}
	last := uint16(width - 1)
	for x := uint16(0); x <= last; x++ {
		for y := uint16(0); y < height; y++ {
			box.WriteCell(x, y, vaxis.Cell{Character: vaxis.Character{Grapheme: " ", Width: 1}})
		}
	}
	put(&box, ctx, 0, 0, "┌", border)
	put(&box, ctx, last, 0, "┐", border)
	put(&box, ctx, 0, height-1, "└", border)
	put(&box, ctx, last, height-1, "┘", border)
	for x := uint16(1); x < last; x++ {
		put(&box, ctx, x, 0, "─", border)
		put(&box, ctx, x, height-1, "─", border)
	}
	for y := uint16(1); y < height-1; y++ {
		put(&box, ctx, 0, y, "│", border)
		put(&box, ctx, last, y, "│", border)
	}
	put(&box, ctx, 2, 0, " "+c.Title+" ", vaxis.Style{Attribute: vaxis.AttrBold})
	put(&box, ctx, 2, 1, c.Message, vaxis.Style{})
	put(&box, ctx, 2, 3, buttons, vaxis.Style{Attribute: vaxis.AttrDim})

	s.AddChild(x0, y0, box)
	return s, nil
}
