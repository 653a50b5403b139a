package views

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
)

// drawPlaceholder renders the one-line message a view shows before its first
// successful load. A non-nil loadErr replaces "Cargando..." with the error
// and a retry hint.
func drawPlaceholder(ctx vxfw.DrawContext, owner vxfw.Widget, loadErr error) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, owner)
	segments := []vaxis.Segment{
		{Text: "Cargando...", Style: vaxis.Style{Attribute: vaxis.AttrDim}},
	}
	if loadErr != nil {
		segments = []vaxis.Segment{
			{Text: "Error cargando contenido: ", Style: vaxis.Style{Foreground: vaxis.IndexColor(1), Attribute: vaxis.AttrBold}},
			{Text: loadErr.Error()},
			{Text: "  (r para reintentar)", Style: vaxis.Style{Attribute: vaxis.AttrDim}},
		}
	}
	label := richtext.New(segments)
	labelSurf, err := label.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, labelSurf)
	return s, nil
}
