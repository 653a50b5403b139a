package views

import (
	"strings"
	"sync"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"github.com/sacsbd/sacs-tui/internal/present"
	"github.com/sacsbd/sacs-tui/internal/util"
	"github.com/sacsbd/sacs-tui/widgets"
)

// Card layout for the KPI grid.
const (
	kpiCardWidth = 26
	kpiCardGap   = 1
	historySize  = 30
)

// KPIViewParams holds configuration for creating a KPIView.
type KPIViewParams struct {
	Keys      []string
	Animation time.Duration
	PostEvent func(vaxis.Event)
	Notify    func(level present.Level, msg string)
}

// KPIView shows one animated card per KPI. It is the rich presenter the
// refresher writes into.
type KPIView struct {
	board    *present.Board
	animator *present.Animator
	labels   map[string]string

	mu        sync.Mutex
	history   map[string]*widgets.Sparkline
	deltas    map[string]int64
	updatedAt time.Time

	postEvent func(vaxis.Event)
	notify    func(present.Level, string)
}

// NewKPIView creates a KPIView for the given KPI keys.
func NewKPIView(p KPIViewParams) *KPIView {
	kv := &KPIView{
		board:     present.NewBoard(p.Keys, "0"),
		animator:  present.NewAnimator(p.Animation),
		labels:    make(map[string]string, len(p.Keys)),
		history:   make(map[string]*widgets.Sparkline, len(p.Keys)),
		deltas:    make(map[string]int64, len(p.Keys)),
		postEvent: p.PostEvent,
		notify:    p.Notify,
	}
	for _, k := range p.Keys {
		id := present.ElementID(k)
		kv.labels[id] = Label(k)
		spark := widgets.NewSparkline(historySize)
		spark.Color = vaxis.IndexColor(2)
		kv.history[id] = spark
	}
	return kv
}

// Label turns a KPI key into a card title: "active_sessions" → "ACTIVE SESSIONS".
func Label(key string) string {
	return strings.ToUpper(strings.NewReplacer("_", " ", "-", " ").Replace(key))
}

// Has reports whether the view has a card for id.
func (kv *KPIView) Has(id string) bool {
	_, ok := kv.board.Counter(id)
	return ok
}

// AnimateCounter animates the card for id toward target.
func (kv *KPIView) AnimateCounter(id string, target float64) {
	c, ok := kv.board.Counter(id)
	if !ok {
		return
	}

	kv.mu.Lock()
	kv.deltas[id] = present.Floor(target) - c.Value()
	kv.history[id].Push(target)
	kv.updatedAt = time.Now()
	kv.mu.Unlock()

	kv.animator.Animate(c, target, func(int64, bool) {
		if kv.postEvent != nil {
			kv.postEvent(DashboardUpdated{})
		}
	})
}

// Notify forwards a message to the app's toast.
func (kv *KPIView) Notify(level present.Level, msg string) {
	if kv.notify != nil {
		kv.notify(level, msg)
	}
}

// Value returns the displayed value of a card.
func (kv *KPIView) Value(id string) (int64, bool) {
	c, ok := kv.board.Counter(id)
	if !ok {
		return 0, false
	}
	return c.Value(), true
}

// UpdatedAt returns when the last snapshot was applied.
func (kv *KPIView) UpdatedAt() time.Time {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	return kv.updatedAt
}

// Draw renders the KPI cards in a grid with a status line on top.
func (kv *KPIView) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, kv)

	status := "Esperando primera actualización..."
	if at := kv.UpdatedAt(); !at.IsZero() {
		status = "Actualizado " + util.FormatDate(at)
	}
	header := richtext.New([]vaxis.Segment{
		{Text: " KPIs  ", Style: vaxis.Style{Attribute: vaxis.AttrBold}},
		{Text: status, Style: vaxis.Style{Attribute: vaxis.AttrDim}},
	})
	headerSurf, err := header.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, headerSurf)

	perRow := int(ctx.Max.Width) / (kpiCardWidth + kpiCardGap)
	if perRow < 1 {
		perRow = 1
	}
	cardWidth := kpiCardWidth
	if cardWidth > int(ctx.Max.Width) {
		cardWidth = int(ctx.Max.Width)
	}

	kv.mu.Lock()
	defer kv.mu.Unlock()
	for i, id := range kv.board.IDs() {
		row := 2 + (i/perRow)*widgets.CounterCardHeight
		col := (i % perRow) * (kpiCardWidth + kpiCardGap)
		if row+widgets.CounterCardHeight > int(ctx.Max.Height) {
			break
		}
		c, _ := kv.board.Counter(id)
		card := &widgets.CounterCard{
			Label:   kv.labels[id],
			Value:   util.FormatCount(c.Value()),
			Delta:   kv.deltas[id],
			History: kv.history[id],
		}
		cardSurf, err := card.Draw(ctx.WithMax(vxfw.Size{Width: uint16(cardWidth), Height: widgets.CounterCardHeight}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(col, row, cardSurf)
	}
	return s, nil
}

// HandleEvent has no view-local bindings.
func (kv *KPIView) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	return nil, nil
}
