package app

import (
	"context"
	"log"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/sacsbd/sacs-tui/internal"
	"github.com/sacsbd/sacs-tui/internal/present"
	"github.com/sacsbd/sacs-tui/internal/refresher"
	"github.com/sacsbd/sacs-tui/internal/util"
	"github.com/sacsbd/sacs-tui/views"
	"github.com/sacsbd/sacs-tui/widgets"
)

// Tab indexes.
const (
	TabKPIs = iota
	TabMetrics
)

const (
	notificationDuration = 5 * time.Second
	manualRefreshLimit   = 2 * time.Second
)

// Params holds configuration for creating the root App.
type Params struct {
	Services       *internal.Services
	ServerName     string
	KPIs           []string
	Interval       time.Duration
	Animation      time.Duration
	NotifyFailures bool
	Operator       string
	Logger         *log.Logger
}

// App is the root vxfw widget for sacs-tui.
type App struct {
	services   *internal.Services
	serverName string
	logger     *log.Logger
	ctx        context.Context

	tabBar    *widgets.TabBar
	kpis      *views.KPIView
	metrics   *views.MetricsView
	refresher *refresher.Refresher

	toast     widgets.Toast
	toastHide *util.Debouncer
	confirm   widgets.Confirm
	manual    *util.Throttle

	postEvent func(vaxis.Event)
}

// New creates the root App widget connected to the given services.
func New(p Params) *App {
	logger := p.Logger
	if logger == nil {
		logger = log.Default()
	}
	a := &App{
		services:   p.Services,
		serverName: p.ServerName,
		logger:     logger,
		ctx:        context.Background(),
		tabBar:     widgets.NewTabBar([]string{"KPIs", "Métricas"}),
		manual:     util.NewThrottle(manualRefreshLimit),
	}
	a.toastHide = util.NewDebouncer(notificationDuration, func() {
		a.toast.Hide()
		a.post(views.NotificationExpired{})
	})
	a.kpis = views.NewKPIView(views.KPIViewParams{
		Keys:      p.KPIs,
		Animation: p.Animation,
		PostEvent: a.post,
		Notify:    a.Notify,
	})
	if p.Services != nil {
		a.metrics = views.NewMetricsView(views.MetricsViewParams{
			Service:  p.Services.KPIs,
			StaleTTL: p.Interval,
			Operator: p.Operator,
		})
		a.refresher = refresher.New(refresher.Params{
			Service:        p.Services.KPIs,
			Presenter:      a.kpis,
			Interval:       p.Interval,
			Logger:         logger,
			NotifyFailures: p.NotifyFailures,
			OnRefresh: func(int, error) {
				a.post(views.DashboardUpdated{})
			},
		})
	}
	return a
}

// SetPostEvent sets the function used to post events to the vaxis event loop.
// Must be called before Start.
func (a *App) SetPostEvent(fn func(vaxis.Event)) {
	a.postEvent = fn
}

func (a *App) post(ev vaxis.Event) {
	if a.postEvent != nil {
		a.postEvent(ev)
	}
}

// IsConnected reports whether the app has services to read from.
func (a *App) IsConnected() bool {
	return a.services != nil
}

// ActiveTab returns the current tab index.
func (a *App) ActiveTab() int {
	return a.tabBar.Active()
}

// SetTab switches to the given tab index.
func (a *App) SetTab(i int) {
	a.tabBar.SetActive(i)
}

// ServerName returns the connected server profile name.
func (a *App) ServerName() string {
	return a.serverName
}

// KPIs returns the KPI view, which is also the refresher's presenter.
func (a *App) KPIs() *views.KPIView {
	return a.kpis
}

// Refresher returns the KPI refresher, or nil when not connected.
func (a *App) Refresher() *refresher.Refresher {
	return a.refresher
}

// Toast returns the notification bar.
func (a *App) Toast() *widgets.Toast {
	return &a.toast
}

// Confirming reports whether the confirm prompt is open.
func (a *App) Confirming() bool {
	return a.confirm.Open()
}

// Start loads the first snapshot and metrics in the background and begins
// the refresh cycle.
func (a *App) Start(ctx context.Context) error {
	a.ctx = ctx
	if !a.IsConnected() {
		return nil
	}
	go a.refresher.Refresh(ctx)
	a.LoadMetrics(ctx)
	return a.refresher.Start(ctx)
}

// Stop cancels the refresh cycle and any pending toast timer.
func (a *App) Stop() {
	if a.refresher != nil {
		a.refresher.Stop()
	}
	a.toastHide.Cancel()
}

// LoadMetrics loads the metrics view in a goroutine and posts a ViewLoaded
// event when done.
func (a *App) LoadMetrics(ctx context.Context) {
	if a.metrics == nil {
		return
	}
	go func() {
		err := a.metrics.Load(ctx)
		a.post(views.ViewLoaded{Tab: TabMetrics, Err: err})
	}()
}

// LoadActiveView fetches data for the currently active view.
func (a *App) LoadActiveView(ctx context.Context) error {
	return a.loadTab(ctx, a.tabBar.Active())
}

func (a *App) loadTab(ctx context.Context, tab int) error {
	if !a.IsConnected() {
		return nil
	}
	switch tab {
	case TabKPIs:
		a.refresher.Refresh(ctx)
	case TabMetrics:
		return a.metrics.Load(ctx)
	}
	return nil
}

// Notify shows msg in the toast bar until it expires.
func (a *App) Notify(level present.Level, msg string) {
	a.toast.Show(toastLevel(level), msg)
	a.toastHide.Trigger()
	a.post(views.DashboardUpdated{})
}

func toastLevel(l present.Level) widgets.ToastLevel {
	switch l {
	case present.LevelSuccess:
		return widgets.ToastSuccess
	case present.LevelWarning:
		return widgets.ToastWarning
	case present.LevelError:
		return widgets.ToastDanger
	default:
		return widgets.ToastInfo
	}
}

// SetVisible forwards terminal focus changes to the refresher.
func (a *App) SetVisible(visible bool) {
	if a.refresher != nil {
		a.refresher.SetVisible(a.ctx, visible)
	}
}

func (a *App) activeView() vxfw.Widget {
	switch a.tabBar.Active() {
	case TabMetrics:
		if a.metrics != nil {
			return a.metrics
		}
	}
	return a.kpis
}

// Draw renders the tab bar, the active view, the toast row and, when open,
// the confirm prompt on top.
func (a *App) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, a)
	if ctx.Max.Height < 3 {
		return s, nil
	}

	// Tab bar (1 row)
	a.tabBar.SetStatus(a.status())
	tabCtx := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1})
	tabSurf, err := a.tabBar.Draw(tabCtx)
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, tabSurf)

	// Active view (between tab bar and toast)
	viewCtx := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: ctx.Max.Height - 2})
	viewSurf, err := a.activeView().Draw(viewCtx)
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 1, viewSurf)

	// Toast (last row)
	toastSurf, err := a.toast.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, int(ctx.Max.Height)-1, toastSurf)

	if a.confirm.Open() {
		confirmSurf, err := a.confirm.Draw(ctx)
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, 0, confirmSurf)
	}

	return s, nil
}

// status describes the refresh state for the tab bar.
func (a *App) status() (string, vaxis.Style) {
	switch {
	case !a.IsConnected():
		return a.serverName + " ○ sin conexión", vaxis.Style{Attribute: vaxis.AttrDim}
	case a.refresher.Running():
		return a.serverName + " ● en vivo", vaxis.Style{Foreground: vaxis.IndexColor(2)}
	default:
		return a.serverName + " ⏸ pausado", vaxis.Style{Foreground: vaxis.IndexColor(3)}
	}
}

// CaptureEvent handles global keybindings before views process them.
func (a *App) CaptureEvent(ev vaxis.Event) (vxfw.Command, error) {
	key, ok := ev.(vaxis.Key)
	if !ok {
		return nil, nil
	}
	if key.Matches('c', vaxis.ModCtrl) {
		a.Stop()
		return vxfw.QuitCmd{}, nil
	}
	if a.confirm.Open() {
		return a.confirm.HandleKey(key), nil
	}

	prev := a.tabBar.Active()
	switch {
	case key.Matches('q'):
		a.confirm.Ask("¿Salir del panel de KPIs?", func() vxfw.Command {
			a.Stop()
			return vxfw.QuitCmd{}
		})
	case key.Matches('r'):
		tab := a.tabBar.Active()
		if !a.manual.Do(func() {
			go func() {
				err := a.loadTab(a.ctx, tab)
				if err != nil {
					a.Notify(present.LevelError, "Error cargando contenido")
				}
				a.post(views.ViewLoaded{Tab: tab, Err: err})
			}()
		}) {
			a.Notify(present.LevelInfo, "Actualización en curso, espere un momento")
		}
	case key.Matches('1'):
		a.tabBar.SetActive(TabKPIs)
	case key.Matches('2'):
		a.tabBar.SetActive(TabMetrics)
	case key.Matches(vaxis.KeyTab):
		a.tabBar.Next()
	case key.Matches(vaxis.KeyTab, vaxis.ModShift):
		a.tabBar.Prev()
	default:
		return nil, nil
	}
	if a.tabBar.Active() != prev {
		a.refetchIfStale()
	}
	return vxfw.ConsumeAndRedraw(), nil
}

// refetchIfStale reloads the metrics view if its data has become stale.
func (a *App) refetchIfStale() {
	if a.tabBar.Active() == TabMetrics && a.metrics != nil && a.metrics.Stale() {
		a.LoadMetrics(a.ctx)
	}
}

// HandleEvent handles terminal visibility and custom events, delegating the
// rest to the active view. vaxis.FocusIn and FocusOut are widget focus here,
// not terminal focus, and go to the view like any other event.
func (a *App) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	switch ev := ev.(type) {
	case views.VisibilityChanged:
		a.SetVisible(ev.Visible)
		if ev.Visible {
			return vxfw.RedrawCmd{}, nil
		}
		return nil, nil
	case views.ViewLoaded:
		if ev.Err != nil {
			a.logger.Printf("error loading tab %d: %v", ev.Tab, ev.Err)
		}
		return vxfw.RedrawCmd{}, nil
	case views.DashboardUpdated, views.NotificationExpired:
		return vxfw.RedrawCmd{}, nil
	default:
		type handler interface {
			HandleEvent(vaxis.Event, vxfw.EventPhase) (vxfw.Command, error)
		}
		if h, ok := a.activeView().(handler); ok {
			return h.HandleEvent(ev, phase)
		}
	}
	return nil, nil
}
