package views

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"github.com/dustin/go-humanize"
	"github.com/sacsbd/sacs-tui/internal/kpi"
	"github.com/sacsbd/sacs-tui/internal/util"
	"github.com/sacsbd/sacs-tui/widgets"
)

// MetricsViewParams holds configuration for creating a MetricsView.
type MetricsViewParams struct {
	Service  kpi.ServiceAPI
	StaleTTL time.Duration
	Operator string
}

// MetricsView displays server health gauges and backup status.
type MetricsView struct {
	service  kpi.ServiceAPI
	staleTTL time.Duration
	operator string

	mu       sync.Mutex
	metrics  *kpi.Metrics
	cpuSpark *widgets.Sparkline
	loaded   bool
	loadedAt time.Time
	loadErr  error
}

// NewMetricsView creates a MetricsView backed by the given params.
func NewMetricsView(p MetricsViewParams) *MetricsView {
	return &MetricsView{
		service:  p.Service,
		staleTTL: p.StaleTTL,
		operator: p.Operator,
		cpuSpark: widgets.NewSparkline(60),
	}
}

// Load fetches metrics from the service.
func (mv *MetricsView) Load(ctx context.Context) error {
	m, err := mv.service.FetchMetrics(ctx)
	mv.mu.Lock()
	defer mv.mu.Unlock()
	if err != nil {
		mv.loadErr = err
		return err
	}
	mv.loadErr = nil
	mv.metrics = m
	mv.cpuSpark.Push(m.CPUUsage)
	mv.loaded = true
	mv.loadedAt = time.Now()
	return nil
}

// Loaded reports whether data has been successfully fetched.
func (mv *MetricsView) Loaded() bool {
	mv.mu.Lock()
	defer mv.mu.Unlock()
	return mv.loaded
}

// Stale reports whether the cached data is older than the configured TTL.
func (mv *MetricsView) Stale() bool {
	mv.mu.Lock()
	defer mv.mu.Unlock()
	if !mv.loaded {
		return true
	}
	return time.Since(mv.loadedAt) > mv.staleTTL
}

// Err returns the error from the last failed Load, or nil.
func (mv *MetricsView) Err() error {
	mv.mu.Lock()
	defer mv.mu.Unlock()
	return mv.loadErr
}

// Metrics returns the last loaded metrics.
func (mv *MetricsView) Metrics() *kpi.Metrics {
	mv.mu.Lock()
	defer mv.mu.Unlock()
	return mv.metrics
}

// Draw renders gauges for CPU, memory and disk followed by a status table.
func (mv *MetricsView) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	if !mv.Loaded() {
		return drawPlaceholder(ctx, mv, mv.Err())
	}

	mv.mu.Lock()
	defer mv.mu.Unlock()
	m := mv.metrics

	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, mv)
	row := 0
	barWidth := 20

	// === Header row ===
	headerSegments := []vaxis.Segment{
		{Text: " Servidor  ", Style: vaxis.Style{Attribute: vaxis.AttrBold}},
		{Text: "Up " + m.ServerUptime + "  ", Style: vaxis.Style{Attribute: vaxis.AttrDim}},
	}
	if mv.operator != "" {
		headerSegments = append(headerSegments, vaxis.Segment{Text: "Turno: " + mv.operator})
	}
	header := richtext.New(headerSegments)
	headerSurf, err := header.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, row, headerSurf)
	row++

	// === CPU gauge + sparkline ===
	cpuGauge := &widgets.BarGauge{Label: "CPU", Value: m.CPUUsage, BarWidth: barWidth}
	cpuSurf, err := cpuGauge.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, row, cpuSurf)

	if mv.cpuSpark.Count() > 0 {
		gaugeWidth := 5 + 1 + barWidth + 1 + 7 // "LABL [bars] XX.X%"
		sparkWidth := int(ctx.Max.Width) - gaugeWidth - 2
		if sparkWidth > 0 {
			sparkSurf, sparkErr := mv.cpuSpark.Draw(ctx.WithMax(vxfw.Size{Width: uint16(sparkWidth), Height: 1}))
			if sparkErr == nil {
				s.AddChild(gaugeWidth+2, row, sparkSurf)
			}
		}
	}
	row++

	// === MEM and DISK gauges ===
	for _, g := range []*widgets.BarGauge{
		{Label: "MEM", Value: m.MemoryUsage, BarWidth: barWidth},
		{Label: "DISK", Value: m.DiskUsage, BarWidth: barWidth, Warn: 75, Crit: 90},
	} {
		gSurf, err := g.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, row, gSurf)
		row++
	}

	// === Blank separator ===
	row++

	// === Status table ===
	lastBackup := m.LastBackup
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", m.LastBackup, time.Local); err == nil {
		lastBackup = fmt.Sprintf("%s (%s)", util.FormatDate(t), humanize.Time(t))
	}
	table := &widgets.Table{
		Columns: []widgets.TableColumn{
			{Width: 20, Style: vaxis.Style{Attribute: vaxis.AttrBold}},
			{Width: int(ctx.Max.Width) - 22},
		},
		Header: []string{" ESTADO", ""},
		Rows: [][]string{
			{" Red", networkLabel(m.NetworkStatus)},
			{" Conexiones activas", humanize.Comma(m.ActiveConnections)},
			{" Cola de backups", humanize.Comma(m.BackupQueue)},
			{" Último backup", lastBackup},
		},
		Gap:       2,
		CellStyle: statusStyle,
	}
	remaining := int(ctx.Max.Height) - row
	if remaining > 0 {
		tableSurf, err := table.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: uint16(remaining)}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, row, tableSurf)
	}

	return s, nil
}

// statusStyle colours the network row when it is not stable and the backup
// queue row when jobs are waiting.
func statusStyle(row, col int, text string) (vaxis.Style, bool) {
	if col != 1 {
		return vaxis.Style{}, false
	}
	switch {
	case row == 0 && text != "estable":
		return vaxis.Style{Foreground: vaxis.IndexColor(1)}, true
	case row == 2 && text != "0":
		return vaxis.Style{Foreground: vaxis.IndexColor(3)}, true
	}
	return vaxis.Style{}, false
}

func networkLabel(status string) string {
	switch strings.ToLower(status) {
	case "stable":
		return "estable"
	case "":
		return "desconocido"
	}
	return status
}

// HandleEvent has no view-local bindings.
func (mv *MetricsView) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	return nil, nil
}
