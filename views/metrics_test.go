package views_test

import (
	"context"
	"testing"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/sacsbd/sacs-tui/internal/kpi"
	"github.com/sacsbd/sacs-tui/views"
)

func mockMetricsParams() views.MetricsViewParams {
	return views.MetricsViewParams{
		Service: &kpi.MockService{
			FetchMetricsFunc: func(ctx context.Context) (*kpi.Metrics, error) {
				return &kpi.Metrics{
					CPUUsage:          37.5,
					MemoryUsage:       64.2,
					DiskUsage:         81,
					NetworkStatus:     "stable",
					ActiveConnections: 2048,
					BackupQueue:       3,
					LastBackup:        "2026-10-17 02:30:00",
					ServerUptime:      "21d 6h",
				}, nil
			},
		},
		StaleTTL: 30 * time.Second,
		Operator: "Ana Ruiz",
	}
}

func TestMetricsView_New(t *testing.T) {
	mv := views.NewMetricsView(mockMetricsParams())
	if mv == nil {
		t.Fatal("expected non-nil MetricsView")
	}
	if mv.Loaded() {
		t.Error("expected not loaded before Load()")
	}
	if !mv.Stale() {
		t.Error("expected stale before Load()")
	}
}

func TestMetricsView_Load(t *testing.T) {
	mv := views.NewMetricsView(mockMetricsParams())
	if err := mv.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mv.Loaded() {
		t.Error("expected loaded after Load()")
	}
	if mv.Stale() {
		t.Error("expected fresh right after Load()")
	}
	if m := mv.Metrics(); m == nil || m.ActiveConnections != 2048 {
		t.Errorf("unexpected metrics %+v", m)
	}
}

func TestMetricsView_Load_Error(t *testing.T) {
	params := mockMetricsParams()
	params.Service = &kpi.MockService{
		FetchMetricsFunc: func(ctx context.Context) (*kpi.Metrics, error) {
			return nil, context.DeadlineExceeded
		},
	}
	mv := views.NewMetricsView(params)
	if err := mv.Load(context.Background()); err == nil {
		t.Fatal("expected error from Load()")
	}
	if mv.Loaded() {
		t.Error("should not be loaded on error")
	}
}

func TestMetricsView_Stale_AfterTTL(t *testing.T) {
	params := mockMetricsParams()
	params.StaleTTL = 10 * time.Millisecond
	mv := views.NewMetricsView(params)
	if err := mv.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if !mv.Stale() {
		t.Error("expected stale after TTL")
	}
}

func TestMetricsView_Draw_BeforeLoad(t *testing.T) {
	mv := views.NewMetricsView(mockMetricsParams())
	if _, err := mv.Draw(testDrawContext(80, 24)); err != nil {
		t.Fatalf("unexpected error drawing before load: %v", err)
	}
}

func TestMetricsView_Draw_AfterLoad(t *testing.T) {
	mv := views.NewMetricsView(mockMetricsParams())
	if err := mv.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	s, err := mv.Draw(testDrawContext(100, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Size.Width != 100 {
		t.Errorf("expected width=100, got %d", s.Size.Width)
	}
	if s.Size.Height != 30 {
		t.Errorf("expected height=30, got %d", s.Size.Height)
	}
	// header, cpu gauge, sparkline, mem, disk, table
	if len(s.Children) != 6 {
		t.Errorf("expected 6 children, got %d", len(s.Children))
	}
}

func TestMetricsView_Draw_SmallTerminal(t *testing.T) {
	mv := views.NewMetricsView(mockMetricsParams())
	if err := mv.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := mv.Draw(testDrawContext(30, 4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMetricsView_HandleEvent(t *testing.T) {
	mv := views.NewMetricsView(mockMetricsParams())
	cmd, err := mv.HandleEvent(vaxis.Key{Keycode: 'j'}, vxfw.EventPhase(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd != nil {
		t.Errorf("expected nil command, got %T", cmd)
	}
}

func TestMetricsView_Draw_LoadError(t *testing.T) {
	params := mockMetricsParams()
	params.Service = &kpi.MockService{
		FetchMetricsFunc: func(ctx context.Context) (*kpi.Metrics, error) {
			return nil, context.DeadlineExceeded
		},
	}
	mv := views.NewMetricsView(params)
	_ = mv.Load(context.Background())
	if mv.Err() == nil {
		t.Fatal("expected Err() after failed Load")
	}

	s, err := mv.Draw(testDrawContext(80, 24))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Children) != 1 {
		t.Errorf("expected a single message row, got %d children", len(s.Children))
	}
}

func TestMetricsView_Load_ClearsError(t *testing.T) {
	fail := true
	params := mockMetricsParams()
	params.Service = &kpi.MockService{
		FetchMetricsFunc: func(ctx context.Context) (*kpi.Metrics, error) {
			if fail {
				return nil, context.DeadlineExceeded
			}
			return &kpi.Metrics{CPUUsage: 5}, nil
		},
	}
	mv := views.NewMetricsView(params)
	_ = mv.Load(context.Background())
	fail = false
	if err := mv.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mv.Err() != nil {
		t.Errorf("expected error cleared, got %v", mv.Err())
	}
}
