package views_test

import (
	"sync"
	"testing"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"github.com/sacsbd/sacs-tui/internal/present"
	"github.com/sacsbd/sacs-tui/views"
)

func waitForValue(t *testing.T, kv *views.KPIView, id string, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if v, _ := kv.Value(id); v == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	v, _ := kv.Value(id)
	t.Fatalf("%s: expected %d, got %d", id, want, v)
}

func TestLabel(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"users", "USERS"},
		{"active_sessions", "ACTIVE SESSIONS"},
		{"backup-jobs", "BACKUP JOBS"},
	}
	for _, tc := range tests {
		if got := views.Label(tc.key); got != tc.want {
			t.Errorf("Label(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestKPIView_Has(t *testing.T) {
	kv := views.NewKPIView(views.KPIViewParams{Keys: []string{"users", "sessions"}})

	if !kv.Has(present.ElementID("users")) {
		t.Error("expected card for users")
	}
	if kv.Has(present.ElementID("orders")) {
		t.Error("expected no card for orders")
	}
	if kv.Has("users") {
		t.Error("expected lookups by element id only")
	}
}

func TestKPIView_AnimateCounter(t *testing.T) {
	var (
		mu     sync.Mutex
		frames int
	)
	kv := views.NewKPIView(views.KPIViewParams{
		Keys:      []string{"users"},
		Animation: 200 * time.Millisecond,
		PostEvent: func(ev vaxis.Event) {
			if _, ok := ev.(views.DashboardUpdated); ok {
				mu.Lock()
				frames++
				mu.Unlock()
			}
		},
	})
	id := present.ElementID("users")

	kv.AnimateCounter(id, 100)
	if kv.UpdatedAt().IsZero() {
		t.Error("expected UpdatedAt set on animate")
	}
	waitForValue(t, kv, id, 100)

	mu.Lock()
	defer mu.Unlock()
	if frames < 2 {
		t.Errorf("expected a redraw per frame, got %d", frames)
	}
}

func TestKPIView_AnimateCounter_FloorsTarget(t *testing.T) {
	kv := views.NewKPIView(views.KPIViewParams{Keys: []string{"users"}, Animation: time.Millisecond})
	id := present.ElementID("users")

	kv.AnimateCounter(id, 41.9)
	waitForValue(t, kv, id, 41)
}

func TestKPIView_AnimateCounter_UnknownID(t *testing.T) {
	kv := views.NewKPIView(views.KPIViewParams{Keys: []string{"users"}})

	kv.AnimateCounter("kpi-orders", 10)
	if !kv.UpdatedAt().IsZero() {
		t.Error("expected unknown id to be ignored")
	}
	if _, ok := kv.Value("kpi-orders"); ok {
		t.Error("expected no value for unknown id")
	}
}

func TestKPIView_Notify(t *testing.T) {
	var got string
	kv := views.NewKPIView(views.KPIViewParams{
		Keys: []string{"users"},
		Notify: func(level present.Level, msg string) {
			got = level.String() + ":" + msg
		},
	})

	kv.Notify(present.LevelError, "Error actualizando KPIs")
	if got != "error:Error actualizando KPIs" {
		t.Errorf("unexpected notification %q", got)
	}

	// No Notify func set.
	views.NewKPIView(views.KPIViewParams{}).Notify(present.LevelInfo, "ignored")
}

func TestKPIView_Draw(t *testing.T) {
	kv := views.NewKPIView(views.KPIViewParams{Keys: []string{"users", "sessions", "backups"}})

	s, err := kv.Draw(testDrawContext(80, 24))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Size.Width != 80 || s.Size.Height != 24 {
		t.Errorf("expected 80x24, got %dx%d", s.Size.Width, s.Size.Height)
	}
	// header + three cards
	if len(s.Children) != 4 {
		t.Errorf("expected 4 children, got %d", len(s.Children))
	}
}

func TestKPIView_Draw_WrapsCards(t *testing.T) {
	kv := views.NewKPIView(views.KPIViewParams{Keys: []string{"a", "b", "c"}})

	s, err := kv.Draw(testDrawContext(40, 24))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Children) != 4 {
		t.Fatalf("expected 4 children, got %d", len(s.Children))
	}
	// One card per row at this width: the third card sits two card-heights down.
	if row := s.Children[3].Origin.Row; row != 10 {
		t.Errorf("expected third card at row 10, got %d", row)
	}
}

func TestKPIView_Draw_ClipsToHeight(t *testing.T) {
	kv := views.NewKPIView(views.KPIViewParams{Keys: []string{"a", "b", "c"}})

	s, err := kv.Draw(testDrawContext(30, 7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// header + the one card that fits
	if len(s.Children) != 2 {
		t.Errorf("expected 2 children, got %d", len(s.Children))
	}
}
