package widgets_test

import (
	"strings"
	"testing"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/sacsbd/sacs-tui/widgets"
)

// rowText joins the graphemes of one surface row.
func rowText(s vxfw.Surface, row int) string {
	var b strings.Builder
	w := int(s.Size.Width)
	for _, c := range s.Buffer[row*w : (row+1)*w] {
		b.WriteString(c.Character.Grapheme)
	}
	return b.String()
}

func TestCounterCard_Draw(t *testing.T) {
	card := &widgets.CounterCard{Label: "USERS", Value: "1,234", Delta: 12}

	s, err := card.Draw(testDrawContext(26, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Size.Height != widgets.CounterCardHeight {
		t.Errorf("expected height=%d, got %d", widgets.CounterCardHeight, s.Size.Height)
	}
	if !strings.Contains(rowText(s, 0), "USERS") {
		t.Errorf("expected title on top border, got %q", rowText(s, 0))
	}
	if !strings.Contains(rowText(s, 1), "1,234") {
		t.Errorf("expected value on row 1, got %q", rowText(s, 1))
	}
	if !strings.Contains(rowText(s, 2), "▲ 12") {
		t.Errorf("expected delta on row 2, got %q", rowText(s, 2))
	}
}

func TestCounterCard_Draw_NegativeDelta(t *testing.T) {
	card := &widgets.CounterCard{Label: "BACKUPS", Value: "3", Delta: -1500}

	s, err := card.Draw(testDrawContext(26, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rowText(s, 2), "▼ 1,500") {
		t.Errorf("expected negative delta, got %q", rowText(s, 2))
	}
	if got := s.Buffer[26*2+2].Style.Foreground; got != vaxis.IndexColor(1) {
		t.Errorf("expected red delta, got %v", got)
	}
}

func TestCounterCard_Draw_NoDelta(t *testing.T) {
	card := &widgets.CounterCard{Label: "SESSIONS", Value: "0"}

	s, err := card.Draw(testDrawContext(26, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.ContainsAny(rowText(s, 2), "▲▼") {
		t.Errorf("expected no delta marker, got %q", rowText(s, 2))
	}
}

func TestCounterCard_Draw_WithHistory(t *testing.T) {
	history := widgets.NewSparkline(10)
	for _, v := range []float64{1, 4, 2, 8} {
		history.Push(v)
	}
	card := &widgets.CounterCard{Label: "USERS", Value: "8", History: history}

	s, err := card.Draw(testDrawContext(26, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Children) != 1 {
		t.Errorf("expected sparkline child, got %d children", len(s.Children))
	}
}

func TestCounterCard_Draw_TooNarrow(t *testing.T) {
	card := &widgets.CounterCard{Label: "USERS", Value: "1"}

	s, err := card.Draw(testDrawContext(3, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Size.Width != 3 {
		t.Errorf("expected width=3, got %d", s.Size.Width)
	}
}

func TestCounterCard_Draw_LongValueTruncated(t *testing.T) {
	card := &widgets.CounterCard{Label: "USERS", Value: "123,456,789,012,345"}

	s, err := card.Draw(testDrawContext(12, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g := s.Buffer[11+12].Character.Grapheme; g != "│" {
		t.Errorf("expected right border intact, got %q", g)
	}
}
