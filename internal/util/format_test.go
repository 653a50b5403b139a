package util_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/sacsbd/sacs-tui/internal/util"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    float64
		decimals int
		want     string
	}{
		{0, 2, "0 Bytes"},
		{500, 2, "500 Bytes"},
		{1024, 2, "1 KB"},
		{1536, 2, "1.5 KB"},
		{1234567, 2, "1.18 MB"},
		{1234567, -1, "1 MB"},
		{5 * 1099511627776, 2, "5 TB"},
	}
	for _, tt := range tests {
		got := util.FormatBytes(tt.bytes, tt.decimals)
		if got != tt.want {
			t.Errorf("FormatBytes(%v, %d) = %q, want %q", tt.bytes, tt.decimals, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Date(2026, time.October, 17, 14, 5, 0, 0, time.UTC), "17 de oct de 2026, 02:05\u00a0p.\u00a0m."},
		{time.Date(2026, time.January, 3, 0, 30, 0, 0, time.UTC), "3 de ene de 2026, 12:30\u00a0a.\u00a0m."},
		{time.Date(2026, time.September, 9, 12, 0, 0, 0, time.UTC), "9 de sept de 2026, 12:00\u00a0p.\u00a0m."},
		{time.Date(2026, time.May, 21, 9, 7, 0, 0, time.UTC), "21 de may de 2026, 09:07\u00a0a.\u00a0m."},
	}
	for _, tt := range tests {
		if got := util.FormatDate(tt.at); got != tt.want {
			t.Errorf("FormatDate(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{1234567.89, "$\u00a01.234.567,89"},
		{0, "$\u00a00,00"},
		{-1500, "-$\u00a01.500,00"},
	}
	for _, tt := range tests {
		if got := util.FormatCurrency(tt.amount); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	if got := util.FormatCount(1234567); got != "1,234,567" {
		t.Errorf("FormatCount = %q", got)
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"ops@sacs.co", "a.b@c.d"}
	invalid := []string{"", "ops@", "ops sacs@x.co", "@sacs.co", "ops@sacs"}
	for _, s := range valid {
		if !util.IsValidEmail(s) {
			t.Errorf("expected %q valid", s)
		}
	}
	for _, s := range invalid {
		if util.IsValidEmail(s) {
			t.Errorf("expected %q invalid", s)
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	valid := []string{"3001234567", "+57 300 123 4567", "573001234567", "6011234567", "0123456789"}
	invalid := []string{"", "12345", "0012345678", "+1 300 123 4567"}
	for _, s := range valid {
		if !util.IsValidPhone(s) {
			t.Errorf("expected %q valid", s)
		}
	}
	for _, s := range invalid {
		if util.IsValidPhone(s) {
			t.Errorf("expected %q invalid", s)
		}
	}
}

func TestDebouncer_CollapsesBursts(t *testing.T) {
	var calls atomic.Int32
	d := util.NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })
	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(2 * time.Millisecond)
	}
	time.Sleep(80 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	var calls atomic.Int32
	d := util.NewDebouncer(10*time.Millisecond, func() { calls.Add(1) })
	d.Trigger()
	d.Cancel()
	time.Sleep(40 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("expected no calls after cancel, got %d", got)
	}
}

func TestThrottle_DropsWithinInterval(t *testing.T) {
	th := util.NewThrottle(time.Hour)
	ran := 0
	if !th.Do(func() { ran++ }) {
		t.Fatal("expected first call to run")
	}
	if th.Do(func() { ran++ }) {
		t.Error("expected second call to be dropped")
	}
	if ran != 1 {
		t.Errorf("expected 1 run, got %d", ran)
	}
}
