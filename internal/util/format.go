// Package util holds the formatting, validation and timing helpers shared by
// the dashboard views and the CLI.
package util

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
)

var byteUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count with 1024-based units, rounded to the
// given number of decimals with trailing zeros removed.
func FormatBytes(bytes float64, decimals int) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	if decimals < 0 {
		decimals = 0
	}
	i := int(math.Floor(math.Log(math.Abs(bytes)) / math.Log(1024)))
	if i < 0 {
		i = 0
	}
	if i >= len(byteUnits) {
		i = len(byteUnits) - 1
	}
	v := bytes / math.Pow(1024, float64(i))
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', decimals, 64), 64)
	return humanize.Ftoa(rounded) + " " + byteUnits[i]
}

var monthsES = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"}

const nbsp = "\u00a0"

// FormatDate renders t in the short es-CO form with a 12-hour clock, e.g.
// "17 de oct de 2026, 02:05 p. m.". The spaces around the day period are
// non-breaking.
func FormatDate(t time.Time) string {
	hour, period := t.Hour()%12, "a." + nbsp + "m."
	if hour == 0 {
		hour = 12
	}
	if t.Hour() >= 12 {
		period = "p." + nbsp + "m."
	}
	return fmt.Sprintf("%d de %s de %d, %02d:%02d%s%s",
		t.Day(), monthsES[t.Month()-1], t.Year(), hour, t.Minute(), nbsp, period)
}

// FormatCurrency renders amount as Colombian pesos, e.g. "$ 1.234.567,89"
// with a non-breaking space after the symbol.
func FormatCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "$" + nbsp + humanize.FormatFloat("#.###,##", amount)
}

// FormatCount renders a counter value with thousands separators.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^(\+57|57|0)?[1-9]\d{8,9}$`)
)

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsValidPhone reports whether s is a Colombian phone number. Whitespace is ignored.
func IsValidPhone(s string) bool {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return phoneRe.MatchString(stripped)
}
