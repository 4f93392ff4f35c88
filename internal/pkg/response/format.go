package response

import (
	"time"

	"github.com/dustin/go-humanize"
)

// FormatNumber renders n with comma separators: 1234567 -> "1,234,567".
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

func FormatDateTime(t time.Time) string {
	return t.Format("Jan 2, 2006, 03:04 PM")
}

// RelativeTime gives "just now", "N minutes ago" and so on up to a month,
// then falls back to the date.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d >= 30*24*time.Hour:
		return FormatDate(t)
	default:
		return humanize.RelTime(t, now, "ago", "from now")
	}
}
