package util //nolint:revive // package name util hosts shared formatting helpers used across HTTP templates

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// FormatNumber abbreviates large counts: 1234 -> "1.2K", 1500000 -> "1.5M".
func FormatNumber[T int | int64 | float64](n T) string {
	v := float64(n)
	switch {
	case v >= 1_000_000:
		return strconv.FormatFloat(v/1_000_000, 'f', 1, 64) + "M"
	case v >= 1_000:
		return strconv.FormatFloat(v/1_000, 'f', 1, 64) + "K"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// FormatPercentage rounds a 0-100 value to a whole percent.
func FormatPercentage(v float64) string {
	return strconv.Itoa(int(math.Round(v))) + "%"
}

// FormatMinutes renders a duration given in minutes as "Xh Ym" or "Xm".
func FormatMinutes(minutes float64) string {
	if minutes >= 60 {
		hours := int(minutes / 60)
		mins := int(math.Round(math.Mod(minutes, 60)))
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return strconv.Itoa(int(math.Round(minutes))) + "m"
}

// FormatDuration is FormatMinutes for a time.Duration.
func FormatDuration(d time.Duration) string {
	return FormatMinutes(d.Minutes())
}

// FormatAgo renders t relative to now, e.g. "3 minutes ago".
// Returns "—" for the zero time.
func FormatAgo(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < 45*time.Second:
		return "less than a minute ago"
	case d < 90*time.Second:
		return "1 minute ago"
	case d < 45*time.Minute:
		return plural(int(math.Round(d.Minutes())), "minute") + " ago"
	case d < 90*time.Minute:
		return "about 1 hour ago"
	case d < 24*time.Hour:
		return "about " + plural(int(math.Round(d.Hours())), "hour") + " ago"
	case d < 48*time.Hour:
		return "1 day ago"
	default:
		return plural(int(d.Hours()/24), "day") + " ago"
	}
}

// FormatMillis renders an optional execution time in milliseconds.
func FormatMillis(ms *int64) string {
	if ms == nil {
		return "—"
	}
	return strconv.FormatInt(*ms, 10) + "ms"
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
