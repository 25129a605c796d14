package probe

import (
	"fmt"
	"time"
)

// FormatBytes renders a byte count the way original_source/pmo/service.py's
// format_memory does: kb below 1MB, gb above 1024MB, mb otherwise.
func FormatBytes(n uint64) string {
	const kb = 1024
	const mb = kb * 1024
	const gb = mb * 1024

	switch {
	case n < mb:
		return fmt.Sprintf("%dkb", n/kb)
	case n > 1024*mb:
		return fmt.Sprintf("%.1fgb", float64(n)/float64(gb))
	default:
		return fmt.Sprintf("%dmb", n/mb)
	}
}

// FormatUptime renders a duration as the largest two relevant units, e.g.
// "2h14m" or "45s", matching the original CLI's compact uptime column.
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	mins := d / time.Minute
	d -= mins * time.Minute
	secs := d / time.Second

	switch {
	case days > 0:
		return fmt.Sprintf("%dd%dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh%dm", hours, mins)
	case mins > 0:
		return fmt.Sprintf("%dm%ds", mins, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}
