package tail

import (
	"regexp"
	"time"
)

// Line is one parsed log line, tagged with the service and stream it came
// from for the "all services" merged mode.
type Line struct {
	Service   string
	Stream    string // "out" or "error"
	Timestamp time.Time
	Content   string
}

// timestampPattern matches a leading ISO-8601-ish timestamp, optionally
// bracketed, the same shapes original_source/pmo/logs.py:_parse_log_line
// recognizes: "YYYY-MM-DD HH:MM:SS[.fff]" with or without square brackets.
var timestampPattern = regexp.MustCompile(`^\[?(\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}(?:\.\d+)?)\]?\s*`)

const layoutNoFrac = "2006-01-02 15:04:05"
const layoutFrac = "2006-01-02 15:04:05.000000"

// parseLine splits a leading timestamp from the rest of line, or
// synthesizes one from now when none is present, preserving content
// verbatim either way.
func parseLine(line string, now time.Time) (time.Time, string) {
	m := timestampPattern.FindStringSubmatchIndex(line)
	if m == nil {
		return now, line
	}
	raw := line[m[2]:m[3]]
	rest := line[m[1]:]

	normalized := raw
	if len(normalized) > 10 && normalized[10] == 'T' {
		normalized = normalized[:10] + " " + normalized[11:]
	}

	layout := layoutNoFrac
	if dot := indexByte(normalized, '.'); dot >= 0 {
		// pad/truncate fractional part isn't needed: when parsing,
		// time.Parse accepts a fraction of any length right after the
		// seconds field even though layoutNoFrac does not spell it out.
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, rest
		}
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, rest
		}
		return now, line
	}

	if t, err := time.Parse(layout, normalized); err == nil {
		return t, rest
	}
	return now, line
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
