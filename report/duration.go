package report

import (
	"fmt"
	"math"
	"strings"
)

// granularityDefault is the default number of units kept in a humanized
// duration (e.g. "2 weeks, 3 days, 4 hours" keeps 3 of the possibly many
// non-zero units).
const granularityDefault = 3

type interval struct {
	name    string
	seconds float64
}

var intervals = []interval{
	{"millennia", 31536000000},
	{"centuries", 3153600000},
	{"years", 31536000},
	{"weeks", 604800},
	{"days", 86400},
	{"hours", 3600},
	{"minutes", 60},
	{"seconds", 1},
}

// Humanize renders seconds using the default 3-unit granularity.
func Humanize(seconds float64) string {
	return HumanizeDuration(seconds, granularityDefault)
}

// HumanizeDuration renders a non-negative number of seconds as a
// comma-joined list of the largest non-zero units, truncated to
// granularity entries, with correct singular/plural naming.
func HumanizeDuration(seconds float64, granularity int) string {
	if seconds < 1 {
		return "< 1 second"
	}

	var parts []string
	remaining := seconds
	for _, iv := range intervals {
		value := math.Floor(remaining / iv.seconds)
		if value <= 0 {
			continue
		}
		remaining -= value * iv.seconds
		parts = append(parts, fmt.Sprintf("%d %s", int64(value), unitName(iv.name, value)))
	}

	if len(parts) > granularity {
		parts = parts[:granularity]
	}
	return strings.Join(parts, ", ")
}

func unitName(name string, value float64) string {
	if value != 1 {
		return name
	}
	switch name {
	case "centuries":
		return "century"
	case "millennia":
		return "millennium"
	default:
		return strings.TrimSuffix(name, "s")
	}
}
