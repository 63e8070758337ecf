package pipeline

import (
	"regexp"
	"strconv"
	"time"
)

var timelinePattern = regexp.MustCompile(`(\d+)\s*(hora|día|dia|semana)`)

// ParseTimeline converts free-text plazos ("2 horas", "3 días",
// "1 semana") into a duration. Unparseable input defaults to 3 days.
func ParseTimeline(timeline string) time.Duration {
	const fallback = 72 * time.Hour

	match := timelinePattern.FindStringSubmatch(timeline)
	if match == nil {
		return fallback
	}
	amount, err := strconv.Atoi(match[1])
	if err != nil || amount <= 0 {
		return fallback
	}
	switch match[2] {
	case "hora":
		return time.Duration(amount) * time.Hour
	case "día", "dia":
		return time.Duration(amount) * 24 * time.Hour
	case "semana":
		return time.Duration(amount) * 7 * 24 * time.Hour
	}
	return fallback
}
