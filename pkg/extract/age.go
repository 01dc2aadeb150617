package extract

import (
	"math"
	"strings"
	"time"
)

// Payload inception dates come ISO-first; page text shows day-first dates
// with either two- or four-digit years. The lists are kept apart because
// the two sources disagree on what "01/02/03" means.
var (
	payloadDateLayouts = []string{"2006-1-2", "2-1-2006", "2/1/2006", "2006/1/2"}
	textDateLayouts    = []string{"2/1/2006", "2-1-2006", "2/1/06", "2-1-06"}
)

const (
	daysPerYear   = 365.25
	secondsPerDay = 24 * 60 * 60
)

// parseDate tries layouts in order and returns the first successful parse.
func parseDate(s string, layouts []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ageYears returns whole days elapsed between inception and now, in years,
// rounded to two decimals.
func ageYears(inception, now time.Time) float64 {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(inception.Year(), inception.Month(), inception.Day(), 0, 0, 0, 0, time.UTC)
	days := float64((today.Unix() - start.Unix()) / secondsPerDay)
	return math.Round(days/daysPerYear*100) / 100
}

// ageFromDate parses an inception date and converts it to an age.
func ageFromDate(raw string, layouts []string, now time.Time) (float64, bool) {
	inception, ok := parseDate(raw, layouts)
	if !ok {
		return 0, false
	}
	return ageYears(inception, now), true
}
