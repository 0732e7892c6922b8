package carriers

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/araddon/dateparse"
)

var errNoDate = errors.New("no date found")

// Carriers mix numeric, month-name and day-first date styles freely, often
// mid-sentence. The patterns locate a candidate fragment; dateparse reads it.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
	regexp.MustCompile(`\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{1,2},? \d{4}\b`),
	regexp.MustCompile(`\b\d{1,2} (?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{4}\b`),
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
}

// FindDate locates the first date-like fragment in s and parses it.
func FindDate(s string) (time.Time, error) {
	start := -1
	var match string
	for _, re := range datePatterns {
		if loc := re.FindStringIndex(s); loc != nil && (start == -1 || loc[0] < start) {
			start = loc[0]
			match = s[loc[0]:loc[1]]
		}
	}
	if start == -1 {
		return time.Time{}, fmt.Errorf("%w in %q", errNoDate, s)
	}
	t, err := dateparse.ParseAny(match)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", match, err)
	}
	return t, nil
}

// AddOneYear returns the same month and day one year later. February 29 has
// no anniversary, so it advances by the day count of the following calendar
// year instead, landing on February 28.
func AddOneYear(t time.Time) time.Time {
	next := time.Date(t.Year()+1, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if next.Month() == t.Month() {
		return next
	}
	return t.AddDate(0, 0, daysInYear(t.Year()+1))
}

func daysInYear(year int) int {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
