package mapping

import (
	"regexp"
	"strings"
	"time"
)

// dateFormat pairs a full-match pattern against the literal string with
// the Go layout used for both parsing and rendering. Ordered most
// specific first; the first pattern that matches the whole string decides
// the display format.
type dateFormat struct {
	pattern *regexp.Regexp
	layout  string
}

var dateFormats = []dateFormat{
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), "2006-01-02"},
	{regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`), "01/02/2006"},
	{regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`), "01-02-2006"},
	{regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`), "2006/01/02"},
	{regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`), "1/2/2006"},
	{regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`), "1-2-2006"},
	{regexp.MustCompile(`^[A-Za-z]+ \d{1,2},? \d{4}$`), "January 2, 2006"},
	{regexp.MustCompile(`^\d{1,2} [A-Za-z]+ \d{4}$`), "2 January 2006"},
	{regexp.MustCompile(`^\d{2}/\d{2}/\d{2}$`), "01/02/06"},
}

const fallbackLayout = "01/02/2006"

// fuzzyLayouts are extra parse attempts for strings that carry a date in a
// looser shape (abbreviated months, missing commas, embedded time).
var fuzzyLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006 15:04",
}

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// sameYearDate generates a replacement date in the same year as the
// original, rendered in the original's display format where one was
// detected. The fallback ladder is pattern parse, fuzzy parse, 4-digit
// year search, then an unconstrained random birthdate.
func (g *Generator) sameYearDate(original string) string {
	trimmed := strings.TrimSpace(original)

	layout := ""
	year := 0
	for _, f := range dateFormats {
		if !f.pattern.MatchString(trimmed) {
			continue
		}
		layout = f.layout
		if t, err := time.Parse(f.layout, trimmed); err == nil {
			year = t.Year()
		}
		break
	}

	if year == 0 {
		year = fuzzyYear(trimmed)
	}
	if year == 0 {
		if m := yearPattern.FindString(trimmed); m != "" {
			if t, err := time.Parse("2006", m); err == nil {
				year = t.Year()
			}
		}
	}

	if year == 0 {
		// No year anywhere: random date of birth
		now := time.Now()
		dob := g.faker.DateRange(now.AddDate(-80, 0, 0), now.AddDate(-18, 0, 0))
		return dob.Format(fallbackLayout)
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	fake := g.faker.DateRange(start, end)

	if layout == "" {
		layout = fallbackLayout
	}
	return fake.Format(layout)
}

func fuzzyYear(s string) int {
	for _, layout := range fuzzyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year()
		}
	}
	return 0
}
