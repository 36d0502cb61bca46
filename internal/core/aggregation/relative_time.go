package aggregation

import (
	"strconv"
	"strings"
	"time"
)

// relativeUnit maps a unit suffix to its subtraction behavior. Fixed-length
// units carry a duration; calendar units (months, years) use calendar
// arithmetic so variable month lengths and leap years are respected.
type relativeUnit struct {
	suffix   string
	fixed    time.Duration // zero for calendar units
	months   int
	years    int
}

// Probed in order. Two-character suffixes come first so "-3mo" is read as
// three months, not three minutes followed by a stray 'o'.
var relativeUnits = []relativeUnit{
	{suffix: "mo", months: 1},
	{suffix: "d", fixed: 24 * time.Hour},
	{suffix: "h", fixed: time.Hour},
	{suffix: "m", fixed: time.Minute},
	{suffix: "w", fixed: 7 * 24 * time.Hour},
	{suffix: "y", years: 1},
}

// Absolute timestamp layouts accepted for start/end query parameters.
var absoluteLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseRelativeTime resolves a time expression against a reference instant.
//
// Accepted forms:
//   - "now()" or "now": the reference instant itself
//   - "-<N><unit>" with unit d/h/m/w/mo/y, e.g. "-90d", "-1mo"
//   - an absolute ISO-8601 timestamp
//
// Anything else resolves to the reference instant. Query parameters arrive
// straight from the browser, so an unparseable expression degrades to "now"
// rather than failing the request.
func ParseRelativeTime(expr string, ref time.Time) time.Time {
	expr = strings.TrimSpace(expr)

	if expr == "now()" || expr == "now" {
		return ref
	}

	if t, ok := parseOffset(expr, ref); ok {
		return t
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, expr); err == nil {
			return t
		}
	}

	return ref
}

// parseOffset handles the "-<N><unit>" form.
func parseOffset(expr string, ref time.Time) (time.Time, bool) {
	if !strings.HasPrefix(expr, "-") {
		return time.Time{}, false
	}
	body := expr[1:]

	for _, unit := range relativeUnits {
		rest, ok := strings.CutSuffix(body, unit.suffix)
		if !ok || rest == "" {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			continue
		}
		if unit.fixed != 0 {
			return ref.Add(-time.Duration(n) * unit.fixed), true
		}
		return subtractCalendar(ref, n*unit.years, n*unit.months), true
	}

	return time.Time{}, false
}

// subtractCalendar walks back whole calendar months/years, clamping the day
// of month to the target month's length. time.Time.AddDate is unsuitable
// here: it normalizes Feb 31 forward into March instead of clamping, so
// "one month before March 31" would land in early March.
func subtractCalendar(t time.Time, years, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	total := year*12 + int(month) - 1 - years*12 - months
	targetYear, targetMonth := total/12, time.Month(total%12+1)

	if last := daysInMonth(targetYear, targetMonth); day > last {
		day = last
	}

	return time.Date(targetYear, targetMonth, day, hour, min, sec, t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
