package dateinput

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnknownDate = errors.New("unrecognised date")

	ordinal = regexp.MustCompile(`([0-9])(st|nd|rd|th)`)
)

// Parse reads a due date typed by a person, relative to now. It understands
// "today", "tomorrow", weekday names, "in 3 days" style offsets and a set of
// absolute day/month formats, each accepted by prefix where unambiguous.
// An empty string means no due date and returns nil.
func Parse(s string, now time.Time) (*time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}
	today := StartOfDay(now)
	for i, word := range []string{"today", "tomorrow"} {
		if strings.HasPrefix(word, s) {
			d := today.AddDate(0, 0, i)
			return &d, nil
		}
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.HasPrefix(strings.ToLower(wd.String()), s) {
			d := nextWeekday(today, wd)
			return &d, nil
		}
	}
	if days, err := parseRelative(s); err == nil {
		d := today.AddDate(0, 0, days)
		return &d, nil
	}
	s = ordinal.ReplaceAllString(s, "$1")
	if d, err := parseAbsolute(s, today); err == nil {
		return &d, nil
	}
	return nil, ErrUnknownDate
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// nextWeekday is the first day on or after t that falls on d
func nextWeekday(t time.Time, d time.Weekday) time.Time {
	day := d - t.Weekday()
	if day < 0 {
		day += 7
	}
	return t.AddDate(0, 0, int(day))
}

type multiplier struct {
	key   string
	value int
}

var multipliers = []multiplier{
	{"days", 1},
	{"weeks", 7},
	{"months", 30},
	{"years", 365},
}

// parseRelative returns the number of days an offset such as "in 2 weeks"
// stands for.
func parseRelative(s string) (int, error) {
	s = strings.TrimPrefix(s, "in")
	s = strings.TrimSpace(s)
	var n int
	// parse quantity
	{
		i := 0
		for i < len(s) {
			n1, err := strconv.Atoi(s[:i+1])
			// first one can not fail
			if err != nil {
				if i == 0 {
					return 0, err
				}
				break
			}
			n = n1
			i++
		}
		if i == 0 {
			return 0, errors.New("missing quantity")
		}
		s = strings.TrimSpace(s[i:])
	}

	mult := 1
	if len(s) > 0 {
		mult = 0
		for _, m := range multipliers {
			if strings.HasPrefix(m.key, s) {
				mult = m.value
				break
			}
		}
		if mult == 0 {
			return 0, errors.New("unexpected postfix")
		}
	}
	return n * mult, nil
}

func parseAnyFormat(s string) (time.Time, string, error) {
	for _, layout := range formats {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, layout, nil
		}
	}
	return time.Time{}, "", errors.New("format not found")
}

// parseAbsolute fills in the year, and the month for a bare day number,
// from now.
func parseAbsolute(s string, now time.Time) (time.Time, error) {
	t, layout, err := parseAnyFormat(s)
	if err != nil {
		return t, err
	}
	year, month := t.Year(), t.Month()
	if year == 0 {
		year = now.Year()
	}
	if layout == "_2" {
		month = now.Month()
	}
	return time.Date(year, month, t.Day(), 0, 0, 0, 0, now.Location()), nil
}

var formats = []string{
	"_2",
	"_2/01",
	"_2/01/06",
	"_2/01/2006",
	"_2-01",
	"_2-01-06",
	"_2-01-2006",
	"2006-01-02",
	"Jan _2",
	"Jan _2 06",
	"Jan _2 2006",
	"January _2",
	"January _2 06",
	"January _2 2006",
	"_2 Jan",
	"_2 Jan 06",
	"_2 Jan 2006",
	"_2 January",
	"_2 January 06",
	"_2 January 2006",
}

// Relative describes t as a distance from now, the way due dates are shown
// next to a task.
func Relative(t, now time.Time) string {
	diff := StartOfDay(t).Sub(StartOfDay(now))
	switch days := int(diff.Round(time.Hour).Hours()) / 24; {
	case days < 0:
		return plural(-days, "day") + " overdue"
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days < 14:
		return plural(days, "day")
	// max 1 month
	case days <= 31:
		return plural(days/7, "week")
	default:
		return plural(days/31, "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
