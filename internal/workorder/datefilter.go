// internal/workorder/datefilter.go
package workorder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateFilter is a resolved date constraint on the project start date.
// Exact holds a single day; otherwise Start/End bound an inclusive range.
type dateFilter struct {
	Exact string
	Start string
	End   string
}

var (
	exactDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	yearMonthPattern = regexp.MustCompile(`^\d{4}(?:-\d{2})?$`)
	namedMonthPattern = regexp.MustCompile(`^([A-Za-z]+)\s+(\d{4})$`)
)

var monthNames = func() map[string]time.Month {
	names := map[string]time.Month{}
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		names[full] = m
		names[full[:3]] = m
	}
	return names
}()

// parseDateFilter recognizes a full ISO date, a bare year, a year-month,
// or a "Month YYYY" phrase. Anything else returns nil.
func parseDateFilter(s string) *dateFilter {
	clean := strings.TrimSpace(s)

	if exactDatePattern.MatchString(clean) {
		return &dateFilter{Exact: clean}
	}

	if yearMonthPattern.MatchString(clean) {
		if strings.Contains(clean, "-") {
			parts := strings.SplitN(clean, "-", 2)
			year, _ := strconv.Atoi(parts[0])
			month, err := strconv.Atoi(parts[1])
			if err != nil || month < 1 || month > 12 {
				return nil
			}
			return monthRange(year, time.Month(month))
		}
		return &dateFilter{
			Start: clean + "-01-01",
			End:   clean + "-12-31",
		}
	}

	if m := namedMonthPattern.FindStringSubmatch(clean); len(m) == 3 {
		month, ok := monthNames[strings.ToLower(m[1])]
		if !ok {
			return nil
		}
		year, _ := strconv.Atoi(m[2])
		return monthRange(year, month)
	}

	return nil
}

func monthRange(year int, month time.Month) *dateFilter {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return &dateFilter{
		Start: fmt.Sprintf("%d-%02d-01", year, month),
		End:   fmt.Sprintf("%d-%02d-%02d", year, month, lastDay),
	}
}

// domain translates the filter to a gateway search domain on date_start.
func (f *dateFilter) domain() []interface{} {
	if f.Exact != "" {
		return []interface{}{
			[]interface{}{"date_start", "=", f.Exact},
		}
	}
	return []interface{}{
		[]interface{}{"date_start", ">=", f.Start},
		[]interface{}{"date_start", "<=", f.End},
	}
}
